// Package student содержит доменную модель студента и агрегатор баллов.
//
// Это ядро бизнес-логики портала GradPath. Пакет определяет:
//
//   - Сущность Student: профиль плюс запись баллов (подытоги и взвешенный итог)
//   - ScoreWeights: явная запись весов итогового балла
//   - Интерфейс репозитория Repository с когортной областью видимости
//
// # Архитектурные принципы
//
// Пакет следует принципам Clean Architecture и DDD:
//
//  1. Внешних зависимостей нет, кроме точной десятичной арифметики
//  2. Dependency Inversion - интерфейсы реализуются в infrastructure
//  3. Rich Domain Model - бизнес-логика инкапсулирована в сущностях
//
// # Модель баллов
//
// Запись баллов состоит из трёх компонентов:
//
//   - AcademicComprehensive: выставляется куратором напрямую; пока он
//     не выставлен, итоговый балл не определён
//   - AcademicExpertise: накапливается одобренными академическими заявками
//   - ComprehensivePerformance: накапливается одобренными заявками
//     общественной активности
//
// Итог пересчитывается синхронно при каждом изменении компонентов:
//
//	st.SetAcademicComprehensive(shared.MustScore("85.0"), weights)
//	_ = st.ApplyAward(shared.GroupAcademic, shared.MustScore("4.0"), weights)
//
// Сброс одобренной заявки обращает её эффект тем же баллом:
//
//	_ = st.ReverseAward(shared.GroupAcademic, shared.MustScore("4.0"), weights)
//
// # Когорты
//
// Когорта (колледж + год поступления) - граница видимости портала.
// Репозиторий предоставляет методы, не отличающие чужой ID от
// несуществующего: GetByIDInCohort возвращает "не найдено" в обоих случаях.
package student
