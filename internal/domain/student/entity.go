// Package student содержит доменную модель студента и агрегатор баллов.
// Это ядро бизнес-логики - внешних зависимостей нет, кроме десятичной арифметики.
package student

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gradpath/merit-portal/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// SCORE WEIGHTS
// ══════════════════════════════════════════════════════════════════════════════

// ScoreWeights - явная неизменяемая запись весов итогового балла.
// Итог = academic_comprehensive*AC + academic_expertise*AE + comprehensive_performance*CP.
type ScoreWeights struct {
	AcademicComprehensive    decimal.Decimal
	AcademicExpertise        decimal.Decimal
	ComprehensivePerformance decimal.Decimal
}

// DefaultScoreWeights возвращает веса по умолчанию: 0.6 / 0.2 / 0.2.
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		AcademicComprehensive:    decimal.NewFromFloat(0.6),
		AcademicExpertise:        decimal.NewFromFloat(0.2),
		ComprehensivePerformance: decimal.NewFromFloat(0.2),
	}
}

// NewScoreWeights создаёт веса из строковых значений ("0.6" и т.д.).
func NewScoreWeights(ac, ae, cp string) (ScoreWeights, error) {
	dac, err := decimal.NewFromString(ac)
	if err != nil {
		return ScoreWeights{}, shared.ErrInvalidWeights
	}
	dae, err := decimal.NewFromString(ae)
	if err != nil {
		return ScoreWeights{}, shared.ErrInvalidWeights
	}
	dcp, err := decimal.NewFromString(cp)
	if err != nil {
		return ScoreWeights{}, shared.ErrInvalidWeights
	}
	w := ScoreWeights{AcademicComprehensive: dac, AcademicExpertise: dae, ComprehensivePerformance: dcp}
	if err := w.Validate(); err != nil {
		return ScoreWeights{}, err
	}
	return w, nil
}

// Validate проверяет, что все веса неотрицательны и в сумме дают ровно 1.
func (w ScoreWeights) Validate() error {
	if w.AcademicComprehensive.IsNegative() || w.AcademicExpertise.IsNegative() || w.ComprehensivePerformance.IsNegative() {
		return shared.ErrInvalidWeights
	}
	sum := w.AcademicComprehensive.Add(w.AcademicExpertise).Add(w.ComprehensivePerformance)
	if !sum.Equal(decimal.NewFromInt(1)) {
		return shared.ErrInvalidWeights
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: STUDENT
// ══════════════════════════════════════════════════════════════════════════════

// Student - центральная сущность портала: профиль плюс запись баллов.
type Student struct {
	// ID - внутренний уникальный идентификатор (UUID в строковом формате).
	ID string

	// StudentNumber - номер студенческого билета, он же логин.
	StudentNumber shared.StudentNumber

	// FullName - полное имя студента.
	FullName string

	// College - колледж студента.
	College shared.College

	// Grade - год поступления. College + Grade образуют когорту.
	Grade shared.Grade

	// Major - специальность.
	Major string

	// Phone - контактный телефон (необязателен).
	Phone string

	// Email - электронная почта (уникальна).
	Email string

	// AcademicComprehensive - учебный комплексный балл.
	// nil, пока куратор его не выставил; до этого итог не определён.
	AcademicComprehensive *shared.Score

	// AcademicExpertise - накопленный балл академических достижений.
	AcademicExpertise shared.Score

	// ComprehensivePerformance - накопленный балл общественной активности.
	ComprehensivePerformance shared.Score

	// Total - взвешенный итоговый балл. nil, пока AcademicComprehensive nil.
	Total *shared.Score

	// CreatedAt - время создания записи.
	CreatedAt time.Time

	// UpdatedAt - время последнего обновления.
	UpdatedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrInvalidFullName - невалидное имя.
	ErrInvalidFullName = errors.New("invalid full name: must be 1-100 chars")

	// ErrInvalidMajor - невалидная специальность.
	ErrInvalidMajor = errors.New("invalid major: must be 1-100 chars")

	// ErrInvalidEmail - невалидный email.
	ErrInvalidEmail = errors.New("invalid email")

	// ErrInvalidGroup - неизвестная группа баллов.
	ErrInvalidGroup = errors.New("unknown score group")

	// ErrScoreNotSet - учебный комплексный балл ещё не выставлен.
	ErrScoreNotSet = errors.New("academic comprehensive score is not set")
)

// ══════════════════════════════════════════════════════════════════════════════
// FACTORY & VALIDATION
// ══════════════════════════════════════════════════════════════════════════════

// NewStudentParams содержит параметры для создания нового студента.
type NewStudentParams struct {
	ID            string
	StudentNumber shared.StudentNumber
	FullName      string
	College       shared.College
	Grade         shared.Grade
	Major         string
	Phone         string
	Email         string
}

// NewStudent создаёт нового студента с валидацией всех полей.
// Баллы достижений начинаются с нуля, учебный комплексный балл не определён.
func NewStudent(params NewStudentParams) (*Student, error) {
	if params.ID == "" {
		return nil, errors.New("student id is required")
	}

	if !params.StudentNumber.IsValid() {
		return nil, shared.ErrInvalidStudentNumber
	}

	fullName := strings.TrimSpace(params.FullName)
	if len(fullName) == 0 || len(fullName) > 100 {
		return nil, ErrInvalidFullName
	}

	if !params.College.IsValid() {
		return nil, fmt.Errorf("invalid college: %q", params.College)
	}

	if !params.Grade.IsValid() {
		return nil, fmt.Errorf("invalid grade: %d", params.Grade)
	}

	major := strings.TrimSpace(params.Major)
	if len(major) == 0 || len(major) > 100 {
		return nil, ErrInvalidMajor
	}

	email := strings.TrimSpace(params.Email)
	if !strings.Contains(email, "@") || len(email) > 254 {
		return nil, ErrInvalidEmail
	}

	now := time.Now().UTC()

	return &Student{
		ID:                       params.ID,
		StudentNumber:            params.StudentNumber,
		FullName:                 fullName,
		College:                  params.College,
		Grade:                    params.Grade,
		Major:                    major,
		Phone:                    strings.TrimSpace(params.Phone),
		Email:                    email,
		AcademicComprehensive:    nil,
		AcademicExpertise:        shared.ZeroScore(),
		ComprehensivePerformance: shared.ZeroScore(),
		Total:                    nil,
		CreatedAt:                now,
		UpdatedAt:                now,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN METHODS (Business Logic)
// ══════════════════════════════════════════════════════════════════════════════

// Cohort возвращает когорту студента.
func (s *Student) Cohort() shared.Cohort {
	return shared.Cohort{College: s.College, Grade: s.Grade}
}

// HasTotal возвращает true, если итоговый балл определён.
func (s *Student) HasTotal() bool {
	return s.Total != nil
}

// Recompute пересчитывает итоговый балл по текущим компонентам.
// Пока учебный комплексный балл не выставлен, итог остаётся неопределённым.
func (s *Student) Recompute(weights ScoreWeights) {
	if s.AcademicComprehensive == nil {
		s.Total = nil
		return
	}

	total := s.AcademicComprehensive.Decimal().Mul(weights.AcademicComprehensive).
		Add(s.AcademicExpertise.Decimal().Mul(weights.AcademicExpertise)).
		Add(s.ComprehensivePerformance.Decimal().Mul(weights.ComprehensivePerformance))

	t := shared.ScoreFromDecimal(total)
	s.Total = &t
}

// SetAcademicComprehensive выставляет учебный комплексный балл и
// синхронно пересчитывает итог.
func (s *Student) SetAcademicComprehensive(score shared.Score, weights ScoreWeights) {
	s.AcademicComprehensive = &score
	s.Recompute(weights)
	s.UpdatedAt = time.Now().UTC()
}

// ApplyAward прибавляет присуждённый балл к подытогу группы
// и синхронно пересчитывает итог. Вызывается при одобрении заявки.
func (s *Student) ApplyAward(group shared.ScoreGroup, score shared.Score, weights ScoreWeights) error {
	switch group {
	case shared.GroupAcademic:
		s.AcademicExpertise = s.AcademicExpertise.Add(score)
	case shared.GroupComprehensive:
		s.ComprehensivePerformance = s.ComprehensivePerformance.Add(score)
	default:
		return ErrInvalidGroup
	}

	s.Recompute(weights)
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// ReverseAward вычитает ранее присуждённый балл из подытога группы.
// Вызывается при сбросе одобренной заявки обратно в ожидание.
func (s *Student) ReverseAward(group shared.ScoreGroup, score shared.Score, weights ScoreWeights) error {
	switch group {
	case shared.GroupAcademic:
		s.AcademicExpertise = s.AcademicExpertise.Sub(score)
	case shared.GroupComprehensive:
		s.ComprehensivePerformance = s.ComprehensivePerformance.Sub(score)
	default:
		return ErrInvalidGroup
	}

	s.Recompute(weights)
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// UpdateProfile обновляет редактируемые поля профиля.
func (s *Student) UpdateProfile(fullName, major, phone, email string) error {
	fullName = strings.TrimSpace(fullName)
	if len(fullName) == 0 || len(fullName) > 100 {
		return ErrInvalidFullName
	}

	major = strings.TrimSpace(major)
	if len(major) == 0 || len(major) > 100 {
		return ErrInvalidMajor
	}

	email = strings.TrimSpace(email)
	if !strings.Contains(email, "@") || len(email) > 254 {
		return ErrInvalidEmail
	}

	s.FullName = fullName
	s.Major = major
	s.Phone = strings.TrimSpace(phone)
	s.Email = email
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// String возвращает строковое представление студента для логирования.
func (s *Student) String() string {
	total := "-"
	if s.Total != nil {
		total = s.Total.String()
	}
	return fmt.Sprintf(
		"Student{ID: %s, Number: %s, Cohort: %s, Total: %s}",
		s.ID, s.StudentNumber, s.Cohort(), total,
	)
}

// Clone создаёт глубокую копию студента.
func (s *Student) Clone() *Student {
	if s == nil {
		return nil
	}

	clone := *s
	if s.AcademicComprehensive != nil {
		ac := *s.AcademicComprehensive
		clone.AcademicComprehensive = &ac
	}
	if s.Total != nil {
		t := *s.Total
		clone.Total = &t
	}
	return &clone
}
