// Package identity содержит учётные записи, роли и сессии портала.
// Аутентифицированный принципал - явное размеченное объединение:
// студент, куратор, администратор или учётная запись без профиля.
package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gradpath/merit-portal/internal/domain/counselor"
	"github.com/gradpath/merit-portal/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// ROLES
// ══════════════════════════════════════════════════════════════════════════════

// Role - роль учётной записи.
type Role string

const (
	// RoleStudent - студент; username равен номеру студенческого билета.
	RoleStudent Role = "student"
	// RoleCounselor - куратор; username равен табельному номеру.
	RoleCounselor Role = "counselor"
	// RoleAdmin - администратор портала.
	RoleAdmin Role = "admin"
)

// IsValid проверяет, что роль известна.
func (r Role) IsValid() bool {
	switch r {
	case RoleStudent, RoleCounselor, RoleAdmin:
		return true
	default:
		return false
	}
}

// String возвращает строковое представление.
func (r Role) String() string {
	return string(r)
}

// ══════════════════════════════════════════════════════════════════════════════
// ACCOUNT
// ══════════════════════════════════════════════════════════════════════════════

// Account - учётная запись для входа.
type Account struct {
	// ID - внутренний уникальный идентификатор (UUID в строковом формате).
	ID string

	// Username - логин: номер билета, табельный номер или имя администратора.
	Username string

	// PasswordHash - bcrypt-хеш пароля.
	PasswordHash string

	// Role - роль учётной записи.
	Role Role

	// ProfileID - ID профиля студента или куратора. Пустой у администратора
	// и у записей, профиль которых ещё не создан.
	ProfileID string

	// CreatedAt - время создания записи.
	CreatedAt time.Time

	// UpdatedAt - время последнего обновления.
	UpdatedAt time.Time
}

var (
	// ErrInvalidUsername - невалидный логин.
	ErrInvalidUsername = errors.New("invalid username: must be 4-64 chars without whitespace")

	// ErrInvalidRole - неизвестная роль.
	ErrInvalidRole = errors.New("invalid account role")
)

// NewAccountParams содержит параметры для создания учётной записи.
type NewAccountParams struct {
	ID           string
	Username     string
	PasswordHash string
	Role         Role
	ProfileID    string
}

// NewAccount создаёт новую учётную запись с валидацией.
func NewAccount(params NewAccountParams) (*Account, error) {
	if params.ID == "" {
		return nil, errors.New("account id is required")
	}

	username := strings.TrimSpace(params.Username)
	if len(username) < 4 || len(username) > 64 || strings.ContainsAny(username, " \t\n\r") {
		return nil, ErrInvalidUsername
	}

	if params.PasswordHash == "" {
		return nil, errors.New("password hash is required")
	}

	if !params.Role.IsValid() {
		return nil, ErrInvalidRole
	}

	now := time.Now().UTC()

	return &Account{
		ID:           params.ID,
		Username:     username,
		PasswordHash: params.PasswordHash,
		Role:         params.Role,
		ProfileID:    params.ProfileID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// ChangePassword заменяет хеш пароля.
func (a *Account) ChangePassword(newHash string) {
	a.PasswordHash = newHash
	a.UpdatedAt = time.Now().UTC()
}

// Rename меняет логин (при смене номера билета или табельного номера).
func (a *Account) Rename(username string) error {
	username = strings.TrimSpace(username)
	if len(username) < 4 || len(username) > 64 || strings.ContainsAny(username, " \t\n\r") {
		return ErrInvalidUsername
	}
	a.Username = username
	a.UpdatedAt = time.Now().UTC()
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// IDENTITY (tagged union)
// ══════════════════════════════════════════════════════════════════════════════

// Identity - разрешённый принципал запроса. Ровно одно из полей профиля
// заполнено в зависимости от роли; запись без профиля остаётся Unassigned.
type Identity struct {
	Account   *Account
	Student   *student.Student
	Counselor *counselor.Counselor
}

// IsStudent возвращает true для студента с профилем.
func (i Identity) IsStudent() bool {
	return i.Account != nil && i.Account.Role == RoleStudent && i.Student != nil
}

// IsCounselor возвращает true для куратора с профилем.
func (i Identity) IsCounselor() bool {
	return i.Account != nil && i.Account.Role == RoleCounselor && i.Counselor != nil
}

// IsAdmin возвращает true для администратора.
func (i Identity) IsAdmin() bool {
	return i.Account != nil && i.Account.Role == RoleAdmin
}

// IsUnassigned возвращает true для записи без профиля.
// Такие записи не проходят ни одну ролевую проверку.
func (i Identity) IsUnassigned() bool {
	return i.Account != nil && !i.IsStudent() && !i.IsCounselor() && !i.IsAdmin()
}

// ══════════════════════════════════════════════════════════════════════════════
// SESSION
// ══════════════════════════════════════════════════════════════════════════════

// Session - серверная запись сессии, хранится по непрозрачному токену.
type Session struct {
	Token     string    `json:"token"`
	AccountID string    `json:"account_id"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired проверяет, истекла ли сессия.
func (s Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// ══════════════════════════════════════════════════════════════════════════════
// PORTS
// Реализации находятся в infrastructure.
// ══════════════════════════════════════════════════════════════════════════════

// AccountRepository определяет операции с хранилищем учётных записей.
type AccountRepository interface {
	// Create создаёт учётную запись.
	// Возвращает shared.ErrAccountAlreadyExists при дубликате логина.
	Create(ctx context.Context, a *Account) error

	// GetByID возвращает запись по ID.
	// Возвращает shared.ErrAccountNotFound, если не найдена.
	GetByID(ctx context.Context, id string) (*Account, error)

	// GetByUsername возвращает запись по логину.
	// Возвращает shared.ErrAccountNotFound, если не найдена.
	GetByUsername(ctx context.Context, username string) (*Account, error)

	// GetByProfileID возвращает запись по ID профиля.
	// Возвращает shared.ErrAccountNotFound, если не найдена.
	GetByProfileID(ctx context.Context, profileID string) (*Account, error)

	// Update обновляет запись.
	Update(ctx context.Context, a *Account) error

	// Delete удаляет запись.
	Delete(ctx context.Context, id string) error
}

// PasswordHasher хеширует и проверяет пароли.
type PasswordHasher interface {
	// Hash возвращает хеш пароля.
	Hash(password string) (string, error)

	// Compare сверяет пароль с хешем. Возвращает ошибку при несовпадении.
	Compare(hash, password string) error
}

// SessionStore хранит сессии с TTL.
type SessionStore interface {
	// Save сохраняет сессию до её ExpiresAt.
	Save(ctx context.Context, s Session) error

	// Get возвращает сессию по токену.
	// Возвращает shared.ErrSessionNotFound, если токен неизвестен или истёк.
	Get(ctx context.Context, token string) (Session, error)

	// Delete удаляет сессию (выход из системы).
	Delete(ctx context.Context, token string) error
}
