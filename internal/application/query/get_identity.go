package query

import (
	"context"
	"time"

	"github.com/gradpath/merit-portal/internal/domain/counselor"
	"github.com/gradpath/merit-portal/internal/domain/identity"
	"github.com/gradpath/merit-portal/internal/domain/shared"
	"github.com/gradpath/merit-portal/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET IDENTITY QUERY
// Разрешает токен сессии в полную идентичность: аккаунт плюс профиль
// студента или куратора. Используется HTTP-middleware на каждом запросе.
// ══════════════════════════════════════════════════════════════════════════════

// GetIdentityHandler разрешает токены сессий.
type GetIdentityHandler struct {
	sessionStore  identity.SessionStore
	accountRepo   identity.AccountRepository
	studentRepo   student.Repository
	counselorRepo counselor.Repository
}

// NewGetIdentityHandler создаёт новый обработчик.
func NewGetIdentityHandler(
	sessionStore identity.SessionStore,
	accountRepo identity.AccountRepository,
	studentRepo student.Repository,
	counselorRepo counselor.Repository,
) *GetIdentityHandler {
	return &GetIdentityHandler{
		sessionStore:  sessionStore,
		accountRepo:   accountRepo,
		studentRepo:   studentRepo,
		counselorRepo: counselorRepo,
	}
}

// Handle разрешает токен. Просроченная или неизвестная сессия -
// shared.ErrSessionNotFound.
func (h *GetIdentityHandler) Handle(ctx context.Context, token string) (*identity.Identity, error) {
	if token == "" {
		return nil, shared.ErrSessionNotFound
	}

	sess, err := h.sessionStore.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if sess.IsExpired(time.Now().UTC()) {
		_ = h.sessionStore.Delete(ctx, token)
		return nil, shared.ErrSessionNotFound
	}

	account, err := h.accountRepo.GetByID(ctx, sess.AccountID)
	if err != nil {
		// Аккаунт удалён, сессия осталась: чистим и отказываем.
		_ = h.sessionStore.Delete(ctx, token)
		return nil, shared.ErrSessionNotFound
	}

	id := &identity.Identity{Account: account}

	switch account.Role {
	case identity.RoleStudent:
		st, err := h.studentRepo.GetByID(ctx, account.ProfileID)
		if err != nil {
			return nil, err
		}
		id.Student = st

	case identity.RoleCounselor:
		c, err := h.counselorRepo.GetByID(ctx, account.ProfileID)
		if err != nil {
			return nil, err
		}
		id.Counselor = c

	case identity.RoleAdmin:
		// У администратора нет профиля.
	}

	return id, nil
}
