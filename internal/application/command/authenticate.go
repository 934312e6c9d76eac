package command

import (
	"context"
	"errors"
	"time"

	"github.com/gradpath/merit-portal/internal/domain/identity"
	"github.com/gradpath/merit-portal/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// LOGIN / LOGOUT COMMANDS
// Login verifies the password and opens a server-side session; the caller
// gets back an opaque token to put in a cookie. A wrong username and a
// wrong password are indistinguishable to the caller.
// ══════════════════════════════════════════════════════════════════════════════

// LoginCommand contains the login form data.
type LoginCommand struct {
	Username string
	Password string
}

// Validate validates the command.
func (c LoginCommand) Validate() error {
	if c.Username == "" {
		return errors.New("login: username is required")
	}
	if c.Password == "" {
		return errors.New("login: password is required")
	}
	return nil
}

// LoginResult contains the opened session.
type LoginResult struct {
	Success   bool
	Token     string
	Role      identity.Role
	AccountID string
	ExpiresAt time.Time
}

// LoginHandler handles the LoginCommand.
type LoginHandler struct {
	accountRepo  identity.AccountRepository
	hasher       identity.PasswordHasher
	sessionStore identity.SessionStore
	idGenerator  IDGenerator
	sessionTTL   time.Duration
}

// NewLoginHandler creates a new handler.
func NewLoginHandler(
	accountRepo identity.AccountRepository,
	hasher identity.PasswordHasher,
	sessionStore identity.SessionStore,
	idGenerator IDGenerator,
	sessionTTL time.Duration,
) *LoginHandler {
	if sessionTTL <= 0 {
		sessionTTL = 12 * time.Hour
	}
	return &LoginHandler{
		accountRepo:  accountRepo,
		hasher:       hasher,
		sessionStore: sessionStore,
		idGenerator:  idGenerator,
		sessionTTL:   sessionTTL,
	}
}

// Handle verifies credentials and opens a session.
func (h *LoginHandler) Handle(ctx context.Context, cmd LoginCommand) (*LoginResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("identity", "Login", shared.ErrValidation, "invalid command", err)
	}

	account, err := h.accountRepo.GetByUsername(ctx, cmd.Username)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := h.hasher.Compare(account.PasswordHash, cmd.Password); err != nil {
		return nil, shared.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	session := identity.Session{
		Token:     h.idGenerator.GenerateID(),
		AccountID: account.ID,
		Role:      account.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(h.sessionTTL),
	}

	if err := h.sessionStore.Save(ctx, session); err != nil {
		return nil, err
	}

	return &LoginResult{
		Success:   true,
		Token:     session.Token,
		Role:      account.Role,
		AccountID: account.ID,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

// LogoutHandler closes sessions.
type LogoutHandler struct {
	sessionStore identity.SessionStore
}

// NewLogoutHandler creates a new handler.
func NewLogoutHandler(sessionStore identity.SessionStore) *LogoutHandler {
	return &LogoutHandler{sessionStore: sessionStore}
}

// Handle removes the session. Unknown tokens are not an error.
func (h *LogoutHandler) Handle(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	err := h.sessionStore.Delete(ctx, token)
	if err != nil && errors.Is(err, shared.ErrSessionNotFound) {
		return nil
	}
	return err
}
