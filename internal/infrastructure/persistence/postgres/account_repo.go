package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/gradpath/merit-portal/internal/domain/identity"
	"github.com/gradpath/merit-portal/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ACCOUNT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

const accountColumns = `id, username, password_hash, role, profile_id, created_at, updated_at`

// AccountRepository implements identity.AccountRepository for PostgreSQL.
type AccountRepository struct {
	q Querier
}

// NewAccountRepository creates a new AccountRepository bound to a pool or
// transaction.
func NewAccountRepository(q Querier) *AccountRepository {
	return &AccountRepository{q: q}
}

// Create creates a new account.
func (r *AccountRepository) Create(ctx context.Context, a *identity.Account) error {
	query := `
		INSERT INTO accounts (id, username, password_hash, role, profile_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.q.Exec(ctx, query,
		a.ID,
		a.Username,
		a.PasswordHash,
		a.Role.String(),
		nullableString(a.ProfileID),
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrAccountAlreadyExists
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// GetByID returns an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*identity.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	return scanAccount(r.q.QueryRow(ctx, query, id))
}

// GetByUsername returns an account by login name.
func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (*identity.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE username = $1`

	return scanAccount(r.q.QueryRow(ctx, query, username))
}

// GetByProfileID returns the account linked to a student or counselor profile.
func (r *AccountRepository) GetByProfileID(ctx context.Context, profileID string) (*identity.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE profile_id = $1`

	return scanAccount(r.q.QueryRow(ctx, query, profileID))
}

// Update updates an existing account.
func (r *AccountRepository) Update(ctx context.Context, a *identity.Account) error {
	query := `
		UPDATE accounts
		SET username = $2, password_hash = $3, role = $4, profile_id = $5, updated_at = $6
		WHERE id = $1
	`

	tag, err := r.q.Exec(ctx, query,
		a.ID,
		a.Username,
		a.PasswordHash,
		a.Role.String(),
		nullableString(a.ProfileID),
		a.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrAccountAlreadyExists
		}
		return fmt.Errorf("failed to update account: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return shared.ErrAccountNotFound
	}

	return nil
}

// Delete removes an account.
func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return shared.ErrAccountNotFound
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Scanning helpers
// ─────────────────────────────────────────────────────────────────────────────

func scanAccount(row pgx.Row) (*identity.Account, error) {
	var (
		a         identity.Account
		role      string
		profileID *string
	)

	err := row.Scan(
		&a.ID,
		&a.Username,
		&a.PasswordHash,
		&role,
		&profileID,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to scan account: %w", err)
	}

	a.Role = identity.Role(role)
	if profileID != nil {
		a.ProfileID = *profileID
	}

	return &a, nil
}
