package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/gradpath/merit-portal/internal/application/command"
	"github.com/gradpath/merit-portal/internal/domain/counselor"
	"github.com/gradpath/merit-portal/internal/domain/identity"
	"github.com/gradpath/merit-portal/internal/domain/notification"
	"github.com/gradpath/merit-portal/internal/domain/rulebook"
	"github.com/gradpath/merit-portal/internal/domain/student"
	"github.com/gradpath/merit-portal/internal/domain/submission"
)

// ══════════════════════════════════════════════════════════════════════════════
// UNIT OF WORK
// ══════════════════════════════════════════════════════════════════════════════

// UnitOfWorkFactory starts pgx transactions and hands them to the command
// layer as command.UnitOfWork.
type UnitOfWorkFactory struct {
	conn *Connection
}

// NewUnitOfWorkFactory creates a factory bound to a connection.
func NewUnitOfWorkFactory(conn *Connection) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{conn: conn}
}

// Begin starts a new read-write transaction.
func (f *UnitOfWorkFactory) Begin(ctx context.Context) (command.UnitOfWork, error) {
	tx, err := f.conn.BeginTx(ctx, DefaultTxOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	return &unitOfWork{tx: tx}, nil
}

// unitOfWork binds every repository to one pgx transaction. The repositories
// accept any Querier, so the same scan and SQL code serves both the pool and
// the transaction paths.
type unitOfWork struct {
	tx pgx.Tx
}

func (u *unitOfWork) Students() student.Repository {
	return NewStudentRepository(u.tx)
}

func (u *unitOfWork) Counselors() counselor.Repository {
	return NewCounselorRepository(u.tx)
}

func (u *unitOfWork) Submissions() submission.Repository {
	return NewSubmissionRepository(u.tx)
}

func (u *unitOfWork) Rules() rulebook.Repository {
	return NewRuleRepository(u.tx)
}

func (u *unitOfWork) Notifications() notification.Repository {
	return NewNotificationRepository(u.tx)
}

func (u *unitOfWork) Accounts() identity.AccountRepository {
	return NewAccountRepository(u.tx)
}

// Commit commits the transaction.
func (u *unitOfWork) Commit(ctx context.Context) error {
	if err := u.tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Rollback aborts the transaction. Calling it after Commit is a no-op.
func (u *unitOfWork) Rollback(ctx context.Context) error {
	err := u.tx.Rollback(ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}
