// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"fmt"

	"github.com/gradpath/merit-portal/internal/domain/counselor"
	"github.com/gradpath/merit-portal/internal/domain/identity"
	"github.com/gradpath/merit-portal/internal/domain/notification"
	"github.com/gradpath/merit-portal/internal/domain/rulebook"
	"github.com/gradpath/merit-portal/internal/domain/student"
	"github.com/gradpath/merit-portal/internal/domain/submission"
)

// ══════════════════════════════════════════════════════════════════════════════
// UNIT OF WORK
// Review outcomes change a submission, a score record, and the outbox at once;
// the unit of work keeps those writes in a single database transaction.
// ══════════════════════════════════════════════════════════════════════════════

// UnitOfWork binds the repositories to one transaction.
type UnitOfWork interface {
	// Students returns the student repository bound to the transaction.
	Students() student.Repository

	// Counselors returns the counselor repository bound to the transaction.
	Counselors() counselor.Repository

	// Submissions returns the submission repository bound to the transaction.
	Submissions() submission.Repository

	// Rules returns the rulebook repository bound to the transaction.
	Rules() rulebook.Repository

	// Notifications returns the notification repository bound to the transaction.
	Notifications() notification.Repository

	// Accounts returns the account repository bound to the transaction.
	Accounts() identity.AccountRepository

	// Commit commits the transaction.
	Commit(ctx context.Context) error

	// Rollback aborts the transaction. Safe to call after Commit.
	Rollback(ctx context.Context) error
}

// UnitOfWorkFactory begins new units of work.
type UnitOfWorkFactory interface {
	// Begin starts a new transaction.
	Begin(ctx context.Context) (UnitOfWork, error)
}

// runInTx runs fn inside a unit of work, committing on success and
// rolling back on error or panic.
func runInTx(ctx context.Context, factory UnitOfWorkFactory, fn func(uow UnitOfWork) error) error {
	uow, err := factory.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = uow.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(uow); err != nil {
		_ = uow.Rollback(ctx)
		return err
	}

	if err := uow.Commit(ctx); err != nil {
		_ = uow.Rollback(ctx)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// IDGenerator generates unique identifiers for new entities.
type IDGenerator interface {
	GenerateID() string
}
