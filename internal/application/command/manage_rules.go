package command

import (
	"context"
	"errors"
	"time"

	"github.com/gradpath/merit-portal/internal/domain/notification"
	"github.com/gradpath/merit-portal/internal/domain/rulebook"
	"github.com/gradpath/merit-portal/internal/domain/shared"
	"github.com/gradpath/merit-portal/internal/domain/submission"
)

// ══════════════════════════════════════════════════════════════════════════════
// RULE CATALOG COMMANDS
// Counselors maintain the catalog. Creating a rule broadcasts exactly one
// notification to every student, in the same transaction as the rule row.
// ══════════════════════════════════════════════════════════════════════════════

// CreateRuleCommand contains the form data for a new rule.
type CreateRuleCommand struct {
	RuleType    string
	ItemName    string
	Description string
	Score       string // decimal string, must be > 0
	Remark      string

	// AuthorID is the creating counselor's profile ID.
	AuthorID string
}

// Validate validates the command.
func (c CreateRuleCommand) Validate() error {
	if c.ItemName == "" {
		return errors.New("create_rule: item_name is required")
	}
	if c.Score == "" {
		return errors.New("create_rule: score is required")
	}
	if c.AuthorID == "" {
		return errors.New("create_rule: author_id is required")
	}
	return nil
}

// CreateRuleResult contains the result.
type CreateRuleResult struct {
	Success bool
	RuleID  string

	// NotifiedStudents is how many outbox entries the broadcast produced.
	NotifiedStudents int

	Events    []shared.Event
	CreatedAt time.Time
}

// ManageRulesHandler handles rule catalog commands.
type ManageRulesHandler struct {
	uowFactory     UnitOfWorkFactory
	idGenerator    IDGenerator
	eventPublisher shared.EventPublisher
}

// NewManageRulesHandler creates a new handler.
func NewManageRulesHandler(uowFactory UnitOfWorkFactory, idGenerator IDGenerator, eventPublisher shared.EventPublisher) *ManageRulesHandler {
	return &ManageRulesHandler{
		uowFactory:     uowFactory,
		idGenerator:    idGenerator,
		eventPublisher: eventPublisher,
	}
}

// HandleCreate creates a rule and broadcasts the notification.
func (h *ManageRulesHandler) HandleCreate(ctx context.Context, cmd CreateRuleCommand) (*CreateRuleResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("rulebook", "Create", shared.ErrValidation, "invalid command", err)
	}

	ruleType, err := submission.ParseCategory(cmd.RuleType)
	if err != nil {
		return nil, err
	}

	score, err := shared.ParseScore(cmd.Score)
	if err != nil {
		return nil, err
	}

	result := &CreateRuleResult{}

	err = runInTx(ctx, h.uowFactory, func(uow UnitOfWork) error {
		rule, err := rulebook.NewRule(rulebook.NewRuleParams{
			ID:          h.idGenerator.GenerateID(),
			RuleType:    ruleType,
			ItemName:    cmd.ItemName,
			Description: cmd.Description,
			Score:       score,
			Remark:      cmd.Remark,
			AuthorID:    cmd.AuthorID,
		})
		if err != nil {
			return err
		}

		if err := uow.Rules().Create(ctx, rule); err != nil {
			return err
		}

		studentIDs, err := uow.Students().ListIDs(ctx)
		if err != nil {
			return err
		}

		title, message := notification.RuleCreatedMessage(rule.ItemName, rule.Score)
		batch := make([]*notification.Notification, 0, len(studentIDs))
		for _, sid := range studentIDs {
			n, err := notification.NewNotification(notification.NewNotificationParams{
				ID:          h.idGenerator.GenerateID(),
				RecipientID: sid,
				Type:        notification.TypeRuleChange,
				Title:       title,
				Message:     message,
			})
			if err != nil {
				return err
			}
			batch = append(batch, n)
		}

		if len(batch) > 0 {
			if err := uow.Notifications().CreateBatch(ctx, batch); err != nil {
				return err
			}
		}

		result.RuleID = rule.ID
		result.NotifiedStudents = len(batch)
		result.CreatedAt = rule.CreatedAt
		result.Events = append(result.Events, shared.NewRuleCreatedEvent(
			rule.ID, rule.RuleType.String(), rule.ItemName, rule.Score.String(), rule.AuthorID))
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Success = true
	if h.eventPublisher != nil {
		for _, e := range result.Events {
			_ = h.eventPublisher.Publish(e)
		}
	}
	return result, nil
}

// UpdateRuleCommand contains the form data for editing a rule.
type UpdateRuleCommand struct {
	RuleID      string
	ItemName    string
	Description string
	Score       string
	Remark      string
	AuthorID    string
}

// Validate validates the command.
func (c UpdateRuleCommand) Validate() error {
	if c.RuleID == "" {
		return errors.New("update_rule: rule_id is required")
	}
	if c.ItemName == "" {
		return errors.New("update_rule: item_name is required")
	}
	if c.Score == "" {
		return errors.New("update_rule: score is required")
	}
	return nil
}

// HandleUpdate edits an existing rule. Updates do not broadcast.
func (h *ManageRulesHandler) HandleUpdate(ctx context.Context, cmd UpdateRuleCommand) error {
	if err := cmd.Validate(); err != nil {
		return shared.WrapError("rulebook", "Update", shared.ErrValidation, "invalid command", err)
	}

	score, err := shared.ParseScore(cmd.Score)
	if err != nil {
		return err
	}

	return runInTx(ctx, h.uowFactory, func(uow UnitOfWork) error {
		rule, err := uow.Rules().GetByID(ctx, cmd.RuleID)
		if err != nil {
			return err
		}

		if err := rule.Change(cmd.ItemName, cmd.Description, score, cmd.Remark); err != nil {
			return err
		}

		if err := uow.Rules().Update(ctx, rule); err != nil {
			return err
		}

		if h.eventPublisher != nil {
			_ = h.eventPublisher.Publish(shared.NewRuleUpdatedEvent(
				rule.ID, rule.RuleType.String(), rule.ItemName, rule.Score.String(), cmd.AuthorID))
		}
		return nil
	})
}

// HandleDelete removes a rule from the catalog.
func (h *ManageRulesHandler) HandleDelete(ctx context.Context, ruleID string) error {
	if ruleID == "" {
		return shared.NewDomainError("rulebook", "Delete", shared.ErrValidation, "rule_id is required")
	}

	var ev shared.RuleChangedEvent
	err := runInTx(ctx, h.uowFactory, func(uow UnitOfWork) error {
		rule, err := uow.Rules().GetByID(ctx, ruleID)
		if err != nil {
			return err
		}
		if err := uow.Rules().Delete(ctx, rule.ID); err != nil {
			return err
		}
		ev = shared.NewRuleDeletedEvent(
			rule.ID, rule.RuleType.String(), rule.ItemName, rule.Score.String(), rule.AuthorID)
		return nil
	})
	if err != nil {
		return err
	}

	if h.eventPublisher != nil {
		_ = h.eventPublisher.Publish(ev)
	}
	return nil
}
