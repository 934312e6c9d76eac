package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradpath/merit-portal/internal/domain/notification"
	"github.com/gradpath/merit-portal/internal/domain/shared"
)

func rulesHandler(f *fixture) *ManageRulesHandler {
	return NewManageRulesHandler(f.uowFactory(), f.ids, f.bus)
}

func TestCreateRuleBroadcasts(t *testing.T) {
	f := newFixture()
	a := seedStudent(t, f, "2023150201", 2023)
	b := seedStudent(t, f, "2024150202", 2024)
	h := rulesHandler(f)
	ctx := context.Background()

	result, err := h.HandleCreate(ctx, CreateRuleCommand{
		RuleType:    "competition",
		ItemName:    "Республиканская олимпиада, 1 место",
		Description: "Диплом первой степени",
		Score:       "5",
		AuthorID:    "counselor-1",
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 2, result.NotifiedStudents)

	// One outbox entry per student, regardless of cohort.
	for _, sid := range []string{a.ID, b.ID} {
		notes, err := f.notifications.GetByRecipient(ctx, sid, notification.ListOptions{})
		require.NoError(t, err)
		require.Len(t, notes, 1)
		assert.Equal(t, notification.TypeRuleChange, notes[0].Type)
	}

	assert.Len(t, f.bus.ofType(shared.EventRuleCreated), 1)
}

func TestCreateRuleNoStudents(t *testing.T) {
	f := newFixture()
	h := rulesHandler(f)

	result, err := h.HandleCreate(context.Background(), CreateRuleCommand{
		RuleType: "volunteer",
		ItemName: "Донорство крови",
		Score:    "1",
		AuthorID: "counselor-1",
	})
	require.NoError(t, err)
	assert.Zero(t, result.NotifiedStudents)
}

func TestCreateRuleZeroScore(t *testing.T) {
	f := newFixture()
	h := rulesHandler(f)

	_, err := h.HandleCreate(context.Background(), CreateRuleCommand{
		RuleType: "thesis",
		ItemName: "Статья в журнале",
		Score:    "0",
		AuthorID: "counselor-1",
	})
	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))
}

func TestUpdateRuleDoesNotBroadcast(t *testing.T) {
	f := newFixture()
	st := seedStudent(t, f, "2023150203", 2023)
	h := rulesHandler(f)
	ctx := context.Background()

	created, err := h.HandleCreate(ctx, CreateRuleCommand{
		RuleType: "research",
		ItemName: "Патент",
		Score:    "4",
		AuthorID: "counselor-1",
	})
	require.NoError(t, err)

	err = h.HandleUpdate(ctx, UpdateRuleCommand{
		RuleID:   created.RuleID,
		ItemName: "Патент на изобретение",
		Score:    "4.5",
		AuthorID: "counselor-1",
	})
	require.NoError(t, err)

	rule, err := f.rules.GetByID(ctx, created.RuleID)
	require.NoError(t, err)
	assert.Equal(t, "4.5", rule.Score.String())

	// Still just the creation broadcast.
	n, err := f.notifications.CountUnread(ctx, st.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestDeleteRule(t *testing.T) {
	f := newFixture()
	h := rulesHandler(f)
	ctx := context.Background()

	created, err := h.HandleCreate(ctx, CreateRuleCommand{
		RuleType: "social_practice",
		ItemName: "Летняя практика",
		Score:    "2",
		AuthorID: "counselor-1",
	})
	require.NoError(t, err)

	require.NoError(t, h.HandleDelete(ctx, created.RuleID))

	_, err = f.rules.GetByID(ctx, created.RuleID)
	assert.True(t, shared.IsNotFound(err))
}
