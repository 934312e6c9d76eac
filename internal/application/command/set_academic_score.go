package command

import (
	"context"
	"errors"
	"time"

	"github.com/gradpath/merit-portal/internal/domain/shared"
	"github.com/gradpath/merit-portal/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// SET ACADEMIC SCORE COMMAND
// A counselor sets a student's academic comprehensive score directly.
// Until this score is set the student's total stays undefined.
// ══════════════════════════════════════════════════════════════════════════════

// SetAcademicScoreCommand contains the form data.
type SetAcademicScoreCommand struct {
	// StudentID is the target student's profile ID.
	StudentID string

	// Score is the academic comprehensive score as a decimal string.
	Score string

	// CounselorCohort scopes visibility: students outside it read as not found.
	CounselorCohort shared.Cohort
}

// Validate validates the command.
func (c SetAcademicScoreCommand) Validate() error {
	if c.StudentID == "" {
		return errors.New("set_academic_score: student_id is required")
	}
	if c.Score == "" {
		return errors.New("set_academic_score: score is required")
	}
	if !c.CounselorCohort.IsValid() {
		return errors.New("set_academic_score: counselor cohort is required")
	}
	return nil
}

// SetAcademicScoreResult contains the result.
type SetAcademicScoreResult struct {
	Success   bool
	StudentID string

	// NewTotal is the recomputed total, always defined after this command.
	NewTotal string

	Events    []shared.Event
	UpdatedAt time.Time
}

// SetAcademicScoreHandler handles the SetAcademicScoreCommand.
type SetAcademicScoreHandler struct {
	studentRepo    student.Repository
	weights        student.ScoreWeights
	eventPublisher shared.EventPublisher
}

// NewSetAcademicScoreHandler creates a new handler.
func NewSetAcademicScoreHandler(studentRepo student.Repository, weights student.ScoreWeights, eventPublisher shared.EventPublisher) *SetAcademicScoreHandler {
	return &SetAcademicScoreHandler{
		studentRepo:    studentRepo,
		weights:        weights,
		eventPublisher: eventPublisher,
	}
}

// Handle sets the score and synchronously recomputes the total.
func (h *SetAcademicScoreHandler) Handle(ctx context.Context, cmd SetAcademicScoreCommand) (*SetAcademicScoreResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("student", "SetAcademicScore", shared.ErrValidation, "invalid command", err)
	}

	score, err := shared.ParseScore(cmd.Score)
	if err != nil {
		return nil, err
	}

	st, err := h.studentRepo.GetByIDInCohort(ctx, cmd.StudentID, cmd.CounselorCohort)
	if err != nil {
		return nil, err
	}

	st.SetAcademicComprehensive(score, h.weights)

	if err := h.studentRepo.Update(ctx, st); err != nil {
		return nil, err
	}

	result := &SetAcademicScoreResult{
		Success:   true,
		StudentID: st.ID,
		NewTotal:  st.Total.String(),
		UpdatedAt: st.UpdatedAt,
	}
	result.Events = append(result.Events, shared.NewStudentScoreUpdatedEvent(
		st.ID, "academic_comprehensive", score.String(), result.NewTotal, "counselor_set"))

	if h.eventPublisher != nil {
		for _, e := range result.Events {
			_ = h.eventPublisher.Publish(e)
		}
	}
	return result, nil
}
