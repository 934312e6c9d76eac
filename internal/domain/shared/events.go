package shared

import (
	"time"
)

// EventType names a kind of domain event.
type EventType string

// Все типы событий портала. Командные обработчики публикуют их после
// коммита транзакции; подписчики живут в application/eventhandler.
const (
	EventStudentRegistered   EventType = "student.registered"
	EventStudentUpdated      EventType = "student.updated"
	EventStudentScoreUpdated EventType = "student.score_updated"

	EventSubmissionCreated  EventType = "submission.created"
	EventSubmissionApproved EventType = "submission.approved"
	EventSubmissionRejected EventType = "submission.rejected"
	EventSubmissionReset    EventType = "submission.reset"

	EventRuleCreated EventType = "rulebook.rule_created"
	EventRuleUpdated EventType = "rulebook.rule_updated"
	EventRuleDeleted EventType = "rulebook.rule_deleted"
)

// Event is what every domain event can tell a subscriber about itself.
type Event interface {
	EventType() EventType
	OccurredAt() time.Time
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]any
}

// BaseEvent carries the fields common to every event. Concrete events
// embed it and add their own payload fields.
type BaseEvent struct {
	Type          EventType `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	AggregateId   string    `json:"aggregate_id"`
	Version       int       `json:"version"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

func (e BaseEvent) EventType() EventType  { return e.Type }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }
func (e BaseEvent) AggregateID() string   { return e.AggregateId }

// NewBaseEvent stamps an event with its type, aggregate and time.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now(),
		AggregateId: aggregateID,
		Version:     1,
	}
}

// WithCorrelationID attaches the originating request ID so the event can
// be traced back through the logs.
func (e BaseEvent) WithCorrelationID(id string) BaseEvent {
	e.CorrelationID = id
	return e
}

// ═══════════════════════════════════════════════════════════════════════════
// Student Events
// ═══════════════════════════════════════════════════════════════════════════

// StudentRegisteredEvent is emitted when a new student registers.
type StudentRegisteredEvent struct {
	BaseEvent
	StudentNumber string `json:"student_number"`
	FullName      string `json:"full_name"`
	College       string `json:"college"`
	Grade         int    `json:"grade"`
}

func (e StudentRegisteredEvent) Payload() map[string]any {
	return map[string]any{
		"student_number": e.StudentNumber,
		"full_name":      e.FullName,
		"college":        e.College,
		"grade":          e.Grade,
	}
}

// NewStudentRegisteredEvent creates a new StudentRegisteredEvent.
func NewStudentRegisteredEvent(studentID, studentNumber, fullName, college string, grade int) StudentRegisteredEvent {
	return StudentRegisteredEvent{
		BaseEvent:     NewBaseEvent(EventStudentRegistered, studentID),
		StudentNumber: studentNumber,
		FullName:      fullName,
		College:       college,
		Grade:         grade,
	}
}

// StudentProfileUpdatedEvent is emitted when a student edits their own
// contact fields.
type StudentProfileUpdatedEvent struct {
	BaseEvent
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

func (e StudentProfileUpdatedEvent) Payload() map[string]any {
	return map[string]any{
		"full_name": e.FullName,
		"email":     e.Email,
	}
}

// NewStudentProfileUpdatedEvent creates a new StudentProfileUpdatedEvent.
func NewStudentProfileUpdatedEvent(studentID, fullName, email string) StudentProfileUpdatedEvent {
	return StudentProfileUpdatedEvent{
		BaseEvent: NewBaseEvent(EventStudentUpdated, studentID),
		FullName:  fullName,
		Email:     email,
	}
}

// StudentScoreUpdatedEvent is emitted whenever a student's score record changes:
// a subtotal was set or a review outcome was applied or reversed.
type StudentScoreUpdatedEvent struct {
	BaseEvent
	StudentID string `json:"student_id"`
	Component string `json:"component"` // "academic_comprehensive", "academic_expertise", "comprehensive_performance"
	NewValue  string `json:"new_value"` // decimal string
	NewTotal  string `json:"new_total"` // decimal string, empty if undefined
	Reason    string `json:"reason"`    // e.g. "submission_approved", "counselor_set"
}

func (e StudentScoreUpdatedEvent) Payload() map[string]any {
	return map[string]any{
		"student_id": e.StudentID,
		"component":  e.Component,
		"new_value":  e.NewValue,
		"new_total":  e.NewTotal,
		"reason":     e.Reason,
	}
}

// NewStudentScoreUpdatedEvent creates a new StudentScoreUpdatedEvent.
func NewStudentScoreUpdatedEvent(studentID, component, newValue, newTotal, reason string) StudentScoreUpdatedEvent {
	return StudentScoreUpdatedEvent{
		BaseEvent: NewBaseEvent(EventStudentScoreUpdated, studentID),
		StudentID: studentID,
		Component: component,
		NewValue:  newValue,
		NewTotal:  newTotal,
		Reason:    reason,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Submission Events
// ═══════════════════════════════════════════════════════════════════════════

// SubmissionCreatedEvent is emitted when a student uploads a new submission.
type SubmissionCreatedEvent struct {
	BaseEvent
	StudentID string `json:"student_id"`
	Category  string `json:"category"`
	ItemName  string `json:"item_name"`
}

func (e SubmissionCreatedEvent) Payload() map[string]any {
	return map[string]any{
		"student_id": e.StudentID,
		"category":   e.Category,
		"item_name":  e.ItemName,
	}
}

// NewSubmissionCreatedEvent creates a new SubmissionCreatedEvent.
func NewSubmissionCreatedEvent(submissionID, studentID, category, itemName string) SubmissionCreatedEvent {
	return SubmissionCreatedEvent{
		BaseEvent: NewBaseEvent(EventSubmissionCreated, submissionID),
		StudentID: studentID,
		Category:  category,
		ItemName:  itemName,
	}
}

// SubmissionReviewedEvent is emitted for every review outcome:
// approve, reject, and reset all produce one instance with the matching type.
type SubmissionReviewedEvent struct {
	BaseEvent
	StudentID    string `json:"student_id"`
	ReviewerID   string `json:"reviewer_id"`
	Category     string `json:"category"`
	AwardedScore string `json:"awarded_score,omitempty"` // decimal string, approve only
	RejectReason string `json:"reject_reason,omitempty"` // reject only
}

func (e SubmissionReviewedEvent) Payload() map[string]any {
	return map[string]any{
		"student_id":    e.StudentID,
		"reviewer_id":   e.ReviewerID,
		"category":      e.Category,
		"awarded_score": e.AwardedScore,
		"reject_reason": e.RejectReason,
	}
}

// NewSubmissionApprovedEvent creates the approve outcome event.
func NewSubmissionApprovedEvent(submissionID, studentID, reviewerID, category, awardedScore string) SubmissionReviewedEvent {
	return SubmissionReviewedEvent{
		BaseEvent:    NewBaseEvent(EventSubmissionApproved, submissionID),
		StudentID:    studentID,
		ReviewerID:   reviewerID,
		Category:     category,
		AwardedScore: awardedScore,
	}
}

// NewSubmissionRejectedEvent creates the reject outcome event.
func NewSubmissionRejectedEvent(submissionID, studentID, reviewerID, category, reason string) SubmissionReviewedEvent {
	return SubmissionReviewedEvent{
		BaseEvent:    NewBaseEvent(EventSubmissionRejected, submissionID),
		StudentID:    studentID,
		ReviewerID:   reviewerID,
		Category:     category,
		RejectReason: reason,
	}
}

// NewSubmissionResetEvent creates the reset outcome event.
func NewSubmissionResetEvent(submissionID, studentID, reviewerID, category string) SubmissionReviewedEvent {
	return SubmissionReviewedEvent{
		BaseEvent:  NewBaseEvent(EventSubmissionReset, submissionID),
		StudentID:  studentID,
		ReviewerID: reviewerID,
		Category:   category,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Rulebook Events
// ═══════════════════════════════════════════════════════════════════════════

// RuleChangedEvent is emitted when the rule catalog changes.
// Creation, update and deletion share the shape; the type tells them apart.
type RuleChangedEvent struct {
	BaseEvent
	RuleType string `json:"rule_type"`
	ItemName string `json:"item_name"`
	Score    string `json:"score"` // decimal string
	AuthorID string `json:"author_id"`
}

func (e RuleChangedEvent) Payload() map[string]any {
	return map[string]any{
		"rule_type": e.RuleType,
		"item_name": e.ItemName,
		"score":     e.Score,
		"author_id": e.AuthorID,
	}
}

func newRuleEvent(eventType EventType, ruleID, ruleType, itemName, score, authorID string) RuleChangedEvent {
	return RuleChangedEvent{
		BaseEvent: NewBaseEvent(eventType, ruleID),
		RuleType:  ruleType,
		ItemName:  itemName,
		Score:     score,
		AuthorID:  authorID,
	}
}

// NewRuleCreatedEvent creates a new RuleChangedEvent for rule creation.
func NewRuleCreatedEvent(ruleID, ruleType, itemName, score, authorID string) RuleChangedEvent {
	return newRuleEvent(EventRuleCreated, ruleID, ruleType, itemName, score, authorID)
}

// NewRuleUpdatedEvent creates a new RuleChangedEvent for rule updates.
func NewRuleUpdatedEvent(ruleID, ruleType, itemName, score, authorID string) RuleChangedEvent {
	return newRuleEvent(EventRuleUpdated, ruleID, ruleType, itemName, score, authorID)
}

// NewRuleDeletedEvent creates a new RuleChangedEvent for rule deletion.
func NewRuleDeletedEvent(ruleID, ruleType, itemName, score, authorID string) RuleChangedEvent {
	return newRuleEvent(EventRuleDeleted, ruleID, ruleType, itemName, score, authorID)
}

// ═══════════════════════════════════════════════════════════════════════════
// Bus Interfaces
// ═══════════════════════════════════════════════════════════════════════════

// EventHandler is a function that handles an event.
type EventHandler func(event Event) error

// EventPublisher defines the interface for publishing events.
type EventPublisher interface {
	Publish(event Event) error
}

// EventSubscriber defines the interface for subscribing to events.
type EventSubscriber interface {
	// Subscribe registers a handler for an event type.
	Subscribe(eventType EventType, handler EventHandler) error

	// SubscribeAll registers a handler for all events.
	SubscribeAll(handler EventHandler) error
}

// EventBus combines publishing and subscribing.
type EventBus interface {
	EventPublisher
	EventSubscriber
}
