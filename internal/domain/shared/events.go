// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"encoding/json"
	"time"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types - these drive the event-driven architecture.
// Each event represents something significant that happened in the domain.
const (
	// Student events
	EventStudentEnrolled EventType = "student.enrolled"
	EventStudentUpdated  EventType = "student.updated"
	EventStudentArchived EventType = "student.archived"

	// Academic events
	EventGradeRecorded  EventType = "academic.grade_recorded"
	EventGPARecomputed  EventType = "academic.gpa_recomputed"
	EventStandingChanged EventType = "academic.standing_changed"

	// Registration events
	EventRegistrationCreated EventType = "registration.created"
	EventRegistrationDropped EventType = "registration.dropped"

	// Course events
	EventCourseCreated EventType = "course.created"
	EventCourseUpdated EventType = "course.updated"
	EventCourseDeleted EventType = "course.deleted"

	// System events
	EventStandingSweepCompleted EventType = "system.standing_sweep_completed"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type          EventType `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	AggregateId   string    `json:"aggregate_id"`
	Version       int       `json:"version"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now(),
		AggregateId: aggregateID,
		Version:     1,
	}
}

// WithCorrelationID sets the correlation ID for tracing.
func (e BaseEvent) WithCorrelationID(id string) BaseEvent {
	e.CorrelationID = id
	return e
}

// GenericEvent carries no payload beyond the aggregate identity.
// Used for lifecycle notifications like student.updated and
// student.archived where the ID alone is enough for subscribers.
type GenericEvent struct {
	BaseEvent
}

// Payload implements Event interface.
func (e GenericEvent) Payload() map[string]interface{} {
	return map[string]interface{}{}
}

// NewGenericEvent creates a payload-free event.
func NewGenericEvent(eventType EventType, aggregateID string) GenericEvent {
	return GenericEvent{BaseEvent: NewBaseEvent(eventType, aggregateID)}
}

// ═══════════════════════════════════════════════════════════════════════════
// Student Events
// ═══════════════════════════════════════════════════════════════════════════

// StudentEnrolledEvent is emitted when a new student record is created.
type StudentEnrolledEvent struct {
	BaseEvent
	StudentNumber int64  `json:"student_number"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	ProgramID     string `json:"program_id,omitempty"`
}

// Payload implements Event interface.
func (e StudentEnrolledEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"student_number": e.StudentNumber,
		"first_name":     e.FirstName,
		"last_name":      e.LastName,
		"program_id":     e.ProgramID,
	}
}

// NewStudentEnrolledEvent creates a new StudentEnrolledEvent.
func NewStudentEnrolledEvent(studentID string, studentNumber int64, firstName, lastName, programID string) StudentEnrolledEvent {
	return StudentEnrolledEvent{
		BaseEvent:     NewBaseEvent(EventStudentEnrolled, studentID),
		StudentNumber: studentNumber,
		FirstName:     firstName,
		LastName:      lastName,
		ProgramID:     programID,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Academic Events
// ═══════════════════════════════════════════════════════════════════════════

// GradeRecordedEvent is emitted when a registration receives a grade.
type GradeRecordedEvent struct {
	BaseEvent
	StudentID      string  `json:"student_id"`
	RegistrationID string  `json:"registration_id"`
	CourseID       string  `json:"course_id"`
	Grade          float64 `json:"grade"`
}

// Payload implements Event interface.
func (e GradeRecordedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"student_id":      e.StudentID,
		"registration_id": e.RegistrationID,
		"course_id":       e.CourseID,
		"grade":           e.Grade,
	}
}

// NewGradeRecordedEvent creates a new GradeRecordedEvent.
func NewGradeRecordedEvent(studentID, registrationID, courseID string, grade float64) GradeRecordedEvent {
	return GradeRecordedEvent{
		BaseEvent:      NewBaseEvent(EventGradeRecorded, registrationID),
		StudentID:      studentID,
		RegistrationID: registrationID,
		CourseID:       courseID,
		Grade:          grade,
	}
}

// StandingChangedEvent is emitted for every persisted standing transition.
// A multi-band GPA swing emits one event per intermediate step.
type StandingChangedEvent struct {
	BaseEvent
	StudentID    string  `json:"student_id"`
	FromVariant  string  `json:"from_variant"`
	ToVariant    string  `json:"to_variant"`
	GradeAverage float64 `json:"grade_average"`
}

// Payload implements Event interface.
func (e StandingChangedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"student_id":    e.StudentID,
		"from_variant":  e.FromVariant,
		"to_variant":    e.ToVariant,
		"grade_average": e.GradeAverage,
	}
}

// NewStandingChangedEvent creates a new StandingChangedEvent.
func NewStandingChangedEvent(studentID, fromVariant, toVariant string, gradeAverage float64) StandingChangedEvent {
	return StandingChangedEvent{
		BaseEvent:    NewBaseEvent(EventStandingChanged, studentID),
		StudentID:    studentID,
		FromVariant:  fromVariant,
		ToVariant:    toVariant,
		GradeAverage: gradeAverage,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Registration Events
// ═══════════════════════════════════════════════════════════════════════════

// RegistrationCreatedEvent is emitted when a student registers in a course.
type RegistrationCreatedEvent struct {
	BaseEvent
	StudentID          string `json:"student_id"`
	CourseID           string `json:"course_id"`
	RegistrationNumber int64  `json:"registration_number"`
}

// Payload implements Event interface.
func (e RegistrationCreatedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"student_id":          e.StudentID,
		"course_id":           e.CourseID,
		"registration_number": e.RegistrationNumber,
	}
}

// NewRegistrationCreatedEvent creates a new RegistrationCreatedEvent.
func NewRegistrationCreatedEvent(registrationID, studentID, courseID string, registrationNumber int64) RegistrationCreatedEvent {
	return RegistrationCreatedEvent{
		BaseEvent:          NewBaseEvent(EventRegistrationCreated, registrationID),
		StudentID:          studentID,
		CourseID:           courseID,
		RegistrationNumber: registrationNumber,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Course Events
// ═══════════════════════════════════════════════════════════════════════════

// CourseCreatedEvent is emitted when a new course is added to the calendar.
type CourseCreatedEvent struct {
	BaseEvent
	CourseNumber string `json:"course_number"`
	CourseType   string `json:"course_type"`
	Title        string `json:"title"`
}

// Payload implements Event interface.
func (e CourseCreatedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"course_number": e.CourseNumber,
		"course_type":   e.CourseType,
		"title":         e.Title,
	}
}

// NewCourseCreatedEvent creates a new CourseCreatedEvent.
func NewCourseCreatedEvent(courseID, courseNumber, courseType, title string) CourseCreatedEvent {
	return CourseCreatedEvent{
		BaseEvent:    NewBaseEvent(EventCourseCreated, courseID),
		CourseNumber: courseNumber,
		CourseType:   courseType,
		Title:        title,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Event Envelope (for serialization and transport)
// ═══════════════════════════════════════════════════════════════════════════

// EventEnvelope wraps an event for transport/storage.
type EventEnvelope struct {
	ID            string          `json:"id"`
	Type          EventType       `json:"type"`
	AggregateID   string          `json:"aggregate_id"`
	Timestamp     time.Time       `json:"timestamp"`
	Version       int             `json:"version"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

// EventHandler is a function that handles an event.
type EventHandler func(event Event) error

// EventPublisher defines the interface for publishing events.
type EventPublisher interface {
	// Publish sends an event to subscribers.
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
