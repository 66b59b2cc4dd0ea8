package mykafka

import "time"

const (
	EventUserRegistered = "user_registered"
	EventUserLoggedIn   = "user_logged_in"
	EventUserLoggedOut  = "user_logged_out"
	EventUserVerified   = "user_verified"
	EventUserDeleted    = "user_deleted"
	EventCourseCreated  = "course_created"
	EventCourseUpdated  = "course_updated"
	EventCourseDeleted  = "course_deleted"
)

type Event struct {
	Type       string    `json:"type"`
	SubjectID  string    `json:"subject_id"`
	ActorID    string    `json:"actor_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewEvent(typ, subjectID, actorID string) Event {
	return Event{Type: typ, SubjectID: subjectID, ActorID: actorID, OccurredAt: time.Now().UTC()}
}
