package session

import "github.com/google/uuid"

// Session pairs a session identity with its owned TagsInPlay. Sessions are
// not shared across threads by contract; Session itself adds no locking
// beyond what TagsInPlay already provides.
type Session struct {
	ID   string
	Tags *TagsInPlay
}

// newSession returns a fresh Session with a generated id and empty tagsInPlay.
func newSession(controls Controls, limits Limits) *Session {
	return &Session{
		ID:   uuid.NewString(),
		Tags: New(controls, limits),
	}
}
