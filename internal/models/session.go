package models

// User identifies one of the two people sharing the tracker.
type User string

const (
	UserYashwanth User = "yashwanth"
	UserLahari    User = "lahari"
)

// Valid reports whether u is one of the two known identities.
func (u User) Valid() bool {
	return u == UserYashwanth || u == UserLahari
}

// Users lists the known identities.
func Users() []User {
	return []User{UserYashwanth, UserLahari}
}

// Session is one completed focus interval. EndTime may be numerically earlier
// than StartTime, meaning the session crossed midnight and ended on the day
// after Date. DurationMinutes is always recomputed from the clock strings at
// save time. CreatedAt is fixed at first creation and is the merge tie-break
// field; it is never updated on edit.
type Session struct {
	ID              string `json:"id"`
	UserID          User   `json:"userId"`
	Date            string `json:"date"`      // YYYY-MM-DD, local-naive
	StartTime       string `json:"startTime"` // HH:mm
	EndTime         string `json:"endTime"`   // HH:mm
	Task            string `json:"task"`
	DurationMinutes int    `json:"durationMinutes"`
	CreatedAt       int64  `json:"createdAt"` // epoch millis
	UpdatedAt       int64  `json:"updatedAt,omitempty"`
}

// SessionInput is the fully-specified payload for creating or editing a
// session. Every field is required except ID and CreatedAt: a zero ID means
// "create with a generated id", a zero CreatedAt means "stamp now".
type SessionInput struct {
	ID        string `json:"id,omitempty"`
	UserID    User   `json:"userId"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Task      string `json:"task"`
	CreatedAt int64  `json:"createdAt,omitempty"`
}

// SessionList is the wire envelope for session collections.
type SessionList struct {
	Sessions []Session `json:"sessions"`
}
