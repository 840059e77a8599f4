package models

// Role is the access level stored on a user document.
type Role int

const (
	RoleAdmin Role = iota
	RoleUser
)

// NoteStatus is the closed status enumeration for notes.
type NoteStatus string

const (
	StatusActive   NoteStatus = "ACTIVE"
	StatusDeactive NoteStatus = "DEACTIVE"
)

// ParseStatus maps raw input onto the closed status set. Anything that
// is not an exact member falls back to StatusActive.
func ParseStatus(raw string) NoteStatus {
	switch NoteStatus(raw) {
	case StatusActive, StatusDeactive:
		return NoteStatus(raw)
	default:
		return StatusActive
	}
}

// SubTask is a single checklist entry inside a note. The transport layer
// binds real booleans; missing fields default to their zero values.
type SubTask struct {
	Text   string `json:"text"`
	IsDone bool   `json:"isDone"`
	IsBold bool   `json:"isBold"`
}
