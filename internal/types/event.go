package types

// EventKind distinguishes the two issue lifecycle transitions the
// dispatcher reacts to.
type EventKind string

const (
	EventCreated EventKind = "created"
	EventUpdated EventKind = "updated"
)

// User is a snapshot of a tracker account at event time.
type User struct {
	// Login is the tracker login name, lowercase by convention.
	Login string `json:"login"`
	// DisplayName is how the user is rendered in message text.
	DisplayName string `json:"displayName"`
	// PlatformID is the chat platform's user ID, empty when the account
	// has no chat mapping.
	PlatformID string `json:"platformId,omitempty"`
}

// Name returns the preferred human-readable form of the user.
func (u User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Login
}

// Project identifies the issue's project and its public URL.
type Project struct {
	Identifier string `json:"identifier"`
	Name       string `json:"name"`
	URL        string `json:"url"`
}

// Attachment is a file attached to an issue at creation time.
type Attachment struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

// Detail is a single field diff inside a Change. Property tells the
// mapper which namespace Name lives in ("attr", "attachment", "cf",
// "relation"); Old and New may each be empty.
type Detail struct {
	Property string `json:"property"`
	Name     string `json:"name"`
	Old      string `json:"old,omitempty"`
	New      string `json:"new,omitempty"`
}

// Change is the tracker's record of one edit: ordered field diffs plus an
// optional free-text note. ID feeds the "#change-<id>" anchor on issue
// links.
type Change struct {
	ID           int64    `json:"id"`
	User         User     `json:"user"`
	Details      []Detail `json:"details,omitempty"`
	Notes        string   `json:"notes,omitempty"`
	PrivateNotes bool     `json:"privateNotes,omitempty"`
}

// Event is the fully populated issue snapshot handed to the dispatcher at
// a "created" or "updated" transition. Change is nil for created events
// and may be nil for updates that carry no journal (those are dropped).
type Event struct {
	Kind    EventKind `json:"kind"`
	Project Project   `json:"project"`

	// Issue snapshot
	ID          int64        `json:"id"`
	Subject     string       `json:"subject"`
	Description string       `json:"description,omitempty"`
	URL         string       `json:"url"`
	Status      string       `json:"status"`
	Priority    string       `json:"priority"`
	Author      User         `json:"author"`
	Assignee    *User        `json:"assignee,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
	Watchers    []User       `json:"watchers,omitempty"`
	Private     bool         `json:"private,omitempty"`

	// NotifiedUsers and NotifiedWatchers are directory-provided: the
	// accounts that would receive a standard tracker notification for
	// this event. They feed direct-message fan-out only.
	NotifiedUsers    []User `json:"notifiedUsers,omitempty"`
	NotifiedWatchers []User `json:"notifiedWatchers,omitempty"`

	Change *Change `json:"change,omitempty"`
}

// Actor returns the user whose action triggered the event: the journal
// author on updates, the issue author otherwise.
func (e Event) Actor() User {
	if e.Kind == EventUpdated && e.Change != nil {
		return e.Change.User
	}
	return e.Author
}
