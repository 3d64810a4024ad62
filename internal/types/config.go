package types

// ProjectConfig is the per-project dispatch policy. It is read-only to the
// core: the loader owns it and the dispatcher never mutates it.
//
// All flags are independent. An empty Channels list or WebhookURL means
// "notification suppressed", never an error.
type ProjectConfig struct {
	// Channels are opaque destination identifiers ("#bugs", "@ops").
	Channels []string `json:"channels,omitempty"`
	// WebhookURL is the incoming-webhook endpoint for this project.
	WebhookURL string `json:"webhookUrl,omitempty"`

	PostUpdates       bool `json:"postUpdates,omitempty"`
	PostPrivateIssues bool `json:"postPrivateIssues,omitempty"`
	PostPrivateNotes  bool `json:"postPrivateNotes,omitempty"`

	// NewIncludeDescription / UpdatedIncludeDescription control whether
	// the message body carries the issue description (create) or the
	// collapsed description diff (update).
	NewIncludeDescription     bool `json:"newIncludeDescription,omitempty"`
	UpdatedIncludeDescription bool `json:"updatedIncludeDescription,omitempty"`

	// DirectUserMessages appends mention tokens of notified users to the
	// channel list so they receive a DM-style alert.
	DirectUserMessages bool `json:"directUserMessages,omitempty"`
	// AutoMentions rewrites @login references found in the issue text
	// into platform mention tokens appended to the title.
	AutoMentions bool `json:"autoMentions,omitempty"`
	// DisplayWatchers adds a Watchers field to created-issue messages.
	DisplayWatchers bool `json:"displayWatchers,omitempty"`

	// DefaultMentions is free text appended to every title ("@here").
	DefaultMentions string `json:"defaultMentions,omitempty"`
}
