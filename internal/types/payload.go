package types

// Field is one display field of an outbound message. Short fields render
// side by side in the chat client.
type Field struct {
	Title string `json:"title"`
	Value string `json:"value,omitempty"`
	Short bool   `json:"short"`
}

// MessageAttachment is the body block under the title: optional long text
// plus an ordered field list. Fields is omitted entirely (not an empty
// array) when no field survived assembly.
type MessageAttachment struct {
	Text   string  `json:"text,omitempty"`
	Fields []Field `json:"fields,omitempty"`
}

// Payload is the assembled outbound message: the sink delivers it once per
// channel to the endpoint.
type Payload struct {
	Channels   []string          `json:"channels"`
	Endpoint   string            `json:"endpoint"`
	Text       string            `json:"text"`
	Attachment MessageAttachment `json:"attachment"`
	Project    string            `json:"project"`
}

// SuppressReason says why the dispatcher deliberately did not send.
// Suppression is policy, not failure.
type SuppressReason string

const (
	SuppressNone            SuppressReason = ""
	SuppressNoChannels      SuppressReason = "no-channels"
	SuppressNoEndpoint      SuppressReason = "no-endpoint"
	SuppressUpdatesDisabled SuppressReason = "updates-disabled"
	SuppressPrivateIssue    SuppressReason = "private-issue"
	SuppressPrivateNotes    SuppressReason = "private-notes"
	SuppressNoChange        SuppressReason = "no-change"
	SuppressRateLimited     SuppressReason = "rate-limited"
)

// Outcome reports what the assembler did with an event.
type Outcome struct {
	Delivered bool
	Reason    SuppressReason
}

// Suppressed is true when the event was dropped by policy.
func (o Outcome) Suppressed() bool { return !o.Delivered && o.Reason != SuppressNone }
