package notifier

import (
	"fmt"
	"strings"

	"github.com/claves/redmine-messenger/internal/format"
	"github.com/claves/redmine-messenger/internal/locale"
	"github.com/claves/redmine-messenger/internal/types"
)

// FieldBuilder turns an event into the message attachment: the optional
// body text plus the ordered display field list. Label lookups assume the
// caller has already switched the locale for the event.
type FieldBuilder struct {
	resolver format.Resolver
}

func NewFieldBuilder(resolver format.Resolver) *FieldBuilder {
	return &FieldBuilder{resolver: resolver}
}

// BuildCreated assembles the attachment for a created issue:
// Status, Priority, Assignee (when set), one field per file, Watchers
// (when enabled and present). The description becomes body text only when
// the project opts in.
func (fb *FieldBuilder) BuildCreated(ev types.Event, cfg types.ProjectConfig) types.MessageAttachment {
	var a types.MessageAttachment

	if ev.Description != "" && cfg.NewIncludeDescription {
		a.Text = format.Markup(ev.Description)
	}

	fields := []types.Field{
		{Title: locale.Label(locale.KeyFieldStatus), Value: format.Markup(ev.Status), Short: true},
		{Title: locale.Label(locale.KeyFieldPriority), Value: format.Markup(ev.Priority), Short: true},
	}

	if ev.Assignee != nil {
		fields = append(fields, types.Field{
			Title: locale.Label(locale.KeyFieldAssignee),
			Value: format.Markup(ev.Assignee.Name()),
			Short: true,
		})
	}

	for _, att := range ev.Attachments {
		fields = append(fields, types.Field{
			Title: locale.Label(locale.KeyAttachment),
			Value: format.Link(att.URL, format.EscapeHTML(att.Filename)),
			Short: true,
		})
	}

	if cfg.DisplayWatchers && len(ev.Watchers) > 0 {
		names := make([]string, 0, len(ev.Watchers))
		for _, w := range ev.Watchers {
			names = append(names, w.Name())
		}
		fields = append(fields, types.Field{
			Title: locale.Label(locale.KeyFieldWatcher),
			Value: format.Markup(strings.Join(names, ", ")),
			Short: true,
		})
	}

	a.Fields = compactFields(fields)
	return a
}

// BuildUpdated assembles the attachment for an update. The caller
// guarantees ev.Change is non-nil. Field order: one per detail, then the
// Comment (when the change carries a note), then the private marker.
func (fb *FieldBuilder) BuildUpdated(ev types.Event, cfg types.ProjectConfig) types.MessageAttachment {
	var a types.MessageAttachment
	change := ev.Change

	if cfg.UpdatedIncludeDescription {
		a.Text = attachmentTextFromChange(change)
	}

	var fields []types.Field
	for _, d := range change.Details {
		if f, ok := detailToField(d); ok {
			fields = append(fields, f)
		}
	}

	if change.Notes != "" {
		fields = append(fields, types.Field{
			Title: locale.Label(locale.KeyComment),
			Value: format.RewriteMentions(format.Markup(change.Notes), fb.resolver),
			Short: false,
		})
	}

	a.Fields = compactFields(fields)

	if change.PrivateNotes {
		// Marker field: title only, deliberately no value. Appended
		// after compaction so it never competes with a regular field
		// that happens to share its title.
		a.Fields = append(a.Fields, types.Field{
			Title: locale.Label(locale.KeyIsPrivate),
			Short: true,
		})
	}
	return a
}

// attachmentTextFromChange collapses the change's description diff into a
// display string: the new description text, converted. Empty when the
// change did not touch the description.
func attachmentTextFromChange(change *types.Change) string {
	for _, d := range change.Details {
		if d.Property == "attr" && d.Name == "description" {
			return format.Markup(d.New)
		}
	}
	return ""
}

// detailToField maps one field diff to a display field. Description diffs
// are suppressed here (they become the attachment text instead); details
// that produce no value are dropped by the caller.
func detailToField(d types.Detail) (types.Field, bool) {
	var title string
	switch d.Property {
	case "attr":
		if d.Name == "description" {
			return types.Field{}, false
		}
		title = locale.Label("field_" + d.Name)
	case "attachment":
		title = locale.Label(locale.KeyAttachment)
	case "cf":
		// Custom fields carry their display name directly.
		title = d.Name
	case "relation":
		title = locale.Label("label_" + d.Name)
	default:
		return types.Field{}, false
	}

	return types.Field{Title: title, Value: detailValue(d), Short: true}, true
}

// detailValue renders the old→new transition of a diff.
func detailValue(d types.Detail) string {
	oldV := format.Markup(d.Old)
	newV := format.Markup(d.New)
	switch {
	case oldV != "" && newV != "":
		return fmt.Sprintf("%s → %s", oldV, newV)
	case newV != "":
		return newV
	case oldV != "":
		return fmt.Sprintf("%s → -", oldV)
	default:
		return ""
	}
}

// compactFields drops fields whose value came out empty.
func compactFields(fields []types.Field) []types.Field {
	out := fields[:0]
	for _, f := range fields {
		if f.Value == "" {
			continue
		}
		out = append(out, f)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
