package locale

import "golang.org/x/text/language"

// Catalog keys. Title templates take project link, issue link, user in
// that order.
const (
	KeyIssueCreated  = "label_messenger_issue_created"
	KeyIssueUpdated  = "label_messenger_issue_updated"
	KeyFieldStatus   = "field_status"
	KeyFieldPriority = "field_priority"
	KeyFieldAssignee = "field_assigned_to"
	KeyAttachment    = "label_attachment"
	KeyFieldWatcher  = "field_watcher"
	KeyComment       = "label_comment"
	KeyIsPrivate     = "field_is_private"
)

var catalogs = map[language.Tag]map[string]string{
	language.English: {
		KeyIssueCreated:         "[%s] Issue %s created by %s",
		KeyIssueUpdated:         "[%s] Issue %s updated by %s",
		KeyFieldStatus:          "Status",
		KeyFieldPriority:        "Priority",
		KeyFieldAssignee:        "Assignee",
		KeyAttachment:           "File",
		KeyFieldWatcher:         "Watchers",
		KeyComment:              "Comment",
		KeyIsPrivate:            "Is private",
		"field_subject":         "Subject",
		"field_description":     "Description",
		"field_category":        "Category",
		"field_fixed_version":   "Target version",
		"field_done_ratio":      "% Done",
		"field_estimated_hours": "Estimated time",
		"field_start_date":      "Start date",
		"field_due_date":        "Due date",
		"field_tracker":         "Tracker",
		"field_parent_issue":    "Parent task",
	},
	language.German: {
		KeyIssueCreated:         "[%s] Ticket %s erstellt von %s",
		KeyIssueUpdated:         "[%s] Ticket %s aktualisiert von %s",
		KeyFieldStatus:          "Status",
		KeyFieldPriority:        "Priorität",
		KeyFieldAssignee:        "Zugewiesen an",
		KeyAttachment:           "Datei",
		KeyFieldWatcher:         "Beobachter",
		KeyComment:              "Kommentar",
		KeyIsPrivate:            "Privat",
		"field_subject":         "Thema",
		"field_description":     "Beschreibung",
		"field_category":        "Kategorie",
		"field_fixed_version":   "Zielversion",
		"field_done_ratio":      "% erledigt",
		"field_estimated_hours": "Geschätzter Aufwand",
		"field_start_date":      "Beginn",
		"field_due_date":        "Abgabedatum",
		"field_tracker":         "Tracker",
		"field_parent_issue":    "Übergeordnete Aufgabe",
	},
	language.French: {
		KeyIssueCreated:         "[%s] Demande %s créée par %s",
		KeyIssueUpdated:         "[%s] Demande %s mise à jour par %s",
		KeyFieldStatus:          "Statut",
		KeyFieldPriority:        "Priorité",
		KeyFieldAssignee:        "Assigné à",
		KeyAttachment:           "Fichier",
		KeyFieldWatcher:         "Observateurs",
		KeyComment:              "Commentaire",
		KeyIsPrivate:            "Privé",
		"field_subject":         "Sujet",
		"field_description":     "Description",
		"field_category":        "Catégorie",
		"field_fixed_version":   "Version cible",
		"field_done_ratio":      "% réalisé",
		"field_estimated_hours": "Temps estimé",
		"field_start_date":      "Début",
		"field_due_date":        "Échéance",
		"field_tracker":         "Tracker",
		"field_parent_issue":    "Tâche parente",
	},
}
