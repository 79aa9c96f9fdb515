package state

import (
	"github.com/google/uuid"

	"github.com/farellandr/certportal/internal/domain"
)

// Action is anything Reduce understands.
type Action interface {
	actionName() string
}

// Hydrated replaces the domain collections with a fresh load from the
// remote store. Session and theme are kept unless Theme is set.
type Hydrated struct {
	Events        []domain.Event
	Categories    []domain.Category
	Templates     []domain.Template
	Participants  []domain.Participant
	ImportHistory []domain.ImportRecord
	Theme         *domain.ThemeConfig
	Logo          *string
}

type LoggedIn struct{ User domain.User }
type LoggedOut struct{}
type ThemeChanged struct{ Theme domain.ThemeConfig }
type LogoChanged struct{ Logo string }
type ProfileUpdated struct{ User domain.User }

type EventSaved struct{ Event domain.Event }
type EventDeleted struct{ ID uuid.UUID }
type CategorySaved struct{ Category domain.Category }
type CategoryDeleted struct{ ID uuid.UUID }
type TemplateSaved struct{ Template domain.Template }
type TemplateDeleted struct{ ID uuid.UUID }
type ParticipantDeleted struct{ ID uuid.UUID }

type ImportCompleted struct {
	Record       domain.ImportRecord
	Participants []domain.Participant
}

type ImportDeleted struct{ ID uuid.UUID }

func (Hydrated) actionName() string           { return "hydrated" }
func (LoggedIn) actionName() string           { return "logged_in" }
func (LoggedOut) actionName() string          { return "logged_out" }
func (ThemeChanged) actionName() string       { return "theme_changed" }
func (LogoChanged) actionName() string        { return "logo_changed" }
func (ProfileUpdated) actionName() string     { return "profile_updated" }
func (EventSaved) actionName() string         { return "event_saved" }
func (EventDeleted) actionName() string       { return "event_deleted" }
func (CategorySaved) actionName() string      { return "category_saved" }
func (CategoryDeleted) actionName() string    { return "category_deleted" }
func (TemplateSaved) actionName() string      { return "template_saved" }
func (TemplateDeleted) actionName() string    { return "template_deleted" }
func (ParticipantDeleted) actionName() string { return "participant_deleted" }
func (ImportCompleted) actionName() string    { return "import_completed" }
func (ImportDeleted) actionName() string      { return "import_deleted" }

// Name returns the stable name of an action, used in logs and outbox ops.
func Name(a Action) string {
	return a.actionName()
}
