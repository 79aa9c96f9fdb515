package state

import (
	"github.com/google/uuid"

	"github.com/farellandr/certportal/internal/domain"
)

// Reduce returns the state that results from applying a to s. It never
// mutates s.
func Reduce(s AppState, a Action) AppState {
	next := s.Clone()

	switch a := a.(type) {
	case Hydrated:
		next.Events = orEmpty(a.Events)
		next.Categories = orEmpty(a.Categories)
		next.Templates = orEmpty(a.Templates)
		next.Participants = orEmpty(a.Participants)
		next.ImportHistory = orEmpty(a.ImportHistory)
		if a.Theme != nil {
			next.Theme = *a.Theme
		}
		if a.Logo != nil {
			next.Logo = *a.Logo
		}

	case LoggedIn:
		next.Session = domain.Session{Authenticated: true, User: a.User}
	case LoggedOut:
		next.Session = domain.Session{}
	case ThemeChanged:
		next.Theme = a.Theme
	case LogoChanged:
		next.Logo = a.Logo
	case ProfileUpdated:
		next.Session.User = a.User

	case EventSaved:
		next.Events = upsert(next.Events, a.Event, func(e domain.Event) uuid.UUID { return e.ID })
	case EventDeleted:
		next.Events = remove(next.Events, func(e domain.Event) bool { return e.ID == a.ID })
		next.Participants = remove(next.Participants, func(p domain.Participant) bool { return p.EventID == a.ID })

	case CategorySaved:
		next.Categories = upsert(next.Categories, a.Category, func(c domain.Category) uuid.UUID { return c.ID })
	case CategoryDeleted:
		// Templates and participants keep their category reference.
		next.Categories = remove(next.Categories, func(c domain.Category) bool { return c.ID == a.ID })

	case TemplateSaved:
		next.Templates = upsert(next.Templates, a.Template, func(t domain.Template) uuid.UUID { return t.ID })
	case TemplateDeleted:
		next.Templates = remove(next.Templates, func(t domain.Template) bool { return t.ID == a.ID })

	case ParticipantDeleted:
		next.Participants = remove(next.Participants, func(p domain.Participant) bool { return p.ID == a.ID })

	case ImportCompleted:
		next.ImportHistory = append([]domain.ImportRecord{a.Record}, next.ImportHistory...)
		next.Participants = append(next.Participants, a.Participants...)
	case ImportDeleted:
		next.ImportHistory = remove(next.ImportHistory, func(r domain.ImportRecord) bool { return r.ID == a.ID })
		next.Participants = remove(next.Participants, func(p domain.Participant) bool {
			return p.ImportID != nil && *p.ImportID == a.ID
		})
	}

	return next
}

func upsert[T any](items []T, item T, id func(T) uuid.UUID) []T {
	for i := range items {
		if id(items[i]) == id(item) {
			items[i] = item
			return items
		}
	}
	return append(items, item)
}

func remove[T any](items []T, match func(T) bool) []T {
	out := items[:0]
	for _, item := range items {
		if !match(item) {
			out = append(out, item)
		}
	}
	return out
}

func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return append([]T{}, items...)
}
