package certificate

import (
	"errors"

	"github.com/google/uuid"

	"github.com/farellandr/certportal/internal/domain"
)

var (
	// ErrNoTemplate means no template covers the participant's category.
	// Callers surface it as a "no template configured" state.
	ErrNoTemplate   = errors.New("no certificate template configured for this category")
	ErrUnknownEvent = errors.New("participant references an unknown event")
)

// ResolveTemplate picks the template for a category within an event. A
// template bound to the event wins over a global one for the same category.
func ResolveTemplate(templates []domain.Template, categoryID, eventID uuid.UUID) (domain.Template, error) {
	var global *domain.Template
	for i := range templates {
		t := &templates[i]
		if t.CategoryID != categoryID {
			continue
		}
		if t.EventID != nil && *t.EventID == eventID {
			return *t, nil
		}
		if t.EventID == nil && global == nil {
			global = t
		}
	}
	if global != nil {
		return *global, nil
	}
	return domain.Template{}, ErrNoTemplate
}

// Assemble builds the certificate for p from the known events and templates.
func Assemble(p domain.Participant, events []domain.Event, templates []domain.Template) (domain.Certificate, error) {
	var event *domain.Event
	for i := range events {
		if events[i].ID == p.EventID {
			event = &events[i]
			break
		}
	}
	if event == nil {
		return domain.Certificate{}, ErrUnknownEvent
	}

	tpl, err := ResolveTemplate(templates, p.CategoryID, p.EventID)
	if err != nil {
		return domain.Certificate{}, err
	}

	return domain.Certificate{Participant: p, Event: *event, Template: tpl}, nil
}
