package certificate

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farellandr/certportal/internal/domain"
)

func TestResolveTemplate(t *testing.T) {
	categoryA := uuid.New()
	categoryB := uuid.New()
	eventE := uuid.New()
	otherEvent := uuid.New()

	global := domain.Template{ID: uuid.New(), Name: "global", CategoryID: categoryA}
	specific := domain.Template{ID: uuid.New(), Name: "specific", CategoryID: categoryA, EventID: &eventE}
	elsewhere := domain.Template{ID: uuid.New(), Name: "elsewhere", CategoryID: categoryA, EventID: &otherEvent}
	otherCategory := domain.Template{ID: uuid.New(), Name: "b", CategoryID: categoryB}

	t.Run("event specific beats global", func(t *testing.T) {
		got, err := ResolveTemplate([]domain.Template{global, specific}, categoryA, eventE)
		require.NoError(t, err)
		assert.Equal(t, "specific", got.Name)
	})

	t.Run("global when no event match", func(t *testing.T) {
		got, err := ResolveTemplate([]domain.Template{elsewhere, global, otherCategory}, categoryA, eventE)
		require.NoError(t, err)
		assert.Equal(t, "global", got.Name)
	})

	t.Run("no template", func(t *testing.T) {
		_, err := ResolveTemplate([]domain.Template{elsewhere, otherCategory}, categoryA, eventE)
		assert.ErrorIs(t, err, ErrNoTemplate)
	})
}

func TestAssemble(t *testing.T) {
	event := sampleEvent()
	event.ID = uuid.New()
	category := uuid.New()
	tpl := domain.Template{ID: uuid.New(), CategoryID: category, Text: "x"}

	p := sampleParticipant()
	p.ID = uuid.New()
	p.EventID = event.ID
	p.CategoryID = category

	cert, err := Assemble(p, []domain.Event{event}, []domain.Template{tpl})
	require.NoError(t, err)
	assert.Equal(t, event.Name, cert.Event.Name)
	assert.Equal(t, tpl.ID, cert.Template.ID)

	p.EventID = uuid.New()
	_, err = Assemble(p, []domain.Event{event}, []domain.Template{tpl})
	assert.ErrorIs(t, err, ErrUnknownEvent)

	p.EventID = event.ID
	p.CategoryID = uuid.New()
	_, err = Assemble(p, []domain.Event{event}, []domain.Template{tpl})
	assert.ErrorIs(t, err, ErrNoTemplate)
}
