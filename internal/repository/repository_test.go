package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/farellandr/certportal/internal/domain"
	"github.com/farellandr/certportal/internal/models"
	"github.com/farellandr/certportal/internal/state"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return New(db)
}

type fixture struct {
	event    domain.Event
	other    domain.Event
	category domain.Category
}

func seed(t *testing.T, repo *Repository) fixture {
	t.Helper()
	ctx := context.Background()

	event, err := repo.CreateEvent(ctx, domain.Event{Name: "GopherCon", Date: time.Date(2024, 5, 1, 15, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	other, err := repo.CreateEvent(ctx, domain.Event{Name: "KubeCon", Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	category, err := repo.CreateCategory(ctx, domain.Category{Name: "Speaker"})
	require.NoError(t, err)

	return fixture{event: event, other: other, category: category}
}

func participant(name, email string, event domain.Event, category domain.Category, importID *uuid.UUID) domain.Participant {
	return domain.Participant{
		ID:         uuid.New(),
		Name:       name,
		Email:      email,
		EventID:    event.ID,
		CategoryID: category.ID,
		ImportID:   importID,
	}
}

func TestEvents_CRUD(t *testing.T) {
	repo := newTestRepository(t)
	f := seed(t, repo)
	ctx := context.Background()

	assert.NotEqual(t, uuid.Nil, f.event.ID)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), f.event.Date.UTC())

	events, total, err := repo.ListEvents(ctx, Page{Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, events, 1)
	assert.Equal(t, "GopherCon", events[0].Name)

	f.event.Name = "GopherCon Brasil"
	updated, err := repo.UpdateEvent(ctx, f.event)
	require.NoError(t, err)
	assert.Equal(t, "GopherCon Brasil", updated.Name)

	_, err = repo.UpdateEvent(ctx, domain.Event{ID: uuid.New(), Name: "ghost"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.GetEvent(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteEvent_CascadesToItsParticipantsOnly(t *testing.T) {
	repo := newTestRepository(t)
	f := seed(t, repo)
	ctx := context.Background()

	require.NoError(t, repo.CreateParticipants(ctx, []domain.Participant{
		participant("Ana", "ana@example.com", f.event, f.category, nil),
		participant("Bia", "bia@example.com", f.event, f.category, nil),
		participant("Caio", "caio@example.com", f.other, f.category, nil),
	}))
	eventID := f.event.ID
	_, err := repo.CreateTemplate(ctx, domain.Template{Name: "Event", CategoryID: f.category.ID, EventID: &eventID, Text: "x"})
	require.NoError(t, err)

	require.NoError(t, repo.DeleteEvent(ctx, f.event.ID))

	remaining, _, err := repo.ListParticipants(ctx, ParticipantFilter{}, Page{})
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "Caio", remaining[0].Name)

	templates, _, err := repo.ListTemplates(ctx, TemplateFilter{}, Page{})
	require.NoError(t, err)
	assert.Len(t, templates, 1)

	assert.ErrorIs(t, repo.DeleteEvent(ctx, f.event.ID), ErrNotFound)
}

func TestDeleteCategory_LeavesReferencesDangling(t *testing.T) {
	repo := newTestRepository(t)
	f := seed(t, repo)
	ctx := context.Background()

	_, err := repo.CreateTemplate(ctx, domain.Template{Name: "Global", CategoryID: f.category.ID, Text: "x"})
	require.NoError(t, err)
	require.NoError(t, repo.CreateParticipants(ctx, []domain.Participant{
		participant("Ana", "ana@example.com", f.event, f.category, nil),
	}))

	require.NoError(t, repo.DeleteCategory(ctx, f.category.ID))

	_, err = repo.GetCategory(ctx, f.category.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	templates, err := repo.TemplatesForCategory(ctx, f.category.ID)
	require.NoError(t, err)
	assert.Len(t, templates, 1)

	participants, _, err := repo.ListParticipants(ctx, ParticipantFilter{CategoryID: &f.category.ID}, Page{})
	require.NoError(t, err)
	assert.Len(t, participants, 1)
}

func TestImports_DeleteRemovesBatchParticipantsOnly(t *testing.T) {
	repo := newTestRepository(t)
	f := seed(t, repo)
	ctx := context.Background()

	first := domain.ImportRecord{ID: uuid.New(), Timestamp: time.Now().UTC(), FileName: "a.csv", Count: 2, EventID: f.event.ID, CategoryName: "Speaker", Status: models.ImportStatusSuccess}
	second := domain.ImportRecord{ID: uuid.New(), Timestamp: time.Now().UTC().Add(time.Minute), FileName: "b.csv", Count: 1, EventID: f.event.ID, CategoryName: "Speaker", Status: models.ImportStatusSuccess}
	require.NoError(t, repo.CreateImport(ctx, first))
	require.NoError(t, repo.CreateImport(ctx, second))
	require.NoError(t, repo.CreateParticipants(ctx, []domain.Participant{
		participant("Ana", "ana@example.com", f.event, f.category, &first.ID),
		participant("Bia", "bia@example.com", f.event, f.category, &first.ID),
		participant("Caio", "caio@example.com", f.event, f.category, &second.ID),
		participant("Duda", "duda@example.com", f.event, f.category, nil),
	}))

	history, total, err := repo.ListImports(ctx, Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "b.csv", history[0].FileName)

	require.NoError(t, repo.DeleteImport(ctx, first.ID))

	remaining, _, err := repo.ListParticipants(ctx, ParticipantFilter{}, Page{})
	require.NoError(t, err)
	names := []string{}
	for _, p := range remaining {
		names = append(names, p.Name)
	}
	assert.ElementsMatch(t, []string{"Caio", "Duda"}, names)

	batch, _, err := repo.ListParticipants(ctx, ParticipantFilter{ImportID: &second.ID}, Page{})
	require.NoError(t, err)
	assert.Len(t, batch, 1)
}

func TestFindParticipantsByEmail(t *testing.T) {
	repo := newTestRepository(t)
	f := seed(t, repo)
	ctx := context.Background()

	require.NoError(t, repo.CreateParticipants(ctx, []domain.Participant{
		participant("Ana", "Ana@Example.com", f.event, f.category, nil),
		participant("Ana", "ana@example.com", f.other, f.category, nil),
		participant("Bia", "bia@example.com", f.event, f.category, nil),
	}))

	found, err := repo.FindParticipantsByEmail(ctx, "  ANA@example.COM ")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	none, err := repo.FindParticipantsByEmail(ctx, "x@y.com")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestTemplates_UpdateAndDelete(t *testing.T) {
	repo := newTestRepository(t)
	f := seed(t, repo)
	ctx := context.Background()

	tmpl, err := repo.CreateTemplate(ctx, domain.Template{Name: "Global", CategoryID: f.category.ID, Text: "Hi {{PARTICIPANT_NAME}}"})
	require.NoError(t, err)
	assert.True(t, tmpl.IsGlobal())

	eventID := f.event.ID
	tmpl.EventID = &eventID
	tmpl.Text = "Hello"
	updated, err := repo.UpdateTemplate(ctx, tmpl)
	require.NoError(t, err)
	require.NotNil(t, updated.EventID)
	assert.Equal(t, eventID, *updated.EventID)
	assert.Equal(t, "Hello", updated.Text)

	byEvent, total, err := repo.ListTemplates(ctx, TemplateFilter{EventID: &eventID}, Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, byEvent, 1)

	require.NoError(t, repo.DeleteTemplate(ctx, tmpl.ID))
	assert.ErrorIs(t, repo.DeleteTemplate(ctx, tmpl.ID), ErrNotFound)
}

func TestSettings_UpsertAndSync(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	var theme domain.ThemeConfig
	assert.ErrorIs(t, repo.GetSetting(ctx, models.SettingTheme, &theme), ErrNotFound)

	require.NoError(t, repo.PutSetting(ctx, models.SettingTheme, domain.DefaultTheme()))
	emerald, err := domain.PresetTheme("emerald")
	require.NoError(t, err)
	require.NoError(t, repo.PutSetting(ctx, models.SettingTheme, emerald))

	require.NoError(t, repo.GetSetting(ctx, models.SettingTheme, &theme))
	assert.Equal(t, emerald, theme)

	require.NoError(t, repo.Sync(ctx, state.Op{Kind: state.OpKindSetting, Key: models.SettingLogo, Payload: []byte(`"data:image/png;base64,AAAA"`)}))
	var logo string
	require.NoError(t, repo.GetSetting(ctx, models.SettingLogo, &logo))
	assert.Equal(t, "data:image/png;base64,AAAA", logo)

	assert.Error(t, repo.Sync(ctx, state.Op{Kind: "bogus"}))
}

func TestHydrate(t *testing.T) {
	repo := newTestRepository(t)
	f := seed(t, repo)
	ctx := context.Background()

	require.NoError(t, repo.CreateParticipants(ctx, []domain.Participant{
		participant("Ana", "ana@example.com", f.event, f.category, nil),
	}))

	h, err := repo.Hydrate(ctx)
	require.NoError(t, err)
	assert.Len(t, h.Events, 2)
	assert.Len(t, h.Categories, 1)
	assert.Len(t, h.Participants, 1)
	assert.NotNil(t, h.Templates)
	assert.Nil(t, h.Theme)
	assert.Nil(t, h.Logo)

	rose, err := domain.PresetTheme("rose")
	require.NoError(t, err)
	require.NoError(t, repo.PutSetting(ctx, models.SettingTheme, rose))

	h, err = repo.Hydrate(ctx)
	require.NoError(t, err)
	require.NotNil(t, h.Theme)
	assert.Equal(t, "rose", h.Theme.Name)
}

func TestAdmins(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	n, err := repo.CountAdmins(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	admin := models.Admin{Name: "Admin", Email: " Admin@Example.com ", Password: "hash"}
	require.NoError(t, repo.CreateAdmin(ctx, &admin))

	found, err := repo.FindAdminByEmail(ctx, "ADMIN@example.com")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, found.ID)

	found.Name = "Root"
	require.NoError(t, repo.UpdateAdmin(ctx, &found))
	got, err := repo.GetAdmin(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "Root", got.Name)

	_, err = repo.FindAdminByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}
