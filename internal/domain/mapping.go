package domain

import (
	"time"

	"github.com/farellandr/certportal/internal/models"
)

func EventFromRecord(r models.Event) Event {
	return Event{ID: r.ID, Name: r.Name, Date: r.Date}
}

func (e Event) ToRecord() models.Event {
	return models.Event{ID: e.ID, Name: e.Name, Date: e.Date}
}

func CategoryFromRecord(r models.Category) Category {
	return Category{ID: r.ID, Name: r.Name}
}

func (c Category) ToRecord() models.Category {
	return models.Category{ID: c.ID, Name: c.Name}
}

func TemplateFromRecord(r models.Template) Template {
	return Template{
		ID:              r.ID,
		Name:            r.Name,
		CategoryID:      r.CategoryID,
		EventID:         r.EventID,
		BackgroundImage: r.BackgroundImage,
		Text:            r.Body,
	}
}

func (t Template) ToRecord() models.Template {
	return models.Template{
		ID:              t.ID,
		Name:            t.Name,
		CategoryID:      t.CategoryID,
		EventID:         t.EventID,
		BackgroundImage: t.BackgroundImage,
		Body:            t.Text,
	}
}

func ParticipantFromRecord(r models.Participant) Participant {
	return Participant{
		ID:         r.ID,
		Name:       r.Name,
		Email:      r.Email,
		EventID:    r.EventID,
		CategoryID: r.CategoryID,
		ImportID:   r.ImportID,
		Var1:       r.Var1,
		Var2:       r.Var2,
		Var3:       r.Var3,
	}
}

func (p Participant) ToRecord() models.Participant {
	return models.Participant{
		ID:         p.ID,
		Name:       p.Name,
		Email:      p.Email,
		EventID:    p.EventID,
		CategoryID: p.CategoryID,
		ImportID:   p.ImportID,
		Var1:       p.Var1,
		Var2:       p.Var2,
		Var3:       p.Var3,
	}
}

func ImportRecordFromRecord(r models.ImportRecord) ImportRecord {
	return ImportRecord{
		ID:           r.ID,
		Timestamp:    r.ImportedAt,
		FileName:     r.FileName,
		Count:        r.RowCount,
		EventID:      r.EventID,
		CategoryName: r.CategoryName,
		Status:       r.Status,
	}
}

func (i ImportRecord) ToRecord() models.ImportRecord {
	return models.ImportRecord{
		ID:           i.ID,
		ImportedAt:   i.Timestamp,
		FileName:     i.FileName,
		RowCount:     i.Count,
		EventID:      i.EventID,
		CategoryName: i.CategoryName,
		Status:       i.Status,
	}
}

func UserFromRecord(r models.Admin) User {
	return User{Name: r.Name, Email: r.Email}
}

// Mapping helpers for whole result sets.

func EventsFromRecords(records []models.Event) []Event {
	return mapSlice(records, EventFromRecord)
}

func CategoriesFromRecords(records []models.Category) []Category {
	return mapSlice(records, CategoryFromRecord)
}

func TemplatesFromRecords(records []models.Template) []Template {
	return mapSlice(records, TemplateFromRecord)
}

func ParticipantsFromRecords(records []models.Participant) []Participant {
	return mapSlice(records, ParticipantFromRecord)
}

func ImportRecordsFromRecords(records []models.ImportRecord) []ImportRecord {
	return mapSlice(records, ImportRecordFromRecord)
}

func mapSlice[R any, D any](records []R, fn func(R) D) []D {
	out := make([]D, 0, len(records))
	for _, r := range records {
		out = append(out, fn(r))
	}
	return out
}

// DateOnly truncates t to its UTC calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
