// Package state owns the portal's in-process application state: a single
// AppState value changed only through Reduce, persisted as one snapshot after
// every dispatch.
package state

import (
	"github.com/farellandr/certportal/internal/domain"
)

type AppState struct {
	Session       domain.Session        `json:"session"`
	Theme         domain.ThemeConfig    `json:"theme"`
	Logo          string                `json:"logo,omitempty"`
	Events        []domain.Event        `json:"events"`
	Categories    []domain.Category     `json:"categories"`
	Templates     []domain.Template     `json:"templates"`
	Participants  []domain.Participant  `json:"participants"`
	ImportHistory []domain.ImportRecord `json:"importHistory"`
}

// Initial is the state before anything is loaded.
func Initial() AppState {
	return AppState{
		Theme:         domain.DefaultTheme(),
		Events:        []domain.Event{},
		Categories:    []domain.Category{},
		Templates:     []domain.Template{},
		Participants:  []domain.Participant{},
		ImportHistory: []domain.ImportRecord{},
	}
}

// Clone returns a copy that shares no slices with s.
func (s AppState) Clone() AppState {
	out := s
	out.Events = append([]domain.Event{}, s.Events...)
	out.Categories = append([]domain.Category{}, s.Categories...)
	out.Templates = append([]domain.Template{}, s.Templates...)
	out.Participants = append([]domain.Participant{}, s.Participants...)
	out.ImportHistory = append([]domain.ImportRecord{}, s.ImportHistory...)
	return out
}
