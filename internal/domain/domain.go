// Package domain holds the in-memory records the portal works with. They are
// decoupled from the stored rows in internal/models; mapping.go is the only
// place the two shapes meet.
package domain

import (
	"time"

	"github.com/google/uuid"
)

type Event struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Date time.Time `json:"date"`
}

type Category struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Template is scoped to a category and, optionally, a single event. A nil
// EventID makes it the global template for that category.
type Template struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	CategoryID      uuid.UUID  `json:"categoryId"`
	EventID         *uuid.UUID `json:"eventId,omitempty"`
	BackgroundImage string     `json:"backgroundImage"`
	Text            string     `json:"text"`
}

func (t Template) IsGlobal() bool {
	return t.EventID == nil
}

type Participant struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	EventID    uuid.UUID  `json:"eventId"`
	CategoryID uuid.UUID  `json:"categoryId"`
	ImportID   *uuid.UUID `json:"importId,omitempty"`
	Var1       string     `json:"var1,omitempty"`
	Var2       string     `json:"var2,omitempty"`
	Var3       string     `json:"var3,omitempty"`
}

type ImportRecord struct {
	ID           uuid.UUID `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	FileName     string    `json:"fileName"`
	Count        int       `json:"count"`
	EventID      uuid.UUID `json:"eventId"`
	CategoryName string    `json:"categoryName"`
	Status       string    `json:"status"`
}

// Certificate is assembled per render and never stored.
type Certificate struct {
	Participant Participant `json:"participant"`
	Event       Event       `json:"event"`
	Template    Template    `json:"template"`
}

// User is the display copy of the signed-in administrator.
type User struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Session struct {
	Authenticated bool `json:"authenticated"`
	User          User `json:"user"`
}
