package importer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farellandr/certportal/internal/domain"
)

type fakeWriter struct {
	imports         []domain.ImportRecord
	participants    []domain.Participant
	deleted         []uuid.UUID
	participantsErr error
	deleteErr       error
}

func (w *fakeWriter) CreateImport(_ context.Context, record domain.ImportRecord) error {
	w.imports = append(w.imports, record)
	return nil
}

func (w *fakeWriter) CreateParticipants(_ context.Context, participants []domain.Participant) error {
	if w.participantsErr != nil {
		return w.participantsErr
	}
	w.participants = append(w.participants, participants...)
	return nil
}

func (w *fakeWriter) DeleteImport(_ context.Context, id uuid.UUID) error {
	w.deleted = append(w.deleted, id)
	return w.deleteErr
}

func testRequest(data string) Request {
	return Request{
		FileName: "participants.csv",
		Data:     []byte(data),
		Event:    domain.Event{ID: uuid.New(), Name: "GopherCon"},
		Category: domain.Category{ID: uuid.New(), Name: "Speaker"},
	}
}

func TestImport_Success(t *testing.T) {
	writer := &fakeWriter{}
	imp := New(writer, nil)
	imp.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	req := testRequest("name,email\nAna,ana@example.com\nBia,bia@example.com\n,nobody@example.com\n")

	var phases []Phase
	result, err := imp.Import(context.Background(), req, func(p Phase) { phases = append(phases, p) })
	require.NoError(t, err)

	assert.Equal(t, []Phase{PhaseParsing, PhaseValidating, PhaseWriting, PhaseSuccess}, phases)
	assert.Equal(t, PhaseSuccess, result.Phase)
	assert.Equal(t, 1, result.Skipped)

	require.Len(t, writer.imports, 1)
	record := writer.imports[0]
	assert.Equal(t, 2, record.Count)
	assert.Equal(t, "Speaker", record.CategoryName)
	assert.Equal(t, req.Event.ID, record.EventID)
	assert.Equal(t, "success", record.Status)
	assert.Equal(t, "participants.csv", record.FileName)

	require.Len(t, writer.participants, 2)
	for _, p := range writer.participants {
		require.NotNil(t, p.ImportID)
		assert.Equal(t, record.ID, *p.ImportID)
		assert.Equal(t, req.Category.ID, p.CategoryID)
	}
	assert.Equal(t, record, result.Record)
}

func TestImport_NoValidRowsWritesNothing(t *testing.T) {
	writer := &fakeWriter{}
	result, err := New(writer, nil).Import(context.Background(), testRequest("name,email\n,a@b.com\nAna,\n"), nil)

	assert.ErrorIs(t, err, ErrNoValidRows)
	assert.Equal(t, PhaseError, result.Phase)
	assert.Empty(t, writer.imports)
	assert.Empty(t, writer.participants)
}

func TestImport_ParticipantFailureCompensates(t *testing.T) {
	writer := &fakeWriter{participantsErr: errors.New("constraint violation")}

	result, err := New(writer, nil).Import(context.Background(), testRequest("name,email\nAna,ana@example.com\n"), nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "constraint violation")
	assert.Equal(t, PhaseError, result.Phase)
	require.Len(t, writer.imports, 1)
	assert.Equal(t, []uuid.UUID{writer.imports[0].ID}, writer.deleted)
}

func TestImport_CompensationFailureStillReportsWriteError(t *testing.T) {
	writeErr := errors.New("timeout")
	writer := &fakeWriter{participantsErr: writeErr, deleteErr: errors.New("also down")}

	_, err := New(writer, nil).Import(context.Background(), testRequest("name,email\nAna,ana@example.com\n"), nil)

	assert.ErrorIs(t, err, writeErr)
}

func TestImport_DuplicateEmailsAreKept(t *testing.T) {
	writer := &fakeWriter{}
	req := testRequest("name,email\nAna,ana@example.com\nAna,ana@example.com\n")

	_, err := New(writer, nil).Import(context.Background(), req, nil)
	require.NoError(t, err)
	_, err = New(writer, nil).Import(context.Background(), req, nil)
	require.NoError(t, err)

	assert.Len(t, writer.participants, 4)
	assert.Len(t, writer.imports, 2)
}
