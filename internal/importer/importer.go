// Package importer turns an uploaded participant list into one import batch
// and its participants in the remote store.
package importer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/farellandr/certportal/internal/domain"
	"github.com/farellandr/certportal/internal/models"
)

type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseParsing    Phase = "parsing"
	PhaseValidating Phase = "validating"
	PhaseWriting    Phase = "writing-remote"
	PhaseSuccess    Phase = "success"
	PhaseError      Phase = "error"
)

var ErrNoValidRows = errors.New("no rows with both name and email")

// Writer is the remote side of an import. CreateParticipants is only called
// after CreateImport succeeded; DeleteImport undoes CreateImport.
type Writer interface {
	CreateImport(ctx context.Context, record domain.ImportRecord) error
	CreateParticipants(ctx context.Context, participants []domain.Participant) error
	DeleteImport(ctx context.Context, id uuid.UUID) error
}

// ProgressFunc observes phase transitions.
type ProgressFunc func(phase Phase)

type Request struct {
	FileName string
	Data     []byte
	Event    domain.Event
	Category domain.Category
}

type Result struct {
	Phase        Phase
	Record       domain.ImportRecord
	Participants []domain.Participant
	Skipped      int
}

type Importer struct {
	writer Writer
	logger *slog.Logger
	now    func() time.Time
}

func New(writer Writer, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{writer: writer, logger: logger, now: time.Now}
}

// Import parses, validates and writes req. Steps run strictly in sequence; a
// failure at any step is terminal and leaves Result.Phase at PhaseError.
func (i *Importer) Import(ctx context.Context, req Request, progress ProgressFunc) (Result, error) {
	result := Result{Phase: PhaseIdle}
	step := func(phase Phase) {
		result.Phase = phase
		if progress != nil {
			progress(phase)
		}
	}
	fail := func(err error) (Result, error) {
		step(PhaseError)
		return result, err
	}

	step(PhaseParsing)
	rows, err := Parse(req.FileName, bytes.NewReader(req.Data))
	if err != nil {
		return fail(err)
	}

	step(PhaseValidating)
	valid, skipped := Validate(rows)
	result.Skipped = skipped
	if len(valid) == 0 {
		return fail(ErrNoValidRows)
	}

	step(PhaseWriting)
	batchID := uuid.New()
	record := domain.ImportRecord{
		ID:           batchID,
		Timestamp:    i.now().UTC(),
		FileName:     req.FileName,
		Count:        len(valid),
		EventID:      req.Event.ID,
		CategoryName: req.Category.Name,
		Status:       models.ImportStatusSuccess,
	}
	participants := make([]domain.Participant, 0, len(valid))
	for _, row := range valid {
		participants = append(participants, domain.Participant{
			ID:         uuid.New(),
			Name:       row.Name,
			Email:      row.Email,
			EventID:    req.Event.ID,
			CategoryID: req.Category.ID,
			ImportID:   &batchID,
			Var1:       row.Var1,
			Var2:       row.Var2,
			Var3:       row.Var3,
		})
	}

	if err := i.writer.CreateImport(ctx, record); err != nil {
		return fail(fmt.Errorf("writing import batch: %w", err))
	}
	if err := i.writer.CreateParticipants(ctx, participants); err != nil {
		if cerr := i.writer.DeleteImport(context.WithoutCancel(ctx), batchID); cerr != nil {
			i.logger.Error("compensating import batch delete failed",
				"import_id", batchID, "error", cerr)
		}
		return fail(fmt.Errorf("writing participants: %w", err))
	}

	result.Record = record
	result.Participants = participants
	step(PhaseSuccess)

	i.logger.Info("import completed",
		"import_id", batchID,
		"file", req.FileName,
		"rows", len(participants),
		"skipped", skipped,
		"event_id", req.Event.ID)

	return result, nil
}
