package certificate

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"regexp"
	"strings"
	"sync"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/farellandr/certportal/internal/domain"
)

const (
	FormatPDF     = "pdf"
	FormatPNG     = "png"
	FormatPreview = "preview"
)

// DefaultExportScale renders exports at twice the display resolution.
const DefaultExportScale = 2.0

// Artifact is one exported certificate file.
type Artifact struct {
	FileName    string
	ContentType string
	Data        []byte
	Width       int
	Height      int
}

// Exporter captures certificates to bitmaps and wraps them in PDFs. At most one
// export per participant and format runs at a time; concurrent requests for the
// same certificate share its result. Distinct certificates export in parallel.
type Exporter struct {
	renderer   *Renderer
	scale      float64
	logger     *slog.Logger
	verifyLink VerifyLinkFunc

	group singleflight.Group
	mu    sync.Mutex
	busy  map[uuid.UUID]int
}

func NewExporter(renderer *Renderer, scale float64, logger *slog.Logger) *Exporter {
	if scale <= 0 {
		scale = DefaultExportScale
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{
		renderer: renderer,
		scale:    scale,
		logger:   logger,
		busy:     make(map[uuid.UUID]int),
	}
}

// WithVerifyLink stamps every exported certificate with a QR code of the link
// fn returns for its participant.
func (e *Exporter) WithVerifyLink(fn VerifyLinkFunc) *Exporter {
	e.verifyLink = fn
	return e
}

func (e *Exporter) Renderer() *Renderer {
	return e.renderer
}

// Busy reports whether an export for the participant is in flight.
func (e *Exporter) Busy(participantID uuid.UUID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.busy[participantID] > 0
}

func (e *Exporter) PDF(ctx context.Context, cert domain.Certificate) (*Artifact, error) {
	return e.export(ctx, cert, FormatPDF)
}

func (e *Exporter) PNG(ctx context.Context, cert domain.Certificate) (*Artifact, error) {
	return e.export(ctx, cert, FormatPNG)
}

func (e *Exporter) export(ctx context.Context, cert domain.Certificate, format string) (*Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := format + ":" + cert.Participant.ID.String()
	ch := e.group.DoChan(key, func() (interface{}, error) {
		e.markBusy(cert.Participant.ID, 1)
		defer e.markBusy(cert.Participant.ID, -1)
		return e.capture(cert, format)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			e.logger.Error("certificate export failed",
				"participant_id", cert.Participant.ID,
				"format", format,
				"error", res.Err)
			return nil, res.Err
		}
		return res.Val.(*Artifact), nil
	}
}

func (e *Exporter) markBusy(id uuid.UUID, delta int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.busy[id] += delta
	if e.busy[id] <= 0 {
		delete(e.busy, id)
	}
}

func (e *Exporter) capture(cert domain.Certificate, format string) (*Artifact, error) {
	img, err := e.renderer.Render(cert, e.scale)
	if err != nil {
		return nil, fmt.Errorf("rendering certificate: %w", err)
	}
	if e.verifyLink != nil {
		if link := e.verifyLink(cert.Participant); link != "" {
			if err := StampQR(img, link); err != nil {
				return nil, err
			}
		}
	}

	b := img.Bounds()
	artifact := &Artifact{
		FileName: FileName(cert.Participant.Name, cert.Event.Name, format),
		Width:    b.Dx(),
		Height:   b.Dy(),
	}

	switch format {
	case FormatPNG:
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encoding png: %w", err)
		}
		artifact.ContentType = "image/png"
		artifact.Data = buf.Bytes()
	default:
		data, err := EncodePDF(img)
		if err != nil {
			return nil, err
		}
		artifact.ContentType = "application/pdf"
		artifact.Data = data
	}
	return artifact, nil
}

// EncodePDF embeds img as the only page of a new PDF whose page size, in
// points, equals the bitmap's pixel size.
func EncodePDF(img image.Image) ([]byte, error) {
	b := img.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())

	var raster bytes.Buffer
	if err := png.Encode(&raster, img); err != nil {
		return nil, fmt.Errorf("encoding bitmap: %w", err)
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: w, Ht: h},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("certificate", opts, &raster)
	pdf.ImageOptions("certificate", 0, 0, w, h, false, opts, 0, "")

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("writing pdf: %w", err)
	}
	return out.Bytes(), nil
}

var unsafeFileChars = regexp.MustCompile(`[\s/\\]+`)

// FileName derives the download name from the participant and event names,
// replacing whitespace and path separators with underscores.
func FileName(participantName, eventName, ext string) string {
	clean := func(s string) string {
		return unsafeFileChars.ReplaceAllString(strings.TrimSpace(s), "_")
	}
	return fmt.Sprintf("certificate_%s_%s.%s", clean(participantName), clean(eventName), ext)
}
