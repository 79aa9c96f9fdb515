package certificate

import (
	"bytes"
	"fmt"
	"html/template"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/language"

	"github.com/farellandr/certportal/internal/domain"
	"github.com/farellandr/certportal/internal/media"
)

// Page size of a certificate at scale 1: A4 landscape at 96 dpi.
const (
	PageWidth  = 1123
	PageHeight = 794
)

// blockWidthRatio is the share of the page width the text block may use.
const blockWidthRatio = 0.8

type RendererOptions struct {
	Locale language.Tag
	// Sanitize runs template bodies through the UGC policy before the HTML
	// preview. Off by default: templates are administrator content.
	Sanitize  bool
	FontSize  float64
	TextColor color.Color
}

// Renderer composes certificates: background image under a centered block of
// substituted template text.
type Renderer struct {
	font      *opentype.Font
	locale    language.Tag
	sanitize  bool
	fontSize  float64
	textColor color.Color
	preview   *template.Template
}

func NewRenderer(opts RendererOptions) (*Renderer, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}
	if opts.FontSize <= 0 {
		opts.FontSize = 28
	}
	if opts.TextColor == nil {
		opts.TextColor = color.RGBA{R: 0x1f, G: 0x29, B: 0x37, A: 0xff}
	}
	if opts.Locale == language.Und {
		opts.Locale = DefaultLocale
	}

	return &Renderer{
		font:      f,
		locale:    opts.Locale,
		sanitize:  opts.Sanitize,
		fontSize:  opts.FontSize,
		textColor: opts.TextColor,
		preview:   template.Must(template.New("certificate").Parse(previewHTML)),
	}, nil
}

func (r *Renderer) Locale() language.Tag {
	return r.locale
}

// Text returns the substituted template body for cert.
func (r *Renderer) Text(cert domain.Certificate) string {
	return Substitute(cert.Template.Text, cert.Participant, cert.Event, r.locale)
}

// Render draws cert at the given scale factor. Scale 1 yields a
// PageWidth x PageHeight bitmap.
func (r *Renderer) Render(cert domain.Certificate, scale float64) (*image.RGBA, error) {
	if scale <= 0 {
		scale = 1
	}
	w := int(math.Round(PageWidth * scale))
	h := int(math.Round(PageHeight * scale))

	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	if bg := cert.Template.BackgroundImage; bg != "" {
		img, err := media.DecodeImage(bg)
		if err != nil {
			return nil, fmt.Errorf("background image: %w", err)
		}
		fitted := imaging.Fill(img, w, h, imaging.Center, imaging.Lanczos)
		draw.Draw(canvas, canvas.Bounds(), fitted, image.Point{}, draw.Over)
	}

	face, err := opentype.NewFace(r.font, &opentype.FaceOptions{
		Size:    r.fontSize * scale,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("creating font face: %w", err)
	}
	defer face.Close()

	drawer := &font.Drawer{Dst: canvas, Src: image.NewUniform(r.textColor), Face: face}
	lines := wrapLines(drawer, TextLines(r.Text(cert)), fixed.I(int(float64(w)*blockWidthRatio)))

	metrics := face.Metrics()
	lineHeight := metrics.Height.Ceil()
	top := (h-lineHeight*len(lines))/2 + metrics.Ascent.Ceil()
	for i, line := range lines {
		width := drawer.MeasureString(line).Ceil()
		drawer.Dot = fixed.P((w-width)/2, top+i*lineHeight)
		drawer.DrawString(line)
	}

	return canvas, nil
}

// wrapLines breaks lines greedily on spaces so each fits within maxWidth. A
// single word wider than the block stays on its own line.
func wrapLines(d *font.Drawer, lines []string, maxWidth fixed.Int26_6) []string {
	var out []string
	for _, line := range lines {
		words := strings.Fields(line)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		current := words[0]
		for _, word := range words[1:] {
			candidate := current + " " + word
			if d.MeasureString(candidate) > maxWidth {
				out = append(out, current)
				current = word
				continue
			}
			current = candidate
		}
		out = append(out, current)
	}
	return out
}

type previewData struct {
	Width      int
	Height     int
	Background template.URL
	Body       template.HTML
}

// PreviewHTML renders cert as a standalone HTML page. The substituted body is
// emitted as markup; administrators author it, so it is trusted unless the
// renderer was built with Sanitize.
func (r *Renderer) PreviewHTML(cert domain.Certificate) ([]byte, error) {
	body := r.Text(cert)
	if r.sanitize {
		body = SanitizeMarkup(body)
	}

	data := previewData{
		Width:  PageWidth,
		Height: PageHeight,
		Body:   template.HTML(body),
	}
	if media.IsImageDataURI(cert.Template.BackgroundImage) {
		data.Background = template.URL(cert.Template.BackgroundImage)
	}

	var buf bytes.Buffer
	if err := r.preview.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const previewHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Certificate</title>
<style>
body { margin: 0; background: #e5e7eb; }
.page { position: relative; width: {{.Width}}px; height: {{.Height}}px; margin: 0 auto; background: #fff; overflow: hidden; }
.page img.bg { position: absolute; inset: 0; width: 100%; height: 100%; object-fit: cover; }
.page .text { position: absolute; top: 50%; left: 10%; width: 80%; transform: translateY(-50%); text-align: center; color: #1f2937; font-family: sans-serif; font-size: 28px; }
</style>
</head>
<body>
<div class="page">
{{if .Background}}<img class="bg" src="{{.Background}}" alt="">{{end}}
<div class="text">{{.Body}}</div>
</div>
</body>
</html>
`
