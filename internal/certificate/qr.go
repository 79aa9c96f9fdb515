package certificate

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/skip2/go-qrcode"

	"github.com/farellandr/certportal/internal/domain"
)

// VerifyLinkFunc returns the absolute link a certificate's QR code points to.
// An empty link leaves the certificate unstamped.
type VerifyLinkFunc func(domain.Participant) string

// StampQR draws a QR code for link in the bottom-right corner of img. The code
// side is an eighth of the page height.
func StampQR(img *image.RGBA, link string) error {
	q, err := qrcode.New(link, qrcode.Medium)
	if err != nil {
		return fmt.Errorf("encoding qr code: %w", err)
	}

	b := img.Bounds()
	code := q.Image(b.Dy() / 8)
	size := code.Bounds().Size()
	margin := size.X / 4
	at := image.Pt(b.Max.X-size.X-margin, b.Max.Y-size.Y-margin)
	if at.X < b.Min.X || at.Y < b.Min.Y {
		return fmt.Errorf("encoding qr code: page %dx%d is too small", b.Dx(), b.Dy())
	}

	draw.Draw(img, image.Rectangle{Min: at, Max: at.Add(size)}, code, code.Bounds().Min, draw.Src)
	return nil
}
