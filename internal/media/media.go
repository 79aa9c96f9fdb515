// Package media normalizes uploaded images into the data URIs stored on
// templates and settings, and decodes them back for rendering.
package media

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // WebP decoder
)

const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeGIF  = "image/gif"
	MimeTypeWebP = "image/webp"
)

var (
	ErrUnsupportedImage = errors.New("unsupported image type")
	ErrInvalidDataURI   = errors.New("invalid data URI")
)

// Limits bounds the stored size of a normalized image. Larger images are
// scaled down to fit, preserving aspect ratio.
type Limits struct {
	MaxWidth  int
	MaxHeight int
	Quality   int
}

// BackgroundLimits covers the certificate page at the export scale factor.
var BackgroundLimits = Limits{MaxWidth: 2246, MaxHeight: 1588, Quality: 90}

// LogoLimits keeps branding images small.
var LogoLimits = Limits{MaxWidth: 512, MaxHeight: 512, Quality: 90}

// DetectMimeType sniffs the image type from raw bytes. TIFF is rejected
// (CVE-2023-36308 in disintegration/imaging).
func DetectMimeType(data []byte) string {
	contentType := http.DetectContentType(data)
	switch {
	case strings.Contains(contentType, "tiff"):
		return ""
	case strings.Contains(contentType, "jpeg"):
		return MimeTypeJPEG
	case strings.Contains(contentType, "png"):
		return MimeTypePNG
	case strings.Contains(contentType, "gif"):
		return MimeTypeGIF
	case strings.Contains(contentType, "webp"):
		return MimeTypeWebP
	default:
		return ""
	}
}

// Normalize decodes an uploaded image, shrinks it to fit limits and returns it
// as a data URI. Photos stay JPEG; everything else is stored as PNG.
func Normalize(data []byte, limits Limits) (string, error) {
	mimeType := DetectMimeType(data)
	if mimeType == "" {
		return "", ErrUnsupportedImage
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decoding image: %w", err)
	}

	b := img.Bounds()
	if limits.MaxWidth > 0 && limits.MaxHeight > 0 &&
		(b.Dx() > limits.MaxWidth || b.Dy() > limits.MaxHeight) {
		img = imaging.Fit(img, limits.MaxWidth, limits.MaxHeight, imaging.Lanczos)
	}

	outType := MimeTypePNG
	if mimeType == MimeTypeJPEG {
		outType = MimeTypeJPEG
	}

	encoded, err := encode(img, outType, limits.Quality)
	if err != nil {
		return "", err
	}
	return EncodeDataURI(outType, encoded), nil
}

func encode(img image.Image, mimeType string, quality int) ([]byte, error) {
	var buf bytes.Buffer
	switch mimeType {
	case MimeTypeJPEG:
		if quality <= 0 {
			quality = 90
		}
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, err
		}
	default:
		if err := png.Encode(&buf, img); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func EncodeDataURI(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURI splits a base64 data URI into its MIME type and payload.
func DecodeDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, ErrInvalidDataURI
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, ErrInvalidDataURI
	}
	mimeType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return "", nil, ErrInvalidDataURI
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}
	return mimeType, data, nil
}

// DecodeImage decodes the image held in a data URI.
func DecodeImage(uri string) (image.Image, error) {
	_, data, err := DecodeDataURI(uri)
	if err != nil {
		return nil, err
	}
	if DetectMimeType(data) == "" {
		return nil, ErrUnsupportedImage
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return img, nil
}

// IsImageDataURI reports whether s looks like a data URI for an image.
func IsImageDataURI(s string) bool {
	return strings.HasPrefix(s, "data:image/")
}
