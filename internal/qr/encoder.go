// Package qr turns (event, specimen) pairs into scannable lookup URLs and QR symbols.
package qr

import (
	"fmt"
	"image"
	"net/url"
	"specimenpro/internal/models"
	"strings"

	"github.com/skip2/go-qrcode"
)

const maxVersion = 40

type Encoder struct {
	BaseURL string
	Level   qrcode.RecoveryLevel
	// Version forces a symbol version (1-40). Zero picks the smallest that fits.
	Version int
}

// NewEncoder uses the highest error-correction tier so scuffed prints still scan.
func NewEncoder(baseURL string) *Encoder {
	return &Encoder{BaseURL: baseURL, Level: qrcode.Highest}
}

// Artifact is a derived QR code for one specimen. Rasters are produced on demand.
type Artifact struct {
	EventID    string
	SpecimenID string
	URL        string

	code *qrcode.QRCode
}

// URL builds "{base}/event/{eventID}/{specimenID}".
func (e *Encoder) URL(eventID, specimenID string) string {
	base := strings.TrimRight(e.BaseURL, "/")
	return base + "/event/" + url.PathEscape(eventID) + "/" + url.PathEscape(specimenID)
}

func (e *Encoder) Encode(eventID, specimenID string) (*Artifact, error) {
	if eventID == "" || specimenID == "" {
		return nil, fmt.Errorf("%w: event and specimen ids are required", models.ErrInvalidConfiguration)
	}
	if e.Version < 0 || e.Version > maxVersion {
		return nil, fmt.Errorf("%w: qr version %d (expected 0-%d)", models.ErrInvalidConfiguration, e.Version, maxVersion)
	}

	target := e.URL(eventID, specimenID)

	var (
		code *qrcode.QRCode
		err  error
	)
	if e.Version == 0 {
		code, err = qrcode.New(target, e.Level)
	} else {
		code, err = qrcode.NewWithForcedVersion(target, e.Version, e.Level)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %d bytes for %s/%s: %v", models.ErrPayloadTooLarge, len(target), eventID, specimenID, err)
	}

	return &Artifact{
		EventID:    eventID,
		SpecimenID: specimenID,
		URL:        target,
		code:       code,
	}, nil
}

// PNG renders the symbol as a PNG of sizePx square pixels.
func (a *Artifact) PNG(sizePx int) ([]byte, error) {
	return a.code.PNG(sizePx)
}

func (a *Artifact) Image(sizePx int) image.Image {
	return a.code.Image(sizePx)
}

// Bitmap returns the module matrix including the quiet zone.
func (a *Artifact) Bitmap() [][]bool {
	return a.code.Bitmap()
}

func (a *Artifact) Version() int {
	return a.code.VersionNumber
}

// ParseLevel maps low, medium, high and highest to a recovery level.
func ParseLevel(s string) (qrcode.RecoveryLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "l":
		return qrcode.Low, nil
	case "medium", "m":
		return qrcode.Medium, nil
	case "high", "q":
		return qrcode.High, nil
	case "highest", "h", "":
		return qrcode.Highest, nil
	}
	return qrcode.Highest, fmt.Errorf("%w: error correction level %q", models.ErrInvalidConfiguration, s)
}
