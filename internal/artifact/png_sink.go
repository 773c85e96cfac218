package artifact

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"specimenpro/internal/logger"
	"specimenpro/internal/models"
	"specimenpro/internal/qr"

	"github.com/disintegration/imaging"
)

const DefaultPNGSize = 512

var encodePNG = func(w io.Writer, img image.Image) error {
	return imaging.Encode(w, img, imaging.PNG)
}

// PNGSink writes one PNG per specimen into Dir.
type PNGSink struct {
	Dir    string
	SizePx int
	Logger *logger.Logger
}

func NewPNGSink(dir string, sizePx int, log *logger.Logger) *PNGSink {
	if sizePx <= 0 {
		sizePx = DefaultPNGSize
	}
	if log == nil {
		log = logger.Nop()
	}
	return &PNGSink{Dir: dir, SizePx: sizePx, Logger: log}
}

// Write renders the event's specimens in stored order. Existing files with the
// same name are overwritten. It returns the number of files written; on failure
// the error is a *BatchError and earlier files stay on disk.
func (s *PNGSink) Write(ctx context.Context, ev *models.Event, enc *qr.Encoder) (int, error) {
	if err := checkEvent(ev); err != nil {
		return 0, err
	}
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return 0, &BatchError{Err: fmt.Errorf("%w: create %s: %v", models.ErrIO, s.Dir, err)}
	}

	written := 0
	for _, spec := range ev.Specimens {
		if err := ctx.Err(); err != nil {
			s.Logger.Warn("BATCH", fmt.Sprintf("PNG batch for %s cancelled after %d files", ev.ID, written))
			return written, &BatchError{Written: written, Err: err}
		}

		art, err := enc.Encode(ev.ID, spec.ID)
		if err != nil {
			return written, &BatchError{Written: written, Err: err}
		}

		path := filepath.Join(s.Dir, FileName(spec))
		if err := writePNG(path, art, s.SizePx); err != nil {
			s.Logger.Error("BATCH", fmt.Sprintf("Failed to write %s: %v", path, err))
			return written, &BatchError{Written: written, Err: err}
		}
		written++
		s.Logger.Debug("BATCH", fmt.Sprintf("Wrote %s -> %s", path, art.URL))
	}

	s.Logger.LogBatch("PNG", ev.ID, fmt.Sprintf("%d files in %s", written, s.Dir))
	return written, nil
}

// writePNG renders into path+".tmp" and renames it over path, so a failed
// encode never leaves a truncated PNG under the final name.
func writePNG(path string, art *qr.Artifact, sizePx int) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("%w: create %s: %v", models.ErrIO, tmp, err)
	}
	if err := encodePNG(f, art.Image(sizePx)); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("%w: encode %s: %v", models.ErrIO, path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: close %s: %v", models.ErrIO, tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: rename %s: %v", models.ErrIO, path, err)
	}
	return nil
}
