// Package exifread reads raw Exif tag collections from image bytes.
//
// Two backends are available: goexif for well-formed JPEG/TIFF, and a
// raw Exif scan for everything else. AutoReader probes them in order,
// so callers get whichever GPS representation the winning backend
// exposes (flat-prefixed tags or a nested sub-block).
package exifread

import (
	"errors"

	"github.com/nightdust/imgmeta/internal/logger"
)

// ErrNoExif is returned when the image carries no Exif block at all.
var ErrNoExif = errors.New("no exif data")

// Reader extracts a raw tag collection from image bytes.
type Reader interface {
	Read(data []byte) (*TagSet, error)
}

// AutoReader probes the goexif backend first and falls back to the
// raw scan when goexif cannot handle the container.
type AutoReader struct {
	primary  Reader
	fallback Reader
}

// NewAutoReader creates the default backend chain.
func NewAutoReader() *AutoReader {
	return &AutoReader{
		primary:  GoexifReader{},
		fallback: RawScanReader{},
	}
}

// Read extracts tags with the first backend that succeeds.
func (r *AutoReader) Read(data []byte) (*TagSet, error) {
	set, err := r.primary.Read(data)
	if err == nil {
		return set, nil
	}
	if errors.Is(err, ErrNoExif) {
		return nil, err
	}

	logger.Debug("primary exif backend failed (%v), trying raw scan", err)
	return r.fallback.Read(data)
}
