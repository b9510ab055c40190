// Package analyze assembles the full metadata record for one image:
// file-level properties, decoded Exif tags and the GPS coordinate.
// Assembly never fails hard; whatever was extracted before a failure
// is returned alongside a short diagnostic.
package analyze

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/webp"

	"github.com/nightdust/imgmeta/internal/exifread"
	"github.com/nightdust/imgmeta/internal/extract"
	"github.com/nightdust/imgmeta/internal/gps"
	"github.com/nightdust/imgmeta/internal/logger"
)

// maxErrorLength caps the diagnostic carried on a result; full detail
// goes to the log instead.
const maxErrorLength = 80

// Property is one labeled basic-info entry. Order is preserved for
// display.
type Property struct {
	Label string
	Value string
}

// Result is the assembled metadata record for one image.
type Result struct {
	Basic []Property
	Exif  map[string]string
	GPS   gps.Coordinate
	Error string
}

// Analyzer parses image bytes into metadata records.
type Analyzer struct {
	reader exifread.Reader
}

// New creates an analyzer. A nil reader selects the default backend
// chain.
func New(reader exifread.Reader) *Analyzer {
	if reader == nil {
		reader = exifread.NewAutoReader()
	}
	return &Analyzer{reader: reader}
}

// ParseFile reads and parses the image at path.
func (a *Analyzer) ParseFile(path string) *Result {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Error("cannot read %s: %v", path, err)
		res := &Result{
			Exif: make(map[string]string),
			GPS:  gps.Absent(),
		}
		if errors.Is(err, os.ErrNotExist) {
			res.Error = "file not found"
		} else {
			res.Error = capError(err)
		}
		return res
	}
	return a.Parse(data)
}

// Parse assembles the metadata record for the given image bytes.
func (a *Analyzer) Parse(data []byte) *Result {
	res := &Result{
		Exif: make(map[string]string),
		GPS:  gps.Absent(),
	}

	res.addBasic("size_kb", fmt.Sprintf("%.2f", float64(len(data))/1024.0))

	mtype := mimetype.Detect(data)
	isImage := strings.HasPrefix(mtype.String(), "image/")
	if isImage {
		res.addBasic("format", formatName(mtype.Extension()))
	}

	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		res.addBasic("dimensions", fmt.Sprintf("%d × %d", cfg.Width, cfg.Height))
	} else if !isImage {
		// Neither sniffable nor decodable: not an image we can parse.
		logger.Error("unrecognized image data (%s): %v", mtype.String(), err)
		res.Error = "unrecognized image format"
		return res
	}

	set, err := a.reader.Read(data)
	if err != nil {
		if errors.Is(err, exifread.ErrNoExif) {
			// A valid image without an Exif block is not a failure.
			return res
		}
		logger.Error("exif extraction failed: %v", err)
		res.Error = capError(err)
		return res
	}

	ex := extract.Extract(set)
	res.Exif = ex.Exif
	res.GPS = ex.GPS

	if v, ok := ex.Exif["Make"]; ok {
		res.addBasic("device_make", v)
	}
	if v, ok := ex.Exif["Model"]; ok {
		res.addBasic("device_model", v)
	}
	if v := captureTime(ex.Exif); v != "" {
		res.addBasic("captured_at", v)
	}

	return res
}

func (r *Result) addBasic(label, value string) {
	r.Basic = append(r.Basic, Property{Label: label, Value: value})
}

// BasicValue returns the value of a labeled basic property, if present.
func (r *Result) BasicValue(label string) (string, bool) {
	for _, p := range r.Basic {
		if p.Label == label {
			return p.Value, true
		}
	}
	return "", false
}

// captureTime picks the best available timestamp tag and reformats
// the Exif colon-date layout when it parses.
func captureTime(tags map[string]string) string {
	for _, name := range []string{"DateTimeOriginal", "DateTimeDigitized", "DateTime"} {
		raw, ok := tags[name]
		if !ok {
			continue
		}
		if t, err := time.Parse("2006:01:02 15:04:05", raw); err == nil {
			return t.Format("2006-01-02 15:04:05")
		}
		return raw
	}
	return ""
}

// formatName turns a sniffed extension like ".jpg" into a display
// name like "JPG".
func formatName(ext string) string {
	return strings.ToUpper(strings.TrimPrefix(ext, "."))
}

// capError truncates on rune boundaries; error text can carry
// multi-byte file names and library messages.
func capError(err error) string {
	msg := err.Error()
	runes := []rune(msg)
	if len(runes) > maxErrorLength {
		return string(runes[:maxErrorLength]) + "..."
	}
	return msg
}
