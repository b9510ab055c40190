package exifread

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"
	"github.com/rwcarlsen/goexif/tiff"

	"github.com/nightdust/imgmeta/internal/logger"
)

func init() {
	// Vendor maker-note parsers improve coverage for Canon/Nikon fields.
	exif.RegisterParsers(mknote.All...)
}

// GoexifReader reads Exif tags from JPEG/TIFF streams using goexif.
// GPS tags surface as flat GPS-prefixed entries in the main tag set.
type GoexifReader struct{}

// Read decodes all Exif tags from the image bytes.
func (GoexifReader) Read(data []byte) (*TagSet, error) {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	set := &TagSet{Source: "goexif"}
	walker := tagCollector{set: set}
	if err := x.Walk(&walker); err != nil {
		logger.Warn("exif walk aborted: %v", err)
	}
	if len(set.Tags) == 0 {
		return nil, ErrNoExif
	}
	return set, nil
}

type tagCollector struct {
	set *TagSet
}

// Walk implements the goexif Walker interface.
func (c *tagCollector) Walk(name exif.FieldName, tag *tiff.Tag) error {
	if tag == nil {
		return nil
	}
	c.set.Tags = append(c.set.Tags, Tag{Name: string(name), Value: rawFromTiff(tag)})
	return nil
}

// rawFromTiff converts a goexif tiff tag into the backend-neutral
// RawValue shape.
func rawFromTiff(tag *tiff.Tag) RawValue {
	count := int(tag.Count)

	switch tag.Format() {
	case tiff.StringVal:
		if s, err := tag.StringVal(); err == nil {
			return NewText(s)
		}
		return NewBytes(tag.Val)

	case tiff.RatVal:
		items := make([]RawValue, 0, count)
		for i := 0; i < count; i++ {
			num, den, err := tag.Rat2(i)
			if err != nil {
				break
			}
			items = append(items, NewRational(num, den))
		}
		return collapse(items, tag)

	case tiff.IntVal:
		items := make([]RawValue, 0, count)
		for i := 0; i < count; i++ {
			v, err := tag.Int(i)
			if err != nil {
				break
			}
			items = append(items, NewText(strconv.Itoa(v)))
		}
		return collapse(items, tag)

	case tiff.FloatVal:
		items := make([]RawValue, 0, count)
		for i := 0; i < count; i++ {
			v, err := tag.Float(i)
			if err != nil {
				break
			}
			items = append(items, NewText(strconv.FormatFloat(v, 'f', -1, 64)))
		}
		return collapse(items, tag)

	default:
		// UndefVal and OtherVal carry opaque bytes; some are really
		// text (UserComment), which the decoder sorts out.
		return NewBytes(tag.Val)
	}
}

// collapse unwraps single-element lists and falls back to the tag's
// own stringification when element conversion failed part way.
func collapse(items []RawValue, tag *tiff.Tag) RawValue {
	switch len(items) {
	case 0:
		return NewText(strings.Trim(tag.String(), `"`))
	case 1:
		return items[0]
	default:
		return NewList(items...)
	}
}
