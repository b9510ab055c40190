package exifread

import (
	"errors"
	"fmt"
	"strings"

	exifv3 "github.com/dsoprea/go-exif/v3"
	exifcommon "github.com/dsoprea/go-exif/v3/common"

	"github.com/nightdust/imgmeta/internal/logger"
	"github.com/nightdust/imgmeta/pkg/common"
)

const gpsIfdPath = "IFD/GPSInfo"

// RawScanReader locates an Exif blob anywhere in the byte stream and
// decodes it with go-exif. It covers containers goexif cannot parse
// (WebP, HEIC wrappers, stripped JPEG segments). GPS tags surface as
// a nested sub-block keyed off the GPS IFD path.
type RawScanReader struct{}

// Read scans the image bytes for an Exif blob and flattens its tags.
func (RawScanReader) Read(data []byte) (*TagSet, error) {
	rawExif, err := exifv3.SearchAndExtractExif(data)
	if err != nil {
		if errors.Is(err, exifv3.ErrNoExif) {
			return nil, ErrNoExif
		}
		return nil, common.NewParseError(fmt.Sprintf("exif scan: %v", err))
	}

	entries, _, err := exifv3.GetFlatExifData(rawExif, nil)
	if err != nil {
		return nil, common.NewParseError(fmt.Sprintf("exif decode: %v", err))
	}

	set := &TagSet{Source: "rawscan"}
	for _, entry := range entries {
		if entry.TagName == "" {
			continue
		}
		tag := Tag{Name: entry.TagName, Value: rawFromEntry(entry)}
		if strings.HasPrefix(entry.IfdPath, gpsIfdPath) {
			set.GPS = append(set.GPS, tag)
		} else {
			set.Tags = append(set.Tags, tag)
		}
	}
	if len(set.Tags) == 0 && len(set.GPS) == 0 {
		return nil, ErrNoExif
	}
	return set, nil
}

// rawFromEntry converts a go-exif flat entry into the backend-neutral
// RawValue shape.
func rawFromEntry(entry exifv3.ExifTag) RawValue {
	switch v := entry.Value.(type) {
	case string:
		return NewText(v)
	case []byte:
		return NewBytes(v)
	case []exifcommon.Rational:
		items := make([]RawValue, 0, len(v))
		for _, r := range v {
			items = append(items, NewRational(int64(r.Numerator), int64(r.Denominator)))
		}
		return collapseEntries(items)
	case []exifcommon.SignedRational:
		items := make([]RawValue, 0, len(v))
		for _, r := range v {
			items = append(items, NewRational(int64(r.Numerator), int64(r.Denominator)))
		}
		return collapseEntries(items)
	case []uint16:
		items := make([]RawValue, 0, len(v))
		for _, n := range v {
			items = append(items, NewText(fmt.Sprintf("%d", n)))
		}
		return collapseEntries(items)
	case []uint32:
		items := make([]RawValue, 0, len(v))
		for _, n := range v {
			items = append(items, NewText(fmt.Sprintf("%d", n)))
		}
		return collapseEntries(items)
	case []int32:
		items := make([]RawValue, 0, len(v))
		for _, n := range v {
			items = append(items, NewText(fmt.Sprintf("%d", n)))
		}
		return collapseEntries(items)
	case []float64:
		items := make([]RawValue, 0, len(v))
		for _, f := range v {
			items = append(items, NewText(fmt.Sprintf("%v", f)))
		}
		return collapseEntries(items)
	default:
		if entry.Formatted != "" {
			return NewText(entry.Formatted)
		}
		logger.Debug("unhandled exif value type for tag %s: %T", entry.TagName, entry.Value)
		return NewText(fmt.Sprintf("%v", entry.Value))
	}
}

func collapseEntries(items []RawValue) RawValue {
	switch len(items) {
	case 0:
		return NewText("")
	case 1:
		return items[0]
	default:
		return NewList(items...)
	}
}
