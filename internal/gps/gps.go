// Package gps converts Exif GPS degree/minute/second values into
// signed decimal degrees.
package gps

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/nightdust/imgmeta/internal/exifread"
	"github.com/nightdust/imgmeta/internal/logger"
)

// Display strings for the two distinct GPS failure reasons. Missing
// tags and a literal-zero fix must stay distinguishable in output.
const (
	DisplayNone    = "no GPS information"
	DisplayInvalid = "GPS coordinates invalid"
)

// Coordinate is a resolved GPS position. Lat and Lon are only
// meaningful when Valid is set; Display always carries a printable
// summary.
//
// A fix of exactly (0, 0) is treated as invalid rather than as the
// real point off the Gulf of Guinea: cameras without a satellite lock
// commonly write literal zeros, and reporting those as a location
// would be worse than admitting there is none.
type Coordinate struct {
	Lat     float64
	Lon     float64
	Valid   bool
	Display string
}

// Absent is the coordinate for images without usable GPS tags.
func Absent() Coordinate {
	return Coordinate{Display: DisplayNone}
}

// NewCoordinate builds a coordinate from converted decimal degrees
// and the original hemisphere references, applying the zero-fix
// policy.
func NewCoordinate(lat, lon float64, latRef, lonRef string) Coordinate {
	if lat == 0 && lon == 0 {
		return Coordinate{Display: DisplayInvalid}
	}
	return Coordinate{
		Lat:   lat,
		Lon:   lon,
		Valid: true,
		Display: fmt.Sprintf("Latitude: %v° %s, Longitude: %v° %s",
			lat, latRef, lon, lonRef),
	}
}

// ToDecimalDegrees converts a degree/minute/second triple plus
// hemisphere reference into signed decimal degrees, rounded to six
// decimal places (about 0.11 m).
func ToDecimalDegrees(deg, min, sec float64, ref string) float64 {
	dd := deg + min/60.0 + sec/3600.0
	switch strings.TrimSpace(ref) {
	case "S", "W":
		dd = -dd
	}
	return round6(dd)
}

// FromDMS resolves a raw DMS triple tag value (a list of numbers or
// rational pairs; the seconds component may be missing) and converts
// it. Any malformed component yields 0, which callers must treat as
// an invalid fix.
func FromDMS(triple exifread.RawValue, ref string) float64 {
	components := triple.List
	if triple.Kind != exifread.KindList {
		components = []exifread.RawValue{triple}
	}
	if len(components) < 2 {
		logger.Warn("GPS triple has %d components, want at least 2", len(components))
		return 0
	}

	deg := componentFloat(components[0])
	min := componentFloat(components[1])
	sec := 0.0
	if len(components) >= 3 {
		sec = componentFloat(components[2])
	}

	return ToDecimalDegrees(deg, min, sec, ref)
}

// componentFloat resolves one DMS component, which may arrive as a
// rational pair or as a textual number.
func componentFloat(v exifread.RawValue) float64 {
	switch v.Kind {
	case exifread.KindRational:
		if v.Den == 0 {
			return 0
		}
		return float64(v.Num) / float64(v.Den)
	case exifread.KindText:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Text), 64)
		if err != nil {
			logger.Warn("unparseable GPS component %q: %v", v.Text, err)
			return 0
		}
		return f
	default:
		logger.Warn("unexpected GPS component kind %d", v.Kind)
		return 0
	}
}

func round6(f float64) float64 {
	return math.Round(f*1e6) / 1e6
}
