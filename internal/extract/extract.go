// Package extract walks a raw Exif tag collection, separates the GPS
// sub-block from the general tag set and builds the structured
// extraction result.
package extract

import (
	"strings"

	"github.com/nightdust/imgmeta/internal/decode"
	"github.com/nightdust/imgmeta/internal/exifread"
	"github.com/nightdust/imgmeta/internal/gps"
)

// maxTagLength caps decoded tag values; camera firmware occasionally
// dumps whole binary structures into ASCII fields.
const maxTagLength = 200

// Result is the structured outcome of one extraction pass.
type Result struct {
	Exif map[string]string
	GPS  gps.Coordinate
}

// gpsCoreTags are the four tags that must all be present for a
// usable fix.
var gpsCoreTags = struct {
	lat, latRef, lon, lonRef string
}{"GPSLatitude", "GPSLatitudeRef", "GPSLongitude", "GPSLongitudeRef"}

// Extract partitions the tag set into GPS and general tags, decodes
// the general tags and resolves the GPS coordinate. It handles both
// GPS representations a backend may produce: flat GPS-prefixed tags
// in the main set, or one nested sub-block.
func Extract(set *exifread.TagSet) Result {
	res := Result{
		Exif: make(map[string]string),
		GPS:  gps.Absent(),
	}
	if set == nil {
		return res
	}

	for _, tag := range set.Tags {
		if isGPSTag(tag.Name) {
			continue
		}
		value := decode.Value(tag.Value)
		if value == "" || value == "None" || len(value) > maxTagLength {
			continue
		}
		res.Exif[normalizeName(tag.Name)] = value
	}

	res.GPS = resolveGPS(set)
	return res
}

// resolveGPS requires all four core tags; partial GPS data counts as
// absent.
func resolveGPS(set *exifread.TagSet) gps.Coordinate {
	latTriple, okLat := set.LookupGPS(gpsCoreTags.lat)
	latRefRaw, okLatRef := set.LookupGPS(gpsCoreTags.latRef)
	lonTriple, okLon := set.LookupGPS(gpsCoreTags.lon)
	lonRefRaw, okLonRef := set.LookupGPS(gpsCoreTags.lonRef)

	if !okLat || !okLatRef || !okLon || !okLonRef {
		return gps.Absent()
	}

	latRef := decode.Value(latRefRaw)
	lonRef := decode.Value(lonRefRaw)
	if latRef == "" || lonRef == "" {
		return gps.Absent()
	}

	lat := gps.FromDMS(latTriple, latRef)
	lon := gps.FromDMS(lonTriple, lonRef)

	return gps.NewCoordinate(lat, lon, latRef, lonRef)
}

// isGPSTag reports whether a main-set tag belongs to the GPS
// sub-block, for backends that flatten it.
func isGPSTag(name string) bool {
	return strings.HasPrefix(name, "GPS")
}

// normalizeName stabilizes tag names for downstream keys.
func normalizeName(name string) string {
	return strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
}
