package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nightdust/imgmeta/internal/exifread"
	"github.com/nightdust/imgmeta/internal/gps"
)

func dmsTriple(deg, min, sec int64) exifread.RawValue {
	return exifread.NewList(
		exifread.NewRational(deg, 1),
		exifread.NewRational(min, 1),
		exifread.NewRational(sec, 1),
	)
}

func flatGPSTags() []exifread.Tag {
	return []exifread.Tag{
		{Name: "GPSLatitude", Value: dmsTriple(40, 26, 46)},
		{Name: "GPSLatitudeRef", Value: exifread.NewText("N")},
		{Name: "GPSLongitude", Value: dmsTriple(79, 58, 56)},
		{Name: "GPSLongitudeRef", Value: exifread.NewText("W")},
	}
}

func TestExtract_NoGPS(t *testing.T) {
	set := &exifread.TagSet{
		Tags: []exifread.Tag{
			{Name: "Make", Value: exifread.NewText("Canon")},
			{Name: "Model", Value: exifread.NewText("EOS R5")},
		},
	}

	res := Extract(set)

	assert.Equal(t, "Canon", res.Exif["Make"])
	assert.Equal(t, "EOS R5", res.Exif["Model"])
	assert.False(t, res.GPS.Valid)
	assert.Equal(t, gps.DisplayNone, res.GPS.Display)
}

func TestExtract_FlatGPS(t *testing.T) {
	set := &exifread.TagSet{
		Tags: append([]exifread.Tag{
			{Name: "Make", Value: exifread.NewText("Canon")},
		}, flatGPSTags()...),
	}

	res := Extract(set)

	assert.True(t, res.GPS.Valid)
	assert.Equal(t, 40.446111, res.GPS.Lat)
	assert.Equal(t, -79.982222, res.GPS.Lon)
	assert.Equal(t, "Latitude: 40.446111° N, Longitude: -79.982222° W", res.GPS.Display)

	// GPS sub-tags stay out of the general tag set.
	for name := range res.Exif {
		assert.False(t, strings.HasPrefix(name, "GPS"), "unexpected GPS tag %s", name)
	}
	assert.Equal(t, "Canon", res.Exif["Make"])
}

func TestExtract_NestedGPS(t *testing.T) {
	set := &exifread.TagSet{
		Tags: []exifread.Tag{
			{Name: "Model", Value: exifread.NewText("Pixel 8")},
		},
		GPS: flatGPSTags(),
	}

	res := Extract(set)

	assert.True(t, res.GPS.Valid)
	assert.Equal(t, 40.446111, res.GPS.Lat)
	assert.Equal(t, -79.982222, res.GPS.Lon)
}

func TestExtract_ZeroFixInvalid(t *testing.T) {
	set := &exifread.TagSet{
		Tags: []exifread.Tag{
			{Name: "GPSLatitude", Value: dmsTriple(0, 0, 0)},
			{Name: "GPSLatitudeRef", Value: exifread.NewText("N")},
			{Name: "GPSLongitude", Value: dmsTriple(0, 0, 0)},
			{Name: "GPSLongitudeRef", Value: exifread.NewText("E")},
		},
	}

	res := Extract(set)

	assert.False(t, res.GPS.Valid)
	assert.Equal(t, gps.DisplayInvalid, res.GPS.Display)
}

func TestExtract_PartialGPSAbsent(t *testing.T) {
	// Missing longitude ref: all four core tags are required.
	set := &exifread.TagSet{
		Tags: []exifread.Tag{
			{Name: "GPSLatitude", Value: dmsTriple(40, 26, 46)},
			{Name: "GPSLatitudeRef", Value: exifread.NewText("N")},
			{Name: "GPSLongitude", Value: dmsTriple(79, 58, 56)},
		},
	}

	res := Extract(set)

	assert.False(t, res.GPS.Valid)
	assert.Equal(t, gps.DisplayNone, res.GPS.Display)
}

func TestExtract_DropsUnusableValues(t *testing.T) {
	long := strings.Repeat("x", 201)
	set := &exifread.TagSet{
		Tags: []exifread.Tag{
			{Name: "Empty", Value: exifread.NewText("   ")},
			{Name: "Placeholder", Value: exifread.NewText("None")},
			{Name: "TooLong", Value: exifread.NewText(long)},
			{Name: "Kept", Value: exifread.NewText("ok")},
		},
	}

	res := Extract(set)

	assert.Equal(t, map[string]string{"Kept": "ok"}, res.Exif)
}

func TestExtract_NormalizesNames(t *testing.T) {
	set := &exifread.TagSet{
		Tags: []exifread.Tag{
			{Name: "Image Description", Value: exifread.NewText("holiday")},
		},
	}

	res := Extract(set)

	assert.Equal(t, "holiday", res.Exif["Image_Description"])
}

func TestExtract_NilSet(t *testing.T) {
	res := Extract(nil)

	assert.Empty(t, res.Exif)
	assert.Equal(t, gps.DisplayNone, res.GPS.Display)
}
