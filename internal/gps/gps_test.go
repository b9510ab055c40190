package gps

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nightdust/imgmeta/internal/exifread"
)

func TestToDecimalDegrees(t *testing.T) {
	tests := []struct {
		name          string
		deg, min, sec float64
		ref           string
		want          float64
	}{
		{"north", 40, 26, 46, "N", 40.446111},
		{"west", 79, 58, 56, "W", -79.982222},
		{"south", 33, 51, 0, "S", -33.85},
		{"east", 151, 12, 30, "E", 151.208333},
		{"zero", 0, 0, 0, "N", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToDecimalDegrees(tt.deg, tt.min, tt.sec, tt.ref))
		})
	}
}

// Converting the absolute value of a conversion result with the same
// ref must reproduce the result exactly.
func TestToDecimalDegrees_Idempotent(t *testing.T) {
	refs := []string{"N", "S", "E", "W"}
	triples := [][3]float64{{40, 26, 46}, {0, 30, 0}, {89, 59, 59}, {12, 0, 0.5}}

	for _, ref := range refs {
		for _, tr := range triples {
			dd := ToDecimalDegrees(tr[0], tr[1], tr[2], ref)
			again := ToDecimalDegrees(math.Abs(dd), 0, 0, ref)
			assert.Equal(t, dd, again, "ref=%s triple=%v", ref, tr)
		}
	}
}

func TestFromDMS_Rationals(t *testing.T) {
	triple := exifread.NewList(
		exifread.NewRational(40, 1),
		exifread.NewRational(26, 1),
		exifread.NewRational(46, 1),
	)
	assert.Equal(t, 40.446111, FromDMS(triple, "N"))
	assert.Equal(t, -40.446111, FromDMS(triple, "S"))
}

func TestFromDMS_MissingSeconds(t *testing.T) {
	triple := exifread.NewList(
		exifread.NewRational(40, 1),
		exifread.NewRational(30, 1),
	)
	assert.Equal(t, 40.5, FromDMS(triple, "N"))
}

func TestFromDMS_TextComponents(t *testing.T) {
	triple := exifread.NewList(
		exifread.NewText("40"),
		exifread.NewText("26"),
		exifread.NewText("46"),
	)
	assert.Equal(t, 40.446111, FromDMS(triple, "N"))
}

func TestFromDMS_ZeroDenominator(t *testing.T) {
	triple := exifread.NewList(
		exifread.NewRational(40, 0),
		exifread.NewRational(26, 0),
		exifread.NewRational(46, 0),
	)
	assert.Equal(t, 0.0, FromDMS(triple, "N"))
}

func TestFromDMS_Malformed(t *testing.T) {
	assert.Equal(t, 0.0, FromDMS(exifread.NewText("garbage"), "N"))
	assert.Equal(t, 0.0, FromDMS(exifread.NewList(exifread.NewText("only-one")), "N"))
}

func TestNewCoordinate_ZeroFixInvalid(t *testing.T) {
	c := NewCoordinate(0, 0, "N", "E")
	assert.False(t, c.Valid)
	assert.Equal(t, DisplayInvalid, c.Display)
}

func TestNewCoordinate_Valid(t *testing.T) {
	c := NewCoordinate(40.446111, -79.982222, "N", "W")
	assert.True(t, c.Valid)
	assert.Equal(t, 40.446111, c.Lat)
	assert.Equal(t, -79.982222, c.Lon)
	assert.Equal(t, "Latitude: 40.446111° N, Longitude: -79.982222° W", c.Display)
}

func TestAbsent(t *testing.T) {
	c := Absent()
	assert.False(t, c.Valid)
	assert.Equal(t, DisplayNone, c.Display)
}
