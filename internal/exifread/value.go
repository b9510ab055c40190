package exifread

// Kind discriminates the shapes a raw Exif tag value can arrive in.
type Kind int

const (
	KindText Kind = iota
	KindBytes
	KindRational
	KindList
)

// RawValue is a single raw Exif tag value as produced by a reading
// backend. Camera vendors and backends disagree on how values are
// encoded, so the decoder has to handle every variant.
type RawValue struct {
	Kind  Kind
	Text  string
	Bytes []byte
	Num   int64
	Den   int64
	List  []RawValue
}

// NewText wraps a textual tag value
func NewText(s string) RawValue {
	return RawValue{Kind: KindText, Text: s}
}

// NewBytes wraps an undecoded byte sequence
func NewBytes(b []byte) RawValue {
	return RawValue{Kind: KindBytes, Bytes: b}
}

// NewRational wraps a numerator/denominator pair
func NewRational(num, den int64) RawValue {
	return RawValue{Kind: KindRational, Num: num, Den: den}
}

// NewList wraps an ordered sequence of values
func NewList(items ...RawValue) RawValue {
	return RawValue{Kind: KindList, List: items}
}

// Tag is a named raw tag value.
type Tag struct {
	Name  string
	Value RawValue
}

// TagSet is the full decoded tag collection for one image.
//
// GPS data arrives in one of two representations depending on the
// backend: flat GPS-prefixed tags mixed into Tags, or a separate
// nested sub-block in GPS. Consumers must handle both.
type TagSet struct {
	Tags   []Tag
	GPS    []Tag
	Source string
}

// Lookup returns the named tag from the main set.
func (s *TagSet) Lookup(name string) (RawValue, bool) {
	for _, t := range s.Tags {
		if t.Name == name {
			return t.Value, true
		}
	}
	return RawValue{}, false
}

// LookupGPS returns the named tag from the GPS sub-block, falling
// back to the main set for backends that flatten GPS tags.
func (s *TagSet) LookupGPS(name string) (RawValue, bool) {
	for _, t := range s.GPS {
		if t.Name == name {
			return t.Value, true
		}
	}
	return s.Lookup(name)
}
