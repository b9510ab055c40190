// Package decode normalizes raw Exif tag values into printable
// strings. Decoding never fails: undecodable content degrades to a
// placeholder carrying the byte length.
package decode

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/simplifiedchinese"

	"github.com/nightdust/imgmeta/internal/exifread"
)

const listSeparator = ", "

// Value renders a raw tag value as a printable string.
func Value(v exifread.RawValue) string {
	switch v.Kind {
	case exifread.KindText:
		return strings.TrimSpace(v.Text)

	case exifread.KindBytes:
		return fromBytes(v.Bytes)

	case exifread.KindRational:
		return fromRational(v.Num, v.Den)

	case exifread.KindList:
		parts := make([]string, 0, len(v.List))
		for _, item := range v.List {
			if s := Value(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, listSeparator)

	default:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}

// fromRational formats a numerator/denominator pair as its decimal
// value. A zero denominator renders as 0.
func fromRational(num, den int64) string {
	if den == 0 {
		return "0"
	}
	if num%den == 0 {
		return strconv.FormatInt(num/den, 10)
	}
	return strconv.FormatFloat(float64(num)/float64(den), 'f', -1, 64)
}

// fromBytes recovers text from a byte-typed tag. UTF-8 is tried
// first, then GBK for legacy Chinese camera firmware. Anything else
// degrades to a byte-count placeholder.
func fromBytes(b []byte) string {
	trimmed := trimNul(b)
	if len(trimmed) == 0 {
		return ""
	}

	if utf8.Valid(trimmed) {
		if s := printable(string(trimmed)); s != "" {
			return s
		}
	}

	if decoded, err := simplifiedchinese.GBK.NewDecoder().Bytes(trimmed); err == nil {
		if s := printable(string(decoded)); s != "" {
			return s
		}
	}

	return fmt.Sprintf("(binary data, %d bytes)", len(b))
}

func trimNul(b []byte) []byte {
	return bytes.Trim(b, "\x00")
}

// printable strips non-graphic runes and surrounding whitespace.
// Returns "" when nothing textual survives.
func printable(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r == utf8.RuneError {
			continue
		}
		if unicode.IsGraphic(r) || r == ' ' || r == '\t' {
			sb.WriteRune(r)
		}
	}
	return strings.TrimSpace(sb.String())
}
