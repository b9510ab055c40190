// Package render formats a metadata record into the reply text sent
// back to the chat.
package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nightdust/imgmeta/internal/analyze"
)

// DefaultMaxExifShow caps the number of Exif entries displayed.
const DefaultMaxExifShow = 20

// Options controls report rendering.
type Options struct {
	MaxExifShow int
}

// Report renders the full reply: basic info, GPS info (with the
// resolved address when available) and the capped Exif section.
func Report(res *analyze.Result, address string, opts Options) string {
	maxShow := opts.MaxExifShow
	if maxShow <= 0 {
		maxShow = DefaultMaxExifShow
	}

	var sections []string

	basic := []string{"[Basic Info]"}
	if len(res.Basic) == 0 {
		basic = append(basic, "no file information")
	}
	for _, p := range res.Basic {
		basic = append(basic, fmt.Sprintf("%s: %s", p.Label, p.Value))
	}
	sections = append(sections, strings.Join(basic, "\n"))

	gpsLines := []string{"[GPS Info]", res.GPS.Display}
	if address != "" {
		gpsLines = append(gpsLines, address)
	}
	sections = append(sections, strings.Join(gpsLines, "\n"))

	sections = append(sections, exifSection(res.Exif, maxShow))

	report := strings.Join(sections, "\n\n")
	if res.Error != "" {
		report += "\n\nParse note: " + res.Error
	}
	return report
}

// exifSection renders tag entries in sorted order, capped with a
// trailing note of how many were omitted.
func exifSection(tags map[string]string, maxShow int) string {
	lines := []string{"[Exif Data]"}
	if len(tags) == 0 {
		lines = append(lines, "no Exif data")
		return strings.Join(lines, "\n")
	}

	names := make([]string, 0, len(tags))
	for name := range tags {
		names = append(names, name)
	}
	sort.Strings(names)

	shown := names
	if len(shown) > maxShow {
		shown = shown[:maxShow]
	}
	for _, name := range shown {
		lines = append(lines, fmt.Sprintf("%s: %s", name, tags[name]))
	}
	if len(names) > maxShow {
		lines = append(lines, fmt.Sprintf("(%d tags total, showing first %d)", len(names), maxShow))
	}

	return strings.Join(lines, "\n")
}
