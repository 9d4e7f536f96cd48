package server

import (
	"html/template"
	"regexp"
	"time"
)

const prettyDateLayout = "January 2, 2006"

var templateFuncs = template.FuncMap{
	"iso_to_pretty": IsoToPretty,
	"strip_html":    StripHTML,
}

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// IsoToPretty turns an ISO-8601 timestamp into "January 5, 2024". Values it
// cannot parse are returned unchanged.
func IsoToPretty(value string) string {
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(prettyDateLayout)
		}
	}
	return value
}

var tagPattern = regexp.MustCompile(`<[^>]*?>`)

// StripHTML removes anything that looks like a markup tag.
func StripHTML(text string) string {
	return tagPattern.ReplaceAllString(text, "")
}
