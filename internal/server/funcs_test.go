package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsoToPretty(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"utc suffix", "2024-01-05T10:20:30Z", "January 5, 2024"},
		{"offset", "2024-12-31T23:59:59+02:00", "December 31, 2024"},
		{"fractional seconds", "2024-03-09T08:00:00.123456", "March 9, 2024"},
		{"fractional seconds with Z", "2024-03-09T08:00:00.123456Z", "March 9, 2024"},
		{"space separator", "2023-07-14 12:00:00", "July 14, 2023"},
		{"date only", "2020-02-29", "February 29, 2020"},
		{"garbage is kept", "yesterday", "yesterday"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsoToPretty(tt.value))
		})
	}
}

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "", StripHTML(""))
	assert.Equal(t, "bold move", StripHTML("<b>bold</b> move"))
	assert.Equal(t, "alert(1)", StripHTML(`<script type="text/javascript">alert(1)</script>`))
	assert.Equal(t, "a < b", StripHTML("a < b"))
}
