package tablexport

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateFilenameAccepts(t *testing.T) {
	for _, name := range []string{
		"report",
		"report.csv",
		"monthly report 2026",
		"データ",
		"a.b.c",
		strings.Repeat("x", 255),
	} {
		assert.NoError(t, ValidateFilename(name), "name %q", name)
	}
}

func TestValidateFilenameRejects(t *testing.T) {
	cases := []struct {
		name   string
		reason string
	}{
		{"", "empty"},
		{"../evil", "path separator"},
		{`..\evil`, "path separator"},
		{"dir/file.csv", "path separator"},
		{"bad\x00name", "control character"},
		{"bad\x1fname", "control character"},
		{"bad\x7fname", "control character"},
		{"what?.csv", "reserved character"},
		{"a<b", "reserved character"},
		{"a|b", "reserved character"},
		{strings.Repeat("x", 256), "too long"},
		{"CON", "reserved device name"},
		{"con.csv", "reserved device name"},
		{"LPT9.txt", "reserved device name"},
		{".hidden", "leading dot"},
		{"trailing.", "trailing dot"},
		{" padded", "leading space"},
		{"padded ", "trailing space"},
		{"evil。csv", "fullwidth dot"},
	}
	for _, tc := range cases {
		assert.Error(t, ValidateFilename(tc.name), "%s: %q", tc.reason, tc.name)
	}
}

func TestEnsureExtension(t *testing.T) {
	assert.Equal(t, "report.csv", ensureExtension("report", "csv"))
	assert.Equal(t, "report.csv", ensureExtension("report.csv", "csv"))
	assert.Equal(t, "report.CSV", ensureExtension("report.CSV", "csv"))
	assert.Equal(t, "report.csv.xlsx", ensureExtension("report.csv", "xlsx"))
}
