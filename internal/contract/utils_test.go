package contract

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPlainLabel(t *testing.T) {
	tests := []struct {
		warming float64
		want    string
	}{
		{5.2, SevereValue},
		{4.0, SevereValue},
		{2.7, HighValue},
		{2.0, HighValue},
		{1.8, ModerateValue},
		{1.5, ModerateValue},
		{1.1, LowValue},
		{0, LowValue},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, GetPlainLabel(tc.warming), "warming %.1f", tc.warming)
	}
}

func TestGetColorLabelContainsPlainText(t *testing.T) {
	for _, warming := range []float64{0.5, 1.6, 2.5, 4.5} {
		assert.Contains(t, GetColorLabel(warming), GetPlainLabel(warming))
	}
}

func TestSelectOutputFile(t *testing.T) {
	f, err := SelectOutputFile("")
	require.NoError(t, err)
	assert.Equal(t, "/dev/stdout", f.Name())

	path := filepath.Join(t.TempDir(), "out.csv")
	f, err = SelectOutputFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.Equal(t, path, f.Name())
}

func TestDBFilePaths(t *testing.T) {
	assert.Contains(t, GetCacheDBFilePath(), ".scendiff_cache.db")
	assert.Contains(t, GetRunsDBFilePath(), ".scendiff_runs.db")
}

func TestTruncateLabel(t *testing.T) {
	assert.Equal(t, "short", TruncateLabel("short", 20))
	assert.Equal(t, "...e(x2.000)[2040,2060]", TruncateLabel("rcp45 multiplicative(x2.000)[2040,2060]", 23))
	// maxWidth too small to truncate safely
	assert.Equal(t, "abcdef", TruncateLabel("abcdef", 3))
}

func TestParseBoolString(t *testing.T) {
	tests := []struct {
		in   string
		def  bool
		want bool
		ok   bool
	}{
		{"yes", false, true, true},
		{"TRUE", false, true, true},
		{"1", false, true, true},
		{"no", true, false, true},
		{"false", true, false, true},
		{"0", true, false, true},
		{"", true, true, true},
		{"", false, false, true},
		{"auto", true, true, true},
		{"maybe", false, false, false},
	}
	for _, tc := range tests {
		got, err := ParseBoolString(tc.in, tc.def)
		if tc.ok {
			require.NoError(t, err, "input %q", tc.in)
			assert.Equal(t, tc.want, got, "input %q", tc.in)
		} else {
			assert.Error(t, err, "input %q", tc.in)
		}
	}
}
