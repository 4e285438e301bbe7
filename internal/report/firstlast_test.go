package report

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bimmerbailey/logsmart/internal/parser"
)

func TestFirstLastDefaultKey(t *testing.T) {
	res, err := FirstLast(lookup(t, "logcat"), "logcat.txt", logcatLines, FirstLastOptions{})
	require.NoError(t, err)

	want := []Occurrence{
		{Key: "4688/5002", Count: 2, First: logcatLines[0], Last: logcatLines[1]},
		{Key: "4451/4451", Count: 2, First: logcatLines[3], Last: logcatLines[4]},
	}
	assert.Equal(t, want, res.Occurrences)
	assert.Equal(t, []string{"not a logcat line"}, res.Source.Unmatched())
}

func TestFirstLastSingleLineKey(t *testing.T) {
	res, err := FirstLast(lookup(t, "logcat"), "logcat.txt", logcatLines[:1], FirstLastOptions{KeyTemplate: "{tag}"})
	require.NoError(t, err)
	require.Len(t, res.Occurrences, 1)

	occ := res.Occurrences[0]
	assert.Equal(t, "MainThread", occ.Key)
	assert.Equal(t, 1, occ.Count)
	assert.Equal(t, occ.First, occ.Last)
}

func TestFirstLastPattern(t *testing.T) {
	res, err := FirstLast(lookup(t, "logcat"), "logcat.txt", logcatLines, FirstLastOptions{
		KeyTemplate: "{tag}",
		Pattern:     regexp.MustCompile(`onChangeEvent`),
	})
	require.NoError(t, err)
	require.Len(t, res.Occurrences, 1)
	assert.Equal(t, "VehiclePropertyService", res.Occurrences[0].Key)
	assert.Equal(t, 2, res.Occurrences[0].Count)
}

func TestFirstLastNoReferenceMatch(t *testing.T) {
	_, err := FirstLast(lookup(t, "logcat"), "logcat.txt", logcatLines, FirstLastOptions{
		Pattern: regexp.MustCompile(`nowhere`),
	})
	assert.ErrorIs(t, err, ErrNoReferenceMatch)
}

func TestFirstLastKeyTemplateNeedsFields(t *testing.T) {
	_, err := FirstLast(lookup(t, "dmesg"), "dmesg.txt", nil, FirstLastOptions{})
	assert.ErrorIs(t, err, parser.ErrTemplateFieldMissing)
}

func TestFirstLastOptionalGroupsKeyEmpty(t *testing.T) {
	lines := []string{
		"03-23 15:39:00.404 I DISPMAN     (display-focus-m-1577)           : onRequireInputCategory request from 'aap'",
	}
	res, err := FirstLast(lookup(t, "ulogcat"), "u.txt", lines, FirstLastOptions{})
	require.NoError(t, err)
	require.Len(t, res.Occurrences, 1)
	assert.Equal(t, "/1577", res.Occurrences[0].Key)
}
