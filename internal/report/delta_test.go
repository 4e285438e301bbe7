package report

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bimmerbailey/logsmart/internal/extract"
	"github.com/bimmerbailey/logsmart/internal/parser"
)

var logcatLines = []string{
	"03-24 08:36:15.304  4688  5002 D MainThread: Send DriverDistraction: 0",
	"03-24 08:36:15.306  4688  5002 I MainThread: Request type: PopUp",
	"not a logcat line",
	"03-24 08:36:15.308  4451  4451 I VehiclePropertyService: onChangeEvent id = 555745548",
	"03-24 08:36:16.308  4451  4451 D VehiclePropertyService: onChangeEvent: property ignored",
}

func lookup(t *testing.T, name string) *parser.Descriptor {
	t.Helper()
	d, err := parser.Lookup(name)
	require.NoError(t, err)
	return d
}

func millis(lines []DeltaLine) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Millis()
	}
	return out
}

func TestDeltaReferenceTypes(t *testing.T) {
	tests := []struct {
		name string
		opts DeltaOptions
		want []string
	}{
		{
			name: "first line by default",
			opts: DeltaOptions{},
			want: []string{"0", "2", "4", "1004"},
		},
		{
			name: "first matching reference",
			opts: DeltaOptions{RefType: RefFirst, Reference: "VehicleProperty"},
			want: []string{"-4", "-2", "0", "1000"},
		},
		{
			name: "last matching reference",
			opts: DeltaOptions{RefType: RefLast, Reference: "MainThread"},
			want: []string{"-2", "0", "2", "1002"},
		},
		{
			name: "previous reference",
			opts: DeltaOptions{RefType: RefPrev, Reference: "onChangeEvent"},
			want: []string{"", "", "", "1000"},
		},
		{
			name: "previous of every line",
			opts: DeltaOptions{RefType: RefPrev},
			want: []string{"", "2", "2", "1000"},
		},
		{
			name: "absolute with offset",
			opts: DeltaOptions{RefType: RefAbsolute, Reference: "03-24 08:36:15.000", Offset: 100 * time.Millisecond},
			want: []string{"404", "406", "408", "1408"},
		},
	}

	desc := lookup(t, "logcat")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Delta(desc, "logcat.txt", logcatLines, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, millis(res.Lines))
		})
	}
}

func TestDeltaFormat(t *testing.T) {
	res, err := Delta(lookup(t, "logcat"), "logcat.txt", logcatLines[:2], DeltaOptions{})
	require.NoError(t, err)
	require.Len(t, res.Lines, 2)

	assert.Equal(t, "[       0 ms] "+logcatLines[0], res.Lines[0].Format())
	assert.Equal(t, "[       2 ms] "+logcatLines[1], res.Lines[1].Format())
	assert.Equal(t, "[         ms] x", DeltaLine{Line: "x"}.Format())
	assert.Equal(t, "2ms\t"+logcatLines[1], res.Lines[1].FormatWith("%sms\t%s"))
	assert.Equal(t, res.Lines[1].Format(), res.Lines[1].FormatWith(""))
}

func TestDeltaUnmatchedLines(t *testing.T) {
	res, err := Delta(lookup(t, "logcat"), "logcat.txt", logcatLines, DeltaOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"not a logcat line"}, res.Source.Unmatched())
	assert.Equal(t, 5, res.Source.Total())
	assert.Equal(t, 4, res.Source.Count(extract.Matched))
}

func TestDeltaUnparsableDateIsUnmatched(t *testing.T) {
	lines := []string{
		"03-24 08:36:15.304  4688  5002 D MainThread: ok",
		"13-45 08:36:15.306  4688  5002 I MainThread: bad month",
	}
	res, err := Delta(lookup(t, "logcat"), "bad.txt", lines, DeltaOptions{})
	require.NoError(t, err)

	assert.Len(t, res.Lines, 1)
	assert.Equal(t, []string{lines[1]}, res.Source.Unmatched())
}

func TestDeltaNoReferenceMatch(t *testing.T) {
	res, err := Delta(lookup(t, "logcat"), "logcat.txt", logcatLines, DeltaOptions{RefType: RefFirst, Reference: "nowhere"})
	assert.ErrorIs(t, err, ErrNoReferenceMatch)
	require.NotNil(t, res)
	assert.Empty(t, res.Lines)
}

func TestDeltaRequiresDateGrammar(t *testing.T) {
	_, err := Delta(lookup(t, "dmesg"), "dmesg.txt", nil, DeltaOptions{})
	assert.ErrorIs(t, err, parser.ErrNoDateGrammar)
}

func TestDeltaInvalidReference(t *testing.T) {
	desc := lookup(t, "logcat")

	_, err := Delta(desc, "x", logcatLines, DeltaOptions{RefType: RefAbsolute, Reference: "yesterday"})
	assert.Error(t, err)

	_, err = Delta(desc, "x", logcatLines, DeltaOptions{RefType: RefFirst, Reference: "("})
	assert.Error(t, err)

	_, err = Delta(desc, "x", logcatLines, DeltaOptions{RefType: "sideways"})
	assert.Error(t, err)
}

func TestDeltaFrenchJournal(t *testing.T) {
	lines := []string{
		"nov. 06 14:13:43 hostname.ls.ege.ds systemd[4676]: Started Tracker metadata database store and lookup manager.",
		"nov. 06 14:14:13 hostname.ls.ege.ds tracker-store[762255]: OK",
	}
	res, err := Delta(lookup(t, "journalctl"), "journal.txt", lines, DeltaOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "30000"}, millis(res.Lines))
}

func TestParseRefType(t *testing.T) {
	for _, r := range RefTypes {
		got, err := ParseRefType(string(r))
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}
	_, err := ParseRefType("next")
	assert.Error(t, err)
}

func TestDeltaPatternIsSearchedAnywhere(t *testing.T) {
	desc := lookup(t, "logcat")
	res, err := Delta(desc, "x", logcatLines, DeltaOptions{RefType: RefFirst, Reference: regexp.QuoteMeta("id = 5557")})
	require.NoError(t, err)
	assert.Equal(t, "0", res.Lines[2].Millis())
}
