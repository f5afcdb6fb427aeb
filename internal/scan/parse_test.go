package scan

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/beaconreg/internal/geom"
)

const twoScanners = `--- scanner 0 ---
404,-588,-901
528,-643,409
-838,591,734

--- scanner 1 ---
686,422,578
605,423,415
`

func TestParse_TwoBlocks(t *testing.T) {
	clouds, err := Parse(strings.NewReader(twoScanners))
	require.NoError(t, err)
	require.Len(t, clouds, 2)

	assert.Equal(t, 0, clouds[0].ID)
	assert.Equal(t, "0", clouds[0].Label)
	assert.Equal(t, []geom.Point3{{X: 404, Y: -588, Z: -901}, {X: 528, Y: -643, Z: 409}, {X: -838, Y: 591, Z: 734}}, clouds[0].Beacons)

	assert.Equal(t, 1, clouds[1].ID)
	assert.Equal(t, "1", clouds[1].Label)
	assert.Equal(t, 2, clouds[1].Len())
	assert.Equal(t, 5, TotalBeacons(clouds))
}

func TestParse_IDsFollowBlockOrder(t *testing.T) {
	input := "--- scanner 7 ---\n1,2,3\n\n--- scanner 3 ---\n4,5,6\n"
	clouds, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, clouds, 2)

	assert.Equal(t, 0, clouds[0].ID)
	assert.Equal(t, "7", clouds[0].Label)
	assert.Equal(t, 1, clouds[1].ID)
	assert.Equal(t, "3", clouds[1].Label)
}

func TestParse_Tolerance(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"crlf", "--- scanner 0 ---\r\n1,2,3\r\n\r\n--- scanner 1 ---\r\n4,5,6\r\n"},
		{"no trailing newline", "--- scanner 0 ---\n1,2,3\n\n--- scanner 1 ---\n4,5,6"},
		{"extra blank lines", "\n\n--- scanner 0 ---\n1,2,3\n\n\n\n--- scanner 1 ---\n4,5,6\n\n"},
		{"spaces around values", "--- scanner 0 ---\n 1, 2 ,3 \n\n--- scanner 1 ---\n4,5,6\n"},
		{"header without blank line", "--- scanner 0 ---\n1,2,3\n--- scanner 1 ---\n4,5,6\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clouds, err := Parse(strings.NewReader(tt.input))
			require.NoError(t, err)
			require.Len(t, clouds, 2)
			assert.Equal(t, []geom.Point3{{X: 1, Y: 2, Z: 3}}, clouds[0].Beacons)
			assert.Equal(t, []geom.Point3{{X: 4, Y: 5, Z: 6}}, clouds[1].Beacons)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantCode string
		wantLine int
	}{
		{"empty input", "", ErrCodeNoScanners, 0},
		{"only blank lines", "\n\n", ErrCodeNoScanners, 0},
		{"orphan beacon", "1,2,3\n", ErrCodeOrphanBeacon, 1},
		{"bad header", "--- sensor 0 ---\n1,2,3\n", ErrCodeBadHeader, 1},
		{"non integer", "--- scanner 0 ---\n1,2,x\n", ErrCodeBadCoordinate, 2},
		{"float", "--- scanner 0 ---\n1,2.5,3\n", ErrCodeBadCoordinate, 2},
		{"two fields", "--- scanner 0 ---\n1,2\n", ErrCodeBadCoordinate, 2},
		{"four fields", "--- scanner 0 ---\n1,2,3,4\n", ErrCodeBadCoordinate, 2},
		{"empty block", "--- scanner 0 ---\n1,2,3\n\n--- scanner 1 ---\n\n", ErrCodeEmptyScanner, 4},
		{"empty block at eof", "--- scanner 0 ---\n1,2,3\n\n--- scanner 1 ---", ErrCodeEmptyScanner, 4},
		{"duplicate beacon", "--- scanner 0 ---\n1,2,3\n1,2,3\n", ErrCodeDuplicate, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			require.Error(t, err)

			var pe *ParseError
			require.True(t, errors.As(err, &pe), "expected *ParseError, got %T", err)
			assert.Equal(t, tt.wantCode, pe.Code)
			assert.Equal(t, tt.wantLine, pe.Line)
		})
	}
}

func TestParse_SameBeaconInDifferentBlocks(t *testing.T) {
	input := "--- scanner 0 ---\n1,2,3\n\n--- scanner 1 ---\n1,2,3\n"
	clouds, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Len(t, clouds, 2)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")
	require.NoError(t, os.WriteFile(path, []byte(twoScanners), 0644))

	clouds, err := ParseFile(path)
	require.NoError(t, err)
	assert.Len(t, clouds, 2)
}

func TestParseFile_Missing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, ErrCodeUnreadable, pe.Code)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestParseFile_ErrorCarriesPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.txt")
	require.NoError(t, os.WriteFile(path, []byte("--- scanner 0 ---\nnope\n"), 0644))

	_, err := ParseFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path+":2: E203")
}

func TestFormat_RoundTrip(t *testing.T) {
	clouds, err := Parse(strings.NewReader(twoScanners))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Format(&buf, clouds))
	assert.Equal(t, twoScanners, buf.String())

	again, err := Parse(&buf)
	require.NoError(t, err)
	assert.Equal(t, clouds, again)
}

func TestFormat_UnlabeledUsesID(t *testing.T) {
	var buf bytes.Buffer
	err := Format(&buf, []Cloud{{ID: 3, Beacons: []geom.Point3{{X: 1, Y: 1, Z: 1}}}})
	require.NoError(t, err)
	assert.Equal(t, "--- scanner 3 ---\n1,1,1\n", buf.String())
}
