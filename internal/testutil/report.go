package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/roach88/beaconreg/internal/scan"
)

// WriteReport formats clouds into dir/name and returns the file path.
func WriteReport(tb testing.TB, dir, name string, clouds []scan.Cloud) string {
	tb.Helper()

	var buf bytes.Buffer
	if err := scan.Format(&buf, clouds); err != nil {
		tb.Fatalf("format report: %v", err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		tb.Fatalf("write report: %v", err)
	}
	return path
}
