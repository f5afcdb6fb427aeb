package scan

import "fmt"

// Parse error codes.
const (
	ErrCodeUnreadable    = "E201" // File could not be opened or read
	ErrCodeBadHeader     = "E202" // Line starting with "---" is not a scanner header
	ErrCodeBadCoordinate = "E203" // Beacon line is not three signed integers
	ErrCodeEmptyScanner  = "E204" // Header with no beacons
	ErrCodeOrphanBeacon  = "E205" // Beacon line before any header
	ErrCodeNoScanners    = "E206" // Report contains no scanners
	ErrCodeDuplicate     = "E207" // Same beacon listed twice in one block
)

// ParseError describes why a report was rejected.
type ParseError struct {
	Path    string // Source path, empty for readers
	Line    int    // 1-based line number, 0 if not line specific
	Code    string // One of the ErrCode constants
	Message string
	Err     error // Underlying I/O or strconv error (optional)
}

func (e *ParseError) Error() string {
	loc := e.Path
	if e.Line > 0 {
		if loc != "" {
			loc = fmt.Sprintf("%s:%d", loc, e.Line)
		} else {
			loc = fmt.Sprintf("line %d", e.Line)
		}
	}

	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if loc != "" {
		msg = loc + ": " + msg
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
