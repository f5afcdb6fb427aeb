package scan

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/roach88/beaconreg/internal/geom"
)

var headerPattern = regexp.MustCompile(`^---\s*scanner\s+(\S+)\s*---$`)

// ParseFile opens path and parses it as a scanner report.
func ParseFile(path string) ([]Cloud, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{Path: path, Code: ErrCodeUnreadable, Message: "cannot open report", Err: err}
	}
	defer f.Close()

	clouds, err := Parse(f)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) && pe.Path == "" {
			pe.Path = path
		}
		return nil, err
	}
	return clouds, nil
}

// Parse reads a scanner report. Blocks are assigned IDs in order of
// appearance starting at 0.
func Parse(r io.Reader) ([]Cloud, error) {
	p := &parser{}
	sc := bufio.NewScanner(r)

	for sc.Scan() {
		p.line++
		if err := p.feed(strings.TrimSpace(sc.Text())); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, &ParseError{Line: p.line, Code: ErrCodeUnreadable, Message: "read failed", Err: err}
	}

	if err := p.finish(); err != nil {
		return nil, err
	}
	if len(p.clouds) == 0 {
		return nil, &ParseError{Code: ErrCodeNoScanners, Message: "no scanner blocks found"}
	}
	return p.clouds, nil
}

// parser holds the block currently being read.
type parser struct {
	line       int
	clouds     []Cloud
	open       bool
	headerLine int
	current    Cloud
	seen       map[geom.Point3]struct{}
}

func (p *parser) feed(line string) error {
	switch {
	case line == "":
		return p.finish()

	case strings.HasPrefix(line, "---"):
		m := headerPattern.FindStringSubmatch(line)
		if m == nil {
			return &ParseError{Line: p.line, Code: ErrCodeBadHeader, Message: fmt.Sprintf("malformed header %q", line)}
		}
		// A header directly after a block without a blank line still
		// closes the previous block.
		if err := p.finish(); err != nil {
			return err
		}
		p.open = true
		p.headerLine = p.line
		p.current = Cloud{ID: len(p.clouds), Label: m[1]}
		p.seen = make(map[geom.Point3]struct{})
		return nil

	default:
		if !p.open {
			return &ParseError{Line: p.line, Code: ErrCodeOrphanBeacon, Message: "beacon before any scanner header"}
		}
		pt, err := parsePoint(line)
		if err != nil {
			return &ParseError{Line: p.line, Code: ErrCodeBadCoordinate, Message: fmt.Sprintf("invalid beacon %q", line), Err: err}
		}
		if _, dup := p.seen[pt]; dup {
			return &ParseError{Line: p.line, Code: ErrCodeDuplicate, Message: fmt.Sprintf("beacon %s listed twice for scanner %s", pt, p.current.Label)}
		}
		p.seen[pt] = struct{}{}
		p.current.Beacons = append(p.current.Beacons, pt)
		return nil
	}
}

// finish closes the open block, if any.
func (p *parser) finish() error {
	if !p.open {
		return nil
	}
	if len(p.current.Beacons) == 0 {
		return &ParseError{Line: p.headerLine, Code: ErrCodeEmptyScanner, Message: fmt.Sprintf("scanner %s has no beacons", p.current.Label)}
	}
	p.clouds = append(p.clouds, p.current)
	p.open = false
	p.current = Cloud{}
	p.seen = nil
	return nil
}

func parsePoint(line string) (geom.Point3, error) {
	fields := strings.Split(line, ",")
	if len(fields) != 3 {
		return geom.Point3{}, fmt.Errorf("want 3 comma-separated fields, got %d", len(fields))
	}

	var v [3]int
	for i, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return geom.Point3{}, err
		}
		v[i] = n
	}
	return geom.Point3{X: v[0], Y: v[1], Z: v[2]}, nil
}
