package scan

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// Format writes clouds in the report format accepted by Parse.
// Clouds without a label are written with their ID.
func Format(w io.Writer, clouds []Cloud) error {
	bw := bufio.NewWriter(w)

	for i, c := range clouds {
		if i > 0 {
			if _, err := bw.WriteString("\n"); err != nil {
				return err
			}
		}
		label := c.Label
		if label == "" {
			label = strconv.Itoa(c.ID)
		}
		if _, err := fmt.Fprintf(bw, "--- scanner %s ---\n", label); err != nil {
			return err
		}
		for _, b := range c.Beacons {
			if _, err := fmt.Fprintln(bw, b.String()); err != nil {
				return err
			}
		}
	}

	return bw.Flush()
}
