package convert

import "io"

// TSVConverter converts tab-delimited files with the seq-id in a caller-chosen column.
// Header lines are recognised as for BED.
type TSVConverter struct {
	base
	column int
}

// Convert streams r to w rewriting the configured column of every data line.
func (c *TSVConverter) Convert(r io.Reader, w io.Writer) (Summary, error) {
	return c.run(r, w, c)
}

// Column returns the 0-based seq-id column.
func (c *TSVConverter) Column() int {
	return c.column
}

func (c *TSVConverter) rewrite(s *session, line string) (string, bool, error) {
	if isIntervalHeader(line) {
		return rewriteIntervalHeader(s, line)
	}
	return replaceColumn(s, line, splitRecord(line), c.column)
}
