package convert

import "io"

// BEDConverter converts BED and bedGraph files. The seq-id is the first column.
type BEDConverter struct {
	base
}

// Convert streams r to w rewriting the chrom column of every interval.
func (c *BEDConverter) Convert(r io.Reader, w io.Writer) (Summary, error) {
	return c.run(r, w, c)
}

func (c *BEDConverter) rewrite(s *session, line string) (string, bool, error) {
	if isIntervalHeader(line) {
		return rewriteIntervalHeader(s, line)
	}
	return replaceColumn(s, line, splitRecord(line), 0)
}
