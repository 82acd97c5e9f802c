package convert

import (
	"io"
	"strings"
)

// WigConverter converts wiggle files. The seq-id is the chrom= value of variableStep
// and fixedStep declarations.
//
// Declarations are always written, even when unmapped and unmapped lines are
// not kept: dropping one would attach its data values to the previous
// declaration.
type WigConverter struct {
	base
}

// Convert streams r to w rewriting the chrom of every step declaration.
func (c *WigConverter) Convert(r io.Reader, w io.Writer) (Summary, error) {
	return c.run(r, w, c)
}

func (c *WigConverter) rewrite(s *session, line string) (string, bool, error) {
	if !strings.HasPrefix(line, "variableStep") && !strings.HasPrefix(line, "fixedStep") {
		return line, true, nil
	}

	spans := fieldSpans(line)
	if len(spans) < 2 {
		return "", false, s.malformed("step declaration without chrom")
	}
	start, end := spans[1][0], spans[1][1]
	eq := strings.IndexByte(line[start:end], '=')
	if eq < 0 {
		return "", false, s.malformed("step declaration without chrom")
	}
	start += eq + 1

	to, ok := s.mapID(line[start:end])
	if !ok {
		return line, true, nil
	}
	return line[:start] + to + line[end:], true, nil
}
