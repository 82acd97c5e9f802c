package convert

import (
	"io"
	"strings"
)

// GXFConverter converts GFF3, GTF and VCF files. The seq-id is the first column.
// Comment and header lines pass through, except ##sequence-region directives.
type GXFConverter struct {
	base
}

// Convert streams r to w rewriting the first column of every data line.
func (c *GXFConverter) Convert(r io.Reader, w io.Writer) (Summary, error) {
	return c.run(r, w, c)
}

func (c *GXFConverter) rewrite(s *session, line string) (string, bool, error) {
	if strings.HasPrefix(line, "##sequence-region") {
		return c.sequenceRegion(s, line)
	}
	if strings.HasPrefix(line, "#") {
		return line, true, nil
	}

	id, rest, hasRest := strings.Cut(line, "\t")
	to, ok := s.mapID(id)
	if !ok {
		return line, s.keepLine(), nil
	}
	if !hasRest {
		return to, true, nil
	}
	return to + "\t" + rest, true, nil
}

// sequenceRegion rewrites "##sequence-region <id> <start> <end>".
func (c *GXFConverter) sequenceRegion(s *session, line string) (string, bool, error) {
	tokens := strings.Fields(line)
	if len(tokens) < 2 {
		return "", false, s.malformed("##sequence-region without a seq-id")
	}

	to, ok := s.mapID(tokens[1])
	if !ok {
		return line, s.keepLine(), nil
	}
	tokens[1] = to
	return strings.Join(tokens, " "), true, nil
}
