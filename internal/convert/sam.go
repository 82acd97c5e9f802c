package convert

import (
	"fmt"
	"io"
	"strings"
)

// SAMConverter converts SAM files. The seq-id is RNAME (column 3) of alignment records
// and the SN tag of @SQ header lines. Unplaced reads (RNAME "*") count as data
// lines but are always kept, whatever the unmapped policy.
type SAMConverter struct {
	base
}

// Convert streams r to w rewriting @SQ names and alignment reference names.
func (c *SAMConverter) Convert(r io.Reader, w io.Writer) (Summary, error) {
	return c.run(r, w, c)
}

const (
	samRNAME      = 2
	samNameTag    = "SN:"
	samNoRefName  = "*"
	samHeaderLine = "@SQ"
)

func (c *SAMConverter) rewrite(s *session, line string) (string, bool, error) {
	fields := strings.Split(line, "\t")
	if strings.HasPrefix(line, "@") {
		if fields[0] != samHeaderLine {
			return line, true, nil
		}
		return c.sequenceHeader(s, line, fields)
	}

	if len(fields) <= samRNAME {
		return "", false, s.malformed(fmt.Sprintf("expected at least %d columns, found %d", samRNAME+1, len(fields)))
	}
	if fields[samRNAME] == samNoRefName {
		s.sum.DataLines++
		return line, true, nil
	}
	return replaceColumn(s, line, fields, samRNAME)
}

// sequenceHeader rewrites the SN tag of an @SQ line, keeping the tag prefix.
func (c *SAMConverter) sequenceHeader(s *session, line string, fields []string) (string, bool, error) {
	for i := 1; i < len(fields); i++ {
		if !strings.HasPrefix(fields[i], samNameTag) {
			continue
		}
		to, ok := s.mapID(strings.TrimPrefix(fields[i], samNameTag))
		if !ok {
			return line, s.keepLine(), nil
		}
		fields[i] = samNameTag + to
		return strings.Join(fields, "\t"), true, nil
	}
	return "", false, s.malformed("@SQ line without SN tag")
}
