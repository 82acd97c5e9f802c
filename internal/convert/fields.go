package convert

import (
	"fmt"
	"strings"
	"unicode"
)

// splitRecord splits a tab-delimited record. A line without tabs is split on
// runs of whitespace so space-delimited interval files are accepted.
func splitRecord(line string) []string {
	fields := strings.Split(line, "\t")
	if len(fields) == 1 {
		return strings.Fields(line)
	}
	return fields
}

// replaceColumn rewrites the seq-id in fields[col] and joins fields with tabs.
// Unmapped lines are returned as the original line.
func replaceColumn(s *session, line string, fields []string, col int) (string, bool, error) {
	if len(fields) <= col {
		return "", false, s.malformed(fmt.Sprintf("expected at least %d columns, found %d", col+1, len(fields)))
	}

	to, ok := s.mapID(fields[col])
	if !ok {
		return line, s.keepLine(), nil
	}

	out := make([]string, len(fields))
	copy(out, fields)
	out[col] = to
	return strings.Join(out, "\t"), true, nil
}

// isIntervalHeader reports whether line is a comment, track or browser line.
func isIntervalHeader(line string) bool {
	return strings.HasPrefix(line, "#") ||
		strings.HasPrefix(line, "track") ||
		strings.HasPrefix(line, "browser")
}

// rewriteIntervalHeader handles the header lines of BED-like files. Only a
// "browser position <id>:<start>-<end>" line carries a seq-id; the phrase may
// follow a comment marker as in "#browser position".
func rewriteIntervalHeader(s *session, line string) (string, bool, error) {
	tokens := strings.Fields(line)
	pos := browserPosition(tokens)
	if pos < 0 {
		return line, true, nil
	}
	if pos+1 >= len(tokens) {
		return "", false, s.malformed("browser position without a location")
	}

	loc := pos + 1
	id, rng, hasRange := strings.Cut(tokens[loc], ":")
	to, ok := s.mapID(id)
	if !ok {
		return line, s.keepLine(), nil
	}

	tokens[loc] = to
	if hasRange {
		tokens[loc] += ":" + rng
	}
	return strings.Join(tokens, " "), true, nil
}

// browserPosition returns the index of the "position" token that follows a
// token ending in "browser", or -1.
func browserPosition(tokens []string) int {
	for i := 1; i < len(tokens); i++ {
		if tokens[i] == "position" && strings.HasSuffix(tokens[i-1], "browser") {
			return i
		}
	}
	return -1
}

// fieldSpans returns the [start, end) byte offsets of whitespace-separated
// tokens in line.
func fieldSpans(line string) [][2]int {
	var spans [][2]int
	start := -1
	for i, r := range line {
		if unicode.IsSpace(r) {
			if start >= 0 {
				spans = append(spans, [2]int{start, i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		spans = append(spans, [2]int{start, len(line)})
	}
	return spans
}
