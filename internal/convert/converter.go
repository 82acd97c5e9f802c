// Package convert rewrites seq-ids in genomic text formats using a mapping table.
//
// Every converter makes one sequential pass over its input. Data lines whose
// seq-id is in the table are rewritten in place; all other bytes of the line,
// including its line terminator, are written unchanged. Fields are never
// quoted or unquoted, so a rewritten line differs from its input only in the
// seq-id.
package convert

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/inodb/seqmap/internal/assembly"
)

// Options configures a converter.
type Options struct {
	// KeepUnmapped writes lines whose seq-id is not in the table unchanged
	// instead of dropping them.
	KeepUnmapped bool

	// Column is the 0-based seq-id column. Required for TSV, ignored otherwise.
	Column int

	// ColumnSet reports that Column was supplied. The zero Options has no column.
	ColumnSet bool

	// Logger receives the unmapped seq-id warning. Defaults to a no-op logger.
	Logger *zap.Logger
}

// Converter rewrites the seq-ids of one input format.
type Converter interface {
	// Format returns the input format handled by the converter.
	Format() Format

	// Convert streams r to w and returns the line counts for the pass.
	Convert(r io.Reader, w io.Writer) (Summary, error)
}

// Summary holds the counts of a conversion pass.
type Summary struct {
	DataLines     int      // lines that carried a seq-id
	UnmappedLines int      // data lines whose seq-id was not in the table
	DroppedLines  int      // unmapped lines left out of the output
	UnmappedIDs   []string // distinct unmapped seq-ids, sorted
}

// Warning returns the diagnostic for unmapped seq-ids, or "" when none were seen.
func (s Summary) Warning() string {
	if len(s.UnmappedIDs) == 0 {
		return ""
	}
	if s.DroppedLines == 0 {
		return fmt.Sprintf("%d seq-ids were not present in the mapping table; %d of %d lines were left unchanged",
			len(s.UnmappedIDs), s.UnmappedLines, s.DataLines)
	}
	return fmt.Sprintf("%d seq-ids were not present in the mapping table; %d of %d lines were dropped, use --keep-unmapped to keep them",
		len(s.UnmappedIDs), s.DroppedLines, s.DataLines)
}

// rewriter transforms one non-blank line without its terminator.
// It reports whether the returned line is written.
type rewriter interface {
	rewrite(s *session, line string) (string, bool, error)
}

// base holds the state shared by all converters.
type base struct {
	format       Format
	table        *assembly.Table
	keepUnmapped bool
	logger       *zap.Logger
}

func newBase(f Format, table *assembly.Table, opts Options) base {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return base{
		format:       f,
		table:        table,
		keepUnmapped: opts.KeepUnmapped,
		logger:       logger,
	}
}

// Format returns the input format handled by the converter.
func (b *base) Format() Format {
	return b.format
}

// run drives rw over every line of r. A consumer closing w early ends the
// pass without error.
func (b *base) run(r io.Reader, w io.Writer, rw rewriter) (Summary, error) {
	br := bufio.NewReader(r)
	bw := bufio.NewWriter(w)
	s := &session{
		format:       b.format,
		table:        b.table,
		keepUnmapped: b.keepUnmapped,
		unmapped:     make(map[string]struct{}),
	}

	for {
		raw, readErr := br.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return s.summary(), fmt.Errorf("read %s line %d: %w", b.format, s.lineNumber+1, readErr)
		}
		if raw == "" {
			break
		}
		s.lineNumber++

		line, term := splitTerminator(raw)
		out, keep := line, true
		if strings.TrimSpace(line) != "" {
			var err error
			out, keep, err = rw.rewrite(s, line)
			if err != nil {
				if ferr := bw.Flush(); ferr != nil && !isBrokenPipe(ferr) {
					b.logger.Warn("flush output", zap.Error(ferr))
				}
				return s.summary(), err
			}
		}

		if keep {
			if _, err := bw.WriteString(out + term); err != nil {
				return b.writeFailed(s, err)
			}
		}
		if readErr == io.EOF {
			break
		}
	}

	if err := bw.Flush(); err != nil {
		return b.writeFailed(s, err)
	}

	sum := s.summary()
	if !b.keepUnmapped && len(sum.UnmappedIDs) > 0 {
		b.logger.Warn(sum.Warning(),
			zap.Int("unmapped_ids", len(sum.UnmappedIDs)),
			zap.Int("dropped_lines", sum.DroppedLines),
			zap.Int("data_lines", sum.DataLines))
	}
	return sum, nil
}

func (b *base) writeFailed(s *session, err error) (Summary, error) {
	if isBrokenPipe(err) {
		b.logger.Debug("output closed by consumer", zap.Int("line", s.lineNumber))
		return s.summary(), nil
	}
	return s.summary(), fmt.Errorf("write %s output: %w", b.format, err)
}

func isBrokenPipe(err error) bool {
	return errors.Is(err, syscall.EPIPE)
}

// splitTerminator separates a line from its "\n" or "\r\n" terminator.
func splitTerminator(raw string) (string, string) {
	if strings.HasSuffix(raw, "\r\n") {
		return raw[:len(raw)-2], "\r\n"
	}
	if strings.HasSuffix(raw, "\n") {
		return raw[:len(raw)-1], "\n"
	}
	return raw, ""
}

// session is the bookkeeping of a single pass.
type session struct {
	format       Format
	table        *assembly.Table
	keepUnmapped bool
	lineNumber   int
	sum          Summary
	unmapped     map[string]struct{}
}

// mapID counts a data line carrying id and returns its replacement.
func (s *session) mapID(id string) (string, bool) {
	s.sum.DataLines++
	if to, ok := s.table.Lookup(id); ok {
		return to, true
	}
	s.sum.UnmappedLines++
	s.unmapped[id] = struct{}{}
	return id, false
}

// keepLine reports whether an unmapped line is written.
func (s *session) keepLine() bool {
	if !s.keepUnmapped {
		s.sum.DroppedLines++
	}
	return s.keepUnmapped
}

func (s *session) malformed(reason string) error {
	return &MalformedRecordError{Format: s.format, Line: s.lineNumber, Reason: reason}
}

func (s *session) summary() Summary {
	sum := s.sum
	sum.UnmappedIDs = make([]string, 0, len(s.unmapped))
	for id := range s.unmapped {
		sum.UnmappedIDs = append(sum.UnmappedIDs, id)
	}
	sort.Strings(sum.UnmappedIDs)
	return sum
}

// MalformedRecordError reports a data line without the seq-id field its format requires.
type MalformedRecordError struct {
	Format Format
	Line   int
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("%s record error at line %d: %s", e.Format, e.Line, e.Reason)
}
