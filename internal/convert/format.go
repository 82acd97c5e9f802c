package convert

import (
	"sort"
	"strconv"
	"strings"

	"github.com/inodb/seqmap/internal/assembly"
)

// Format is an input file format keyword.
type Format int

const (
	GFF3 Format = iota
	GTF
	VCF
	BED
	BedGraph
	SAM
	Wig
	TSV
)

var formatNames = map[string]Format{
	"gff3":     GFF3,
	"gtf":      GTF,
	"vcf":      VCF,
	"bed":      BED,
	"bedgraph": BedGraph,
	"sam":      SAM,
	"wig":      Wig,
	"tsv":      TSV,
}

// ParseFormat parses a format keyword, ignoring case and surrounding space.
func ParseFormat(s string) (Format, error) {
	if f, ok := formatNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return f, nil
	}
	return 0, &assembly.ConfigurationError{
		Field:  "format",
		Value:  s,
		Reason: "must be one of " + strings.Join(FormatNames(), ", "),
	}
}

// FormatNames returns the accepted format keywords in sorted order.
func FormatNames() []string {
	names := make([]string, 0, len(formatNames))
	for name := range formatNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (f Format) String() string {
	for name, ff := range formatNames {
		if ff == f {
			return name
		}
	}
	return "unknown"
}

// New returns the converter for format f.
func New(f Format, table *assembly.Table, opts Options) (Converter, error) {
	if table == nil {
		return nil, &assembly.ConfigurationError{Field: "mapping table", Reason: "required"}
	}
	b := newBase(f, table, opts)

	switch f {
	case GFF3, GTF, VCF:
		return &GXFConverter{base: b}, nil
	case BED, BedGraph:
		return &BEDConverter{base: b}, nil
	case Wig:
		return &WigConverter{base: b}, nil
	case SAM:
		return &SAMConverter{base: b}, nil
	case TSV:
		if !opts.ColumnSet {
			return nil, &assembly.ConfigurationError{
				Field:  "column",
				Reason: "a seq-id column is required for tsv input",
			}
		}
		if opts.Column < 0 {
			return nil, &assembly.ConfigurationError{
				Field:  "column",
				Value:  strconv.Itoa(opts.Column),
				Reason: "must not be negative",
			}
		}
		return &TSVConverter{base: b, column: opts.Column}, nil
	}

	return nil, &assembly.ConfigurationError{Field: "format", Value: f.String(), Reason: "unsupported"}
}
