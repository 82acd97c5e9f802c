package assembly

import (
	"strings"

	"go.uber.org/zap"
)

// naValue marks a missing name in an assembly report column.
const naValue = "na"

// Builder constructs a Table from assembly report rows.
type Builder struct {
	from        Authority
	to          Authority
	primaryOnly bool
	logger      *zap.Logger
}

// NewBuilder creates a builder translating names of authority from into names
// of authority to. The target must be a concrete authority.
func NewBuilder(from, to Authority) (*Builder, error) {
	if from < Ensembl || from > Any {
		return nil, &ConfigurationError{Field: "source authority", Value: from.String(), Reason: "unknown authority"}
	}
	if _, ok := to.Column(); !ok {
		return nil, &ConfigurationError{
			Field:  "target authority",
			Value:  to.String(),
			Reason: "must be one of ens, gb, rs or uc",
		}
	}
	return &Builder{
		from:   from,
		to:     to,
		logger: zap.NewNop(),
	}, nil
}

// SetPrimaryOnly restricts the table to seq-ids of the primary assembly unit.
func (b *Builder) SetPrimaryOnly(primary bool) {
	b.primaryOnly = primary
}

// SetLogger sets the logger for diagnostic messages.
func (b *Builder) SetLogger(l *zap.Logger) {
	b.logger = l
}

// Build scans the report rows once and returns the lookup table.
//
// The primary assembly unit is the unit label of the first data row. When
// primary-only is set, keys not contributed by a row of that unit are removed
// after the scan.
func (b *Builder) Build(rows []string) (*Table, error) {
	toCol, _ := b.to.Column()
	t := &Table{ids: make(map[string]string, len(rows))}

	var (
		unit     string
		haveUnit bool
		primary  = make(map[string]struct{})
	)

	for i, raw := range rows {
		line := strings.TrimRight(raw, "\r\n")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < reportColumns {
			return nil, &RowError{Line: i + 1, Fields: len(fields)}
		}

		if !haveUnit {
			unit = fields[ColAssemblyUnit]
			haveUnit = true
		}
		inPrimary := b.primaryOnly && fields[ColAssemblyUnit] == unit
		if inPrimary {
			for _, col := range identifierColumns {
				primary[fields[col]] = struct{}{}
			}
		}

		target := fields[toCol]
		if target == naValue {
			continue
		}
		for _, key := range b.sourceKeys(fields, toCol) {
			t.set(key, target)
			if inPrimary {
				primary[key] = struct{}{}
			}
		}
	}

	if b.primaryOnly {
		delete(primary, naValue)
		b.logger.Info("restricting translation to primary assembly unit",
			zap.String("unit", unit),
			zap.Int("seq_ids", len(primary)))
		for k := range t.ids {
			if _, ok := primary[k]; !ok {
				delete(t.ids, k)
			}
		}
	}

	b.logger.Debug("built mapping table",
		zap.Stringer("from", b.from),
		zap.Stringer("to", b.to),
		zap.Int("entries", t.Len()))

	return t, nil
}

// sourceKeys returns every key a row contributes for the builder's source authority.
func (b *Builder) sourceKeys(fields []string, toCol int) []string {
	switch b.from {
	case Ensembl:
		name := fields[ColEnsembl]
		// Ensembl GTF/GFF3 files sometimes use the GenBank accession instead.
		keys := []string{name, fields[ColGenBank]}
		return append(keys, synonyms(name)...)
	case Any:
		var keys []string
		for _, col := range identifierColumns {
			if col == toCol {
				continue
			}
			keys = append(keys, fields[col])
			keys = append(keys, synonyms(fields[col])...)
		}
		return keys
	}
	col, _ := b.from.Column()
	return []string{fields[col]}
}

// synonyms returns the alternative spellings Ensembl uses for a name.
func synonyms(name string) []string {
	var out []string
	if strings.Contains(name, "CHR") {
		// patches and alt scaffolds, e.g. CHR_HSCHR1_1_CTG3
		out = append(out, "CHR_"+name)
	}
	if name == "MT" {
		out = append(out, "chrMT")
	}
	return out
}
