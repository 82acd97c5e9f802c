// Package assembly builds seq-id lookup tables from NCBI assembly reports.
package assembly

import (
	"strings"
)

// Authority is a sequence naming convention.
type Authority int

const (
	Ensembl Authority = iota
	GenBank
	RefSeq
	UCSC
	// Any matches the input against every authority column except the target.
	Any
)

// Assembly report column indices for each concrete authority.
const (
	ColEnsembl      = 0
	ColGenBank      = 4
	ColRefSeq       = 6
	ColAssemblyUnit = 7
	ColUCSC         = 9

	// reportColumns is the minimum number of columns in an assembly report row.
	reportColumns = 10
)

var authorityNames = map[string]Authority{
	"ens":     Ensembl,
	"ensembl": Ensembl,
	"gb":      GenBank,
	"genbank": GenBank,
	"rs":      RefSeq,
	"refseq":  RefSeq,
	"uc":      UCSC,
	"ucsc":    UCSC,
	"any":     Any,
}

// ParseAuthority parses an authority keyword such as "ens", "refseq" or "any".
func ParseAuthority(s string) (Authority, error) {
	if a, ok := authorityNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return a, nil
	}
	return 0, &ConfigurationError{
		Field:  "authority",
		Value:  s,
		Reason: "must be one of ens, gb, rs, uc or any",
	}
}

// Column returns the assembly report column holding names of this authority.
// Any has no column and reports false.
func (a Authority) Column() (int, bool) {
	switch a {
	case Ensembl:
		return ColEnsembl, true
	case GenBank:
		return ColGenBank, true
	case RefSeq:
		return ColRefSeq, true
	case UCSC:
		return ColUCSC, true
	}
	return 0, false
}

func (a Authority) String() string {
	switch a {
	case Ensembl:
		return "ensembl"
	case GenBank:
		return "genbank"
	case RefSeq:
		return "refseq"
	case UCSC:
		return "ucsc"
	case Any:
		return "any"
	}
	return "unknown"
}

// identifierColumns lists the four authority columns in report order.
var identifierColumns = []int{ColEnsembl, ColGenBank, ColRefSeq, ColUCSC}
