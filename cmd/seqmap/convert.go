package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/seqmap/internal/assembly"
	"github.com/inodb/seqmap/internal/convert"
	"github.com/inodb/seqmap/internal/fileio"
)

func newConvertCmd(a *app) *cobra.Command {
	var (
		m      mappingFlags
		input  string
		output string
		column int
	)

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Rename seq-ids in a GFF3, GTF, VCF, BED, bedGraph, SAM, WIG or TSV file",
		Long: `Convert rewrites the seq-id of every record using an NCBI assembly report.

Records whose seq-id is not in the report are dropped unless --keep-unmapped
is given; a warning summarising them is written to stderr. Step declarations
in WIG files are never dropped.`,
		Example: `  seqmap convert -m GCF_000001405.40_assembly_report.txt -i in.gff3 -o out.gff3
  seqmap convert -a GCF_000001405.40 --to uc -f bed -i peaks.bed
  seqmap convert -m h38 --from ens --to rs -f gtf -p -i genes.gtf.gz -o genes.gtf.gz
  seqmap convert -m h38 -f tsv -c 2 -k < table.tsv > renamed.tsv`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(cmd, keyFrom, keyTo, keyFormat, keyKeepUnmapped, keyPrimary)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConvert(cmd.Context(), &m, input, output, column)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&input, "input", "i", fileio.Stdio, "Input file, optionally gzipped (default: stdin)")
	f.StringVarP(&output, "output", "o", fileio.Stdio, "Output file, gzipped when ending in .gz (default: stdout)")
	f.StringP(keyFormat, "f", "gff3", "Input format: "+strings.Join(convert.FormatNames(), ", "))
	f.BoolP(keyKeepUnmapped, "k", false, "Keep records whose seq-id has no translation")
	f.IntVarP(&column, "column", "c", 0, "1-based seq-id column; required for tsv")
	m.register(cmd)

	return cmd
}

func (a *app) runConvert(ctx context.Context, m *mappingFlags, input, output string, column int) error {
	format, err := convert.ParseFormat(viper.GetString(keyFormat))
	if err != nil {
		return err
	}

	opts := convert.Options{
		KeepUnmapped: viper.GetBool(keyKeepUnmapped),
		Logger:       a.logger,
	}
	if format == convert.TSV {
		if column < 1 {
			return &assembly.ConfigurationError{
				Field:  "column",
				Reason: "--column (1-based) is required for tsv input",
			}
		}
		opts.Column, opts.ColumnSet = column-1, true
	}

	table, err := a.buildTable(ctx, m)
	if err != nil {
		return err
	}

	conv, err := convert.New(format, table, opts)
	if err != nil {
		return err
	}

	in, err := fileio.Open(input)
	if err != nil {
		return err
	}
	defer in.Close()

	// Output is created only once everything above has been validated.
	out, err := fileio.Create(output)
	if err != nil {
		return err
	}

	sum, err := conv.Convert(in, out)
	if cerr := out.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close output: %w", cerr)
	}
	if err != nil {
		return err
	}

	a.logger.Debug("conversion complete",
		zap.Stringer("format", format),
		zap.Int("data_lines", sum.DataLines),
		zap.Int("unmapped_lines", sum.UnmappedLines),
		zap.Int("dropped_lines", sum.DroppedLines))
	return nil
}
