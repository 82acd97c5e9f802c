package main

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/inodb/seqmap/internal/assembly"
	"github.com/inodb/seqmap/internal/fileio"
)

func newTableCmd(a *app) *cobra.Command {
	var (
		m      mappingFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "table",
		Short: "Print the seq-id translation table",
		Long: `Table builds the translation table used by convert and prints it as
tab-separated source and target seq-ids, sorted by source.`,
		Example: `  seqmap table -m h38 --from ens --to uc
  seqmap table -a GCF_000001635.27 -p`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(cmd, keyFrom, keyTo, keyPrimary)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTable(cmd.Context(), &m, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", fileio.Stdio, "Output file (default: stdout)")
	m.register(cmd)

	return cmd
}

func (a *app) runTable(ctx context.Context, m *mappingFlags, output string) error {
	table, err := a.buildTable(ctx, m)
	if err != nil {
		return err
	}

	out, err := fileio.Create(output)
	if err != nil {
		return err
	}
	if err := writeTable(out, table); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// writeTable writes one "source<TAB>target" row per entry, sorted by source.
func writeTable(out io.Writer, table *assembly.Table) error {
	w := bufio.NewWriter(out)
	for _, from := range table.Sources() {
		to, _ := table.Lookup(from)
		if _, err := fmt.Fprintf(w, "%s\t%s\n", from, to); err != nil {
			return fmt.Errorf("write table: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write table: %w", err)
	}
	return nil
}
