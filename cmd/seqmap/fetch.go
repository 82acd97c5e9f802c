package main

import (
	"bufio"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/seqmap/internal/assembly"
	"github.com/inodb/seqmap/internal/fileio"
)

func newFetchCmd(a *app) *cobra.Command {
	var (
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "fetch <accession>",
		Short: "Download an NCBI assembly report",
		Long: `Fetch downloads the assembly report for an assembly accession through NCBI
E-utilities and writes it to the output. The report is also stored in the
report cache, replacing any earlier copy.`,
		Example: `  seqmap fetch GCF_000001405.40 -o GRCh38.p14_assembly_report.txt
  seqmap fetch GCA_000001635.9 --no-cache`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := a.fetchReport(cmd.Context(), args[0], cachePolicy{write: !noCache})
			if err != nil {
				return err
			}
			return writeRows(output, rows)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", fileio.Stdio, "Output file (default: stdout)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Do not store the report in the cache")

	return cmd
}

func writeRows(path string, rows []string) error {
	out, err := fileio.Create(path)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(out)
	for _, row := range rows {
		if _, err = w.WriteString(row + "\n"); err != nil {
			break
		}
	}
	if err == nil {
		err = w.Flush()
	}
	if err != nil {
		out.Close()
		return fmt.Errorf("write report: %w", err)
	}
	return out.Close()
}

func newCacheCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the assembly report cache",
		Long:  "List or clear assembly reports cached under cache.dir.",
		Example: `  seqmap cache list
  seqmap cache clear GCF_000001405.40
  seqmap cache clear`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List cached assembly reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCacheList()
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "clear [accession...]",
		Short: "Remove cached assembly reports (all when no accession is given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCacheClear(args)
		},
	})

	return cmd
}

func runCacheList() error {
	store, err := openCache()
	if err != nil {
		return err
	}
	if store == nil {
		fmt.Println("Report cache is disabled")
		return nil
	}
	defer store.Close()

	infos, err := store.ListReports()
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Printf("No cached reports in %s\n", store.Path())
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ACCESSION\tROWS\tFETCHED\tSOURCE")
	for _, info := range infos {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n",
			info.Accession, info.Rows, info.FetchedAt.Local().Format("2006-01-02 15:04"), info.SourceURL)
	}
	return tw.Flush()
}

func (a *app) runCacheClear(accessions []string) error {
	store, err := openCache()
	if err != nil {
		return err
	}
	if store == nil {
		fmt.Println("Report cache is disabled")
		return nil
	}
	defer store.Close()

	if len(accessions) == 0 {
		if err := store.ClearReports(); err != nil {
			return fmt.Errorf("clear cache: %w", err)
		}
		fmt.Printf("Cleared %s\n", store.Path())
		return nil
	}

	for _, accession := range accessions {
		acc, err := assembly.NormalizeAccession(accession)
		if err != nil {
			return err
		}
		if err := store.DeleteReport(acc); err != nil {
			return fmt.Errorf("remove %s: %w", acc, err)
		}
		a.logger.Debug("removed cached report", zap.String("accession", acc))
	}
	return nil
}
