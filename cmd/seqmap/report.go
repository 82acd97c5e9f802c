package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/seqmap/internal/assembly"
	"github.com/inodb/seqmap/internal/duckdb"
	"github.com/inodb/seqmap/internal/fileio"
)

// mapfileAliases are the bundled assembly report names resolved against mapfiles.dir.
var mapfileAliases = map[string]string{
	"h38": "GRCh38",
	"h37": "GRCh37",
	"m38": "GRCm38",
	"m37": "NCBIM37",
}

// mapfileAliasHelp lists the aliases with their assemblies, e.g. "h37 (GRCh37)".
func mapfileAliasHelp() string {
	aliases := make([]string, 0, len(mapfileAliases))
	for alias, name := range mapfileAliases {
		aliases = append(aliases, fmt.Sprintf("%s (%s)", alias, name))
	}
	sort.Strings(aliases)
	return strings.Join(aliases, ", ")
}

// mappingFlags selects the assembly report and the naming translation.
type mappingFlags struct {
	mapfile   string
	accession string
	noCache   bool
}

func (m *mappingFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&m.mapfile, "mapfile", "m", "", "NCBI assembly report file, or a report in mapfiles.dir: "+mapfileAliasHelp())
	f.StringVarP(&m.accession, "accession", "a", "", "NCBI assembly accession with version (e.g. GCF_000001405.40)")
	f.String(keyFrom, "any", "Seq-id naming in the input: any, ens, gb, rs or uc")
	f.String(keyTo, "rs", "Seq-id naming in the output: ens, gb, rs or uc")
	f.BoolP(keyPrimary, "p", false, "Restrict translation to the primary assembly unit")
	f.BoolVar(&m.noCache, "no-cache", false, "Do not read or write the assembly report cache")
}

// bindFlags binds the named flags of cmd to the viper keys of the same name.
func bindFlags(cmd *cobra.Command, keys ...string) error {
	for _, key := range keys {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(key)); err != nil {
			return fmt.Errorf("bind flag %s: %w", key, err)
		}
	}
	return nil
}

// buildTable validates the authorities, loads the report and builds the table.
func (a *app) buildTable(ctx context.Context, m *mappingFlags) (*assembly.Table, error) {
	from, err := assembly.ParseAuthority(viper.GetString(keyFrom))
	if err != nil {
		return nil, err
	}
	to, err := assembly.ParseAuthority(viper.GetString(keyTo))
	if err != nil {
		return nil, err
	}
	b, err := assembly.NewBuilder(from, to)
	if err != nil {
		return nil, err
	}
	b.SetPrimaryOnly(viper.GetBool(keyPrimary))
	b.SetLogger(a.logger)

	rows, err := a.loadReport(ctx, m)
	if err != nil {
		return nil, err
	}

	table, err := b.Build(rows)
	if err != nil {
		return nil, fmt.Errorf("build mapping table: %w", err)
	}
	a.logger.Debug("mapping table ready",
		zap.Stringer("from", from),
		zap.Stringer("to", to),
		zap.Int("entries", table.Len()))
	return table, nil
}

// loadReport reads the assembly report named by --mapfile or --accession.
func (a *app) loadReport(ctx context.Context, m *mappingFlags) ([]string, error) {
	switch {
	case m.mapfile != "" && m.accession != "":
		return nil, &usageError{msg: "--mapfile and --accession are mutually exclusive"}
	case m.mapfile != "":
		return readMapfile(m.mapfile)
	case m.accession != "":
		return a.fetchReport(ctx, m.accession, cachePolicy{read: !m.noCache, write: !m.noCache})
	}
	return nil, &usageError{msg: "one of --mapfile or --accession is required"}
}

// resolveMapfile maps an alias such as h38 to <mapfiles.dir>/h38.map.
// Existing files always win over aliases.
func resolveMapfile(name string) (string, error) {
	alias := strings.ToLower(name)
	if _, ok := mapfileAliases[alias]; !ok {
		return name, nil
	}
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}

	dir := viper.GetString(keyMapfilesDir)
	if dir == "" {
		return "", &assembly.ConfigurationError{
			Field:  "mapfile",
			Value:  name,
			Reason: "mapfiles.dir is not configured (seqmap config set mapfiles.dir <dir>)",
		}
	}
	return filepath.Join(dir, alias+".map"), nil
}

func readMapfile(name string) ([]string, error) {
	path, err := resolveMapfile(name)
	if err != nil {
		return nil, err
	}

	rc, err := fileio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mapfile: %w", err)
	}
	defer rc.Close()

	return assembly.ReadReport(rc)
}

// openCache opens the report cache, returning nil when caching is disabled.
func openCache() (*duckdb.Store, error) {
	dir := viper.GetString(keyCacheDir)
	if !viper.GetBool(keyCacheEnabled) || dir == "" {
		return nil, nil
	}
	return duckdb.Open(filepath.Join(dir, duckdb.FileName))
}

// cachePolicy controls how fetchReport uses the report cache.
type cachePolicy struct {
	read  bool
	write bool
}

// fetchReport returns the report for accession from the cache or from NCBI.
// Cache failures are logged and never fail the fetch.
func (a *app) fetchReport(ctx context.Context, accession string, policy cachePolicy) ([]string, error) {
	acc, err := assembly.NormalizeAccession(accession)
	if err != nil {
		return nil, err
	}

	var store *duckdb.Store
	if policy.read || policy.write {
		store, err = openCache()
		if err != nil {
			a.logger.Warn("assembly report cache unavailable", zap.Error(err))
			store = nil
		}
		if store != nil {
			defer store.Close()
		}
	}

	if store != nil && policy.read {
		rows, found, err := store.GetReport(acc)
		switch {
		case err != nil:
			a.logger.Warn("could not read cached assembly report", zap.Error(err))
		case found:
			a.logger.Debug("using cached assembly report", zap.String("accession", acc))
			return rows, nil
		}
	}

	f := assembly.NewFetcher()
	f.SetBaseURL(viper.GetString(keyNCBIBaseURL))
	f.SetAPIKey(viper.GetString(keyNCBIAPIKey))
	f.SetLogger(a.logger)

	report, err := f.FetchReport(ctx, acc)
	if err != nil {
		return nil, err
	}

	if store != nil && policy.write {
		info := duckdb.ReportInfo{Accession: report.Accession, SourceURL: report.URL}
		if err := store.PutReport(info, report.Rows); err != nil {
			a.logger.Warn("could not cache assembly report", zap.Error(err))
		}
	}
	return report.Rows, nil
}
