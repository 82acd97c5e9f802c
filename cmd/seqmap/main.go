// Package main provides the seqmap command-line tool.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/seqmap/internal/assembly"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	errorPrefix = color.New(color.FgRed, color.Bold).SprintFunc()
	hintPrefix  = color.New(color.FgYellow).SprintFunc()
)

// usageError marks command-line problems that cobra does not detect itself.
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func main() {
	os.Exit(run())
}

func run() int {
	// Writes to a closed stdout must fail with EPIPE instead of killing the process.
	signal.Ignore(syscall.SIGPIPE)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := newRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, syscall.EPIPE) {
			return ExitSuccess
		}
		fmt.Fprintf(os.Stderr, "%s %v\n", errorPrefix("Error:"), err)

		var cfgErr *assembly.ConfigurationError
		var useErr *usageError
		switch {
		case errors.As(err, &cfgErr), errors.As(err, &useErr):
			fmt.Fprintf(os.Stderr, "%s run '%s --help' for usage\n", hintPrefix("Hint:"), root.Name())
			return ExitUsage
		case errors.Is(err, os.ErrNotExist):
			fmt.Fprintf(os.Stderr, "%s Check that the file path is correct\n", hintPrefix("Hint:"))
		}
		return ExitError
	}
	return ExitSuccess
}

// app carries state shared by all commands.
type app struct {
	cfgFile string
	verbose bool
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	cmd := &cobra.Command{
		Use:   "seqmap",
		Short: "Rename sequence identifiers in genomic files",
		Long: `seqmap translates chromosome and contig names between the Ensembl, GenBank,
RefSeq and UCSC naming conventions using an NCBI assembly report.

Supported formats: gff3, gtf, vcf, bed, bedgraph, sam, wig and tsv.`,
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(a.cfgFile); err != nil {
				return err
			}
			a.logger = newLogger(a.verbose)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.logger.Sync()
		},
	}
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return &usageError{msg: err.Error()}
	})

	cmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "Config file (default: ~/.seqmap.yaml)")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log debug messages to stderr")

	cmd.AddCommand(newConvertCmd(a))
	cmd.AddCommand(newTableCmd(a))
	cmd.AddCommand(newFetchCmd(a))
	cmd.AddCommand(newCacheCmd(a))
	cmd.AddCommand(newConfigCmd())

	return cmd
}

// initConfig reads the config file and environment into viper.
func initConfig(cfgFile string) error {
	setDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(".seqmap")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("SEQMAP")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}
