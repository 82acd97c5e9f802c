package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/inodb/seqmap/internal/assembly"
	"github.com/inodb/seqmap/internal/convert"
)

// Config keys
const (
	keyFrom         = "from"
	keyTo           = "to"
	keyFormat       = "format"
	keyKeepUnmapped = "keep-unmapped"
	keyPrimary      = "primary"
	keyMapfilesDir  = "mapfiles.dir"
	keyCacheDir     = "cache.dir"
	keyCacheEnabled = "cache.enabled"
	keyNCBIBaseURL  = "ncbi.base-url"
	keyNCBIAPIKey   = "ncbi.api-key"
)

var envKeyReplacer = strings.NewReplacer(".", "_", "-", "_")

func setDefaults() {
	viper.SetDefault(keyFrom, "any")
	viper.SetDefault(keyTo, "rs")
	viper.SetDefault(keyFormat, "gff3")
	viper.SetDefault(keyKeepUnmapped, false)
	viper.SetDefault(keyPrimary, false)
	viper.SetDefault(keyCacheEnabled, true)
	viper.SetDefault(keyNCBIBaseURL, assembly.DefaultEUtilsURL)
	if home, err := os.UserHomeDir(); err == nil {
		viper.SetDefault(keyCacheDir, filepath.Join(home, ".seqmap"))
	}
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage seqmap configuration",
		Long:  "Show, get, or set configuration values. Config is stored in ~/.seqmap.yaml.",
		Example: `  seqmap config                                # show all config
  seqmap config set mapfiles.dir /data/assembly_reports  # directory for h38, h37, m38, m37
  seqmap config set to ucsc                      # default target naming
  seqmap config get cache.dir                    # get a value`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow()
		},
	}

	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigGetCmd())

	return cmd
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(args[0], args[1])
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(args[0])
		},
	}
}

// configKeys lists every key accepted by config get and set.
var configKeys = []string{
	keyFrom,
	keyTo,
	keyFormat,
	keyKeepUnmapped,
	keyPrimary,
	keyMapfilesDir,
	keyCacheDir,
	keyCacheEnabled,
	keyNCBIBaseURL,
	keyNCBIAPIKey,
}

func isConfigKey(key string) bool {
	for _, k := range configKeys {
		if k == key {
			return true
		}
	}
	return false
}

func unknownKey(key string) error {
	return &assembly.ConfigurationError{
		Field:  "config key",
		Value:  key,
		Reason: "must be one of " + strings.Join(configKeys, ", "),
	}
}

// parseConfigValue checks value against key and returns what is stored.
func parseConfigValue(key, value string) (any, error) {
	switch key {
	case keyFrom, keyTo:
		if _, err := assembly.ParseAuthority(value); err != nil {
			return nil, err
		}
		if key == keyTo && strings.EqualFold(strings.TrimSpace(value), "any") {
			return nil, &assembly.ConfigurationError{Field: key, Value: value, Reason: "target naming must be a concrete authority"}
		}
		return strings.ToLower(strings.TrimSpace(value)), nil
	case keyFormat:
		f, err := convert.ParseFormat(value)
		if err != nil {
			return nil, err
		}
		return f.String(), nil
	case keyKeepUnmapped, keyPrimary, keyCacheEnabled:
		switch strings.ToLower(value) {
		case "true", "yes", "on":
			return true, nil
		case "false", "no", "off":
			return false, nil
		}
		return nil, &assembly.ConfigurationError{Field: key, Value: value, Reason: "expected true or false"}
	}
	return value, nil
}

func runConfigShow() error {
	settings := make(map[string]any, len(configKeys))
	for _, key := range configKeys {
		if viper.IsSet(key) {
			settings[key] = viper.Get(key)
		}
	}

	out, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Printf("# %s\n", used)
	}
	fmt.Print(string(out))
	return nil
}

func runConfigSet(key, value string) error {
	if !isConfigKey(key) {
		return unknownKey(key)
	}
	v, err := parseConfigValue(key, value)
	if err != nil {
		return err
	}

	// Only persisted keys are written; defaults stay implicit.
	file := viper.New()
	cfgFile := viper.ConfigFileUsed()
	if cfgFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("cannot determine home directory: %w", err)
		}
		cfgFile = filepath.Join(home, ".seqmap.yaml")
	} else {
		file.SetConfigFile(cfgFile)
		if err := file.ReadInConfig(); err != nil {
			return fmt.Errorf("read config: %w", err)
		}
	}
	file.Set(key, v)

	if err := file.WriteConfigAs(cfgFile); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("Set %s = %v in %s\n", key, v, cfgFile)
	return nil
}

func runConfigGet(key string) error {
	if !isConfigKey(key) {
		return unknownKey(key)
	}
	val := viper.Get(key)
	if val == nil || val == "" {
		return fmt.Errorf("key %q is not set", key)
	}
	fmt.Println(val)
	return nil
}
