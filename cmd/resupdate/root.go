package main

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yxpscom/batch-resource-updater/pkg/endpoint"
	"github.com/yxpscom/batch-resource-updater/pkg/logging"
	"github.com/yxpscom/batch-resource-updater/pkg/types"
)

var (
	// Global flags
	verbose    bool
	quiet      bool
	jsonOut    bool
	noColor    bool
	configFile string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "resupdate",
	Short: "Add, extract and remove resources in PE images and .res files",
	Long: `resupdate edits the resources of Windows PE images (.exe, .dll, ...) and
compiled resource files (.res) in batches.

Resources are addressed as path|type|name[|language], for example
app.exe|BITMAP|100|1033. Any other argument is a plain file path, so data
can be moved between files and containers in either direction. Every
command loads each container once and writes it back atomically at the end.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return initConfig() },
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	pf.BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	pf.BoolVar(&jsonOut, "json", false, "Output in JSON format")
	pf.BoolVar(&noColor, "no-color", false, "Disable colored log output")
	pf.StringVar(&configFile, "config", "", "Config file (default is .resupdate.yaml in the working or home directory)")
	pf.StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")

	for _, name := range []string{"verbose", "quiet", "log-level"} {
		if err := viper.BindPFlag(strings.ReplaceAll(name, "-", "_"), pf.Lookup(name)); err != nil {
			panic(fmt.Sprintf("Failed to bind %s flag: %v", name, err))
		}
	}
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v\n", err)
		os.Exit(1)
	}
}

// initConfig reads the config file and RESUPDATE_* environment variables,
// then configures logging.
func initConfig() error {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".resupdate")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
	}
	viper.SetEnvPrefix("RESUPDATE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()
	viper.SetDefault("overwrite", types.OverwriteAlways.String())

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	configureLogging()
	printVerbose("Using config file: %s\n", viper.ConfigFileUsed())
	return nil
}

func configureLogging() {
	cfg := logging.DefaultConfig()
	switch {
	case viper.GetBool("quiet"):
		cfg.Level = "error"
	case viper.GetBool("verbose"):
		cfg.Level = "debug"
	}
	if lvl := viper.GetString("log_level"); lvl != "" {
		cfg.Level = lvl
	}
	if format := viper.GetString("log_format"); format != "" {
		cfg.Format = format
	}
	cfg.NoColor = cfg.NoColor || noColor
	logging.Configure(cfg)
}

// resolveOverwrite returns the policy named by flag, falling back to the
// configured default.
func resolveOverwrite(flag string) (types.Overwrite, error) {
	name := flag
	if name == "" {
		name = viper.GetString("overwrite")
	}
	if name == "" {
		return types.OverwriteAlways, nil
	}
	return types.ParseOverwrite(name)
}

// session is one run of the tool: a router shared by every operation and
// the containers its commit wrote.
type session struct {
	router  *endpoint.Router
	written []endpoint.CommitRecord
}

// newSession builds the router for one run. fsys is nil for the OS
// filesystem.
func newSession(missingOK bool, fsys afero.Fs) *session {
	s := &session{}
	s.router = endpoint.NewRouter(endpoint.Options{
		Fs:              fsys,
		Logger:          logging.Default(),
		PEExtensions:    viper.GetStringSlice("pe_extensions"),
		RESExtensions:   viper.GetStringSlice("res_extensions"),
		RemoveMissingOK: missingOK || viper.GetBool("missing_ok"),
		OnCommit: func(rec endpoint.CommitRecord) {
			s.written = append(s.written, rec)
		},
	})
	return s
}

// commit writes every pending container and reports what was written.
func (s *session) commit() error {
	err := s.router.Commit()
	for _, rec := range s.written {
		printVerbose("Wrote %s (%s, %d resources, blake3 %s)\n",
			rec.Path, humanize.Bytes(uint64(rec.Size)), rec.Resources, hex.EncodeToString(rec.Digest[:8]))
	}
	if err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

type writtenJSON struct {
	Path      string `json:"path"`
	Kind      string `json:"kind"`
	Size      int    `json:"size"`
	Resources int    `json:"resources"`
	BLAKE3    string `json:"blake3"`
}

func (s *session) writtenJSON() []writtenJSON {
	out := make([]writtenJSON, 0, len(s.written))
	for _, rec := range s.written {
		out = append(out, writtenJSON{
			Path:      rec.Path,
			Kind:      rec.Kind,
			Size:      rec.Size,
			Resources: rec.Resources,
			BLAKE3:    hex.EncodeToString(rec.Digest[:]),
		})
	}
	return out
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
