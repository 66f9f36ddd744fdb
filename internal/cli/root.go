// Copyright (c) 2026 Warpkeeper Authors
// Warpkeeper - local account rotation service
// This source code is licensed under the MIT license found in the LICENSE file.

// root.go sets up the command-line interface for Warpkeeper using the
// Cobra library. It defines the root command, the configuration and
// database bootstrap shared by all subcommands, and the entry point
// called from main.
package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	log "github.com/charmbracelet/log"

	"github.com/warpkeeper/warpkeeper/internal/config"
	"github.com/warpkeeper/warpkeeper/internal/db"
	"github.com/warpkeeper/warpkeeper/internal/i18n"
	"github.com/warpkeeper/warpkeeper/internal/logging"
	"github.com/warpkeeper/warpkeeper/internal/rotation"
)

var version = "dev"   // set by the linker
var gitCommit = "dev" // set at build time with the short commit SHA
var buildDate = ""    // set at build time (RFC3339)

var cfgFile string
var verbose bool
var showVersionFlag bool

var appConfig config.Config
var store db.Store
var engine *rotation.Engine

// setupDefaultServices loads the configuration, initializes i18n and
// opens the database. It runs once per invocation from PersistentPreRunE.
func setupDefaultServices(cmd *cobra.Command, args []string) error {
	optionalConfigPath, err := getConfigPathFromCli(cmd)
	if err != nil {
		return err
	}

	defaults := map[string]any{
		"database.type": "sqlite",
		"database.dsn":  config.DefaultDatabasePath(),
		"server.host":   "127.0.0.1",
		"server.port":   8888,
		"language":      "en",
	}

	appConfig, err = config.LoadConfig[config.Config](cmd, defaults, optionalConfigPath)
	// A "file not found" error is expected on first run; write a default
	// config so subsequent runs have a persisted file to inspect.
	if errors.As(err, &viper.ConfigFileNotFoundError{}) {
		if writeErr := config.WriteConfigFile(&appConfig, false); writeErr != nil {
			log.Warnf("could not write default config file: %v", writeErr)
		}
	} else if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	if appConfig.Database.Type == "" {
		appConfig.Database.Type = defaults["database.type"].(string)
	}
	if appConfig.Database.Dsn == "" {
		appConfig.Database.Dsn = defaults["database.dsn"].(string)
	}
	if appConfig.Language == "" {
		appConfig.Language = defaults["language"].(string)
	}

	i18n.SetLang(appConfig.Language)

	if appConfig.Debug || verbose {
		logging.SetDebug(true)
		db.SetDebug(true)
	}

	if store == nil {
		store, err = db.New(appConfig.Database.Type, appConfig.Database.Dsn)
		if err != nil {
			return fmt.Errorf("%s: %w", i18n.T("cli.error_init_db"), err)
		}
	}
	engine = rotation.NewEngine(store)

	return nil
}

// getConfigPathFromCli returns the validated --config flag value, or nil
// when the flag was not set.
func getConfigPathFromCli(cmd *cobra.Command) (*string, error) {
	if !cmd.Flags().Changed("config") {
		return nil, nil
	}
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("could not read --config flag: %w", err)
	}
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file specified via --config flag not found or is not accessible: %w", err)
	}
	return &path, nil
}

// applyDefaultFlags registers shared database flags, skipping any that a
// previous NewRootCmd call already defined. pflag panics on duplicates.
func applyDefaultFlags(cmd *cobra.Command) {
	if cmd.Flags().Lookup("database.type") == nil {
		cmd.Flags().String("database.type", "sqlite", "Database type (sqlite, postgres, mysql)")
	}
	if cmd.Flags().Lookup("database.dsn") == nil {
		cmd.Flags().String("database.dsn", "", "Database connection string (DSN)")
	}
}

// resolveBuildVersion prefers linker-injected values and falls back to
// module build info when running from `go run` or a plain `go build`.
func resolveBuildVersion(info *debug.BuildInfo) (string, string, string) {
	v, c, d := version, gitCommit, buildDate
	if v != "dev" {
		return v, c, d
	}
	if info == nil {
		info, _ = debug.ReadBuildInfo()
	}
	if info != nil && info.Main.Version != "" && info.Main.Version != "(devel)" {
		v = info.Main.Version
	}
	return v, c, d
}

// NewRootCmd creates and configures a new root cobra command. Tests use
// it to build isolated instances.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "warpkeeper",
		Short: "Warpkeeper manages a pool of accounts and rotates the active one.",
		Long: `Warpkeeper keeps a local pool of accounts with access tokens in a
database and guarantees that at most one of them is active at a time.
Rotation always picks the least recently used unbanned account, so the
pool wears evenly. A small local HTTP API exposes the same operations
for scripts and browser extensions.

Running without a subcommand starts the HTTP server.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if showVersionFlag {
				fmt.Println(compositeVersion())
				os.Exit(0)
			}
			return setupDefaultServices(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}

	cmd.Version = compositeVersion()

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output (debug logs, SQL tracing)")
	cmd.PersistentFlags().BoolVarP(&showVersionFlag, "version", "V", false, "Print version and exit")
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file")
	cmd.PersistentFlags().String("language", "en", `Output language ("en", "zh-Hans")`)
	applyDefaultFlags(cmd)

	cmd.AddCommand(
		serveCmd,
		accountCmd,
		statsCmd,
		backupCmd,
		restoreCmd,
		dbMaintainCmd,
		versionCmd,
	)

	applyDefaultFlags(serveCmd)
	applyDefaultFlags(statsCmd)
	applyDefaultFlags(backupCmd)
	applyDefaultFlags(restoreCmd)
	applyDefaultFlags(dbMaintainCmd)
	if serveCmd.Flags().Lookup("server.host") == nil {
		serveCmd.Flags().String("server.host", "127.0.0.1", "Bind address for the HTTP API")
	}
	if serveCmd.Flags().Lookup("server.port") == nil {
		serveCmd.Flags().Int("server.port", 8888, "Port for the HTTP API")
	}
	if restoreCmd.Flags().Lookup("yes") == nil {
		restoreCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	}
	if accountShowCmd.Flags().Lookup("copy-token") == nil {
		accountShowCmd.Flags().Bool("copy-token", false, "Copy the account token to the clipboard")
	}

	return cmd
}

func compositeVersion() string {
	v, c, d := resolveBuildVersion(nil)
	out := v
	if c != "" && c != "dev" {
		out = out + " (" + c + ")"
	}
	if d != "" {
		out = out + " built: " + d
	}
	return out
}

// Execute runs the CLI entrypoint. The main package calls this and
// handles process exit.
func Execute() error {
	rootCmd := NewRootCmd()

	defer func() {
		if store != nil {
			if err := store.Close(); err != nil {
				log.Errorf("error closing database: %v", err)
			}
		}
	}()

	return rootCmd.Execute()
}
