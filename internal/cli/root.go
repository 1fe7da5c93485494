// Package cli implements the packblocks command line.
//
// Each subcommand (pack, config, version) lives in its own file. This file
// defines the root command, the global flags, and the layered configuration
// every subcommand starts from: built-in defaults, then the config file, then
// PACKBLOCKS_* environment variables, then flags.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/DenisPitsul/PackingBlocks/internal/model"
	"github.com/DenisPitsul/PackingBlocks/internal/observability"
	"github.com/DenisPitsul/PackingBlocks/internal/project"
)

// Set at build time via ldflags from the main package.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// envPrefix prefixes every environment variable that overrides the config.
const envPrefix = "PACKBLOCKS"

// globals holds the state shared by all subcommands of one root command.
type globals struct {
	configPath string
	jsonOutput bool
	verbose    bool
	logColor   bool

	v      *viper.Viper
	config model.AppConfig
	logger *zap.Logger
}

// NewRootCommand creates the root command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	g := &globals{v: viper.New(), logger: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:   "packblocks",
		Short: "Pack rectangular blocks into a fixed-size container",
		Long: `packblocks places rectangular blocks into a container using a greedy
first-fit heuristic, largest blocks first, and reports where each block went,
which blocks did not fit, and how full the container is.

Blocks that share a size get the same group tag.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.initialize(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&g.configPath, "config", "c", "", "config file (default "+project.DefaultConfigPath()+")")
	flags.BoolVar(&g.jsonOutput, "json", false, "Output in JSON format")
	flags.BoolVarP(&g.verbose, "verbose", "v", false, "Log at debug level")
	flags.String("log-level", "", "Log level: debug, info, warn, error")
	flags.String("log-format", "", "Log format: console or json")
	flags.String("log-file", "", "Also write JSON logs to this rotating file")
	flags.BoolVar(&g.logColor, "log-color", false, "Colour log levels in console output")

	_ = g.v.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = g.v.BindPFlag("log_format", flags.Lookup("log-format"))
	_ = g.v.BindPFlag("log_file", flags.Lookup("log-file"))

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return WrapCLIError(ExitUsage, "invalid flags", err)
	})

	rootCmd.AddCommand(newPackCommand(g))
	rootCmd.AddCommand(newConfigCommand(g))
	rootCmd.AddCommand(newVersionCommand(g))

	return rootCmd
}

// initialize loads the layered config and builds the logger.
func (g *globals) initialize(cmd *cobra.Command) error {
	if g.configPath == "" {
		g.configPath = project.DefaultConfigPath()
	}

	fileConfig, err := project.LoadAppConfig(g.configPath)
	if err != nil {
		return WrapCLIError(ExitInvalidInput, "failed to load config", err)
	}
	setDefaults(g.v, fileConfig)

	g.v.SetEnvPrefix(envPrefix)
	g.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	g.v.AutomaticEnv()

	var cfg model.AppConfig
	if err := g.v.Unmarshal(&cfg); err != nil {
		return WrapCLIError(ExitInvalidInput, "failed to resolve config", err)
	}
	if cfg.RecentJobs == nil {
		cfg.RecentJobs = []string{}
	}
	g.config = cfg

	logCfg := observability.ConfigFromApp(cfg)
	if g.verbose {
		logCfg.Level = "debug"
	}
	logCfg.Color = g.logColor
	logger, err := observability.NewLogger(logCfg, zapcore.Lock(zapcore.AddSync(cmd.ErrOrStderr())))
	if err != nil {
		return WrapCLIError(ExitUsage, "failed to configure logging", err)
	}
	g.logger = logger
	g.logger.Debug("Configuration loaded",
		zap.String("config", g.configPath),
		zap.String("tag_style", string(cfg.DefaultTagStyle)),
		zap.String("command", cmd.CommandPath()),
	)
	return nil
}

// setDefaults registers every AppConfig key so environment variables and
// flags can override it.
func setDefaults(v *viper.Viper, cfg model.AppConfig) {
	v.SetDefault("default_tag_style", string(cfg.DefaultTagStyle))
	v.SetDefault("default_seed", cfg.DefaultSeed)
	v.SetDefault("default_width", cfg.DefaultWidth)
	v.SetDefault("default_height", cfg.DefaultHeight)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("log_format", cfg.LogFormat)
	v.SetDefault("log_file", cfg.LogFile)
	v.SetDefault("recent_jobs", cfg.RecentJobs)
}

// Execute runs the root command and returns the process exit code. Errors
// are printed to errOut as text, or as JSON when --json is set.
func Execute(rootCmd *cobra.Command, errOut io.Writer) int {
	err := rootCmd.Execute()
	if err == nil {
		return int(ExitSuccess)
	}

	jsonOutput, _ := rootCmd.PersistentFlags().GetBool("json")
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		printError(errOut, jsonOutput, cliErr.Message, cliErr.Err)
		return int(cliErr.Code)
	}
	printError(errOut, jsonOutput, err.Error(), nil)
	return int(ExitGeneralError)
}

// printError writes an error as "Error: ..." text or as a JSON object.
func printError(w io.Writer, jsonOutput bool, message string, underlying error) {
	if !jsonOutput {
		if underlying != nil {
			fmt.Fprintf(w, "Error: %s: %v\n", message, underlying)
		} else {
			fmt.Fprintf(w, "Error: %s\n", message)
		}
		return
	}

	errObj := map[string]string{"message": message}
	if underlying != nil {
		errObj["detail"] = underlying.Error()
	}
	data, _ := json.MarshalIndent(map[string]interface{}{"error": errObj}, "", "  ")
	fmt.Fprintln(w, string(data))
}
