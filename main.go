package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// defaultDir is scanned when no directory argument is given.
const defaultDir = "src"

// version is the application version, set via ldflags.
var version string = "dev"

var cfgFile string

// runConfig is the resolved configuration for one invocation
// (default < config file < env < flag).
type runConfig struct {
	Entries     string
	Include     string
	Exclude     string
	Hidden      bool
	NoIgnore    bool
	MaxDepth    int
	Format      string
	File        string
	Clipboard   bool
	PDF         string
	Tokens      bool
	Model       string
	Interactive bool
	Verbose     bool
}

func loadRunConfig(v *viper.Viper) runConfig {
	return runConfig{
		Entries:     v.GetString("entries"),
		Include:     v.GetString("include"),
		Exclude:     v.GetString("exclude"),
		Hidden:      v.GetBool("hidden"),
		NoIgnore:    v.GetBool("no_ignore"),
		MaxDepth:    v.GetInt("max_depth"),
		Format:      v.GetString("format"),
		File:        v.GetString("file"),
		Clipboard:   v.GetBool("clipboard"),
		PDF:         v.GetString("pdf"),
		Tokens:      v.GetBool("tokens"),
		Model:       v.GetString("model"),
		Interactive: v.GetBool("interactive"),
		Verbose:     v.GetBool("verbose"),
	}
}

var rootCmd = &cobra.Command{
	Use:   "loc [DIR]",
	Short: "loc counts source and total lines of code in a directory.",
	Long: `loc reads every file in a directory and prints, per file, the number of
significant lines (neither blank nor starting with //) over the total number
of lines, followed by the sloc and tloc totals.

DIR defaults to ./src and may also be a Git URL, which is cloned first.`,
	Version:      version,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return run(ctx, cmd, args, loadRunConfig(viper.GetViper()))
	},
}

func run(ctx context.Context, cmd *cobra.Command, args []string, cfg runConfig) error {
	logger, err := newLogger(cfg.Verbose)
	if err != nil {
		return fmt.Errorf("error initializing logger: %w", err)
	}
	defer logger.Sync()

	if used := viper.ConfigFileUsed(); used != "" {
		logger.Debug("using config file", zap.String("path", used))
	}

	policy, err := ParseEntryPolicy(cfg.Entries)
	if err != nil {
		return err
	}

	// Determine the directory: interactive, argument, or ./src
	dir := defaultDir
	switch {
	case cfg.Interactive:
		dir, err = selectDirectory(cfg.Hidden)
		if errors.Is(err, errSelectionAborted) {
			return nil
		}
		if err != nil {
			return err
		}
	case len(args) == 1:
		dir = args[0]
	}

	// Clone Git URLs first; the temp dir goes away when we return
	if isGitURL(dir) {
		tempDir, err := cloneGitRepo(ctx, dir, logger)
		if err != nil {
			return err
		}
		defer func() {
			logger.Debug("removing temporary directory", zap.String("dir", tempDir))
			_ = os.RemoveAll(tempDir)
		}()
		dir = tempDir
	}

	opts := ScanOptions{
		Policy:     policy,
		Includes:   parsePatterns(cfg.Include),
		Excludes:   parsePatterns(cfg.Exclude),
		ShowHidden: cfg.Hidden,
		NoIgnore:   cfg.NoIgnore,
		MaxDepth:   cfg.MaxDepth,
		Logger:     logger,
	}

	// Language labels are optional, a missing languages.yml is fine
	if path, err := findLanguageFile(languageSearchPaths()); err == nil {
		langs, err := loadLanguageFile(path)
		if err != nil {
			logger.Warn("could not load language definitions", zap.Error(err))
		} else {
			logger.Debug("loaded language definitions", zap.String("path", path), zap.Int("languages", len(langs.Langs)))
			opts.Languages = langs
		}
	}

	if cfg.Tokens {
		tk, err := newTokenizer(cfg.Model, logger)
		if err != nil {
			return fmt.Errorf("error initializing tokenizer: %w", err)
		}
		opts.Tokenizer = tk
	}

	// --- Main Logic ---
	report, err := ScanDirectory(ctx, dir, opts)
	if err != nil {
		return err
	}

	// PDF takes priority over the text/yaml destinations
	if cfg.PDF != "" {
		return generatePDF(report, cfg.PDF, logger)
	}

	output, err := renderReport(report, cfg.Format, cfg.Tokens)
	if err != nil {
		return err
	}
	return writeReport(output, outputTarget{File: cfg.File, Clipboard: cfg.Clipboard}, cmd.OutOrStdout(), logger)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/loc/config.toml)")

	flags := rootCmd.Flags()
	flags.String("entries", string(PolicyError), "What to do with entries that are not text files: error, skip, or recurse")
	flags.StringP("include", "i", "", "Only count files matching these patterns (comma-separated, e.g. *.rs,*.go)")
	flags.StringP("exclude", "e", "", "Do not count files matching these patterns (comma-separated)")
	flags.BoolP("hidden", "H", false, "Count hidden files and directories when recursing")
	flags.Bool("no-ignore", false, "Don't respect .gitignore when recursing")
	flags.Int("max-depth", 0, "Maximum directory depth when recursing (0 for no limit)")
	flags.StringP("format", "o", "text", "Output format: text or yaml")
	flags.StringP("file", "f", "", "Save output to specified file")
	flags.BoolP("clipboard", "c", false, "Copy output to clipboard")
	flags.String("pdf", "", "Save the report as PDF")
	flags.Bool("tokens", false, "Also count tiktoken tokens per file")
	flags.String("model", defaultTiktokenModel, "Model name for the tokenizer")
	flags.Bool("interactive", false, "Pick the directory with a fuzzy finder")
	flags.BoolP("verbose", "v", false, "Log diagnostics to stderr")

	bindFlags(viper.GetViper(), rootCmd)
}

// bindFlags binds every flag to a snake_case viper key.
func bindFlags(v *viper.Viper, cmd *cobra.Command) {
	for _, name := range []string{
		"entries", "include", "exclude", "hidden", "no-ignore", "max-depth",
		"format", "file", "clipboard", "pdf", "tokens", "model", "interactive", "verbose",
	} {
		cobra.CheckErr(v.BindPFlag(strings.ReplaceAll(name, "-", "_"), cmd.Flags().Lookup(name)))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "loc"))
		}
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("toml")
	}

	// A .env in the working directory may carry LOC_* settings.
	_ = godotenv.Load()
	viper.SetEnvPrefix("LOC")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv() // LOC_ENTRIES, LOC_MAX_DEPTH, ...

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "Error reading config file: %s\n", err)
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
