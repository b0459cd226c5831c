// Package cli implements the notesuggest CLI commands.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/rcliao/notesuggest/internal/config"
	"github.com/rcliao/notesuggest/internal/logging"
	"github.com/rcliao/notesuggest/internal/store"
)

var (
	dbPath     string
	formatFlag string
	configPath string
)

// fs is the filesystem note and corpus files are read from.
var fs afero.Fs = afero.NewOsFs()

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "notesuggest",
	Short: "Turn meeting notes into project updates and ideas",
	Long:  "A rule-driven pipeline that reads meeting notes and suggests initiative updates and new ideas, with every suggestion grounded in the note text.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $NOTESUGGEST_DB or ~/.notesuggest/notesuggest.db)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or yaml")
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (default: $NOTESUGGEST_CONFIG)")
	RootCmd.PersistentFlags().String("log-level", "", "Log level override: debug, info, warn, error")
}

func getDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	if env := os.Getenv("NOTESUGGEST_DB"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".notesuggest", "notesuggest.db")
}

func openStore() (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(getDBPath())
}

func loadConfig(cmd *cobra.Command) *config.GeneratorConfig {
	path := configPath
	if path == "" {
		path = os.Getenv("NOTESUGGEST_CONFIG")
	}
	cfg, err := config.Load(path)
	if err != nil {
		exitErr("load config", err)
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Log.Level = lvl
	}
	return cfg
}

func newLogger(cfg *config.GeneratorConfig) *zap.Logger {
	logger, err := logging.New(cfg.Log)
	if err != nil {
		exitErr("create logger", err)
	}
	return logger
}

// readInput returns the contents of the named file, or stdin when no file
// is given or the name is "-".
func readInput(args []string) (string, string) {
	if len(args) > 0 && args[0] != "-" {
		b, err := afero.ReadFile(fs, args[0])
		if err != nil {
			exitErr("read input", err)
		}
		return string(b), args[0]
	}
	stat, _ := os.Stdin.Stat()
	if (stat.Mode() & os.ModeCharDevice) != 0 {
		exitErr("read input", fmt.Errorf("no input file given and stdin is a terminal"))
	}
	b, err := io.ReadAll(os.Stdin)
	if err != nil {
		exitErr("read stdin", err)
	}
	return string(b), ""
}

// printOut writes v as indented JSON, or as YAML with the same keys.
func printOut(v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		exitErr("encode output", err)
	}
	switch strings.ToLower(formatFlag) {
	case "json", "":
		fmt.Println(string(b))
	case "yaml", "yml":
		var generic any
		if err := json.Unmarshal(b, &generic); err != nil {
			exitErr("encode output", err)
		}
		out, err := yaml.Marshal(generic)
		if err != nil {
			exitErr("encode output", err)
		}
		fmt.Print(string(out))
	default:
		exitErr("encode output", fmt.Errorf("unknown format %q (valid: json, yaml)", formatFlag))
	}
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
