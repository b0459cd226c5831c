package cli

import (
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rcliao/notesuggest/internal/config"
	"github.com/rcliao/notesuggest/internal/embedding"
	"github.com/rcliao/notesuggest/internal/llm"
	"github.com/rcliao/notesuggest/internal/metrics"
	"github.com/rcliao/notesuggest/internal/model"
	"github.com/rcliao/notesuggest/internal/pipeline"
	"github.com/rcliao/notesuggest/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "generate [file]",
		Short: "Generate suggestions for a note",
		Long:  "Generate suggestions for a meeting note read from a file or stdin. With --store, initiatives are loaded from the database for routing and suggestions already decided for the note are hidden.",
		Args:  cobra.MaximumNArgs(1),
		Run:   runGenerate,
	}

	cmd.Flags().String("note-id", "", "Note id (default: file name without extension, or \"stdin\")")
	cmd.Flags().Bool("store", false, "Route against stored initiatives and hide decided suggestions")
	cmd.Flags().Bool("debug", false, "Include per-stage debug info")
	cmd.Flags().Int("max", -1, "Override max_suggestions (0 means unlimited)")
	cmd.Flags().String("metrics-file", "", "Write Prometheus metrics in text format to this file")

	RootCmd.AddCommand(cmd)
}

func runGenerate(cmd *cobra.Command, args []string) {
	cfg := loadConfig(cmd)
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.EnableDebug = true
	}
	if maxN, _ := cmd.Flags().GetInt("max"); maxN >= 0 {
		cfg.MaxSuggestions = maxN
	}
	useStore, _ := cmd.Flags().GetBool("store")
	metricsFile, _ := cmd.Flags().GetString("metrics-file")

	logger := newLogger(cfg)
	defer logger.Sync()

	text, name := readInput(args)
	noteID, _ := cmd.Flags().GetString("note-id")
	if noteID == "" {
		noteID = defaultNoteID(name)
	}

	reg := prometheus.NewRegistry()
	gen := newGenerator(cfg, logger, metrics.New(reg))

	var initiatives []model.InitiativeSnapshot
	var st *store.SQLiteStore
	if useStore {
		var err error
		st, err = openStore()
		if err != nil {
			exitErr("open store", err)
		}
		defer st.Close()
		initiatives, err = st.ListInitiatives(cmd.Context())
		if err != nil {
			exitErr("list initiatives", err)
		}
	}

	res := gen.Generate(cmd.Context(), model.NoteInput{NoteID: noteID, RawText: text, Source: name}, initiatives)
	if st != nil {
		var err error
		res.Suggestions, err = st.FilterUndecided(cmd.Context(), noteID, res.Suggestions)
		if err != nil {
			exitErr("filter decided", err)
		}
	}
	writeMetrics(metricsFile, reg)
	printOut(res)
}

// newGenerator wires the optional LLM classifier and embedding similarity
// from cfg. A provider that cannot be built is logged and skipped; the
// pipeline then runs on rules alone.
func newGenerator(cfg *config.GeneratorConfig, logger *zap.Logger, m *metrics.Metrics) *pipeline.Generator {
	opts := []pipeline.Option{pipeline.WithLogger(logger), pipeline.WithMetrics(m)}

	if cfg.UseLLMClassifiers {
		c, err := llm.New(cfg.LLM)
		if err != nil {
			logger.Warn("llm classifier disabled", zap.Error(err))
		} else {
			opts = append(opts, pipeline.WithIntentProvider(c))
		}
	}
	if cfg.EmbeddingEnabled {
		e, err := embedding.New(cfg.Embedding)
		switch {
		case err != nil:
			logger.Warn("embedding similarity disabled", zap.Error(err))
		case e != nil:
			opts = append(opts, pipeline.WithSimilarity(embedding.NewSimilarity(e)))
		}
	}
	return pipeline.New(*cfg, opts...)
}

func writeMetrics(path string, g prometheus.Gatherer) {
	if path == "" {
		return
	}
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		exitErr("write metrics", err)
	}
}

func defaultNoteID(name string) string {
	if name == "" {
		return "stdin"
	}
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
