package cli

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/rcliao/notesuggest/internal/eval"
	"github.com/rcliao/notesuggest/internal/metrics"
)

func init() {
	cmd := &cobra.Command{
		Use:   "eval <corpus.toml>",
		Short: "Evaluate the pipeline against an annotated corpus",
		Long:  "Run every [[case]] of a TOML corpus through the pipeline and report which expectations fail. Exits 1 when any case fails.",
		Args:  cobra.ExactArgs(1),
		Run:   runEval,
	}

	cmd.Flags().IntP("concurrency", "j", 0, "Cases evaluated in parallel (default: eval_concurrency from config)")
	cmd.Flags().Bool("failures-only", false, "Only list failing cases")
	cmd.Flags().String("metrics-file", "", "Write Prometheus metrics in text format to this file")

	RootCmd.AddCommand(cmd)
}

func runEval(cmd *cobra.Command, args []string) {
	cfg := loadConfig(cmd)
	cfg.EnableDebug = true
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	if concurrency <= 0 {
		concurrency = cfg.EvalConcurrency
	}
	failuresOnly, _ := cmd.Flags().GetBool("failures-only")
	metricsFile, _ := cmd.Flags().GetString("metrics-file")

	logger := newLogger(cfg)
	defer logger.Sync()

	corpus, err := eval.LoadCorpus(fs, args[0])
	if err != nil {
		exitErr("load corpus", err)
	}

	reg := prometheus.NewRegistry()
	runner := eval.NewRunner(newGenerator(cfg, logger, metrics.New(reg)), concurrency, logger)
	rep, err := runner.Run(cmd.Context(), corpus)
	if err != nil {
		exitErr("eval", err)
	}
	writeMetrics(metricsFile, reg)

	if failuresOnly {
		var failed []eval.CaseResult
		for _, c := range rep.Cases {
			if !c.Passed {
				failed = append(failed, c)
			}
		}
		rep.Cases = failed
	}
	printOut(rep)

	if rep.Failed > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d cases failed\n", rep.Failed, rep.Total)
		os.Exit(1)
	}
}
