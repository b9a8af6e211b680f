package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/claimcheck/internal/model"
	"github.com/ppiankov/claimcheck/internal/worker"
)

var (
	batchFlags runtimeFlags
	batchLimit int
	batchEvery time.Duration
	batchWatch bool
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Verify stored unverified claims",
	Long: `Batch verifies unverified claims from the claim store, most recently
extracted first, one claim at a time. Each result is recorded and the
verdict is written back onto the claim.

With --every (or --watch, using batch.interval from the config) the batch
repeats until interrupted.

Example:
  claimcheck batch
  claimcheck batch --limit 10
  claimcheck batch --every 10m
  claimcheck batch --watch`,
	Args: cobra.NoArgs,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "maximum claims per batch (default from config)")
	batchCmd.Flags().DurationVar(&batchEvery, "every", 0, "repeat the batch on this interval (e.g. 10m)")
	batchCmd.Flags().BoolVar(&batchWatch, "watch", false, "repeat the batch on the configured interval")
	addRuntimeFlags(batchCmd, &batchFlags)
}

func runBatch(cmd *cobra.Command, args []string) error {
	a, err := newApp(&batchFlags)
	if err != nil {
		return err
	}
	defer a.close()

	limit := batchLimit
	if limit <= 0 {
		limit = a.cfg.Batch.Limit
	}

	every := batchEvery
	if every <= 0 && batchWatch {
		every = a.cfg.Batch.Interval
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, err := a.pipeline()
	if err != nil {
		return err
	}
	s, err := a.store()
	if err != nil {
		return err
	}
	defer s.Close()

	runner := worker.NewBatchRunner(p, s, s, a.logger.Named("batch"))

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  claimcheck batch verification\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Store:        %s\n", a.cfg.Store.Path)
	fmt.Fprintf(os.Stderr, "  Limit:        %d\n", limit)
	if every > 0 {
		fmt.Fprintf(os.Stderr, "  Every:        %v\n", every)
	}
	fmt.Fprintf(os.Stderr, "\n")

	if every > 0 {
		return runner.RunEvery(ctx, every, limit, func(results []model.VerificationResult, err error) {
			if err != nil {
				fmt.Fprintf(os.Stderr, "✗ batch failed: %v\n", err)
				return
			}
			printBatchSummary(results)
		})
	}

	results, err := runner.RunBatch(ctx, limit)
	if err != nil {
		return err
	}
	printBatchSummary(results)
	return nil
}

func printBatchSummary(results []model.VerificationResult) {
	counts := make(map[model.Verdict]int)
	for _, r := range results {
		counts[r.Verdict]++
		fmt.Fprintf(os.Stderr, "✓ [%s %.2f] %s\n", r.Verdict, r.Score, truncate(r.Claim, 80))
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  %s  Verified: %d  (false %d, mixture %d, true %d, unverified %d)\n",
		time.Now().Format(time.RFC3339), len(results),
		counts[model.VerdictFalse], counts[model.VerdictMixture],
		counts[model.VerdictTrue], counts[model.VerdictUnverified])
	fmt.Fprintf(os.Stderr, "\n")
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
