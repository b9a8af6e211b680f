package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/claimcheck/internal/model"
)

var (
	verifyFlags   runtimeFlags
	verifyClaimID string
	verifySave    bool
	verifyTimeout time.Duration
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify [claim]",
	Short: "Verify a single claim",
	Long: `Verify runs the full pipeline for one claim:
- Split the claim into up to four search queries
- Gather evidence from every configured source
- Score the claim with the configured model (or the keyword heuristic)
- Drop satire and joke sources from the displayed evidence

The result is printed to stdout. Ad-hoc claims are not stored unless --save
is given; --claim-id verifies a stored claim and records the result.

Example:
  claimcheck verify "Elon Musk is alien"
  claimcheck verify "5G towers cause illness" --format json
  claimcheck verify --claim-id 3f0c... --llm-provider anthropic`,
	Args: cobra.MaximumNArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringVar(&verifyClaimID, "claim-id", "", "verify a stored claim and record the result")
	verifyCmd.Flags().BoolVar(&verifySave, "save", false, "store an ad-hoc claim and its result")
	verifyCmd.Flags().DurationVar(&verifyTimeout, "timeout", 3*time.Minute, "overall verification timeout")
	addRuntimeFlags(verifyCmd, &verifyFlags)
}

func addRuntimeFlags(cmd *cobra.Command, f *runtimeFlags) {
	cmd.Flags().StringVar(&f.format, "format", "", "output format: yaml or json (default from config)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the evidence cache")
	cmd.Flags().StringVar(&f.llmProvider, "llm-provider", "", "model provider override (openai, anthropic, ollama, none)")
	cmd.Flags().StringVar(&f.llmModel, "llm-model", "", "model name override")
	cmd.Flags().StringVar(&f.storePath, "store", "", "claim database path override")
}

func runVerify(cmd *cobra.Command, args []string) error {
	if (len(args) == 0) == (verifyClaimID == "") {
		return fmt.Errorf("provide either a claim or --claim-id")
	}

	a, err := newApp(&verifyFlags)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := context.WithTimeout(cmd.Context(), verifyTimeout)
	defer cancel()

	p, err := a.pipeline()
	if err != nil {
		return err
	}

	// Ad-hoc claim, printed only
	if verifyClaimID == "" && !verifySave {
		text := strings.TrimSpace(args[0])
		if verbose {
			fmt.Fprintf(os.Stderr, "Verifying: %s\n", text)
		}
		result := p.Verify(ctx, text)
		return render(os.Stdout, result, a.cfg.Output.Format)
	}

	s, err := a.store()
	if err != nil {
		return err
	}
	defer s.Close()

	var claim model.Claim
	if verifyClaimID != "" {
		claim, err = s.GetClaim(ctx, verifyClaimID)
		if err != nil {
			return err
		}
	} else {
		claim = model.Claim{Text: strings.TrimSpace(args[0]), RawID: "manual"}
		created, err := s.InsertClaim(ctx, &claim)
		if err != nil {
			return err
		}
		if !created {
			return fmt.Errorf("claim already stored; use 'claimcheck claims' to find its ID and verify with --claim-id")
		}
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Verifying claim %s: %s\n", claim.ID, claim.Text)
	}

	result := p.Verify(ctx, claim.Text)
	result.ClaimID = claim.ID

	if err := s.InsertVerification(ctx, &result); err != nil {
		return err
	}
	if err := s.UpdateStatus(ctx, claim.ID, result.Verdict); err != nil {
		return err
	}

	return render(os.Stdout, result, a.cfg.Output.Format)
}
