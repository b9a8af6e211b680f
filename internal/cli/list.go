package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/claimcheck/internal/model"
)

var (
	listFlags    runtimeFlags
	claimsLimit  int
	resultsLimit int
	listStatus   string
	resultsClaim string
)

var claimsCmd = &cobra.Command{
	Use:   "claims",
	Short: "List stored claims",
	Long: `List stored claims, most recently extracted first.

Example:
  claimcheck claims
  claimcheck claims --status unverified --limit 10`,
	Args: cobra.NoArgs,
	RunE: runClaims,
}

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "List recorded verification results",
	Long: `List recorded verification results, newest first.

Example:
  claimcheck results --limit 5
  claimcheck results --claim-id 3f0c... --format json`,
	Args: cobra.NoArgs,
	RunE: runResults,
}

func init() {
	rootCmd.AddCommand(claimsCmd)
	rootCmd.AddCommand(resultsCmd)

	claimsCmd.Flags().IntVar(&claimsLimit, "limit", 50, "maximum claims to list")
	claimsCmd.Flags().StringVar(&listStatus, "status", "", "only claims with this status (unverified, true, false, mixture)")
	claimsCmd.Flags().StringVar(&listFlags.format, "format", "", "output format: yaml or json")
	claimsCmd.Flags().StringVar(&listFlags.storePath, "store", "", "claim database path override")

	resultsCmd.Flags().IntVar(&resultsLimit, "limit", 20, "maximum results to list")
	resultsCmd.Flags().StringVar(&resultsClaim, "claim-id", "", "only results for this claim")
	resultsCmd.Flags().StringVar(&listFlags.format, "format", "", "output format: yaml or json")
	resultsCmd.Flags().StringVar(&listFlags.storePath, "store", "", "claim database path override")
}

func runClaims(cmd *cobra.Command, args []string) error {
	a, err := newApp(&listFlags)
	if err != nil {
		return err
	}
	defer a.close()

	s, err := a.store()
	if err != nil {
		return err
	}
	defer s.Close()

	var claims []model.Claim
	if listStatus != "" {
		status, err := model.ParseVerdict(listStatus)
		if err != nil {
			return err
		}
		claims, err = s.FindByStatus(cmd.Context(), status, claimsLimit)
		if err != nil {
			return err
		}
	} else {
		claims, err = s.ListClaims(cmd.Context(), claimsLimit)
		if err != nil {
			return err
		}
	}

	if len(claims) == 0 {
		fmt.Fprintln(os.Stderr, "No claims stored")
		return nil
	}
	return render(os.Stdout, claims, a.cfg.Output.Format)
}

func runResults(cmd *cobra.Command, args []string) error {
	a, err := newApp(&listFlags)
	if err != nil {
		return err
	}
	defer a.close()

	s, err := a.store()
	if err != nil {
		return err
	}
	defer s.Close()

	var results []model.VerificationResult
	if resultsClaim != "" {
		results, err = s.VerificationsForClaim(cmd.Context(), resultsClaim)
	} else {
		results, err = s.ListVerifications(cmd.Context(), resultsLimit)
	}
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Fprintln(os.Stderr, "No results recorded")
		return nil
	}
	return render(os.Stdout, results, a.cfg.Output.Format)
}
