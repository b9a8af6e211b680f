package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/claimcheck/internal/extract"
	"github.com/ppiankov/claimcheck/internal/model"
	"github.com/ppiankov/claimcheck/internal/sources"
	"github.com/ppiankov/claimcheck/internal/worker"
)

var (
	extractFlags  runtimeFlags
	extractDryRun bool
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <file|url|->",
	Short: "Extract candidate claims from an article",
	Long: `Extract picks sentences that look like checkable claims out of an
article and stores them as unverified claims. The input may be a local
HTML or text file, an http(s) URL, or "-" for stdin.

Claims whose text is already stored are skipped.

Example:
  claimcheck extract https://example.com/article
  claimcheck extract article.html --dry-run
  cat post.txt | claimcheck extract -`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().BoolVar(&extractDryRun, "dry-run", false, "print candidates without storing them")
	addRuntimeFlags(extractCmd, &extractFlags)
}

func runExtract(cmd *cobra.Command, args []string) error {
	a, err := newApp(&extractFlags)
	if err != nil {
		return err
	}
	defer a.close()

	source := args[0]
	ctx := cmd.Context()

	content, isHTML, err := readSource(ctx, a.cfg, source)
	if err != nil {
		return err
	}

	extractor := extract.NewClaimExtractor()
	var candidates []extract.Candidate
	if isHTML {
		candidates, err = extractor.ExtractHTML(content)
		if err != nil {
			return fmt.Errorf("parse %s: %w", source, err)
		}
	} else {
		candidates = extractor.ExtractText(content)
	}

	if extractDryRun || len(candidates) == 0 {
		if len(candidates) == 0 {
			fmt.Fprintf(os.Stderr, "No candidate claims found in %s\n", source)
			return nil
		}
		return render(os.Stdout, candidates, a.cfg.Output.Format)
	}

	s, err := a.store()
	if err != nil {
		return err
	}
	defer s.Close()

	stored := make([]model.Claim, 0, len(candidates))
	skipped := 0
	for _, c := range candidates {
		claim := model.Claim{Text: c.Text, RawID: source}
		created, err := s.InsertClaim(ctx, &claim)
		if err != nil {
			return err
		}
		if !created {
			skipped++
			continue
		}
		stored = append(stored, claim)
	}

	fmt.Fprintf(os.Stderr, "✓ Stored %d claims from %s (%d already known)\n", len(stored), source, skipped)
	return render(os.Stdout, stored, a.cfg.Output.Format)
}

// readSource loads the article and reports whether it should be parsed as HTML
func readSource(ctx context.Context, cfg *model.Config, source string) (string, bool, error) {
	switch {
	case source == "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", false, fmt.Errorf("read stdin: %w", err)
		}
		return string(data), looksLikeHTML(string(data)), nil

	case strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://"):
		_, scrape := sources.NewFetchers(cfg, worker.NewLimiterFromConfig(cfg.RateLimiting))
		ctx, cancel := context.WithTimeout(ctx, cfg.HTTP.ScrapeTimeout+5*time.Second)
		defer cancel()

		header := http.Header{}
		header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9")
		body, err := scrape.GetWithRetry(ctx, source, header)
		if err != nil {
			return "", false, fmt.Errorf("fetch %s: %w", source, err)
		}
		return string(body), true, nil

	default:
		data, err := os.ReadFile(source)
		if err != nil {
			return "", false, fmt.Errorf("read %s: %w", source, err)
		}
		lower := strings.ToLower(source)
		isHTML := strings.HasSuffix(lower, ".html") || strings.HasSuffix(lower, ".htm") || looksLikeHTML(string(data))
		return string(data), isHTML, nil
	}
}

func looksLikeHTML(s string) bool {
	head := strings.ToLower(strings.TrimSpace(s))
	if len(head) > 512 {
		head = head[:512]
	}
	return strings.HasPrefix(head, "<!doctype html") || strings.HasPrefix(head, "<html") ||
		strings.Contains(head, "<body") || strings.Contains(head, "<p>")
}
