package score

import "fmt"

const systemPrompt = "You are a strict, logical fact-checker."

const promptTemplate = `Assess the following claim against the evidence.

Claim: %q

Evidence (source, credibility tier, title - snippet):
%s

Instructions:
1. Weigh the evidence. Is there a consensus among reliable sources?
2. If the claim contradicts established biological or physical fact (e.g. "person is alien", "earth is flat") and no credible source backs it, the verdict is FALSE; say so if it originates from satire.
3. Discount sources tagged satire and joke or fiction communities (e.g. r/WritingPrompts, r/memes, satire sites) for factual claims.
4. Choose a verdict: TRUE, FALSE, MIXTURE or UNVERIFIED.
5. Give a confidence between 0.0 and 1.0.
6. Write a concise summary of your reasoning.

Respond with JSON only:
{"verdict": "TRUE" | "FALSE" | "MIXTURE" | "UNVERIFIED", "confidence": 0.0, "summary": "..."}`

func buildPrompt(claimText, digest string) string {
	return fmt.Sprintf(promptTemplate, claimText, digest)
}
