package sources

import "testing"

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "already plain", "already plain"},
		{"highlight tags", "Elon <b>Musk</b> is <b>human</b>", "Elon Musk is human"},
		{"entities", "It&#39;s &quot;false&quot; &amp; misleading", `It's "false" & misleading`},
		{"whitespace", "  line one\n\n  line\ttwo  ", "line one line two"},
		{"script dropped", "<p>keep</p><script>var x = 1;</script><p>this</p>", "keep this"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PlainText(tt.in); got != tt.want {
				t.Errorf("PlainText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := truncateRunes("short", 10); got != "short" {
		t.Errorf("Expected unchanged string, got %q", got)
	}
	if got := truncateRunes("héllo world", 5); got != "héllo…" {
		t.Errorf("Expected rune-safe truncation, got %q", got)
	}
}
