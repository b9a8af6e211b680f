package model

import "time"

// Config is the complete claimcheck configuration. It is built once at
// startup and handed by pointer to every component constructor.
type Config struct {
	LLM          LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Sources      SourcesConfig     `yaml:"sources" mapstructure:"sources"`
	HTTP         HTTPConfig        `yaml:"http" mapstructure:"http"`
	Cache        CacheConfig       `yaml:"cache" mapstructure:"cache"`
	RateLimiting RateLimitConfig   `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Credibility  CredibilityConfig `yaml:"credibility" mapstructure:"credibility"`
	Store        StoreConfig       `yaml:"store" mapstructure:"store"`
	Batch        BatchConfig       `yaml:"batch" mapstructure:"batch"`
	Output       OutputConfig      `yaml:"output" mapstructure:"output"`
}

// LLMConfig selects the model used for decomposition and scoring
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // openai, anthropic, ollama, "" (disabled)
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// SourcesConfig holds per-adapter credentials and endpoints
type SourcesConfig struct {
	Web    WebSearchConfig    `yaml:"web" mapstructure:"web"`
	News   NewsSearchConfig   `yaml:"news" mapstructure:"news"`
	Social SocialSearchConfig `yaml:"social" mapstructure:"social"`
}

// WebSearchConfig configures the Google Custom Search adapter
type WebSearchConfig struct {
	APIKey   string `yaml:"api_key,omitempty" mapstructure:"api_key"`
	EngineID string `yaml:"engine_id,omitempty" mapstructure:"engine_id"`
	BaseURL  string `yaml:"base_url" mapstructure:"base_url"`
}

// NewsSearchConfig configures the NewsAPI adapter
type NewsSearchConfig struct {
	APIKey   string `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL  string `yaml:"base_url" mapstructure:"base_url"`
	Language string `yaml:"language" mapstructure:"language"`
}

// SocialSearchConfig configures the Reddit adapter
type SocialSearchConfig struct {
	Enabled       bool   `yaml:"enabled" mapstructure:"enabled"`
	BaseURL       string `yaml:"base_url" mapstructure:"base_url"`
	RespectRobots bool   `yaml:"respect_robots" mapstructure:"respect_robots"`
}

// HTTPConfig configures outbound HTTP for evidence retrieval
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`               // Primary fetches (search APIs)
	ScrapeTimeout time.Duration `yaml:"scrape_timeout" mapstructure:"scrape_timeout"` // Secondary scrapes (public endpoints)
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	MaxRetries    int           `yaml:"max_retries" mapstructure:"max_retries"`
	HTTPProxy     string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy       string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// CacheConfig configures the evidence result cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
	Dir       string        `yaml:"dir" mapstructure:"dir"` // Empty keeps the cache in memory only
}

// RateLimitConfig bounds request rate per upstream host
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// CredibilityConfig drives evidence filtering and tiering
type CredibilityConfig struct {
	Denylist         []string `yaml:"denylist" mapstructure:"denylist"`
	PrimaryDomains   []string `yaml:"primary_domains" mapstructure:"primary_domains"`
	SecondaryDomains []string `yaml:"secondary_domains" mapstructure:"secondary_domains"`
}

// StoreConfig locates the claim and verification database
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// BatchConfig configures batch verification runs
type BatchConfig struct {
	Limit    int           `yaml:"limit" mapstructure:"limit"`
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
}

// OutputConfig configures CLI rendering
type OutputConfig struct {
	Format  string `yaml:"format" mapstructure:"format"` // yaml or json
	Verbose bool   `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns sensible defaults. Credentials are empty, so every
// model-backed or keyed stage starts out degraded until configured.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:  "openai",
			Model:     "gpt-3.5-turbo",
			Timeout:   30,
			MaxTokens: 600,
		},
		Sources: SourcesConfig{
			Web: WebSearchConfig{
				BaseURL: "https://www.googleapis.com/customsearch/v1",
			},
			News: NewsSearchConfig{
				BaseURL:  "https://newsapi.org/v2/everything",
				Language: "en",
			},
			Social: SocialSearchConfig{
				Enabled: true,
				BaseURL: "https://www.reddit.com",
			},
		},
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			ScrapeTimeout: 15 * time.Second,
			UserAgent:     "MisinfoAgent/1.0 (claimcheck)",
			MaxBodyBytes:  2_000_000,
			MaxRetries:    3,
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		RateLimiting: RateLimitConfig{
			RequestsPerSecond: 2,
			BurstSize:         5,
		},
		Credibility: CredibilityConfig{
			Denylist: []string{
				"r/WritingPrompts", "r/memes", "r/jokes", "r/fakehistoryporn",
				"r/aliens", "r/conspiracy", "The Onion", "theonion.com",
				"Babylon Bee", "babylonbee.com",
			},
			PrimaryDomains: []string{
				"who.int", "cdc.gov", "nih.gov", "nasa.gov", "europa.eu",
				"snopes.com", "politifact.com", "factcheck.org", "fullfact.org",
			},
			SecondaryDomains: []string{
				"reuters.com", "apnews.com", "bbc.co.uk", "bbc.com",
				"nytimes.com", "theguardian.com", "washingtonpost.com",
				"britannica.com", "wikipedia.org", "nature.com",
			},
		},
		Store: StoreConfig{
			Path: "claimcheck.db",
		},
		Batch: BatchConfig{
			Limit:    50,
			Interval: 10 * time.Minute,
		},
		Output: OutputConfig{
			Format: "yaml",
		},
	}
}
