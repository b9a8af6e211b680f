package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/claimcheck/internal/model"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage claimcheck configuration",
	Long: `Manage claimcheck configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (CLAIMCHECK_*, OPENAI_API_KEY, NEWSAPI_KEY, ...)
3. Config file (~/.claimcheck/config.yaml)
4. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective configuration after merging defaults, config file and environment. Credentials are masked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		configFile := viper.ConfigFileUsed()
		if configFile != "" {
			fmt.Fprintf(os.Stderr, "Configuration file: %s\n\n", configFile)
		} else {
			fmt.Fprintf(os.Stderr, "No configuration file found (using defaults)\n\n")
		}

		yamlData, err := yaml.Marshal(maskSecrets(*cfg))
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}
		fmt.Println(string(yamlData))

		fmt.Fprintln(os.Stderr, "Configuration hierarchy (highest to lowest priority):")
		fmt.Fprintln(os.Stderr, "  1. CLI flags")
		fmt.Fprintln(os.Stderr, "  2. Environment variables (CLAIMCHECK_*, OPENAI_API_KEY, ANTHROPIC_API_KEY,")
		fmt.Fprintln(os.Stderr, "     OLLAMA_BASE_URL, NEWSAPI_KEY, GOOGLE_CSE_API_KEY, GOOGLE_CSE_ID)")
		fmt.Fprintln(os.Stderr, "  3. Config file (~/.claimcheck/config.yaml)")
		fmt.Fprintln(os.Stderr, "  4. Defaults")

		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize default configuration file",
	Long:  `Create a default configuration file at ~/.claimcheck/config.yaml with all available options.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		dir, err := configDir()
		if err != nil {
			return err
		}
		configPath := filepath.Join(dir, "config.yaml")

		// Check if config already exists
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("config file already exists: %s\nUse 'claimcheck config show' to view it, or delete it first to recreate", configPath)
		}

		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("error creating config directory: %w", err)
		}

		defaults := model.DefaultConfig()
		defaults.Store.Path = filepath.Join(dir, "claimcheck.db")
		defaults.Cache.Dir = filepath.Join(dir, "cache")

		yamlData, err := yaml.Marshal(defaults)
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}

		var b strings.Builder
		b.WriteString("# claimcheck configuration file\n")
		b.WriteString("#\n")
		b.WriteString("# Configuration hierarchy (highest to lowest priority):\n")
		b.WriteString("#   1. CLI flags\n")
		b.WriteString("#   2. Environment variables (CLAIMCHECK_*)\n")
		b.WriteString("#   3. This config file\n")
		b.WriteString("#   4. Built-in defaults\n\n")
		b.Write(yamlData)
		b.WriteString("\n# API keys (recommended to use environment variables instead):\n")
		b.WriteString("#   export OPENAI_API_KEY=sk-...\n")
		b.WriteString("#   export ANTHROPIC_API_KEY=sk-ant-...\n")
		b.WriteString("#   export OLLAMA_BASE_URL=http://localhost:11434\n")
		b.WriteString("#   export NEWSAPI_KEY=...\n")
		b.WriteString("#   export GOOGLE_CSE_API_KEY=... GOOGLE_CSE_ID=...\n")

		if err := os.WriteFile(configPath, []byte(b.String()), 0o600); err != nil {
			return fmt.Errorf("error writing config: %w", err)
		}

		fmt.Printf("✓ Created default configuration: %s\n", configPath)
		fmt.Printf("\nTo view the configuration:\n")
		fmt.Printf("  claimcheck config show\n")
		fmt.Printf("\nTo customize, edit the file with your preferred editor:\n")
		fmt.Printf("  $EDITOR %s\n\n", configPath)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}

// bindEnv maps well-known credential variables onto config keys
func bindEnv() {
	_ = viper.BindEnv("llm.provider")
	_ = viper.BindEnv("llm.model")
	_ = viper.BindEnv("llm.api_key")
	_ = viper.BindEnv("llm.base_url")
	_ = viper.BindEnv("sources.web.api_key", "CLAIMCHECK_SOURCES_WEB_API_KEY", "GOOGLE_CSE_API_KEY")
	_ = viper.BindEnv("sources.web.engine_id", "CLAIMCHECK_SOURCES_WEB_ENGINE_ID", "GOOGLE_CSE_ID")
	_ = viper.BindEnv("sources.news.api_key", "CLAIMCHECK_SOURCES_NEWS_API_KEY", "NEWSAPI_KEY")
	_ = viper.BindEnv("sources.social.enabled")
	_ = viper.BindEnv("store.path")
	_ = viper.BindEnv("cache.dir")
	_ = viper.BindEnv("http.http_proxy", "CLAIMCHECK_HTTP_HTTP_PROXY", "HTTP_PROXY")
	_ = viper.BindEnv("http.https_proxy", "CLAIMCHECK_HTTP_HTTPS_PROXY", "HTTPS_PROXY")
	_ = viper.BindEnv("http.no_proxy", "CLAIMCHECK_HTTP_NO_PROXY", "NO_PROXY")
}

// loadConfig builds the effective configuration: defaults overlaid by the
// config file and environment
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	applyProviderEnv(cfg, os.Getenv)
	return cfg, nil
}

// applyProviderEnv fills the model credential from the provider's own
// environment variable when the config leaves it empty
func applyProviderEnv(cfg *model.Config, getenv func(string) string) {
	switch strings.ToLower(cfg.LLM.Provider) {
	case "openai":
		if cfg.LLM.APIKey == "" {
			cfg.LLM.APIKey = getenv("OPENAI_API_KEY")
		}
	case "anthropic", "claude":
		if cfg.LLM.APIKey == "" {
			cfg.LLM.APIKey = getenv("ANTHROPIC_API_KEY")
		}
		if cfg.LLM.Model == "gpt-3.5-turbo" {
			// The default model belongs to OpenAI
			cfg.LLM.Model = ""
		}
	case "ollama":
		if cfg.LLM.BaseURL == "" {
			cfg.LLM.BaseURL = getenv("OLLAMA_BASE_URL")
		}
		if cfg.LLM.Model == "gpt-3.5-turbo" {
			cfg.LLM.Model = getenv("OLLAMA_MODEL")
		}
	}
}

// maskSecrets returns a copy of cfg safe to print
func maskSecrets(cfg model.Config) model.Config {
	mask := func(s string) string {
		if s == "" {
			return ""
		}
		if len(s) <= 8 {
			return "****"
		}
		return s[:4] + "****" + s[len(s)-2:]
	}
	cfg.LLM.APIKey = mask(cfg.LLM.APIKey)
	cfg.Sources.Web.APIKey = mask(cfg.Sources.Web.APIKey)
	cfg.Sources.News.APIKey = mask(cfg.Sources.News.APIKey)
	return cfg
}
