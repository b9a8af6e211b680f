package cli

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/claimcheck/internal/model"
	"github.com/ppiankov/claimcheck/internal/pipeline"
	"github.com/ppiankov/claimcheck/internal/store"
)

// runtimeFlags are overrides shared by the commands that verify claims
type runtimeFlags struct {
	format      string
	noCache     bool
	llmProvider string
	llmModel    string
	storePath   string
}

func (f *runtimeFlags) apply(cfg *model.Config) {
	if f.format != "" {
		cfg.Output.Format = f.format
	}
	if f.noCache {
		cfg.Cache.Enabled = false
	}
	if f.llmProvider != "" && !strings.EqualFold(f.llmProvider, cfg.LLM.Provider) {
		// Credentials in the config belong to the previous provider
		cfg.LLM.Provider = f.llmProvider
		cfg.LLM.APIKey = ""
		cfg.LLM.BaseURL = ""
		applyProviderEnv(cfg, os.Getenv)
	}
	if f.llmModel != "" {
		cfg.LLM.Model = f.llmModel
	}
	if f.storePath != "" {
		cfg.Store.Path = f.storePath
	}
	cfg.Output.Verbose = cfg.Output.Verbose || verbose
}

// app bundles what a command needs to run
type app struct {
	cfg    *model.Config
	logger *zap.Logger
}

func newApp(flags *runtimeFlags) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if flags != nil {
		flags.apply(cfg)
	}

	logger, err := newLogger(cfg.Output.Verbose)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, logger: logger}, nil
}

func (a *app) pipeline() (*pipeline.Pipeline, error) {
	p, err := pipeline.New(a.cfg, a.logger)
	if err != nil {
		return nil, fmt.Errorf("create pipeline: %w", err)
	}
	return p, nil
}

func (a *app) store() (*store.Store, error) {
	s, err := store.Open(a.cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", a.cfg.Store.Path, err)
	}
	return s, nil
}

func (a *app) close() {
	_ = a.logger.Sync()
}
