package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ChamsBouzaiene/reactchain/internal/config"
	"github.com/ChamsBouzaiene/reactchain/internal/engine"
	"github.com/ChamsBouzaiene/reactchain/internal/history"
	"github.com/ChamsBouzaiene/reactchain/internal/plugin"
	"github.com/ChamsBouzaiene/reactchain/internal/prompts"
	"github.com/ChamsBouzaiene/reactchain/internal/providers"
	"github.com/ChamsBouzaiene/reactchain/internal/sandbox"
	"github.com/ChamsBouzaiene/reactchain/internal/tools"
	"github.com/ChamsBouzaiene/reactchain/internal/tools/files"
)

type runtimeEnv struct {
	Settings config.Settings
	Session  *engine.Session
	Agent    *engine.Agent
	Store    history.Store
	Prompts  *prompts.PromptRegistry
	watcher  *prompts.TemplateWatcher
}

func (r *runtimeEnv) Close() {
	if r.Agent != nil {
		r.Agent.Close()
	}
	if r.watcher != nil {
		r.watcher.Stop()
	}
	if r.Store != nil {
		if err := r.Store.Close(); err != nil {
			log.Printf("⚠️  close history: %v", err)
		}
	}
}

// loadSettings layers the user config file under the environment, then the
// command line flags over both.
func loadSettings(f rootFlags) config.Settings {
	if m, err := config.NewManager(); err != nil {
		log.Printf("⚠️  Failed to initialize config manager: %v", err)
	} else if cfg, err := m.Load(); err != nil {
		log.Printf("⚠️  Failed to load user config: %v", err)
	} else {
		config.ApplyToEnv(cfg)
	}

	if f.provider != "" {
		os.Setenv("LLM_PROVIDER", f.provider)
	}
	s := config.FromEnv()
	if f.model != "" {
		if prefix := config.ProviderEnvPrefix(s.Provider); prefix != "" {
			os.Setenv(prefix+"_MODEL", f.model)
		}
		os.Setenv("MODEL", f.model)
		s.Model = f.model
	}
	if f.maxSteps > 0 {
		s.MaxSteps = f.maxSteps
	}
	return s
}

// prepareToolEnv builds the session and its tools without a provider.
func prepareToolEnv(ctx context.Context, f rootFlags) (*runtimeEnv, error) {
	s := loadSettings(f)
	env := &runtimeEnv{Settings: s, Prompts: prompts.DefaultRegistry()}

	loaded, err := prompts.LoadDir(env.Prompts, s.PromptDir)
	if err != nil {
		return nil, fmt.Errorf("load prompt templates: %w", err)
	}
	if len(loaded) > 0 {
		log.Printf("📝 Templates loaded from %s: %s", s.PromptDir, strings.Join(loaded, ", "))
	}

	budget := engine.NewBudgeter(engine.BudgetConfig{
		TokenLimit:    s.TokenLimit,
		ResponseLimit: s.ResponseLimit,
	}, s.Model, nil)
	env.Session = engine.NewSession(engine.NewToolRegistry(), budget)

	if err := os.MkdirAll(s.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	store, err := openStore(ctx, s, env.Session.ID)
	if err != nil {
		return nil, err
	}
	recall, err := history.OpenRecall(s.RecallPath())
	if err != nil {
		log.Printf("⚠️  recall disabled: %v", err)
		recall = nil
	}
	env.Store = &history.Indexed{Store: store, Recall: recall, SessionID: env.Session.ID}

	questions, err := env.Store.LoadQuestions()
	if err != nil {
		log.Printf("⚠️  Failed to load history: %v", err)
	}
	env.Session.SetQueries(questions)

	guard, err := files.NewGuard(".")
	if err != nil {
		log.Printf("⚠️  %v (using the built-in patterns only)", err)
		guard, _ = files.NewGuard(os.TempDir())
	}

	tools.Register(tools.Options{
		Session:      env.Session,
		Installer:    plugin.NewInstaller(env.Session, env.Prompts),
		Runner:       sandbox.NewDefaultRunner(sandbox.DefaultConfig()),
		Recall:       recall,
		Guard:        guard,
		BingAPIKey:   s.BingAPIKey,
		BingEndpoint: os.Getenv("BING_ENDPOINT"),
		SnippetDir:   s.SnippetDir,
		GUI:          s.GUI,
	})
	env.Session.Tools().InitAll(ctx, func(name string, ok bool) {
		if !ok {
			log.Printf("🔌 %s unavailable, disabled", name)
		}
	})
	return env, nil
}

func openStore(ctx context.Context, s config.Settings, sessionID string) (history.Store, error) {
	switch s.HistoryStore {
	case config.StoreSQLite:
		store, err := history.OpenSQLite(ctx, s.HistoryPath, sessionID)
		if err != nil {
			return nil, fmt.Errorf("open history: %w", err)
		}
		return store, nil
	default:
		return history.NewYAMLStore(s.HistoryPath), nil
	}
}

// prepareRuntimeEnv adds the provider, the agent and the template watcher.
func prepareRuntimeEnv(ctx context.Context, f rootFlags) (*runtimeEnv, error) {
	env, err := prepareToolEnv(ctx, f)
	if err != nil {
		return nil, err
	}

	client, model, err := providers.NewLLMClientFromEnv(ctx)
	if err != nil {
		env.Close()
		return nil, fmt.Errorf("configure provider: %w", err)
	}
	env.Settings.Model = model
	env.Session.Budget().Model = model
	log.Printf("⚙️  %s", env.Settings)

	agent, err := engine.NewAgentBuilder().
		WithLLM(client).
		WithSession(env.Session).
		WithModel(model).
		WithMaxSteps(env.Settings.MaxSteps).
		WithTemperature(env.Settings.Temperature).
		WithResponseLimit(env.Settings.ResponseLimit).
		WithLanguage(env.Settings.Language).
		WithStreaming(f.stream).
		WithPromptRegistry(env.Prompts).
		WithMediaRenderer(engine.RegistryRenderer{Tools: env.Session.Tools()}).
		Build(ctx)
	if err != nil {
		env.Close()
		return nil, fmt.Errorf("failed to create agent: %w", err)
	}
	env.Agent = agent

	watcher, err := prompts.NewTemplateWatcher(env.Prompts, env.Settings.PromptDir)
	if err != nil {
		log.Printf("⚠️  template hot reload disabled: %v", err)
		return env, nil
	}
	watcher.OnReload(func(id string) { log.Printf("📝 Reloaded %s template", id) })
	if err := watcher.Start(ctx); err != nil {
		log.Printf("⚠️  template hot reload disabled: %v", err)
		watcher.Stop()
		return env, nil
	}
	env.watcher = watcher
	return env, nil
}
