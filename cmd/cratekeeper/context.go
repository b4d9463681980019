package main

import (
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"cratekeeper/internal/config"
	"cratekeeper/internal/dedupe"
	"cratekeeper/internal/history"
	"cratekeeper/internal/library"
	"cratekeeper/internal/logging"
	"cratekeeper/internal/process"
	"cratekeeper/internal/vetting"
)

type commandContext struct {
	configFlag *string
	jsonFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		jsonFlag:   jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// ensureLogger builds the configured logger once. Log output goes to a file
// under the log directory so it never interleaves with table or JSON output.
func (c *commandContext) ensureLogger() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		logger, err := logging.New(logging.Options{
			Level:       cfg.Logging.Level,
			Format:      cfg.Logging.Format,
			OutputPaths: []string{filepath.Join(cfg.Paths.LogDir, "cratekeeper.log")},
		})
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) openLibrary() (*library.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return library.Open(cfg)
}

func (c *commandContext) openHistory() (*history.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return history.Open(cfg)
}

func (c *commandContext) newEngine(store *library.Store) *dedupe.Engine {
	cfg := c.config
	policy := dedupe.DefaultPolicy()
	if cfg != nil {
		policy = dedupe.Policy{
			FuzzyFloor:        cfg.Vetting.FuzzyFloor,
			CertainConfidence: cfg.Vetting.CertainConfidence,
		}
	}
	return dedupe.NewEngine(store, nil, policy, c.ensureLogger())
}

func (c *commandContext) newOrchestrator(store *library.Store) *vetting.Orchestrator {
	return vetting.NewOrchestrator(c.newEngine(store), store, c.config, c.ensureLogger())
}

func (c *commandContext) newCoordinator(store *library.Store, historyStore *history.Store) *process.Coordinator {
	return process.NewCoordinator(c.newOrchestrator(store), historyStore, c.ensureLogger())
}

// withLock serializes mutating commands on the database directory so two
// invocations never write concurrently.
func (c *commandContext) withLock(fn func() error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	lock := flock.New(filepath.Join(cfg.Paths.DatabaseDir, "cratekeeper.lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("another cratekeeper instance is writing to this database")
	}
	defer func() {
		_ = lock.Unlock()
	}()
	return fn()
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
