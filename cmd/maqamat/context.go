package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"maqamat/internal/config"
	"maqamat/internal/dataset"
	"maqamat/internal/jins"
	"maqamat/internal/logging"
	"maqamat/internal/maqam"
	"maqamat/internal/pagecache"
	"maqamat/internal/services"
)

type commandContext struct {
	configFlag   *string
	jsonFlag     *bool
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configSeen bool
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string, jsonFlag *bool, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		jsonFlag:     jsonFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, exists, err := config.Load(c.configFlagValue())
		if err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "load", "", err)
			return
		}
		c.config = cfg
		c.configPath = path
		c.configSeen = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) configFlagValue() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		level := ""
		if c.logLevelFlag != nil {
			level = strings.TrimSpace(*c.logLevelFlag)
		}
		logger, err := logging.NewFromConfig(cfg, level)
		if err != nil {
			c.loggerErr = services.Wrap(services.ErrConfiguration, "logging", "init", "", err)
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) openCache() (*pagecache.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	store, err := pagecache.Open(cfg.CacheDBPath())
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "cache", "open", cfg.CacheDBPath(), err)
	}
	return store, nil
}

// tables holds the loaded registry and every assembled maqam row.
type tables struct {
	source   string
	registry *jins.Registry
	results  []maqam.Result
}

func (c *commandContext) loadTables() (*tables, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	src := dataset.Dir(cfg.Paths.DataDir)
	reg, err := jins.Load(src)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "load", "ajnas", src.Label(), err)
	}
	rows, err := src.MaqamRows()
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "load", "maqamat", src.Label(), err)
	}
	return &tables{
		source:   src.Label(),
		registry: reg,
		results:  maqam.AssembleAll(rows, reg),
	}, nil
}

func (t *tables) lookupMaqam(name string) (maqam.Result, error) {
	for _, res := range t.results {
		if res.Row.Name == name || (res.Maqam != nil && res.Maqam.Name() == name) {
			return res, nil
		}
	}
	return maqam.Result{}, services.Wrap(services.ErrNotFound, "maqamat", "show", fmt.Sprintf("maqam %q not in %s", name, t.source), nil)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
