package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"markpool/internal/config"
)

// annotationNoConfig marks commands that must run without a loadable config,
// such as writing or checking the config file itself.
const annotationNoConfig = "markpool/no-config"

// cliContext is shared by the root command and every subcommand of one
// invocation. The config is loaded on first use, after flags are parsed.
type cliContext struct {
	configFlag *string

	cfg *config.Config
}

func newCLIContext(configFlag *string) *cliContext {
	return &cliContext{configFlag: configFlag}
}

// loadConfig resolves the config file, creates the data and log directories
// and caches the result for the rest of the invocation.
func (c *cliContext) loadConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, _, _, err := config.Load(c.configPath())
	if err != nil {
		return nil, err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("prepare directories: %w", err)
	}
	c.cfg = cfg
	return cfg, nil
}

// configPath is the --config value, empty when the default search applies.
func (c *cliContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func noConfig() map[string]string {
	return map[string]string{annotationNoConfig: "true"}
}

func skipsConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[annotationNoConfig] == "true" {
			return true
		}
	}
	return false
}
