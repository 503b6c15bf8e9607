package config

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/net/idna"
)

// ProbeGroup is one ping action rotating over its targets
type ProbeGroup struct {
	Name     string
	Targets  []string
	Interval time.Duration
	Count    int
}

// Config holds all configuration for the monitor
type Config struct {
	Probes       []ProbeGroup
	Poll         time.Duration
	DatabasePath string
	Port         int
	PostgresURL  string
	ConfigFile   string
	Debug        bool
	JSONLogs     bool
}

// Targets lists every configured target across groups
func (c *Config) Targets() []string {
	var targets []string
	for _, group := range c.Probes {
		targets = append(targets, group.Targets...)
	}
	return targets
}

// Validate checks the configuration and normalises target names
func (c *Config) Validate() error {
	if len(c.Probes) == 0 {
		return fmt.Errorf("at least one probe group must be specified")
	}

	sort.SliceStable(c.Probes, func(i, j int) bool {
		return c.Probes[i].Name < c.Probes[j].Name
	})

	for i := range c.Probes {
		if err := c.Probes[i].validate(); err != nil {
			return fmt.Errorf("probe group '%s': %w", c.Probes[i].Name, err)
		}
	}

	if c.Poll <= 0 {
		return fmt.Errorf("poll interval must be positive")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database path cannot be empty")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	return nil
}

func (g *ProbeGroup) validate() error {
	if g.Interval <= 0 {
		return fmt.Errorf("interval must be positive")
	}
	if g.Count <= 0 {
		return fmt.Errorf("count must be positive")
	}

	targets := make([]string, 0, len(g.Targets))
	for _, target := range g.Targets {
		normalized, err := NormalizeTarget(target)
		if err != nil {
			return err
		}
		if normalized == "" {
			continue
		}
		targets = append(targets, normalized)
	}

	if len(targets) == 0 {
		return fmt.Errorf("at least one target must be specified")
	}

	g.Targets = targets
	return nil
}

// NormalizeTarget trims a target and converts internationalised host names to ASCII
func NormalizeTarget(target string) (string, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return "", nil
	}

	// ping would take it as a flag
	if strings.HasPrefix(target, "-") {
		return "", fmt.Errorf("invalid target %q", target)
	}

	ascii, err := idna.Lookup.ToASCII(target)
	if err != nil {
		return "", fmt.Errorf("invalid target %q: %w", target, err)
	}
	return ascii, nil
}
