package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// File is the on-disk configuration
type File struct {
	Poll     Duration                   `yaml:"poll" json:"poll"`
	Database string                     `yaml:"db" json:"db"`
	Port     int                        `yaml:"port" json:"port"`
	Probes   map[string]ProbeFileConfig `yaml:"probes" json:"probes"`
}

// ProbeFileConfig declares one probe group
type ProbeFileConfig struct {
	Targets  []string `yaml:"targets" json:"targets"`
	Interval Duration `yaml:"interval" json:"interval"`
	Count    int      `yaml:"count" json:"count"`
}

// LoadFile reads a .yml/.yaml or .json configuration file
func LoadFile(path string) (*File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to get config file info: %w", err)
	}

	if !info.Mode().IsRegular() {
		return nil, errors.New("failed to read config file: config file must be a regular file")
	}

	var cfg File

	switch {
	case strings.HasSuffix(path, ".yml"), strings.HasSuffix(path, ".yaml"):
		if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
	case strings.HasSuffix(path, ".json"):
		if err := json.NewDecoder(file).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
	default:
		return nil, errors.New("unsupported config file format")
	}

	return &cfg, nil
}

// apply overlays the file on cfg; unset group fields fall back to the flag values
func (f *File) apply(cfg *Config, interval time.Duration, count int) {
	if f.Poll > 0 {
		cfg.Poll = time.Duration(f.Poll)
	}
	if f.Database != "" {
		cfg.DatabasePath = f.Database
	}
	if f.Port != 0 {
		cfg.Port = f.Port
	}

	if len(f.Probes) == 0 {
		return
	}

	cfg.Probes = cfg.Probes[:0]
	for name, probe := range f.Probes {
		group := ProbeGroup{
			Name:     name,
			Targets:  probe.Targets,
			Interval: time.Duration(probe.Interval),
			Count:    probe.Count,
		}
		if group.Interval == 0 {
			group.Interval = interval
		}
		if group.Count == 0 {
			group.Count = count
		}
		cfg.Probes = append(cfg.Probes, group)
	}
}

// Duration accepts Go duration strings ("10s") or bare seconds ("10")
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ParseDuration(node.Value)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	val := string(data)
	if unquoted, err := strconv.Unquote(val); err == nil {
		val = unquoted
	}

	parsed, err := ParseDuration(val)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// ParseDuration parses a duration, treating plain integers as seconds
func ParseDuration(val string) (time.Duration, error) {
	if val = strings.TrimSpace(val); val == "" || val == "0" {
		return 0, nil
	}

	for _, next := range val {
		if next < '0' || next > '9' {
			duration, err := time.ParseDuration(val)
			if err != nil {
				return 0, err
			} else if duration < 0 {
				return 0, errors.New("invalid duration value")
			}
			return duration, nil
		}
	}

	seconds, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, err
	}

	return time.Duration(seconds) * time.Second, nil
}
