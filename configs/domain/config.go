package domain

import (
	"fmt"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultPolitenessDelay = 3 * time.Second
	defaultFetchTimeout    = 20 * time.Second
	defaultCacheTTL        = 5 * time.Minute
)

// TerminalEntry is one terminal as written under `terminals:` in config.yaml.
type TerminalEntry struct {
	Code             string        `yaml:"code" json:"code" validate:"required,terminalCode"`
	DisplayName      string        `yaml:"display_name" json:"display_name" validate:"required,max=120"`
	URL              string        `yaml:"url" json:"url" validate:"omitempty,url"`
	VesselFull       string        `yaml:"vessel_full" json:"vessel_full" validate:"omitempty,max=120,descriptor"`
	ResolutionMethod string        `yaml:"resolution_method" json:"resolution_method" validate:"required,oneof=html_table html_text rendered external_workflow"`
	Timeout          time.Duration `yaml:"timeout" json:"timeout" validate:"gte=0"`
	Renderer         []string      `yaml:"renderer" json:"renderer,omitempty"`
}

// Settings is the typed view of the merged base + service settings.
type Settings struct {
	PolitenessDelay time.Duration `yaml:"politeness_delay" json:"politeness_delay"`
	FetchTimeout    time.Duration `yaml:"fetch_timeout" json:"fetch_timeout"`
	CacheTTL        time.Duration `yaml:"cache_ttl" json:"cache_ttl"`
	InsecureTLS     bool          `yaml:"insecure_tls" json:"insecure_tls"`
}

func DefaultSettings() Settings {
	return Settings{PolitenessDelay: defaultPolitenessDelay, FetchTimeout: defaultFetchTimeout, CacheTTL: defaultCacheTTL}
}

// Config is an abstraction around the map that holds the config values
type Config struct {
	config    map[string]interface{}
	terminals []TerminalEntry
	lock      sync.RWMutex
}

// SetFromBytes sets the internal config based on YAML
func (c *Config) SetFromBytes(data []byte) error {
	var rawConfig interface{}
	if err := yaml.Unmarshal(data, &rawConfig); err != nil {
		return err
	}
	appConfig, ok := rawConfig.(map[string]interface{})
	if !ok {
		return fmt.Errorf("config is not a map")
	}
	var typed struct {
		Terminals []TerminalEntry `yaml:"terminals"`
	}
	if err := yaml.Unmarshal(data, &typed); err != nil {
		return fmt.Errorf("terminals: %w", err)
	}
	c.lock.Lock()
	defer c.lock.Unlock()
	c.config = appConfig
	c.terminals = typed.Terminals
	return nil
}

// Get the config for a particular service
func (c *Config) Get(serviceName string) (map[string]interface{}, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()
	a, ok := c.config["base"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("base config is not a map")
	}

	// If no config is defined for the service
	if _, ok = c.config[serviceName]; !ok {
		// Return the base config
		return a, nil
	}

	b, ok := c.config[serviceName].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("service %q config is not a map", serviceName)
	}

	// Merge the base config with the service config
	config := make(map[string]interface{})
	for k, v := range a {
		config[k] = v
	}
	for k, v := range b {
		config[k] = v
	}

	return config, nil
}

// Settings decodes the merged settings of serviceName on top of DefaultSettings.
func (c *Config) Settings(serviceName string) (Settings, error) {
	settings := DefaultSettings()
	merged, err := c.Get(serviceName)
	if err != nil {
		return settings, err
	}
	data, err := yaml.Marshal(merged)
	if err != nil {
		return settings, err
	}
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return settings, fmt.Errorf("service %q settings: %w", serviceName, err)
	}
	return settings, nil
}

// Terminals returns a copy of the configured terminal entries in file order.
func (c *Config) Terminals() []TerminalEntry {
	c.lock.RLock()
	defer c.lock.RUnlock()
	out := make([]TerminalEntry, len(c.terminals))
	for i, t := range c.terminals {
		t.Renderer = append([]string(nil), t.Renderer...)
		out[i] = t
	}
	return out
}
