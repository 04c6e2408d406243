package authpipe

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML shape of a config file. Durations are written as
// Go duration strings ("30s", "2m"). Absent fields keep their defaults.
type fileConfig struct {
	Routes struct {
		Login        *string `yaml:"login"`
		Unauthorized *string `yaml:"unauthorized"`
		Loading      *string `yaml:"loading"`
		Home         *string `yaml:"home"`
	} `yaml:"routes"`
	JWT struct {
		Leeway *string `yaml:"leeway"`
	} `yaml:"jwt"`
	Tenant struct {
		Header         *string  `yaml:"header"`
		ExemptPrefixes []string `yaml:"exempt_prefixes"`
	} `yaml:"tenant"`
	Session struct {
		Persist     *bool   `yaml:"persist"`
		RedisPrefix *string `yaml:"redis_prefix"`
	} `yaml:"session"`
	Guards struct {
		RoleWait *string `yaml:"role_wait"`
	} `yaml:"guards"`
	Audit struct {
		Enabled    *bool `yaml:"enabled"`
		BufferSize *int  `yaml:"buffer_size"`
		DropIfFull *bool `yaml:"drop_if_full"`
	} `yaml:"audit"`
	Metrics struct {
		Enabled           *bool `yaml:"enabled"`
		LatencyHistograms *bool `yaml:"latency_histograms"`
	} `yaml:"metrics"`
	Modules []struct {
		Name         string   `yaml:"name"`
		Resource     string   `yaml:"resource"`
		Capabilities []string `yaml:"capabilities"`
	} `yaml:"modules"`
}

// LoadConfigFile reads a YAML config file and overlays it on the defaults.
//
// LoadConfigFile may return an error when input validation, dependency calls, or security checks fail.
func LoadConfigFile(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	return ParseConfig(raw)
}

// ParseConfig parses YAML config bytes and overlays them on the defaults.
//
// ParseConfig may return an error when input validation, dependency calls, or security checks fail.
func ParseConfig(raw []byte) (Config, error) {
	var file fileConfig
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}

	cfg := defaultConfig()

	setString(&cfg.Routes.Login, file.Routes.Login)
	setString(&cfg.Routes.Unauthorized, file.Routes.Unauthorized)
	setString(&cfg.Routes.Loading, file.Routes.Loading)
	setString(&cfg.Routes.Home, file.Routes.Home)
	setString(&cfg.Tenant.Header, file.Tenant.Header)
	setString(&cfg.Session.RedisPrefix, file.Session.RedisPrefix)

	if file.Tenant.ExemptPrefixes != nil {
		cfg.Tenant.ExemptPrefixes = file.Tenant.ExemptPrefixes
	}
	setBool(&cfg.Session.Persist, file.Session.Persist)
	setBool(&cfg.Audit.Enabled, file.Audit.Enabled)
	setBool(&cfg.Audit.DropIfFull, file.Audit.DropIfFull)
	setBool(&cfg.Metrics.Enabled, file.Metrics.Enabled)
	setBool(&cfg.Metrics.EnableLatencyHistograms, file.Metrics.LatencyHistograms)
	if file.Audit.BufferSize != nil {
		cfg.Audit.BufferSize = *file.Audit.BufferSize
	}

	if err := setDuration(&cfg.JWT.Leeway, file.JWT.Leeway, "jwt.leeway"); err != nil {
		return Config{}, err
	}
	if err := setDuration(&cfg.Guards.RoleWait, file.Guards.RoleWait, "guards.role_wait"); err != nil {
		return Config{}, err
	}

	for _, m := range file.Modules {
		cfg.Modules = append(cfg.Modules, ModuleConfig{
			Name:         m.Name,
			Resource:     m.Resource,
			Capabilities: m.Capabilities,
		})
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

func setDuration(dst *time.Duration, src *string, field string) error {
	if src == nil {
		return nil
	}
	d, err := time.ParseDuration(*src)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, field, err)
	}
	*dst = d
	return nil
}
