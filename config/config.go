package config

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	defaultPath        = "."
	defaultTimeout     = 30 * time.Second
	defaultRefreshPath = "/auth/refresh"
	defaultLoginPath   = "/login"
	defaultHomePath    = "/"
	defaultMetricsPath = "/metrics"
)

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	// API describes the commerce backend the client talks to.
	API APIConfig `json:"api" yaml:"api"`

	Navigation NavigationConfig `json:"navigation" yaml:"navigation"`

	State StateConfig `json:"state" yaml:"state"`

	// Metrics exposes the transport metrics of cmd/storefront; an empty address disables it.
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`

	// Sandbox configures the in-memory development backend (cmd/sandbox).
	Sandbox *SandboxConfig `json:"sandbox" yaml:"sandbox"`
}

// APIConfig defines how the transport reaches the backend
type APIConfig struct {
	BaseURL     string        `json:"baseURL" yaml:"baseURL"`
	Timeout     time.Duration `json:"timeout" yaml:"timeout"`
	RefreshPath string        `json:"refreshPath" yaml:"refreshPath"`

	// RequestsPerSecond caps outgoing requests; zero disables the cap.
	RequestsPerSecond float64 `json:"requestsPerSecond" yaml:"requestsPerSecond"`
	Burst             int     `json:"burst" yaml:"burst"`
}

// NavigationConfig defines the entry points guards redirect to
type NavigationConfig struct {
	LoginPath string `json:"loginPath" yaml:"loginPath"`
	HomePath  string `json:"homePath" yaml:"homePath"`
}

// StateConfig tunes the reactive stores
type StateConfig struct {
	// DiscardStalePages drops list responses that were superseded by a newer fetch
	// of the same store before they landed.
	DiscardStalePages bool `json:"discardStalePages" yaml:"discardStalePages"`
}

// MetricsConfig defines where Prometheus scrapes the client
type MetricsConfig struct {
	Addr string `json:"addr" yaml:"addr"`
	Path string `json:"path" yaml:"path"`
}

// SandboxConfig defines the in-memory backend used for development and tests
type SandboxConfig struct {
	Port int `json:"port" yaml:"port"`

	SecretKey struct {
		Access  string `json:"access" yaml:"access"`
		Refresh string `json:"refresh" yaml:"refresh"`
	} `json:"secretKey" yaml:"secretKey"`

	AccessTTL  time.Duration `json:"accessTTL" yaml:"accessTTL"`
	RefreshTTL time.Duration `json:"refreshTTL" yaml:"refreshTTL"`
	BcryptCost int           `json:"bcryptCost" yaml:"bcryptCost"`

	// MaxActiveSessions caps concurrent refresh tokens per user; zero disables the cap.
	MaxActiveSessions int `json:"maxActiveSessions" yaml:"maxActiveSessions"`

	// SecureCookies marks session cookies Secure; leave off for plain-http development.
	SecureCookies bool `json:"secureCookies" yaml:"secureCookies"`

	Seed []SeedUser `json:"seed" yaml:"seed"`
}

// SeedUser is a user created when the sandbox starts
type SeedUser struct {
	Username string   `json:"username" yaml:"username"`
	Email    string   `json:"email" yaml:"email"`
	Password string   `json:"password" yaml:"password"`
	Roles    []string `json:"roles" yaml:"roles"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			searchPaths = append(searchPaths, filepath.Join(pwd, path))
		}
	}

	var configFile string
	var found bool
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
			found = true

			break
		}
	}

	if !found {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	// API_BASEURL -> api.baseURL, aligned with the keys already present in the YAML.
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			return canonicalizeEnvKey(k, existingConfigMap), v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

func New() (*Config, error) {
	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// normalize fills defaults and rejects a config the transport cannot use.
func (cfg *Config) normalize() error {
	if strings.TrimSpace(cfg.API.BaseURL) == "" {
		return errors.New("api.baseURL is required")
	}
	if _, err := url.Parse(cfg.API.BaseURL); err != nil {
		return errors.Wrap(err, "api.baseURL")
	}
	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")

	if cfg.API.Timeout <= 0 {
		cfg.API.Timeout = defaultTimeout
	}
	if cfg.API.RefreshPath == "" {
		cfg.API.RefreshPath = defaultRefreshPath
	}
	if cfg.API.RequestsPerSecond > 0 && cfg.API.Burst <= 0 {
		cfg.API.Burst = 1
	}
	if cfg.Navigation.LoginPath == "" {
		cfg.Navigation.LoginPath = defaultLoginPath
	}
	if cfg.Navigation.HomePath == "" {
		cfg.Navigation.HomePath = defaultHomePath
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = defaultMetricsPath
	}

	return nil
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}
