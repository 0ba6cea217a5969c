package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/myui-dev/myui/internal/errors"
)

// File names searched by Load, in order.
const (
	YAMLFileName = "myui.yaml"
	JSONFileName = "myui.json"
)

// Defaults.
const (
	DefaultHost         = "localhost"
	DefaultPort         = 3000
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "auto"
	DefaultDriver       = "file"
	DefaultStorePath    = "db.json"
	DefaultBoltPath     = "students.db"
	DefaultBoltBucket   = "students"
	DefaultS3Key        = "students/db.json"
	DefaultLivePath     = "/live"
	DefaultPingInterval = 30 * time.Second
	DefaultNamespace    = "myui"
)

// Config is the complete server configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server" json:"server"`
	Log     LogConfig     `yaml:"log" json:"log"`
	Store   StoreConfig   `yaml:"store" json:"store"`
	Live    LiveConfig    `yaml:"live" json:"live"`
	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`

	// path of the file the config was read from, empty for defaults.
	path string
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host        string   `yaml:"host" json:"host"`
	Port        int      `yaml:"port" json:"port"`
	CORSOrigins []string `yaml:"cors_origins" json:"cors_origins"`
	// Static serves the live page and client script when true (the default).
	Static *bool `yaml:"static,omitempty" json:"static,omitempty"`
}

// LogConfig selects the log level and handler format.
type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"` // auto, text or json
}

// StoreConfig selects and configures the student persistence driver.
type StoreConfig struct {
	Driver string     `yaml:"driver" json:"driver"`
	Path   string     `yaml:"path" json:"path"`
	Bolt   BoltConfig `yaml:"bolt" json:"bolt"`
	S3     S3Config   `yaml:"s3" json:"s3"`
}

// BoltConfig configures the bbolt driver.
type BoltConfig struct {
	Path   string `yaml:"path" json:"path"`
	Bucket string `yaml:"bucket" json:"bucket"`
}

// S3Config configures the S3 driver.
type S3Config struct {
	Bucket       string `yaml:"bucket" json:"bucket"`
	Key          string `yaml:"key" json:"key"`
	Region       string `yaml:"region" json:"region"`
	Endpoint     string `yaml:"endpoint" json:"endpoint"`
	UsePathStyle bool   `yaml:"use_path_style" json:"use_path_style"`
}

// LiveConfig configures the WebSocket live sessions.
type LiveConfig struct {
	Path         string   `yaml:"path" json:"path"`
	PingInterval Duration `yaml:"ping_interval" json:"ping_interval"`
	// Debug enables hook order checking in every session.
	Debug bool `yaml:"debug" json:"debug"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled   *bool  `yaml:"enabled,omitempty" json:"enabled,omitempty"`
	Namespace string `yaml:"namespace" json:"namespace"`
	Path      string `yaml:"path" json:"path"`
}

// Duration is a time.Duration written as a string ("30s") in config files.
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

func (d Duration) MarshalYAML() (any, error) { return d.String(), nil }

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	return d.parse(s)
}

func (d Duration) MarshalJSON() ([]byte, error) { return json.Marshal(d.String()) }

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return d.parse(s)
}

func (d *Duration) parse(s string) error {
	if s == "" {
		*d = 0
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// New returns a configuration with every default applied.
func New() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads the configuration at path. An empty path searches the working
// directory for myui.yaml then myui.json and falls back to defaults when
// neither exists. Environment overrides are applied before validation.
func Load(path string) (*Config, error) {
	var cfg *Config
	if path == "" {
		found, err := find(".")
		if err != nil {
			return nil, err
		}
		if found == "" {
			cfg = New()
		} else {
			path = found
		}
	}
	if cfg == nil {
		var err error
		if cfg, err = LoadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile parses a single YAML or JSON file, chosen by extension, and applies
// defaults. It does not read the environment or validate.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E120").
				WithDetailf("No configuration file at %s", path).
				WithSuggestion("Run 'myui config > myui.yaml' to write the defaults")
		}
		return nil, errors.New("E120").Wrap(err)
	}

	cfg := &Config{}
	if err := Unmarshal(path, data, cfg); err != nil {
		return nil, errors.New("E121").
			WithDetailf("Failed to parse %s: %v", filepath.Base(path), err).
			Wrap(err)
	}
	cfg.path = path
	cfg.applyDefaults()
	return cfg, nil
}

// Unmarshal decodes data as JSON when name ends in .json and as YAML otherwise.
func Unmarshal(name string, data []byte, cfg *Config) error {
	if strings.EqualFold(filepath.Ext(name), ".json") {
		return json.Unmarshal(data, cfg)
	}
	return yaml.Unmarshal(data, cfg)
}

// Marshal encodes the configuration as "yaml" or "json".
func (c *Config) Marshal(format string) ([]byte, error) {
	if format == "json" {
		return json.MarshalIndent(c, "", "  ")
	}
	return yaml.Marshal(c)
}

func find(dir string) (string, error) {
	for _, name := range []string{YAMLFileName, "myui.yml", JSONFileName} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		} else if !os.IsNotExist(err) {
			return "", errors.New("E120").Wrap(err)
		}
	}
	return "", nil
}

// Path returns the file the configuration was loaded from.
func (c *Config) Path() string {
	return c.path
}

func (c *Config) applyDefaults() {
	// Server
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.CORSOrigins == nil {
		c.Server.CORSOrigins = []string{"*"}
	}
	if c.Server.Static == nil {
		c.Server.Static = boolPtr(true)
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}

	// Store
	if c.Store.Driver == "" {
		c.Store.Driver = DefaultDriver
	}
	if c.Store.Path == "" {
		c.Store.Path = DefaultStorePath
	}
	if c.Store.Bolt.Path == "" {
		c.Store.Bolt.Path = DefaultBoltPath
	}
	if c.Store.Bolt.Bucket == "" {
		c.Store.Bolt.Bucket = DefaultBoltBucket
	}
	if c.Store.S3.Key == "" {
		c.Store.S3.Key = DefaultS3Key
	}

	// Live
	if c.Live.Path == "" {
		c.Live.Path = DefaultLivePath
	}
	if c.Live.PingInterval == 0 {
		c.Live.PingInterval = Duration(DefaultPingInterval)
	}

	// Metrics
	if c.Metrics.Enabled == nil {
		c.Metrics.Enabled = boolPtr(true)
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
}

// Validate checks value ranges and the store driver.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("E122").
			WithDetailf("server.port must be between 0 and 65535, got %d", c.Server.Port)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.New("E122").
			WithDetailf("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "auto", "text", "json":
	default:
		return errors.New("E122").
			WithDetailf("log.format must be auto, text or json, got %q", c.Log.Format)
	}
	switch c.Store.Driver {
	case "memory", "file", "bolt":
	case "s3":
		if c.Store.S3.Bucket == "" {
			return errors.New("E122").
				WithDetail("store.s3.bucket is required for the s3 driver")
		}
	default:
		return errors.New("E123").
			WithSuggestion("Got " + strconv.Quote(c.Store.Driver))
	}
	if !strings.HasPrefix(c.Live.Path, "/") {
		return errors.New("E122").
			WithDetailf("live.path must start with '/', got %q", c.Live.Path)
	}
	if c.Live.PingInterval < 0 {
		return errors.New("E122").WithDetail("live.ping_interval must not be negative")
	}
	return nil
}

// Addr returns the host:port listen address.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// StaticEnabled reports whether the live page should be served.
func (c *Config) StaticEnabled() bool {
	return c.Server.Static == nil || *c.Server.Static
}

// MetricsEnabled reports whether /metrics should be served.
func (c *Config) MetricsEnabled() bool {
	return c.Metrics.Enabled == nil || *c.Metrics.Enabled
}

func boolPtr(b bool) *bool { return &b }
