package config

import (
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/vango-dev/routemeta/internal/errors"
	"github.com/vango-dev/routemeta/pkg/component"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "routemeta.json"

	// DefaultPort is the default server port.
	DefaultPort = 3000

	// DefaultHost is the default server host.
	DefaultHost = "localhost"

	// DefaultNamespace prefixes metric names.
	DefaultNamespace = "routemeta"

	// DefaultTracerName names the OpenTelemetry tracer.
	DefaultTracerName = "routemeta"
)

// Config represents routemeta.json.
type Config struct {
	// Manifest is the route manifest: a .hcl, .yaml or .yml path, or an
	// s3://bucket/key URL. Empty uses the demo application.
	Manifest string `json:"manifest,omitempty"`

	// Location is the URL mode handed to the router.
	Location string `json:"location,omitempty" validate:"oneof=history hash none auto"`

	// Display is the title widget's display: false, true or a CSS display
	// value.
	Display any `json:"display,omitempty"`

	Server  ServerConfig  `json:"server"`
	Log     LogConfig     `json:"log"`
	Metrics MetricsConfig `json:"metrics"`
	Tracing TracingConfig `json:"tracing"`
	S3      S3Config      `json:"s3"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `json:"host,omitempty" validate:"required"`
	Port int    `json:"port,omitempty" validate:"gte=0,lte=65535"`

	// Pretty indents rendered HTML.
	Pretty bool `json:"pretty,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `json:"level,omitempty" validate:"oneof=debug info warn error"`
	Format string `json:"format,omitempty" validate:"oneof=text json"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled"`
	Namespace string `json:"namespace,omitempty" validate:"required,excludesall=-."`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	Enabled    bool   `json:"enabled"`
	TracerName string `json:"tracerName,omitempty" validate:"required"`
}

// S3Config configures manifest downloads from S3.
type S3Config struct {
	Region       string `json:"region,omitempty"`
	Endpoint     string `json:"endpoint,omitempty" validate:"omitempty,url"`
	UsePathStyle bool   `json:"usePathStyle,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	cfg := &Config{
		Display: false,
		Metrics: MetricsConfig{Enabled: true},
	}
	cfg.applyDefaults()
	return cfg
}

// Load reads routemeta.json from dir.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadOrNew is Load, falling back to defaults when dir has no
// routemeta.json.
func LoadOrNew(dir string) (*Config, error) {
	cfg, err := Load(dir)
	if errors.Code(err) == "E141" {
		return New(), nil
	}
	return cfg, err
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E141").
				WithDetail("No " + ConfigFileName + " found in " + filepath.Dir(path)).
				WithSuggestion("Run 'routemeta init' to create one")
		}
		return nil, errors.New("E120").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E120").
			WithDetail("Failed to parse " + ConfigFileName + ": " + err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E120").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E120").Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Location == "" {
		c.Location = "auto"
	}
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = DefaultTracerName
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fields []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				fields = append(fields, fe.Namespace()+" ("+fe.Tag()+")")
			}
		}
		return errors.New("E122").
			WithDetail("Validation failed on " + strings.Join(fields, ", ")).
			Wrap(err)
	}
	if _, err := c.DisplayMode(); err != nil {
		return errors.New("E122").WithDetail(err.Error())
	}
	if c.Manifest != "" && !c.IsRemoteManifest() {
		switch strings.ToLower(filepath.Ext(c.Manifest)) {
		case ".hcl", ".yaml", ".yml":
		default:
			return errors.New("E122").
				WithDetail("Manifest must be a .hcl, .yaml or .yml file: " + c.Manifest)
		}
	}
	return nil
}

// DisplayMode parses Display.
func (c *Config) DisplayMode() (component.Display, error) {
	return component.ParseDisplay(c.Display)
}

// Address returns host:port.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// IsRemoteManifest reports whether the manifest is an s3:// URL.
func (c *Config) IsRemoteManifest() bool {
	return strings.HasPrefix(c.Manifest, "s3://")
}

// ManifestPath resolves a local manifest against the config directory.
func (c *Config) ManifestPath() string {
	if c.Manifest == "" || c.IsRemoteManifest() || filepath.IsAbs(c.Manifest) {
		return c.Manifest
	}
	return filepath.Join(c.Dir(), c.Manifest)
}
