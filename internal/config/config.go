package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Catalog  CatalogConfig  `yaml:"catalog" mapstructure:"catalog"`
	Google   GoogleConfig   `yaml:"google" mapstructure:"google"`
	Location LocationConfig `yaml:"location" mapstructure:"location"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// CatalogConfig selects the candidate source. With neither Path nor URL set,
// the embedded catalog is used.
type CatalogConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
	URL  string `yaml:"url" mapstructure:"url"`
}

// GoogleConfig holds Places and Distance Matrix API settings. Both clients
// share one key.
type GoogleConfig struct {
	Key             string  `yaml:"key" mapstructure:"key"`
	PlacesBaseURL   string  `yaml:"places_base_url" mapstructure:"places_base_url"`
	DistanceBaseURL string  `yaml:"distance_base_url" mapstructure:"distance_base_url"`
	SearchRadiusM   float64 `yaml:"search_radius_m" mapstructure:"search_radius_m"`
	MaxPhotos       int     `yaml:"max_photos" mapstructure:"max_photos"`
	PhotoMaxWidth   int     `yaml:"photo_max_width" mapstructure:"photo_max_width"`
	PhotoMaxHeight  int     `yaml:"photo_max_height" mapstructure:"photo_max_height"`
	RateLimitRPS    float64 `yaml:"rate_limit_rps" mapstructure:"rate_limit_rps"`
}

// LocationConfig selects the location source. A fixed coordinate wins over IP
// lookup; with nothing set and IP lookup disabled, location is unsupported.
type LocationConfig struct {
	Lat         *float64 `yaml:"lat" mapstructure:"lat"`
	Lng         *float64 `yaml:"lng" mapstructure:"lng"`
	IPLookup    bool     `yaml:"ip_lookup" mapstructure:"ip_lookup"`
	GeoIPURL    string   `yaml:"geoip_url" mapstructure:"geoip_url"`
	TimeoutSecs int      `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// HasFixed reports whether a fixed coordinate is configured.
func (c LocationConfig) HasFixed() bool {
	return c.Lat != nil && c.Lng != nil
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PICKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("google.places_base_url", "https://places.googleapis.com/v1")
	v.SetDefault("google.distance_base_url", "https://maps.googleapis.com/maps/api/distancematrix/json")
	v.SetDefault("google.search_radius_m", 50000.0)
	v.SetDefault("google.max_photos", 10)
	v.SetDefault("google.photo_max_width", 800)
	v.SetDefault("google.photo_max_height", 600)
	v.SetDefault("google.rate_limit_rps", 10.0)
	v.SetDefault("location.ip_lookup", true)
	v.SetDefault("location.geoip_url", "http://ip-api.com/json/")
	v.SetDefault("location.timeout_secs", 5)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that the settings a run mode needs are present and sane.
func (c *Config) Validate(mode string) error {
	var problems []string

	switch mode {
	case "pick", "serve":
		if c.Google.Key == "" {
			problems = append(problems, "google.key is required")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if mode == "serve" && c.Server.Port <= 0 {
		problems = append(problems, "server.port must be > 0")
	}
	if c.Google.SearchRadiusM <= 0 {
		problems = append(problems, "google.search_radius_m must be > 0")
	}
	if c.Google.MaxPhotos < 0 {
		problems = append(problems, "google.max_photos must be >= 0")
	}
	if c.Location.IPLookup && c.Location.GeoIPURL == "" {
		problems = append(problems, "location.geoip_url is required when ip_lookup is enabled")
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
