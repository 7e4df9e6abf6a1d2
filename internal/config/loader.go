package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"

	"github.com/nshaw/adminapi/internal/db"
	"github.com/nshaw/adminapi/internal/domain"
)

// Config aggregates everything the server needs at startup.
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Database  db.Config
	Resources map[string]domain.ResourceConfig
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
}

// StorageConfig selects the document store backing the engines.
type StorageConfig struct {
	Driver string // "memory" or "postgres"
}

type resourceSettings struct {
	SearchFields   []string `mapstructure:"search_fields"`
	SortFields     []string `mapstructure:"sort_fields"`
	MaxLimit       int      `mapstructure:"max_limit"`
	RequiredFields []string `mapstructure:"required_fields"`
	DefaultSort    struct {
		Field     string `mapstructure:"field"`
		Direction string `mapstructure:"direction"`
	} `mapstructure:"default_sort"`
	Stats struct {
		GroupFields []string `mapstructure:"group_fields"`
		Metrics     []struct {
			Name  string `mapstructure:"name"`
			Field string `mapstructure:"field"`
			Kind  string `mapstructure:"kind"`
		} `mapstructure:"metrics"`
	} `mapstructure:"stats"`
}

// Load reads config.yaml from the given path, allowing environment overrides
// with the ADMIN prefix. A missing file falls back to defaults.
func Load(configPath string) (Config, error) {
	cfg := Config{
		Server:    ServerConfig{Addr: ":8080", AllowedOrigins: []string{"http://localhost:3000"}},
		Storage:   StorageConfig{Driver: "memory"},
		Database:  db.DefaultConfig(),
		Resources: map[string]domain.ResourceConfig{},
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AutomaticEnv()
	v.SetEnvPrefix("ADMIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("server.addr")
	v.BindEnv("storage.driver")
	v.BindEnv("database.host")
	v.BindEnv("database.port")
	v.BindEnv("database.user")
	v.BindEnv("database.password")
	v.BindEnv("database.dbname")
	v.BindEnv("database.sslmode")

	if err := v.ReadInConfig(); err != nil {
		log.Println("[config] no config.yaml found, using defaults and env vars")
	} else {
		log.Println("[config] loaded config.yaml")
	}

	if v.IsSet("server.addr") {
		cfg.Server.Addr = v.GetString("server.addr")
	}
	if v.IsSet("server.allowed_origins") {
		cfg.Server.AllowedOrigins = v.GetStringSlice("server.allowed_origins")
	}
	if v.IsSet("storage.driver") {
		cfg.Storage.Driver = v.GetString("storage.driver")
	}
	if v.IsSet("database.host") {
		cfg.Database.Host = v.GetString("database.host")
	}
	if v.IsSet("database.port") {
		cfg.Database.Port = v.GetInt("database.port")
	}
	if v.IsSet("database.user") {
		cfg.Database.User = v.GetString("database.user")
	}
	if v.IsSet("database.password") {
		cfg.Database.Password = v.GetString("database.password")
	}
	if v.IsSet("database.dbname") {
		cfg.Database.DBName = v.GetString("database.dbname")
	}
	if v.IsSet("database.sslmode") {
		cfg.Database.SSLMode = v.GetString("database.sslmode")
	}

	if v.IsSet("resources") {
		raw := map[string]resourceSettings{}
		if err := v.UnmarshalKey("resources", &raw); err != nil {
			return Config{}, fmt.Errorf("parse resources: %w", err)
		}
		for name, settings := range raw {
			cfg.Resources[name] = toResourceConfig(settings)
		}
	}
	return cfg, nil
}

func toResourceConfig(settings resourceSettings) domain.ResourceConfig {
	resource := domain.ResourceConfig{
		AllowedSearchFields: settings.SearchFields,
		AllowedSortFields:   settings.SortFields,
		MaxLimit:            settings.MaxLimit,
		RequiredFields:      settings.RequiredFields,
		StatsGroupFields:    settings.Stats.GroupFields,
	}
	if settings.DefaultSort.Field != "" {
		direction := domain.SortDirectionAsc
		if strings.EqualFold(settings.DefaultSort.Direction, string(domain.SortDirectionDesc)) {
			direction = domain.SortDirectionDesc
		}
		resource.DefaultSort = domain.SortSpec{Field: settings.DefaultSort.Field, Direction: direction}
	}
	for _, metric := range settings.Stats.Metrics {
		resource.StatsMetrics = append(resource.StatsMetrics, domain.StatsMetric{
			Name:  metric.Name,
			Field: metric.Field,
			Kind:  domain.MetricKind(strings.ToLower(metric.Kind)),
		})
	}
	return resource
}
