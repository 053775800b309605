package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// FileName is the config file looked up in the config directory.
const FileName = "festmap.cfg.json"

// DefaultFeaturedIDs are promoted as featured on top of each vendor's own flag.
var DefaultFeaturedIDs = []string{"food-001", "beverage-001", "arts-001"}

// SQLiteConfig holds sqlite storage backend settings
type SQLiteConfig struct {
	Path         string        `json:"path" mapstructure:"path"`
	DumpInterval time.Duration `json:"dumpInterval" mapstructure:"dumpInterval"`
	DumpPath     string        `json:"dumpPath" mapstructure:"dumpPath"`
}

// DBConfig holds postgres connection settings
type DBConfig struct {
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
	Database string `json:"database" mapstructure:"database"`
	SSLMode  string `json:"sslMode" mapstructure:"sslMode"`
}

// StorageConfig selects and configures the snapshot/preference backend
type StorageConfig struct {
	Type     string       `json:"type" mapstructure:"type"` // memory, sqlite, postgres
	SQLite   SQLiteConfig `json:"sqlite" mapstructure:"sqlite"`
	Postgres DBConfig     `json:"db" mapstructure:"db"`
}

// OTelConfig holds OpenTelemetry settings
type OTelConfig struct {
	Enabled      bool          `json:"enabled" mapstructure:"enabled"`
	ServiceName  string        `json:"serviceName" mapstructure:"serviceName"`
	BatchTimeout time.Duration `json:"batchTimeout" mapstructure:"batchTimeout"`
	Endpoint     string        `json:"endpoint" mapstructure:"endpoint"`
	Insecure     bool          `json:"insecure" mapstructure:"insecure"`
}

// MapConfig holds map and marker settings
type MapConfig struct {
	// Base is the "lat,lng" point dataset offsets are measured from.
	Base        string   `json:"base" mapstructure:"base"`
	FocusZoom   int      `json:"focusZoom" mapstructure:"focusZoom"`
	FeaturedIDs []string `json:"featuredIds" mapstructure:"featuredIds"`
}

// DatasetConfig points at the vendor/infrastructure dataset file
type DatasetConfig struct {
	Path  string `json:"path" mapstructure:"path"` // empty uses the built-in dataset
	Watch bool   `json:"watch" mapstructure:"watch"`
}

// InfluxConfig holds InfluxDB stats reporter settings
type InfluxConfig struct {
	Enabled  bool          `json:"enabled" mapstructure:"enabled"`
	Host     string        `json:"host" mapstructure:"host"`
	Port     string        `json:"port" mapstructure:"port"`
	Protocol string        `json:"protocol" mapstructure:"protocol"`
	Token    string        `json:"token" mapstructure:"token"`
	Org      string        `json:"org" mapstructure:"org"`
	Bucket   string        `json:"bucket" mapstructure:"bucket"`
	Interval time.Duration `json:"interval" mapstructure:"interval"`
}

func setDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./festmaplogs")

	viper.SetDefault("festival.name", "Eastwood Fallfest")

	viper.SetDefault("map.base", "36.1888487,-86.7383314")
	viper.SetDefault("map.focusZoom", 17)
	viper.SetDefault("map.featuredIds", DefaultFeaturedIDs)

	viper.SetDefault("dataset.path", "")
	viper.SetDefault("dataset.watch", false)

	viper.SetDefault("http.addr", ":8080")

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.sqlite.path", "./festmap.db")
	viper.SetDefault("storage.sqlite.dumpInterval", "3m")
	viper.SetDefault("storage.sqlite.dumpPath", "./festmap-backup.db")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "festmap")
	viper.SetDefault("db.sslMode", "disable")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "supersecrettoken")
	viper.SetDefault("influx.org", "festmap-metrics")
	viper.SetDefault("influx.bucket", "festmap")
	viper.SetDefault("influx.interval", "30s")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "festmap")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file. A missing file
// is reported as a wrapped viper.ConfigFileNotFoundError; defaults are set
// either way.
func Load(configDir string) error {
	setDefaults()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// Set overrides a config value, e.g. from a command line flag.
func Set(key string, value any) {
	viper.Set(key, value)
}

// GetStorageConfig returns the storage backend configuration
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type: viper.GetString("storage.type"),
		SQLite: SQLiteConfig{
			Path:         viper.GetString("storage.sqlite.path"),
			DumpInterval: viper.GetDuration("storage.sqlite.dumpInterval"),
			DumpPath:     viper.GetString("storage.sqlite.dumpPath"),
		},
		Postgres: GetDBConfig(),
	}
}

// GetDBConfig returns the postgres connection settings
func GetDBConfig() DBConfig {
	return DBConfig{
		Host:     viper.GetString("db.host"),
		Port:     viper.GetString("db.port"),
		Username: viper.GetString("db.username"),
		Password: viper.GetString("db.password"),
		Database: viper.GetString("db.database"),
		SSLMode:  viper.GetString("db.sslMode"),
	}
}

// GetOTelConfig returns the OpenTelemetry configuration
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: viper.GetDuration("otel.batchTimeout"),
		Endpoint:     viper.GetString("otel.endpoint"),
		Insecure:     viper.GetBool("otel.insecure"),
	}
}

// GetMapConfig returns the map configuration
func GetMapConfig() MapConfig {
	return MapConfig{
		Base:        viper.GetString("map.base"),
		FocusZoom:   viper.GetInt("map.focusZoom"),
		FeaturedIDs: viper.GetStringSlice("map.featuredIds"),
	}
}

// GetDatasetConfig returns the dataset source configuration
func GetDatasetConfig() DatasetConfig {
	return DatasetConfig{
		Path:  viper.GetString("dataset.path"),
		Watch: viper.GetBool("dataset.watch"),
	}
}

// GetInfluxConfig returns the InfluxDB reporter configuration
func GetInfluxConfig() InfluxConfig {
	return InfluxConfig{
		Enabled:  viper.GetBool("influx.enabled"),
		Host:     viper.GetString("influx.host"),
		Port:     viper.GetString("influx.port"),
		Protocol: viper.GetString("influx.protocol"),
		Token:    viper.GetString("influx.token"),
		Org:      viper.GetString("influx.org"),
		Bucket:   viper.GetString("influx.bucket"),
		Interval: viper.GetDuration("influx.interval"),
	}
}
