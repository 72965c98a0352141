package structures

import (
	"net/http"
	"time"
)

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type HotStoreConfig struct {
	Endpoint  string `yaml:"endpoint" validate:"required"`
	Namespace string `yaml:"namespace" validate:"required"`
	Database  string `yaml:"database" validate:"required"`
	Table     string `yaml:"table" validate:"required"`
	User      string `yaml:"user"`
	Pass      string `yaml:"pass"`
}

type ColdStoreConfig struct {
	ConnectionString string `yaml:"connectionString" validate:"required"`
	Container        string `yaml:"container" validate:"required"`
}

type ArchiveConfig struct {
	ThresholdMonths     int           `yaml:"thresholdMonths" validate:"required|uint|min:1"`
	BatchSize           int           `yaml:"batchSize" validate:"required|uint|min:1"`
	SweepInterval       time.Duration `yaml:"sweepInterval" validate:"required|min:1"`
	RetrievalServiceURL string        `yaml:"retrievalServiceUrl"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName   string
	Debug     bool
	Path      string
	WebServer Server          `yaml:"webServer"`
	HotStore  HotStoreConfig  `yaml:"hotStore"`
	ColdStore ColdStoreConfig `yaml:"coldStore"`
	Archive   ArchiveConfig   `yaml:"archive"`
	Logger    LoggerConfig    `yaml:"logger"`
	Cache     CacheConfig     `yaml:"cache"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

type CliFlags struct {
	ConfigPath string
	DebugMode  bool
}

type Route struct {
	Url     string
	Handler http.Handler
}
