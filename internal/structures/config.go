package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type Upstream struct {
	BaseUrl           string        `yaml:"baseUrl" validate:"required|fullUrl"`
	RequestTimeout    time.Duration `yaml:"requestTimeout" validate:"required|min:1"`
	BootstrapAttempts int           `yaml:"bootstrapAttempts" validate:"required|uint|min:1"`
}

type WindowConfig struct {
	DefaultHours int `yaml:"defaultHours" validate:"required|uint|min:1"`
}

type RefreshConfig struct {
	Auto     bool          `yaml:"auto"`
	Interval time.Duration `yaml:"interval"`
}

type Persistence struct {
	FilePath     string        `yaml:"filePath" validate:"required|unixPath"`
	SaveInterval time.Duration `yaml:"saveInterval" validate:"required|min:1"`
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
	AppName     string
	Debug       bool
	Path        string
	Upstream    Upstream      `yaml:"upstream"`
	Window      WindowConfig  `yaml:"window"`
	Refresh     RefreshConfig `yaml:"refresh"`
	WebServer   Server        `yaml:"webServer"`
	Persistence Persistence   `yaml:"persistence"`
	Logger      LoggerConfig  `yaml:"logger"`
	Cache       CacheConfig   `yaml:"cache"`
	Metrics     MetricsConfig `yaml:"metrics"`
}
