package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

// RepositoryConfig points at the backing document. An empty FilePath leaves
// the repository disabled.
type RepositoryConfig struct {
	FilePath string `yaml:"filePath"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type PurgeConfig struct {
	Interval time.Duration `yaml:"interval" validate:"required|min:1"`
	MaxAge   time.Duration `yaml:"maxAge"`
}

type BackupConfig struct {
	Enabled  bool          `yaml:"enabled"`
	FilePath string        `yaml:"filePath"`
	Interval time.Duration `yaml:"interval"`
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
	AppName    string
	Debug      bool
	Path       string
	WebServer  Server           `yaml:"webServer"`
	Repository RepositoryConfig `yaml:"repository"`
	Logger     LoggerConfig     `yaml:"logger"`
	Purge      PurgeConfig      `yaml:"purge"`
	Backup     BackupConfig     `yaml:"backup"`
	Cache      CacheConfig      `yaml:"cache"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}
