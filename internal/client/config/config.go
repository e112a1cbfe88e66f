package config

import "time"

// Config holds runtime settings for the GophStorage CLI.
//
// Fields:
//   - APIBaseURL: root of the storage REST API, including the /api/v1 prefix.
//   - DBPath: local SQLite file holding the persisted session. Empty keeps
//     the session in memory only.
//   - DownloadDir: where downloads are saved.
//   - PageSize: files per gallery page.
//   - RequestTimeout: per-request bound; zero means none.
//   - LogLevel: debug, info, warn or error.
//   - S3*: optional object storage credentials for direct downloads.
type Config struct {
	APIBaseURL     string
	DBPath         string
	DownloadDir    string
	PageSize       int
	RequestTimeout time.Duration
	LogLevel       string

	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8080/api/v1"
	c.DBPath = "gophstorage.db"
	c.DownloadDir = "downloads"
	c.PageSize = 12
	c.RequestTimeout = 0
	c.LogLevel = "info"
	c.S3Region = "us-east-1"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
