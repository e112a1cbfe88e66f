package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophstorage/internal/flagx"
	"github.com/dmitrijs2005/gophstorage/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations use
// timex.Duration so "30s" and integer nanoseconds are both accepted. Pointer
// and empty fields mean "not set" and leave the current value alone.
type JsonConfig struct {
	APIBaseURL     string          `json:"api_base_url"`
	DBPath         *string         `json:"db_path"`
	DownloadDir    string          `json:"download_dir"`
	PageSize       int             `json:"page_size"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	LogLevel       string          `json:"log_level"`

	S3Region    string `json:"s3_region"`
	S3Endpoint  string `json:"s3_endpoint"`
	S3AccessKey string `json:"s3_access_key"`
	S3SecretKey string `json:"s3_secret_key"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c, -config or $GOPHSTORAGE_CONFIG. Without one nothing happens. Read and
// unmarshal errors panic.
//
// db_path is a pointer so that "" can switch persistence off explicitly.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigPath(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	if jc.DBPath != nil {
		cfg.DBPath = *jc.DBPath
	}
	setString(&cfg.DownloadDir, jc.DownloadDir)
	if jc.PageSize > 0 {
		cfg.PageSize = jc.PageSize
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	setString(&cfg.LogLevel, jc.LogLevel)

	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3Endpoint, jc.S3Endpoint)
	setString(&cfg.S3AccessKey, jc.S3AccessKey)
	setString(&cfg.S3SecretKey, jc.S3SecretKey)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
