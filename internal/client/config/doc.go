// Package config loads runtime configuration for the GophStorage CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) named by -c, -config or the
//     GOPHSTORAGE_CONFIG environment variable.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string            API base URL
//	-d string            local session database path
//	-o string            download directory
//	-p int               files per page
//	-t int               request timeout (seconds)
//	-l string            log level
//	-s3-endpoint string  object storage endpoint
//	-s3-region string    object storage region
//
// # JSON schema
//
// Durations go through timex.Duration, so "30s" and integer nanoseconds are
// both valid:
//
//	{
//	  "api_base_url": "http://localhost:8080/api/v1",
//	  "db_path": "gophstorage.db",
//	  "download_dir": "downloads",
//	  "page_size": 12,
//	  "request_timeout": "30s",
//	  "log_level": "info",
//	  "s3_region": "us-east-1",
//	  "s3_endpoint": "http://127.0.0.1:9000",
//	  "s3_access_key": "minioadmin",
//	  "s3_secret_key": "minioadmin"
//	}
//
// Apart from GOPHSTORAGE_CONFIG no environment variables are read; the AWS
// SDK's own variables are not consulted for S3 credentials either.
package config
