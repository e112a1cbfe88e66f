package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/gophstorage/internal/flagx"
)

var knownFlags = []string{"-a", "-d", "-o", "-p", "-t", "-l", "-s3-endpoint", "-s3-region"}

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string            API base URL, e.g. http://localhost:8080/api/v1
//	-d string            local session database path ("" keeps it in memory)
//	-o string            download directory
//	-p int               files per page
//	-t int               request timeout in seconds (0 = none)
//	-l string            log level
//	-s3-endpoint string  object storage endpoint for direct downloads
//	-s3-region string    object storage region
//
// S3 credentials are accepted from the JSON file only.
// os.Args is filtered through flagx.FilterArgs first so that -c/-config and
// anything else unknown does not break parsing.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "API base URL")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "local session database path")
	fs.StringVar(&cfg.DownloadDir, "o", cfg.DownloadDir, "download directory")
	fs.IntVar(&cfg.PageSize, "p", cfg.PageSize, "files per page")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.S3Endpoint, "s3-endpoint", cfg.S3Endpoint, "object storage endpoint")
	fs.StringVar(&cfg.S3Region, "s3-region", cfg.S3Region, "object storage region")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// only an explicit -t replaces a sub-second timeout from JSON
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
}
