package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		start       *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"cmd", "-a", "http://10.0.0.1:8080/api/v1", "-d", "s.db", "-o", "out", "-p", "24",
				"-t", "10", "-l", "debug", "-s3-endpoint", "http://127.0.0.1:9000", "-s3-region", "eu-west-1"},
			start: &Config{},
			expected: &Config{
				APIBaseURL:     "http://10.0.0.1:8080/api/v1",
				DBPath:         "s.db",
				DownloadDir:    "out",
				PageSize:       24,
				RequestTimeout: 10 * time.Second,
				LogLevel:       "debug",
				S3Endpoint:     "http://127.0.0.1:9000",
				S3Region:       "eu-west-1",
			},
		},
		{
			name:     "unknown and config flags are ignored",
			args:     []string{"cmd", "-c", "cfg.json", "-x", "1", "-p", "6"},
			start:    &Config{RequestTimeout: 1500 * time.Millisecond},
			expected: &Config{PageSize: 6, RequestTimeout: 1500 * time.Millisecond},
		},
		{
			name:     "empty db path switches persistence off",
			args:     []string{"cmd", "-d="},
			start:    &Config{DBPath: "gophstorage.db"},
			expected: &Config{},
		},
		{name: "incorrect page size", args: []string{"cmd", "-p", "abc"}, start: &Config{}, expectPanic: true},
		{name: "incorrect timeout", args: []string{"cmd", "-t", "soon"}, start: &Config{}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			config := tt.start

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
