package humanx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSize(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{1024 * 1024, "1.00 MB"},
		{5*1024*1024 + 512*1024, "5.50 MB"},
		{3 * 1024 * 1024 * 1024, "3.00 GB"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Size(tt.in), "Size(%d)", tt.in)
	}
}

func TestDate(t *testing.T) {
	assert.Equal(t, "-", Date(time.Time{}))

	d := time.Date(2024, 1, 15, 12, 0, 0, 0, time.Local)
	assert.Equal(t, "2024-01-15", Date(d))
}
