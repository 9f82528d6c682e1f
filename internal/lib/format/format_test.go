package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDuration(t *testing.T) {
	tests := []struct {
		ms   int64
		want string
	}{
		{0, "0秒"},
		{59_999, "59秒"},
		{60_000, "1分"},
		{135_334, "2分"},
		{3_600_000, "1時間0分"},
		{3_723_000, "1時間2分"},
		{-5, "0秒"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Duration(tt.ms), "ms=%d", tt.ms)
	}
}

func TestDistance(t *testing.T) {
	tests := []struct {
		meters float64
		want   string
	}{
		{0, "0m"},
		{12.4, "12m"},
		{999.4, "999m"},
		{1000, "1.0km"},
		{1127.33, "1.1km"},
		{42195, "42.2km"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Distance(tt.meters), "meters=%v", tt.meters)
	}
}
