package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	assert.Equal(t, time.Hour, ParseDuration("1h", time.Minute))
	assert.Equal(t, 720*time.Hour, ParseDuration("720h", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("garbage", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("", time.Minute))
}
