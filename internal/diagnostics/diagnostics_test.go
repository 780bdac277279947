package diagnostics

import (
	stdlog "log"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestInitIsIdempotent(t *testing.T) {
	Init()
	assert.Equal(t, zerolog.TimeFormatUnix, zerolog.TimeFieldFormat)
	assert.Equal(t, 0, stdlog.Flags())

	// a second call must not reconfigure anything
	zerolog.TimeFieldFormat = time.RFC3339
	stdlog.SetFlags(stdlog.LstdFlags)
	t.Cleanup(func() {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		stdlog.SetFlags(0)
	})

	Init()
	assert.Equal(t, time.RFC3339, zerolog.TimeFieldFormat)
	assert.Equal(t, stdlog.LstdFlags, stdlog.Flags())
}

func TestSetLevel(t *testing.T) {
	original := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(original) })

	assert.True(t, SetLevel("DEBUG"))
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	assert.False(t, SetLevel("chatty"))
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	assert.False(t, SetLevel(""))
}
