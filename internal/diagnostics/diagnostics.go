// Package diagnostics routes the process's diagnostic output to the host
// console. Init is called once by the host before the first parse.
package diagnostics

import (
	stdlog "log"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var once sync.Once

// Init configures the global zerolog logger for console output on stderr and
// sends the standard library logger through it. Later calls do nothing.
func Init() {
	once.Do(func() {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

		stdlog.SetFlags(0)
		stdlog.SetOutput(log.Logger.With().Str("source", "stdlog").Logger())
	})
}

// SetLevel applies a level name such as "debug" or "warn". Unknown names
// leave the current level unchanged and return false.
func SetLevel(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	level, err := zerolog.ParseLevel(strings.ToLower(name))
	if err != nil {
		return false
	}
	zerolog.SetGlobalLevel(level)
	return true
}
