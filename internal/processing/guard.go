package processing

import (
	"errors"
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"github.com/rs/zerolog/log"

	"github.com/RMahshie/faultscope/internal/comtrade"
)

const (
	parseErrorPrefix     = "Error parsing COMTRADE file: "
	panicFallbackMessage = "A panic occurred while parsing the COMTRADE file. This may be due to a malformed file."
)

// Parser is the collaborator that decodes files into a Recording
type Parser interface {
	Parse() (*comtrade.Recording, error)
}

// ParserFactory builds a Parser for each accepted input layout
type ParserFactory interface {
	Combined(cff io.Reader) Parser
	Split(cfg, dat io.Reader) Parser
}

type comtradeParsers struct{}

func (comtradeParsers) Combined(cff io.Reader) Parser {
	return comtrade.NewCombinedParser(cff)
}

func (comtradeParsers) Split(cfg, dat io.Reader) Parser {
	return comtrade.NewSplitParser(cfg, dat)
}

// DefaultParsers builds parsers from the comtrade package
var DefaultParsers ParserFactory = comtradeParsers{}

// guardedParse builds a parser with build, runs it, and converts both its
// error and any panic raised while building or parsing into an *Error. This
// is the only place a panic is recovered.
func guardedParse(build func() Parser) (rec *comtrade.Recording, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Debug().
				Str("panic", fmt.Sprint(r)).
				Bytes("stack", debug.Stack()).
				Msg("Recovered panic from COMTRADE parser")
			rec = nil
			err = newError(KindAbnormalTermination, panicMessage(r), panicCause(r))
		}
	}()

	rec, err = build().Parse()
	if err != nil {
		return nil, newError(KindParseError, parseErrorPrefix+fmt.Sprintf("%#v", err), err)
	}
	if rec == nil {
		return nil, newError(KindParseError, parseErrorPrefix+"parser returned no recording", nil)
	}
	return rec, nil
}

// panicMessage prefers a text payload and falls back to a fixed message
func panicMessage(r any) string {
	var nilPanic *runtime.PanicNilError
	switch v := r.(type) {
	case string:
		if v != "" {
			return v
		}
	case error:
		if !errors.As(v, &nilPanic) {
			return v.Error()
		}
	case fmt.Stringer:
		return v.String()
	}
	return panicFallbackMessage
}

func panicCause(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("panic: %v", r)
}
