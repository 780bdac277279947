package processing

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RMahshie/faultscope/internal/comtrade"
)

type stationName string

func (s stationName) String() string { return "station " + string(s) }

func TestGuardedParse_Panics(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"string payload", "boom", "boom"},
		{"empty string payload", "", panicFallbackMessage},
		{"error payload", errors.New("index out of range"), "index out of range"},
		{"stringer payload", stationName("X"), "station X"},
		{"integer payload", 42, panicFallbackMessage},
		{"nil payload", nil, panicFallbackMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := guardedParse(build(&fakeParser{panics: true, panicValue: tt.value}))
			assert.Nil(t, rec)
			require.Error(t, err)
			assert.Equal(t, KindAbnormalTermination, KindOf(err))
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestGuardedParse_RuntimePanic(t *testing.T) {
	var samples []float64

	rec, err := guardedParse(build(parserFunc(func() (*comtrade.Recording, error) {
		_ = samples[3]
		return nil, nil
	})))
	assert.Nil(t, rec)
	require.Error(t, err)
	assert.Equal(t, KindAbnormalTermination, KindOf(err))
	assert.Contains(t, err.Error(), "index out of range")
}

func TestGuardedParse_ParseError(t *testing.T) {
	cause := &comtrade.ParseError{Section: comtrade.SectionCFG, Line: 2, Err: errors.New("invalid channel count")}
	_, err := guardedParse(build(&fakeParser{err: cause}))
	require.Error(t, err)

	assert.Equal(t, KindParseError, KindOf(err))
	assert.Equal(t, `Error parsing COMTRADE file: ParseError{Section: "cfg", Line: 2, Cause: "invalid channel count"}`, err.Error())

	var perr *comtrade.ParseError
	assert.True(t, errors.As(err, &perr))
}

func TestGuardedParse_PlainError(t *testing.T) {
	_, err := guardedParse(build(&fakeParser{err: fmt.Errorf("short read")}))
	require.Error(t, err)
	assert.Equal(t, KindParseError, KindOf(err))
	assert.Contains(t, err.Error(), parseErrorPrefix)
}

func TestGuardedParse_NilRecording(t *testing.T) {
	_, err := guardedParse(build(&fakeParser{}))
	require.Error(t, err)
	assert.Equal(t, KindParseError, KindOf(err))
}

func TestGuardedParse_Success(t *testing.T) {
	want := twoRateRecording()
	rec, err := guardedParse(build(&fakeParser{rec: want}))
	require.NoError(t, err)
	assert.Same(t, want, rec)
}

func TestGuardedParse_PanickingConstructor(t *testing.T) {
	rec, err := guardedParse(func() Parser {
		panic("cannot build parser")
	})
	assert.Nil(t, rec)
	require.Error(t, err)
	assert.Equal(t, KindAbnormalTermination, KindOf(err))
	assert.Equal(t, "cannot build parser", err.Error())
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, ErrorKind(""), KindOf(errors.New("other")))
	assert.Equal(t, ErrorKind(""), KindOf(nil))
	wrapped := fmt.Errorf("handler: %w", newError(KindParseError, "x", nil))
	assert.Equal(t, KindParseError, KindOf(wrapped))
}

// build returns a constructor handing out p
func build(p Parser) func() Parser {
	return func() Parser { return p }
}

type parserFunc func() (*comtrade.Recording, error)

func (f parserFunc) Parse() (*comtrade.Recording, error) { return f() }
