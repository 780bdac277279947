package comtrade

import (
	"errors"
	"fmt"
)

// Section names used in ParseError
const (
	SectionCFG = "cfg"
	SectionDAT = "dat"
	SectionCFF = "cff"
)

var (
	ErrUnexpectedEOF   = errors.New("unexpected end of file")
	ErrNoDataSection   = errors.New("no DAT section in combined file")
	ErrNoConfigSection = errors.New("no CFG section in combined file")
)

// ParseError is the structured failure returned by Parser.Parse
type ParseError struct {
	Section string
	Line    int // 1-based; 0 when not line oriented
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s line %d: %v", e.Section, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Section, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// GoString renders the error for %#v, used where a debug view of the cause is wanted
func (e *ParseError) GoString() string {
	return fmt.Sprintf("ParseError{Section: %q, Line: %d, Cause: %q}", e.Section, e.Line, e.Err.Error())
}

func cfgError(line int, format string, args ...any) *ParseError {
	return &ParseError{Section: SectionCFG, Line: line, Err: fmt.Errorf(format, args...)}
}

func datError(line int, format string, args ...any) *ParseError {
	return &ParseError{Section: SectionDAT, Line: line, Err: fmt.Errorf(format, args...)}
}
