// Package comtrade decodes COMTRADE disturbance recordings (IEEE C37.111
// revisions 1991, 1999 and 2013) from either a CFG+DAT pair or a single
// combined CFF file.
package comtrade

import (
	"bytes"
	"io"
)

// Parser decodes one recording. Construct it with NewCombinedParser or
// NewSplitParser; a Parser is single use.
type Parser struct {
	combined io.Reader
	cfg      io.Reader
	dat      io.Reader
}

// NewCombinedParser returns a parser for a combined CFF file
func NewCombinedParser(cff io.Reader) *Parser {
	return &Parser{combined: cff}
}

// NewSplitParser returns a parser for a configuration reader and its data
// file reader. The configuration must already be UTF-8 text.
func NewSplitParser(cfg, dat io.Reader) *Parser {
	return &Parser{cfg: cfg, dat: dat}
}

// Parse decodes the configuration and all samples. Failures are *ParseError.
func (p *Parser) Parse() (*Recording, error) {
	cfg, dat := p.cfg, p.dat
	if p.combined != nil {
		raw, err := io.ReadAll(p.combined)
		if err != nil {
			return nil, &ParseError{Section: SectionCFF, Err: err}
		}
		cfgBytes, datBytes, err := splitCombined(raw)
		if err != nil {
			return nil, err
		}
		cfg, dat = bytes.NewReader(cfgBytes), bytes.NewReader(datBytes)
	}

	rec, err := parseConfig(cfg)
	if err != nil {
		return nil, err
	}
	if err := decodeData(rec, dat); err != nil {
		return nil, err
	}
	return rec, nil
}
