package comtrade

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// sectionHeader matches "--- file type: CFG ---" and "--- file type: DAT BINARY: 4096 ---"
var sectionHeader = regexp.MustCompile(`(?i)^-{3}\s*file\s+type\s*:\s*([a-z]+)(?:\s+([a-z0-9]+))?\s*(?::\s*(\d+))?\s*-{3}$`)

// splitCombined extracts the CFG and DAT sections from a combined (CFF) file.
// Binary DAT sections carry a byte count and may contain newlines; every
// other section runs to the next header.
func splitCombined(data []byte) (cfg, dat []byte, err error) {
	var (
		current string
		start   int
		haveCfg bool
		haveDat bool
		lineNo  int
	)
	closeSection := func(end int) {
		switch current {
		case "CFG":
			cfg = data[start:end]
			haveCfg = true
		case "DAT":
			if !haveDat {
				dat = data[start:end]
				haveDat = true
			}
		}
	}

	pos := 0
	for pos < len(data) {
		end := bytes.IndexByte(data[pos:], '\n')
		next := len(data)
		if end >= 0 {
			end += pos
			next = end + 1
		} else {
			end = len(data)
		}
		lineNo++
		line := strings.TrimSpace(string(data[pos:end]))

		m := sectionHeader.FindStringSubmatch(line)
		if m == nil {
			pos = next
			continue
		}
		closeSection(pos)
		current = strings.ToUpper(m[1])
		start = next

		if current == "DAT" && m[2] != "" && !strings.EqualFold(m[2], "ASCII") {
			if m[3] == "" {
				return nil, nil, &ParseError{Section: SectionCFF, Line: lineNo, Err: fmt.Errorf("binary DAT section without byte count")}
			}
			n, convErr := strconv.Atoi(m[3])
			if convErr != nil || n < 0 || next+n > len(data) {
				return nil, nil, &ParseError{Section: SectionCFF, Line: lineNo, Err: fmt.Errorf("binary DAT section declares %s bytes, %d available", m[3], len(data)-next)}
			}
			dat = data[next : next+n]
			haveDat = true
			current = ""
			pos = next + n
			continue
		}
		pos = next
	}
	closeSection(len(data))

	if !haveCfg {
		return nil, nil, &ParseError{Section: SectionCFF, Err: ErrNoConfigSection}
	}
	if !haveDat {
		return nil, nil, &ParseError{Section: SectionCFF, Err: ErrNoDataSection}
	}
	return cfg, dat, nil
}
