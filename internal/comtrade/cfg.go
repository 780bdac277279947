package comtrade

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

const defaultRevisionYear = 1991

// stamp layouts by revision; 1991 files write mm/dd/yy
var (
	stampLayouts     = []string{"2/1/2006,15:04:05", "2/1/06,15:04:05"}
	stampLayouts1991 = []string{"1/2/06,15:04:05", "1/2/2006,15:04:05", "2/1/2006,15:04:05"}
)

type lineReader struct {
	sc *bufio.Scanner
	n  int
}

func newLineReader(r io.Reader) *lineReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &lineReader{sc: sc}
}

func (lr *lineReader) next() (string, error) {
	if lr.sc.Scan() {
		lr.n++
		return strings.TrimRight(lr.sc.Text(), "\r"), nil
	}
	if err := lr.sc.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// required reads the next line and reports a positioned error at EOF
func (lr *lineReader) required(what string) (string, error) {
	line, err := lr.next()
	if err == io.EOF {
		return "", cfgError(lr.n+1, "missing %s: %w", what, ErrUnexpectedEOF)
	}
	if err != nil {
		return "", &ParseError{Section: SectionCFG, Line: lr.n + 1, Err: err}
	}
	return line, nil
}

func splitFields(line string) []string {
	fields := strings.Split(line, ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}

// optionalFloat treats an empty field as zero
func optionalFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

// parseConfig reads the configuration grammar into a Recording without samples
// channelCapHint bounds preallocation from declared channel counts; every
// channel still needs its own line, so slices grow only with real input
const channelCapHint = 64

func parseConfig(r io.Reader) (*Recording, error) {
	lr := newLineReader(r)
	rec := &Recording{RevisionYear: defaultRevisionYear, TimeMultiplier: 1}

	line, err := lr.required("station line")
	if err != nil {
		return nil, err
	}
	fields := splitFields(strings.TrimPrefix(line, "\ufeff"))
	if len(fields) < 2 {
		return nil, cfgError(lr.n, "station line needs station name and device id, got %q", line)
	}
	rec.StationName = fields[0]
	rec.RecordingDeviceID = fields[1]
	if len(fields) > 2 && fields[2] != "" {
		year, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, cfgError(lr.n, "invalid revision year %q", fields[2])
		}
		rec.RevisionYear = year
	}

	line, err = lr.required("channel counts")
	if err != nil {
		return nil, err
	}
	total, analogs, digitals, err := parseChannelCounts(line)
	if err != nil {
		return nil, cfgError(lr.n, "%v", err)
	}
	if total != analogs+digitals {
		return nil, cfgError(lr.n, "channel total %d does not match %dA + %dD", total, analogs, digitals)
	}

	rec.AnalogChannels = make([]AnalogChannel, 0, min(analogs, channelCapHint))
	for i := 0; i < analogs; i++ {
		line, err := lr.required("analog channel")
		if err != nil {
			return nil, err
		}
		ch, err := parseAnalogChannel(line)
		if err != nil {
			return nil, cfgError(lr.n, "%v", err)
		}
		rec.AnalogChannels = append(rec.AnalogChannels, ch)
	}

	rec.DigitalChannels = make([]DigitalChannel, 0, min(digitals, channelCapHint))
	for i := 0; i < digitals; i++ {
		line, err := lr.required("digital channel")
		if err != nil {
			return nil, err
		}
		ch, err := parseDigitalChannel(line)
		if err != nil {
			return nil, cfgError(lr.n, "%v", err)
		}
		rec.DigitalChannels = append(rec.DigitalChannels, ch)
	}

	line, err = lr.required("line frequency")
	if err != nil {
		return nil, err
	}
	if rec.LineFrequency, err = strconv.ParseFloat(strings.TrimSpace(line), 64); err != nil {
		return nil, cfgError(lr.n, "invalid line frequency %q", line)
	}

	line, err = lr.required("sampling rate count")
	if err != nil {
		return nil, err
	}
	nrates, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || nrates < 0 {
		return nil, cfgError(lr.n, "invalid sampling rate count %q", line)
	}
	// nrates == 0 is still followed by one "0,endsamp" line
	rateLines := nrates
	if rateLines == 0 {
		rateLines = 1
	}
	for i := 0; i < rateLines; i++ {
		line, err := lr.required("sampling rate")
		if err != nil {
			return nil, err
		}
		f := splitFields(line)
		if len(f) < 2 {
			return nil, cfgError(lr.n, "sampling rate line needs samp,endsamp, got %q", line)
		}
		rate, err := strconv.ParseFloat(f[0], 64)
		if err != nil {
			return nil, cfgError(lr.n, "invalid sampling rate %q", f[0])
		}
		end, err := strconv.Atoi(f[1])
		if err != nil || end < 0 {
			return nil, cfgError(lr.n, "invalid end sample %q", f[1])
		}
		rec.SamplingRates = append(rec.SamplingRates, SamplingRate{Rate: rate, EndSample: end})
	}

	for _, target := range []*time.Time{&rec.StartTime, &rec.TriggerTime} {
		line, err := lr.required("date/time stamp")
		if err != nil {
			return nil, err
		}
		if *target, err = parseStamp(line, rec.RevisionYear); err != nil {
			return nil, cfgError(lr.n, "%v", err)
		}
	}

	line, err = lr.required("file type")
	if err != nil {
		return nil, err
	}
	if rec.DataFormat, err = parseDataFormat(line); err != nil {
		return nil, cfgError(lr.n, "%v", err)
	}

	// 1999 and later carry a time multiplier; 2013 lines after it are not needed
	line, err = lr.next()
	if err == nil && strings.TrimSpace(line) != "" {
		mult, perr := strconv.ParseFloat(strings.TrimSpace(line), 64)
		if perr != nil {
			return nil, cfgError(lr.n, "invalid time multiplier %q", line)
		}
		if mult > 0 {
			rec.TimeMultiplier = mult
		}
	} else if err != nil && err != io.EOF {
		return nil, &ParseError{Section: SectionCFG, Line: lr.n + 1, Err: err}
	}

	return rec, nil
}

func parseChannelCounts(line string) (total, analogs, digitals int, err error) {
	f := splitFields(line)
	if len(f) < 3 {
		return 0, 0, 0, fmt.Errorf("channel count line needs TT,##A,##D, got %q", line)
	}
	if total, err = strconv.Atoi(f[0]); err != nil {
		return 0, 0, 0, fmt.Errorf("invalid channel total %q", f[0])
	}
	if analogs, err = countWithSuffix(f[1], "A"); err != nil {
		return 0, 0, 0, err
	}
	if digitals, err = countWithSuffix(f[2], "D"); err != nil {
		return 0, 0, 0, err
	}
	return total, analogs, digitals, nil
}

func countWithSuffix(s, suffix string) (int, error) {
	upper := strings.ToUpper(s)
	if !strings.HasSuffix(upper, suffix) {
		return 0, fmt.Errorf("channel count %q lacks %q suffix", s, suffix)
	}
	n, err := strconv.Atoi(strings.TrimSuffix(upper, suffix))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid channel count %q", s)
	}
	return n, nil
}

func parseAnalogChannel(line string) (AnalogChannel, error) {
	f := splitFields(line)
	if len(f) < 10 {
		return AnalogChannel{}, fmt.Errorf("analog channel needs at least 10 fields, got %d", len(f))
	}
	var ch AnalogChannel
	var err error
	if ch.Index, err = strconv.Atoi(f[0]); err != nil {
		return ch, fmt.Errorf("invalid analog index %q", f[0])
	}
	ch.Name = f[1]
	ch.Phase = f[2]
	ch.CircuitComponentBeingMonitored = f[3]
	ch.Units = f[4]
	if ch.Multiplier, err = strconv.ParseFloat(f[5], 64); err != nil {
		return ch, fmt.Errorf("invalid multiplier %q on channel %d", f[5], ch.Index)
	}
	if ch.OffsetAdder, err = strconv.ParseFloat(f[6], 64); err != nil {
		return ch, fmt.Errorf("invalid offset adder %q on channel %d", f[6], ch.Index)
	}
	if ch.Skew, err = optionalFloat(f[7]); err != nil {
		return ch, fmt.Errorf("invalid skew %q on channel %d", f[7], ch.Index)
	}
	if ch.MinValue, err = optionalFloat(f[8]); err != nil {
		return ch, fmt.Errorf("invalid min %q on channel %d", f[8], ch.Index)
	}
	if ch.MaxValue, err = optionalFloat(f[9]); err != nil {
		return ch, fmt.Errorf("invalid max %q on channel %d", f[9], ch.Index)
	}
	if len(f) >= 13 {
		if ch.Primary, err = optionalFloat(f[10]); err != nil {
			return ch, fmt.Errorf("invalid primary ratio %q on channel %d", f[10], ch.Index)
		}
		if ch.Secondary, err = optionalFloat(f[11]); err != nil {
			return ch, fmt.Errorf("invalid secondary ratio %q on channel %d", f[11], ch.Index)
		}
		ch.PrimarySecondary = strings.ToUpper(f[12])
	}
	return ch, nil
}

func parseDigitalChannel(line string) (DigitalChannel, error) {
	f := splitFields(line)
	if len(f) < 3 {
		return DigitalChannel{}, fmt.Errorf("digital channel needs at least 3 fields, got %d", len(f))
	}
	var ch DigitalChannel
	var err error
	if ch.Index, err = strconv.Atoi(f[0]); err != nil {
		return ch, fmt.Errorf("invalid digital index %q", f[0])
	}
	ch.Name = f[1]
	state := f[2]
	if len(f) >= 5 {
		ch.Phase = f[2]
		ch.CircuitComponentBeingMonitored = f[3]
		state = f[4]
	}
	if state != "" {
		if ch.NormalState, err = strconv.Atoi(state); err != nil {
			return ch, fmt.Errorf("invalid normal state %q on channel %d", state, ch.Index)
		}
	}
	return ch, nil
}

func parseStamp(line string, revision int) (time.Time, error) {
	f := splitFields(line)
	if len(f) != 2 {
		return time.Time{}, fmt.Errorf("date/time stamp needs date,time, got %q", line)
	}
	value := f[0] + "," + f[1]
	layouts := stampLayouts
	if revision <= defaultRevisionYear {
		layouts = stampLayouts1991
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date/time stamp %q", line)
}

func parseDataFormat(line string) (DataFormat, error) {
	switch strings.ToUpper(strings.TrimSpace(line)) {
	case "ASCII":
		return ASCII, nil
	case "BINARY":
		return Binary16, nil
	case "BINARY32":
		return Binary32, nil
	case "FLOAT32":
		return Float32, nil
	default:
		return 0, fmt.Errorf("unknown file type %q", strings.TrimSpace(line))
	}
}
