package comtrade

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// sampleCapHint bounds preallocation from the declared sample count. The
// rate table is not trusted: slices grow with the records actually decoded.
const sampleCapHint = 4096

// decodeData fills the sample slices of rec from a data file in rec.DataFormat
func decodeData(rec *Recording, r io.Reader) error {
	expected := min(rec.TotalSamples(), sampleCapHint)
	for i := range rec.AnalogChannels {
		rec.AnalogChannels[i].Samples = make([]float64, 0, expected)
	}
	for i := range rec.DigitalChannels {
		rec.DigitalChannels[i].Samples = make([]uint8, 0, expected)
	}
	rec.SampleNumbers = make([]uint32, 0, expected)
	rec.SampleTimestamps = make([]uint32, 0, expected)

	if rec.DataFormat == ASCII {
		return decodeASCII(rec, r)
	}
	return decodeBinary(rec, r)
}

func decodeASCII(rec *Recording, r io.Reader) error {
	nA, nD := len(rec.AnalogChannels), len(rec.DigitalChannels)
	lr := newLineReader(r)
	for {
		line, err := lr.next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return &ParseError{Section: SectionDAT, Line: lr.n + 1, Err: err}
		}
		line = strings.TrimSpace(line)
		// some writers terminate the file with a SUB character
		if line == "" || line == "\x1a" {
			continue
		}

		f := splitFields(line)
		if len(f) < 2+nA+nD {
			return datError(lr.n, "expected %d fields, got %d", 2+nA+nD, len(f))
		}
		n, err := strconv.ParseUint(f[0], 10, 32)
		if err != nil {
			return datError(lr.n, "invalid sample number %q", f[0])
		}
		var ts uint64
		if f[1] != "" {
			if ts, err = strconv.ParseUint(f[1], 10, 32); err != nil {
				return datError(lr.n, "invalid timestamp %q", f[1])
			}
		}
		rec.SampleNumbers = append(rec.SampleNumbers, uint32(n))
		rec.SampleTimestamps = append(rec.SampleTimestamps, uint32(ts))

		for i := 0; i < nA; i++ {
			raw, err := strconv.ParseFloat(f[2+i], 64)
			if err != nil || math.IsNaN(raw) || math.IsInf(raw, 0) {
				return datError(lr.n, "invalid value %q for analog channel %d", f[2+i], rec.AnalogChannels[i].Index)
			}
			ch := &rec.AnalogChannels[i]
			ch.Samples = append(ch.Samples, ch.Multiplier*raw+ch.OffsetAdder)
		}
		for i := 0; i < nD; i++ {
			v, err := strconv.ParseUint(f[2+nA+i], 10, 8)
			if err != nil || v > 1 {
				return datError(lr.n, "invalid value %q for digital channel %d", f[2+nA+i], rec.DigitalChannels[i].Index)
			}
			rec.DigitalChannels[i].Samples = append(rec.DigitalChannels[i].Samples, uint8(v))
		}
	}
}

func decodeBinary(rec *Recording, r io.Reader) error {
	nA, nD := len(rec.AnalogChannels), len(rec.DigitalChannels)
	width := rec.DataFormat.analogWidth()
	words := (nD + 15) / 16
	size := 8 + nA*width + 2*words

	br := bufio.NewReader(r)
	buf := make([]byte, size)
	for record := 1; ; record++ {
		_, err := io.ReadFull(br, buf)
		if err == io.EOF {
			return nil
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return &ParseError{Section: SectionDAT, Err: fmt.Errorf("record %d truncated (record size %d bytes): %w", record, size, ErrUnexpectedEOF)}
		}
		if err != nil {
			return &ParseError{Section: SectionDAT, Err: err}
		}

		rec.SampleNumbers = append(rec.SampleNumbers, binary.LittleEndian.Uint32(buf[0:4]))
		rec.SampleTimestamps = append(rec.SampleTimestamps, binary.LittleEndian.Uint32(buf[4:8]))

		off := 8
		for i := 0; i < nA; i++ {
			var raw float64
			switch rec.DataFormat {
			case Binary16:
				raw = float64(int16(binary.LittleEndian.Uint16(buf[off:])))
			case Binary32:
				raw = float64(int32(binary.LittleEndian.Uint32(buf[off:])))
			case Float32:
				raw = float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[off:])))
				if math.IsNaN(raw) || math.IsInf(raw, 0) {
					return &ParseError{Section: SectionDAT, Err: fmt.Errorf("record %d: non-finite value on analog channel %d", record, rec.AnalogChannels[i].Index)}
				}
			}
			off += width
			ch := &rec.AnalogChannels[i]
			ch.Samples = append(ch.Samples, ch.Multiplier*raw+ch.OffsetAdder)
		}
		for i := 0; i < nD; i++ {
			word := binary.LittleEndian.Uint16(buf[off+2*(i/16):])
			bit := uint8(word>>(uint(i)%16)) & 1
			rec.DigitalChannels[i].Samples = append(rec.DigitalChannels[i].Samples, bit)
		}
	}
}
