package processing

import (
	"fmt"

	"github.com/RMahshie/faultscope/internal/comtrade"
	"github.com/RMahshie/faultscope/pkg/models"
)

// Options controls the shape of the Snapshot
type Options struct {
	IncludeWaveform bool
}

// Parse turns raw COMTRADE files into a Snapshot. It either returns a
// complete Snapshot or a single *Error whose message is meant for display.
// Parse keeps no state between calls and is safe for concurrent use as long
// as factory is.
func Parse(in Input, factory ParserFactory, opts Options) (*models.Snapshot, error) {
	if factory == nil {
		factory = DefaultParsers
	}

	shape, err := Normalize(in)
	if err != nil {
		return nil, err
	}

	rec, err := guardedParse(func() Parser { return shape.parser(factory) })
	if err != nil {
		return nil, err
	}

	var timestamps []float64
	if opts.IncludeWaveform {
		if err := checkSampleCount(rec); err != nil {
			return nil, newError(KindParseError, parseErrorPrefix+err.Error(), err)
		}
		if timestamps, err = RecordingTimestamps(rec); err != nil {
			return nil, newError(KindParseError, parseErrorPrefix+err.Error(), err)
		}
	}

	snap, err := Flatten(rec, timestamps)
	if err != nil {
		return nil, newError(KindParseError, parseErrorPrefix+err.Error(), err)
	}
	return snap, nil
}

// checkSampleCount compares the decoded sample count with the count the
// rate table declares, before any timestamp is generated from it
func checkSampleCount(rec *comtrade.Recording) error {
	decoded := len(rec.SampleNumbers)
	switch {
	case len(rec.AnalogChannels) > 0:
		decoded = len(rec.AnalogChannels[0].Samples)
	case len(rec.DigitalChannels) > 0:
		decoded = len(rec.DigitalChannels[0].Samples)
	}
	if declared := rec.TotalSamples(); decoded != declared {
		return fmt.Errorf("sampling rates declare %d samples, data file holds %d", declared, decoded)
	}
	if Rateless(rec.SamplingRates) && len(rec.SampleTimestamps) != decoded {
		return fmt.Errorf("data file holds %d samples but %d timestamps", decoded, len(rec.SampleTimestamps))
	}
	return nil
}
