package comtrade

import (
	"fmt"
	"time"
)

// DataFormat identifies how sample values are encoded in the data file
type DataFormat int

const (
	ASCII DataFormat = iota
	Binary16
	Binary32
	Float32
)

func (f DataFormat) String() string {
	switch f {
	case ASCII:
		return "ascii"
	case Binary16:
		return "binary"
	case Binary32:
		return "binary32"
	case Float32:
		return "float32"
	default:
		return fmt.Sprintf("DataFormat(%d)", int(f))
	}
}

// analogWidth returns the byte width of one analog value in a binary record
func (f DataFormat) analogWidth() int {
	switch f {
	case Binary16:
		return 2
	case Binary32, Float32:
		return 4
	default:
		return 0
	}
}

// SamplingRate is one segment of the sampling-rate table. Samples after the
// previous segment's EndSample up to and including this EndSample were taken
// at Rate hertz.
type SamplingRate struct {
	Rate      float64
	EndSample int
}

// AnalogChannel describes one analog channel and, once the data file has
// been decoded, its scaled samples.
type AnalogChannel struct {
	Index                          int
	Name                           string
	Phase                          string
	CircuitComponentBeingMonitored string
	Units                          string
	Multiplier                     float64 // a
	OffsetAdder                    float64 // b
	Skew                           float64 // microseconds
	MinValue                       float64
	MaxValue                       float64
	Primary                        float64
	Secondary                      float64
	PrimarySecondary               string
	Samples                        []float64
}

// DigitalChannel describes one status channel. Only its position matters for
// decoding; values are kept for completeness.
type DigitalChannel struct {
	Index                          int
	Name                           string
	Phase                          string
	CircuitComponentBeingMonitored string
	NormalState                    int
	Samples                        []uint8
}

// Recording is the decoded content of a COMTRADE record
type Recording struct {
	StationName       string
	RecordingDeviceID string
	RevisionYear      int
	AnalogChannels    []AnalogChannel
	DigitalChannels   []DigitalChannel
	LineFrequency     float64
	SamplingRates     []SamplingRate
	StartTime         time.Time
	TriggerTime       time.Time
	DataFormat        DataFormat
	TimeMultiplier    float64
	SampleNumbers     []uint32
	SampleTimestamps  []uint32
}

// TotalSamples is the sample count declared by the sampling-rate table
func (r *Recording) TotalSamples() int {
	if len(r.SamplingRates) == 0 {
		return 0
	}
	return r.SamplingRates[len(r.SamplingRates)-1].EndSample
}
