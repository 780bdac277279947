package processing

import (
	"io"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/RMahshie/faultscope/internal/comtrade"
)

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile("../comtrade/testdata/" + name)
	require.NoError(t, err)
	return data
}

// fakeParser returns a canned result, or panics with panicValue when panics is set
type fakeParser struct {
	rec        *comtrade.Recording
	err        error
	panics     bool
	panicValue any
}

func (p *fakeParser) Parse() (*comtrade.Recording, error) {
	if p.panics {
		panic(p.panicValue)
	}
	return p.rec, p.err
}

// fakeFactory hands out one parser and records how it was asked for it
type fakeFactory struct {
	parser *fakeParser

	mu       sync.Mutex
	combined [][]byte
	cfgs     [][]byte
	dats     [][]byte
}

func (f *fakeFactory) Combined(cff io.Reader) Parser {
	data, _ := io.ReadAll(cff)
	f.mu.Lock()
	f.combined = append(f.combined, data)
	f.mu.Unlock()
	return f.parser
}

func (f *fakeFactory) Split(cfg, dat io.Reader) Parser {
	c, _ := io.ReadAll(cfg)
	d, _ := io.ReadAll(dat)
	f.mu.Lock()
	f.cfgs = append(f.cfgs, c)
	f.dats = append(f.dats, d)
	f.mu.Unlock()
	return f.parser
}

// twoRateRecording mirrors testdata/sample.cfg with its data file decoded
func twoRateRecording() *comtrade.Recording {
	return &comtrade.Recording{
		StationName:       "TEST STATION",
		RecordingDeviceID: "REC-01",
		RevisionYear:      1999,
		AnalogChannels: []comtrade.AnalogChannel{
			{Index: 1, Name: "IA", Phase: "A", CircuitComponentBeingMonitored: "Line1", Units: "A",
				Multiplier: 0.5, OffsetAdder: 1, MinValue: -32767, MaxValue: 32767,
				Skew: 2.5, Primary: 1000, Secondary: 1, PrimarySecondary: "P",
				Samples: []float64{6, 11, 16, 21, 26}},
			{Index: 2, Name: "VA", Phase: "A", CircuitComponentBeingMonitored: "Line1", Units: "kV",
				Multiplier: 0.01, MinValue: -32767, MaxValue: 32767,
				Primary: 110, Secondary: 0.11, PrimarySecondary: "S",
				Samples: []float64{1, 2, 3, 4, 5}},
		},
		LineFrequency: 50,
		SamplingRates: []comtrade.SamplingRate{{Rate: 1000, EndSample: 3}, {Rate: 2000, EndSample: 5}},
		StartTime:     time.Date(2011, 3, 11, 10, 42, 17, 0, time.UTC),
		TriggerTime:   time.Date(2011, 3, 11, 10, 42, 17, 250000000, time.UTC),
		DataFormat:    comtrade.ASCII,
	}
}
