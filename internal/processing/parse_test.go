package processing

import (
	"bytes"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RMahshie/faultscope/internal/comtrade"
)

func TestParse_SplitFiles(t *testing.T) {
	in := Input{Config: readFixture(t, "sample.cfg"), Data: readFixture(t, "sample.dat")}

	snap, err := Parse(in, nil, Options{})
	require.NoError(t, err)
	assert.Equal(t, "TEST STATION", snap.Station)
	assert.Equal(t, "ASCII", snap.DataFormat)
	assert.Len(t, snap.AnalogChannels, 2)
	assert.Nil(t, snap.Timestamps)

	snap, err = Parse(in, nil, Options{IncludeWaveform: true})
	require.NoError(t, err)
	require.Len(t, snap.Timestamps, 5)
	assert.Equal(t, []float64{6, 11, 16, 21, 26}, snap.AnalogChannels[0].Samples)
	assert.InDelta(t, 1299840137.0025, snap.Timestamps[3], 1e-6)
}

func TestParse_CombinedFile(t *testing.T) {
	var cff bytes.Buffer
	cff.WriteString("--- file type: CFG ---\n")
	cff.Write(readFixture(t, "sample.cfg"))
	cff.WriteString("--- file type: DAT ASCII ---\n")
	cff.Write(readFixture(t, "sample.dat"))

	snap, err := Parse(Input{Combined: cff.Bytes()}, nil, Options{IncludeWaveform: true})
	require.NoError(t, err)
	assert.Equal(t, "REC-01", snap.RecordingDeviceID)
	assert.Len(t, snap.Timestamps, 5)
}

func TestParse_Latin1Config(t *testing.T) {
	cfg := bytes.Replace(readFixture(t, "sample.cfg"), []byte("TEST STATION"), []byte("STR\xd6M"), 1)
	in := Input{Config: cfg, Data: readFixture(t, "sample.dat"), Encoding: "latin1"}

	snap, err := Parse(in, nil, Options{})
	require.NoError(t, err)
	assert.Equal(t, "STRÖM", snap.Station)
}

func TestParse_Dispatch(t *testing.T) {
	factory := &fakeFactory{parser: &fakeParser{rec: twoRateRecording()}}

	_, err := Parse(Input{Combined: []byte("C"), Config: []byte("A"), Data: []byte("B")}, factory, Options{})
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("C")}, factory.combined)
	assert.Empty(t, factory.cfgs)

	_, err = Parse(Input{Config: []byte("A"), Data: []byte("B")}, factory, Options{})
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("A")}, factory.cfgs)
	assert.Equal(t, [][]byte{[]byte("B")}, factory.dats)
}

func TestParse_Failures(t *testing.T) {
	badRate := twoRateRecording()
	badRate.SamplingRates[0].Rate = 0

	short := twoRateRecording()
	short.AnalogChannels[0].Samples = short.AnalogChannels[0].Samples[:2]

	tests := []struct {
		name     string
		input    Input
		parser   *fakeParser
		waveform bool
		wantKind ErrorKind
		wantMsg  string
	}{
		{
			name:     "invalid shape",
			input:    Input{Data: []byte("dat")},
			parser:   &fakeParser{rec: twoRateRecording()},
			wantKind: KindInvalidInputShape,
			wantMsg:  invalidShapeMessage,
		},
		{
			name:     "parser panic",
			input:    Input{Combined: []byte("cff")},
			parser:   &fakeParser{panics: true, panicValue: "boom"},
			wantKind: KindAbnormalTermination,
			wantMsg:  "boom",
		},
		{
			name:     "parser error",
			input:    Input{Combined: []byte("cff")},
			parser:   &fakeParser{err: &comtrade.ParseError{Section: "dat", Line: 4, Err: comtrade.ErrUnexpectedEOF}},
			wantKind: KindParseError,
			wantMsg:  `Error parsing COMTRADE file: ParseError{Section: "dat", Line: 4, Cause: "unexpected end of file"}`,
		},
		{
			name:     "bad sampling rate with waveform",
			input:    Input{Combined: []byte("cff")},
			parser:   &fakeParser{rec: badRate},
			waveform: true,
			wantKind: KindParseError,
		},
		{
			name:     "sample count mismatch",
			input:    Input{Combined: []byte("cff")},
			parser:   &fakeParser{rec: short},
			waveform: true,
			wantKind: KindParseError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, err := Parse(tt.input, &fakeFactory{parser: tt.parser}, Options{IncludeWaveform: tt.waveform})
			assert.Nil(t, snap)
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, KindOf(err))
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, err.Error())
			} else {
				assert.Contains(t, err.Error(), parseErrorPrefix)
			}
		})
	}
}

func TestParse_MetadataIgnoresRates(t *testing.T) {
	rec := twoRateRecording()
	rec.SamplingRates = []comtrade.SamplingRate{{Rate: 0, EndSample: 5}}

	snap, err := Parse(Input{Combined: []byte("cff")}, &fakeFactory{parser: &fakeParser{rec: rec}}, Options{})
	require.NoError(t, err)
	assert.Nil(t, snap.Timestamps)
}

func TestParse_OversizedRateTable(t *testing.T) {
	cfg := bytes.Replace(readFixture(t, "sample.cfg"), []byte("2000,5"), []byte("2000,1000000000"), 1)
	in := Input{Config: cfg, Data: readFixture(t, "sample.dat")}

	snap, err := Parse(in, nil, Options{IncludeWaveform: true})
	assert.Nil(t, snap)
	require.Error(t, err)
	assert.Equal(t, KindParseError, KindOf(err))
	assert.Equal(t, parseErrorPrefix+"sampling rates declare 1000000000 samples, data file holds 5", err.Error())

	snap, err = Parse(in, nil, Options{})
	require.NoError(t, err)
	assert.Nil(t, snap.Timestamps)
	assert.Len(t, snap.AnalogChannels, 2)
}

// panicFactory fails while building a parser
type panicFactory struct{}

func (panicFactory) Combined(io.Reader) Parser { panic("no combined parser") }

func (panicFactory) Split(io.Reader, io.Reader) Parser { panic("no split parser") }

func TestParse_PanickingFactory(t *testing.T) {
	snap, err := Parse(Input{Combined: []byte("cff")}, panicFactory{}, Options{})
	assert.Nil(t, snap)
	require.Error(t, err)
	assert.Equal(t, KindAbnormalTermination, KindOf(err))
	assert.Equal(t, "no combined parser", err.Error())

	_, err = Parse(Input{Config: []byte("cfg"), Data: []byte("dat")}, panicFactory{}, Options{})
	assert.Equal(t, KindAbnormalTermination, KindOf(err))
}

func TestParse_RatelessFile(t *testing.T) {
	cfg := bytes.Replace(readFixture(t, "sample.cfg"), []byte("\r\n2\r\n1000,3\r\n2000,5\r\n"), []byte("\r\n0\r\n0,5\r\n"), 1)
	in := Input{Config: cfg, Data: readFixture(t, "sample.dat")}

	rated, err := Parse(Input{Config: readFixture(t, "sample.cfg"), Data: readFixture(t, "sample.dat")}, nil, Options{IncludeWaveform: true})
	require.NoError(t, err)

	snap, err := Parse(in, nil, Options{IncludeWaveform: true})
	require.NoError(t, err)
	require.Len(t, snap.Timestamps, 5)
	for i := range snap.Timestamps {
		assert.InDelta(t, rated.Timestamps[i], snap.Timestamps[i], 1e-9)
	}
}

func TestParse_RatelessRecording(t *testing.T) {
	rec := twoRateRecording()
	rec.SamplingRates = []comtrade.SamplingRate{{Rate: 0, EndSample: 5}}
	rec.SampleTimestamps = []uint32{100, 300, 500, 700, 900}
	rec.TimeMultiplier = 0.5

	snap, err := Parse(Input{Combined: []byte("cff")}, &fakeFactory{parser: &fakeParser{rec: rec}}, Options{IncludeWaveform: true})
	require.NoError(t, err)
	require.Len(t, snap.Timestamps, 5)
	assert.InDelta(t, 1299840137.0, snap.Timestamps[0], 1e-6)
	assert.InDelta(t, 1299840137.0004, snap.Timestamps[4], 1e-6)

	rec.SampleTimestamps = rec.SampleTimestamps[:4]
	_, err = Parse(Input{Combined: []byte("cff")}, &fakeFactory{parser: &fakeParser{rec: rec}}, Options{IncludeWaveform: true})
	require.Error(t, err)
	assert.Equal(t, KindParseError, KindOf(err))
	assert.Contains(t, err.Error(), "4 timestamps")
}

func TestParse_Concurrent(t *testing.T) {
	in := Input{Config: readFixture(t, "sample.cfg"), Data: readFixture(t, "sample.dat")}
	want, err := Parse(in, nil, Options{IncludeWaveform: true})
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := Parse(in, nil, Options{IncludeWaveform: true})
			if err != nil {
				errs <- err
				return
			}
			assert.Equal(t, want, got)
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}
