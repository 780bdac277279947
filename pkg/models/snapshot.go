package models

// Snapshot is the flattened, serialization-ready view of one COMTRADE
// recording handed to the viewer. Field names are part of the host contract.
// A metadata-only snapshot has nil Timestamps and channel Samples, which are
// left out of the JSON; a waveform snapshot always carries both keys, as
// empty arrays when the recording holds no samples.
type Snapshot struct {
	Station           string          `json:"station" doc:"Station name"`
	RecordingDeviceID string          `json:"recording_device_id" doc:"Recording device identifier"`
	StartTime         string          `json:"start_time" example:"2011-03-11 10:42:17" doc:"Time of the first sample"`
	TriggerTime       string          `json:"trigger_time" example:"2011-03-11 10:42:17.250" doc:"Time of the trigger point"`
	DataFormat        string          `json:"data_format" enum:"ASCII,BINARY,BINARY32,FLOAT32" doc:"Data file encoding"`
	Frequency         float64         `json:"frequency" doc:"Nominal line frequency in Hz"`
	AnalogChannels    []AnalogChannel `json:"analog_channels" doc:"Analog channels in file order"`
	Timestamps        []float64       `json:"timestamps,omitzero" required:"false" doc:"Absolute sample times in seconds since epoch, aligned with channel samples"`
}

// AnalogChannel is the flattened form of one analog channel
type AnalogChannel struct {
	Index                          int       `json:"index" doc:"Channel index from the configuration file"`
	Name                           string    `json:"name" doc:"Channel identifier"`
	Units                          string    `json:"units" doc:"Channel units"`
	MinValue                       float64   `json:"min_value" doc:"Minimum data value"`
	MaxValue                       float64   `json:"max_value" doc:"Maximum data value"`
	Multiplier                     float64   `json:"multiplier" doc:"Channel multiplier (a)"`
	OffsetAdder                    float64   `json:"offset_adder" doc:"Channel offset adder (b)"`
	Phase                          string    `json:"phase" doc:"Channel phase identification"`
	CircuitComponentBeingMonitored string    `json:"circuit_component_being_monitored" doc:"Circuit component being monitored"`
	Skew                           float64   `json:"skew" doc:"Sampling skew from the start of the sample period, microseconds"`
	Primary                        float64   `json:"primary" doc:"Transformer primary ratio factor"`
	Secondary                      float64   `json:"secondary" doc:"Transformer secondary ratio factor"`
	PrimarySecondary               string    `json:"primary_secondary" doc:"Whether values are primary (P) or secondary (S) quantities"`
	Samples                        []float64 `json:"samples,omitzero" required:"false" doc:"Scaled sample values"`
}

// SampleCount returns the number of waveform samples carried, zero for a
// metadata-only snapshot
func (s *Snapshot) SampleCount() int {
	return len(s.Timestamps)
}

// MetadataOnly returns a copy of s without samples or timestamps
func (s *Snapshot) MetadataOnly() *Snapshot {
	out := *s
	out.Timestamps = nil
	out.AnalogChannels = make([]AnalogChannel, len(s.AnalogChannels))
	for i, ch := range s.AnalogChannels {
		ch.Samples = nil
		out.AnalogChannels[i] = ch
	}
	return &out
}
