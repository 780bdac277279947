package processing

import (
	"fmt"
	"time"

	"github.com/RMahshie/faultscope/internal/comtrade"
	"github.com/RMahshie/faultscope/pkg/models"
)

// stampLayout renders start and trigger times to the second; FormatStamp
// appends the fraction
const stampLayout = "2006-01-02 15:04:05"

// FormatStamp renders t as "2006-01-02 15:04:05" followed by a fraction of
// three, six or nine digits, the shortest that holds the nanoseconds. Whole
// seconds carry no fraction.
func FormatStamp(t time.Time) string {
	out := t.Format(stampLayout)
	switch ns := t.Nanosecond(); {
	case ns == 0:
		return out
	case ns%1_000_000 == 0:
		return out + fmt.Sprintf(".%03d", ns/1_000_000)
	case ns%1_000 == 0:
		return out + fmt.Sprintf(".%06d", ns/1_000)
	default:
		return out + fmt.Sprintf(".%09d", ns)
	}
}

// DataFormatTag returns the text tag of a data format. Binary16 is tagged
// "BINARY", the name the format has in configuration files.
func DataFormatTag(f comtrade.DataFormat) string {
	switch f {
	case comtrade.ASCII:
		return "ASCII"
	case comtrade.Binary16:
		return "BINARY"
	case comtrade.Binary32:
		return "BINARY32"
	case comtrade.Float32:
		return "FLOAT32"
	default:
		return f.String()
	}
}

// Flatten copies rec into a Snapshot. With a nil timestamps slice the result
// is metadata only; otherwise every channel carries a copy of its samples,
// which must line up with timestamps one to one.
func Flatten(rec *comtrade.Recording, timestamps []float64) (*models.Snapshot, error) {
	snap := &models.Snapshot{
		Station:           rec.StationName,
		RecordingDeviceID: rec.RecordingDeviceID,
		StartTime:         FormatStamp(rec.StartTime),
		TriggerTime:       FormatStamp(rec.TriggerTime),
		DataFormat:        DataFormatTag(rec.DataFormat),
		Frequency:         rec.LineFrequency,
		AnalogChannels:    make([]models.AnalogChannel, 0, len(rec.AnalogChannels)),
	}

	for _, ch := range rec.AnalogChannels {
		flat := models.AnalogChannel{
			Index:                          ch.Index,
			Name:                           ch.Name,
			Units:                          ch.Units,
			MinValue:                       ch.MinValue,
			MaxValue:                       ch.MaxValue,
			Multiplier:                     ch.Multiplier,
			OffsetAdder:                    ch.OffsetAdder,
			Phase:                          ch.Phase,
			CircuitComponentBeingMonitored: ch.CircuitComponentBeingMonitored,
			Skew:                           ch.Skew,
			Primary:                        ch.Primary,
			Secondary:                      ch.Secondary,
			PrimarySecondary:               ch.PrimarySecondary,
		}
		if timestamps != nil {
			if len(ch.Samples) != len(timestamps) {
				return nil, fmt.Errorf("channel %d (%s) has %d samples, sampling rates declare %d", ch.Index, ch.Name, len(ch.Samples), len(timestamps))
			}
			flat.Samples = append(make([]float64, 0, len(ch.Samples)), ch.Samples...)
		}
		snap.AnalogChannels = append(snap.AnalogChannels, flat)
	}

	if timestamps != nil {
		snap.Timestamps = append(make([]float64, 0, len(timestamps)), timestamps...)
	}
	return snap, nil
}
