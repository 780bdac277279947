package processing

import (
	"fmt"
	"time"

	"github.com/RMahshie/faultscope/internal/comtrade"
)

const microsPerSecond = 1_000_000.0

// timestampCapHint bounds preallocation; callers check the declared count
// against decoded samples before asking for timestamps
const timestampCapHint = 4096

// RelativeMicros returns the offset of every sample from the first one, in
// microseconds, honoring each segment's own rate. The first sample is at 0
// and every later sample follows its predecessor by the period of the
// segment it belongs to. Offsets are computed from the segment start so
// rounding does not accumulate along long segments.
func RelativeMicros(rates []comtrade.SamplingRate) ([]float64, error) {
	total := 0
	lastBoundary := 0
	for i, seg := range rates {
		if !(seg.Rate > 0) {
			return nil, fmt.Errorf("sampling rate %d is %v Hz, need a positive rate", i+1, seg.Rate)
		}
		if seg.EndSample < lastBoundary {
			return nil, fmt.Errorf("sampling rate %d ends at sample %d, before previous end %d", i+1, seg.EndSample, lastBoundary)
		}
		total += seg.EndSample - lastBoundary
		lastBoundary = seg.EndSample
	}

	out := make([]float64, 0, min(total, timestampCapHint))
	lastBoundary = 0
	for _, seg := range rates {
		period := microsPerSecond / seg.Rate
		count := seg.EndSample - lastBoundary
		base := 0.0
		step := 0
		if len(out) > 0 {
			base = out[len(out)-1]
			step = 1
		}
		for i := 0; i < count; i++ {
			out = append(out, base+float64(i+step)*period)
		}
		lastBoundary = seg.EndSample
	}
	return out, nil
}

// StampMicros returns sample offsets from the data file's own timestamp
// column, used when the configuration declares no fixed rate. Offsets are
// relative to the first sample and scaled by multiplier; they must strictly
// increase.
func StampMicros(stamps []uint32, multiplier float64) ([]float64, error) {
	if !(multiplier > 0) {
		return nil, fmt.Errorf("time multiplier is %v, need a positive value", multiplier)
	}
	out := make([]float64, len(stamps))
	for i, ts := range stamps {
		out[i] = float64(int64(ts)-int64(stamps[0])) * multiplier
		if i > 0 && out[i] <= out[i-1] {
			return nil, fmt.Errorf("sample %d timestamp %d does not follow %d", i+1, ts, stamps[i-1])
		}
	}
	return out, nil
}

// Rateless reports whether rates declare no fixed sampling rate, the
// "0 rates" form whose sample times come from the data file
func Rateless(rates []comtrade.SamplingRate) bool {
	return len(rates) == 1 && rates[0].Rate == 0
}

// Timestamps converts the sampling-rate table into absolute sample times in
// seconds since the Unix epoch, anchored at trigger truncated to the whole
// second.
func Timestamps(trigger time.Time, rates []comtrade.SamplingRate) ([]float64, error) {
	rel, err := RelativeMicros(rates)
	if err != nil {
		return nil, err
	}
	return absolute(trigger, rel), nil
}

// RecordingTimestamps returns absolute sample times for rec, from its rate
// table or, for a rateless recording, from the data file timestamps
func RecordingTimestamps(rec *comtrade.Recording) ([]float64, error) {
	if !Rateless(rec.SamplingRates) {
		return Timestamps(rec.TriggerTime, rec.SamplingRates)
	}
	rel, err := StampMicros(rec.SampleTimestamps, rec.TimeMultiplier)
	if err != nil {
		return nil, err
	}
	return absolute(rec.TriggerTime, rel), nil
}

// absolute rewrites rel in place as seconds since the epoch
func absolute(trigger time.Time, rel []float64) []float64 {
	anchor := float64(trigger.Truncate(time.Second).Unix())
	for i, us := range rel {
		rel[i] = anchor + us/microsPerSecond
	}
	return rel
}
