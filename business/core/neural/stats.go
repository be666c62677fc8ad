package neural

import (
	"fmt"
	"math"
)

// ChannelStatistics summarizes the samples of a single channel.
type ChannelStatistics struct {
	Channel string  `json:"channel"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Mean    float64 `json:"mean"`
	StdDev  float64 `json:"std_dev"`
}

// ChannelStats computes basic statistics for the named channel. The
// standard deviation is the population form, not the sample form.
func (ts *TimeSeries) ChannelStats(name string) (ChannelStatistics, error) {
	data, found := ts.ChannelData(name)
	if !found {
		return ChannelStatistics{}, fmt.Errorf("channel %q not found", name)
	}

	if len(data) == 0 {
		return ChannelStatistics{}, fmt.Errorf("channel %q has no samples", name)
	}

	minVal := data[0]
	maxVal := data[0]
	var sum float64

	for _, value := range data {
		minVal = math.Min(minVal, value)
		maxVal = math.Max(maxVal, value)
		sum += value
	}

	mean := sum / float64(len(data))

	var varianceSum float64
	for _, value := range data {
		varianceSum += (value - mean) * (value - mean)
	}
	variance := varianceSum / float64(len(data))

	return ChannelStatistics{
		Channel: name,
		Min:     minVal,
		Max:     maxVal,
		Mean:    mean,
		StdDev:  math.Sqrt(variance),
	}, nil
}
