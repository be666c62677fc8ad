package neural_test

import (
	"testing"

	"github.com/neuradesci/ledger/business/core/neural"
	"github.com/stretchr/testify/require"
)

func TestAddChannel(t *testing.T) {
	ts := neural.NewTimeSeries(neural.FormatEEG, 250.0, "uV")

	require.NoError(t, ts.AddChannel("Fz", []float64{1, 2, 3}))
	require.NoError(t, ts.AddChannel("Cz", []float64{4, 5, 6}))

	data, found := ts.ChannelData("Cz")
	require.True(t, found)
	require.Equal(t, []float64{4, 5, 6}, data)

	_, found = ts.ChannelData("Pz")
	require.False(t, found)
}

func TestChannelLengthGuards(t *testing.T) {
	ts := neural.NewTimeSeries(neural.FormatEEG, 250.0, "uV")

	require.NoError(t, ts.SetTimestamps([]float64{0, 0.004, 0.008}))
	require.Error(t, ts.AddChannel("Fz", []float64{1, 2}))
	require.NoError(t, ts.AddChannel("Fz", []float64{1, 2, 3}))

	// Once channel data exists, the timestamp vector must stay in step.
	require.Error(t, ts.SetTimestamps([]float64{0, 0.004}))
}

func TestSetTimestampsEmptyChannel(t *testing.T) {
	ts := neural.NewTimeSeries(neural.FormatEEG, 250.0, "uV")

	// A zero-sample channel still pins the expected length: any non-empty
	// timestamp vector is a mismatch.
	require.NoError(t, ts.AddChannel("Fz", nil))
	require.Error(t, ts.SetTimestamps([]float64{0, 0.004, 0.008}))
	require.NoError(t, ts.SetTimestamps(nil))
}

func TestGenerateTimestamps(t *testing.T) {
	ts := neural.NewTimeSeries(neural.FormatMEG, 1000.0, "fT")

	ts.GenerateTimestamps(2.0, 4)

	require.InDeltaSlice(t, []float64{2.0, 2.001, 2.002, 2.003}, ts.Timestamps, 1e-9)
}

func TestChannelStats(t *testing.T) {
	ts := neural.NewTimeSeries(neural.FormatEEG, 250.0, "uV")
	require.NoError(t, ts.AddChannel("Fz", []float64{2, 4, 4, 4, 5, 5, 7, 9}))

	stats, err := ts.ChannelStats("Fz")
	require.NoError(t, err)
	require.Equal(t, 2.0, stats.Min)
	require.Equal(t, 9.0, stats.Max)
	require.Equal(t, 5.0, stats.Mean)
	require.InDelta(t, 2.0, stats.StdDev, 1e-9)

	_, err = ts.ChannelStats("missing")
	require.Error(t, err)
}

func TestStudyMetadata(t *testing.T) {
	sm := neural.NewStudyMetadata("subject-7", "resting-state", "Example University")

	require.Nil(t, sm.Age)
	require.Nil(t, sm.Diagnosis)
	require.NotEmpty(t, sm.StudyDate)

	sm.AddResearcher("Dr. Ramirez")
	sm.AddEquipment("amplifier", "64 channel")

	require.Equal(t, []string{"Dr. Ramirez"}, sm.Researchers)
	require.Equal(t, "64 channel", sm.Equipment["amplifier"])
}
