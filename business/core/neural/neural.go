// Package neural provides the data containers for neural recordings and
// the studies that produce them. These are plain models: the ledger
// anchors them, the content store holds their payloads, and no signal
// processing happens here.
package neural

import (
	"fmt"
	"time"
)

// Format represents the modality a recording was captured with.
type Format string

// Set of known recording formats.
const (
	FormatEEG        Format = "EEG"
	FormatFMRI       Format = "fMRI"
	FormatMEG        Format = "MEG"
	FormatPET        Format = "PET"
	FormatMRI        Format = "MRI"
	FormatCT         Format = "CT"
	FormatSPECT      Format = "SPECT"
	FormatECOG       Format = "ECoG"
	FormatSingleUnit Format = "single-unit"
	FormatCustom     Format = "custom"
)

// =============================================================================

// TimeSeries represents a multi-channel recording sampled at a fixed
// rate. Data is stored channel by time; every channel must carry the
// same number of samples as the timestamp vector.
type TimeSeries struct {
	Format       Format            `json:"format"`
	SamplingRate float64           `json:"sampling_rate"`
	Channels     []string          `json:"channels"`
	Timestamps   []float64         `json:"timestamps"`
	Data         [][]float64       `json:"data"`
	Units        string            `json:"units"`
	Metadata     map[string]string `json:"metadata"`
}

// NewTimeSeries constructs an empty time series for the specified format
// and sampling rate in Hz.
func NewTimeSeries(format Format, samplingRate float64, units string) *TimeSeries {
	return &TimeSeries{
		Format:       format,
		SamplingRate: samplingRate,
		Units:        units,
		Metadata:     make(map[string]string),
	}
}

// AddChannel appends a named channel. The sample count must match the
// timestamp vector when one is already set.
func (ts *TimeSeries) AddChannel(name string, data []float64) error {
	if len(ts.Timestamps) != 0 && len(data) != len(ts.Timestamps) {
		return fmt.Errorf("channel data length (%d) does not match timestamps length (%d)", len(data), len(ts.Timestamps))
	}

	ts.Channels = append(ts.Channels, name)
	ts.Data = append(ts.Data, data)

	return nil
}

// SetTimestamps installs the timestamp vector. The length must match any
// channel data already present.
func (ts *TimeSeries) SetTimestamps(timestamps []float64) error {
	if len(ts.Data) != 0 && len(timestamps) != len(ts.Data[0]) {
		return fmt.Errorf("timestamps length (%d) does not match data length (%d)", len(timestamps), len(ts.Data[0]))
	}

	ts.Timestamps = timestamps
	return nil
}

// GenerateTimestamps fills the timestamp vector with evenly spaced values
// derived from the sampling rate.
func (ts *TimeSeries) GenerateTimestamps(startTime float64, numSamples int) {
	dt := 1.0 / ts.SamplingRate

	timestamps := make([]float64, numSamples)
	for i := range timestamps {
		timestamps[i] = startTime + dt*float64(i)
	}

	ts.Timestamps = timestamps
}

// ChannelData returns the samples for the named channel.
func (ts *TimeSeries) ChannelData(name string) ([]float64, bool) {
	for i, channel := range ts.Channels {
		if channel == name {
			return ts.Data[i], true
		}
	}

	return nil, false
}

// AddMetadata records a key/value pair about the recording.
func (ts *TimeSeries) AddMetadata(key string, value string) {
	ts.Metadata[key] = value
}

// =============================================================================

// StudyMetadata represents the descriptive record for a brain imaging
// study. Optional clinical fields stay absent until set.
type StudyMetadata struct {
	SubjectID      string            `json:"subject_id"`
	Age            *uint8            `json:"age,omitempty"`
	Sex            *string           `json:"sex,omitempty"`
	Diagnosis      *string           `json:"diagnosis,omitempty"`
	StudyDate      string            `json:"study_date"`
	ExperimentType string            `json:"experiment_type"`
	Institution    string            `json:"institution"`
	Researchers    []string          `json:"researchers"`
	Equipment      map[string]string `json:"equipment"`
	Notes          *string           `json:"notes,omitempty"`
	ProtocolID     *string           `json:"protocol_id,omitempty"`
}

// NewStudyMetadata constructs a study record dated today.
func NewStudyMetadata(subjectID string, experimentType string, institution string) *StudyMetadata {
	return &StudyMetadata{
		SubjectID:      subjectID,
		StudyDate:      time.Now().UTC().Format("2006-01-02"),
		ExperimentType: experimentType,
		Institution:    institution,
		Equipment:      make(map[string]string),
	}
}

// AddResearcher records a researcher participating in the study.
func (sm *StudyMetadata) AddResearcher(name string) {
	sm.Researchers = append(sm.Researchers, name)
}

// AddEquipment records a piece of equipment used in the study.
func (sm *StudyMetadata) AddEquipment(name string, details string) {
	sm.Equipment[name] = details
}
