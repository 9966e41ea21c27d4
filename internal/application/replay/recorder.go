package replay

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"time"
)

// ErrNoFrames is returned when saving an empty recording.
var ErrNoFrames = errors.New("no frames to save")

// Recorder collects the held keys of every frame.
type Recorder struct {
	data      ReplayData
	recording bool
}

// NewRecorder creates a recorder for a run seeded with seed.
func NewRecorder(seed int64) *Recorder {
	return &Recorder{
		data: ReplayData{
			Version:   FormatVersion,
			Seed:      seed,
			StartTime: time.Now().Format(time.RFC3339),
			Frames:    make([]FrameInput, 0, 3600), // ~1 minute at 60fps
		},
		recording: true,
	}
}

// RecordFrame appends one frame. held is copied.
func (r *Recorder) RecordFrame(held []string) {
	if !r.recording {
		return
	}
	fi := FrameInput{F: len(r.data.Frames)}
	if len(held) > 0 {
		fi.Held = slices.Clone(held)
	}
	r.data.Frames = append(r.data.Frames, fi)
}

// Save writes the recording as indented JSON.
func (r *Recorder) Save(filename string) error {
	if len(r.data.Frames) == 0 {
		return ErrNoFrames
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() { _ = file.Close() }()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(r.data); err != nil {
		return fmt.Errorf("failed to encode replay: %w", err)
	}
	return nil
}

// Stop stops recording
func (r *Recorder) Stop() {
	r.recording = false
}

// IsRecording returns whether recording is active
func (r *Recorder) IsRecording() bool {
	return r.recording
}

// FrameCount returns the number of recorded frames
func (r *Recorder) FrameCount() int {
	return len(r.data.Frames)
}

// Data returns the recording so far.
func (r *Recorder) Data() ReplayData {
	return r.data
}

// GenerateFilename creates a filename based on current time
func GenerateFilename() string {
	return fmt.Sprintf("replay_%s.json", time.Now().Format("20060102_150405"))
}
