package replay

import (
	"encoding/json"
	"fmt"
	"os"
)

// Replayer hands out recorded frames in order.
type Replayer struct {
	data  ReplayData
	frame int
}

// NewReplayer creates a new replayer from replay data
func NewReplayer(data ReplayData) *Replayer {
	return &Replayer{data: data}
}

// LoadReplay loads replay data from a file
func LoadReplay(filename string) (*ReplayData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var data ReplayData
	if err := json.NewDecoder(file).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode replay: %w", err)
	}
	if data.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported replay version %q", data.Version)
	}
	return &data, nil
}

// Next returns the held keys of the current frame and advances. ok is
// false once every frame was played.
func (r *Replayer) Next() (held []string, ok bool) {
	if r.frame >= len(r.data.Frames) {
		return nil, false
	}
	fi := r.data.Frames[r.frame]
	r.frame++
	return fi.Held, true
}

// Done reports whether every frame was played.
func (r *Replayer) Done() bool { return r.frame >= len(r.data.Frames) }

// CurrentFrame returns the current frame number
func (r *Replayer) CurrentFrame() int {
	return r.frame
}

// TotalFrames returns the total number of frames
func (r *Replayer) TotalFrames() int {
	return len(r.data.Frames)
}

// Seed returns the seed used for the replay
func (r *Replayer) Seed() int64 {
	return r.data.Seed
}

// Reset resets the replayer to the beginning
func (r *Replayer) Reset() {
	r.frame = 0
}
