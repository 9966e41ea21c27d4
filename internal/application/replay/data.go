// Package replay records and plays back the held keys of a run. With the
// same seed a played back run reproduces the original frame for frame.
package replay

// FormatVersion is written into every replay file.
const FormatVersion = "2.0"

// FrameInput records the keys held during one frame.
type FrameInput struct {
	F    int      `json:"f"`           // Frame number
	Held []string `json:"h,omitempty"` // Held key names, sorted
}

// ReplayData contains all data needed to replay a run.
type ReplayData struct {
	Version   string       `json:"version"`
	Seed      int64        `json:"seed"`
	StartTime string       `json:"startTime"`
	Frames    []FrameInput `json:"frames"`
}
