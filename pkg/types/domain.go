package types

// Voice represents a discoverable voice-preset audio file on disk.
type Voice struct {
	// Category directory name.
	// example: female
	Category string `json:"category" example:"female"`
	// Subcategory directory name.
	// example: calm
	Subcategory string `json:"subcategory" example:"calm"`
	// Audio filename.
	// example: sample1.wav
	Filename string `json:"filename" example:"sample1.wav"`
	// Absolute path to the audio file on disk.
	Path string `json:"path"`
}

// AudioFile describes a generated output file for the recent-audio listing.
type AudioFile struct {
	// example: task_3f2a9c1d_1700000000.wav
	Filename string `json:"filename" example:"task_3f2a9c1d_1700000000.wav"`
	// Path relative to the server outputs directory.
	Path string `json:"path"`
	// File size in bytes.
	// example: 480044
	Size int64 `json:"size" example:"480044"`
	// Creation time in RFC 3339 UTC.
	// example: 2023-11-14T22:13:20Z
	CreatedTime string `json:"created_time" example:"2023-11-14T22:13:20Z"`
}

// SynthesisInput is the caller-supplied payload carried by a job. It is
// opaque to the queue and passed through unmodified to the engine.
type SynthesisInput struct {
	Text           string
	ReferenceAudio string
	EmoAudio       string
	EmoAlpha       float64
	EmoVector      []float64
	InferMode      string
	Parameters     map[string]any
}
