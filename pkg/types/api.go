package types

// SynthesisRequest is the payload for POST /api/tts/generate.
type SynthesisRequest struct {
	// Required text to synthesize.
	// example: Hello from the queue.
	Text string `json:"text" example:"Hello from the queue."`
	// Path to the reference audio file that provides the target voice.
	// example: demos/female/calm/sample1.wav
	ReferenceAudio string `json:"reference_audio" example:"demos/female/calm/sample1.wav"`
	// Optional path to an emotion reference audio file.
	EmoAudio string `json:"emo_audio,omitempty"`
	// Emotion control weight (0.0-2.0). Zero means server default.
	// example: 1.0
	EmoAlpha float64 `json:"emo_alpha,omitempty" example:"1.0"`
	// Optional emotion vector (6 values).
	EmoVector []float64 `json:"emo_vector,omitempty"`
	// Inference mode hint; empty means the engine default.
	// example: batch
	InferMode string `json:"infer_mode,omitempty" example:"batch"`
	// Additional engine parameters, passed through unmodified.
	Parameters map[string]any `json:"parameters,omitempty"`
}

// DemoVoiceRequest is the payload for POST /api/demo/use. It selects a
// bundled voice preset instead of a caller-supplied reference file.
type DemoVoiceRequest struct {
	// Voice category directory.
	// example: female
	Category string `json:"category" example:"female"`
	// Voice subcategory directory.
	// example: calm
	Subcategory string `json:"subcategory" example:"calm"`
	// Preset audio filename inside the subcategory.
	// example: sample1.wav
	Filename string `json:"filename" example:"sample1.wav"`
	// Required text to synthesize.
	Text string `json:"text"`
	// Additional engine parameters, passed through unmodified.
	Parameters map[string]any `json:"parameters,omitempty"`
}

// SubmitResponse acknowledges an accepted job.
type SubmitResponse struct {
	// example: true
	Success bool `json:"success" example:"true"`
	// Opaque job identifier, the sole external handle.
	// example: 3f2a9c1d
	JobID string `json:"job_id" example:"3f2a9c1d"`
	// Human-readable acknowledgement.
	// example: synthesis queued
	Message string `json:"message" example:"synthesis queued"`
	// Where the result can be fetched once the job completes.
	// example: /api/tts/result/3f2a9c1d
	ResultURL string `json:"result_url" example:"/api/tts/result/3f2a9c1d"`
}

// JobStatusResponse is returned by GET /api/tts/status/{id}.
type JobStatusResponse struct {
	// example: 3f2a9c1d
	JobID string `json:"job_id" example:"3f2a9c1d"`
	// One of: queued, running, completed, failed.
	// example: running
	Status string `json:"status" example:"running"`
	// Human-readable state description.
	Message string `json:"message"`
	// Set once the job has a fetchable result.
	ResultURL string `json:"result_url,omitempty"`
	// Set only when the job failed.
	Error string `json:"error,omitempty"`
	// Seconds spent running so far; zero until the job starts.
	// example: 4.2
	ElapsedSeconds float64 `json:"elapsed_seconds,omitempty" example:"4.2"`
	// Heuristic remaining seconds; zero means unknown, not instant.
	// example: 11.3
	EstimatedRemaining float64 `json:"estimated_remaining,omitempty" example:"11.3"`
}

// CurrentJobInfo is a preview of the in-flight job for queue status.
type CurrentJobInfo struct {
	// example: 3f2a9c1d
	ID string `json:"id" example:"3f2a9c1d"`
	// First 50 characters of the job text.
	TextPreview string `json:"text_preview"`
	// Seconds since the job started running.
	// example: 4.2
	ElapsedSeconds float64 `json:"elapsed_seconds" example:"4.2"`
	// Heuristic remaining seconds for this job.
	// example: 11.3
	EstimatedRemaining float64 `json:"estimated_remaining" example:"11.3"`
}

// QueueStatusResponse is returned by GET /api/queue/status.
type QueueStatusResponse struct {
	// Jobs admitted but not yet running.
	// example: 2
	QueueSize int `json:"queue_size" example:"2"`
	// The in-flight job, if any.
	CurrentJob *CurrentJobInfo `json:"current_job,omitempty"`
	// Completed jobs still retained in history.
	// example: 17
	TotalCompleted int `json:"total_completed" example:"17"`
	// Mean of the recent execution-duration window, in seconds.
	// example: 15.5
	AverageExecutionSeconds float64 `json:"average_execution_time" example:"15.5"`
	// Heuristic wait for a newly submitted job, in seconds.
	// example: 42.1
	EstimatedWaitSeconds float64 `json:"estimated_wait_time" example:"42.1"`
}

// SystemInfoResponse is returned by GET /api/system/info.
type SystemInfoResponse struct {
	System       map[string]any `json:"system"`
	Model        map[string]any `json:"model"`
	Capabilities map[string]any `json:"capabilities"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: job not found
	Error string `json:"error" example:"job not found"`
	// HTTP status code.
	// example: 404
	Code int `json:"code" example:"404"`
}
