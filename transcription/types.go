package transcription

// TaskTranscribe is the only task this service requests from a backend.
const TaskTranscribe = "transcribe"

// Options holds decoding parameters for a transcription call. An Options
// value is built fresh per request and is not mutated after being passed
// to an engine.
type Options struct {
	// Language is the expected language of the audio (e.g. "ar").
	Language string `json:"language,omitempty"`
	// Task selects the backend task; always "transcribe" here.
	Task string `json:"task,omitempty"`
	// Temperature controls decoding randomness. Expected in [0,1] but
	// forwarded unchanged; out-of-range values are the backend's problem.
	Temperature float64 `json:"temperature"`
	// BeamSize is the decode search width.
	BeamSize int `json:"beam_size"`
	// InitialPrompt is a priming string that biases decoding toward the
	// expected vocabulary and register.
	InitialPrompt string `json:"initial_prompt,omitempty"`
}

// Result holds the outcome of a transcription call.
type Result struct {
	// Text is the full transcription text.
	Text string `json:"text"`
	// Segments contains time-aligned transcript segments, in order.
	Segments []Segment `json:"segments"`
	// Language is the detected or specified language.
	Language string `json:"language,omitempty"`
	// Duration is the audio duration in seconds.
	Duration float64 `json:"duration,omitempty"`
}

// Segment represents a time-aligned portion of a transcript.
type Segment struct {
	// ID is the segment index within the transcript.
	ID int `json:"id"`
	// Start is the segment start time in seconds.
	Start float64 `json:"start"`
	// End is the segment end time in seconds.
	End float64 `json:"end"`
	// Text is the transcribed text for this segment.
	Text string `json:"text"`
}
