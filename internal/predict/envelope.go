package predict

// Response is the envelope every boundary (stdin one-shot, HTTP, MQTT)
// returns: a complete assessment or a single error message, never a partial
// assessment.
type Response struct {
	Success    bool        `json:"success"`
	Prediction *Assessment `json:"prediction,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// Succeed wraps a completed assessment.
func Succeed(a *Assessment) Response {
	return Response{Success: true, Prediction: a}
}

// Fail wraps an error message.
func Fail(err error) Response {
	return Response{Success: false, Error: err.Error()}
}
