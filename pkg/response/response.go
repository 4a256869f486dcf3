// Package response defines the envelope every endpoint answers with.
package response

// Response is the standard API envelope.
type Response struct {
	Status string      `json:"status"` // "success" or "error"
	Code   int         `json:"code"`   // HTTP status code
	Data   interface{} `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// Success wraps data in a success envelope.
func Success(code int, data interface{}) Response {
	return Response{
		Status: "success",
		Code:   code,
		Data:   data,
	}
}

// Message is a success envelope carrying only a human-readable note, used by
// endpoints that have nothing else to return (logout, deletes).
func Message(code int, msg string) Response {
	return Response{
		Status: "success",
		Code:   code,
		Data:   map[string]string{"message": msg},
	}
}

// Error wraps an error message in an error envelope.
func Error(code int, err string) Response {
	return Response{
		Status: "error",
		Code:   code,
		Error:  err,
	}
}
