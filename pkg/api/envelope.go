package api

// Envelope wraps every JSON response
type Envelope struct {
	Data       any    `json:"data,omitempty"`
	Message    string `json:"message,omitempty"`
	Error      string `json:"error,omitempty"` // taxonomy code, e.g. DUPLICATE_NAME
	StatusCode int    `json:"statusCode"`
	Success    bool   `json:"success"`
}
