package models

// ErrorMessageResponse is the JSON error body every handler writes, a single
// response string carrying the message and the underlying error
type ErrorMessageResponse struct {
	Response string `json:"response"`
}

// HealthCheckResponse returns the health check response struct
type HealthCheckResponse struct {
	Alive bool `json:"alive"`
}
