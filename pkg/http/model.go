package http

// ErrorBody is the JSON shape of every non-2xx response.
type ErrorBody struct {
	Message string            `json:"message" example:"Invalid request data"`
	Errors  []ValidationError `json:"errors,omitempty"`
	Error   string            `json:"error,omitempty"`
}

// ValidationError represents validation error detail.
type ValidationError struct {
	Code    string                 `json:"code,omitempty" example:"ERR_REQUIRED"`
	Field   string                 `json:"field,omitempty" example:"prompt"`
	Message string                 `json:"message,omitempty" example:"prompt is required"`
	Params  map[string]interface{} `json:"params,omitempty"`
}

// HealthBody is returned by the liveness probe.
type HealthBody struct {
	Status string `json:"status" example:"ok"`
}
