package dto

// Response is the uniform success envelope.
type Response struct {
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data,omitempty"`
	Message    string      `json:"message,omitempty"`
	Success    bool        `json:"success"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Errors     []string `json:"errors"`
}

func NewResponse(statusCode int, data interface{}, message string) Response {
	return Response{
		StatusCode: statusCode,
		Data:       data,
		Message:    message,
		Success:    true,
	}
}

func NewErrorResponse(statusCode int, message string, errs ...string) ErrorResponse {
	if errs == nil {
		errs = []string{}
	}
	return ErrorResponse{
		StatusCode: statusCode,
		Message:    message,
		Errors:     errs,
	}
}
