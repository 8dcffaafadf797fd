package response

import "github.com/mamer12/bunyan-construction-management-mvp-sub001/pkg/pagination"

// Response is the envelope every API handler writes. List endpoints carry
// their page window in Meta so clients never dig it out of the payload.
type Response struct {
	Status     string           `json:"status"`      // "success" or "error"
	StatusCode int              `json:"status_code"` // HTTP status code
	Data       interface{}      `json:"data,omitempty"`
	Meta       *pagination.Meta `json:"meta,omitempty"`
	Error      string           `json:"error,omitempty"`
}

// Success returns a standard success response wrapping the data
func Success(statusCode int, data interface{}) Response {
	return Response{
		Status:     "success",
		StatusCode: statusCode,
		Data:       data,
	}
}

// SuccessList wraps a page of results together with its window metadata
func SuccessList(statusCode int, data interface{}, meta *pagination.Meta) Response {
	return Response{
		Status:     "success",
		StatusCode: statusCode,
		Data:       data,
		Meta:       meta,
	}
}

// Error returns a standard error response wrapping the error message
func Error(statusCode int, err string) Response {
	return Response{
		Status:     "error",
		StatusCode: statusCode,
		Error:      err,
	}
}
