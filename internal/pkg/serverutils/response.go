package serverutils

// Response is the envelope of every JSON body the API returns.
type Response struct {
	Success bool        `json:"success"`
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

func SuccessResponse(message string, data interface{}) Response {
	return Response{
		Success: true,
		Code:    200,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(code int, message string, errors interface{}) Response {
	return Response{
		Success: false,
		Code:    code,
		Message: message,
		Errors:  errors,
	}
}
