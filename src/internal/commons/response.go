package commons

type Response[T any] struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Code    string   `json:"code,omitempty"`
	Data    *T       `json:"data,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

func SuccessResponse[T any](message string, data T) Response[T] {
	return Response[T]{
		Success: true,
		Message: message,
		Data:    &data,
	}
}

func ErrorResponse[T any](message string, errors ...string) Response[T] {
	return Response[T]{
		Success: false,
		Message: message,
		Errors:  errors,
	}
}

// FailureResponse builds the error envelope for a ledger error, carrying its
// kind so clients can tell bad input from missing funds or missing records.
func FailureResponse[T any](err error) Response[T] {
	return Response[T]{
		Success: false,
		Message: PublicMessage(err),
		Code:    KindOf(err).String(),
	}
}
