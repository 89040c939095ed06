package service

type ErrorCode string

const (
	ErrorCodeFetchFailed  ErrorCode = "FETCH_FAILED"
	ErrorCodeAddFailed    ErrorCode = "ADD_FAILED"
	ErrorCodeUpdateFailed ErrorCode = "UPDATE_FAILED"
	ErrorCodeDeleteFailed ErrorCode = "DELETE_FAILED"
	ErrorCodeInvalidBody  ErrorCode = "INVALID_BODY"
	ErrorCodeUnknownField ErrorCode = "UNKNOWN_FIELD"
)

type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

func (e *Error) Error() string {
	return e.Message
}
