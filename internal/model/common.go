package model

import "fmt"

// JobError 带错误码的业务错误
type JobError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *JobError) Error() string {
	return fmt.Sprintf("code: %d, message: %s", e.Code, e.Message)
}

// 预定义错误
var (
	ErrInvalidParameter = func(msg string) error {
		return &JobError{Code: 400, Message: msg}
	}
	ErrNotFound = func(msg string) error {
		return &JobError{Code: 404, Message: msg}
	}
	ErrInternalError = func(msg string) error {
		return &JobError{Code: 500, Message: msg}
	}
)

// CodeOf 取错误码，非JobError一律500
func CodeOf(err error) int {
	if e, ok := err.(*JobError); ok {
		return e.Code
	}
	return 500
}
