package domain

// Result is the envelope every core operation is reported through.
type Result[T any] struct {
	Success      bool    `json:"success"`
	ErrorMessage *string `json:"errorMessage"`
	Data         *T      `json:"data"`
}

// NewResult builds the envelope for (data, err). Errors that are not domain
// errors are reported as ErrStoreUnavailable so their detail never reaches
// the client.
func NewResult[T any](data T, err error) Result[T] {
	if err != nil {
		return Fail[T](err)
	}
	return Result[T]{Success: true, Data: &data}
}

func Fail[T any](err error) Result[T] {
	if !IsDomainError(err) {
		err = ErrStoreUnavailable
	}
	msg := err.Error()
	return Result[T]{Success: false, ErrorMessage: &msg}
}

func OK() Result[struct{}] {
	return NewResult(struct{}{}, nil)
}
