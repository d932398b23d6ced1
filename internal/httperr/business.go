package httperr

import "errors"

// Kind classifica erros de negócio; o handler traduz cada Kind em um status HTTP.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindInvalidState Kind = "invalid_state"
	KindSlotConflict Kind = "slot_conflict"
	KindPolicy       Kind = "policy"
)

type BusinessError struct {
	Kind    Kind
	Code    string
	Message string
}

func (e BusinessError) Error() string {
	return e.Code
}

func newErr(kind Kind, code, message string) error {
	return BusinessError{Kind: kind, Code: code, Message: message}
}

func Validation(code, message string) error   { return newErr(KindValidation, code, message) }
func NotFoundErr(code, message string) error  { return newErr(KindNotFound, code, message) }
func Conflict(code, message string) error     { return newErr(KindConflict, code, message) }
func InvalidState(code, message string) error { return newErr(KindInvalidState, code, message) }
func SlotConflict(code, message string) error { return newErr(KindSlotConflict, code, message) }
func Policy(code, message string) error       { return newErr(KindPolicy, code, message) }

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// KindOf devolve o Kind do erro, ou "" quando não é erro de negócio.
func KindOf(err error) Kind {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind
	}
	return ""
}
