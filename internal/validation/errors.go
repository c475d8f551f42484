package validation

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalid - общая причина для всех ошибок валидации запроса.
	ErrInvalid = errors.New("invalid request")
	// ErrUnknownMethod возвращается, если method не входит в список поддерживаемых.
	ErrUnknownMethod = errors.New("unknown method")
)

// FieldError описывает нарушение ограничений одного поля.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Is позволяет проверять FieldError через errors.Is(err, ErrInvalid).
func (e *FieldError) Is(target error) bool {
	return target == ErrInvalid
}

// RuleError описывает нарушение правила, связывающего несколько полей.
type RuleError struct {
	Fields []string
	Reason string
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("%s: %s", strings.Join(e.Fields, ", "), e.Reason)
}

// Is позволяет проверять RuleError через errors.Is(err, ErrInvalid).
func (e *RuleError) Is(target error) bool {
	return target == ErrInvalid
}

// UnknownMethod оборачивает ErrUnknownMethod именем метода.
func UnknownMethod(method string) error {
	return fmt.Errorf("%w: %s", ErrUnknownMethod, method)
}

// IsValidation сообщает, относится ли err к ошибкам валидации (поле, правило или метод).
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalid) || errors.Is(err, ErrUnknownMethod)
}
