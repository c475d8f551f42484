// Package validation реализует декларативную проверку входящих запросов.
//
// Field - типизированный дескриптор одного значения (Char, Email, Phone и т.д.).
// Slot привязывает дескриптор к имени поля вместе с флагами required и nullable.
// Schema собирает упорядоченный список слотов и правила между полями.
package validation

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

// DateLayout - формат дат DD.MM.YYYY.
const DateLayout = "02.01.2006"

// MaxAge - максимальный возраст в годах для BirthDay.
const MaxAge = 70

// validate потокобезопасен и кэширует разобранные теги.
var validate = validator.New()

// Field - контракт дескриптора. Clean получает присутствующее значение и
// возвращает очищенное значение либо причину отказа.
type Field interface {
	Clean(value any) (any, error)
}

// Char - текстовое поле с любым содержимым.
type Char struct{}

func (Char) Clean(value any) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, errors.New("must be a string")
	}
	return s, nil
}

// Arguments - вложенный объект.
type Arguments struct{}

func (Arguments) Clean(value any) (any, error) {
	m, ok := value.(map[string]any)
	if !ok {
		return nil, errors.New("must be an object")
	}
	return m, nil
}

// Email - строка, содержащая @.
type Email struct{}

func (Email) Clean(value any) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, errors.New("must be a string")
	}
	if s == "" {
		return s, nil
	}
	if err := validate.Var(s, "contains=@"); err != nil {
		return nil, reason(err)
	}
	return s, nil
}

// Phone - 11 цифр, начинается с 7. Принимает строку или целое число.
type Phone struct{}

func (Phone) Clean(value any) (any, error) {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	default:
		n, ok := toInt(value)
		if !ok {
			return nil, errors.New("must be a string or an integer")
		}
		s = strconv.FormatInt(n, 10)
	}
	if s == "" {
		return s, nil
	}
	if err := validate.Var(s, "number,len=11,startswith=7"); err != nil {
		return nil, reason(err)
	}
	return s, nil
}

// Date - строка в формате DD.MM.YYYY, очищенное значение - time.Time.
type Date struct{}

func (Date) Clean(value any) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, errors.New("must be a string")
	}
	if s == "" {
		return nil, nil
	}
	return parseDate(s, time.UTC)
}

// parseDate разбирает дату как полночь в часовом поясе loc.
func parseDate(s string, loc *time.Location) (time.Time, error) {
	if err := validate.Var(s, "datetime="+DateLayout); err != nil {
		return time.Time{}, reason(err)
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, errors.New("must be a date in DD.MM.YYYY format")
	}
	return t, nil
}

// BirthDay - Date, для которой возраст не превышает MaxAge лет и дата не в будущем.
// Now по умолчанию time.Now.
type BirthDay struct {
	Now func() time.Time
}

func (b BirthDay) Clean(value any) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, errors.New("must be a string")
	}
	if s == "" {
		return nil, nil
	}
	now := time.Now()
	if b.Now != nil {
		now = b.Now()
	}
	born, err := parseDate(s, now.Location())
	if err != nil {
		return nil, err
	}
	age, ok := Age(born, now)
	if !ok {
		return nil, errors.New("cannot be in the future")
	}
	if age > MaxAge {
		return nil, fmt.Errorf("cannot be more than %d years ago", MaxAge)
	}
	return born, nil
}

// Age возвращает полное число лет между календарными датами born и now;
// false, если дата born позже даты now. Время суток не учитывается.
func Age(born, now time.Time) (int, bool) {
	by, bm, bd := born.Date()
	ny, nm, nd := now.Date()
	if by*10000+int(bm)*100+bd > ny*10000+int(nm)*100+nd {
		return 0, false
	}
	age := ny - by
	if nm < bm || (nm == bm && nd < bd) {
		age--
	}
	return age, true
}

// Gender - целое из {0, 1, 2}.
type Gender struct{}

func (Gender) Clean(value any) (any, error) {
	n, ok := toInt(value)
	if !ok {
		return nil, errors.New("must be an integer")
	}
	if err := validate.Var(n, "oneof=0 1 2"); err != nil {
		return nil, reason(err)
	}
	return int(n), nil
}

// ClientIDs - непустой список целых чисел, очищенное значение - []int.
type ClientIDs struct{}

func (ClientIDs) Clean(value any) (any, error) {
	var ids []int
	switch v := value.(type) {
	case []int:
		ids = append(ids, v...)
	case []any:
		ids = make([]int, 0, len(v))
		for _, item := range v {
			n, ok := toInt(item)
			if !ok {
				return nil, errors.New("must contain only integers")
			}
			ids = append(ids, int(n))
		}
	default:
		return nil, errors.New("must be a list")
	}
	if len(ids) == 0 {
		return nil, errors.New("cannot be empty")
	}
	return ids, nil
}

// toInt принимает только целые: json.Number без дробной части и целые типы Go.
func toInt(value any) (int64, bool) {
	switch v := value.(type) {
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	}
	return 0, false
}

// isEmpty считает пустыми null, пустую строку, пустой объект и пустой список.
func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case map[string]any:
		return len(v) == 0
	case []any:
		return len(v) == 0
	case []int:
		return len(v) == 0
	}
	return false
}

// reason переводит ошибку validator в человекочитаемую причину.
func reason(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return err
	}
	fe := errs[0]
	switch fe.Tag() {
	case "contains":
		return fmt.Errorf("must contain %s", fe.Param())
	case "number":
		return errors.New("must contain only digits")
	case "len":
		return fmt.Errorf("must be %s digits long", fe.Param())
	case "startswith":
		return fmt.Errorf("must start with %s", fe.Param())
	case "datetime":
		return errors.New("must be a date in DD.MM.YYYY format")
	case "oneof":
		return fmt.Errorf("must be one of %s", fe.Param())
	}
	return fmt.Errorf("failed on %s", fe.Tag())
}
