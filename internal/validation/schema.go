package validation

import (
	"fmt"
	"strings"
	"time"
)

// Slot привязывает дескриптор к имени поля.
// Required управляет только наличием ключа, Nullable только пустотой значения.
type Slot struct {
	Name     string
	Field    Field
	Required bool
	Nullable bool
}

// Validate проверяет одно значение: наличие, затем пустоту, затем формат.
// Отсутствующее необязательное поле возвращает (nil, nil) без проверки формата.
func (s Slot) Validate(present bool, value any) (any, error) {
	if !present {
		if s.Required {
			return nil, &FieldError{Field: s.Name, Reason: "is required"}
		}
		return nil, nil
	}
	if isEmpty(value) {
		if !s.Nullable {
			return nil, &FieldError{Field: s.Name, Reason: "cannot be empty"}
		}
		if value == nil {
			return nil, nil
		}
	}
	cleaned, err := s.Field.Clean(value)
	if err != nil {
		return nil, &FieldError{Field: s.Name, Reason: err.Error()}
	}
	return cleaned, nil
}

// Rule - проверка второй фазы, выполняется после успешной проверки всех полей.
type Rule func(v Values) error

// Schema - упорядоченный набор слотов и правил, описывающий форму одного запроса.
// Схемы неизменяемы после создания и безопасны для конкурентного чтения.
type Schema struct {
	name  string
	slots []Slot
	rules []Rule
}

// NewSchema создаёт схему с заданным порядком слотов.
func NewSchema(name string, slots ...Slot) *Schema {
	return &Schema{name: name, slots: slots}
}

// WithRules возвращает копию схемы с добавленными правилами.
func (s *Schema) WithRules(rules ...Rule) *Schema {
	out := &Schema{name: s.name, slots: s.slots}
	out.rules = append(append([]Rule{}, s.rules...), rules...)
	return out
}

// Name возвращает имя схемы.
func (s *Schema) Name() string { return s.name }

// Fields возвращает имена полей в порядке объявления.
func (s *Schema) Fields() []string {
	names := make([]string, len(s.slots))
	for i, slot := range s.slots {
		names[i] = slot.Name
	}
	return names
}

// Validate применяет слоты по порядку и возвращает первую ошибку поля.
// Если все поля корректны, применяются правила схемы.
func (s *Schema) Validate(raw map[string]any) (Values, error) {
	values := make(Values, len(s.slots))
	for _, slot := range s.slots {
		value, present := raw[slot.Name]
		cleaned, err := slot.Validate(present, value)
		if err != nil {
			return nil, err
		}
		if cleaned != nil {
			values[slot.Name] = cleaned
		}
	}
	for _, rule := range s.rules {
		if err := rule(values); err != nil {
			return nil, err
		}
	}
	return values, nil
}

// AtLeastOnePair требует, чтобы хотя бы одна пара полей была заполнена целиком.
func AtLeastOnePair(pairs ...[2]string) Rule {
	names := make([]string, len(pairs))
	for i, p := range pairs {
		names[i] = p[0] + "-" + p[1]
	}
	reason := fmt.Sprintf("at least one pair must be present with non-empty values: %s", strings.Join(names, ", "))
	return func(v Values) error {
		for _, p := range pairs {
			if v.Has(p[0]) && v.Has(p[1]) {
				return nil
			}
		}
		return &RuleError{Fields: []string{"arguments"}, Reason: reason}
	}
}

// Values - очищенные значения присутствующих непустых полей.
type Values map[string]any

// Has сообщает, есть ли у поля непустое значение.
func (v Values) Has(name string) bool {
	value, ok := v[name]
	return ok && !isEmpty(value)
}

// String возвращает строковое значение поля или "".
func (v Values) String(name string) string {
	s, _ := v[name].(string)
	return s
}

// Int возвращает целое значение поля.
func (v Values) Int(name string) (int, bool) {
	n, ok := v[name].(int)
	return n, ok
}

// Time возвращает дату поля.
func (v Values) Time(name string) (time.Time, bool) {
	t, ok := v[name].(time.Time)
	return t, ok
}

// Map возвращает вложенный объект поля.
func (v Values) Map(name string) map[string]any {
	m, _ := v[name].(map[string]any)
	return m
}

// Ints возвращает список целых поля.
func (v Values) Ints(name string) []int {
	ids, _ := v[name].([]int)
	return ids
}
