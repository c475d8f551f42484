// Package models содержит запросы API скоринга и их декларативные схемы:
// внешний конверт MethodRequest и аргументы методов online_score и clients_interests.
package models

import (
	"github.com/magabrotheeeer/scoring-api/internal/validation"
)

const (
	// MethodOnlineScore - расчёт скора клиента.
	MethodOnlineScore = "online_score"
	// MethodClientsInterests - интересы списка клиентов.
	MethodClientsInterests = "clients_interests"
)

var methodSchema = validation.NewSchema("method",
	validation.Slot{Name: "account", Field: validation.Char{}, Required: false, Nullable: true},
	validation.Slot{Name: "login", Field: validation.Char{}, Required: true, Nullable: true},
	validation.Slot{Name: "method", Field: validation.Char{}, Required: true, Nullable: false},
	validation.Slot{Name: "token", Field: validation.Char{}, Required: true, Nullable: true},
	validation.Slot{Name: "arguments", Field: validation.Arguments{}, Required: true, Nullable: true},
)

// MethodRequest - конверт, общий для всех методов.
type MethodRequest struct {
	Account   string
	Login     string
	Method    string
	Token     string
	Arguments map[string]any
}

// ParseMethodRequest проверяет конверт и имя метода.
// Неизвестный метод возвращает ошибку, обёрнутую в validation.ErrUnknownMethod.
func ParseMethodRequest(raw map[string]any) (*MethodRequest, error) {
	v, err := methodSchema.Validate(raw)
	if err != nil {
		return nil, err
	}
	req := &MethodRequest{
		Account:   v.String("account"),
		Login:     v.String("login"),
		Method:    v.String("method"),
		Token:     v.String("token"),
		Arguments: v.Map("arguments"),
	}
	switch req.Method {
	case MethodOnlineScore, MethodClientsInterests:
	default:
		return nil, validation.UnknownMethod(req.Method)
	}
	if req.Arguments == nil {
		req.Arguments = map[string]any{}
	}
	return req, nil
}

// IsAdmin сообщает, отправлен ли запрос от имени администратора.
func (r *MethodRequest) IsAdmin(adminLogin string) bool {
	return r.Login == adminLogin
}
