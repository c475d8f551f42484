// Package response содержит типы и функции для формирования JSON-ответов API скоринга.
// Успешный ответ: {"response": ..., "code": 200}, ошибка: {"error": "...", "code": N}.
package response

import (
	"net/http"

	"github.com/go-chi/render"
)

// Response описывает успешный ответ.
type Response struct {
	Response any `json:"response"`
	Code     int `json:"code"`
}

// ErrorResponse описывает ответ с ошибкой.
type ErrorResponse struct {
	Error any `json:"error"`
	Code  int `json:"code"`
}

// OK возвращает успешный Response с переданными данными.
func OK(data any) Response {
	return Response{Response: data, Code: http.StatusOK}
}

// Error возвращает ErrorResponse с кодом и сообщением. Пустое сообщение заменяется текстом статуса.
func Error(code int, msg any) ErrorResponse {
	if msg == nil || msg == "" {
		msg = http.StatusText(code)
	}
	return ErrorResponse{Error: msg, Code: code}
}

// Render пишет ответ с кодом code: успешный при 200, иначе ошибку.
func Render(w http.ResponseWriter, r *http.Request, code int, body any) {
	render.Status(r, code)
	if code == http.StatusOK {
		render.JSON(w, r, OK(body))
		return
	}
	render.JSON(w, r, Error(code, body))
}
