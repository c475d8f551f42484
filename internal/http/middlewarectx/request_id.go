package middlewarectx

import (
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/google/uuid"
)

// RequestIDHeader заголовок с идентификатором запроса.
const RequestIDHeader = "X-Request-Id"

// RequestID проставляет идентификатор запроса: берет его из заголовка X-Request-Id
// или генерирует новый uuid. Идентификатор кладется в контекст chi и в ответ.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(RequestIDHeader, id)
		}
		w.Header().Set(RequestIDHeader, id)
		middleware.RequestID(next).ServeHTTP(w, r)
	})
}
