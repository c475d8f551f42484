package method_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/scoring-api/internal/http/handlers/method"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Handle(ctx context.Context, body any) (any, int) {
	args := m.Called(ctx, body)
	return args.Get(0), args.Int(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	return out
}

func TestHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		mockResp   any
		mockCode   int
		callsSvc   bool
		wantCode   int
		wantKey    string
		wantDetail any
	}{
		{
			name:       "success",
			body:       `{"account":"horns","login":"h","method":"online_score","token":"t","arguments":{}}`,
			mockResp:   map[string]any{"score": 3.0},
			mockCode:   http.StatusOK,
			callsSvc:   true,
			wantCode:   http.StatusOK,
			wantKey:    "response",
			wantDetail: map[string]any{"score": 3.0},
		},
		{
			name:       "service rejects",
			body:       `{"login":"h","method":"online_score","token":"bad","arguments":{}}`,
			mockResp:   "Forbidden",
			mockCode:   http.StatusForbidden,
			callsSvc:   true,
			wantCode:   http.StatusForbidden,
			wantKey:    "error",
			wantDetail: "Forbidden",
		},
		{
			name:       "malformed json",
			body:       `{"login":`,
			wantCode:   http.StatusBadRequest,
			wantKey:    "error",
			wantDetail: "Bad Request",
		},
		{
			name:       "trailing garbage",
			body:       `{"login":"h","method":"online_score","token":"t","arguments":{}} garbage`,
			wantCode:   http.StatusBadRequest,
			wantKey:    "error",
			wantDetail: "Bad Request",
		},
		{
			name:       "two json values",
			body:       `{"a":1}{"b":2}`,
			wantCode:   http.StatusBadRequest,
			wantKey:    "error",
			wantDetail: "Bad Request",
		},
		{
			name:       "trailing whitespace",
			body:       "{\"login\":\"h\"}\n  \n",
			mockResp:   "arguments: is required",
			mockCode:   http.StatusUnprocessableEntity,
			callsSvc:   true,
			wantCode:   http.StatusUnprocessableEntity,
			wantKey:    "error",
			wantDetail: "arguments: is required",
		},
		{
			name:       "empty body",
			body:       ``,
			wantCode:   http.StatusBadRequest,
			wantKey:    "error",
			wantDetail: "Bad Request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			if tt.callsSvc {
				svc.On("Handle", mock.Anything, mock.Anything).Return(tt.mockResp, tt.mockCode).Once()
			}

			h := method.New(newNoopLogger(), svc)
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/method", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantCode, rr.Code)
			out := decode(t, rr)
			assert.Equal(t, tt.wantDetail, out[tt.wantKey])
			assert.EqualValues(t, tt.wantCode, out["code"])
			if tt.callsSvc {
				svc.AssertExpectations(t)
			} else {
				svc.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestHandler_NumbersKeepPrecision(t *testing.T) {
	svc := new(MockService)
	svc.On("Handle", mock.Anything, mock.MatchedBy(func(body any) bool {
		raw, ok := body.(map[string]any)
		if !ok {
			return false
		}
		args, ok := raw["arguments"].(map[string]any)
		if !ok {
			return false
		}
		n, ok := args["gender"].(json.Number)
		return ok && n.String() == "1"
	})).Return(map[string]any{"score": 1.5}, http.StatusOK).Once()

	h := method.New(newNoopLogger(), svc)
	rr := httptest.NewRecorder()
	body := `{"login":"h","method":"online_score","token":"t","arguments":{"gender":1}}`
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/method", strings.NewReader(body)))

	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}
