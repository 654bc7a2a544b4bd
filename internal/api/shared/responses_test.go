package shared

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/phrazzld/library-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	RespondWithJSON(rr, req, http.StatusCreated, map[string]string{"name": "Stephen King"})

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"name":"Stephen King"}`, rr.Body.String())
}

func TestRespondWithErrorAndLogRedactsDetails(t *testing.T) {
	log, buf := logger.NewTestLogger(t)

	req := httptest.NewRequest(http.MethodGet, "/api/authors", nil)
	ctx := WithTraceID(logger.WithLogger(req.Context(), log), "trace-abc")
	req = req.WithContext(ctx)
	rr := httptest.NewRecorder()

	cause := errors.New("query failed: SELECT id FROM authors WHERE genre = 'x' via postgres://admin:hunter2@db:5432/library")
	RespondWithErrorAndLog(rr, req, http.StatusInternalServerError, "Failed to list authors", cause)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "Failed to list authors", body["error"])
	assert.Equal(t, "trace-abc", body["trace_id"])

	logged := buf.String()
	assert.Contains(t, logged, `"level":"ERROR"`)
	assert.Contains(t, logged, "trace-abc")
	assert.NotContains(t, logged, "hunter2")
	assert.NotContains(t, logged, "WHERE genre")
}

func TestRespondWithErrorLogsClientErrorsAtDebug(t *testing.T) {
	log, buf := logger.NewTestLogger(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(logger.WithLogger(req.Context(), log))

	RespondWithError(httptest.NewRecorder(), req, http.StatusNotFound, "Author not found")

	assert.Contains(t, buf.String(), `"level":"DEBUG"`)
	assert.Contains(t, buf.String(), `"status_code":404`)
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Title string `json:"title" validate:"required"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr bool
		isEmpty bool
	}{
		{name: "valid", body: `{"title":"It"}`},
		{name: "empty", body: "", wantErr: true, isEmpty: true},
		{name: "unknown field", body: `{"title":"It","pages":1}`, wantErr: true},
		{name: "trailing data", body: `{"title":"It"}{"title":"Carrie"}`, wantErr: true},
		{name: "too large", body: `{"title":"` + strings.Repeat("x", MaxRequestBodyBytes) + `"}`, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))

			var p payload
			err := DecodeJSON(req, &p)
			if !tc.wantErr {
				require.NoError(t, err)
				assert.Equal(t, "It", p.Title)
				assert.NoError(t, ValidateRequest(&p))
				return
			}
			assert.Error(t, err)
			assert.Equal(t, tc.isEmpty, errors.Is(err, ErrEmptyBody))
		})
	}
}

func TestTraceIDContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, GetTraceID(req.Context()))

	ctx := SetTraceID(req.Context())
	assert.Len(t, GetTraceID(ctx), TraceIDLength*2)
	assert.NotEqual(t, GetTraceID(ctx), GetTraceID(SetTraceID(req.Context())))
}
