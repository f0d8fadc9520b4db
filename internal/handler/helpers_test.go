package handler_test

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/arnaupv/forum-api/internal/config"
	"github.com/arnaupv/forum-api/internal/handler"
	"github.com/arnaupv/forum-api/internal/repository"
	"github.com/arnaupv/forum-api/internal/router"
	"github.com/arnaupv/forum-api/internal/testutil"
)

// newTestServer boots the full route table over an in-memory database.
// Redis is nil, so the limiter and cache middleware pass through, and
// the vote handler's publisher stays nil.
func newTestServer(t *testing.T, name string) (*echo.Echo, *sql.DB) {
	t.Helper()
	db := testutil.OpenTestDB(t, name)
	cfg := config.Config{
		JWTSecret:   testutil.TestSecret,
		TokenTTLMin: 60,
		BcryptCost:  testutil.TestBcryptCost,
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	threads := repository.NewThreadRepo(db)
	responses := repository.NewResponseRepo(db)
	votes := repository.NewVoteRepo(db)
	uratings := repository.NewUratingRepo(db)

	e := echo.New()
	router.Register(e, router.Handlers{
		Auth:      handler.NewAuthHandler(cfg, users, tokens, uratings),
		Users:     handler.NewUserHandler(users, uratings),
		Threads:   handler.NewThreadHandler(threads),
		Responses: handler.NewResponseHandler(responses),
		Votes:     handler.NewVoteHandler(votes, responses),
		Uratings:  handler.NewUratingHandler(uratings),
	}, cfg.JWTSecret, tokens, nil)
	return e, db
}

// do performs a request against the test server. token may be empty for
// public endpoints; body may be nil.
func do(e *echo.Echo, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return m
}

// dataField digs a key out of the response envelope's data object.
func dataField(t *testing.T, body map[string]any, key string) any {
	t.Helper()
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("no data object in %v", body)
	}
	return data[key]
}

// register creates an account over HTTP and returns its bearer token.
func register(t *testing.T, e *echo.Echo, name, email, username string) string {
	t.Helper()
	rec := do(e, "POST", "/register", "", map[string]any{
		"name":                  name,
		"email":                 email,
		"password":              "secret",
		"password_confirmation": "secret",
		"username":              username,
	})
	if rec.Code != 200 {
		t.Fatalf("register %s: status %d body %s", username, rec.Code, rec.Body.String())
	}
	tok, ok := dataField(t, decode(t, rec), "token").(string)
	if !ok || tok == "" {
		t.Fatalf("register %s: no token in response", username)
	}
	return tok
}
