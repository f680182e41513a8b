package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"slotbook/internal/fault"
	"slotbook/libs/auth"
)

func TestWriteErrorMapsFaultKinds(t *testing.T) {
	cases := []struct {
		err    error
		status int
		kind   string
	}{
		{fault.NotFoundf("nope"), http.StatusNotFound, "not_found"},
		{fault.Conflictf("taken"), http.StatusConflict, "conflict"},
		{fault.InvalidInputf("bad"), http.StatusBadRequest, "invalid_input"},
		{fault.Forbiddenf("no"), http.StatusForbidden, "forbidden"},
	}
	for _, c := range cases {
		rec := httptest.NewRecorder()
		writeError(rec, slog.Default(), c.err)
		if rec.Code != c.status {
			t.Fatalf("%v: got status %d, want %d", c.err, rec.Code, c.status)
		}
		var body errorBody
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("%v: invalid body: %v", c.err, err)
		}
		if body.Error.Kind != c.kind {
			t.Fatalf("%v: got kind %q, want %q", c.err, body.Error.Kind, c.kind)
		}
	}
}

func TestWriteErrorHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, slog.Default(), errors.New("pq: connection reset"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("got status %d, want 500", rec.Code)
	}
	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if body.Error.Message != "internal error" {
		t.Fatalf("internal detail leaked: %q", body.Error.Message)
	}
}

func TestRequireAuth(t *testing.T) {
	const secret = "test-secret"
	var got Principal
	handler := RequireAuth(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = principalFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	token, err := auth.SignHS256(auth.Claims{
		Sub:   "m-1",
		Role:  "master",
		Email: "m@example.com",
		Exp:   time.Now().Add(time.Hour).Unix(),
		Iat:   time.Now().Unix(),
	}, secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/schedule", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("valid token rejected: %d", rec.Code)
	}
	if got.ID != "m-1" || got.Role != "master" || got.Email != "m@example.com" {
		t.Fatalf("principal not populated: %+v", got)
	}
}

func TestRequireAuthRejects(t *testing.T) {
	handler := RequireAuth("test-secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	for _, header := range []string{"", "Bearer ", "Bearer not.a.token", "Basic abc"} {
		req := httptest.NewRequest(http.MethodGet, "/v1/schedule", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: got %d, want 401", header, rec.Code)
		}
	}
}

func TestRequireAuthRejectsWrongSecret(t *testing.T) {
	token, err := auth.SignHS256(auth.Claims{
		Sub: "m-1", Role: "master", Exp: time.Now().Add(time.Hour).Unix(),
	}, "other-secret")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	handler := RequireAuth("test-secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))
	req := httptest.NewRequest(http.MethodGet, "/v1/schedule", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("got %d, want 401", rec.Code)
	}
}
