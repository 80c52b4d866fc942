package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func okHandler() (http.HandlerFunc, *bool) {
	called := false
	return func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}, &called
}

func TestMachineAuthenticatedMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		token      string
		wantStatus int
		wantCalled bool
	}{
		{name: "valid token", token: "secret", wantStatus: http.StatusOK, wantCalled: true},
		{name: "wrong token", token: "nope", wantStatus: http.StatusUnauthorized, wantCalled: false},
		{name: "missing token", token: "", wantStatus: http.StatusUnauthorized, wantCalled: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, called := okHandler()
			h := MachineAuthenticatedMiddleware("secret", next)
			req := httptest.NewRequest(http.MethodPost, "/x/import", nil)
			if tt.token != "" {
				req.Header.Set("x-machine-token", tt.token)
			}
			w := httptest.NewRecorder()
			h(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCalled, *called)
		})
	}
}

func TestMaintenanceMiddleware(t *testing.T) {
	tests := []struct {
		name         string
		enabled      bool
		path         string
		wantRedirect bool
	}{
		{name: "disabled passes through", enabled: false, path: "/", wantRedirect: false},
		{name: "page redirects", enabled: true, path: "/", wantRedirect: true},
		{name: "contact page redirects", enabled: true, path: "/contact", wantRedirect: true},
		{name: "maintenance page exempt", enabled: true, path: "/maintenance", wantRedirect: false},
		{name: "api exempt", enabled: true, path: "/x/stripe/webhook", wantRedirect: false},
		{name: "assets exempt", enabled: true, path: "/s/style.css", wantRedirect: false},
		{name: "dotted path exempt", enabled: true, path: "/robots.txt", wantRedirect: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, called := okHandler()
			h := MaintenanceMiddleware(next, tt.enabled)
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			if tt.wantRedirect {
				assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
				assert.Equal(t, "/maintenance", w.Header().Get("Location"))
				assert.False(t, *called)
			} else {
				assert.Equal(t, http.StatusOK, w.Code)
				assert.True(t, *called)
			}
		})
	}
}
