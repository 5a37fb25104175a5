package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mmeshcher/homeservices/internal/model"
)

var testSession = model.Session{UserID: "u-1", Email: "bob@example.com", Name: "Bob", Role: model.RoleReceiver}

func issueCookie(t *testing.T, m *AuthMiddleware, session model.Session) *http.Cookie {
	t.Helper()

	w := httptest.NewRecorder()
	if err := m.SetAuthCookie(w, session); err != nil {
		t.Fatalf("SetAuthCookie: %v", err)
	}
	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatalf("no cookies set by SetAuthCookie")
	}
	return cookies[0]
}

func TestAuthMiddleware_WithValidCookie(t *testing.T) {
	m := NewAuthMiddleware("test-secret")

	nextCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		session, ok := GetSessionFromContext(r.Context())
		if !ok {
			t.Fatalf("session not in context")
		}
		if session != testSession {
			t.Fatalf("session from context = %+v, want %+v", session, testSession)
		}
	})

	r := httptest.NewRequest(http.MethodGet, "/protected", nil)
	cookie := issueCookie(t, m, testSession)
	if cookie.Name != "auth_token" || !cookie.HttpOnly {
		t.Fatalf("cookie = %+v, want HttpOnly auth_token", cookie)
	}
	r.AddCookie(cookie)

	m.Middleware(next).ServeHTTP(httptest.NewRecorder(), r)

	if !nextCalled {
		t.Fatalf("next handler was not called")
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	m := NewAuthMiddleware("test-secret")
	other := NewAuthMiddleware("other-secret")

	expired := NewAuthMiddleware("test-secret")
	expired.now = func() time.Time { return time.Now().Add(-2 * authCookieTTL) }

	tests := []struct {
		name   string
		cookie *http.Cookie
	}{
		{name: "no cookie"},
		{name: "garbage", cookie: &http.Cookie{Name: authCookieName, Value: "not-a-jwt"}},
		{name: "foreign signature", cookie: issueCookie(t, other, testSession)},
		{name: "expired", cookie: issueCookie(t, expired, testSession)},
		{name: "unknown role", cookie: issueCookie(t, m, model.Session{Email: "x@example.com", Role: "owner"})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatalf("next handler should not be called")
			})

			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.cookie != nil {
				r.AddCookie(tt.cookie)
			}

			m.Middleware(next).ServeHTTP(w, r)

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want %d", w.Code, http.StatusUnauthorized)
			}
		})
	}
}

func TestClearAuthCookie(t *testing.T) {
	w := httptest.NewRecorder()
	NewAuthMiddleware("s").ClearAuthCookie(w)

	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 || cookies[0].Value != "" {
		t.Fatalf("cookies = %+v, want one expired auth_token", cookies)
	}
}

func TestRequireRoles(t *testing.T) {
	tests := []struct {
		name    string
		session *model.Session
		want    int
	}{
		{name: "anonymous", want: http.StatusUnauthorized},
		{name: "wrong role", session: &model.Session{Email: "a@b.c", Role: model.RoleReceiver}, want: http.StatusForbidden},
		{name: "allowed", session: &model.Session{Email: "a@b.c", Role: model.RoleProvider}, want: http.StatusOK},
		{name: "admin", session: &model.Session{Email: "a@b.c", Role: model.RoleAdmin}, want: http.StatusOK},
	}

	h := RequireRoles(model.RoleProvider, model.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.session != nil {
				r = r.WithContext(WithSession(r.Context(), *tt.session))
			}
			w := httptest.NewRecorder()

			h.ServeHTTP(w, r)

			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

type stubRefresher struct {
	session model.Session
	err     error
	calls   int
}

func (s *stubRefresher) RefreshSession(ctx context.Context, session model.Session) (model.Session, error) {
	s.calls++
	return s.session, s.err
}

func TestAuthMiddleware_RefreshesStaleRole(t *testing.T) {
	issued := time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)
	now := issued

	demoted := testSession
	demoted.Role = model.RoleProvider
	refresher := &stubRefresher{session: demoted}

	m := NewAuthMiddleware("test-secret").WithRefresher(refresher, time.Minute)
	m.now = func() time.Time { return now }
	cookie := issueCookie(t, m, testSession)

	var got model.Session
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = GetSessionFromContext(r.Context())
	})

	serveWith := func() *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodGet, "/protected", nil)
		r.AddCookie(cookie)
		w := httptest.NewRecorder()
		m.Middleware(next).ServeHTTP(w, r)
		return w
	}

	now = issued.Add(30 * time.Second)
	w := serveWith()
	if refresher.calls != 0 || got.Role != model.RoleReceiver {
		t.Fatalf("fresh token: calls = %d, role = %q", refresher.calls, got.Role)
	}
	if len(w.Result().Cookies()) != 0 {
		t.Fatalf("fresh token must not be reissued")
	}

	now = issued.Add(2 * time.Minute)
	w = serveWith()
	if refresher.calls != 1 || got.Role != model.RoleProvider {
		t.Fatalf("stale token: calls = %d, role = %q", refresher.calls, got.Role)
	}
	reissued := w.Result().Cookies()
	if len(reissued) != 1 || reissued[0].Name != authCookieName {
		t.Fatalf("stale token: cookies = %+v, want reissued auth_token", reissued)
	}

	refresher.err = errors.New("unknown user")
	got = model.Session{}
	w = serveWith()
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("failed refresh: status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
	if got != (model.Session{}) {
		t.Fatalf("failed refresh must not reach the handler")
	}
}

func TestAuthCookie_ExpiresWithinADay(t *testing.T) {
	m := NewAuthMiddleware("test-secret")
	cookie := issueCookie(t, m, testSession)
	if ttl := time.Until(cookie.Expires); ttl > 24*time.Hour+time.Minute {
		t.Fatalf("cookie lifetime = %v, want at most 24h", ttl)
	}
}
