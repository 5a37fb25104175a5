// Package middleware содержит HTTP middleware BFF маркетплейса бытовых услуг.
package middleware

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mmeshcher/homeservices/internal/model"
)

type contextKey string

const sessionKey contextKey = "session"

const (
	authCookieName = "auth_token"
	authCookieTTL  = 24 * time.Hour

	// DefaultRefreshInterval - возраст токена, после которого роль сессии перечитывается из API.
	DefaultRefreshInterval = 5 * time.Minute
)

var errInvalidToken = errors.New("invalid session token")

type sessionClaims struct {
	UserID string     `json:"userId,omitempty"`
	Email  string     `json:"email"`
	Name   string     `json:"name,omitempty"`
	Role   model.Role `json:"role"`
	jwt.RegisteredClaims
}

// SessionRefresher заново определяет сессию по данным API.
type SessionRefresher interface {
	RefreshSession(ctx context.Context, session model.Session) (model.Session, error)
}

// AuthMiddleware выполняет проверку сессии пользователя по подписанному JWT в cookie.
type AuthMiddleware struct {
	secretKey    []byte
	now          func() time.Time
	refresher    SessionRefresher
	refreshEvery time.Duration
}

// NewAuthMiddleware создаёт новый экземпляр AuthMiddleware с указанным секретным ключом.
// При пустом ключе генерируется случайный, и сессии не переживают перезапуск.
func NewAuthMiddleware(secret string) *AuthMiddleware {
	key := []byte(secret)
	if len(key) == 0 {
		randomKey := make([]byte, 32)
		if _, err := rand.Read(randomKey); err == nil {
			key = randomKey
		} else {
			key = []byte("default-secret-key")
		}
	}

	return &AuthMiddleware{
		secretKey: key,
		now:       time.Now,
	}
}

// WithRefresher включает перечитывание сессии у токенов старше every.
// Обновлённая сессия записывается в новую cookie. Ошибка обновления отклоняет запрос с 401.
func (a *AuthMiddleware) WithRefresher(r SessionRefresher, every time.Duration) *AuthMiddleware {
	if every <= 0 {
		every = DefaultRefreshInterval
	}
	a.refresher = r
	a.refreshEvery = every
	return a
}

// Middleware проверяет cookie авторизации и добавляет сессию в контекст запроса.
func (a *AuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(authCookieName)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		session, issuedAt, err := a.parseToken(cookie.Value)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		if a.refresher != nil && a.now().Sub(issuedAt) >= a.refreshEvery {
			session, err = a.refresher.RefreshSession(r.Context(), session)
			if err != nil {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			if err := a.SetAuthCookie(w, session); err != nil {
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
		}

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
	})
}

// SetAuthCookie устанавливает cookie авторизации для указанной сессии.
func (a *AuthMiddleware) SetAuthCookie(w http.ResponseWriter, session model.Session) error {
	value, err := a.signSession(session)
	if err != nil {
		return err
	}

	cookie := &http.Cookie{
		Name:     authCookieName,
		Value:    value,
		Path:     "/",
		Expires:  a.now().Add(authCookieTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	http.SetCookie(w, cookie)
	return nil
}

// ClearAuthCookie удаляет cookie авторизации.
func (a *AuthMiddleware) ClearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (a *AuthMiddleware) signSession(session model.Session) (string, error) {
	now := a.now()
	claims := sessionClaims{
		UserID: session.UserID,
		Email:  session.Email,
		Name:   session.Name,
		Role:   session.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   session.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(authCookieTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secretKey)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return token, nil
}

func (a *AuthMiddleware) parseToken(value string) (model.Session, time.Time, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(value, claims, func(*jwt.Token) (any, error) {
		return a.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil || !token.Valid {
		return model.Session{}, time.Time{}, errInvalidToken
	}
	if claims.Email == "" || !claims.Role.Valid() {
		return model.Session{}, time.Time{}, errInvalidToken
	}

	var issuedAt time.Time
	if claims.IssuedAt != nil {
		issuedAt = claims.IssuedAt.Time
	}

	return model.Session{
		UserID: claims.UserID,
		Email:  claims.Email,
		Name:   claims.Name,
		Role:   claims.Role,
	}, issuedAt, nil
}

// RequireRoles пропускает запрос только для сессий с одной из указанных ролей.
// Используется после Middleware.
func RequireRoles(roles ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := GetSessionFromContext(r.Context())
			if !ok {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			if !slices.Contains(roles, session.Role) {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithSession кладёт сессию в контекст.
func WithSession(ctx context.Context, session model.Session) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}

// GetSessionFromContext извлекает сессию пользователя из контекста запроса.
func GetSessionFromContext(ctx context.Context) (model.Session, bool) {
	session, ok := ctx.Value(sessionKey).(model.Session)
	return session, ok
}
