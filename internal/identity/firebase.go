// Package identity проверяет ID-токены Firebase Authentication и извлекает из них email пользователя.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	firebase "firebase.google.com/go"
	"firebase.google.com/go/auth"
	"google.golang.org/api/option"
)

var (
	// ErrInvalidToken возвращается для пустого, просроченного или поддельного ID-токена.
	ErrInvalidToken = errors.New("invalid identity token")
	// ErrNotConfigured возвращается, если проверка токенов не настроена.
	ErrNotConfigured = errors.New("identity provider is not configured")
)

type tokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// Verifier проверяет ID-токены провайдера идентификации.
type Verifier struct {
	tokens tokenVerifier
}

// NewFirebaseVerifier создаёт Verifier поверх Firebase Admin SDK.
// При пустом credentialsFile используются учётные данные окружения (ADC).
func NewFirebaseVerifier(ctx context.Context, projectID, credentialsFile string) (*Verifier, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase auth: %w", err)
	}

	return &Verifier{tokens: client}, nil
}

// VerifiedEmail проверяет подпись и срок действия idToken и возвращает email из его claims.
func (v *Verifier) VerifiedEmail(ctx context.Context, idToken string) (string, error) {
	if v == nil || v.tokens == nil {
		return "", ErrNotConfigured
	}

	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return "", ErrInvalidToken
	}

	token, err := v.tokens.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	email, _ := token.Claims["email"].(string)
	email = strings.TrimSpace(email)
	if email == "" {
		return "", fmt.Errorf("%w: token has no email claim", ErrInvalidToken)
	}

	return email, nil
}
