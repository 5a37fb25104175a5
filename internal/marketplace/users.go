package marketplace

import (
	"context"
	"net/http"

	"github.com/mmeshcher/homeservices/internal/model"
)

// Users возвращает всех пользователей.
func (c *Client) Users(ctx context.Context) ([]model.User, error) {
	var wire []wireUser
	if err := c.do(ctx, http.MethodGet, "/users", nil, &wire); err != nil {
		return nil, err
	}

	out := make([]model.User, 0, len(wire))
	for _, w := range wire {
		out = append(out, w.toModel())
	}
	return out, nil
}

// User возвращает пользователя по email.
func (c *Client) User(ctx context.Context, email string) (*model.User, error) {
	var wire *wireUser
	if err := c.do(ctx, http.MethodGet, "/users/"+seg(email), nil, &wire); err != nil {
		return nil, err
	}
	if wire == nil || wire.Email == "" {
		return nil, ErrNotFound
	}

	u := wire.toModel()
	return &u, nil
}

// CreateUser регистрирует пользователя.
func (c *Client) CreateUser(ctx context.Context, u model.User) error {
	body := struct {
		Name  string     `json:"name"`
		Email string     `json:"email"`
		Photo string     `json:"photo,omitempty"`
		Role  model.Role `json:"role"`
	}{Name: u.Name, Email: u.Email, Photo: u.Photo, Role: u.Role}

	return c.do(ctx, http.MethodPost, "/users", body, nil)
}

// IsAdmin сообщает, является ли пользователь администратором.
func (c *Client) IsAdmin(ctx context.Context, email string) (bool, error) {
	var res struct {
		Admin bool `json:"admin"`
	}
	if err := c.do(ctx, http.MethodGet, "/users/admin/"+seg(email), nil, &res); err != nil {
		return false, err
	}
	return res.Admin, nil
}

// IsProvider сообщает, является ли пользователь исполнителем.
func (c *Client) IsProvider(ctx context.Context, email string) (bool, error) {
	var res struct {
		Provider bool `json:"provider"`
	}
	if err := c.do(ctx, http.MethodGet, "/users/provider/"+seg(email), nil, &res); err != nil {
		return false, err
	}
	return res.Provider, nil
}

// UpdateUserRole меняет роль пользователя.
func (c *Client) UpdateUserRole(ctx context.Context, email string, role model.Role) error {
	body := struct {
		Role model.Role `json:"role"`
	}{Role: role}

	return c.do(ctx, http.MethodPut, "/users/updateUserRole/"+seg(email), body, nil)
}

// DeleteUser удаляет пользователя.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/users/"+seg(id), nil, nil)
}

// Balance возвращает доступный к выводу баланс исполнителя.
func (c *Client) Balance(ctx context.Context, email string) (float64, error) {
	var res struct {
		Balance number `json:"balance"`
	}
	if err := c.do(ctx, http.MethodGet, "/users/balance/"+seg(email), nil, &res); err != nil {
		return 0, err
	}
	return float64(res.Balance), nil
}

// CreditBalance увеличивает баланс исполнителя на amount.
func (c *Client) CreditBalance(ctx context.Context, email string, amount float64) error {
	body := struct {
		Amount float64 `json:"amount"`
	}{Amount: amount}

	return c.do(ctx, http.MethodPut, "/users/updateBalance/"+seg(email), body, nil)
}
