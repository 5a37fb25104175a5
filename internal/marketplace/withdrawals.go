package marketplace

import (
	"context"
	"net/http"

	"github.com/mmeshcher/homeservices/internal/model"
)

// Withdrawals возвращает все запросы на вывод средств.
func (c *Client) Withdrawals(ctx context.Context) ([]model.Withdrawal, error) {
	return c.withdrawals(ctx, "/withdrawals")
}

// WithdrawalsByUser возвращает запросы на вывод средств пользователя.
func (c *Client) WithdrawalsByUser(ctx context.Context, email string) ([]model.Withdrawal, error) {
	return c.withdrawals(ctx, "/withdrawals/user/"+seg(email))
}

func (c *Client) withdrawals(ctx context.Context, path string) ([]model.Withdrawal, error) {
	var wire []wireWithdrawal
	if err := c.do(ctx, http.MethodGet, path, nil, &wire); err != nil {
		return nil, err
	}

	out := make([]model.Withdrawal, 0, len(wire))
	for _, w := range wire {
		out = append(out, w.toModel())
	}
	return out, nil
}

// CreateWithdrawal создаёт запрос на вывод средств.
func (c *Client) CreateWithdrawal(ctx context.Context, email string, amount float64, method model.PaymentMethod) error {
	body := struct {
		Email         string              `json:"email"`
		Amount        float64             `json:"amount"`
		PaymentMethod model.PaymentMethod `json:"paymentMethod"`
	}{Email: email, Amount: amount, PaymentMethod: method}

	return c.do(ctx, http.MethodPost, "/withdrawals", body, nil)
}

// UpdateWithdrawalStatus меняет статус запроса на вывод средств.
func (c *Client) UpdateWithdrawalStatus(ctx context.Context, id string, status model.WithdrawalStatus) error {
	body := struct {
		Status model.WithdrawalStatus `json:"status"`
	}{Status: status}

	return c.do(ctx, http.MethodPut, "/withdrawals/"+seg(id), body, nil)
}
