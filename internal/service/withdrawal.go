package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/mmeshcher/homeservices/internal/model"
)

var (
	// ErrInsufficientBalance возвращается при запросе суммы больше доступного баланса.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrInvalidPaymentMethod возвращается для неизвестного способа вывода.
	ErrInvalidPaymentMethod = errors.New("payment method must be bank, paypal or venmo")
	// ErrInvalidWithdrawalStatus возвращается для статуса, отличного от approved и rejected.
	ErrInvalidWithdrawalStatus = errors.New("status must be approved or rejected")
	// ErrWithdrawalNotFound возвращается для неизвестного запроса на вывод.
	ErrWithdrawalNotFound = errors.New("withdrawal not found")
	// ErrWithdrawalNotPending возвращается при попытке изменить уже рассмотренный запрос.
	ErrWithdrawalNotPending = errors.New("withdrawal is not pending")
)

// Balance возвращает баланс исполнителя текущей сессии.
func (s *Service) Balance(ctx context.Context, session model.Session) (float64, error) {
	return s.api.Balance(ctx, session.Email)
}

// MyWithdrawals возвращает запросы на вывод исполнителя текущей сессии.
func (s *Service) MyWithdrawals(ctx context.Context, session model.Session) ([]model.Withdrawal, error) {
	return s.api.WithdrawalsByUser(ctx, session.Email)
}

// RequestWithdrawal создаёт запрос на вывод суммы amount, не превышающей текущий баланс.
func (s *Service) RequestWithdrawal(ctx context.Context, session model.Session, amount float64, method model.PaymentMethod) error {
	if !(amount > 0) {
		return ErrInvalidAmount
	}
	if !method.Valid() {
		return ErrInvalidPaymentMethod
	}

	return s.actions.Run(ctx, actionKey(session, ActionWithdraw, session.Email), func(ctx context.Context) error {
		balance, err := s.api.Balance(ctx, session.Email)
		if err != nil {
			return fmt.Errorf("get balance: %w", err)
		}
		if amount > balance {
			return ErrInsufficientBalance
		}

		if err := s.api.CreateWithdrawal(ctx, session.Email, amount, method); err != nil {
			return fmt.Errorf("create withdrawal: %w", err)
		}
		return nil
	})
}

// Withdrawals возвращает все запросы на вывод.
func (s *Service) Withdrawals(ctx context.Context) ([]model.Withdrawal, error) {
	return s.api.Withdrawals(ctx)
}

// DecideWithdrawal одобряет или отклоняет запрос на вывод, находящийся в статусе pending.
func (s *Service) DecideWithdrawal(ctx context.Context, id string, status model.WithdrawalStatus) error {
	if !status.Decided() {
		return ErrInvalidWithdrawalStatus
	}

	all, err := s.api.Withdrawals(ctx)
	if err != nil {
		return fmt.Errorf("load withdrawals: %w", err)
	}

	var current *model.Withdrawal
	for i := range all {
		if all[i].ID == id {
			current = &all[i]
			break
		}
	}
	if current == nil {
		return ErrWithdrawalNotFound
	}
	if current.Status != model.WithdrawalPending {
		return ErrWithdrawalNotPending
	}

	if err := s.api.UpdateWithdrawalStatus(ctx, id, status); err != nil {
		return fmt.Errorf("update withdrawal status: %w", err)
	}
	return nil
}
