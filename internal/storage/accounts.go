package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/petminder/petcare-backend/internal/models"
)

const accountColumns = `uid, email, username, password_hash, role, trial_start_date,
			      is_paying, next_due_date, subscription_status`

// CreateAccount сохраняет новый аккаунт в базу данных и возвращает его UID.
// Поле trial_start_date заполняется в момент вставки и далее не обновляется.
func (s *Storage) CreateAccount(ctx context.Context, account models.Account) (string, error) {
	const op = "storage.CreateAccount"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO accounts (email, username, password_hash, role, trial_start_date,
			      is_paying, subscription_status)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		account.Email, account.Username, account.PasswordHash, account.Role,
		account.TrialStartDate, account.IsPaying, account.SubscriptionStatus).Scan(&newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetAccountByUsername возвращает аккаунт по его username.
func (s *Storage) GetAccountByUsername(ctx context.Context, username string) (*models.Account, error) {
	const op = "storage.GetAccountByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + accountColumns + `
			  FROM accounts
			  WHERE username = $1`
	return s.scanAccount(s.DB.QueryRowContext(ctx, query, username), op)
}

// GetAccountByEmail возвращает аккаунт по нормализованному email.
func (s *Storage) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	const op = "storage.GetAccountByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + accountColumns + `
			  FROM accounts
			  WHERE email = $1`
	return s.scanAccount(s.DB.QueryRowContext(ctx, query, email), op)
}

func (s *Storage) scanAccount(row *sql.Row, op string) (*models.Account, error) {
	a := &models.Account{}
	var nextDueDate sql.NullTime
	if err := row.Scan(&a.UID, &a.Email, &a.Username, &a.PasswordHash, &a.Role,
		&a.TrialStartDate, &a.IsPaying, &nextDueDate, &a.SubscriptionStatus); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrAccountNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if nextDueDate.Valid {
		a.NextDueDate = &nextDueDate.Time
	}
	return a, nil
}

// ConfirmPayment отмечает аккаунт как оплаченный: is_paying = true,
// subscription_status = active, next_due_date обновляется только когда
// передана новая дата. Один атомарный UPDATE по уникальному email,
// повторное применение того же снапшота не меняет состояние.
func (s *Storage) ConfirmPayment(ctx context.Context, email string, nextDueDate *time.Time) error {
	const op = "storage.ConfirmPayment"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE accounts
			  SET is_paying = TRUE,
			      subscription_status = $2,
			      next_due_date = COALESCE($3, next_due_date)
			  WHERE email = $1`
	res, err := s.DB.ExecContext(ctx, query, email, models.SubscriptionActive, nextDueDate)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return s.requireAccountAffected(res, op)
}

// CancelPayment отмечает аккаунт как неоплачиваемый: is_paying = false,
// subscription_status = cancelled. Поле next_due_date не трогается,
// по нему продолжает действовать льготный период.
func (s *Storage) CancelPayment(ctx context.Context, email string) error {
	const op = "storage.CancelPayment"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE accounts
			  SET is_paying = FALSE,
			      subscription_status = $2
			  WHERE email = $1`
	res, err := s.DB.ExecContext(ctx, query, email, models.SubscriptionCancelled)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return s.requireAccountAffected(res, op)
}

func (s *Storage) requireAccountAffected(res sql.Result, op string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrAccountNotFound)
	}
	return nil
}

// FindTrialExpiringWithin находит неоплачиваемые аккаунты, у которых пробный
// период заканчивается в ближайшие days дней. Используется планировщиком
// уведомлений.
func (s *Storage) FindTrialExpiringWithin(ctx context.Context, days int) ([]*models.Account, error) {
	const op = "storage.FindTrialExpiringWithin"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + accountColumns + `
			  FROM accounts
			  WHERE is_paying = FALSE
			    AND (trial_start_date + INTERVAL '7 days')::DATE
			        BETWEEN CURRENT_DATE AND CURRENT_DATE + $1::INT;`
	rows, err := s.DB.QueryContext(ctx, query, days)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Account
	for rows.Next() {
		var a models.Account
		var nextDueDate sql.NullTime
		if err = rows.Scan(&a.UID, &a.Email, &a.Username, &a.PasswordHash, &a.Role,
			&a.TrialStartDate, &a.IsPaying, &nextDueDate, &a.SubscriptionStatus); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if nextDueDate.Valid {
			a.NextDueDate = &nextDueDate.Time
		}
		result = append(result, &a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
