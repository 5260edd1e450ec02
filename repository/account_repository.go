package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go-bankist/logger"
	"go-bankist/model"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var ErrAccountNotFound = errors.New("account not found")

// IAccountRepository defines the contract for account persistence.
type IAccountRepository interface {
	HasAccounts(ctx context.Context) (bool, error)
	GetActiveAccounts(ctx context.Context) ([]model.Account, error)
	CreateAccount(ctx context.Context, account model.Account) error
	AppendMovement(ctx context.Context, username string, amount decimal.Decimal, at time.Time) error
	CloseAccount(ctx context.Context, username string) error
}

// AccountRepository stores accounts and their movement journal in Postgres.
type AccountRepository struct {
	DB *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{DB: db}
}

// HasAccounts reports whether any account, open or closed, was ever stored.
func (r *AccountRepository) HasAccounts(ctx context.Context) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM accounts)`).Scan(&exists)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to check for existing accounts")
		return false, err
	}
	return exists, nil
}

// GetActiveAccounts loads every account that has not been closed, with its
// movements in the order they were recorded.
func (r *AccountRepository) GetActiveAccounts(ctx context.Context) ([]model.Account, error) {
	log := logger.Log
	log.Info("Executing query to get active accounts")

	query := `SELECT username, owner, pin_hash, interest_rate, currency, locale
		FROM accounts WHERE closed_at IS NULL ORDER BY username`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		log.WithError(err).Error("Failed to execute query for active accounts")
		return nil, err
	}
	defer rows.Close()

	var accounts []model.Account
	index := make(map[string]int)
	for rows.Next() {
		var acc model.Account
		if err := rows.Scan(&acc.Username, &acc.Owner, &acc.PINHash, &acc.InterestRate, &acc.Currency, &acc.Locale); err != nil {
			log.WithError(err).Error("Failed to scan account row")
			return nil, err
		}
		index[acc.Username] = len(accounts)
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	query = `SELECT m.username, m.amount, m.created_at
		FROM movements m JOIN accounts a ON a.username = m.username
		WHERE a.closed_at IS NULL
		ORDER BY m.username, m.id`
	mrows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		log.WithError(err).Error("Failed to execute query for movements")
		return nil, err
	}
	defer mrows.Close()

	for mrows.Next() {
		var (
			username string
			amount   decimal.Decimal
			at       time.Time
		)
		if err := mrows.Scan(&username, &amount, &at); err != nil {
			log.WithError(err).Error("Failed to scan movement row")
			return nil, err
		}
		i, ok := index[username]
		if !ok {
			continue
		}
		accounts[i].Movements = append(accounts[i].Movements, amount)
		accounts[i].MovementsDates = append(accounts[i].MovementsDates, at)
	}
	if err := mrows.Err(); err != nil {
		return nil, err
	}

	log.WithField("count", len(accounts)).Info("Active accounts loaded")
	return accounts, nil
}

// CreateAccount inserts the account and its initial movements in one
// transaction.
func (r *AccountRepository) CreateAccount(ctx context.Context, account model.Account) error {
	log := logger.Log.WithFields(logrus.Fields{
		"username":  account.Username,
		"currency":  account.Currency,
		"movements": len(account.Movements),
	})
	log.Info("Executing query to create a new account")

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		log.WithError(err).Error("Failed to begin transaction")
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO accounts (username, owner, pin_hash, interest_rate, currency, locale) VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := tx.ExecContext(ctx, query, account.Username, account.Owner, account.PINHash,
		account.InterestRate, account.Currency, account.Locale); err != nil {
		log.WithError(err).Error("Failed to execute create account query")
		return err
	}

	for i, m := range account.Movements {
		if err := insertMovement(ctx, tx, account.Username, m, account.MovementsDates[i]); err != nil {
			log.WithError(err).Error("Failed to insert seed movement")
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		log.WithError(err).Error("Failed to commit create account transaction")
		return err
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertMovement(ctx context.Context, db execer, username string, amount decimal.Decimal, at time.Time) error {
	query := `INSERT INTO movements (username, amount, created_at) VALUES ($1, $2, $3)`
	_, err := db.ExecContext(ctx, query, username, amount, at)
	return err
}

// AppendMovement journals one committed movement.
func (r *AccountRepository) AppendMovement(ctx context.Context, username string, amount decimal.Decimal, at time.Time) error {
	log := logger.Log.WithFields(logrus.Fields{
		"username": username,
		"amount":   amount.String(),
	})
	log.Info("Executing query to append movement")

	if err := insertMovement(ctx, r.DB, username, amount, at); err != nil {
		log.WithError(err).Error("Failed to execute append movement query")
		return err
	}
	return nil
}

// CloseAccount marks the account closed. Its movements are kept.
func (r *AccountRepository) CloseAccount(ctx context.Context, username string) error {
	log := logger.Log.WithField("username", username)
	log.Info("Executing query to close account")

	query := `UPDATE accounts SET closed_at = NOW() WHERE username = $1 AND closed_at IS NULL`
	res, err := r.DB.ExecContext(ctx, query, username)
	if err != nil {
		log.WithError(err).Error("Failed to execute close account query")
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		log.Info("No open account to close")
		return fmt.Errorf("close %s: %w", username, ErrAccountNotFound)
	}
	return nil
}

// Journal adapts an IAccountRepository to the ledger's observer hooks.
// The ledger has already committed the change, so failures are logged.
type Journal struct {
	Repo IAccountRepository
}

func (j Journal) MovementAppended(ctx context.Context, username string, amount decimal.Decimal, at time.Time) {
	if err := j.Repo.AppendMovement(ctx, username, amount, at); err != nil {
		logger.Log.WithError(err).WithField("username", username).Error("Movement was not journaled")
	}
}

func (j Journal) AccountClosed(ctx context.Context, username string) {
	if err := j.Repo.CloseAccount(ctx, username); err != nil {
		logger.Log.WithError(err).WithField("username", username).Error("Account closure was not journaled")
	}
}
