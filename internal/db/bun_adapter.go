// Copyright (c) 2026 Warpkeeper Authors
// Warpkeeper - local account rotation service
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/warpkeeper/warpkeeper/internal/model"
)

// AccountModel maps the `accounts` table for Bun queries.
type AccountModel struct {
	bun.BaseModel `bun:"table:accounts"`
	Email         string    `bun:"email,pk"`
	Token         string    `bun:"token"`
	IsActive      bool      `bun:"is_active"`
	IsBanned      bool      `bun:"is_banned"`
	AddedAt       time.Time `bun:"added_at"`
	LastUsed      time.Time `bun:"last_used"`
}

func accountModelToModel(a AccountModel) model.Account {
	return model.Account{
		Email:    a.Email,
		Token:    a.Token,
		IsActive: a.IsActive,
		IsBanned: a.IsBanned,
		AddedAt:  a.AddedAt,
		LastUsed: a.LastUsed,
	}
}

// GetAllAccountsBun returns summaries for all accounts, active first, then by
// most recent use. Tokens are withheld; only their presence is reported.
func GetAllAccountsBun(bdb *bun.DB) ([]model.AccountSummary, error) {
	ctx := context.Background()
	var am []AccountModel
	err := bdb.NewSelect().Model(&am).OrderExpr("is_active DESC, last_used DESC").Scan(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.AccountSummary, 0, len(am))
	for _, a := range am {
		out = append(out, accountModelToModel(a).Summary())
	}
	return out, nil
}

// GetActiveAccountBun returns the active, unbanned account, or nil when no
// such row exists.
func GetActiveAccountBun(bdb *bun.DB) (*model.Account, error) {
	ctx := context.Background()
	var am AccountModel
	err := bdb.NewSelect().Model(&am).
		Where("is_active = ?", true).
		Where("is_banned = ?", false).
		Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	m := accountModelToModel(am)
	return &m, nil
}

// GetAccountBun retrieves a single account by email, or nil when absent.
func GetAccountBun(bdb *bun.DB, email string) (*model.Account, error) {
	ctx := context.Background()
	var am AccountModel
	err := bdb.NewSelect().Model(&am).Where("email = ?", email).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	m := accountModelToModel(am)
	return &m, nil
}

// GetStatsBun returns table-wide counters in a single query.
func GetStatsBun(bdb *bun.DB) (model.Stats, error) {
	ctx := context.Background()
	var row struct {
		Total  int `bun:"total"`
		Active int `bun:"active"`
		Banned int `bun:"banned"`
	}
	err := QueryRawInto(ctx, bdb, &row, `SELECT
		COUNT(*) AS total,
		COALESCE(SUM(CASE WHEN is_active THEN 1 ELSE 0 END), 0) AS active,
		COALESCE(SUM(CASE WHEN is_banned THEN 1 ELSE 0 END), 0) AS banned
		FROM accounts`)
	if err != nil {
		return model.Stats{}, err
	}
	return model.Stats{Total: row.Total, Active: row.Active, Banned: row.Banned}, nil
}

// UpsertAccountBun inserts a fresh inactive, unbanned account, or refreshes
// token and last_used on the existing row, leaving its flags untouched. The
// returned bool reports whether a new row was created.
func UpsertAccountBun(bdb *bun.DB, email, token string) (bool, error) {
	ctx := context.Background()
	now := time.Now().UTC()

	created := false
	err := WithTx(ctx, bdb, func(ctx context.Context, tx bun.Tx) error {
		// Probe for the row first. Recovering from a duplicate-key INSERT
		// inside the same transaction does not work on Postgres, where any
		// failed statement aborts the whole transaction.
		exists, err := tx.NewSelect().
			Model((*AccountModel)(nil)).
			Where("email = ?", email).
			Exists(ctx)
		if err != nil {
			return err
		}
		if exists {
			// Existing row: refresh the credential only.
			if _, err := ExecRaw(ctx, tx, "UPDATE accounts SET token = ?, last_used = ? WHERE email = ?", token, now, email); err != nil {
				return fmt.Errorf("failed to refresh token for %s: %w", email, err)
			}
			return nil
		}

		am := &AccountModel{
			Email:    email,
			Token:    token,
			IsActive: false,
			IsBanned: false,
			AddedAt:  now,
			LastUsed: now,
		}
		if _, err := tx.NewInsert().Model(am).Exec(ctx); err != nil {
			return MapDBError(err)
		}
		created = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

// DeleteAccountBun removes an account by email and reports how many rows were
// removed. Deleting an absent email is not an error.
func DeleteAccountBun(bdb *bun.DB, email string) (int64, error) {
	ctx := context.Background()
	res, err := bdb.NewDelete().Model((*AccountModel)(nil)).Where("email = ?", email).Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// BanAccountBun marks an account banned and clears its active flag in one
// statement. Idempotent; banning an unknown email is a no-op.
func BanAccountBun(bdb *bun.DB, email string) error {
	ctx := context.Background()
	_, err := ExecRaw(ctx, bdb, "UPDATE accounts SET is_banned = ?, is_active = ? WHERE email = ?", true, false, email)
	return err
}

// ClearAllActiveBun deactivates every account. Use a raw UPDATE because Bun
// requires a WHERE clause for Update/Delete queries to prevent accidental
// full-table updates.
func ClearAllActiveBun(bdb *bun.DB) error {
	ctx := context.Background()
	_, err := ExecRaw(ctx, bdb, "UPDATE accounts SET is_active = ?", false)
	return err
}

// activateTx flips one unbanned account to active and stamps last_used. It
// reports whether a row was actually updated so the caller can distinguish
// "activated" from "account missing or banned".
func activateTx(ctx context.Context, exec execRawProvider, email string, now time.Time) (bool, error) {
	res, err := ExecRaw(ctx, exec, "UPDATE accounts SET is_active = ?, last_used = ? WHERE email = ? AND is_banned = ?", true, now, email, false)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ActivateAccountBun activates a single unbanned account outside of any
// larger transaction.
func ActivateAccountBun(bdb *bun.DB, email string) (bool, error) {
	return activateTx(context.Background(), bdb, email, time.Now().UTC())
}

// SwitchActiveAccountBun rotates to the least-recently-used unbanned account
// other than the current one, within a single transaction. When no candidate
// exists the clear still commits (ending with zero active accounts is an
// accepted terminal state) and ErrNoCandidate is returned.
func SwitchActiveAccountBun(bdb *bun.DB) (*model.Account, error) {
	ctx := context.Background()
	now := time.Now().UTC()

	tx, err := bdb.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	// Remember the current active account so rotation never re-selects it
	// when an alternative exists.
	var current AccountModel
	currentEmail := ""
	err = tx.NewSelect().Model(&current).Where("is_active = ?", true).Limit(1).Scan(ctx)
	switch {
	case err == nil:
		currentEmail = current.Email
	case errors.Is(err, sql.ErrNoRows):
		// No active account; every unbanned row is a candidate.
	default:
		return nil, err
	}

	if _, err := ExecRaw(ctx, tx, "UPDATE accounts SET is_active = ?", false); err != nil {
		return nil, fmt.Errorf("failed to deactivate accounts: %w", err)
	}

	// Least-recently-used first; ties broken by email for determinism.
	var candidate AccountModel
	q := tx.NewSelect().Model(&candidate).Where("is_banned = ?", false)
	if currentEmail != "" {
		q = q.Where("email != ?", currentEmail)
	}
	err = q.OrderExpr("last_used ASC, email ASC").Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if err := tx.Commit(); err != nil {
				return nil, err
			}
			return nil, ErrNoCandidate
		}
		return nil, err
	}

	if _, err := activateTx(ctx, tx, candidate.Email, now); err != nil {
		return nil, fmt.Errorf("failed to activate %s: %w", candidate.Email, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	candidate.IsActive = true
	candidate.LastUsed = now
	m := accountModelToModel(candidate)
	return &m, nil
}

// ActivateAccountExclusiveBun deactivates every account and then activates the
// named one, within a single transaction. A missing or banned email commits
// the clear (no account remains active) and returns ErrNotFound.
func ActivateAccountExclusiveBun(bdb *bun.DB, email string) (*model.Account, error) {
	ctx := context.Background()
	now := time.Now().UTC()

	tx, err := bdb.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := ExecRaw(ctx, tx, "UPDATE accounts SET is_active = ?", false); err != nil {
		return nil, fmt.Errorf("failed to deactivate accounts: %w", err)
	}

	updated, err := activateTx(ctx, tx, email, now)
	if err != nil {
		return nil, err
	}
	if !updated {
		if err := tx.Commit(); err != nil {
			return nil, err
		}
		return nil, ErrNotFound
	}

	var am AccountModel
	if err := tx.NewSelect().Model(&am).Where("email = ?", email).Limit(1).Scan(ctx); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	m := accountModelToModel(am)
	return &m, nil
}

// ExportDataBun exports all accounts into a model.BackupData using a Bun
// transaction for a consistent snapshot.
func ExportDataBun(bdb *bun.DB) (*model.BackupData, error) {
	ctx := context.Background()
	var backup *model.BackupData
	err := WithTx(ctx, bdb, func(ctx context.Context, tx bun.Tx) error {
		backup = &model.BackupData{SchemaVersion: 1, ExportedAt: time.Now().UTC()}

		var accounts []AccountModel
		if err := tx.NewSelect().Model(&accounts).OrderExpr("email").Scan(ctx); err != nil {
			return err
		}
		for _, a := range accounts {
			backup.Accounts = append(backup.Accounts, accountModelToModel(a))
		}
		return nil
	})
	return backup, err
}

// ImportDataBun performs a full wipe-and-replace restore within a single
// transaction.
func ImportDataBun(bdb *bun.DB, backup *model.BackupData) error {
	ctx := context.Background()
	return WithTx(ctx, bdb, func(ctx context.Context, tx bun.Tx) error {
		if _, err := ExecRaw(ctx, tx, "DELETE FROM accounts"); err != nil {
			return err
		}
		for _, acc := range backup.Accounts {
			if _, err := ExecRaw(ctx, tx,
				"INSERT INTO accounts (email, token, is_active, is_banned, added_at, last_used) VALUES (?, ?, ?, ?, ?, ?)",
				acc.Email, acc.Token, acc.IsActive, acc.IsBanned, acc.AddedAt, acc.LastUsed); err != nil {
				return MapDBError(err)
			}
		}
		return nil
	})
}
