package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	entsql "entgo.io/ent/dialect/sql"
)

// accountRepo implements AccountRepo against the accounts table.
type accountRepo struct {
	db *sql.DB
}

var accountColumns = []string{"id", "email", "display_name", "photo_url", "provider", "password_hash", "created_at"}

func (r *accountRepo) CreateAccount(ctx context.Context, a *Account) error {
	email := normalizeEmail(a.Email)

	if _, err := r.AccountByEmail(ctx, email); err == nil {
		return &StorageError{Op: "create", Path: "accounts/" + email, Err: ErrDuplicate}
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	query, args := builder.Insert(accountsTable.Name).
		Columns(accountColumns...).
		Values(a.ID, email, a.DisplayName, a.PhotoURL, a.Provider, a.PasswordHash, toNanos(a.CreatedAt)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return &StorageError{Op: "create", Path: "accounts/" + a.ID, Err: err}
	}
	a.Email = email
	return nil
}

func (r *accountRepo) AccountByEmail(ctx context.Context, email string) (*Account, error) {
	return r.one(ctx, "accounts/"+email, entsql.EQ("email", normalizeEmail(email)))
}

func (r *accountRepo) AccountByID(ctx context.Context, id string) (*Account, error) {
	return r.one(ctx, "accounts/"+id, entsql.EQ("id", id))
}

func (r *accountRepo) UpdateProfile(ctx context.Context, id, displayName, photoURL string) error {
	query, args := builder.Update(accountsTable.Name).
		Set("display_name", displayName).
		Set("photo_url", photoURL).
		Where(entsql.EQ("id", id)).
		Query()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return &StorageError{Op: "update", Path: "accounts/" + id, Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &StorageError{Op: "update", Path: "accounts/" + id, Err: ErrNotFound}
	}
	return nil
}

func (r *accountRepo) one(ctx context.Context, path string, where *entsql.Predicate) (*Account, error) {
	query, args := builder.Select(accountColumns...).
		From(entsql.Table(accountsTable.Name)).
		Where(where).
		Query()

	var (
		a       Account
		created int64
	)
	err := r.db.QueryRowContext(ctx, query, args...).
		Scan(&a.ID, &a.Email, &a.DisplayName, &a.PhotoURL, &a.Provider, &a.PasswordHash, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &StorageError{Op: "get", Path: path, Err: ErrNotFound}
		}
		return nil, &StorageError{Op: "get", Path: path, Err: err}
	}
	a.CreatedAt = fromNanos(created)
	return &a, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
