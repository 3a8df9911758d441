package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"tally/internal/core"
	"tally/internal/ledger"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is the durable ledger backend. It implements both
// ledger.TransactionStore and ledger.UserStore over a single database
// file, with the schema managed by embedded migrations.
type SQLiteRepository struct {
	db *sql.DB
}

var (
	_ ledger.TransactionStore = (*SQLiteRepository)(nil)
	_ ledger.UserStore        = (*SQLiteRepository)(nil)
)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) ListByOwner(ctx context.Context, ownerID int64, opts ledger.ListOptions) ([]core.Transaction, error) {
	query := `SELECT id, description, amount, type, category, date FROM transactions WHERE user_id = ?`
	args := []any{ownerID}
	if opts.DatePrefix != "" {
		query += ` AND date LIKE ?`
		args = append(args, opts.DatePrefix+"%")
	}
	// Secondary id key keeps equal dates in insertion order so the
	// listing is stable under re-fetch.
	if opts.Order == ledger.OrderDesc {
		query += ` ORDER BY date DESC, id ASC`
	} else {
		query += ` ORDER BY date ASC, id ASC`
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t := core.Transaction{OwnerID: ownerID}
		if err := rows.Scan(&t.ID, &t.Description, &t.Amount, &t.Type, &t.Category, &t.Date); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) Create(ctx context.Context, ownerID int64, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (description, amount, type, category, date, user_id) VALUES (?, ?, ?, ?, ?, ?)`,
		t.Description, t.Amount, string(t.Type), t.Category, t.Date, ownerID)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("last insert id: %w", err)
	}
	t.ID = id
	t.OwnerID = ownerID

	slog.InfoContext(ctx, "Transaction saved",
		"id", t.ID,
		"owner_id", ownerID,
		"type", t.Type,
		"amount", t.Amount,
		"date", t.Date)

	return t, nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, ownerID, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("delete transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteRepository) CreateUser(ctx context.Context, username, passwordHash string) (ledger.User, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash) VALUES (?, ?)`, username, passwordHash)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ledger.User{}, ledger.ErrUsernameTaken
		}
		return ledger.User{}, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return ledger.User{}, fmt.Errorf("last insert id: %w", err)
	}
	return ledger.User{ID: id, Username: username, PasswordHash: passwordHash}, nil
}

func (r *SQLiteRepository) UserByUsername(ctx context.Context, username string) (ledger.User, error) {
	u := ledger.User{Username: username}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, password_hash FROM users WHERE username = ?`, username).
		Scan(&u.ID, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.User{}, ledger.ErrNoSuchUser
	}
	if err != nil {
		return ledger.User{}, fmt.Errorf("select user: %w", err)
	}
	return u, nil
}
