// Package storage is the relational store behind the record gateway. It
// keeps the legacy tables (transacciones, usuarios) the gateway exposes.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// TransactionRecord mirrors one row of the transacciones table. Field names
// follow the legacy wire contract.
type TransactionRecord struct {
	ID          int64
	Descripcion string
	Monto       float64
	Fecha       string // ISO calendar date
	Categoria   string
}

// UserRecord mirrors one row of the usuarios table.
type UserRecord struct {
	ID     int64
	Nombre string
	Email  string
	Saldo  float64
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
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

// CreateTransaction inserts a record and returns it with its assigned id.
func (r *SQLiteRepository) CreateTransaction(ctx context.Context, rec TransactionRecord) (TransactionRecord, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transacciones (descripcion, monto, fecha, categoria) VALUES (?, ?, ?, ?)`,
		rec.Descripcion, rec.Monto, rec.Fecha, rec.Categoria)
	if err != nil {
		return TransactionRecord{}, fmt.Errorf("insert transaction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return TransactionRecord{}, fmt.Errorf("last insert id: %w", err)
	}
	rec.ID = id

	slog.InfoContext(ctx, "Transaction record saved",
		"id", rec.ID,
		"descripcion", rec.Descripcion,
		"monto", rec.Monto,
		"fecha", rec.Fecha)

	return rec, nil
}

// DeleteTransaction removes a record by id. The boolean reports whether a
// row was actually deleted.
func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transacciones WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// ListTransactions returns all records, newest first.
func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]TransactionRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, descripcion, monto, fecha, COALESCE(categoria, '') FROM transacciones ORDER BY fecha DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []TransactionRecord
	for rows.Next() {
		var rec TransactionRecord
		if err := rows.Scan(&rec.ID, &rec.Descripcion, &rec.Monto, &rec.Fecha, &rec.Categoria); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// CreateUser inserts a user record; saldo defaults to 0 when unset.
func (r *SQLiteRepository) CreateUser(ctx context.Context, rec UserRecord) (UserRecord, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO usuarios (nombre, email, saldo) VALUES (?, ?, ?)`,
		rec.Nombre, rec.Email, rec.Saldo)
	if err != nil {
		return UserRecord{}, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return UserRecord{}, fmt.Errorf("last insert id: %w", err)
	}
	rec.ID = id
	return rec, nil
}

// ListUsers returns all user records.
func (r *SQLiteRepository) ListUsers(ctx context.Context) ([]UserRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, COALESCE(nombre, ''), COALESCE(email, ''), saldo FROM usuarios ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var out []UserRecord
	for rows.Next() {
		var rec UserRecord
		if err := rows.Scan(&rec.ID, &rec.Nombre, &rec.Email, &rec.Saldo); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// AdjustUserBalance adds delta to a user's saldo. The boolean reports
// whether the user exists.
func (r *SQLiteRepository) AdjustUserBalance(ctx context.Context, id int64, delta float64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE usuarios SET saldo = saldo + ? WHERE id = ?`, delta, id)
	if err != nil {
		return false, fmt.Errorf("adjust balance: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	if n > 0 {
		slog.InfoContext(ctx, "User balance adjusted", "id", id, "delta", delta)
	}
	return n > 0, nil
}
