package inventory

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/furniq/furniq-admin/internal/platform/db"
	"github.com/furniq/furniq-admin/internal/shared"
)

// TxRepository exposes the operations that must share one transaction:
// the log insert and the product stock adjustment it represents.
type TxRepository interface {
	ProductForUpdate(ctx context.Context, productID int64) (stock int, sku string, err error)
	SetProductStock(ctx context.Context, productID int64, stock int) error
	InsertLog(ctx context.Context, log Log) (Log, error)
	GetLog(ctx context.Context, id int64) (Log, error)
	DeleteLog(ctx context.Context, id int64) error
}

// RepositoryPort abstracts repository usage for the service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	List(ctx context.Context, filters ListFilters) ([]Log, error)
	Get(ctx context.Context, id int64) (Log, error)
	UpdateLog(ctx context.Context, id int64, reason Reason, notes string) (Log, error)
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const logColumns = `id, product_id, product_sku, change, reason, notes, user_id, created_at`

// WithTx runs fn against transactional repository methods.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{tx: tx})
	})
}

// List returns logs, newest first.
func (r *Repository) List(ctx context.Context, filters ListFilters) ([]Log, error) {
	query := `SELECT ` + logColumns + ` FROM inventory_logs`
	args := []any{}
	if filters.ProductID > 0 {
		args = append(args, filters.ProductID)
		query += ` WHERE product_id = $1`
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if filters.Limit > 0 {
		args = append(args, filters.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []Log
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// Get returns one log entry.
func (r *Repository) Get(ctx context.Context, id int64) (Log, error) {
	l, err := scanLog(r.pool.QueryRow(ctx, `SELECT `+logColumns+` FROM inventory_logs WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Log{}, shared.ErrNotFound
		}
		return Log{}, err
	}
	return l, nil
}

// UpdateLog rewrites the annotation fields of a log entry. The change delta
// is immutable; editing it would silently desync product stock.
func (r *Repository) UpdateLog(ctx context.Context, id int64, reason Reason, notes string) (Log, error) {
	l, err := scanLog(r.pool.QueryRow(ctx,
		`UPDATE inventory_logs SET reason = $1, notes = $2 WHERE id = $3 RETURNING `+logColumns,
		reason, notes, id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Log{}, shared.ErrNotFound
		}
		return Log{}, err
	}
	return l, nil
}

type txRepository struct {
	tx pgx.Tx
}

func (t *txRepository) ProductForUpdate(ctx context.Context, productID int64) (int, string, error) {
	var stock int
	var sku string
	err := t.tx.QueryRow(ctx, `SELECT stock, sku FROM products WHERE id = $1 FOR UPDATE`, productID).Scan(&stock, &sku)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, "", shared.ErrNotFound
		}
		return 0, "", err
	}
	return stock, sku, nil
}

func (t *txRepository) SetProductStock(ctx context.Context, productID int64, stock int) error {
	_, err := t.tx.Exec(ctx, `UPDATE products SET stock = $1, updated_at = NOW() WHERE id = $2`, stock, productID)
	return err
}

func (t *txRepository) InsertLog(ctx context.Context, log Log) (Log, error) {
	err := t.tx.QueryRow(ctx,
		`INSERT INTO inventory_logs (product_id, product_sku, change, reason, notes, user_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, NOW())
		 RETURNING id, created_at`,
		log.ProductID, log.ProductSKU, log.Change, log.Reason, log.Notes, log.UserID,
	).Scan(&log.ID, &log.CreatedAt)
	if err != nil {
		return Log{}, err
	}
	return log, nil
}

func (t *txRepository) GetLog(ctx context.Context, id int64) (Log, error) {
	l, err := scanLog(t.tx.QueryRow(ctx, `SELECT `+logColumns+` FROM inventory_logs WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Log{}, shared.ErrNotFound
		}
		return Log{}, err
	}
	return l, nil
}

func (t *txRepository) DeleteLog(ctx context.Context, id int64) error {
	tag, err := t.tx.Exec(ctx, `DELETE FROM inventory_logs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanLog(row pgx.Row) (Log, error) {
	var l Log
	err := row.Scan(&l.ID, &l.ProductID, &l.ProductSKU, &l.Change, &l.Reason, &l.Notes, &l.UserID, &l.CreatedAt)
	return l, err
}

var _ RepositoryPort = (*Repository)(nil)
