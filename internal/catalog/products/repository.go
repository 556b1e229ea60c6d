package products

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/furniq/furniq-admin/internal/shared"
)

// Repository defines persistence operations for products.
type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]Product, int, error)
	Get(ctx context.Context, id int64) (Product, error)
	Create(ctx context.Context, product Product) (Product, error)
	Update(ctx context.Context, product Product) (Product, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const productColumns = `id, name, sku, category, subcategory, price, offer_price, stock, low_stock, status,
	brand, material, color, style, size, warranty, image_url, description, created_at, updated_at, archived_at`

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Product, int, error) {
	where := ` WHERE 1=1`
	args := []any{}

	switch filters.Status {
	case "", "all":
	default:
		args = append(args, filters.Status)
		where += ` AND status = $` + strconv.Itoa(len(args))
	}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		n := strconv.Itoa(len(args))
		where += ` AND (name ILIKE $` + n + ` OR sku ILIKE $` + n + `)`
	}
	if filters.Category != "" {
		args = append(args, filters.Category)
		n := strconv.Itoa(len(args))
		where += ` AND (category = $` + n + ` OR subcategory = $` + n + `)`
	}

	countArgs := make([]any, len(args))
	copy(countArgs, args)

	query := `SELECT ` + productColumns + ` FROM products` + where + ` ORDER BY created_at DESC, id DESC`
	if filters.PerPage > 0 {
		args = append(args, filters.PerPage)
		query += ` LIMIT $` + strconv.Itoa(len(args))
		offset := (filters.Page - 1) * filters.PerPage
		if offset < 0 {
			offset = 0
		}
		args = append(args, offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	// The count and the page are independent reads; run them in parallel
	// on separate pool connections.
	var total int
	var items []Product
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.db.QueryRow(gctx, `SELECT COUNT(*) FROM products`+where, countArgs...).Scan(&total)
	})
	g.Go(func() error {
		rows, err := r.db.Query(gctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			p, err := scanProduct(rows)
			if err != nil {
				return err
			}
			items = append(items, p)
		}
		return rows.Err()
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repository) Get(ctx context.Context, id int64) (Product, error) {
	row := r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, shared.ErrNotFound
		}
		return Product{}, err
	}
	return p, nil
}

func (r *repository) Create(ctx context.Context, p Product) (Product, error) {
	err := r.db.QueryRow(ctx,
		`INSERT INTO products (name, sku, category, subcategory, price, offer_price, stock, low_stock, status,
			brand, material, color, style, size, warranty, image_url, description, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, NOW(), NOW())
		 RETURNING id, created_at, updated_at`,
		p.Name, p.SKU, p.Category, p.Subcategory, p.Price, p.OfferPrice, p.Stock, p.LowStock, p.Status,
		p.Brand, p.Material, p.Color, p.Style, p.Size, p.Warranty, p.ImageURL, p.Description,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Product{}, mapPGError(err)
	}
	return p, nil
}

func (r *repository) Update(ctx context.Context, p Product) (Product, error) {
	err := r.db.QueryRow(ctx,
		`UPDATE products SET name = $1, sku = $2, category = $3, subcategory = $4, price = $5, offer_price = $6,
			stock = $7, low_stock = $8, status = $9, brand = $10, material = $11, color = $12, style = $13,
			size = $14, warranty = $15, image_url = $16, description = $17, archived_at = $18, updated_at = NOW()
		 WHERE id = $19
		 RETURNING updated_at`,
		p.Name, p.SKU, p.Category, p.Subcategory, p.Price, p.OfferPrice, p.Stock, p.LowStock, p.Status,
		p.Brand, p.Material, p.Color, p.Style, p.Size, p.Warranty, p.ImageURL, p.Description, p.ArchivedAt, p.ID,
	).Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, shared.ErrNotFound
		}
		return Product{}, mapPGError(err)
	}
	return p, nil
}

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.SKU, &p.Category, &p.Subcategory, &p.Price, &p.OfferPrice,
		&p.Stock, &p.LowStock, &p.Status, &p.Brand, &p.Material, &p.Color, &p.Style, &p.Size,
		&p.Warranty, &p.ImageURL, &p.Description, &p.CreatedAt, &p.UpdatedAt, &p.ArchivedAt)
	return p, err
}

func mapPGError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return shared.ErrDuplicate
	}
	return err
}
