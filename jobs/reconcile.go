package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StockDrift is one product whose stock disagrees with its ledger.
type StockDrift struct {
	ProductID int64  `json:"productId"`
	SKU       string `json:"sku"`
	Stock     int    `json:"stock"`
	LedgerSum int    `json:"ledgerSum"`
}

// DriftSource yields products whose stored stock differs from the sum of
// their inventory log deltas.
type DriftSource interface {
	FindDrift(ctx context.Context, productID int64) ([]StockDrift, error)
}

// PGDriftSource reads drift straight from Postgres.
type PGDriftSource struct {
	pool *pgxpool.Pool
}

// NewPGDriftSource returns a DriftSource over the pool.
func NewPGDriftSource(pool *pgxpool.Pool) *PGDriftSource {
	return &PGDriftSource{pool: pool}
}

func (s *PGDriftSource) FindDrift(ctx context.Context, productID int64) ([]StockDrift, error) {
	query := `
		SELECT p.id, p.sku, p.stock, COALESCE(SUM(l.change), 0) AS ledger_sum
		FROM products p
		LEFT JOIN inventory_logs l ON l.product_id = p.id
		WHERE ($1 = 0 OR p.id = $1)
		GROUP BY p.id, p.sku, p.stock
		HAVING p.stock <> COALESCE(SUM(l.change), 0)
		ORDER BY p.id`
	rows, err := s.pool.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("find stock drift: %w", err)
	}
	defer rows.Close()

	var out []StockDrift
	for rows.Next() {
		var d StockDrift
		if err := rows.Scan(&d.ProductID, &d.SKU, &d.Stock, &d.LedgerSum); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Reconciler runs the stock-vs-ledger sweep. It observes and reports;
// correcting drift stays a human decision via a Correction log entry.
type Reconciler struct {
	source DriftSource
	logger *slog.Logger
}

// NewReconciler builds a Reconciler.
func NewReconciler(source DriftSource, logger *slog.Logger) *Reconciler {
	return &Reconciler{source: source, logger: logger}
}

// Run executes one sweep and returns the drift found.
func (r *Reconciler) Run(ctx context.Context, payload StockReconcilePayload) ([]StockDrift, error) {
	drift, err := r.source.FindDrift(ctx, payload.ProductID)
	if err != nil {
		return nil, err
	}
	if len(drift) == 0 {
		r.logger.Info("stock reconcile clean", slog.Int64("productId", payload.ProductID))
		return nil, nil
	}
	for _, d := range drift {
		r.logger.Warn("stock drift detected",
			slog.Int64("productId", d.ProductID),
			slog.String("sku", d.SKU),
			slog.Int("stock", d.Stock),
			slog.Int("ledgerSum", d.LedgerSum),
		)
	}
	return drift, nil
}

// HandleTask adapts Run to the Asynq handler signature.
func (r *Reconciler) HandleTask(ctx context.Context, t *asynq.Task) error {
	var payload StockReconcilePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	_, err := r.Run(ctx, payload)
	return err
}
