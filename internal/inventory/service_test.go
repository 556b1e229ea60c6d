package inventory

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/furniq/furniq-admin/internal/shared"
)

type memoryProduct struct {
	stock int
	sku   string
}

type memoryRepo struct {
	nextID   int64
	products map[int64]*memoryProduct
	logs     map[int64]Log
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{nextID: 1, products: map[int64]*memoryProduct{}, logs: map[int64]Log{}}
}

func (m *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return fn(ctx, m)
}

func (m *memoryRepo) ProductForUpdate(_ context.Context, productID int64) (int, string, error) {
	p, ok := m.products[productID]
	if !ok {
		return 0, "", shared.ErrNotFound
	}
	return p.stock, p.sku, nil
}

func (m *memoryRepo) SetProductStock(_ context.Context, productID int64, stock int) error {
	p, ok := m.products[productID]
	if !ok {
		return shared.ErrNotFound
	}
	p.stock = stock
	return nil
}

func (m *memoryRepo) InsertLog(_ context.Context, log Log) (Log, error) {
	log.ID = m.nextID
	m.nextID++
	m.logs[log.ID] = log
	return log, nil
}

func (m *memoryRepo) GetLog(_ context.Context, id int64) (Log, error) {
	log, ok := m.logs[id]
	if !ok {
		return Log{}, shared.ErrNotFound
	}
	return log, nil
}

func (m *memoryRepo) DeleteLog(_ context.Context, id int64) error {
	if _, ok := m.logs[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.logs, id)
	return nil
}

func (m *memoryRepo) List(_ context.Context, filters ListFilters) ([]Log, error) {
	var out []Log
	for _, log := range m.logs {
		if filters.ProductID > 0 && log.ProductID != filters.ProductID {
			continue
		}
		out = append(out, log)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if filters.Limit > 0 && len(out) > filters.Limit {
		out = out[:filters.Limit]
	}
	return out, nil
}

func (m *memoryRepo) Get(ctx context.Context, id int64) (Log, error) {
	return m.GetLog(ctx, id)
}

func (m *memoryRepo) UpdateLog(_ context.Context, id int64, reason Reason, notes string) (Log, error) {
	log, ok := m.logs[id]
	if !ok {
		return Log{}, shared.ErrNotFound
	}
	log.Reason = reason
	log.Notes = notes
	m.logs[id] = log
	return log, nil
}

var _ RepositoryPort = (*memoryRepo)(nil)
var _ TxRepository = (*memoryRepo)(nil)

func newTestService(repo *memoryRepo) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, nil, logger)
}

func TestCreateLogAdjustsStock(t *testing.T) {
	repo := newMemoryRepo()
	repo.products[1] = &memoryProduct{stock: 10, sku: "SOF-001"}
	svc := newTestService(repo)

	log, err := svc.CreateLog(context.Background(), CreateInput{
		ProductID: 1,
		Change:    5,
		Reason:    ReasonStockAdded,
	}, 42)
	require.NoError(t, err)
	require.Equal(t, 15, repo.products[1].stock)
	require.Equal(t, "SOF-001", log.ProductSKU)
	require.Equal(t, int64(42), log.UserID)
}

func TestCreateLogRejectsNegativeResult(t *testing.T) {
	repo := newMemoryRepo()
	repo.products[1] = &memoryProduct{stock: 3, sku: "SOF-001"}
	svc := newTestService(repo)

	_, err := svc.CreateLog(context.Background(), CreateInput{
		ProductID: 1,
		Change:    -5,
		Reason:    ReasonOrderShipped,
	}, 1)
	require.ErrorIs(t, err, shared.ErrValidation)
	require.Equal(t, 3, repo.products[1].stock)
	require.Empty(t, repo.logs)
}

func TestCreateLogRejectsZeroChange(t *testing.T) {
	repo := newMemoryRepo()
	repo.products[1] = &memoryProduct{stock: 3, sku: "SOF-001"}
	svc := newTestService(repo)

	_, err := svc.CreateLog(context.Background(), CreateInput{
		ProductID: 1,
		Change:    0,
		Reason:    ReasonCorrection,
	}, 1)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestCreateLogRejectsUnknownReason(t *testing.T) {
	repo := newMemoryRepo()
	repo.products[1] = &memoryProduct{stock: 3, sku: "SOF-001"}
	svc := newTestService(repo)

	_, err := svc.CreateLog(context.Background(), CreateInput{
		ProductID: 1,
		Change:    1,
		Reason:    Reason("Shrinkage"),
	}, 1)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestCreateLogUnknownProduct(t *testing.T) {
	svc := newTestService(newMemoryRepo())

	_, err := svc.CreateLog(context.Background(), CreateInput{
		ProductID: 99,
		Change:    1,
		Reason:    ReasonInitialStock,
	}, 1)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCreateLogExplicitUserWins(t *testing.T) {
	repo := newMemoryRepo()
	repo.products[1] = &memoryProduct{stock: 0, sku: "SOF-001"}
	svc := newTestService(repo)

	log, err := svc.CreateLog(context.Background(), CreateInput{
		ProductID: 1,
		Change:    10,
		Reason:    ReasonInitialStock,
		UserID:    7,
	}, 42)
	require.NoError(t, err)
	require.Equal(t, int64(7), log.UserID)
}

func TestDeleteReversesStockEffect(t *testing.T) {
	repo := newMemoryRepo()
	repo.products[1] = &memoryProduct{stock: 0, sku: "SOF-001"}
	svc := newTestService(repo)

	log, err := svc.CreateLog(context.Background(), CreateInput{
		ProductID: 1,
		Change:    10,
		Reason:    ReasonInitialStock,
	}, 1)
	require.NoError(t, err)
	require.Equal(t, 10, repo.products[1].stock)

	require.NoError(t, svc.Delete(context.Background(), log.ID, 1))
	require.Equal(t, 0, repo.products[1].stock)
	require.Empty(t, repo.logs)
}

func TestDeleteRejectedWhenReversalGoesNegative(t *testing.T) {
	repo := newMemoryRepo()
	repo.products[1] = &memoryProduct{stock: 0, sku: "SOF-001"}
	svc := newTestService(repo)

	added, err := svc.CreateLog(context.Background(), CreateInput{
		ProductID: 1,
		Change:    10,
		Reason:    ReasonStockAdded,
	}, 1)
	require.NoError(t, err)
	_, err = svc.CreateLog(context.Background(), CreateInput{
		ProductID: 1,
		Change:    -8,
		Reason:    ReasonOrderShipped,
	}, 1)
	require.NoError(t, err)

	// Removing the replenishment would leave stock at -8.
	err = svc.Delete(context.Background(), added.ID, 1)
	require.ErrorIs(t, err, shared.ErrValidation)
	require.Equal(t, 2, repo.products[1].stock)
}

func TestDeleteOrphanedLog(t *testing.T) {
	repo := newMemoryRepo()
	repo.logs[5] = Log{ID: 5, ProductID: 404, Change: 3, Reason: ReasonStockAdded}
	svc := newTestService(repo)

	require.NoError(t, svc.Delete(context.Background(), 5, 1))
	require.Empty(t, repo.logs)
}

func TestAnnotateKeepsDelta(t *testing.T) {
	repo := newMemoryRepo()
	repo.products[1] = &memoryProduct{stock: 0, sku: "SOF-001"}
	svc := newTestService(repo)

	log, err := svc.CreateLog(context.Background(), CreateInput{
		ProductID: 1,
		Change:    4,
		Reason:    ReasonStockAdded,
	}, 1)
	require.NoError(t, err)

	updated, err := svc.Annotate(context.Background(), log.ID, ReasonCorrection, "typo in the first entry", 1)
	require.NoError(t, err)
	require.Equal(t, ReasonCorrection, updated.Reason)
	require.Equal(t, 4, updated.Change)
	require.Equal(t, 4, repo.products[1].stock)
}

func TestAnnotateUnknownReason(t *testing.T) {
	svc := newTestService(newMemoryRepo())

	_, err := svc.Annotate(context.Background(), 1, Reason("Because"), "", 1)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestListFiltersByProduct(t *testing.T) {
	repo := newMemoryRepo()
	repo.products[1] = &memoryProduct{stock: 0, sku: "SOF-001"}
	repo.products[2] = &memoryProduct{stock: 0, sku: "TAB-002"}
	svc := newTestService(repo)

	for _, in := range []CreateInput{
		{ProductID: 1, Change: 5, Reason: ReasonInitialStock},
		{ProductID: 2, Change: 3, Reason: ReasonInitialStock},
		{ProductID: 1, Change: 2, Reason: ReasonStockAdded},
	} {
		_, err := svc.CreateLog(context.Background(), in, 1)
		require.NoError(t, err)
	}

	logs, err := svc.List(context.Background(), ListFilters{ProductID: 1})
	require.NoError(t, err)
	require.Len(t, logs, 2)
	// Newest first.
	require.Equal(t, 2, logs[0].Change)
}
