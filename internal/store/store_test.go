package store

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/furniq/furniq-admin/internal/catalog/products"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleProduct(id int64, status products.Status) products.Product {
	return products.Product{
		ID:          id,
		Name:        "Oak Coffee Table",
		SKU:         "TAB-001",
		Category:    "Tables",
		Subcategory: "Coffee Tables",
		Price:       12999,
		Stock:       4,
		LowStock:    5,
		Status:      status,
	}
}

func TestLoadReplacesSnapshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/products", r.URL.Path)
		json.NewEncoder(w).Encode([]products.Product{sampleProduct(1, products.StatusActive)})
	}))
	defer srv.Close()

	s := NewProducts(NewClient(srv.URL, nil, nil, discardLogger()))
	require.True(t, s.Load(context.Background()))
	require.Len(t, s.Snapshot(), 1)
	require.Empty(t, s.Err(OpLoad))
}

func TestLoadFailureKeepsSnapshotAndSticksError(t *testing.T) {
	var failing atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failing.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "database unavailable"})
			return
		}
		json.NewEncoder(w).Encode([]products.Product{sampleProduct(1, products.StatusActive)})
	}))
	defer srv.Close()

	s := NewProducts(NewClient(srv.URL, nil, nil, discardLogger()))
	require.True(t, s.Load(context.Background()))

	failing.Store(true)
	require.False(t, s.Load(context.Background()))
	require.Len(t, s.Snapshot(), 1, "previous snapshot stays visible")
	require.Equal(t, "database unavailable", s.Err(OpLoad))

	failing.Store(false)
	require.True(t, s.Load(context.Background()))
	require.Empty(t, s.Err(OpLoad), "next successful load clears the error")
}

func TestCreateThenLoadNoDuplicate(t *testing.T) {
	var records []products.Product
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			var p products.Product
			json.NewDecoder(r.Body).Decode(&p)
			p.ID = int64(len(records) + 1)
			records = append(records, p)
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(p)
		default:
			json.NewEncoder(w).Encode(records)
		}
	}))
	defer srv.Close()

	s := NewProducts(NewClient(srv.URL, nil, nil, discardLogger()))
	created, ok := s.Create(context.Background(), sampleProduct(0, products.StatusActive))
	require.True(t, ok)
	require.Equal(t, int64(1), created.ID, "server-assigned id reconciled")

	require.True(t, s.Load(context.Background()))
	count := 0
	for _, p := range s.Snapshot() {
		if p.ID == created.ID {
			count++
		}
	}
	require.Equal(t, 1, count, "created record appears exactly once")
}

func TestCreateValidationSkipsNetwork(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(sampleProduct(1, products.StatusActive))
	}))
	defer srv.Close()

	s := NewProducts(NewClient(srv.URL, nil, nil, discardLogger()))
	_, ok := s.Create(context.Background(), products.Product{Name: "No SKU"})
	require.False(t, ok)
	require.Zero(t, calls.Load(), "invalid payload never reaches the network")
	require.Contains(t, s.Err(OpCreate), "sku")
}

func TestFailedUpdateLeavesSnapshotUntouched(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"message": "stock must not be negative"})
			return
		}
		json.NewEncoder(w).Encode([]products.Product{sampleProduct(1, products.StatusActive)})
	}))
	defer srv.Close()

	s := NewProducts(NewClient(srv.URL, nil, nil, discardLogger()))
	require.True(t, s.Load(context.Background()))
	before := s.Snapshot()

	_, ok := s.Update(context.Background(), 1, map[string]any{"stock": -5})
	require.False(t, ok)
	require.True(t, reflect.DeepEqual(before, s.Snapshot()), "snapshot unchanged after failed update")
	require.Equal(t, "stock must not be negative", s.Err(OpUpdate))
}

func TestUpdateUnknownIDIsLocalNoop(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			json.NewEncoder(w).Encode(sampleProduct(99, products.StatusActive))
			return
		}
		json.NewEncoder(w).Encode([]products.Product{sampleProduct(1, products.StatusActive)})
	}))
	defer srv.Close()

	s := NewProducts(NewClient(srv.URL, nil, nil, discardLogger()))
	require.True(t, s.Load(context.Background()))
	before := s.Snapshot()

	_, ok := s.Update(context.Background(), 99, map[string]any{"price": 1})
	require.True(t, ok, "server call succeeded")
	require.True(t, reflect.DeepEqual(before, s.Snapshot()), "unknown id leaves local state alone")
}

func TestRemoveArchivesProduct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			var patch map[string]any
			json.NewDecoder(r.Body).Decode(&patch)
			require.Equal(t, "archived", patch["status"])
			json.NewEncoder(w).Encode(sampleProduct(1, products.StatusArchived))
			return
		}
		require.NotEqual(t, http.MethodDelete, r.Method, "products archive, never DELETE")
		json.NewEncoder(w).Encode([]products.Product{sampleProduct(1, products.StatusActive)})
	}))
	defer srv.Close()

	s := NewProducts(NewClient(srv.URL, nil, nil, discardLogger()))
	require.True(t, s.Load(context.Background()))
	require.Len(t, s.Active(), 1)

	require.True(t, s.Remove(context.Background(), 1))
	require.Empty(t, s.Active())
	archived := s.Archived()
	require.Len(t, archived, 1)

	want := sampleProduct(1, products.StatusActive)
	got := archived[0]
	got.Status = want.Status
	require.Equal(t, want, got, "all fields identical except status")
}

func TestRemoveHardDeleteFiltersOut(t *testing.T) {
	type category struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			json.NewEncoder(w).Encode(map[string]string{"message": "deleted"})
			return
		}
		json.NewEncoder(w).Encode([]category{{ID: 1, Name: "Sofas"}, {ID: 2, Name: "Tables"}})
	}))
	defer srv.Close()

	s := New(NewClient(srv.URL, nil, nil, discardLogger()), "/api/categories",
		func(c category) int64 { return c.ID })
	require.True(t, s.Load(context.Background()))
	require.True(t, s.Remove(context.Background(), 1))

	snap := s.Snapshot()
	require.Len(t, snap, 1)
	require.Equal(t, int64(2), snap[0].ID)
}

func TestBearerTokenAttached(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode([]products.Product{})
	}))
	defer srv.Close()

	creds := CredentialsFunc(func() string { return "tok-123" })
	s := NewProducts(NewClient(srv.URL, creds, nil, discardLogger()))
	require.True(t, s.Load(context.Background()))
}

func TestErrorMessageFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	}))
	defer srv.Close()

	s := NewProducts(NewClient(srv.URL, nil, nil, discardLogger()))
	require.False(t, s.Load(context.Background()))
	require.Equal(t, "HTTP error", s.Err(OpLoad), "non-JSON body falls back to a generic message")
}

func TestTransportFailureSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	s := NewProducts(NewClient(srv.URL, nil, nil, discardLogger()))
	require.False(t, s.Load(context.Background()))
	require.NotEmpty(t, s.Err(OpLoad))
	require.Empty(t, s.Snapshot())
}
