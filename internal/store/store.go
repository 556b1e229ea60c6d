package store

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
)

// Op names one kind of store operation. Error state is tracked per Op:
// a failure sticks until the next success of the same Op clears it.
type Op string

const (
	OpLoad   Op = "load"
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpRemove Op = "remove"
)

// Option configures a Store.
type Option[T any] func(*Store[T])

// WithValidator installs a payload check run before Create issues any
// network call. The returned error's message becomes the create error.
func WithValidator[T any](fn func(T) error) Option[T] {
	return func(s *Store[T]) { s.validate = fn }
}

// WithArchive switches Remove to soft-delete mode: instead of a DELETE,
// Remove sends patch as an update and keeps the returned record in the
// snapshot. Views filter archived records out themselves.
func WithArchive[T any](patch any) Option[T] {
	return func(s *Store[T]) { s.archivePatch = patch }
}

// Store caches one resource collection and keeps it aligned with the
// server after each mutation. Mutations are pessimistic: the snapshot
// changes only after the server confirms, using the server's canonical
// record. Failures never escape; they land in per-Op error strings.
//
// A Store is safe for concurrent use. When two mutations race on one id,
// the last response to arrive wins.
type Store[T any] struct {
	client *Client
	path   string
	key    func(T) int64

	validate     func(T) error
	archivePatch any

	mu      sync.Mutex
	items   []T
	loading int
	errs    map[Op]string
}

// New builds a Store for the collection at path (e.g. "/api/products").
// key extracts a record's identity for reconciliation.
func New[T any](client *Client, path string, key func(T) int64, opts ...Option[T]) *Store[T] {
	s := &Store[T]{client: client, path: path, key: key, errs: map[Op]string{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load fetches the collection and replaces the snapshot wholesale. On
// failure the previous snapshot stays visible and the load error is set.
func (s *Store[T]) Load(ctx context.Context) bool {
	s.mu.Lock()
	s.loading++
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.loading--
		s.mu.Unlock()
	}()

	var items []T
	if err := s.client.do(ctx, http.MethodGet, s.path, nil, &items); err != nil {
		s.fail(OpLoad, err)
		return false
	}

	s.mu.Lock()
	s.items = items
	delete(s.errs, OpLoad)
	s.mu.Unlock()
	return true
}

// Create posts the payload and appends the server's canonical record.
// Nothing is inserted optimistically, so a failed create leaves the
// snapshot untouched.
func (s *Store[T]) Create(ctx context.Context, payload T) (T, bool) {
	var zero T
	if s.validate != nil {
		if err := s.validate(payload); err != nil {
			s.fail(OpCreate, err)
			return zero, false
		}
	}

	return s.createFrom(ctx, payload)
}

// createFrom posts an arbitrary payload shape. Typed stores use it when
// the create body carries fields the cached record does not (e.g. a
// password).
func (s *Store[T]) createFrom(ctx context.Context, payload any) (T, bool) {
	var zero T
	var created T
	if err := s.client.do(ctx, http.MethodPost, s.path, payload, &created); err != nil {
		s.fail(OpCreate, err)
		return zero, false
	}

	s.mu.Lock()
	s.items = append(s.items, created)
	delete(s.errs, OpCreate)
	s.mu.Unlock()
	return created, true
}

// Update sends a partial payload for id and swaps in the server's merged
// record. If id is not in the snapshot the local state is left alone no
// matter what the server returned.
func (s *Store[T]) Update(ctx context.Context, id int64, patch any) (T, bool) {
	var updated T
	if err := s.client.do(ctx, http.MethodPut, s.itemPath(id), patch, &updated); err != nil {
		var zero T
		s.fail(OpUpdate, err)
		return zero, false
	}

	s.mu.Lock()
	s.replace(id, updated)
	delete(s.errs, OpUpdate)
	s.mu.Unlock()
	return updated, true
}

// Remove deletes id from the collection. In soft-delete mode it archives
// instead: the record stays in the snapshot with its returned state.
func (s *Store[T]) Remove(ctx context.Context, id int64) bool {
	if s.archivePatch != nil {
		var archived T
		if err := s.client.do(ctx, http.MethodPut, s.itemPath(id), s.archivePatch, &archived); err != nil {
			s.fail(OpRemove, err)
			return false
		}
		s.mu.Lock()
		s.replace(id, archived)
		delete(s.errs, OpRemove)
		s.mu.Unlock()
		return true
	}

	if err := s.client.do(ctx, http.MethodDelete, s.itemPath(id), nil, nil); err != nil {
		s.fail(OpRemove, err)
		return false
	}

	s.mu.Lock()
	kept := s.items[:0:0]
	for _, item := range s.items {
		if s.key(item) != id {
			kept = append(kept, item)
		}
	}
	s.items = kept
	delete(s.errs, OpRemove)
	s.mu.Unlock()
	return true
}

// Snapshot returns a copy of the cached collection.
func (s *Store[T]) Snapshot() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Find returns the cached record with the given id.
func (s *Store[T]) Find(id int64) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if s.key(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Loading reports whether a Load is in flight.
func (s *Store[T]) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading > 0
}

// Err returns the sticky error string for op, empty when the last op of
// that kind succeeded.
func (s *Store[T]) Err(op Op) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errs[op]
}

func (s *Store[T]) itemPath(id int64) string {
	return s.path + "/" + strconv.FormatInt(id, 10)
}

// replace swaps the record with matching id in place. Callers hold s.mu.
func (s *Store[T]) replace(id int64, record T) {
	for i, item := range s.items {
		if s.key(item) == id {
			s.items[i] = record
			return
		}
	}
}

func (s *Store[T]) fail(op Op, err error) {
	msg := err.Error()
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		msg = apiErr.Message
	}
	s.client.logger.Warn("store operation failed",
		slog.String("path", s.path), slog.String("op", string(op)), slog.Any("error", err))
	s.mu.Lock()
	s.errs[op] = msg
	s.mu.Unlock()
}
