package users

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/furniq/furniq-admin/internal/shared"
)

type memoryRepo struct {
	nextID int64
	byID   map[int64]User
	hashes map[int64]string
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{nextID: 1, byID: map[int64]User{}, hashes: map[int64]string{}}
}

func (m *memoryRepo) List(context.Context) ([]User, error) {
	var out []User
	for _, u := range m.byID {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memoryRepo) Get(_ context.Context, id int64) (User, error) {
	u, ok := m.byID[id]
	if !ok {
		return User{}, shared.ErrNotFound
	}
	return u, nil
}

func (m *memoryRepo) Create(_ context.Context, user User, passwordHash string) (User, error) {
	for _, existing := range m.byID {
		if existing.Email == user.Email {
			return User{}, shared.ErrDuplicate
		}
	}
	user.ID = m.nextID
	m.nextID++
	m.byID[user.ID] = user
	m.hashes[user.ID] = passwordHash
	return user, nil
}

func (m *memoryRepo) Update(_ context.Context, user User) (User, error) {
	if _, ok := m.byID[user.ID]; !ok {
		return User{}, shared.ErrNotFound
	}
	m.byID[user.ID] = user
	return user, nil
}

func (m *memoryRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.byID[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.byID, id)
	delete(m.hashes, id)
	return nil
}

var _ RepositoryPort = (*memoryRepo)(nil)

func newTestService(repo *memoryRepo) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, nil, logger)
}

func TestCreateDefaultsRoleAndStatus(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	created, err := svc.Create(context.Background(), CreateInput{
		Name:     "Priya Sharma",
		Email:    "Priya@FurniQ.example",
		Password: "longenough",
	}, 1)
	require.NoError(t, err)
	require.Equal(t, RoleViewer, created.Role)
	require.Equal(t, StatusActive, created.Status)
	require.Equal(t, "priya@furniq.example", created.Email)
	require.NotEmpty(t, repo.hashes[created.ID])
	require.NotEqual(t, "longenough", repo.hashes[created.ID])
}

func TestCreateRejectsUnknownRole(t *testing.T) {
	svc := newTestService(newMemoryRepo())

	_, err := svc.Create(context.Background(), CreateInput{
		Name:     "X",
		Email:    "x@example.com",
		Password: "longenough",
		Role:     "Owner",
	}, 1)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestCreateDuplicateEmail(t *testing.T) {
	svc := newTestService(newMemoryRepo())

	_, err := svc.Create(context.Background(), CreateInput{Name: "A", Email: "a@example.com", Password: "longenough"}, 1)
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), CreateInput{Name: "B", Email: "A@Example.com", Password: "longenough"}, 1)
	require.ErrorIs(t, err, shared.ErrDuplicate)
}

func TestUpdatePartialPatch(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	created, err := svc.Create(context.Background(), CreateInput{Name: "A", Email: "a@example.com", Password: "longenough", Role: RoleEditor}, 1)
	require.NoError(t, err)

	status := StatusInactive
	updated, err := svc.Update(context.Background(), created.ID, Patch{Status: &status}, 1)
	require.NoError(t, err)
	require.Equal(t, StatusInactive, updated.Status)
	require.Equal(t, RoleEditor, updated.Role)
	require.Equal(t, "A", updated.Name)
}

func TestUpdateRejectsUnknownStatus(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	created, err := svc.Create(context.Background(), CreateInput{Name: "A", Email: "a@example.com", Password: "longenough"}, 1)
	require.NoError(t, err)

	bad := "Suspended"
	_, err = svc.Update(context.Background(), created.ID, Patch{Status: &bad}, 1)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestUpdateUnknownID(t *testing.T) {
	svc := newTestService(newMemoryRepo())

	name := "Ghost"
	_, err := svc.Update(context.Background(), 99, Patch{Name: &name}, 1)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestDeleteIsHard(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	created, err := svc.Create(context.Background(), CreateInput{Name: "A", Email: "a@example.com", Password: "longenough"}, 1)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID, 1))
	_, err = svc.Get(context.Background(), created.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestDeleteOwnAccountRejected(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	created, err := svc.Create(context.Background(), CreateInput{Name: "A", Email: "a@example.com", Password: "longenough"}, 1)
	require.NoError(t, err)

	err = svc.Delete(context.Background(), created.ID, created.ID)
	require.ErrorIs(t, err, shared.ErrValidation)
	_, err = svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
}
