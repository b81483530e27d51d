package store

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cropwise/cropwise/internal/domain/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := New(nil, NewFileBackend(t.TempDir()), nil)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func TestCreateUserAssignsDefaults(t *testing.T) {
	s := newTestStore(t)

	user, err := s.CreateUser(models.User{Username: "amaka", Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)

	assert.NotEmpty(t, user.UID)
	assert.Equal(t, models.RoleFarmer, user.Role)

	_, err = time.Parse(time.RFC3339, user.CreatedAt)
	assert.NoError(t, err)
}

func TestCreateUserRejectsDuplicates(t *testing.T) {
	s := newTestStore(t)

	_, err := s.CreateUser(models.User{Username: "amaka", Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)

	cases := []struct {
		desc     string
		username string
		email    string
	}{
		{desc: "same email", username: "different", email: "a@x.com"},
		{desc: "same email, different case", username: "different", email: "A@X.COM"},
		{desc: "same username", username: "amaka", email: "new@x.com"},
		{desc: "same username, different case", username: "AMAKA", email: "new@x.com"},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			_, err := s.CreateUser(models.User{Username: tc.username, Email: tc.email, Password: "secret1"})
			assert.ErrorIs(t, err, ErrDuplicateUser)
		})
	}

	total, _ := s.UserStats(time.Now())
	assert.Equal(t, 1, total)
}

func TestAuthenticate(t *testing.T) {
	s := newTestStore(t)

	_, err := s.CreateUser(models.User{Username: "amaka", Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)

	// by username
	user, err := s.Authenticate("amaka", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "amaka", user.Username)
	assert.NotEmpty(t, user.LastLogin)

	// by email, case-insensitive
	user, err = s.Authenticate("A@X.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "amaka", user.Username)

	_, err = s.Authenticate("amaka", "wrong")
	assert.ErrorIs(t, err, ErrWrongPassword)

	_, err = s.Authenticate("nobody", "secret1")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserStatsCountsRecentSignups(t *testing.T) {
	s := newTestStore(t)

	_, err := s.CreateUser(models.User{Username: "amaka", Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)

	// a signup well outside the seven-day window
	old := time.Now().AddDate(0, 0, -30).UTC().Format(time.RFC3339)
	s.mu.Lock()
	s.users["1000"] = models.User{UID: "1000", Username: "obi", Email: "obi@x.com", CreatedAt: old}
	s.mu.Unlock()

	total, recent := s.UserStats(time.Now())
	assert.Equal(t, 2, total)
	assert.Equal(t, 1, recent)
}

func TestProductLifecycle(t *testing.T) {
	s := newTestStore(t)

	maize := s.CreateProduct(models.Product{Name: "Maize", Category: "grain", Price: 12.5, Unit: "kg", Stock: 100})
	assert.NotEmpty(t, maize.ID)
	assert.Equal(t, models.PlaceholderImage, maize.Image)
	assert.Equal(t, models.DefaultSeller, maize.Seller)
	assert.Equal(t, models.DefaultLocation, maize.Location)

	cassava := s.CreateProduct(models.Product{Name: "Cassava", Category: "tuber", Price: 8, Unit: "kg", Stock: 40})

	updated, err := s.UpdateProduct(maize.ID, func(p models.Product) models.Product {
		p.Name = "Yellow Maize"
		p.Price = 15
		return p
	})
	require.NoError(t, err)
	assert.Equal(t, "Yellow Maize", updated.Name)
	assert.Equal(t, maize.ID, updated.ID)

	require.NoError(t, s.DeleteProduct(cassava.ID))

	products := s.Products()
	require.Len(t, products, 1)
	assert.Equal(t, "Yellow Maize", products[0].Name)

	_, err = s.UpdateProduct("missing", func(p models.Product) models.Product { return p })
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.ErrorIs(t, s.DeleteProduct("missing"), ErrProductNotFound)
}

func TestOrderLifecycle(t *testing.T) {
	s := newTestStore(t)

	order := s.CreateOrder(
		models.Customer{Name: "Amaka", Email: "a@x.com"},
		[]models.OrderItem{{ProductID: "1", Name: "Maize", Price: 12.5, Quantity: 2, Unit: "kg"}},
		25,
	)

	assert.True(t, strings.HasPrefix(order.ID, "ORD"))
	assert.Len(t, order.ID, 9)
	assert.Equal(t, models.OrderStatusPending, order.Status)

	assert.ErrorIs(t, s.DeleteOrder("ORD000000"), ErrOrderNotFound)
	require.NoError(t, s.DeleteOrder(order.ID))
	assert.Empty(t, s.Orders())
}

func TestAgriculturistUniqueEmail(t *testing.T) {
	s := newTestStore(t)

	eze, err := s.CreateAgriculturist(models.Agriculturist{Name: "Dr. Eze", Location: "Aba", Specialization: "soil science", Experience: 12, Email: "eze@x.com"})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultProfileImage, eze.ProfileImage)
	assert.Equal(t, "unknown", eze.EnrolledBy)

	_, err = s.CreateAgriculturist(models.Agriculturist{Name: "Impostor", Location: "Aba", Specialization: "pests", Experience: 1, Email: "EZE@X.COM"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.Len(t, s.Agriculturists(), 1)

	ada, err := s.CreateAgriculturist(models.Agriculturist{Name: "Ada", Location: "Owerri", Specialization: "irrigation", Experience: 5, Email: "ada@x.com"})
	require.NoError(t, err)

	// changing to an email held by another entry is rejected and nothing moves
	_, err = s.UpdateAgriculturist(ada.ID, func(a models.Agriculturist) models.Agriculturist {
		a.Email = "Eze@x.com"
		return a
	})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	kept, found := s.AgriculturistByEmail("ada@x.com")
	require.True(t, found)
	assert.Empty(t, kept.UpdatedAt)

	// keeping the same email is fine
	updated, err := s.UpdateAgriculturist(ada.ID, func(a models.Agriculturist) models.Agriculturist {
		a.Specialization = "drip irrigation"
		return a
	})
	require.NoError(t, err)
	assert.Equal(t, "drip irrigation", updated.Specialization)
	assert.NotEmpty(t, updated.UpdatedAt)

	require.NoError(t, s.DeleteAgriculturist(eze.ID))
	assert.Len(t, s.Agriculturists(), 1)
}

func TestLoadFallsBackToFlatFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	files := NewFileBackend(dir)

	require.NoError(t, files.SaveUsers(ctx, map[string]models.User{
		"1": {UID: "1", Username: "amaka", Email: "a@x.com", Password: "secret1"},
		"2": {UID: "2", Username: "obi", Email: "obi@x.com", Password: "secret2"},
	}))
	require.NoError(t, files.SaveProducts(ctx, []models.Product{
		{ID: "10", Name: "Maize"}, {ID: "11", Name: "Cassava"}, {ID: "12", Name: "Yam"},
	}))

	// no primary backend at all: every kind loads from its flat file
	s := New(nil, files, nil)
	s.load(ctx)

	assert.Len(t, s.users, 2)
	assert.Len(t, s.products, 3)
	assert.Empty(t, s.orders)
	assert.Empty(t, s.agriculturists)
}

func TestLoadFromEmptyPrimaryKeepsCollectionsNonNil(t *testing.T) {
	ctx := context.Background()

	// the fake, like a database cursor, hands back nil for an empty collection
	primary := newFakeBackend()
	s := New(primary, NewFileBackend(t.TempDir()), nil)
	s.load(ctx)

	assert.NotNil(t, s.Products())
	assert.NotNil(t, s.Orders())
	assert.NotNil(t, s.Agriculturists())
}

func TestPersistDegradesToFileWhenPrimaryFails(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	files := NewFileBackend(dir)
	primary := newFakeBackend()
	primary.failSaves = true

	s := New(primary, files, nil)
	products := []models.Product{{ID: "10", Name: "Maize"}}

	outcome := s.persistProducts(ctx, products)
	assert.Equal(t, persistDegraded, outcome)

	// the fallback file took the write even though the primary refused it
	loaded, err := files.LoadProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, products, loaded)
	assert.Empty(t, primary.products)
}

func TestPersistFailedWhenNothingAcceptsWrite(t *testing.T) {
	ctx := context.Background()
	primary := newFakeBackend()
	primary.failSaves = true

	// point the file backend at a path that cannot exist
	s := New(primary, NewFileBackend("/nonexistent/data/dir"), nil)

	outcome := s.persistProducts(ctx, []models.Product{{ID: "10", Name: "Maize"}})
	assert.Equal(t, persistFailed, outcome)
}

func TestSnapshotPersistsEveryCollection(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	files := NewFileBackend(dir)

	s := New(nil, files, nil)
	t.Cleanup(func() { _ = s.Close(context.Background()) })

	_, err := s.CreateUser(models.User{Username: "amaka", Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)
	s.CreateProduct(models.Product{Name: "Maize"})
	s.CreateOrder(models.Customer{Name: "Amaka"}, nil, 10)
	_, err = s.CreateAgriculturist(models.Agriculturist{Name: "Dr. Eze", Location: "Aba", Specialization: "soil", Experience: 3, Email: "eze@x.com"})
	require.NoError(t, err)

	s.Snapshot(ctx)

	users, err := files.LoadUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	products, err := files.LoadProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 1)

	orders, err := files.LoadOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	agriculturists, err := files.LoadAgriculturists(ctx)
	require.NoError(t, err)
	assert.Len(t, agriculturists, 1)
}
