package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cropwise/cropwise/internal/config"
	"github.com/cropwise/cropwise/internal/domain/models"
)

const persistTimeout = 10 * time.Second

// Store owns the four in-memory record collections for the lifetime of the
// process. Memory is the single source of truth after startup; the active
// backend is a persistence target written through after every mutation.
//
// Persists run as independent goroutines carrying a snapshot taken at
// mutation time. Overlapping whole-collection writes are not serialized, so
// the later-completing write wins. That matches the system this replaces and
// is acceptable at its load; the mutex below only protects process memory.
type Store struct {
	mu             sync.Mutex
	users          map[string]models.User
	products       []models.Product
	orders         []models.Order
	agriculturists []models.Agriculturist

	primary     Backend // nil when MongoDB is not configured or unreachable
	files       *FileBackend
	fromPrimary map[Kind]bool
	persists    sync.WaitGroup
	logger      *zap.Logger
}

// New builds a store over the given backends without loading anything.
// Open is the normal entry point; New exists for wiring tests.
func New(primary Backend, files *FileBackend, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		users:          make(map[string]models.User),
		products:       []models.Product{},
		orders:         []models.Order{},
		agriculturists: []models.Agriculturist{},
		primary:        primary,
		files:          files,
		fromPrimary:    make(map[Kind]bool),
		logger:         logger,
	}
}

// Open selects the active backend, loads every collection and runs the
// one-time flat-file migration. MongoDB being unreachable is not an error:
// the store degrades to the flat files for the whole run.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}

	files := NewFileBackend(cfg.Storage.DataDir)

	var primary Backend
	if cfg.MongoDB.URI != "" {
		mongoBackend, err := NewMongoBackend(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			logger.Warn("mongodb unavailable, falling back to flat-file storage", zap.Error(err))
		} else {
			primary = mongoBackend
			logger.Info("mongodb backend active", zap.String("database", cfg.MongoDB.DBName))
		}
	} else {
		logger.Info("no MONGODB_URI configured, using flat-file storage")
	}

	s := New(primary, files, logger)
	s.load(ctx)
	s.migrate(ctx)
	return s
}

// Close drains in-flight persists and releases the primary backend
// connection, if any.
func (s *Store) Close(ctx context.Context) error {
	s.persists.Wait()
	if mongoBackend, ok := s.primary.(*MongoBackend); ok {
		return mongoBackend.Close(ctx)
	}
	return nil
}

// load populates every collection from the active backend. A primary load
// failure falls back to the flat file for that kind only; file problems mean
// starting fresh. The backend choice per kind is made here, once.
func (s *Store) load(ctx context.Context) {
	if s.primary != nil {
		if users, err := s.primary.LoadUsers(ctx); err != nil {
			s.logger.Error("loading users from primary failed, falling back to file", zap.Error(err))
		} else {
			s.users = users
			s.fromPrimary[KindUsers] = true
		}

		if products, err := s.primary.LoadProducts(ctx); err != nil {
			s.logger.Error("loading products from primary failed, falling back to file", zap.Error(err))
		} else {
			s.products = products
			s.fromPrimary[KindProducts] = true
		}

		if orders, err := s.primary.LoadOrders(ctx); err != nil {
			s.logger.Error("loading orders from primary failed, falling back to file", zap.Error(err))
		} else {
			s.orders = orders
			s.fromPrimary[KindOrders] = true
		}

		if agriculturists, err := s.primary.LoadAgriculturists(ctx); err != nil {
			s.logger.Error("loading agriculturists from primary failed, falling back to file", zap.Error(err))
		} else {
			s.agriculturists = agriculturists
			s.fromPrimary[KindAgriculturists] = true
		}
	}

	if !s.fromPrimary[KindUsers] {
		if users, err := s.files.LoadUsers(ctx); err != nil {
			s.logger.Warn("no usable users file, starting fresh", zap.Error(err))
		} else {
			s.users = users
		}
	}
	if !s.fromPrimary[KindProducts] {
		if products, err := s.files.LoadProducts(ctx); err != nil {
			s.logger.Warn("no usable products file, starting fresh", zap.Error(err))
		} else if products != nil {
			s.products = products
		}
	}
	if !s.fromPrimary[KindOrders] {
		if orders, err := s.files.LoadOrders(ctx); err != nil {
			s.logger.Warn("no usable orders file, starting fresh", zap.Error(err))
		} else if orders != nil {
			s.orders = orders
		}
	}
	if !s.fromPrimary[KindAgriculturists] {
		if agriculturists, err := s.files.LoadAgriculturists(ctx); err != nil {
			s.logger.Warn("no usable agriculturists file, starting fresh", zap.Error(err))
		} else if agriculturists != nil {
			s.agriculturists = agriculturists
		}
	}

	s.logger.Info("collections loaded",
		zap.Int("users", len(s.users)),
		zap.Int("products", len(s.products)),
		zap.Int("orders", len(s.orders)),
		zap.Int("agriculturists", len(s.agriculturists)))
}

// persistOutcome records where a whole-collection write landed.
type persistOutcome string

const (
	persistOK       persistOutcome = "ok"       // active backend accepted the write
	persistDegraded persistOutcome = "degraded" // primary failed, file fallback took it
	persistFailed   persistOutcome = "failed"   // nothing accepted the write
)

// persist writes one collection snapshot. Failures are logged and never
// surfaced to the request path: the in-memory mutation already succeeded and
// the response must not depend on persistence.
func (s *Store) persist(ctx context.Context, kind Kind, toPrimary, toFile func(context.Context) error) persistOutcome {
	degraded := false
	if s.primary != nil {
		err := toPrimary(ctx)
		if err == nil {
			s.logger.Debug("collection persisted", zap.String("kind", string(kind)), zap.String("backend", s.primary.Name()))
			return persistOK
		}
		degraded = true
		s.logger.Error("primary persist failed, degrading to file",
			zap.String("kind", string(kind)), zap.Error(err))
	}

	if err := toFile(ctx); err != nil {
		s.logger.Error("file persist failed, mutation is memory-only",
			zap.String("kind", string(kind)), zap.Error(err))
		return persistFailed
	}

	if degraded {
		return persistDegraded
	}
	s.logger.Debug("collection persisted", zap.String("kind", string(kind)), zap.String("backend", s.files.Name()))
	return persistOK
}

func (s *Store) persistUsers(ctx context.Context, snapshot map[string]models.User) persistOutcome {
	return s.persist(ctx, KindUsers,
		func(ctx context.Context) error { return s.primary.SaveUsers(ctx, snapshot) },
		func(ctx context.Context) error { return s.files.SaveUsers(ctx, snapshot) })
}

func (s *Store) persistProducts(ctx context.Context, snapshot []models.Product) persistOutcome {
	return s.persist(ctx, KindProducts,
		func(ctx context.Context) error { return s.primary.SaveProducts(ctx, snapshot) },
		func(ctx context.Context) error { return s.files.SaveProducts(ctx, snapshot) })
}

func (s *Store) persistOrders(ctx context.Context, snapshot []models.Order) persistOutcome {
	return s.persist(ctx, KindOrders,
		func(ctx context.Context) error { return s.primary.SaveOrders(ctx, snapshot) },
		func(ctx context.Context) error { return s.files.SaveOrders(ctx, snapshot) })
}

func (s *Store) persistAgriculturists(ctx context.Context, snapshot []models.Agriculturist) persistOutcome {
	return s.persist(ctx, KindAgriculturists,
		func(ctx context.Context) error { return s.primary.SaveAgriculturists(ctx, snapshot) },
		func(ctx context.Context) error { return s.files.SaveAgriculturists(ctx, snapshot) })
}

// async runs one persist in its own goroutine. Nothing orders these against
// each other; concurrent mutations race their writes and the later
// completion wins, exactly as documented.
func (s *Store) async(persist func(context.Context) persistOutcome) {
	s.persists.Add(1)
	go func() {
		defer s.persists.Done()
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		persist(ctx)
	}()
}

func (s *Store) snapshotUsersLocked() map[string]models.User {
	snapshot := make(map[string]models.User, len(s.users))
	for uid, u := range s.users {
		snapshot[uid] = u
	}
	return snapshot
}

// The slice snapshots start from empty literals, never nil: list endpoints
// marshal them directly and must emit [] for an empty collection, and an
// empty primary load can leave the underlying slice nil.
func (s *Store) snapshotProductsLocked() []models.Product {
	return append([]models.Product{}, s.products...)
}

func (s *Store) snapshotOrdersLocked() []models.Order {
	return append([]models.Order{}, s.orders...)
}

func (s *Store) snapshotAgriculturistsLocked() []models.Agriculturist {
	return append([]models.Agriculturist{}, s.agriculturists...)
}

// Snapshot synchronously re-persists every collection to the active backend.
// The scheduler calls this periodically as a safety net for mutations whose
// asynchronous write-through was lost to a crash or a transient failure.
func (s *Store) Snapshot(ctx context.Context) {
	s.mu.Lock()
	users := s.snapshotUsersLocked()
	products := s.snapshotProductsLocked()
	orders := s.snapshotOrdersLocked()
	agriculturists := s.snapshotAgriculturistsLocked()
	s.mu.Unlock()

	s.persistUsers(ctx, users)
	s.persistProducts(ctx, products)
	s.persistOrders(ctx, orders)
	s.persistAgriculturists(ctx, agriculturists)
}

// CreateUser registers a new account. Email and username must both be free,
// compared case-insensitively against the whole collection.
func (s *Store) CreateUser(u models.User) (models.User, error) {
	s.mu.Lock()
	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) || strings.EqualFold(existing.Username, u.Username) {
			s.mu.Unlock()
			return models.User{}, ErrDuplicateUser
		}
	}

	u.UID = models.TimeID()
	if u.Role == "" {
		u.Role = models.RoleFarmer
	}
	u.CreatedAt = models.Timestamp()
	s.users[u.UID] = u
	snapshot := s.snapshotUsersLocked()
	s.mu.Unlock()

	s.async(func(ctx context.Context) persistOutcome { return s.persistUsers(ctx, snapshot) })
	s.logger.Info("user created", zap.String("uid", u.UID), zap.String("username", u.Username))
	return u, nil
}

// Authenticate matches the identifier against email or username, compares
// the stored password and stamps lastLogin on success.
func (s *Store) Authenticate(identifier, password string) (models.User, error) {
	s.mu.Lock()

	var found *models.User
	for uid := range s.users {
		u := s.users[uid]
		if strings.EqualFold(u.Email, identifier) || strings.EqualFold(u.Username, identifier) {
			found = &u
			break
		}
	}
	if found == nil {
		s.mu.Unlock()
		return models.User{}, ErrUserNotFound
	}
	if found.Password != password {
		s.mu.Unlock()
		return models.User{}, ErrWrongPassword
	}

	found.LastLogin = models.Timestamp()
	s.users[found.UID] = *found
	user := *found
	snapshot := s.snapshotUsersLocked()
	s.mu.Unlock()

	s.async(func(ctx context.Context) persistOutcome { return s.persistUsers(ctx, snapshot) })
	s.logger.Info("user login", zap.String("uid", user.UID))
	return user, nil
}

// UserByEmail looks a user up by email, case-insensitively.
func (s *Store) UserByEmail(email string) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, true
		}
	}
	return models.User{}, false
}

// UserStats returns the total account count and the number of signups in the
// seven days before now.
func (s *Store) UserStats(now time.Time) (total, recent int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := now.AddDate(0, 0, -7)
	for _, u := range s.users {
		if u.CreatedAt == "" {
			continue
		}
		createdAt, err := time.Parse(time.RFC3339, u.CreatedAt)
		if err != nil {
			continue
		}
		if !createdAt.Before(cutoff) {
			recent++
		}
	}
	return len(s.users), recent
}

// Products returns a copy of the catalog.
func (s *Store) Products() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotProductsLocked()
}

// CreateProduct appends a catalog entry, filling identity, timestamps and
// the storefront defaults.
func (s *Store) CreateProduct(p models.Product) models.Product {
	if p.Image == "" {
		p.Image = models.PlaceholderImage
	}
	if p.Seller == "" {
		p.Seller = models.DefaultSeller
	}
	if p.Location == "" {
		p.Location = models.DefaultLocation
	}
	p.ID = models.TimeID()
	p.CreatedAt = models.Timestamp()

	s.mu.Lock()
	s.products = append(s.products, p)
	snapshot := s.snapshotProductsLocked()
	s.mu.Unlock()

	s.async(func(ctx context.Context) persistOutcome { return s.persistProducts(ctx, snapshot) })
	s.logger.Info("product created", zap.String("id", p.ID), zap.String("name", p.Name))
	return p
}

// UpdateProduct applies the given transform to the identified product.
func (s *Store) UpdateProduct(id string, apply func(models.Product) models.Product) (models.Product, error) {
	s.mu.Lock()

	idx := -1
	for i := range s.products {
		if s.products[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		s.mu.Unlock()
		return models.Product{}, ErrProductNotFound
	}

	updated := apply(s.products[idx])
	updated.ID = id
	s.products[idx] = updated
	snapshot := s.snapshotProductsLocked()
	s.mu.Unlock()

	s.async(func(ctx context.Context) persistOutcome { return s.persistProducts(ctx, snapshot) })
	s.logger.Info("product updated", zap.String("id", id))
	return updated, nil
}

// DeleteProduct removes the identified product.
func (s *Store) DeleteProduct(id string) error {
	s.mu.Lock()

	idx := -1
	for i := range s.products {
		if s.products[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		s.mu.Unlock()
		return ErrProductNotFound
	}

	s.products = append(s.products[:idx], s.products[idx+1:]...)
	snapshot := s.snapshotProductsLocked()
	s.mu.Unlock()

	s.async(func(ctx context.Context) persistOutcome { return s.persistProducts(ctx, snapshot) })
	s.logger.Info("product deleted", zap.String("id", id))
	return nil
}

// Orders returns a copy of the order list.
func (s *Store) Orders() []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotOrdersLocked()
}

// CreateOrder records a submitted checkout with status pending.
func (s *Store) CreateOrder(customer models.Customer, items []models.OrderItem, total float64) models.Order {
	order := models.Order{
		ID:        models.OrderID(),
		Customer:  customer,
		Items:     items,
		Total:     total,
		Status:    models.OrderStatusPending,
		CreatedAt: models.Timestamp(),
	}

	s.mu.Lock()
	s.orders = append(s.orders, order)
	snapshot := s.snapshotOrdersLocked()
	s.mu.Unlock()

	s.async(func(ctx context.Context) persistOutcome { return s.persistOrders(ctx, snapshot) })
	s.logger.Info("order created", zap.String("id", order.ID), zap.Float64("total", order.Total))
	return order
}

// DeleteOrder removes the identified order.
func (s *Store) DeleteOrder(id string) error {
	s.mu.Lock()

	idx := -1
	for i := range s.orders {
		if s.orders[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		s.mu.Unlock()
		return ErrOrderNotFound
	}

	s.orders = append(s.orders[:idx], s.orders[idx+1:]...)
	snapshot := s.snapshotOrdersLocked()
	s.mu.Unlock()

	s.async(func(ctx context.Context) persistOutcome { return s.persistOrders(ctx, snapshot) })
	s.logger.Info("order deleted", zap.String("id", id))
	return nil
}

// Agriculturists returns a copy of the directory.
func (s *Store) Agriculturists() []models.Agriculturist {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotAgriculturistsLocked()
}

// AgriculturistByEmail looks a directory entry up by email, case-insensitively.
func (s *Store) AgriculturistByEmail(email string) (models.Agriculturist, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.agriculturists {
		if strings.EqualFold(a.Email, email) {
			return a, true
		}
	}
	return models.Agriculturist{}, false
}

// CreateAgriculturist enrolls a new expert. The email must not already be
// enrolled, compared case-insensitively.
func (s *Store) CreateAgriculturist(a models.Agriculturist) (models.Agriculturist, error) {
	s.mu.Lock()
	for _, existing := range s.agriculturists {
		if strings.EqualFold(existing.Email, a.Email) {
			s.mu.Unlock()
			return models.Agriculturist{}, ErrDuplicateEmail
		}
	}

	if a.ProfileImage == "" {
		a.ProfileImage = models.DefaultProfileImage
	}
	if a.EnrolledBy == "" {
		a.EnrolledBy = "unknown"
	}
	a.ID = models.TimeID()
	a.EnrolledAt = models.Timestamp()
	s.agriculturists = append(s.agriculturists, a)
	snapshot := s.snapshotAgriculturistsLocked()
	s.mu.Unlock()

	s.async(func(ctx context.Context) persistOutcome { return s.persistAgriculturists(ctx, snapshot) })
	s.logger.Info("agriculturist enrolled", zap.String("id", a.ID), zap.String("email", a.Email))
	return a, nil
}

// UpdateAgriculturist applies the given transform to the identified entry.
// Changing the email to one held by another entry is rejected.
func (s *Store) UpdateAgriculturist(id string, apply func(models.Agriculturist) models.Agriculturist) (models.Agriculturist, error) {
	s.mu.Lock()

	idx := -1
	for i := range s.agriculturists {
		if s.agriculturists[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		s.mu.Unlock()
		return models.Agriculturist{}, ErrAgriNotFound
	}

	updated := apply(s.agriculturists[idx])
	updated.ID = id
	if !strings.EqualFold(updated.Email, s.agriculturists[idx].Email) {
		for i, other := range s.agriculturists {
			if i != idx && strings.EqualFold(other.Email, updated.Email) {
				s.mu.Unlock()
				return models.Agriculturist{}, ErrDuplicateEmail
			}
		}
	}

	updated.UpdatedAt = models.Timestamp()
	s.agriculturists[idx] = updated
	snapshot := s.snapshotAgriculturistsLocked()
	s.mu.Unlock()

	s.async(func(ctx context.Context) persistOutcome { return s.persistAgriculturists(ctx, snapshot) })
	s.logger.Info("agriculturist updated", zap.String("id", id))
	return updated, nil
}

// DeleteAgriculturist removes the identified entry.
func (s *Store) DeleteAgriculturist(id string) error {
	s.mu.Lock()

	idx := -1
	for i := range s.agriculturists {
		if s.agriculturists[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		s.mu.Unlock()
		return ErrAgriNotFound
	}

	s.agriculturists = append(s.agriculturists[:idx], s.agriculturists[idx+1:]...)
	snapshot := s.snapshotAgriculturistsLocked()
	s.mu.Unlock()

	s.async(func(ctx context.Context) persistOutcome { return s.persistAgriculturists(ctx, snapshot) })
	s.logger.Info("agriculturist deleted", zap.String("id", id))
	return nil
}
