package store

import (
	"context"
	"errors"

	"github.com/cropwise/cropwise/internal/domain/models"
)

// Kind names one of the four record collections.
type Kind string

const (
	KindUsers          Kind = "users"
	KindProducts       Kind = "products"
	KindOrders         Kind = "orders"
	KindAgriculturists Kind = "agriculturists"
)

// Backend is a persistence target for whole collections. Loads happen once
// at startup; saves replace the stored collection with the snapshot given.
type Backend interface {
	Name() string

	LoadUsers(ctx context.Context) (map[string]models.User, error)
	SaveUsers(ctx context.Context, users map[string]models.User) error

	LoadProducts(ctx context.Context) ([]models.Product, error)
	SaveProducts(ctx context.Context, products []models.Product) error

	LoadOrders(ctx context.Context) ([]models.Order, error)
	SaveOrders(ctx context.Context, orders []models.Order) error

	LoadAgriculturists(ctx context.Context) ([]models.Agriculturist, error)
	SaveAgriculturists(ctx context.Context, agriculturists []models.Agriculturist) error
}

// Sentinel errors surfaced to the handler layer.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrWrongPassword   = errors.New("incorrect password")
	ErrDuplicateUser   = errors.New("email or username already exists")
	ErrProductNotFound = errors.New("product not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrAgriNotFound    = errors.New("agriculturist not found")
	ErrDuplicateEmail  = errors.New("agriculturist email already enrolled")
)
