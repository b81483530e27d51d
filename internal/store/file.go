package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/cropwise/cropwise/internal/domain/models"
)

// FileBackend persists each collection as a single JSON document on disk.
// The layouts match the files the previous system wrote, so an existing data
// directory keeps working: users.json holds an array of [uid, record] pairs,
// the other kinds an object wrapping a named array.
type FileBackend struct {
	usersPath string
	prodPath  string
	ordPath   string
	agriPath  string
}

// NewFileBackend returns a backend rooted at dataDir.
func NewFileBackend(dataDir string) *FileBackend {
	return &FileBackend{
		usersPath: filepath.Join(dataDir, "users.json"),
		prodPath:  filepath.Join(dataDir, "products.json"),
		ordPath:   filepath.Join(dataDir, "orders.json"),
		agriPath:  filepath.Join(dataDir, "agriculturists.json"),
	}
}

// Name identifies the backend in logs.
func (b *FileBackend) Name() string { return "file" }

// LoadUsers reads users.json. A missing file is an empty collection.
func (b *FileBackend) LoadUsers(_ context.Context) (map[string]models.User, error) {
	users := make(map[string]models.User)

	data, err := os.ReadFile(b.usersPath)
	if errors.Is(err, os.ErrNotExist) {
		return users, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", b.usersPath, err)
	}

	var pairs [][]json.RawMessage
	if err := json.Unmarshal(data, &pairs); err != nil {
		return nil, fmt.Errorf("parse %s: %w", b.usersPath, err)
	}

	for _, pair := range pairs {
		if len(pair) != 2 {
			continue
		}
		var uid string
		if err := json.Unmarshal(pair[0], &uid); err != nil {
			return nil, fmt.Errorf("parse user key in %s: %w", b.usersPath, err)
		}
		var u models.User
		if err := json.Unmarshal(pair[1], &u); err != nil {
			return nil, fmt.Errorf("parse user %s in %s: %w", uid, b.usersPath, err)
		}
		if u.UID == "" {
			u.UID = uid
		}
		users[uid] = u
	}

	return users, nil
}

// SaveUsers writes the whole user collection as an array of [uid, record]
// pairs, ordered by uid so the file is stable across saves.
func (b *FileBackend) SaveUsers(_ context.Context, users map[string]models.User) error {
	uids := make([]string, 0, len(users))
	for uid := range users {
		uids = append(uids, uid)
	}
	sort.Strings(uids)

	pairs := make([][2]interface{}, 0, len(users))
	for _, uid := range uids {
		pairs = append(pairs, [2]interface{}{uid, users[uid]})
	}

	return writeJSONFile(b.usersPath, pairs)
}

type productsDocument struct {
	Products []models.Product `json:"products"`
}

// LoadProducts reads products.json.
func (b *FileBackend) LoadProducts(_ context.Context) ([]models.Product, error) {
	var doc productsDocument
	if err := readJSONFile(b.prodPath, &doc); err != nil {
		return nil, err
	}
	return doc.Products, nil
}

// SaveProducts writes the whole product collection.
func (b *FileBackend) SaveProducts(_ context.Context, products []models.Product) error {
	if products == nil {
		products = []models.Product{}
	}
	return writeJSONFile(b.prodPath, productsDocument{Products: products})
}

type ordersDocument struct {
	Orders []models.Order `json:"orders"`
}

// LoadOrders reads orders.json.
func (b *FileBackend) LoadOrders(_ context.Context) ([]models.Order, error) {
	var doc ordersDocument
	if err := readJSONFile(b.ordPath, &doc); err != nil {
		return nil, err
	}
	return doc.Orders, nil
}

// SaveOrders writes the whole order collection.
func (b *FileBackend) SaveOrders(_ context.Context, orders []models.Order) error {
	if orders == nil {
		orders = []models.Order{}
	}
	return writeJSONFile(b.ordPath, ordersDocument{Orders: orders})
}

type agriculturistsDocument struct {
	Agriculturists []models.Agriculturist `json:"agriculturists"`
}

// LoadAgriculturists reads agriculturists.json.
func (b *FileBackend) LoadAgriculturists(_ context.Context) ([]models.Agriculturist, error) {
	var doc agriculturistsDocument
	if err := readJSONFile(b.agriPath, &doc); err != nil {
		return nil, err
	}
	return doc.Agriculturists, nil
}

// SaveAgriculturists writes the whole agriculturist collection.
func (b *FileBackend) SaveAgriculturists(_ context.Context, agriculturists []models.Agriculturist) error {
	if agriculturists == nil {
		agriculturists = []models.Agriculturist{}
	}
	return writeJSONFile(b.agriPath, agriculturistsDocument{Agriculturists: agriculturists})
}

func readJSONFile(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func writeJSONFile(path string, doc interface{}) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
