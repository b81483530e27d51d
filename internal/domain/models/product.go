package models

// Product is a catalog entry managed through the admin endpoints.
type Product struct {
	ID          string  `json:"id" bson:"_id"`
	Name        string  `json:"name" bson:"name"`
	Category    string  `json:"category" bson:"category"`
	Price       float64 `json:"price" bson:"price"`
	Unit        string  `json:"unit" bson:"unit"`
	Description string  `json:"description" bson:"description"`
	Image       string  `json:"image" bson:"image"`
	Stock       int     `json:"stock" bson:"stock"`
	Seller      string  `json:"seller" bson:"seller"`
	Location    string  `json:"location" bson:"location"`
	CreatedAt   string  `json:"createdAt" bson:"createdAt"`
}

const (
	// PlaceholderImage is used when a product is created without an upload.
	PlaceholderImage = "images/placeholder.svg"

	DefaultSeller   = "Cropwise Store"
	DefaultLocation = "Abia, Nigeria"
)
