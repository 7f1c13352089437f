package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/terraviva/backend/internal/models"
	"github.com/terraviva/backend/internal/subscription"
)

// ErrProductNotFound is returned when a product does not exist
var ErrProductNotFound = errors.New("product not found")

const productTypeCacheTTL = 5 * time.Minute

// Service manages the product catalog. Reads used by the recommendation
// engine go through Redis so a storefront burst never fans out to the
// database.
type Service struct {
	db    *gorm.DB
	redis *redis.Client
}

// NewService creates a new catalog service
func NewService(db *gorm.DB, redisClient *redis.Client) *Service {
	return &Service{db: db, redis: redisClient}
}

// CreateProductInput holds the fields for a new catalog product
type CreateProductInput struct {
	Name              string                   `json:"name" binding:"required"`
	Description       string                   `json:"description"`
	Type              subscription.ProductType `json:"type" binding:"required"`
	BasePrice         float64                  `json:"base_price" binding:"required,gt=0"`
	CoverageArea      float64                  `json:"coverage_area" binding:"required,gt=0"`
	ImageURL          string                   `json:"image_url"`
	CommerceProductID string                   `json:"commerce_product_id" binding:"required"`
	CommerceVariantID string                   `json:"commerce_variant_id" binding:"required"`
	Metadata          models.JSON              `json:"metadata"`
}

// CreateProduct creates a catalog product with a URL slug derived from
// its name
func (s *Service) CreateProduct(input CreateProductInput) (*models.Product, error) {
	product := models.Product{
		Slug:              slug.Make(input.Name),
		Name:              input.Name,
		Description:       input.Description,
		Type:              input.Type,
		BasePrice:         input.BasePrice,
		CoverageArea:      input.CoverageArea,
		ImageURL:          input.ImageURL,
		CommerceProductID: input.CommerceProductID,
		CommerceVariantID: input.CommerceVariantID,
		Active:            true,
		Metadata:          input.Metadata,
	}

	if err := s.db.Create(&product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.invalidateTypeCache(product.Type)
	return &product, nil
}

// UpdateProductInput holds the updatable fields of a product
type UpdateProductInput struct {
	Name         *string  `json:"name"`
	Description  *string  `json:"description"`
	BasePrice    *float64 `json:"base_price"`
	CoverageArea *float64 `json:"coverage_area"`
	ImageURL     *string  `json:"image_url"`
	Active       *bool    `json:"active"`
}

// UpdateProduct applies a partial update to a product
func (s *Service) UpdateProduct(id string, input UpdateProductInput) (*models.Product, error) {
	var product models.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
		updates["slug"] = slug.Make(*input.Name)
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.BasePrice != nil {
		updates["base_price"] = *input.BasePrice
	}
	if input.CoverageArea != nil {
		updates["coverage_area"] = *input.CoverageArea
	}
	if input.ImageURL != nil {
		updates["image_url"] = *input.ImageURL
	}
	if input.Active != nil {
		updates["active"] = *input.Active
	}

	if len(updates) > 0 {
		if err := s.db.Model(&product).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
	}

	s.invalidateTypeCache(product.Type)
	return &product, nil
}

// ListProducts returns catalog products, optionally including inactive
// ones for the back office
func (s *Service) ListProducts(includeInactive bool) ([]models.Product, error) {
	var products []models.Product
	query := s.db.Order("name")
	if !includeInactive {
		query = query.Where("active = ?", true)
	}
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// GetProductBySlug returns an active product by its URL slug
func (s *Service) GetProductBySlug(productSlug string) (*models.Product, error) {
	var product models.Product
	err := s.db.First(&product, "slug = ? AND active = ?", productSlug, true).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

// GetProductByID returns a product by id
func (s *Service) GetProductByID(id string) (*models.Product, error) {
	var product models.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

// ProductByType returns the active product sold for a lawn care product
// type. Results are cached in Redis so recommendation generation stays
// off the database on the hot path.
func (s *Service) ProductByType(t subscription.ProductType) (*subscription.CatalogProduct, error) {
	ctx := context.Background()
	cacheKey := fmt.Sprintf("catalog:type:%s", t)

	if s.redis != nil {
		cached, err := s.redis.Get(ctx, cacheKey).Result()
		if err == nil {
			var product subscription.CatalogProduct
			if err := json.Unmarshal([]byte(cached), &product); err == nil {
				return &product, nil
			}
		} else if err != redis.Nil {
			log.Printf("Catalog cache read failed for %s: %v", cacheKey, err)
		}
	}

	var row models.Product
	err := s.db.First(&row, "type = ? AND active = ?", t, true).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w %s", subscription.ErrProductTypeMissing, t)
		}
		return nil, err
	}

	product := subscription.CatalogProduct{
		ProductID:    row.ID.String(),
		VariantID:    row.CommerceVariantID,
		Name:         row.Name,
		BasePrice:    row.BasePrice,
		CoverageArea: row.CoverageArea,
	}

	if s.redis != nil {
		if data, err := json.Marshal(product); err == nil {
			if err := s.redis.Set(ctx, cacheKey, data, productTypeCacheTTL).Err(); err != nil {
				log.Printf("Catalog cache write failed for %s: %v", cacheKey, err)
			}
		}
	}

	return &product, nil
}

// invalidateTypeCache drops the cached product for a type after writes
func (s *Service) invalidateTypeCache(t subscription.ProductType) {
	if s.redis == nil {
		return
	}
	cacheKey := fmt.Sprintf("catalog:type:%s", t)
	if err := s.redis.Del(context.Background(), cacheKey).Err(); err != nil {
		log.Printf("Catalog cache invalidation failed for %s: %v", cacheKey, err)
	}
}
