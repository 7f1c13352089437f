package locator

import (
	"math"
	"sort"

	"gorm.io/gorm"

	"github.com/terraviva/backend/internal/models"
)

const earthRadiusKm = 6371.0

// Service answers "where can I buy this offline" for customers who
// prefer a retail store over the webshop.
type Service struct {
	db *gorm.DB
}

// NewService creates a new store locator service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ListStores returns all active retail stores
func (s *Service) ListStores() ([]models.RetailStore, error) {
	var stores []models.RetailStore
	err := s.db.
		Where("active = ?", true).
		Order("city, name").
		Find(&stores).Error
	if err != nil {
		return nil, err
	}
	return stores, nil
}

// StoreWithDistance is a retail store annotated with its distance from
// the customer's position
type StoreWithDistance struct {
	models.RetailStore
	DistanceKm float64 `json:"distance_km"`
}

// Nearby returns the closest active stores to a position, nearest first
func (s *Service) Nearby(lat, lng float64, limit int) ([]StoreWithDistance, error) {
	stores, err := s.ListStores()
	if err != nil {
		return nil, err
	}

	results := make([]StoreWithDistance, 0, len(stores))
	for _, store := range stores {
		results = append(results, StoreWithDistance{
			RetailStore: store,
			DistanceKm:  math.Round(haversineKm(lat, lng, store.Latitude, store.Longitude)*10) / 10,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].DistanceKm < results[j].DistanceKm
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// haversineKm computes the great-circle distance between two
// coordinates in kilometers
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLng := toRadians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
