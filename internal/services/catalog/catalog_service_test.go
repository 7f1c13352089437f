package catalog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/terraviva/backend/internal/models"
	"github.com/terraviva/backend/internal/subscription"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}))
	return NewService(db, nil)
}

func TestCreateProductGeneratesSlug(t *testing.T) {
	service := newTestService(t)

	product, err := service.CreateProduct(CreateProductInput{
		Name:              "All-Season Maintenance Fertilizer",
		Type:              subscription.ProductTypeMaintenance,
		BasePrice:         89.90,
		CoverageArea:      100,
		CommerceProductID: "prod_1",
		CommerceVariantID: "var_1",
	})
	require.NoError(t, err)
	assert.Equal(t, "all-season-maintenance-fertilizer", product.Slug)
	assert.True(t, product.Active)
}

func TestListProductsFiltersInactive(t *testing.T) {
	service := newTestService(t)

	_, err := service.CreateProduct(CreateProductInput{
		Name: "Active One", Type: subscription.ProductTypeMaintenance,
		BasePrice: 89.90, CoverageArea: 100,
		CommerceProductID: "prod_1", CommerceVariantID: "var_1",
	})
	require.NoError(t, err)

	retired, err := service.CreateProduct(CreateProductInput{
		Name: "Retired One", Type: subscription.ProductTypeProtection,
		BasePrice: 49.90, CoverageArea: 100,
		CommerceProductID: "prod_2", CommerceVariantID: "var_2",
	})
	require.NoError(t, err)

	inactive := false
	_, err = service.UpdateProduct(retired.ID.String(), UpdateProductInput{Active: &inactive})
	require.NoError(t, err)

	storefront, err := service.ListProducts(false)
	require.NoError(t, err)
	assert.Len(t, storefront, 1)

	backOffice, err := service.ListProducts(true)
	require.NoError(t, err)
	assert.Len(t, backOffice, 2)
}

func TestProductByTypeIgnoresInactive(t *testing.T) {
	service := newTestService(t)

	created, err := service.CreateProduct(CreateProductInput{
		Name: "Starter Boost", Type: subscription.ProductTypeEstablishment,
		BasePrice: 94.90, CoverageArea: 100,
		CommerceProductID: "prod_1", CommerceVariantID: "var_1",
	})
	require.NoError(t, err)

	product, err := service.ProductByType(subscription.ProductTypeEstablishment)
	require.NoError(t, err)
	assert.Equal(t, created.ID.String(), product.ProductID)
	assert.Equal(t, "var_1", product.VariantID)

	inactive := false
	_, err = service.UpdateProduct(created.ID.String(), UpdateProductInput{Active: &inactive})
	require.NoError(t, err)

	_, err = service.ProductByType(subscription.ProductTypeEstablishment)
	require.ErrorIs(t, err, subscription.ErrProductTypeMissing)
	assert.Equal(t, "no active product for type establishment", err.Error())
}
