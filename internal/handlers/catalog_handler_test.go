package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/terraviva/backend/internal/models"
	"github.com/terraviva/backend/internal/services/catalog"
	"github.com/terraviva/backend/internal/subscription"
)

func newCatalogRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}))

	service := catalog.NewService(db, nil)
	_, err = service.CreateProduct(catalog.CreateProductInput{
		Name: "All-Season Maintenance", Type: subscription.ProductTypeMaintenance,
		BasePrice: 89.90, CoverageArea: 100,
		CommerceProductID: "prod_1", CommerceVariantID: "var_1",
	})
	require.NoError(t, err)

	retired, err := service.CreateProduct(catalog.CreateProductInput{
		Name: "Winter Shield", Type: subscription.ProductTypeProtection,
		BasePrice: 49.90, CoverageArea: 100,
		CommerceProductID: "prod_2", CommerceVariantID: "var_2",
	})
	require.NoError(t, err)
	inactive := false
	_, err = service.UpdateProduct(retired.ID.String(), catalog.UpdateProductInput{Active: &inactive})
	require.NoError(t, err)

	handler := NewCatalogHandler(service)
	router := gin.New()
	router.GET("/products", handler.ListProducts)
	router.GET("/admin/products", func(c *gin.Context) { c.Set("is_admin", true) }, handler.ListProducts)
	return router
}

func listedProducts(t *testing.T, router *gin.Engine, path string) []models.Product {
	t.Helper()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Products []models.Product `json:"products"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Products
}

func TestListProductsHidesInactiveOnStorefront(t *testing.T) {
	router := newCatalogRouter(t)

	products := listedProducts(t, router, "/products?include_inactive=true")
	require.Len(t, products, 1)
	assert.Equal(t, "all-season-maintenance", products[0].Slug)
}

func TestListProductsShowsInactiveToAdmins(t *testing.T) {
	router := newCatalogRouter(t)

	assert.Len(t, listedProducts(t, router, "/admin/products"), 1)
	assert.Len(t, listedProducts(t, router, "/admin/products?include_inactive=true"), 2)
}
