package cartControllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/burhanistore/storefront-api/cart"
	"github.com/burhanistore/storefront-api/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.ColorVariant{},
		&models.ProductImage{},
		&models.CartSnapshot{},
	))
	return db
}

func postCartItem(t *testing.T, db *gorm.DB, sessionID string, body gin.H) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/cart/items", bytes.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.Header.Set("X-Session-ID", sessionID)

	AddCartItem(db)(c)
	return w
}

func sessionItems(t *testing.T, db *gorm.DB, sessionID string) []cart.LineItem {
	t.Helper()
	items, err := cart.NewGormStore(db, "session:"+sessionID).Load()
	require.NoError(t, err)
	return items
}

func TestAddCartItem_InStockVariant(t *testing.T) {
	db := testDB(t)
	p := models.Product{
		Name: "T-Shirt", Slug: "t-shirt", OriginalPrice: 499, IsActive: true,
		ColorVariants: []models.ColorVariant{
			{ColorName: "Navy Blue", Stock: 10, IsActive: true},
		},
	}
	require.NoError(t, db.Create(&p).Error)

	w := postCartItem(t, db, "s1", gin.H{
		"product_id": p.ID, "quantity": 2, "selected_color": "Navy Blue",
	})
	require.Equal(t, http.StatusOK, w.Code)

	items := sessionItems(t, db, "s1")
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestAddCartItem_SoldOutVariantRejected(t *testing.T) {
	db := testDB(t)
	p := models.Product{
		Name: "T-Shirt", Slug: "t-shirt-2", OriginalPrice: 499, IsActive: true,
		ColorVariants: []models.ColorVariant{
			{ColorName: "Navy Blue", Stock: 0, IsActive: true},
		},
	}
	require.NoError(t, db.Create(&p).Error)

	w := postCartItem(t, db, "s2", gin.H{
		"product_id": p.ID, "quantity": 3, "selected_color": "Navy Blue",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INSUFFICIENT_STOCK")

	assert.Empty(t, sessionItems(t, db, "s2"))
}

func TestAddCartItem_SoldOutLegacyProductRejected(t *testing.T) {
	db := testDB(t)
	p := models.Product{
		Name: "Scarf", Slug: "scarf", OriginalPrice: 300, Stock: 0, IsActive: true,
	}
	require.NoError(t, db.Create(&p).Error)

	w := postCartItem(t, db, "s3", gin.H{
		"product_id": p.ID, "quantity": 1,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INSUFFICIENT_STOCK")

	assert.Empty(t, sessionItems(t, db, "s3"))
}

func TestAddCartItem_UnknownColorRejected(t *testing.T) {
	db := testDB(t)
	p := models.Product{
		Name: "T-Shirt", Slug: "t-shirt-3", OriginalPrice: 499, IsActive: true,
		ColorVariants: []models.ColorVariant{
			{ColorName: "Navy Blue", Stock: 10, IsActive: true},
		},
	}
	require.NoError(t, db.Create(&p).Error)

	w := postCartItem(t, db, "s4", gin.H{
		"product_id": p.ID, "quantity": 1, "selected_color": "Chartreuse",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_VARIANT")
}
