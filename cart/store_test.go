package cart

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/burhanistore/storefront-api/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.CartSnapshot{}))
	return db
}

func TestGormStore_RoundTrip(t *testing.T) {
	db := testDB(t)
	store := NewGormStore(db, "session-a")

	l := NewLedger(store)
	l.Add(tshirt(), 3, "M", "Navy Blue")
	l.Add(tshirt(), 1, "S", "Red")

	reloaded := NewLedger(NewGormStore(db, "session-a"))
	items := reloaded.Items()
	require.Len(t, items, 2)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, "Navy Blue", items[0].SelectedColor)
}

func TestGormStore_SessionsAreIsolated(t *testing.T) {
	db := testDB(t)

	a := NewLedger(NewGormStore(db, "session-a"))
	a.Add(tshirt(), 2, "M", "Red")

	b := NewLedger(NewGormStore(db, "session-b"))
	assert.Empty(t, b.Items())
}

func TestGormStore_SaveOverwrites(t *testing.T) {
	db := testDB(t)
	store := NewGormStore(db, "session-a")

	l := NewLedger(store)
	l.Add(tshirt(), 2, "M", "Red")
	l.UpdateQuantity(1, "M", "Red", 9)

	var count int64
	require.NoError(t, db.Model(&models.CartSnapshot{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	reloaded := NewLedger(NewGormStore(db, "session-a"))
	require.Len(t, reloaded.Items(), 1)
	assert.Equal(t, 9, reloaded.Items()[0].Quantity)
}

func TestGormStore_ClearDeletesRow(t *testing.T) {
	db := testDB(t)
	store := NewGormStore(db, "session-a")

	l := NewLedger(store)
	l.Add(tshirt(), 2, "M", "Red")
	l.Clear()

	var count int64
	require.NoError(t, db.Model(&models.CartSnapshot{}).Count(&count).Error)
	assert.Zero(t, count)
}
