package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/zestcart/zestcart-backend/pkg/db/models"
)

func setupCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schemas := []string{
		`CREATE TABLE IF NOT EXISTS tax_codes (
  id TEXT PRIMARY KEY,
  hsn_code TEXT NOT NULL,
  gst_percent NUMERIC NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS items (
  id TEXT PRIMARY KEY,
  sub_category_id TEXT NOT NULL,
  tax_code_id TEXT,
  name TEXT NOT NULL,
  description TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS shop_items (
  id TEXT PRIMARY KEY,
  shop_id TEXT NOT NULL,
  item_id TEXT NOT NULL,
  price NUMERIC NOT NULL,
  available INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS shop_item_offers (
  id TEXT PRIMARY KEY,
  shop_item_id TEXT NOT NULL,
  discount_percent NUMERIC NOT NULL,
  starts_at DATETIME NOT NULL,
  ends_at DATETIME NOT NULL,
  active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  customer_id TEXT NOT NULL,
  shop_item_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
	}
	for _, schema := range schemas {
		require.NoError(t, db.Exec(schema).Error)
	}
	return db
}

func seedShopItem(t *testing.T, db *gorm.DB, shopID uuid.UUID) *models.ShopItem {
	t.Helper()

	item := &models.Item{
		ID:            uuid.New(),
		SubCategoryID: uuid.New(),
		Name:          "paneer tikka",
	}
	require.NoError(t, db.Create(item).Error)

	shopItem := &models.ShopItem{
		ID:        uuid.New(),
		ShopID:    shopID,
		ItemID:    item.ID,
		Price:     decimal.RequireFromString("118.00"),
		Available: true,
	}
	require.NoError(t, db.Create(shopItem).Error)
	return shopItem
}

func TestRepositoryCreateMergeAndList(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	customerID := uuid.New()
	shopID := uuid.New()
	shopItem := seedShopItem(t, db, shopID)

	line := &models.CartItem{
		ID:         uuid.New(),
		CustomerID: customerID,
		ShopItemID: shopItem.ID,
		Quantity:   2,
	}
	require.NoError(t, repo.Create(ctx, line))

	found, err := repo.FindLine(ctx, customerID, shopItem.ID)
	require.NoError(t, err)
	assert.Equal(t, line.ID, found.ID)
	assert.Equal(t, 2, found.Quantity)

	require.NoError(t, repo.UpdateQuantity(ctx, line.ID, 5))

	lines, err := repo.ListByCustomer(ctx, customerID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
	require.NotNil(t, lines[0].ShopItem)
	assert.True(t, lines[0].ShopItem.Price.Equal(decimal.RequireFromString("118.00")))
	require.NotNil(t, lines[0].ShopItem.Item)
	assert.Equal(t, "paneer tikka", lines[0].ShopItem.Item.Name)
}

func TestRepositoryFindLineMissing(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)

	_, err := repo.FindLine(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryDeleteAllForCustomer(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	customerID := uuid.New()
	otherCustomerID := uuid.New()
	shopID := uuid.New()

	for _, owner := range []uuid.UUID{customerID, customerID, otherCustomerID} {
		shopItem := seedShopItem(t, db, shopID)
		require.NoError(t, repo.Create(ctx, &models.CartItem{
			ID:         uuid.New(),
			CustomerID: owner,
			ShopItemID: shopItem.ID,
			Quantity:   1,
		}))
	}

	require.NoError(t, repo.DeleteAllForCustomer(ctx, customerID))

	mine, err := repo.ListByCustomer(ctx, customerID)
	require.NoError(t, err)
	assert.Empty(t, mine)

	theirs, err := repo.ListByCustomer(ctx, otherCustomerID)
	require.NoError(t, err)
	assert.Len(t, theirs, 1)
}
