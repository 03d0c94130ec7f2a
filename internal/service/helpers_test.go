package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.All()...))
	return repo.New(db)
}

func seedProduct(t *testing.T, r *repo.GormRepo, name string, price int64) *models.Product {
	t.Helper()

	product := &models.Product{Name: name, Price: price, Count: 100}
	require.NoError(t, r.CreateProduct(context.Background(), product))
	return product
}

func fillCart(t *testing.T, r *repo.GormRepo, userID uuid.UUID, lines map[*models.Product]uint) {
	t.Helper()

	for product, quantity := range lines {
		_, err := r.AddItem(context.Background(), userID, product.ID, product.Price, quantity)
		require.NoError(t, err)
	}
}
