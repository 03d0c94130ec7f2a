package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
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

// newJSONContext builds an echo context carrying a JSON body and the identity
// that RequireAuth would have resolved.
func newJSONContext(t *testing.T, method, target string, body any, userID uuid.UUID) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	c := echo.New().NewContext(req, rec)
	if userID != uuid.Nil {
		c.Set("user_id", userID.String())
	}
	return c, rec
}

func seedProduct(t *testing.T, r *repo.GormRepo, name string, price int64) *models.Product {
	t.Helper()

	product := &models.Product{Name: name, Price: price, Count: 100}
	require.NoError(t, r.CreateProduct(context.Background(), product))
	return product
}
