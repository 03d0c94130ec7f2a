package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/service"
)

func newCatalogHandler(t *testing.T) *CatalogHTTP {
	t.Helper()
	return &CatalogHTTP{Svc: &service.CatalogService{Repo: newTestRepo(t)}}
}

func TestUpdateProductPatchesOnlySentFields(t *testing.T) {
	h := newCatalogHandler(t)

	p := seedProduct(t, h.Svc.Repo, "keyboard", 1000)
	p.Description = "mechanical"
	require.NoError(t, h.Svc.Repo.SaveProduct(context.Background(), p))

	// Only the price is sent; everything else must survive.
	c, rec := newJSONContext(t, http.MethodPatch, "/products/"+p.ID.String(),
		map[string]any{"price": 1200}, uuid.Nil)
	c.SetParamNames("id")
	c.SetParamValues(p.ID.String())
	require.NoError(t, h.UpdateProduct(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, int64(1200), got.Price)
	require.Equal(t, "keyboard", got.Name)
	require.Equal(t, "mechanical", got.Description)
	require.Equal(t, uint(100), got.Count)
}

func TestUpdateProductUnknownID(t *testing.T) {
	h := newCatalogHandler(t)

	c, _ := newJSONContext(t, http.MethodPatch, "/products/"+uuid.NewString(),
		map[string]any{"price": 1200}, uuid.Nil)
	c.SetParamNames("id")
	c.SetParamValues(uuid.NewString())

	err := h.UpdateProduct(c)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	require.Equal(t, http.StatusNotFound, he.Code)
}
