package controller

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLegacyProductController(t *testing.T) {
	env := setupControllerTest(t)
	owner, ownerToken := env.createSeller(t, "owner@example.com")
	_, otherToken := env.createSeller(t, "other@example.com")

	w := env.do(http.MethodPost, "/api/v1/legacy/products", gin.H{
		"title": "Legacy Item",
		"price": 25,
		"tags":  "ignored",
	}, withToken(ownerToken))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	created := decodeJSON(t, w)["product"].(map[string]interface{})
	assert.Equal(t, float64(25), created["sale_price"])
	assert.Empty(t, created["tags"])
	id := uint(created["id"].(float64))

	t.Run("update keeps sale price and tags", func(t *testing.T) {
		tagged := env.createProduct(t, owner.ID, "Tagged", "keep")
		w := env.do(http.MethodPut, fmt.Sprintf("/api/v1/legacy/products/%d", tagged.ID), gin.H{
			"title": "Tagged v2",
			"price": 30,
			"tags":  "replaced",
		}, withToken(ownerToken))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		reloaded, err := env.product.GetProductByID(tagged.ID)
		require.NoError(t, err)
		assert.Equal(t, "Tagged v2", reloaded.Title)
		assert.Equal(t, 30.0, reloaded.Price)
		assert.Nil(t, reloaded.SalePrice)
		assert.Equal(t, []string{"keep"}, reloaded.TagTitles())
	})

	t.Run("update by non-owner", func(t *testing.T) {
		w := env.do(http.MethodPut, fmt.Sprintf("/api/v1/legacy/products/%d", id), gin.H{"title": "X", "price": 1}, withToken(otherToken))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("detail by id and slug", func(t *testing.T) {
		w := env.do(http.MethodGet, fmt.Sprintf("/api/v1/legacy/products/%d", id), nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Legacy Item", decodeJSON(t, w)["product"].(map[string]interface{})["title"])

		w = env.do(http.MethodGet, "/api/v1/legacy/products/slug/legacy-item", nil)
		require.Equal(t, http.StatusOK, w.Code)

		w = env.do(http.MethodGet, "/api/v1/legacy/products/slug/missing", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("list", func(t *testing.T) {
		w := env.do(http.MethodGet, "/api/v1/legacy/products", nil)
		require.Equal(t, http.StatusOK, w.Code)
		body := decodeJSON(t, w)
		assert.Equal(t, float64(2), body["count"])
		first := body["products"].([]interface{})[0].(map[string]interface{})
		assert.Equal(t, "Tagged v2", first["title"])
	})
}
