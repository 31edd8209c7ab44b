package controller

import (
	"net/http"
	"testing"

	"github.com/ikkim/digimart-backend/internal/app/model"
	apperrors "github.com/ikkim/digimart-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSellerController_Account(t *testing.T) {
	env := setupControllerTest(t)
	_, token := env.createUser(t, "user@example.com", model.RoleUser)

	w := env.do(http.MethodGet, "/api/v1/seller/account", nil, withToken(token))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(http.MethodPost, "/api/v1/seller/account", nil, withToken(token))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	account := decodeJSON(t, w)["seller_account"].(map[string]interface{})
	assert.Equal(t, true, account["active"])

	// opening again is a no-op
	w = env.do(http.MethodPost, "/api/v1/seller/account", nil, withToken(token))
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodGet, "/api/v1/seller/account", nil, withToken(token))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSellerController_ListSellerProducts(t *testing.T) {
	env := setupControllerTest(t)
	mine, myToken := env.createSeller(t, "mine@example.com")
	theirs, _ := env.createSeller(t, "theirs@example.com")
	_, buyerToken := env.createUser(t, "buyer@example.com", model.RoleUser)

	env.createProduct(t, mine.ID, "My Loops", "")
	env.createProduct(t, mine.ID, "My Presets", "")
	env.createProduct(t, theirs.ID, "Their Loops", "")

	w := env.do(http.MethodGet, "/api/v1/seller/products", nil, withToken(myToken))
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeJSON(t, w)
	assert.Equal(t, float64(2), body["total"])

	w = env.do(http.MethodGet, "/api/v1/seller/products?q=loops", nil, withToken(myToken))
	require.Equal(t, http.StatusOK, w.Code)
	products := decodeJSON(t, w)["products"].([]interface{})
	require.Len(t, products, 1)
	assert.Equal(t, "My Loops", products[0].(map[string]interface{})["title"])

	w = env.do(http.MethodGet, "/api/v1/seller/products", nil, withToken(myToken), acceptHTML())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "My Presets")
	assert.NotContains(t, w.Body.String(), "Their Loops")

	w = env.do(http.MethodGet, "/api/v1/seller/products", nil, withToken(buyerToken))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, apperrors.SellerAccountRequired, decodeJSON(t, w)["error"])

	w = env.do(http.MethodGet, "/api/v1/seller/products", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
