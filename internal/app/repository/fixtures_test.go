package repository

import (
	"fmt"
	"testing"

	"github.com/ikkim/digimart-backend/internal/app/model"
	"github.com/ikkim/digimart-backend/internal/db"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return testDB
}

func createTestUser(t *testing.T, testDB *gorm.DB, email string) *model.User {
	user := &model.User{
		Email:        email,
		PasswordHash: "hashedpassword",
		Name:         "Test User",
		Role:         model.RoleUser,
	}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func createTestSeller(t *testing.T, testDB *gorm.DB, email string) *model.SellerAccount {
	user := createTestUser(t, testDB, email)
	account := &model.SellerAccount{UserID: user.ID, Active: true}
	require.NoError(t, testDB.Omit("User").Create(account).Error)
	return account
}

func createTestProduct(t *testing.T, testDB *gorm.DB, sellerID uint, title string) *model.Product {
	product := &model.Product{
		SellerID:    sellerID,
		Title:       title,
		Description: fmt.Sprintf("%s description", title),
		Price:       9.99,
	}
	require.NoError(t, testDB.Omit("Seller", "Tags").Create(product).Error)
	return product
}
