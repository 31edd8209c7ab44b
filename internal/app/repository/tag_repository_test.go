package repository

import (
	"testing"

	"github.com/ikkim/digimart-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagRepository_FindOrCreate(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewTagRepository(testDB)

	created, err := repo.FindOrCreate("Video Course")
	require.NoError(t, err)
	assert.Equal(t, "video-course", created.Slug)

	again, err := repo.FindOrCreate("Video Course")
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)

	tags, err := repo.FindAll()
	require.NoError(t, err)
	assert.Len(t, tags, 1)
}

func TestTagRepository_FindByIDWithProducts(t *testing.T) {
	testDB := setupTestDB(t)
	tags := NewTagRepository(testDB)
	products := NewProductRepository(testDB)
	seller := createTestSeller(t, testDB, "seller@example.com")

	require.NoError(t, products.CreateWithTags(&model.Product{SellerID: seller.ID, Title: "A", Price: 1}, []string{"shared"}))
	require.NoError(t, products.CreateWithTags(&model.Product{SellerID: seller.ID, Title: "B", Price: 1}, []string{"shared", "solo"}))

	shared, err := tags.FindOrCreate("shared")
	require.NoError(t, err)

	found, err := tags.FindByIDWithProducts(shared.ID)
	require.NoError(t, err)
	assert.Len(t, found.Products, 2)

	_, err = tags.FindByID(9999)
	assert.Error(t, err)
}

func TestTagViewRepository_AddCount(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewTagViewRepository(testDB)
	tags := NewTagRepository(testDB)
	alice := createTestUser(t, testDB, "alice@example.com")
	bob := createTestUser(t, testDB, "bob@example.com")

	audio, err := tags.FindOrCreate("audio")
	require.NoError(t, err)
	video, err := tags.FindOrCreate("video")
	require.NoError(t, err)

	require.NoError(t, repo.AddCount(alice.ID, audio.ID))
	require.NoError(t, repo.AddCount(alice.ID, audio.ID))
	require.NoError(t, repo.AddCount(alice.ID, audio.ID))
	require.NoError(t, repo.AddCount(alice.ID, video.ID))
	require.NoError(t, repo.AddCount(bob.ID, video.ID))

	views, err := repo.FindByUser(alice.ID)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, audio.ID, views[0].TagID)
	assert.Equal(t, int64(3), views[0].ViewCount)
	assert.Equal(t, "audio", views[0].Tag.Title)
	assert.Equal(t, int64(1), views[1].ViewCount)

	var rows int64
	require.NoError(t, testDB.Model(&model.TagView{}).Count(&rows).Error)
	assert.Equal(t, int64(3), rows, "one row per (user, tag)")

	top, err := repo.TopTags(10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "audio", top[0].Title)
	assert.Equal(t, int64(3), top[0].TotalViews)
	assert.Equal(t, "video", top[1].Title)
	assert.Equal(t, int64(2), top[1].TotalViews)

	top, err = repo.TopTags(1)
	require.NoError(t, err)
	assert.Len(t, top, 1)
}

func TestPurchaseRepository(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewPurchaseRepository(testDB)
	seller := createTestSeller(t, testDB, "seller@example.com")
	buyer := createTestUser(t, testDB, "buyer@example.com")
	first := createTestProduct(t, testDB, seller.ID, "First")
	second := createTestProduct(t, testDB, seller.ID, "Second")

	exists, err := repo.Exists(buyer.ID, first.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, repo.Create(&model.Purchase{UserID: buyer.ID, ProductID: first.ID, Price: 9.99}))
	require.NoError(t, repo.Create(&model.Purchase{UserID: buyer.ID, ProductID: second.ID, Price: 9.99}))
	assert.Error(t, repo.Create(&model.Purchase{UserID: buyer.ID, ProductID: first.ID, Price: 9.99}))

	exists, err = repo.Exists(buyer.ID, first.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	purchases, err := repo.FindByUser(buyer.ID)
	require.NoError(t, err)
	require.Len(t, purchases, 2)
	assert.Equal(t, "Second", purchases[0].Product.Title)
}
