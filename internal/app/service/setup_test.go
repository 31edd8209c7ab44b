package service

import (
	"sync"
	"testing"
	"time"

	"github.com/ikkim/digimart-backend/internal/app/model"
	"github.com/ikkim/digimart-backend/internal/app/repository"
	"github.com/ikkim/digimart-backend/internal/db"
	"github.com/ikkim/digimart-backend/internal/storage"
	"github.com/ikkim/digimart-backend/pkg/util"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testJWTSecret = "test-jwt-secret"

type sentEvent struct {
	UserID uint
	Type   string
	Data   interface{}
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []sentEvent
}

func (n *recordingNotifier) SendToUser(userID uint, eventType string, data interface{}) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, sentEvent{UserID: userID, Type: eventType, Data: data})
	return nil
}

func (n *recordingNotifier) Events() []sentEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentEvent(nil), n.events...)
}

type testEnv struct {
	DB       *gorm.DB
	Store    *storage.LocalStorage
	Notifier *recordingNotifier

	Users     repository.UserRepository
	Sellers   repository.SellerAccountRepository
	Products  repository.ProductRepository
	TagViews  repository.TagViewRepository
	Purchases repository.PurchaseRepository

	Auth      AuthService
	Seller    SellerService
	Product   ProductService
	Media     MediaService
	Analytics AnalyticsService
	Tag       TagService
	Library   LibraryService
}

func setupServiceTest(t *testing.T) *testEnv {
	t.Helper()

	util.BcryptCost = bcrypt.MinCost
	t.Cleanup(func() { util.BcryptCost = 12 })

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	env := &testEnv{
		DB:        testDB,
		Store:     store,
		Notifier:  &recordingNotifier{},
		Users:     repository.NewUserRepository(testDB),
		Sellers:   repository.NewSellerAccountRepository(testDB),
		Products:  repository.NewProductRepository(testDB),
		TagViews:  repository.NewTagViewRepository(testDB),
		Purchases: repository.NewPurchaseRepository(testDB),
	}

	env.Auth = NewAuthService(env.Users, testJWTSecret, 15*time.Minute, 7*24*time.Hour)
	env.Seller = NewSellerService(env.Sellers)
	env.Product = NewProductService(env.Products, env.Seller)
	env.Media = NewMediaService(env.Product, env.Products, store, 1<<20)
	env.Analytics = NewAnalyticsService(env.TagViews, 10)
	env.Tag = NewTagService(repository.NewTagRepository(testDB))
	env.Library = NewLibraryService(env.Purchases, env.Sellers, env.Product, store, env.Notifier)
	return env
}

func (env *testEnv) createUser(t *testing.T, email string) *model.User {
	t.Helper()
	user := &model.User{Email: email, PasswordHash: "x", Name: "User", Role: model.RoleUser}
	require.NoError(t, env.Users.Create(user))
	return user
}

// createSeller returns a user with an active seller account.
func (env *testEnv) createSeller(t *testing.T, email string) (*model.User, *model.SellerAccount) {
	t.Helper()
	user := env.createUser(t, email)
	account, _, err := env.Seller.OpenAccount(user.ID)
	require.NoError(t, err)
	return user, account
}

func (env *testEnv) createProduct(t *testing.T, sellerUserID uint, title, tags string) *model.Product {
	t.Helper()
	product, err := env.Product.CreateProduct(sellerUserID, ProductInput{
		Title:       title,
		Description: title + " description",
		Price:       10,
		Tags:        tags,
	})
	require.NoError(t, err)
	return product
}

func floatPtr(v float64) *float64 {
	return &v
}
