package service

import (
	"testing"

	"mekarsari-pos/internal/model"
	"mekarsari-pos/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory sqlite store. A single connection keeps the
// in-memory database alive and serializes transactions the way the postgres
// row locks do in production.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Ingredient{},
		&model.Product{},
		&model.Recipe{},
		&model.SalesSession{},
		&model.Order{},
		&model.OrderItem{},
		&model.InventoryLog{},
		&model.OperationalExpense{},
	))
	return db
}

// fixture wires the whole service layer against one test database, with no
// websocket hub (broadcasts are skipped when the hub is nil).
type fixture struct {
	db *gorm.DB

	userRepo       repository.UserRepository
	ingredientRepo repository.IngredientRepository
	productRepo    repository.ProductRepository
	sessionRepo    repository.SessionRepository
	orderRepo      repository.OrderRepository
	expenseRepo    repository.ExpenseRepository

	inventory InventoryService
	shift     ShiftService
	orders    OrderService
	master    MasterService
	reports   ReportService
	users     UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)

	f := &fixture{
		db:             db,
		userRepo:       repository.NewUserRepo(db),
		ingredientRepo: repository.NewIngredientRepo(db),
		productRepo:    repository.NewProductRepo(db),
		sessionRepo:    repository.NewSessionRepo(db),
		orderRepo:      repository.NewOrderRepo(db),
		expenseRepo:    repository.NewExpenseRepo(db),
	}
	f.inventory = NewInventoryService(f.ingredientRepo, db, nil)
	f.shift = NewShiftService(f.sessionRepo, db)
	f.orders = NewOrderService(db, f.productRepo, f.orderRepo, f.sessionRepo, f.ingredientRepo, nil)
	f.master = NewMasterService(f.ingredientRepo, f.productRepo)
	f.reports = NewReportService(f.ingredientRepo, f.orderRepo, f.expenseRepo)
	f.users = NewUserService(f.userRepo)
	return f
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func (f *fixture) seedCashier(t *testing.T, username string) *model.User {
	t.Helper()
	user := &model.User{
		Username: username,
		FullName: "Kasir " + username,
		Role:     model.RoleCashier,
		IsActive: true,
	}
	require.NoError(t, user.SetPassword("rahasia"))
	require.NoError(t, f.userRepo.Create(user))
	return user
}

func (f *fixture) seedIngredient(t *testing.T, name, stock, avgCost string) *model.Ingredient {
	t.Helper()
	ing := &model.Ingredient{
		Name:           name,
		Unit:           "kg",
		PurchaseUnit:   "karung",
		ConversionRate: decimal.NewFromInt(25),
		CurrentStock:   dec(t, stock),
		AvgCost:        dec(t, avgCost),
	}
	require.NoError(t, f.ingredientRepo.Create(ing))
	return ing
}

// seedProduct creates a product with recipe lines, quantity per ingredient.
func (f *fixture) seedProduct(t *testing.T, name, price string, recipe map[*model.Ingredient]string) *model.Product {
	t.Helper()
	product := &model.Product{
		Name:     name,
		Price:    dec(t, price),
		Category: "kerupuk",
		IsActive: true,
	}
	require.NoError(t, f.productRepo.Create(product))

	for ing, qty := range recipe {
		line := &model.Recipe{
			ProductID:      product.ID,
			IngredientID:   ing.ID,
			QuantityNeeded: dec(t, qty),
		}
		require.NoError(t, f.productRepo.CreateRecipe(line))
	}
	return product
}

func (f *fixture) ingredientStock(t *testing.T, id interface{}) decimal.Decimal {
	t.Helper()
	var ing model.Ingredient
	require.NoError(t, f.db.First(&ing, "id = ?", id).Error)
	return ing.CurrentStock
}

func (f *fixture) countLogs(t *testing.T, changeType model.ChangeType) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&model.InventoryLog{}).
		Where("change_type = ?", changeType).Count(&n).Error)
	return n
}
