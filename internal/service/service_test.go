package service

import (
	"fmt"
	"strings"
	"testing"

	"go-stock-control/internal/model"
	"go-stock-control/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type noopNotifier struct{}

func (noopNotifier) NotifyLowStock(string, int, int)     {}
func (noopNotifier) NotifyStockChanged(string, int, int) {}

type testEnv struct {
	db           *gorm.DB
	productRepo  repository.ProductRepository
	supplierRepo repository.SupplierRepository
	stockRepo    repository.StockRepository
	ledgerRepo   repository.LedgerRepository
	orderRepo    repository.OrderRepository
	stock        StockService
	orders       OrderService
	catalog      CatalogService
	dashboard    DashboardService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	// A named shared in-memory database: every pooled connection sees
	// the same data, unlike a plain :memory: DSN.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.Product{},
		&model.Supplier{},
		&model.StockRecord{},
		&model.LedgerEntry{},
		&model.Order{},
		&model.OrderItem{},
	))

	env := &testEnv{
		db:           db,
		productRepo:  repository.NewProductRepo(db),
		supplierRepo: repository.NewSupplierRepo(db),
		stockRepo:    repository.NewStockRepo(db),
		ledgerRepo:   repository.NewLedgerRepo(db),
		orderRepo:    repository.NewOrderRepo(db),
	}
	env.stock = NewStockService(env.stockRepo, env.ledgerRepo, env.productRepo, db, noopNotifier{})
	env.orders = NewOrderService(env.orderRepo, env.supplierRepo, env.productRepo, env.stock, db)
	env.catalog = NewCatalogService(env.productRepo, env.supplierRepo)
	env.dashboard = NewDashboardService(env.productRepo, env.stockRepo, env.ledgerRepo)
	return env
}

func (env *testEnv) createProduct(t *testing.T, name string, cost, sale int64) *model.Product {
	t.Helper()
	product := &model.Product{Name: name, Unit: "unidad", CostPrice: cost, SalePrice: sale}
	require.NoError(t, env.catalog.CreateProduct(product))
	return product
}

func (env *testEnv) createSupplier(t *testing.T, name string) *model.Supplier {
	t.Helper()
	supplier := &model.Supplier{
		Name:  name,
		Email: strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@proveedores.cl",
	}
	require.NoError(t, env.catalog.CreateSupplier(supplier))
	return supplier
}

// addStock seeds on-hand stock through the regular ingress path.
func (env *testEnv) addStock(t *testing.T, product *model.Product, quantity int) *model.StockRecord {
	t.Helper()
	record, err := env.stock.RecordIngress(product.ID, quantity, "initial stock")
	require.NoError(t, err)
	return record
}

func (env *testEnv) getStock(t *testing.T, product *model.Product) *model.StockRecord {
	t.Helper()
	record, err := env.stock.GetStock(product.ID)
	require.NoError(t, err)
	return record
}
