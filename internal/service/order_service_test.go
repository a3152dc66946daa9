package service

import (
	"errors"
	"strings"
	"testing"

	"mekarsari-pos/internal/model"
	"mekarsari-pos/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// orderFixture seeds the standard shop: a cashier with an open shift, two
// ingredients and a kerupuk product whose recipe uses both.
type orderFixture struct {
	*fixture
	kasir   *model.User
	tepung  *model.Ingredient
	minyak  *model.Ingredient
	kerupuk *model.Product
	teh     *model.Product // no recipe
}

func newOrderFixture(t *testing.T) *orderFixture {
	f := newFixture(t)
	of := &orderFixture{fixture: f}
	of.kasir = f.seedCashier(t, "sari")
	of.tepung = f.seedIngredient(t, "Tepung Tapioka", "100", "500")
	of.minyak = f.seedIngredient(t, "Minyak Goreng", "50", "2000")
	of.kerupuk = f.seedProduct(t, "Kerupuk Bawang", "5000", map[*model.Ingredient]string{
		of.tepung: "2",
		of.minyak: "0.5",
	})
	of.teh = f.seedProduct(t, "Teh Botol", "3000", nil)

	_, err := f.shift.OpenShift(of.kasir.ID, dec(t, "100000"))
	require.NoError(t, err)
	return of
}

func TestCreateOrder(t *testing.T) {
	of := newOrderFixture(t)

	result, err := of.orders.CreateOrder(of.kasir.ID, &CreateOrderRequest{
		Items:         []CartLine{{ProductID: of.kerupuk.ID, Quantity: 3}},
		PaymentMethod: model.PayCash,
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(result.InvoiceNo, "INV-"))
	assert.True(t, result.TotalAmount.Equal(dec(t, "15000")), "total = %s", result.TotalAmount)
	assert.Empty(t, result.Notes)

	// Stock deducted per recipe: 3*2 tepung, 3*0.5 minyak
	assert.True(t, of.ingredientStock(t, of.tepung.ID).Equal(dec(t, "94")))
	assert.True(t, of.ingredientStock(t, of.minyak.ID).Equal(dec(t, "48.5")))
	assert.EqualValues(t, 2, of.countLogs(t, model.ChangeProduction))

	// Per-unit COGS snapshot: 2*500 + 0.5*2000 = 2000
	order, err := of.orderRepo.FindByInvoice(result.InvoiceNo)
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.True(t, order.Items[0].PriceAtSale.Equal(dec(t, "5000")))
	assert.True(t, order.Items[0].CogsAtSale.Equal(dec(t, "2000")), "cogs = %s", order.Items[0].CogsAtSale)
	assert.Equal(t, "Pelanggan Umum", order.CustomerName)

	// Cash sale credited the shift immediately
	session, err := of.shift.ActiveSession(of.kasir.ID)
	require.NoError(t, err)
	assert.True(t, session.TotalSystem.Equal(dec(t, "15000")))
}

func TestCreateOrderInsufficientStockRollsBack(t *testing.T) {
	of := newOrderFixture(t)

	// 200 pieces need 100 minyak, only 50 on hand. Tepung (400) also short,
	// but either way the whole order must roll back.
	_, err := of.orders.CreateOrder(of.kasir.ID, &CreateOrderRequest{
		Items:         []CartLine{{ProductID: of.kerupuk.ID, Quantity: 200}},
		PaymentMethod: model.PayCash,
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindInsufficientStock))

	appErr, _ := apperr.As(err)
	require.NotNil(t, appErr.Shortage)
	assert.NotEmpty(t, appErr.Shortage.Ingredient)

	// Nothing moved, nothing logged, nothing stored
	assert.True(t, of.ingredientStock(t, of.tepung.ID).Equal(dec(t, "100")))
	assert.True(t, of.ingredientStock(t, of.minyak.ID).Equal(dec(t, "50")))
	assert.EqualValues(t, 0, of.countLogs(t, model.ChangeProduction))

	var orderCount int64
	require.NoError(t, of.db.Model(&model.Order{}).Count(&orderCount).Error)
	assert.EqualValues(t, 0, orderCount)

	session, err := of.shift.ActiveSession(of.kasir.ID)
	require.NoError(t, err)
	assert.True(t, session.TotalSystem.IsZero())
}

func TestCreateOrderRequiresOpenShift(t *testing.T) {
	f := newFixture(t)
	kasir := f.seedCashier(t, "sari")
	teh := f.seedProduct(t, "Teh Botol", "3000", nil)

	_, err := f.orders.CreateOrder(kasir.ID, &CreateOrderRequest{
		Items: []CartLine{{ProductID: teh.ID, Quantity: 1}},
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindState))

	appErr, _ := apperr.As(err)
	assert.Equal(t, 403, appErr.HTTPStatus())
}

func TestCreateOrderValidation(t *testing.T) {
	of := newOrderFixture(t)

	_, err := of.orders.CreateOrder(of.kasir.ID, &CreateOrderRequest{})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = of.orders.CreateOrder(of.kasir.ID, &CreateOrderRequest{
		Items: []CartLine{{ProductID: of.kerupuk.ID, Quantity: 0}},
	})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = of.orders.CreateOrder(of.kasir.ID, &CreateOrderRequest{
		Items:         []CartLine{{ProductID: of.kerupuk.ID, Quantity: 1}},
		PaymentMethod: "cek",
	})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestCreateOrderProductWithoutRecipe(t *testing.T) {
	of := newOrderFixture(t)

	result, err := of.orders.CreateOrder(of.kasir.ID, &CreateOrderRequest{
		Items:         []CartLine{{ProductID: of.teh.ID, Quantity: 2}},
		PaymentMethod: model.PayQris,
	})
	require.NoError(t, err)

	// Sold, noted, zero COGS, no stock movement
	assert.True(t, result.TotalAmount.Equal(dec(t, "6000")))
	require.Len(t, result.Notes, 1)
	assert.Contains(t, result.Notes[0], "no recipe")
	assert.EqualValues(t, 0, of.countLogs(t, model.ChangeProduction))

	order, err := of.orderRepo.FindByInvoice(result.InvoiceNo)
	require.NoError(t, err)
	assert.True(t, order.Items[0].CogsAtSale.IsZero())
}

func TestSettlePendingOrder(t *testing.T) {
	of := newOrderFixture(t)

	result, err := of.orders.CreateOrder(of.kasir.ID, &CreateOrderRequest{
		Items:         []CartLine{{ProductID: of.kerupuk.ID, Quantity: 2}},
		PaymentMethod: model.PayPending,
	})
	require.NoError(t, err)

	// Pending orders deduct stock but do not credit the shift
	assert.True(t, of.ingredientStock(t, of.tepung.ID).Equal(dec(t, "96")))
	session, err := of.shift.ActiveSession(of.kasir.ID)
	require.NoError(t, err)
	assert.True(t, session.TotalSystem.IsZero())

	order, err := of.orders.SettlePendingOrder(of.kasir.ID, result.InvoiceNo, model.PayTransfer)
	require.NoError(t, err)
	assert.Equal(t, model.PayTransfer, order.PaymentMethod)

	session, err = of.shift.ActiveSession(of.kasir.ID)
	require.NoError(t, err)
	assert.True(t, session.TotalSystem.Equal(dec(t, "10000")))

	// Settling twice is a state error, and the shift is credited only once
	_, err = of.orders.SettlePendingOrder(of.kasir.ID, result.InvoiceNo, model.PayCash)
	assert.True(t, apperr.IsKind(err, apperr.KindState))

	session, err = of.shift.ActiveSession(of.kasir.ID)
	require.NoError(t, err)
	assert.True(t, session.TotalSystem.Equal(dec(t, "10000")))

	// "pending" is not a settlement method
	_, err = of.orders.SettlePendingOrder(of.kasir.ID, result.InvoiceNo, model.PayPending)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestVoidOrder(t *testing.T) {
	of := newOrderFixture(t)

	result, err := of.orders.CreateOrder(of.kasir.ID, &CreateOrderRequest{
		Items:         []CartLine{{ProductID: of.kerupuk.ID, Quantity: 3}},
		PaymentMethod: model.PayCash,
	})
	require.NoError(t, err)

	require.NoError(t, of.orders.VoidOrder(of.kasir.ID, result.InvoiceNo))

	// Stock restored via compensating adjustment entries, not by deleting logs
	assert.True(t, of.ingredientStock(t, of.tepung.ID).Equal(dec(t, "100")))
	assert.True(t, of.ingredientStock(t, of.minyak.ID).Equal(dec(t, "50")))
	assert.EqualValues(t, 2, of.countLogs(t, model.ChangeProduction))
	assert.EqualValues(t, 2, of.countLogs(t, model.ChangeAdjustment))

	// Settlement reversed
	session, err := of.shift.ActiveSession(of.kasir.ID)
	require.NoError(t, err)
	assert.True(t, session.TotalSystem.IsZero())

	// Order stays, cancelled
	order, err := of.orderRepo.FindByInvoice(result.InvoiceNo)
	require.NoError(t, err)
	assert.Equal(t, model.OrderCancelled, order.Status)

	// Voiding twice is a state error
	err = of.orders.VoidOrder(of.kasir.ID, result.InvoiceNo)
	assert.True(t, apperr.IsKind(err, apperr.KindState))
}

func TestVoidPendingOrderSkipsSettlementReversal(t *testing.T) {
	of := newOrderFixture(t)

	result, err := of.orders.CreateOrder(of.kasir.ID, &CreateOrderRequest{
		Items:         []CartLine{{ProductID: of.kerupuk.ID, Quantity: 1}},
		PaymentMethod: model.PayPending,
	})
	require.NoError(t, err)

	require.NoError(t, of.orders.VoidOrder(of.kasir.ID, result.InvoiceNo))

	// Never credited, so the total must not go negative
	session, err := of.shift.ActiveSession(of.kasir.ID)
	require.NoError(t, err)
	assert.True(t, session.TotalSystem.IsZero())
	assert.True(t, of.ingredientStock(t, of.tepung.ID).Equal(dec(t, "100")))
}

func TestDeleteOrderAfterVoidDoesNotRestoreTwice(t *testing.T) {
	of := newOrderFixture(t)

	result, err := of.orders.CreateOrder(of.kasir.ID, &CreateOrderRequest{
		Items:         []CartLine{{ProductID: of.kerupuk.ID, Quantity: 3}},
		PaymentMethod: model.PayCash,
	})
	require.NoError(t, err)

	require.NoError(t, of.orders.VoidOrder(of.kasir.ID, result.InvoiceNo))
	require.NoError(t, of.orders.DeleteOrderPermanently(of.kasir.ID, result.InvoiceNo))

	// Void already restored; delete must not add stock again
	assert.True(t, of.ingredientStock(t, of.tepung.ID).Equal(dec(t, "100")))
	assert.True(t, of.ingredientStock(t, of.minyak.ID).Equal(dec(t, "50")))

	// Order and items are gone
	_, err = of.orderRepo.FindByInvoice(result.InvoiceNo)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	var itemCount int64
	require.NoError(t, of.db.Unscoped().Model(&model.OrderItem{}).Count(&itemCount).Error)
	assert.EqualValues(t, 0, itemCount)

	// The inventory ledger survives the hard delete
	assert.EqualValues(t, 2, of.countLogs(t, model.ChangeProduction))
	assert.EqualValues(t, 2, of.countLogs(t, model.ChangeAdjustment))
}

func TestDeleteSettledOrderRestoresAndReverses(t *testing.T) {
	of := newOrderFixture(t)

	result, err := of.orders.CreateOrder(of.kasir.ID, &CreateOrderRequest{
		Items:         []CartLine{{ProductID: of.kerupuk.ID, Quantity: 2}},
		PaymentMethod: model.PayCash,
	})
	require.NoError(t, err)

	require.NoError(t, of.orders.DeleteOrderPermanently(of.kasir.ID, result.InvoiceNo))

	assert.True(t, of.ingredientStock(t, of.tepung.ID).Equal(dec(t, "100")))
	session, err := of.shift.ActiveSession(of.kasir.ID)
	require.NoError(t, err)
	assert.True(t, session.TotalSystem.IsZero())
}

func TestGetReceipt(t *testing.T) {
	of := newOrderFixture(t)

	result, err := of.orders.CreateOrder(of.kasir.ID, &CreateOrderRequest{
		Items:         []CartLine{{ProductID: of.kerupuk.ID, Quantity: 2}},
		PaymentMethod: model.PayCash,
		CustomerName:  "Bu Rina",
	})
	require.NoError(t, err)

	receipt, err := of.orders.GetReceipt(result.InvoiceNo)
	require.NoError(t, err)

	assert.Equal(t, "Kerupuk Mekar Sari", receipt.StoreName)
	assert.Equal(t, "sari", receipt.Cashier)
	assert.Equal(t, "Bu Rina", receipt.Customer)
	require.Len(t, receipt.Items, 1)
	assert.Equal(t, "Kerupuk Bawang", receipt.Items[0].Product)
	assert.True(t, receipt.Items[0].Subtotal.Equal(dec(t, "10000")))
	assert.True(t, receipt.Total.Equal(dec(t, "10000")))

	_, err = of.orders.GetReceipt("INV-00000000-000000-XXXX")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestProductionQueue(t *testing.T) {
	of := newOrderFixture(t)

	first, err := of.orders.CreateOrder(of.kasir.ID, &CreateOrderRequest{
		Items:         []CartLine{{ProductID: of.kerupuk.ID, Quantity: 3}},
		PaymentMethod: model.PayCash,
	})
	require.NoError(t, err)

	second, err := of.orders.CreateOrder(of.kasir.ID, &CreateOrderRequest{
		Items:         []CartLine{{ProductID: of.kerupuk.ID, Quantity: 2}},
		PaymentMethod: model.PayCash,
	})
	require.NoError(t, err)

	queue, err := of.orders.ProductionQueue()
	require.NoError(t, err)

	task := queue.Tasks["Kerupuk Bawang"]
	assert.Equal(t, 5, task.TotalQty)
	assert.Len(t, task.Orders, 2)

	// Voided orders drop off the queue
	require.NoError(t, of.orders.VoidOrder(of.kasir.ID, second.InvoiceNo))
	queue, err = of.orders.ProductionQueue()
	require.NoError(t, err)

	task = queue.Tasks["Kerupuk Bawang"]
	assert.Equal(t, 3, task.TotalQty)
	assert.Equal(t, []string{first.InvoiceNo}, task.Orders)
}

func TestInvoiceNumbersAreUnique(t *testing.T) {
	of := newOrderFixture(t)

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		result, err := of.orders.CreateOrder(of.kasir.ID, &CreateOrderRequest{
			Items:         []CartLine{{ProductID: of.teh.ID, Quantity: 1}},
			PaymentMethod: model.PayCash,
		})
		require.NoError(t, err)
		assert.False(t, seen[result.InvoiceNo], "duplicate invoice %s", result.InvoiceNo)
		seen[result.InvoiceNo] = true
	}
}
