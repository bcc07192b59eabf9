package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/markethub-backend/internal/cart"
	"github.com/angelmondragon/markethub-backend/internal/orders"
	"github.com/angelmondragon/markethub-backend/internal/products"
	"github.com/angelmondragon/markethub-backend/pkg/db/models"
	"github.com/angelmondragon/markethub-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/markethub-backend/pkg/errors"
	"github.com/angelmondragon/markethub-backend/pkg/logger"
	"github.com/angelmondragon/markethub-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartLoader interface {
	ListLines(ctx context.Context, userID uuid.UUID) ([]cart.CartLine, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type orderWriter interface {
	CreateGroup(ctx context.Context, group *models.OrderGroup) error
	CreateOrder(ctx context.Context, order *models.Order) error
	CreateItems(ctx context.Context, items []models.OrderItem) error
}

type stockDecrementer interface {
	DecrementStock(ctx context.Context, productID uuid.UUID, qty int) (bool, error)
}

// CheckoutSummary is the result of one committed checkout call.
type CheckoutSummary struct {
	OrderGroup *orders.OrderGroupDTO `json:"order_group"`
	Orders     []orders.OrderDTO     `json:"orders"`
}

// Service turns a staged cart into one order group with one order per store.
type Service interface {
	Checkout(ctx context.Context, userID uuid.UUID, shippingAddress types.JSONObject) (*CheckoutSummary, error)
}

// ServiceParams bundles checkout dependencies. The factories default to
// tx-bound GORM repositories when nil.
type ServiceParams struct {
	TxRunner           txRunner
	Cart               cartLoader
	Logger             *logger.Logger
	OrderRepoFactory   func(tx *gorm.DB) orderWriter
	ProductRepoFactory func(tx *gorm.DB) stockDecrementer
	Now                func() time.Time
}

type service struct {
	tx             txRunner
	cart           cartLoader
	log            *logger.Logger
	orderFactory   func(tx *gorm.DB) orderWriter
	productFactory func(tx *gorm.DB) stockDecrementer
	now            func() time.Time
}

// NewService builds a checkout service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.TxRunner == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Cart == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.OrderRepoFactory == nil {
		params.OrderRepoFactory = func(tx *gorm.DB) orderWriter {
			return orders.NewRepository(tx)
		}
	}
	if params.ProductRepoFactory == nil {
		params.ProductRepoFactory = func(tx *gorm.DB) stockDecrementer {
			return products.NewRepository(tx)
		}
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &service{
		tx:             params.TxRunner,
		cart:           params.Cart,
		log:            params.Logger,
		orderFactory:   params.OrderRepoFactory,
		productFactory: params.ProductRepoFactory,
		now:            params.Now,
	}, nil
}

// storeCalculation is the per-store slice of the cart with its derived
// figures. Tax, discount, and shipping are zero in the core; the totals
// formula still carries them so downstream consumers see the full shape.
type storeCalculation struct {
	storeID     uuid.UUID
	lines       []cart.CartLine
	subtotal    decimal.Decimal
	tax         decimal.Decimal
	discount    decimal.Decimal
	shipping    decimal.Decimal
	totalAmount decimal.Decimal
}

func (s *service) Checkout(ctx context.Context, userID uuid.UUID, shippingAddress types.JSONObject) (*CheckoutSummary, error) {
	if len(shippingAddress) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping address is required")
	}

	lines, err := s.cart.ListLines(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "cart is empty")
	}

	calcs := prepareCalculations(lines)
	groupTotal := decimal.Zero
	for _, calc := range calcs {
		groupTotal = groupTotal.Add(calc.totalAmount)
	}

	now := s.now()
	group := &models.OrderGroup{
		UserID:        userID,
		GroupNumber:   groupNumber(now),
		TotalAmount:   groupTotal,
		PaymentStatus: enums.PaymentStatusPending,
	}

	var created []models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		orderRepo := s.orderFactory(tx)
		productRepo := s.productFactory(tx)

		if err := orderRepo.CreateGroup(ctx, group); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order group")
		}

		for _, calc := range calcs {
			order := &models.Order{
				OrderGroupID:    group.ID,
				UserID:          userID,
				StoreID:         calc.storeID,
				OrderNumber:     orderNumber(now),
				Status:          enums.OrderStatusPending,
				Subtotal:        calc.subtotal,
				Tax:             calc.tax,
				Discount:        calc.discount,
				ShippingCost:    calc.shipping,
				TotalAmount:     calc.totalAmount,
				ShippingAddress: shippingAddress,
			}
			if err := orderRepo.CreateOrder(ctx, order); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
			}

			items := make([]models.OrderItem, 0, len(calc.lines))
			for _, line := range calc.lines {
				items = append(items, models.OrderItem{
					OrderID:   order.ID,
					ProductID: line.ProductID,
					Quantity:  line.Quantity,
					UnitPrice: line.UnitPrice,
					Subtotal:  line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))),
				})

				ok, err := productRepo.DecrementStock(ctx, line.ProductID, line.Quantity)
				if err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decrement stock")
				}
				if !ok {
					return pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock")
				}
			}
			if err := orderRepo.CreateItems(ctx, items); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order items")
			}

			created = append(created, *order)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The clear runs outside the transaction: a failure here leaves stale
	// cart lines behind but never a half-committed checkout.
	if err := s.cart.Clear(ctx, userID); err != nil {
		s.log.Error(ctx, "clear cart after checkout", err)
	}

	summary := &CheckoutSummary{OrderGroup: orders.GroupFromModel(group)}
	for i := range created {
		summary.Orders = append(summary.Orders, *orders.OrderFromModel(&created[i]))
	}
	return summary, nil
}

// prepareCalculations groups cart lines by store, preserving first-seen
// store order, and derives per-store figures.
func prepareCalculations(lines []cart.CartLine) []storeCalculation {
	index := map[uuid.UUID]int{}
	var calcs []storeCalculation

	for _, line := range lines {
		i, ok := index[line.StoreID]
		if !ok {
			i = len(calcs)
			index[line.StoreID] = i
			calcs = append(calcs, storeCalculation{
				storeID:  line.StoreID,
				subtotal: decimal.Zero,
				tax:      decimal.Zero,
				discount: decimal.Zero,
				shipping: decimal.Zero,
			})
		}
		calcs[i].lines = append(calcs[i].lines, line)
		calcs[i].subtotal = calcs[i].subtotal.Add(
			line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	for i := range calcs {
		calcs[i].totalAmount = calcs[i].subtotal.
			Add(calcs[i].tax).
			Add(calcs[i].shipping).
			Sub(calcs[i].discount)
	}
	return calcs
}
