package customer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/foodhub/internal/domain"
	"github.com/Skotchmaster/foodhub/internal/kv"
	"github.com/Skotchmaster/foodhub/internal/models"
	"github.com/Skotchmaster/foodhub/internal/qr"
	"github.com/Skotchmaster/foodhub/internal/repo"
	"github.com/Skotchmaster/foodhub/internal/service/orders"
	"github.com/Skotchmaster/foodhub/internal/transport"
	"github.com/Skotchmaster/foodhub/internal/util"
	"github.com/Skotchmaster/foodhub/pkg/logging"
)

const (
	DeliveryETA = 45 * time.Minute
	EarningRate = 10.0
	maxSaved    = 10
)

var MinEarning = decimal.NewFromInt(3)

var PaymentMethods = map[string]bool{"cash": true, "card": true, "upi": true, "wallet": true}

type CustomerService struct {
	Repo      *repo.GormRepo
	Lifecycle *orders.OrderService
	KV        kv.Store
	PublicURL string
	Now       func() time.Time
}

func (s *CustomerService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *CustomerService) Restaurants(ctx context.Context) ([]models.Restaurant, error) {
	return s.Repo.ListOpenRestaurants(ctx)
}

func (s *CustomerService) Menu(ctx context.Context, restaurantID string) (*models.Restaurant, []models.MenuItem, error) {
	rest, err := s.Repo.GetRestaurant(ctx, restaurantID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, err
	}
	items, err := s.Repo.ListMenu(ctx, rest.ID, true)
	if err != nil {
		return nil, nil, err
	}
	return rest, items, nil
}

// EstimatedEarning is what the courier is promised: max(3, 10% of subtotal) plus the delivery fee.
func EstimatedEarning(subtotal, fee decimal.Decimal) decimal.Decimal {
	return decimal.Max(MinEarning, util.Percent(subtotal, EarningRate)).Add(fee).Round(2)
}

func (s *CustomerService) PlaceOrder(ctx context.Context, user *models.User, req transport.PlaceOrderRequest) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "customer.place_order", "user_id", user.ID)

	method := strings.ToLower(strings.TrimSpace(req.PaymentMethod))
	if !PaymentMethods[method] {
		return nil, fmt.Errorf("%w: unsupported payment method %q", domain.ErrValidation, req.PaymentMethod)
	}
	if strings.TrimSpace(req.Address.Line) == "" {
		return nil, fmt.Errorf("%w: delivery address is required", domain.ErrValidation)
	}

	cart, err := s.loadCart(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, domain.ErrEmptyCart
	}
	rest, err := s.Repo.GetRestaurant(ctx, cart.RestaurantID())
	if err != nil {
		return nil, err
	}
	if !rest.IsOpen {
		return nil, fmt.Errorf("%w: %s is closed", domain.ErrUnavailable, rest.Name)
	}

	t := computeTotals(cart.Items)
	if t.subtotal.LessThan(decimal.NewFromFloat(rest.MinOrder)) {
		return nil, fmt.Errorf("%w: minimum order is %.2f", domain.ErrValidation, rest.MinOrder)
	}

	now := s.now().UTC()
	items := make([]models.OrderItem, 0, len(cart.Items))
	for _, it := range cart.Items {
		items = append(items, models.OrderItem{MenuItemID: it.MenuItemID, Name: it.Name, Quantity: it.Quantity, Price: it.Price})
	}
	order := &models.Order{
		RestaurantID:      rest.ID,
		UserID:            user.ID,
		Items:             items,
		Status:            models.StatusPending,
		Subtotal:          t.subtotal.InexactFloat64(),
		DeliveryFee:       t.fee.InexactFloat64(),
		Tax:               t.tax.InexactFloat64(),
		TotalAmount:       t.total.InexactFloat64(),
		CustomerName:      user.Name,
		CustomerPhone:     user.Phone,
		DeliveryAddress:   formatAddress(req.Address),
		PaymentMethod:     method,
		EstimatedEarning:  EstimatedEarning(t.subtotal, t.fee).InexactFloat64(),
		EstimatedDelivery: now.Add(DeliveryETA),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.Repo.CreateOrder(ctx, order); err != nil {
		l.Error("place_order_failed", "status", 500, "reason", "cannot store order", "error", err)
		return nil, err
	}

	if _, err := s.ClearCart(ctx, user.ID); err != nil {
		l.Warn("cart_clear_failed", "order_id", order.ID, "error", err)
	}
	if _, err := s.SetCurrentAddress(ctx, user.ID, req.Address); err != nil {
		l.Warn("address_save_failed", "order_id", order.ID, "error", err)
	}

	l.Info("order_placed", "order_id", order.ID, "total", order.TotalAmount)
	s.Lifecycle.Publish(ctx, orders.EventPlaced, order.ID, map[string]string{
		"order_id":      order.ID,
		"restaurant_id": order.RestaurantID,
		"status":        string(order.Status),
	})
	return order, nil
}

func (s *CustomerService) Orders(ctx context.Context, userID string, page, size int) ([]models.Order, util.PageMeta, error) {
	offset, limit := util.Calculate(page, size)
	total, list, err := s.Repo.ListUserOrders(ctx, userID, offset, limit)
	if err != nil {
		return nil, util.PageMeta{}, err
	}
	return list, util.Meta(page, offset, limit, total), nil
}

// ActiveOrder is the newest order still in progress, or nil.
func (s *CustomerService) ActiveOrder(ctx context.Context, userID string) (*models.Order, error) {
	o, err := s.Repo.LatestOpenUserOrder(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil
	}
	return o, err
}

func (s *CustomerService) Order(ctx context.Context, userID, orderID string) (*models.Order, error) {
	o, err := s.Lifecycle.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

func (s *CustomerService) OrderQR(ctx context.Context, userID, orderID string) ([]byte, error) {
	o, err := s.Order(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	return qr.TrackingPNG(s.PublicURL, o.ID, qr.DefaultSize)
}

func (s *CustomerService) Addresses(ctx context.Context, userID string) (models.AddressBook, error) {
	return kv.Load(ctx, s.KV, kv.AddressesKey(userID), func() models.AddressBook {
		return models.AddressBook{Saved: []models.Address{}}
	})
}

// SaveAddress adds a to the saved list, replacing an entry with the same label.
func (s *CustomerService) SaveAddress(ctx context.Context, userID string, a models.Address) (models.AddressBook, error) {
	if err := validateAddress(a); err != nil {
		return models.AddressBook{}, err
	}
	book, err := s.Addresses(ctx, userID)
	if err != nil {
		return book, err
	}
	replaced := false
	for i := range book.Saved {
		if a.Label != "" && strings.EqualFold(book.Saved[i].Label, a.Label) {
			book.Saved[i] = a
			replaced = true
			break
		}
	}
	if !replaced {
		book.Saved = append([]models.Address{a}, book.Saved...)
		if len(book.Saved) > maxSaved {
			book.Saved = book.Saved[:maxSaved]
		}
	}
	return book, kv.Save(ctx, s.KV, kv.AddressesKey(userID), book, 0)
}

func (s *CustomerService) SetCurrentAddress(ctx context.Context, userID string, a models.Address) (models.AddressBook, error) {
	if err := validateAddress(a); err != nil {
		return models.AddressBook{}, err
	}
	book, err := s.Addresses(ctx, userID)
	if err != nil {
		return book, err
	}
	book.Current = &a
	return book, kv.Save(ctx, s.KV, kv.AddressesKey(userID), book, 0)
}

func validateAddress(a models.Address) error {
	if strings.TrimSpace(a.Line) == "" {
		return fmt.Errorf("%w: address line is required", domain.ErrValidation)
	}
	if (a.Lat != nil && (*a.Lat < -90 || *a.Lat > 90)) || (a.Lng != nil && (*a.Lng < -180 || *a.Lng > 180)) {
		return fmt.Errorf("%w: coordinates out of range", domain.ErrValidation)
	}
	return nil
}

func formatAddress(a models.Address) string {
	parts := []string{strings.TrimSpace(a.Line)}
	if c := strings.TrimSpace(a.City); c != "" {
		parts = append(parts, c)
	}
	return strings.Join(parts, ", ")
}
