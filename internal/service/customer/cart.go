package customer

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/foodhub/internal/domain"
	"github.com/Skotchmaster/foodhub/internal/kv"
	"github.com/Skotchmaster/foodhub/internal/models"
	"github.com/Skotchmaster/foodhub/internal/repo"
	"github.com/Skotchmaster/foodhub/internal/util"
)

var (
	FreeDeliveryThreshold = decimal.NewFromInt(50)
	FlatDeliveryFee       = decimal.RequireFromString("2.99")
)

const TaxRate = 8.0

type CartView struct {
	RestaurantID string            `json:"restaurant_id,omitempty"`
	Items        []models.CartItem `json:"items"`
	Subtotal     float64           `json:"subtotal"`
	DeliveryFee  float64           `json:"delivery_fee"`
	Tax          float64           `json:"tax"`
	Total        float64           `json:"total"`
}

type totals struct {
	subtotal, fee, tax, total decimal.Decimal
}

func computeTotals(items []models.CartItem) totals {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(util.LineTotal(it.Price, it.Quantity))
	}
	subtotal = subtotal.Round(2)

	fee := decimal.Zero
	if len(items) > 0 && subtotal.LessThan(FreeDeliveryThreshold) {
		fee = FlatDeliveryFee
	}
	tax := util.Percent(subtotal, TaxRate)
	return totals{subtotal: subtotal, fee: fee, tax: tax, total: subtotal.Add(fee).Add(tax).Round(2)}
}

func view(c models.Cart) CartView {
	t := computeTotals(c.Items)
	items := c.Items
	if items == nil {
		items = []models.CartItem{}
	}
	return CartView{
		RestaurantID: c.RestaurantID(),
		Items:        items,
		Subtotal:     t.subtotal.InexactFloat64(),
		DeliveryFee:  t.fee.InexactFloat64(),
		Tax:          t.tax.InexactFloat64(),
		Total:        t.total.InexactFloat64(),
	}
}

func (s *CustomerService) loadCart(ctx context.Context, userID string) (models.Cart, error) {
	return kv.Load(ctx, s.KV, kv.CartKey(userID), func() models.Cart { return models.Cart{} })
}

func (s *CustomerService) saveCart(ctx context.Context, userID string, c models.Cart) (CartView, error) {
	if len(c.Items) == 0 {
		if err := s.KV.Delete(ctx, kv.CartKey(userID)); err != nil {
			return CartView{}, err
		}
		return view(c), nil
	}
	if err := kv.Save(ctx, s.KV, kv.CartKey(userID), c, 0); err != nil {
		return CartView{}, err
	}
	return view(c), nil
}

func (s *CustomerService) Cart(ctx context.Context, userID string) (CartView, error) {
	c, err := s.loadCart(ctx, userID)
	if err != nil {
		return CartView{}, err
	}
	return view(c), nil
}

// AddToCart adds one unit of a live menu item. A cart holds one restaurant at a
// time: items from another restaurant fail with ErrCartConflict unless replace
// is set, which empties the cart first.
func (s *CustomerService) AddToCart(ctx context.Context, userID, menuItemID string, replace bool) (CartView, error) {
	item, err := s.Repo.GetMenuItem(ctx, menuItemID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return CartView{}, domain.ErrNotFound
		}
		return CartView{}, err
	}
	rest, err := s.Repo.GetRestaurant(ctx, item.RestaurantID)
	if err != nil {
		return CartView{}, err
	}
	if !item.IsAvailable || !rest.IsOpen {
		return CartView{}, fmt.Errorf("%w: %s cannot be ordered right now", domain.ErrUnavailable, item.Name)
	}

	c, err := s.loadCart(ctx, userID)
	if err != nil {
		return CartView{}, err
	}
	if current := c.RestaurantID(); current != "" && current != item.RestaurantID {
		if !replace {
			return CartView{}, domain.ErrCartConflict
		}
		c.Items = nil
	}

	if i := c.Find(item.ID); i >= 0 {
		c.Items[i].Quantity++
	} else {
		c.Items = append(c.Items, models.CartItem{
			MenuItemID:     item.ID,
			Name:           item.Name,
			Quantity:       1,
			Price:          item.Price,
			RestaurantID:   rest.ID,
			RestaurantName: rest.Name,
			Image:          item.Image,
		})
	}
	return s.saveCart(ctx, userID, c)
}

// UpdateCartQuantity sets a line's quantity; zero or less removes it.
func (s *CustomerService) UpdateCartQuantity(ctx context.Context, userID, menuItemID string, qty int) (CartView, error) {
	c, err := s.loadCart(ctx, userID)
	if err != nil {
		return CartView{}, err
	}
	i := c.Find(menuItemID)
	if i < 0 {
		return CartView{}, domain.ErrNotFound
	}
	if qty <= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	} else {
		c.Items[i].Quantity = qty
	}
	return s.saveCart(ctx, userID, c)
}

func (s *CustomerService) RemoveFromCart(ctx context.Context, userID, menuItemID string) (CartView, error) {
	return s.UpdateCartQuantity(ctx, userID, menuItemID, 0)
}

func (s *CustomerService) ClearCart(ctx context.Context, userID string) (CartView, error) {
	return s.saveCart(ctx, userID, models.Cart{})
}
