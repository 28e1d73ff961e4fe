package menu

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/foodhub/internal/domain"
	"github.com/Skotchmaster/foodhub/internal/models"
	"github.com/Skotchmaster/foodhub/internal/mykafka"
	"github.com/Skotchmaster/foodhub/internal/repo"
	"github.com/Skotchmaster/foodhub/internal/service/search"
	"github.com/Skotchmaster/foodhub/internal/transport"
	"github.com/Skotchmaster/foodhub/pkg/logging"
)

// MaxImageBytes caps inline menu images.
const MaxImageBytes = 2 << 20

type MenuService struct {
	Repo     *repo.GormRepo
	Index    search.Index
	Producer mykafka.Publisher
	Now      func() time.Time
}

func (s *MenuService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// GetRestaurant returns the owner's restaurant, creating the default one on first access.
func (s *MenuService) GetRestaurant(ctx context.Context, ownerID string) (*models.Restaurant, error) {
	return s.Repo.EnsureRestaurant(ctx, models.DefaultRestaurant(ownerID))
}

func (s *MenuService) UpdateRestaurant(ctx context.Context, ownerID string, req transport.PatchRestaurantRequest) (*models.Restaurant, error) {
	rest, err := s.GetRestaurant(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("%w: restaurant name is required", domain.ErrValidation)
		}
		rest.Name = strings.TrimSpace(*req.Name)
	}
	if req.MinOrder != nil {
		if *req.MinOrder < 0 {
			return nil, fmt.Errorf("%w: minimum order cannot be negative", domain.ErrValidation)
		}
		rest.MinOrder = *req.MinOrder
	}
	if req.Image != nil {
		if err := checkImage(*req.Image); err != nil {
			return nil, err
		}
		rest.Image = *req.Image
	}
	if req.Description != nil {
		rest.Description = *req.Description
	}
	if req.Cuisine != nil {
		rest.Cuisine = *req.Cuisine
	}
	if req.Address != nil {
		rest.Address = *req.Address
	}
	if req.Phone != nil {
		rest.Phone = *req.Phone
	}
	if req.DeliveryTime != nil {
		rest.DeliveryTime = *req.DeliveryTime
	}

	if err := s.Repo.SaveRestaurant(ctx, rest); err != nil {
		return nil, err
	}
	return rest, nil
}

func (s *MenuService) UpdateSettings(ctx context.Context, ownerID string, settings models.Settings) (*models.Restaurant, error) {
	if settings.TaxRate < 0 || settings.TaxRate > 100 || settings.CommissionRate < 0 || settings.CommissionRate > 100 {
		return nil, fmt.Errorf("%w: rates must be between 0 and 100", domain.ErrValidation)
	}
	if !validClock(settings.Hours.Open) || !validClock(settings.Hours.Close) {
		return nil, fmt.Errorf("%w: hours must be HH:MM", domain.ErrValidation)
	}
	rest, err := s.GetRestaurant(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	rest.Settings = settings
	if err := s.Repo.SaveRestaurant(ctx, rest); err != nil {
		return nil, err
	}
	return rest, nil
}

func (s *MenuService) ToggleOpen(ctx context.Context, ownerID string) (*models.Restaurant, error) {
	rest, err := s.GetRestaurant(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	rest.IsOpen = !rest.IsOpen
	if err := s.Repo.SaveRestaurant(ctx, rest); err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Info("restaurant_toggled", "restaurant_id", rest.ID, "is_open", rest.IsOpen)
	return rest, nil
}

func (s *MenuService) ListMenu(ctx context.Context, ownerID string) ([]models.MenuItem, error) {
	rest, err := s.GetRestaurant(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return s.Repo.ListMenu(ctx, rest.ID, false)
}

func (s *MenuService) AddMenuItem(ctx context.Context, ownerID string, req transport.CreateMenuItemRequest) (*models.MenuItem, error) {
	if err := validateItem(req.Name, req.Price, req.Image); err != nil {
		return nil, err
	}
	rest, err := s.GetRestaurant(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}
	item := &models.MenuItem{
		RestaurantID:    rest.ID,
		Name:            strings.TrimSpace(req.Name),
		Description:     req.Description,
		Price:           req.Price,
		Category:        req.Category,
		Image:           req.Image,
		IsVeg:           req.IsVeg,
		IsAvailable:     available,
		PreparationTime: req.PreparationTime,
		Calories:        req.Calories,
		Ingredients:     req.Ingredients,
		CreatedAt:       s.now().UTC(),
	}
	if err := s.Repo.CreateMenuItem(ctx, item); err != nil {
		return nil, err
	}
	s.afterChange(ctx, "menu_item_created", item)
	return item, nil
}

func (s *MenuService) UpdateMenuItem(ctx context.Context, ownerID, id string, req transport.PatchMenuItemRequest) (*models.MenuItem, error) {
	item, err := s.ownedItem(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	name, price, image := item.Name, item.Price, item.Image
	if req.Name != nil {
		name = *req.Name
	}
	if req.Price != nil {
		price = *req.Price
	}
	if req.Image != nil {
		image = *req.Image
	}
	if err := validateItem(name, price, image); err != nil {
		return nil, err
	}
	item.Name, item.Price, item.Image = strings.TrimSpace(name), price, image

	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.IsVeg != nil {
		item.IsVeg = *req.IsVeg
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}
	if req.PreparationTime != nil {
		item.PreparationTime = *req.PreparationTime
	}
	if req.Calories != nil {
		item.Calories = *req.Calories
	}
	if req.Ingredients != nil {
		item.Ingredients = *req.Ingredients
	}

	if err := s.Repo.SaveMenuItem(ctx, item); err != nil {
		return nil, err
	}
	s.afterChange(ctx, "menu_item_updated", item)
	return item, nil
}

func (s *MenuService) ToggleAvailability(ctx context.Context, ownerID, id string) (*models.MenuItem, error) {
	item, err := s.ownedItem(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	item.IsAvailable = !item.IsAvailable
	if err := s.Repo.SaveMenuItem(ctx, item); err != nil {
		return nil, err
	}
	s.afterChange(ctx, "menu_item_updated", item)
	return item, nil
}

func (s *MenuService) DeleteMenuItem(ctx context.Context, ownerID, id string) error {
	item, err := s.ownedItem(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if err := s.Repo.DeleteMenuItem(ctx, item.RestaurantID, item.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return domain.ErrNotFound
		}
		return err
	}
	if s.Index != nil {
		if err := s.Index.DeleteItem(ctx, item.ID); err != nil {
			logging.FromContext(ctx).Warn("menu_unindex_failed", "item_id", item.ID, "error", err)
		}
	}
	s.publish(ctx, "menu_item_deleted", item)
	return nil
}

func (s *MenuService) ownedItem(ctx context.Context, ownerID, id string) (*models.MenuItem, error) {
	rest, err := s.GetRestaurant(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	item, err := s.Repo.GetMenuItem(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if item.RestaurantID != rest.ID {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

func (s *MenuService) afterChange(ctx context.Context, typ string, item *models.MenuItem) {
	if s.Index != nil {
		if err := s.Index.IndexItem(ctx, *item); err != nil {
			logging.FromContext(ctx).Warn("menu_index_failed", "item_id", item.ID, "error", err)
		}
	}
	s.publish(ctx, typ, item)
}

func (s *MenuService) publish(ctx context.Context, typ string, item *models.MenuItem) {
	if s.Producer == nil {
		return
	}
	ev := mykafka.Event{Type: typ, OccurredAt: s.now().UTC(), Data: map[string]string{
		"item_id":       item.ID,
		"restaurant_id": item.RestaurantID,
	}}
	if err := s.Producer.PublishEvent(ctx, mykafka.TopicMenu, item.RestaurantID, ev); err != nil {
		logging.FromContext(ctx).Warn("publish_failed", "topic", mykafka.TopicMenu, "type", typ, "error", err)
	}
}

func validateItem(name string, price float64, image string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: item name is required", domain.ErrValidation)
	}
	if price <= 0 {
		return fmt.Errorf("%w: price must be greater than zero", domain.ErrValidation)
	}
	return checkImage(image)
}

// checkImage measures data URIs by their decoded payload and anything else by length.
func checkImage(image string) error {
	size := len(image)
	if strings.HasPrefix(image, "data:") {
		if _, payload, ok := strings.Cut(image, ";base64,"); ok {
			size = base64.StdEncoding.DecodedLen(len(payload))
		}
	}
	if size > MaxImageBytes {
		return fmt.Errorf("%w: image must be 2MB or smaller", domain.ErrValidation)
	}
	return nil
}

func validClock(v string) bool {
	_, err := time.Parse("15:04", v)
	return err == nil
}
