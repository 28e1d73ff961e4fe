package customer

import (
	"context"
	"fmt"
	"net/url"

	"github.com/Skotchmaster/foodhub/internal/kv"
	"github.com/Skotchmaster/foodhub/internal/models"
	"github.com/Skotchmaster/foodhub/pkg/logging"
)

// Fallback map centre when neither courier nor address has coordinates.
const (
	defaultLat = 12.9716
	defaultLng = 77.5946
	mapSpan    = 0.01
)

type Step struct {
	Stage   models.CustomerStage `json:"stage"`
	Done    bool                 `json:"done"`
	Current bool                 `json:"current"`
}

type CourierLocation struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Phone string  `json:"phone"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
}

type Tracking struct {
	Order   *models.Order        `json:"order"`
	Stage   models.CustomerStage `json:"stage"`
	Steps   []Step               `json:"steps"`
	Courier *CourierLocation     `json:"courier,omitempty"`
	MapURL  string               `json:"map_url"`
	QRURL   string               `json:"qr_url"`
}

// Steps lays the customer progression out for status; cancelled orders show no progress.
func Steps(status models.OrderStatus) []Step {
	stage := status.CustomerStage()
	steps := make([]Step, len(models.CustomerStages))
	reached := stage != models.StageCancelled
	for i, st := range models.CustomerStages {
		steps[i] = Step{Stage: st, Done: reached, Current: st == stage}
		if st == stage {
			reached = false
		}
	}
	return steps
}

func (s *CustomerService) Track(ctx context.Context, userID, orderID string) (*Tracking, error) {
	o, err := s.Order(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}

	t := &Tracking{
		Order: o,
		Stage: o.Status.CustomerStage(),
		Steps: Steps(o.Status),
		QRURL: fmt.Sprintf("/api/v1/user/orders/%s/qr", o.ID),
	}

	lat, lng := defaultLat, defaultLng
	if book, err := s.Addresses(ctx, userID); err == nil && book.Current != nil && book.Current.Lat != nil && book.Current.Lng != nil {
		lat, lng = *book.Current.Lat, *book.Current.Lng
	}

	if o.DeliveryBoyID != nil && o.Status.InTransit() {
		if c, err := s.Repo.GetCourier(ctx, *o.DeliveryBoyID); err == nil {
			loc := &CourierLocation{ID: c.ID, Name: c.Name, Phone: c.Phone}
			p, err := kv.Load(ctx, s.KV, kv.CourierKey(c.ID), func() models.CourierProfile { return models.CourierProfile{} })
			if err != nil {
				logging.FromContext(ctx).Warn("courier_profile_unavailable", "courier_id", c.ID, "error", err)
			}
			if !p.UpdatedAt.IsZero() {
				loc.Lat, loc.Lng = p.Lat, p.Lng
				lat, lng = p.Lat, p.Lng
			}
			t.Courier = loc
		}
	}

	t.MapURL = MapEmbedURL(lat, lng)
	return t, nil
}

// MapEmbedURL is a decorative OpenStreetMap embed centred on lat/lng.
func MapEmbedURL(lat, lng float64) string {
	q := url.Values{}
	q.Set("bbox", fmt.Sprintf("%.5f,%.5f,%.5f,%.5f", lng-mapSpan, lat-mapSpan, lng+mapSpan, lat+mapSpan))
	q.Set("layer", "mapnik")
	q.Set("marker", fmt.Sprintf("%.5f,%.5f", lat, lng))
	return "https://www.openstreetmap.org/export/embed.html?" + q.Encode()
}
