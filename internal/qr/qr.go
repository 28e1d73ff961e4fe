package qr

import (
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

const DefaultSize = 256

// TrackingURL is the customer tracking page an order QR points at.
func TrackingURL(publicURL, orderID string) string {
	return fmt.Sprintf("%s/api/v1/user/orders/%s/track", strings.TrimRight(publicURL, "/"), orderID)
}

// TrackingPNG renders the tracking link of an order as a PNG.
func TrackingPNG(publicURL, orderID string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultSize
	}
	png, err := qrcode.Encode(TrackingURL(publicURL, orderID), qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("qr encode: %w", err)
	}
	return png, nil
}
