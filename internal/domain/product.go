package domain

import (
	"strings"
	"time"
)

type Product struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	PriceCents int64     `json:"priceCents"`
	Digital    bool      `json:"digital"`
	ImagePath  string    `json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ImageURL resolves the public URL of the product image against the media
// host. Products without an image resolve to an empty string.
func (p Product) ImageURL(host string) string {
	if p.ImagePath == "" {
		return ""
	}
	return strings.TrimSuffix(host, "/") + "/media/" + p.ImagePath
}
