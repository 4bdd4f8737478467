// Package assets builds deterministic placeholder-image descriptors for the
// storefront. The same (name, category, index) always yields the same URLs,
// so seeded catalog rows stay stable across restarts.
package assets

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

type Image struct {
	PrimaryURL  string `json:"primary_url"`
	FallbackURL string `json:"fallback_url"`
	AltText     string `json:"alt_text"`
	Title       string `json:"title"`
}

var categoryKeywords = map[string][]string{
	"hero":    {"casio", "watches", "timepiece", "luxury", "precision"},
	"gshock":  {"gshock", "tough", "military", "sports", "rugged"},
	"edifice": {"luxury", "chronograph", "business", "sophisticated", "steel"},
	"protrek": {"outdoor", "hiking", "adventure", "compass", "altimeter"},
	"babyg":   {"fashion", "colorful", "women", "style", "trendy"},
	"classic": {"retro", "digital", "calculator", "vintage", "classic"},
}

func keywordsFor(category string) []string {
	key := strings.ToLower(strings.NewReplacer("-", "", " ", "").Replace(category))
	if kw, ok := categoryKeywords[key]; ok {
		return kw
	}
	return []string{"watch", "timepiece", "casio"}
}

// seed hashes a key into a small stable integer for image query parameters.
func seed(key string) int {
	sum := md5.Sum([]byte(key))
	n, _ := strconv.ParseUint(hex.EncodeToString(sum[:])[:8], 16, 64)
	return int(n % 10000)
}

func unsplash(size, keyword string, sig int) string {
	return fmt.Sprintf("https://source.unsplash.com/%s/?%s&sig=%d", size, url.QueryEscape(keyword), sig)
}

func picsum(size string, sig int) string {
	return fmt.Sprintf("https://picsum.photos/%s?random=%d", strings.Replace(size, "x", "/", 1), sig)
}

// HeroImages returns banner images for the home page.
func HeroImages(count int) []Image {
	kw := categoryKeywords["hero"]
	out := make([]Image, 0, count)
	for i := 0; i < count; i++ {
		k := kw[i%len(kw)]
		s := seed(fmt.Sprintf("hero_%s_%d", k, i))
		out = append(out, Image{
			PrimaryURL:  unsplash("1200x600", k, s),
			FallbackURL: picsum("1200x600", s),
			AltText:     fmt.Sprintf("Casio %s Collection", strings.Title(k)),
			Title:       fmt.Sprintf("Discover Casio %s", strings.Title(k)),
		})
	}
	return out
}

// CategoryImage returns the tile image for a product category.
func CategoryImage(name string) Image {
	keyword := keywordsFor(name)[0]
	s := seed("category_" + name)
	return Image{
		PrimaryURL:  unsplash("400x300", keyword, s),
		FallbackURL: picsum("400x300", s),
		AltText:     name + " Watches",
		Title:       name + " Collection",
	}
}

// ProductImages returns a gallery for a product; index 0 is the primary shot.
func ProductImages(name, category string, count int) []Image {
	kw := keywordsFor(category)
	out := make([]Image, 0, count)
	for i := 0; i < count; i++ {
		k := kw[i%len(kw)]
		s := seed(fmt.Sprintf("product_%s_%s_%d", name, k, i))
		size := "400x400"
		if i == 0 {
			size = "500x500"
		}
		out = append(out, Image{
			PrimaryURL:  unsplash(size, k, s),
			FallbackURL: picsum(size, s),
			AltText:     fmt.Sprintf("%s - View %d", name, i+1),
			Title:       name,
		})
	}
	return out
}

// PrimaryURLs extracts the persisted side of a gallery: only primary URLs
// are stored on catalog rows.
func PrimaryURLs(imgs []Image) []string {
	urls := make([]string, len(imgs))
	for i, img := range imgs {
		urls[i] = img.PrimaryURL
	}
	return urls
}
