package assets_test

import (
	"reflect"
	"strings"
	"testing"

	"chronoworks/internal/assets"
)

func TestProductImagesDeterministic(t *testing.T) {
	a := assets.ProductImages("G-Shock GA-2100-1A1", "G-Shock", 4)
	b := assets.ProductImages("G-Shock GA-2100-1A1", "G-Shock", 4)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("same inputs must yield identical galleries")
	}
	if len(a) != 4 {
		t.Fatalf("want 4 images, got %d", len(a))
	}
	// primary shot is larger than the rest
	if !strings.Contains(a[0].PrimaryURL, "500x500") {
		t.Fatalf("primary should be 500x500: %s", a[0].PrimaryURL)
	}
	if !strings.Contains(a[1].PrimaryURL, "400x400") {
		t.Fatalf("gallery shots should be 400x400: %s", a[1].PrimaryURL)
	}
	for _, img := range a {
		if img.FallbackURL == "" || img.AltText == "" {
			t.Fatalf("incomplete image: %+v", img)
		}
	}
}

func TestProductImagesVaryByName(t *testing.T) {
	a := assets.ProductImages("Watch A", "G-Shock", 1)
	b := assets.ProductImages("Watch B", "G-Shock", 1)
	if a[0].PrimaryURL == b[0].PrimaryURL {
		t.Fatal("different products should not share image URLs")
	}
}

func TestCategoryImageKeywords(t *testing.T) {
	img := assets.CategoryImage("Pro Trek")
	if !strings.Contains(img.PrimaryURL, "outdoor") {
		t.Fatalf("Pro Trek should map to outdoor keywords: %s", img.PrimaryURL)
	}
	// unknown categories fall back to generic keywords
	img = assets.CategoryImage("No Such Line")
	if !strings.Contains(img.PrimaryURL, "watch") {
		t.Fatalf("unknown category should use the generic keyword: %s", img.PrimaryURL)
	}
}

func TestHeroImages(t *testing.T) {
	imgs := assets.HeroImages(3)
	if len(imgs) != 3 {
		t.Fatalf("want 3, got %d", len(imgs))
	}
	seen := map[string]bool{}
	for _, img := range imgs {
		if seen[img.PrimaryURL] {
			t.Fatalf("duplicate hero image: %s", img.PrimaryURL)
		}
		seen[img.PrimaryURL] = true
	}
}

func TestPrimaryURLs(t *testing.T) {
	imgs := assets.ProductImages("Watch A", "Edifice", 2)
	urls := assets.PrimaryURLs(imgs)
	if len(urls) != 2 || urls[0] != imgs[0].PrimaryURL {
		t.Fatalf("bad extraction: %v", urls)
	}
}
