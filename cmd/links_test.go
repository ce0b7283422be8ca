package cmd

import (
	"testing"
)

func TestMakeShopSearch(t *testing.T) {
	oldCfg := Cfg
	defer func() { Cfg = oldCfg }()
	Cfg = nil

	tests := []struct {
		category string
		name     string
		expected string
	}{
		{"malt", "Pilsen", "https://www.amazon.com/s?k=malt+Pilsen"},
		{" hop ", " Saaz ", "https://www.amazon.com/s?k=hop+++Saaz"},
		{"", "Safale S-33", "https://www.amazon.com/s?k=Safale+S-33"},
		{"yeast", "", "https://www.amazon.com/s?k=yeast"},
	}

	for _, tt := range tests {
		t.Run(tt.category+" "+tt.name, func(t *testing.T) {
			got := makeShopSearch(tt.category, tt.name)
			if got != tt.expected {
				t.Errorf("makeShopSearch(%q, %q) = %q, want %q", tt.category, tt.name, got, tt.expected)
			}
		})
	}
}

func TestMakeShopSearchConfigured(t *testing.T) {
	oldCfg := Cfg
	defer func() { Cfg = oldCfg }()
	Cfg = &Config{ShopSearch: "https://shop.example/search?q="}

	got := makeShopSearch("malt", "Caramel 60")
	want := "https://shop.example/search?q=malt+Caramel+60"
	if got != want {
		t.Errorf("makeShopSearch() = %q, want %q", got, want)
	}
}

func TestTermLink(t *testing.T) {
	text := "Click here"
	link := "http://example.com"
	expected := "\x1b]8;;http://example.com\x1b\\Click here\x1b]8;;\x1b\\"
	got := termLink(text, link)
	if got != expected {
		t.Errorf("termLink(%q, %q) = %q, want %q", text, link, got, expected)
	}
}

func TestRecipeURL(t *testing.T) {
	for _, base := range []string{"http://brew.local:8000", "http://brew.local:8000/"} {
		if got := recipeURL(base, 7); got != "http://brew.local:8000/recetas/7/" {
			t.Errorf("recipeURL(%q, 7) = %q", base, got)
		}
	}
}
