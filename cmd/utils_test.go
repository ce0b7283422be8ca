package cmd

import (
	"testing"

	"github.com/dstockto/brewctl/models"
	"github.com/shopspring/decimal"
)

func TestParseCategoryFlag(t *testing.T) {
	oldCfg := Cfg
	defer func() { Cfg = oldCfg }()

	Cfg = &Config{
		CategoryAliases: map[string]string{
			"grain": "malt",
			"G":     "levadura",
		},
	}

	tests := []struct {
		input    string
		expected models.Category
		wantErr  bool
	}{
		{"malt", models.Malt, false},
		{"Lúpulos", models.Hop, false},
		{"grain", models.Malt, false},
		{"GRAIN", models.Malt, false},
		{"g", models.Yeast, false},
		{"", "", false},
		{"  ", "", false},
		{"water", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			actual, err := ParseCategoryFlag(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCategoryFlag(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if actual != tt.expected {
				t.Errorf("ParseCategoryFlag(%q) = %q, want %q", tt.input, actual, tt.expected)
			}
		})
	}
}

func TestToRecipeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"scotch-ale", "Scotch Ale"},
		{"belgian_dubbel", "Belgian Dubbel"},
		{"IPA", "Ipa"},
		{"ábadía-de-verano", "Ábadía De Verano"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := ToRecipeName(tt.input); got != tt.expected {
			t.Errorf("ToRecipeName(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestToFileName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Scotch Ale", "scotch-ale.yaml"},
		{"  Abadía  ", "abadía.yaml"},
		{"", "recipe.yaml"},
	}

	for _, tt := range tests {
		if got := ToFileName(tt.input); got != tt.expected {
			t.Errorf("ToFileName(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestTruncateFront(t *testing.T) {
	tests := []struct {
		s        string
		maxLen   int
		expected string
	}{
		{"Hello World", 20, "Hello World"},
		{"Hello World", 11, "Hello World"},
		{"Hello World", 10, "...o World"},
		{"Hello World", 5, "...ld"},
		{"Hello World", 3, "rld"},
		{"Hello World", 2, "ld"},
		{"Lúpulo Saaz", 7, "...Saaz"},
	}

	for _, tt := range tests {
		got := TruncateFront(tt.s, tt.maxLen)
		if got != tt.expected {
			t.Errorf("TruncateFront(%q, %d) = %q, want %q", tt.s, tt.maxLen, got, tt.expected)
		}
	}
}

func TestResolveLowThreshold(t *testing.T) {
	oldCfg := Cfg
	defer func() { Cfg = oldCfg }()

	fallback := decimal.NewFromInt(3)

	Cfg = nil
	if got := ResolveLowThreshold(models.Malt, "Pilsen", fallback); !got.Equal(fallback) {
		t.Errorf("without config got %s, want fallback", got)
	}

	Cfg = &Config{
		LowThresholds: map[string]decimal.Decimal{
			"pilsen":     decimal.NewFromInt(25),
			"hop::saaz":  decimal.NewFromInt(1),
			"yeast::saf": decimal.RequireFromString("0.5"),
			"munich":     decimal.Zero,
		},
	}

	tests := []struct {
		name     string
		cat      models.Category
		ing      string
		expected decimal.Decimal
	}{
		{"name only", models.Malt, "Pilsen", decimal.NewFromInt(25)},
		{"name only ignores case", models.Malt, "PILSEN Extra", decimal.NewFromInt(25)},
		{"category and name", models.Hop, "Saaz", decimal.NewFromInt(1)},
		{"category must match", models.Malt, "Saaz", fallback},
		{"accent folding", models.Yeast, "Safále S-33", decimal.RequireFromString("0.5")},
		{"zero entries are ignored", models.Malt, "Munich", fallback},
		{"no match", models.Hop, "Perle", fallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveLowThreshold(tt.cat, tt.ing, fallback)
			if !got.Equal(tt.expected) {
				t.Errorf("ResolveLowThreshold(%s, %q) = %s, want %s", tt.cat, tt.ing, got, tt.expected)
			}
		})
	}
}

func TestNullString(t *testing.T) {
	if got := nullString(decimal.NullDecimal{}, "%"); got != "" {
		t.Errorf("unset value rendered as %q", got)
	}
	v := decimal.NewNullDecimal(decimal.RequireFromString("6.5"))
	if got := nullString(v, "%"); got != "6.5%" {
		t.Errorf("nullString = %q, want %q", got, "6.5%")
	}
}
