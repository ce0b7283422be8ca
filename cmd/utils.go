package cmd

import (
	"fmt"
	"strings"

	"github.com/dstockto/brewctl/models"
	"github.com/fatih/color"
	"github.com/shopspring/decimal"
)

// ParseCategoryFlag maps a category argument to a Category. Config aliases are tried first
// (case-insensitive), then the backend's own labels. An empty value means no category.
func ParseCategoryFlag(s string) (models.Category, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	if Cfg != nil {
		for alias, target := range Cfg.CategoryAliases {
			if strings.EqualFold(alias, s) {
				s = target
				break
			}
		}
	}
	c, err := models.ParseCategory(s)
	if err != nil {
		return "", fmt.Errorf("%q: %w", s, err)
	}
	return c, nil
}

// ToRecipeName converts a filename or string to a recipe name by replacing dashes
// and underscores with spaces and capitalizing each word.
func ToRecipeName(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")
	words := strings.Fields(s)
	for i, w := range words {
		if len(w) > 0 {
			r := []rune(w)
			words[i] = strings.ToUpper(string(r[:1])) + strings.ToLower(string(r[1:]))
		}
	}
	return strings.Join(words, " ")
}

// ToFileName turns a recipe name into a draft file name.
func ToFileName(name string) string {
	base := strings.ToLower(strings.Join(strings.Fields(name), "-"))
	if base == "" {
		base = "recipe"
	}
	return base + ".yaml"
}

// TruncateFront truncates a string from the front if it exceeds maxLen.
func TruncateFront(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[len(r)-maxLen:])
	}
	return "..." + string(r[len(r)-maxLen+3:])
}

// ResolveLowThreshold resolves the reorder threshold for an ingredient. Keys of the form
// "category::name" win over plain "name" keys; both match by substring, ignoring case and
// accents. fallback is returned when nothing matches.
func ResolveLowThreshold(cat models.Category, name string, fallback decimal.Decimal) decimal.Decimal {
	if Cfg == nil || Cfg.LowThresholds == nil {
		return fallback
	}

	lname := models.NormalizeName(name)

	// First pass: check category::name patterns (more specific)
	for k, v := range Cfg.LowThresholds {
		if k == "" || !v.IsPositive() || !strings.Contains(k, "::") {
			continue
		}

		parts := strings.SplitN(k, "::", 2)
		catPart := strings.TrimSpace(parts[0])
		namePart := models.NormalizeName(parts[1])
		if catPart == "" || namePart == "" {
			continue
		}

		c, err := ParseCategoryFlag(catPart)
		if err != nil || c != cat {
			continue
		}
		if strings.Contains(lname, namePart) {
			return v
		}
	}

	// Second pass: name-only fallback
	for k, v := range Cfg.LowThresholds {
		if k == "" || !v.IsPositive() || strings.Contains(k, "::") {
			continue
		}

		if strings.Contains(lname, models.NormalizeName(k)) {
			return v
		}
	}

	return fallback
}

// unitOf returns the display unit of an ingredient.
func unitOf(ing models.Ingredient) string {
	if ing.Unit == "" {
		return "u"
	}
	return ing.Unit
}

func warnLabel() string {
	return color.YellowString("Warning:")
}

// nullString renders an optional number with a suffix, or "" when it is unset.
func nullString(d decimal.NullDecimal, suffix string) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String() + suffix
}
