package cmd

import (
	"fmt"
	"net/url"
	"strings"
)

const defaultShopSearch = "https://www.amazon.com/s?k="

// makeShopSearch builds a search URL for reordering an ingredient. The configured shop_search
// prefix is used when set.
func makeShopSearch(category string, name string) string {
	prefix := defaultShopSearch
	if Cfg != nil && Cfg.ShopSearch != "" {
		prefix = Cfg.ShopSearch
	}
	q := url.QueryEscape(strings.TrimSpace(category + " " + name))

	return prefix + q
}

// Build an iTerm2-compatible OSC 8 hyperlink: label "text" pointing to "link".
// Example format: \x1b]8;;http://example.com\x1b\\This is a link\x1b]8;;\x1b\\
func termLink(text string, link string) string {
	return "\x1b]8;;" + link + "\x1b\\" + text + "\x1b]8;;\x1b\\"
}

func shopLink(category string, name string) string {
	return termLink(makeShopSearch(category, name), makeShopSearch(category, name))
}

// recipeURL is the backend resource of a recipe.
func recipeURL(base string, id int) string {
	return fmt.Sprintf("%s/recetas/%d/", strings.TrimRight(base, "/"), id)
}
