package model

import (
	"fmt"
	"strings"
)

// Category classifies an Item. All is only meaningful as a filter value.
type Category string

const (
	All     Category = "All"
	Produce Category = "Produce"
	Dairy   Category = "Dairy"
	Dessert Category = "Dessert"
)

var categories = []Category{Produce, Dairy, Dessert}

// Categories returns the item categories in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Valid reports whether c is an item category (All is not).
func (c Category) Valid() bool {
	for _, k := range categories {
		if c == k {
			return true
		}
	}
	return false
}

func (c Category) String() string { return string(c) }

// ParseCategory matches s case-insensitively against the item categories.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range categories {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// ParseFilter is ParseCategory that also accepts All.
func ParseFilter(s string) (Category, error) {
	if strings.EqualFold(strings.TrimSpace(s), string(All)) {
		return All, nil
	}
	return ParseCategory(s)
}

// Item is one shopping-list record. ID is assigned by the collection service.
type Item struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Category Category `json:"category"`
	IsInCart bool     `json:"isInCart"`
}

// Draft is a new item that has not been created yet.
type Draft struct {
	Name     string   `json:"name"`
	Category Category `json:"category"`
	IsInCart bool     `json:"isInCart"`
}

// Changes is a partial update. Nil fields are left out of the request body.
type Changes struct {
	Name     *string   `json:"name,omitempty"`
	Category *Category `json:"category,omitempty"`
	IsInCart *bool     `json:"isInCart,omitempty"`
}

// InCart builds the body for a cart toggle.
func InCart(v bool) Changes { return Changes{IsInCart: &v} }

// Apply merges the set fields of ch onto it.
func (ch Changes) Apply(it Item) Item {
	if ch.Name != nil {
		it.Name = *ch.Name
	}
	if ch.Category != nil {
		it.Category = *ch.Category
	}
	if ch.IsInCart != nil {
		it.IsInCart = *ch.IsInCart
	}
	return it
}

// Item returns the record the service would create for d.
func (d Draft) Item(id int) Item {
	return Item{ID: id, Name: d.Name, Category: d.Category, IsInCart: d.IsInCart}
}
