package shoplist

import (
	"errors"
	"fmt"

	"github.com/Makepad-fr/shopster/internal/model"
)

var ErrUnknownCategory = errors.New("unknown category")

// Matches is the filter predicate: model.All matches everything.
func Matches(c model.Category, it model.Item) bool {
	return c == model.All || it.Category == c
}

// Filter holds the selected category. The zero value selects model.All.
type Filter struct {
	selected model.Category
	// OnChange, when set, runs after every successful Set or Next.
	OnChange func(model.Category)
}

func NewFilter() *Filter { return &Filter{selected: model.All} }

func (f *Filter) Selected() model.Category {
	if f.selected == "" {
		return model.All
	}
	return f.selected
}

// Set selects c, which must be model.All or an item category.
func (f *Filter) Set(c model.Category) error {
	if c != model.All && !c.Valid() {
		return fmt.Errorf("filter %q: %w", c, ErrUnknownCategory)
	}
	f.selected = c
	f.changed()
	return nil
}

// Next steps through All and then each category, wrapping around.
func (f *Filter) Next() model.Category {
	order := append([]model.Category{model.All}, model.Categories()...)
	cur := f.Selected()
	next := model.All
	for i, c := range order {
		if c == cur {
			next = order[(i+1)%len(order)]
			break
		}
	}
	f.selected = next
	f.changed()
	return next
}

func (f *Filter) changed() {
	if f.OnChange != nil {
		f.OnChange(f.selected)
	}
}

func (f *Filter) Match(it model.Item) bool { return Matches(f.Selected(), it) }
