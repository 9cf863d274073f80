package shoplist

import "github.com/Makepad-fr/shopster/internal/model"

// Form is the entry form for new items. It does not validate: an empty
// name is submitted as is.
type Form struct {
	Name     string
	Category model.Category
}

// NewForm starts on Produce, the first category offered.
func NewForm() *Form { return &Form{Category: model.Produce} }

// Submit emits a draft that is not in the cart and clears the name.
func (f *Form) Submit() model.Draft {
	d := model.Draft{Name: f.Name, Category: f.Category, IsInCart: false}
	f.Name = ""
	return d
}

// NextCategory cycles the category choice.
func (f *Form) NextCategory() model.Category {
	cs := model.Categories()
	next := cs[0]
	for i, c := range cs {
		if c == f.Category {
			next = cs[(i+1)%len(cs)]
			break
		}
	}
	f.Category = next
	return next
}

func (f *Form) Reset() {
	f.Name = ""
	f.Category = model.Produce
}
