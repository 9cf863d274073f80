// Package shoplist keeps a local mirror of the remote item collection in step
// with the collection service. The mirror only changes after the service has
// confirmed a request; failed requests leave it untouched.
package shoplist

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/Makepad-fr/shopster/internal/logging"
	"github.com/Makepad-fr/shopster/internal/model"
)

var (
	ErrDuplicateID  = errors.New("duplicate item id")
	ErrUnassignedID = errors.New("item has no id")
)

// Remote is the collection service as seen by the list.
type Remote interface {
	List(ctx context.Context) ([]model.Item, error)
	Create(ctx context.Context, d model.Draft) (model.Item, error)
	Update(ctx context.Context, id int, ch model.Changes) (model.Item, error)
	Delete(ctx context.Context, id int) error
}

type Op int

const (
	OpLoad Op = iota
	OpAdd
	OpUpdate
	OpDelete
)

func (o Op) String() string {
	switch o {
	case OpLoad:
		return "load"
	case OpAdd:
		return "add"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	}
	return fmt.Sprintf("op(%d)", int(o))
}

// Result is the outcome of one request, ready to be applied to the mirror.
type Result struct {
	Op    Op
	ID    int          // target of update/delete
	Item  model.Item   // returned by add/update
	Items []model.Item // returned by load
	Err   error
}

// List owns the mirror. Request* methods only talk to the service and may run
// on any goroutine; Apply and the mutating wrappers must stay on one.
type List struct {
	remote Remote
	items  []model.Item
	log    *logging.Logger
}

func New(remote Remote, logger *logging.Logger) *List {
	return &List{remote: remote, log: logger.WithComponent("shoplist")}
}

func (l *List) RequestLoad(ctx context.Context) Result {
	items, err := l.remote.List(ctx)
	return Result{Op: OpLoad, Items: items, Err: err}
}

func (l *List) RequestAdd(ctx context.Context, d model.Draft) Result {
	it, err := l.remote.Create(ctx, d)
	return Result{Op: OpAdd, Item: it, Err: err}
}

func (l *List) RequestUpdate(ctx context.Context, id int, ch model.Changes) Result {
	it, err := l.remote.Update(ctx, id, ch)
	return Result{Op: OpUpdate, ID: id, Item: it, Err: err}
}

func (l *List) RequestDelete(ctx context.Context, id int) Result {
	return Result{Op: OpDelete, ID: id, Err: l.remote.Delete(ctx, id)}
}

// Apply reconciles the mirror with r. A failed result changes nothing and
// its error is returned.
func (l *List) Apply(r Result) error {
	if r.Err != nil {
		l.log.Warn("request failed, mirror unchanged", "op", r.Op.String(), "id", r.ID, "error", r.Err)
		return r.Err
	}
	var err error
	switch r.Op {
	case OpLoad:
		err = l.replace(r.Items)
	case OpAdd:
		err = l.appendItem(r.Item)
	case OpUpdate:
		l.replaceItem(r.Item)
	case OpDelete:
		l.remove(r.ID)
	default:
		return fmt.Errorf("apply: unknown op %v", r.Op)
	}
	if err != nil {
		return err
	}
	l.log.Mirror("applied", "op", r.Op.String(), "id", r.ID, "items", len(l.items))
	return nil
}

// Load replaces the mirror with the service's collection.
func (l *List) Load(ctx context.Context) error {
	return l.Apply(l.RequestLoad(ctx))
}

// AddItem creates d on the service and appends the stored item.
func (l *List) AddItem(ctx context.Context, d model.Draft) (model.Item, error) {
	r := l.RequestAdd(ctx, d)
	if err := l.Apply(r); err != nil {
		return model.Item{}, err
	}
	return r.Item, nil
}

// UpdateItem patches item id and swaps in the service's version of it.
func (l *List) UpdateItem(ctx context.Context, id int, ch model.Changes) (model.Item, error) {
	r := l.RequestUpdate(ctx, id, ch)
	if err := l.Apply(r); err != nil {
		return model.Item{}, err
	}
	return r.Item, nil
}

// DeleteItem removes item id on the service, then locally.
func (l *List) DeleteItem(ctx context.Context, id int) error {
	return l.Apply(l.RequestDelete(ctx, id))
}

// FilteredView yields the mirror in order, restricted to category c unless c
// is model.All. Each range re-reads the mirror.
func (l *List) FilteredView(c model.Category) iter.Seq[model.Item] {
	return func(yield func(model.Item) bool) {
		for _, it := range l.items {
			if !Matches(c, it) {
				continue
			}
			if !yield(it) {
				return
			}
		}
	}
}

// Items returns a copy of the mirror.
func (l *List) Items() []model.Item {
	out := make([]model.Item, len(l.items))
	copy(out, l.items)
	return out
}

func (l *List) Len() int { return len(l.items) }

func (l *List) Get(id int) (model.Item, bool) {
	if i := l.index(id); i >= 0 {
		return l.items[i], true
	}
	return model.Item{}, false
}

func (l *List) replace(items []model.Item) error {
	seen := make(map[int]bool, len(items))
	for _, it := range items {
		if it.ID == 0 {
			return fmt.Errorf("load: %w", ErrUnassignedID)
		}
		if seen[it.ID] {
			return fmt.Errorf("load: id %d: %w", it.ID, ErrDuplicateID)
		}
		seen[it.ID] = true
	}
	l.items = append(make([]model.Item, 0, len(items)), items...)
	l.log.Mirror("loaded", "count", len(items))
	return nil
}

func (l *List) appendItem(it model.Item) error {
	if it.ID == 0 {
		return fmt.Errorf("add %q: %w", it.Name, ErrUnassignedID)
	}
	if l.index(it.ID) >= 0 {
		return fmt.Errorf("add %q: id %d: %w", it.Name, it.ID, ErrDuplicateID)
	}
	l.items = append(l.items, it)
	l.log.Mirror("item added", "id", it.ID, "name", it.Name)
	return nil
}

func (l *List) replaceItem(it model.Item) {
	i := l.index(it.ID)
	if i < 0 {
		l.log.Warn("updated item not in mirror", "id", it.ID)
		return
	}
	l.items[i] = it
	l.log.Mirror("item updated", "id", it.ID, "in_cart", it.IsInCart)
}

func (l *List) remove(id int) {
	i := l.index(id)
	if i < 0 {
		return
	}
	l.items = append(l.items[:i], l.items[i+1:]...)
	l.log.Mirror("item deleted", "id", id)
}

func (l *List) index(id int) int {
	for i, it := range l.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}
