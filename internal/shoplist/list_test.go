package shoplist

import (
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/shopster/internal/logging"
	"github.com/Makepad-fr/shopster/internal/model"
	"github.com/Makepad-fr/shopster/internal/server"
	"github.com/Makepad-fr/shopster/internal/store/remote"
)

type MockRemote struct {
	mock.Mock
}

func (m *MockRemote) List(ctx context.Context) ([]model.Item, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Item), args.Error(1)
}

func (m *MockRemote) Create(ctx context.Context, d model.Draft) (model.Item, error) {
	args := m.Called(ctx, d)
	return args.Get(0).(model.Item), args.Error(1)
}

func (m *MockRemote) Update(ctx context.Context, id int, ch model.Changes) (model.Item, error) {
	args := m.Called(ctx, id, ch)
	return args.Get(0).(model.Item), args.Error(1)
}

func (m *MockRemote) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

var ctx = context.Background()

func seeded(t *testing.T) (*List, *MockRemote) {
	t.Helper()
	r := new(MockRemote)
	r.On("List", mock.Anything).Return(server.SeedItems(), nil).Once()
	l := New(r, logging.Discard())
	require.NoError(t, l.Load(ctx))
	return l, r
}

func TestLoadReplacesMirror(t *testing.T) {
	l, r := seeded(t)
	assert.Equal(t, server.SeedItems(), l.Items())

	r.On("List", mock.Anything).Return([]model.Item{{ID: 7, Name: "Milk", Category: model.Dairy}}, nil).Once()
	require.NoError(t, l.Load(ctx))
	assert.Equal(t, []model.Item{{ID: 7, Name: "Milk", Category: model.Dairy}}, l.Items())
	r.AssertExpectations(t)
}

func TestLoadFailureKeepsMirror(t *testing.T) {
	l, r := seeded(t)
	boom := errors.New("connection refused")
	r.On("List", mock.Anything).Return(nil, boom).Once()

	err := l.Load(ctx)

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, server.SeedItems(), l.Items())
}

func TestLoadRejectsDuplicateIDs(t *testing.T) {
	l, r := seeded(t)
	r.On("List", mock.Anything).Return([]model.Item{{ID: 1, Name: "a"}, {ID: 1, Name: "b"}}, nil).Once()

	assert.ErrorIs(t, l.Load(ctx), ErrDuplicateID)
	assert.Equal(t, 3, l.Len())
}

func TestAddItemAppendsServerItem(t *testing.T) {
	l, r := seeded(t)
	d := model.Draft{Name: "Ice Cream", Category: model.Dessert}
	r.On("Create", mock.Anything, d).Return(d.Item(4), nil).Once()

	it, err := l.AddItem(ctx, d)

	require.NoError(t, err)
	assert.Equal(t, 4, it.ID)
	assert.Equal(t, 4, l.Len())
	assert.Equal(t, d.Item(4), l.Items()[3])
}

func TestAddItemFailureStoresNothing(t *testing.T) {
	l, r := seeded(t)
	d := model.Draft{Name: "Ice Cream", Category: model.Dessert}
	r.On("Create", mock.Anything, d).Return(model.Item{}, errors.New("timeout")).Once()

	_, err := l.AddItem(ctx, d)

	assert.Error(t, err)
	assert.Equal(t, 3, l.Len())
}

func TestAddItemRejectsBadIDs(t *testing.T) {
	l, r := seeded(t)
	d := model.Draft{Name: "Ice Cream", Category: model.Dessert}
	r.On("Create", mock.Anything, d).Return(d.Item(0), nil).Once()
	r.On("Create", mock.Anything, d).Return(d.Item(2), nil).Once()

	_, err := l.AddItem(ctx, d)
	assert.ErrorIs(t, err, ErrUnassignedID)
	_, err = l.AddItem(ctx, d)
	assert.ErrorIs(t, err, ErrDuplicateID)
	assert.Equal(t, server.SeedItems(), l.Items())
}

func TestUpdateItemFlipsExactlyOne(t *testing.T) {
	l, r := seeded(t)
	before := l.Items()
	want := before[0]
	want.IsInCart = true
	r.On("Update", mock.Anything, 1, model.InCart(true)).Return(want, nil).Once()

	_, err := l.UpdateItem(ctx, 1, model.InCart(true))

	require.NoError(t, err)
	after := l.Items()
	assert.Equal(t, want, after[0])
	assert.Equal(t, before[1:], after[1:])
}

func TestUpdateNotFoundLeavesMirror(t *testing.T) {
	l, r := seeded(t)
	notFound := fmt.Errorf("update item 1: %w", &remote.APIError{StatusCode: 404, Message: "Invalid ID"})
	r.On("Update", mock.Anything, 1, model.InCart(true)).Return(model.Item{}, notFound).Once()

	_, err := l.UpdateItem(ctx, 1, model.InCart(true))

	assert.ErrorIs(t, err, remote.ErrNotFound)
	assert.Equal(t, server.SeedItems(), l.Items())
}

func TestUpdateOfUnknownItemIsIgnored(t *testing.T) {
	l, r := seeded(t)
	r.On("Update", mock.Anything, 9, model.InCart(true)).Return(model.Item{ID: 9, Name: "Ghost", IsInCart: true}, nil).Once()

	_, err := l.UpdateItem(ctx, 9, model.InCart(true))

	require.NoError(t, err)
	assert.Equal(t, server.SeedItems(), l.Items())
}

func TestDeleteItem(t *testing.T) {
	l, r := seeded(t)
	r.On("Delete", mock.Anything, 2).Return(nil).Once()

	require.NoError(t, l.DeleteItem(ctx, 2))

	assert.Equal(t, 2, l.Len())
	_, ok := l.Get(2)
	assert.False(t, ok)
}

func TestDeleteNotFoundLeavesMirror(t *testing.T) {
	l, r := seeded(t)
	r.On("Delete", mock.Anything, 2).Return(&remote.APIError{StatusCode: 404}).Once()

	assert.ErrorIs(t, l.DeleteItem(ctx, 2), remote.ErrNotFound)
	assert.Equal(t, 3, l.Len())
}

func TestRequestDoesNotTouchMirror(t *testing.T) {
	l, r := seeded(t)
	d := model.Draft{Name: "Milk", Category: model.Dairy}
	r.On("Create", mock.Anything, d).Return(d.Item(4), nil).Once()

	res := l.RequestAdd(ctx, d)
	assert.Equal(t, 3, l.Len())

	require.NoError(t, l.Apply(res))
	assert.Equal(t, 4, l.Len())
}

func TestFilteredView(t *testing.T) {
	l, _ := seeded(t)

	all := slices.Collect(l.FilteredView(model.All))
	assert.Equal(t, l.Items(), all)

	produce := slices.Collect(l.FilteredView(model.Produce))
	require.Len(t, produce, 2)
	assert.Equal(t, "Pomegranate", produce[0].Name)
	assert.Equal(t, "Lettuce", produce[1].Name)

	assert.Empty(t, slices.Collect(l.FilteredView(model.Dessert)))
}

func TestFilteredViewIsLiveAndRestartable(t *testing.T) {
	l, r := seeded(t)
	view := l.FilteredView(model.Dessert)
	assert.Empty(t, slices.Collect(view))

	d := model.Draft{Name: "Ice Cream", Category: model.Dessert}
	r.On("Create", mock.Anything, d).Return(d.Item(4), nil).Once()
	_, err := l.AddItem(ctx, d)
	require.NoError(t, err)

	assert.Len(t, slices.Collect(view), 1)
	assert.Len(t, slices.Collect(view), 1)

	n := 0
	for range l.FilteredView(model.All) {
		n++
		break
	}
	assert.Equal(t, 1, n)
}

// Runs the shopping scenario end to end against the fake service.
func TestScenarioAgainstService(t *testing.T) {
	srv := httptest.NewServer(server.New(server.NewMemoryStore(server.SeedItems()...), logging.Discard(), server.Options{}))
	defer srv.Close()
	c, err := remote.New(srv.URL, remote.WithLogger(logging.Discard()))
	require.NoError(t, err)
	l := New(c, logging.Discard())

	require.NoError(t, l.Load(ctx))
	require.Equal(t, 3, l.Len())

	_, err = l.AddItem(ctx, model.Draft{Name: "Ice Cream", Category: model.Dessert})
	require.NoError(t, err)
	items := l.Items()
	require.Len(t, items, 4)
	assert.Equal(t, model.Item{ID: 4, Name: "Ice Cream", Category: model.Dessert}, items[3])

	_, err = l.UpdateItem(ctx, 1, model.InCart(true))
	require.NoError(t, err)
	items = l.Items()
	assert.True(t, items[0].IsInCart)
	for _, it := range items[1:] {
		assert.False(t, it.IsInCart, it.Name)
	}

	require.NoError(t, l.DeleteItem(ctx, 1))
	items = l.Items()
	require.Len(t, items, 3)
	for _, it := range items {
		assert.NotEqual(t, "Yogurt", it.Name)
	}

	_, err = l.UpdateItem(ctx, 1, model.InCart(false))
	assert.ErrorIs(t, err, remote.ErrNotFound)
	assert.Len(t, l.Items(), 3)

	// A fresh load sees what the service persisted.
	fresh := New(c, logging.Discard())
	require.NoError(t, fresh.Load(ctx))
	assert.Equal(t, l.Items(), fresh.Items())
	assertUniqueIDs(t, fresh.Items())
}

func assertUniqueIDs(t *testing.T, items []model.Item) {
	t.Helper()
	seen := map[int]bool{}
	for _, it := range items {
		assert.False(t, seen[it.ID], "duplicate id %d", it.ID)
		seen[it.ID] = true
	}
}
