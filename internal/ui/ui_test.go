package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Makepad-fr/shopster/internal/model"
)

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "█████░░░░░ 1/2", ProgressBar(1, 2, 10))
	assert.Equal(t, "░░░░░ 0/0", ProgressBar(0, 0, 1))
	assert.Equal(t, "█████ 3/3", ProgressBar(3, 3, 5))
}

func TestToggleDark(t *testing.T) {
	SetTheme("dark")
	defer SetTheme("dark")

	assert.Equal(t, "light", ToggleDark().Name)
	assert.Equal(t, "dark", ToggleDark().Name)

	SetTheme("MONO")
	assert.Equal(t, "mono", Current().Name)
	assert.Equal(t, "dark", ToggleDark().Name)

	SetTheme("nope")
	assert.Equal(t, "dark", Current().Name)
}

func TestItemLineMono(t *testing.T) {
	SetTheme("mono")
	defer SetTheme("dark")

	assert.Equal(t, "[ ] Yogurt  Dairy  #1", ItemLine(model.Item{ID: 1, Name: "Yogurt", Category: model.Dairy}))
	assert.Equal(t, "[x] Lettuce  Produce  #3", ItemLine(model.Item{ID: 3, Name: "Lettuce", Category: model.Produce, IsInCart: true}))
	assert.Contains(t, ItemLine(model.Item{ID: 5, Category: model.Dessert}), "(unnamed)")
}

func TestPanelAndMessages(t *testing.T) {
	SetTheme("mono")
	defer SetTheme("dark")

	var buf bytes.Buffer
	Panel(&buf, []string{"hello", "world"})
	out := buf.String()
	assert.Contains(t, out, "+")
	assert.Contains(t, out, "| hello |")

	buf.Reset()
	OK(&buf, "added")
	Fail(&buf, "boom")
	assert.Equal(t, "ok added\nerror: boom\n", buf.String())
}

func TestHeaderCounts(t *testing.T) {
	SetTheme("mono")
	defer SetTheme("dark")

	items := []model.Item{
		{ID: 1, Name: "Yogurt", Category: model.Dairy, IsInCart: true},
		{ID: 2, Name: "Pomegranate", Category: model.Produce},
	}
	h := Header(items, model.All)
	assert.Contains(t, h, "[x] 1")
	assert.Contains(t, h, "[ ] 1")
	assert.Contains(t, h, "Total 2")
	assert.Contains(t, h, "filter: All")
}
