package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/shopster/internal/model"
)

func OK(w io.Writer, msg string) {
	t := Current()
	fmt.Fprintln(w, t.Success.Render(t.SymOK+" "+msg))
}

func Fail(w io.Writer, msg string) {
	t := Current()
	fmt.Fprintln(w, t.Error.Render(t.SymFail+" "+msg))
}

func Hint(w io.Writer, msg string) {
	fmt.Fprintln(w, Current().Muted.Render(msg))
}

// ProgressBar renders how much of the list is already in the cart.
func ProgressBar(done, total, width int) string {
	den := total
	if den <= 0 {
		den = 1
	}
	if width < 5 {
		width = 5
	}
	filled := done * width / den
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("%s %d/%d", bar, done, total)
}

// PanelString frames inner with the current theme's border.
func PanelString(inner string) string {
	t := Current()
	return lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(t.BorderColor).
		Padding(0, 1).
		Render(inner)
}

// Panel draws a framed box using the current theme.
func Panel(w io.Writer, lines []string) {
	fmt.Fprintln(w, PanelString(strings.Join(lines, "\n")))
}

// ItemLine renders one item as "☐ Yogurt  Dairy  #1".
func ItemLine(it model.Item) string {
	t := Current()
	box, name := t.Muted.Render(t.BoxUnchecked), it.Name
	if it.IsInCart {
		box, name = t.Success.Render(t.BoxChecked), t.InCart.Render(it.Name)
	}
	if strings.TrimSpace(it.Name) == "" {
		name = t.Muted.Render("(unnamed)")
	}
	return fmt.Sprintf("%s %s  %s  %s", box, name,
		t.Category.Render(string(it.Category)),
		t.Muted.Render(fmt.Sprintf("#%d", it.ID)))
}

// Counts splits items into in-cart and still-to-buy.
func Counts(items []model.Item) (inCart, toBuy int) {
	for _, it := range items {
		if it.IsInCart {
			inCart++
		} else {
			toBuy++
		}
	}
	return
}

// Header is the title line with live counts and the active filter.
func Header(items []model.Item, filter model.Category) string {
	t := Current()
	c, p := Counts(items)
	return fmt.Sprintf("%s  %s %d  %s %d  %s %d  %s",
		t.Title.Render("Shopster"),
		t.Success.Render(t.BoxChecked), c,
		t.Pending.Render(t.BoxUnchecked), p,
		t.Accent.Render("Total"), len(items),
		t.Muted.Render("filter: "+string(filter)),
	)
}
