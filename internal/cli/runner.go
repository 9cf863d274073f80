package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Makepad-fr/shopster/internal/config"
	"github.com/Makepad-fr/shopster/internal/logging"
	"github.com/Makepad-fr/shopster/internal/model"
	"github.com/Makepad-fr/shopster/internal/shoplist"
	"github.com/Makepad-fr/shopster/internal/store/remote"
	"github.com/Makepad-fr/shopster/internal/tui"
	"github.com/Makepad-fr/shopster/internal/ui"
)

// Options tune output behavior from root flags.
type Options struct {
	Group bool // list grouped by in-cart / to-buy

	Context context.Context
	Config  *config.AppConfig
	Logger  *logging.Logger
	Stdout  io.Writer
	Stderr  io.Writer

	// OnListen is called with the bound address once `serve` is listening.
	OnListen func(addr string)
}

func (o *Options) defaults() {
	if o.Context == nil {
		o.Context = context.Background()
	}
	if o.Config == nil {
		o.Config = config.LoadAppConfigFromEnv()
	}
	if o.Logger == nil {
		o.Logger = logging.Default()
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	opt.defaults()
	if len(args) == 0 {
		PrintHelp(opt.Stderr)
		return 2
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(opt.Stdout)
		return 0

	case "ls":
		if len(a) > 1 {
			ui.Fail(opt.Stderr, "usage: shopster ls [category]")
			return 2
		}
		c := model.All
		if len(a) == 1 {
			var err error
			if c, err = model.ParseFilter(a[0]); err != nil {
				ui.Fail(opt.Stderr, "ls: "+err.Error())
				return 2
			}
		}
		return doList(c, opt)

	case "add":
		if len(a) < 2 {
			ui.Fail(opt.Stderr, "usage: shopster add <category> <name...>")
			return 2
		}
		c, err := model.ParseCategory(a[0])
		if err != nil {
			ui.Fail(opt.Stderr, "add: "+err.Error())
			return 2
		}
		return doAdd(c, strings.Join(a[1:], " "), opt)

	case "cart":
		id, code := parseID("cart", a, opt)
		if code != 0 {
			return code
		}
		return doToggle(id, opt)

	case "rm":
		id, code := parseID("rm", a, opt)
		if code != 0 {
			return code
		}
		return doRemove(id, opt)

	case "tui":
		return doTUI(opt)

	case "serve":
		return doServe(a, opt)
	}

	ui.Fail(opt.Stderr, "unknown subcommand: "+cmd)
	fmt.Fprintln(opt.Stderr)
	PrintHelp(opt.Stderr)
	return 2
}

func PrintHelp(w io.Writer) {
	fmt.Fprint(w, `shopster - a shopping list client

Usage:
  shopster [-api URL] [-theme dark|light|mono] [-group] <subcommand> [args]

Subcommands:
  ls [category]              List items, optionally one category (Produce, Dairy, Dessert)
  add <category> <name...>   Add a new item (name can be multiple words)
  cart <id>                  Put item in the cart, or take it out again
  rm <id>                    Delete item
  tui                        Interactive list
  serve [-seed] [-db path]   Run a local item collection service (-db items.db or db.json)

Examples:
  shopster add Dessert Ice Cream
  shopster ls Produce
  shopster cart 2
  shopster rm 3
`)
}

func parseID(cmd string, a []string, opt Options) (int, int) {
	if len(a) != 1 {
		ui.Fail(opt.Stderr, fmt.Sprintf("usage: shopster %s <id>", cmd))
		return 0, 2
	}
	n, err := strconv.Atoi(a[0])
	if err != nil {
		ui.Fail(opt.Stderr, cmd+": not a number: "+a[0])
		return 0, 2
	}
	return n, 0
}

func newList(opt Options) (*shoplist.List, error) {
	c, err := remote.New(opt.Config.APIURL, remote.WithLogger(opt.Logger))
	if err != nil {
		return nil, err
	}
	return shoplist.New(c, opt.Logger), nil
}

// fail prints err and picks the exit code. Not-found gets a hint.
func fail(op string, err error, opt Options) int {
	ui.Fail(opt.Stderr, op+": "+err.Error())
	if errors.Is(err, remote.ErrNotFound) {
		ui.Hint(opt.Stderr, "Hint: run `shopster ls` to see valid ids")
	}
	return 1
}

// -------------- subcommand impls ----------------

func doList(c model.Category, opt Options) int {
	l, err := newList(opt)
	if err != nil {
		return fail("ls", err, opt)
	}
	if err := l.Load(opt.Context); err != nil {
		return fail("load", err, opt)
	}

	f := shoplist.NewFilter()
	f.OnChange = func(sel model.Category) { opt.Logger.Debug("filter set", "category", sel.String()) }
	if err := f.Set(c); err != nil {
		return fail("ls", err, opt)
	}
	var shown []model.Item
	for it := range l.FilteredView(f.Selected()) {
		shown = append(shown, it)
	}
	inCart, _ := ui.Counts(shown)

	var lines []string
	lines = append(lines, ui.Header(l.Items(), c))
	lines = append(lines, ui.Current().Muted.Render(ui.ProgressBar(inCart, len(shown), 28)))
	lines = append(lines, "")
	if opt.Group {
		lines = append(lines, groupLines(shown)...)
	} else {
		lines = append(lines, flatLines(shown)...)
	}
	lines = append(lines, "")
	lines = append(lines, ui.Current().Muted.Render("Tip: add with `shopster add Dairy Milk`"))
	ui.Panel(opt.Stdout, lines)
	return 0
}

func doAdd(c model.Category, name string, opt Options) int {
	l, err := newList(opt)
	if err != nil {
		return fail("add", err, opt)
	}
	f := shoplist.NewForm()
	f.Name = strings.TrimSpace(name)
	f.Category = c
	it, err := l.AddItem(opt.Context, f.Submit())
	if err != nil {
		return fail("add", err, opt)
	}
	ui.OK(opt.Stdout, fmt.Sprintf("added #%d %s", it.ID, it.Name))
	return 0
}

func doToggle(id int, opt Options) int {
	l, err := newList(opt)
	if err != nil {
		return fail("cart", err, opt)
	}
	if err := l.Load(opt.Context); err != nil {
		return fail("load", err, opt)
	}
	cur, ok := l.Get(id)
	if !ok {
		return fail("cart", fmt.Errorf("item %d: %w", id, remote.ErrNotFound), opt)
	}
	it, err := l.UpdateItem(opt.Context, id, model.InCart(!cur.IsInCart))
	if err != nil {
		return fail("cart", err, opt)
	}
	if it.IsInCart {
		ui.OK(opt.Stdout, it.Name+" added to cart")
	} else {
		ui.OK(opt.Stdout, it.Name+" removed from cart")
	}
	return 0
}

func doRemove(id int, opt Options) int {
	l, err := newList(opt)
	if err != nil {
		return fail("rm", err, opt)
	}
	if err := l.DeleteItem(opt.Context, id); err != nil {
		return fail("rm", err, opt)
	}
	ui.OK(opt.Stdout, fmt.Sprintf("removed #%d", id))
	return 0
}

func doTUI(opt Options) int {
	l, err := newList(opt)
	if err != nil {
		return fail("tui", err, opt)
	}
	if err := tui.Run(opt.Context, l); err != nil {
		return fail("tui", err, opt)
	}
	return 0
}

// -------------- rendering helpers --------------

func flatLines(items []model.Item) []string {
	if len(items) == 0 {
		return []string{ui.Current().Muted.Render("no items")}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, ui.ItemLine(it))
	}
	return out
}

func groupLines(items []model.Item) []string {
	var toBuy, inCart []model.Item
	for _, it := range items {
		if it.IsInCart {
			inCart = append(inCart, it)
		} else {
			toBuy = append(toBuy, it)
		}
	}
	t := ui.Current()
	var lines []string
	lines = append(lines, t.Accent.Render("To buy"))
	if len(toBuy) == 0 {
		lines = append(lines, t.Muted.Render("(none)"))
	} else {
		lines = append(lines, flatLines(toBuy)...)
	}
	lines = append(lines, "")
	lines = append(lines, t.Accent.Render("In cart"))
	if len(inCart) == 0 {
		lines = append(lines, t.Muted.Render("(none)"))
	} else {
		lines = append(lines, flatLines(inCart)...)
	}
	return lines
}
