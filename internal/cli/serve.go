package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Makepad-fr/shopster/internal/model"
	"github.com/Makepad-fr/shopster/internal/server"
	"github.com/Makepad-fr/shopster/internal/ui"
)

// doServe runs the item collection service until the context is cancelled.
func doServe(args []string, opt Options) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(opt.Stderr)
	addr := fs.String("addr", opt.Config.HTTPAddr, "listen address")
	dbPath := fs.String("db", opt.Config.DBPath, "db.json (json-server layout) or SQLite file; empty keeps items in memory")
	seed := fs.Bool("seed", false, "start with the sample items")
	accessLog := fs.String("access-log", opt.Config.HTTPLogPath, "append request logs to this file (- for stderr)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	logger := opt.Logger.WithComponent("serve")

	var store server.Store
	switch {
	case strings.HasSuffix(*dbPath, ".json"):
		var seedItems []model.Item
		if *seed {
			seedItems = server.SeedItems()
		}
		s, err := server.OpenJSONFileStore(*dbPath, seedItems...)
		if err != nil {
			return fail("serve", err, opt)
		}
		store = s
	case *dbPath != "":
		s, err := server.OpenSQLiteStore(*dbPath, logger)
		if err != nil {
			return fail("serve", err, opt)
		}
		defer s.Close()
		if *seed {
			if err := s.Seed(opt.Context, server.SeedItems()); err != nil {
				return fail("serve", err, opt)
			}
		}
		store = s
	case *seed:
		store = server.NewMemoryStore(server.SeedItems()...)
	default:
		store = server.NewMemoryStore()
	}

	var logOut io.Writer
	switch *accessLog {
	case "":
	case "-":
		logOut = opt.Stderr
	default:
		f, err := os.OpenFile(*accessLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fail("serve", fmt.Errorf("open access log: %w", err), opt)
		}
		defer f.Close()
		logOut = f
	}

	ln, err := net.Listen("tcp", *addr)
	if err != nil {
		return fail("serve", err, opt)
	}
	srv := &http.Server{
		Handler:           server.New(store, logger, server.Options{AccessLog: logOut}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ui.OK(opt.Stdout, "serving items on http://"+ln.Addr().String()+"/items")
	logger.Info("listening", "addr", ln.Addr().String(), "db", *dbPath)
	if opt.OnListen != nil {
		opt.OnListen(ln.Addr().String())
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fail("serve", err, opt)
		}
	case <-opt.Context.Done():
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return fail("serve", err, opt)
		}
		logger.Info("stopped")
	}
	return 0
}
