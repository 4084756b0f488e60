package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/gridable/datagrid/pkg/datagrid"
	"github.com/gridable/datagrid/pkg/datagrid/api"
	"github.com/gridable/datagrid/pkg/datagrid/collection/memory"
	"github.com/gridable/datagrid/pkg/datagrid/collection/postgres"
	"github.com/gridable/datagrid/pkg/datagrid/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	store, err := cfg.BuildExportStore()
	if err != nil {
		slog.Error("Failed to build export store", "error", err)
		os.Exit(1)
	}

	table, err := buildPeopleTable(cfg)
	if err != nil {
		slog.Error("Failed to build grid", "error", err)
		os.Exit(1)
	}

	handler := api.NewHandler(
		api.WithTable(table),
		api.WithExportStore(store),
	)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Mount("/", handler.Routes())

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: r,
	}

	go func() {
		slog.Info("Grid server starting", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}
}

// buildPeopleTable assembles the demo people directory grid. With
// DATABASE_URL set the collections come from Postgres; otherwise seeded
// in-memory data is served.
func buildPeopleTable(cfg *config.ServerConfig) (*datagrid.Table, error) {
	var people, departments datagrid.Collection
	if cfg.DatabaseURL != "" {
		pool, err := cfg.ConnectDatabase(context.Background())
		if err != nil {
			return nil, err
		}
		people = postgres.NewWithPool(pool, "people_grid", postgres.WithColumnMap(map[string]string{
			"department__id": "department_id",
		}))
		departments = postgres.NewWithPool(pool, "departments")
	} else {
		people, departments = seedCollections()
	}

	departmentWidget, err := datagrid.NewForeignKeyComboBox("department", departments, "name", "")
	if err != nil {
		return nil, err
	}
	loginWidget, err := datagrid.NewStringWidget("login")
	if err != nil {
		return nil, err
	}
	activeWidget, err := datagrid.NewBooleanWidget("active")
	if err != nil {
		return nil, err
	}
	hiredWidget, err := datagrid.NewWholeDayWidget("hired_on")
	if err != nil {
		return nil, err
	}
	seenSince, err := datagrid.NewDateTimeGreaterOrEqual("last_seen", cfg.Location())
	if err != nil {
		return nil, err
	}
	seenUntil, err := datagrid.NewDateTimeLessOrEqual("last_seen", cfg.Location())
	if err != nil {
		return nil, err
	}
	refresh, err := datagrid.NewPeriodicRefreshWidget("refresh")
	if err != nil {
		return nil, err
	}

	storage, err := datagrid.NewStorage(people,
		[]*datagrid.Column{
			datagrid.NewStringColumn("login"),
			datagrid.NewStringColumn("full_name"),
			datagrid.NewColumn("department",
				datagrid.NewForeignKeySerializer("department", datagrid.NewStringSerializer("name")),
				datagrid.WithSortField("department__name"),
			),
			datagrid.NewDateColumn("hired_on"),
			datagrid.NewDateTimeColumn("last_seen"),
			datagrid.NewBooleanColumn("active"),
		},
		datagrid.WithWidgets(loginWidget, departmentWidget, activeWidget, hiredWidget, seenSince, seenUntil, refresh),
		datagrid.WithTitle("People"),
		datagrid.WithDefaultSort("login"),
	)
	if err != nil {
		return nil, err
	}

	return datagrid.NewTable("people", storage,
		datagrid.WithFilenameTemplate("people %Y-%m-%d"),
	), nil
}

func seedCollections() (people, departments datagrid.Collection) {
	engineering := map[string]any{"id": 1, "name": "Engineering"}
	support := map[string]any{"id": 2, "name": "Support"}
	sales := map[string]any{"id": 3, "name": "Sales"}

	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	seen := func(y int, m time.Month, d, h, min int) time.Time {
		return time.Date(y, m, d, h, min, 0, 0, time.UTC)
	}

	rows := []datagrid.Record{
		map[string]any{"id": 1, "login": "alice", "full_name": "Alice Fisher", "department": engineering,
			"hired_on": day(2019, time.March, 4), "last_seen": seen(2026, time.August, 28, 9, 15), "active": true},
		map[string]any{"id": 2, "login": "bob", "full_name": "Bob Moreau", "department": support,
			"hired_on": day(2021, time.July, 12), "last_seen": seen(2026, time.August, 27, 17, 2), "active": true},
		map[string]any{"id": 3, "login": "carol", "full_name": "Carol Novak", "department": sales,
			"hired_on": day(2018, time.November, 30), "last_seen": seen(2026, time.June, 1, 8, 40), "active": false},
		map[string]any{"id": 4, "login": "dave", "full_name": "Dave Lindqvist", "department": engineering,
			"hired_on": day(2023, time.January, 9), "last_seen": seen(2026, time.August, 28, 11, 55), "active": true},
	}

	return memory.New(rows), memory.New([]datagrid.Record{engineering, support, sales})
}
