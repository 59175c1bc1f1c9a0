package main

import (
	"context"
	"flag"
	"log"
	"net/http"

	"github.com/civiclens/tribuna/internal/api"
	"github.com/civiclens/tribuna/pkg/tribuna"
	"github.com/civiclens/tribuna/pkg/tribuna/config"
	"github.com/civiclens/tribuna/pkg/tribuna/store"
	"github.com/civiclens/tribuna/pkg/tribuna/store/sqlite"
)

func main() {
	var (
		configPath = flag.String("config", "tribuna.yaml", "Config file path")
		addr       = flag.String("addr", ":8080", "Listen address")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	var cache store.Store
	if cfg.CachePath != "" {
		cache, err = sqlite.Open(ctx, cfg.CachePath)
		if err != nil {
			log.Printf("annotation cache unavailable, continuing without: %v", err)
			cache = nil
		}
	}

	engine := tribuna.New(tribuna.Options{Config: cfg, Store: cache})
	defer engine.Close()

	if err := engine.Load(ctx); err != nil {
		log.Fatal(err)
	}
	log.Printf("corpus loaded: %d statements", len(engine.Statements()))

	server := api.NewServer(engine)
	log.Printf("listening on %s", *addr)
	if err := http.ListenAndServe(*addr, server.Routes()); err != nil {
		log.Fatal(err)
	}
}
