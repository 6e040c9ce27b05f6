package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mcdev12/matchday/go/internal/dbconfig"
	"github.com/mcdev12/matchday/go/internal/fixtures"
	"github.com/mcdev12/matchday/go/internal/matchstore"
)

func main() {
	path := "config/fixtures.yaml"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	// 1) Load the fixtures snapshot
	store, err := fixtures.LoadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load fixtures: %v\n", err)
		os.Exit(1)
	}

	// 2) Connect using shared dbconfig
	ctx := context.Background()
	cfg := dbconfig.NewConfigFromEnv()
	pool, err := pgxpool.New(ctx, cfg.PoolDSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	matches := matchstore.New(pool)
	if err := matches.EnsureSchema(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "ensure schema: %v\n", err)
		os.Exit(1)
	}

	// 3) Upsert and count
	var (
		ids      = store.MatchIDs()
		inserted int
		errs     int
	)
	for _, id := range ids {
		m, err := store.GetMatch(ctx, id)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error reading match %s: %v\n", id, err)
			errs++
			continue
		}
		if err := matches.SaveMatch(ctx, *m); err != nil {
			fmt.Fprintf(os.Stderr, "error saving match %s: %v\n", id, err)
			errs++
			continue
		}
		inserted++
	}

	fmt.Printf("Seed complete: total=%d, saved=%d, errors=%d\n", len(ids), inserted, errs)
	if errs > 0 {
		os.Exit(1)
	}
}
