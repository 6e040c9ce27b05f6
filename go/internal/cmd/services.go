package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mcdev12/matchday/go/clients/social_api_client"
	"github.com/mcdev12/matchday/go/internal/dbconfig"
	"github.com/mcdev12/matchday/go/internal/fixtures"
	"github.com/mcdev12/matchday/go/internal/formation"
	"github.com/mcdev12/matchday/go/internal/matchstore"
	"github.com/mcdev12/matchday/go/internal/notify"
	"github.com/mcdev12/matchday/go/internal/reservation"
	"github.com/mcdev12/matchday/go/internal/reservation/journal"
	"github.com/mcdev12/matchday/go/internal/reservation/publisher"
	"github.com/mcdev12/matchday/go/internal/session"
	"github.com/rs/zerolog/log"
)

type Services struct {
	Session *session.Service
	closers []func()
}

// Close releases connections in reverse order of creation
func (s *Services) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

type userProvider interface {
	session.CreditsProvider
	session.FriendDirectory
}

func setupServices(ctx context.Context, config *Config) (*Services, error) {
	// Wire up dependency injection chain
	// Providers → Session App → Service layer
	services := &Services{}
	fail := func(err error) (*Services, error) {
		services.Close()
		return nil, err
	}

	var (
		store  *fixtures.Store
		social *social_api_client.SocialApiClient
	)
	if config.Providers.Matches == SourceFixtures || config.Providers.Users == SourceFixtures {
		s, err := fixtures.LoadFile(config.Providers.FixturesPath)
		if err != nil {
			return fail(err)
		}
		store = s
		log.Info().Str("path", config.Providers.FixturesPath).Strs("matches", store.MatchIDs()).Msg("loaded fixtures")
	}
	if config.Providers.Matches == SourceHTTP || config.Providers.Users == SourceHTTP {
		social = social_api_client.NewSocialApiClient(config.Providers.SocialAPI.BaseURL, os.Getenv("SOCIAL_API_TOKEN"))
		social.SetTimeout(config.Providers.SocialAPI.Timeout)
	}

	dbConfig := dbconfig.NewConfigFromEnv()
	if config.needsDatabase() {
		log.Info().Str("host", dbConfig.Host).Str("database", dbConfig.Database).Msg("database required by configuration")
	}

	var matches session.MatchProvider
	switch config.Providers.Matches {
	case SourceFixtures:
		matches = store
	case SourceHTTP:
		matches = social
	case SourcePostgres:
		pool, err := setupPool(ctx, dbConfig)
		if err != nil {
			return fail(err)
		}
		services.closers = append(services.closers, pool.Close)
		ms := matchstore.New(pool)
		if err := ms.EnsureSchema(ctx); err != nil {
			return fail(err)
		}
		matches = ms
	}

	var users userProvider = store
	if config.Providers.Users == SourceHTTP {
		users = social
	}

	var observers []reservation.Observer
	if config.Observers.Journal.Enabled {
		database, err := setupDatabase(ctx, dbConfig)
		if err != nil {
			return fail(err)
		}
		services.closers = append(services.closers, func() { database.Close() })

		cfg := journal.DefaultConfig()
		if config.Observers.Journal.NotifyChannel != "" {
			cfg.NotifyChannel = config.Observers.Journal.NotifyChannel
		}
		j := journal.New(database, cfg)
		if err := j.EnsureSchema(ctx); err != nil {
			return fail(err)
		}
		observers = append(observers, j)
	}
	if config.Observers.NATS.Enabled {
		cfg := publisher.DefaultJetStreamConfig()
		if config.Observers.NATS.URL != "" {
			cfg.URL = config.Observers.NATS.URL
		}
		if config.Observers.NATS.StreamName != "" {
			cfg.StreamName = config.Observers.NATS.StreamName
		}
		if config.Observers.NATS.SubjectPrefix != "" {
			cfg.SubjectPrefix = config.Observers.NATS.SubjectPrefix
		}
		pub, err := publisher.Connect(ctx, cfg)
		if err != nil {
			return fail(err)
		}
		services.closers = append(services.closers, func() { pub.Close() })
		observers = append(observers, pub)
	}

	opts := []session.Option{
		session.WithObservers(observers...),
		session.WithNotifier(notify.LogNotifier{}),
	}
	if config.FormationsFile != "" {
		catalog, err := loadCatalog(config.FormationsFile)
		if err != nil {
			return fail(err)
		}
		opts = append(opts, session.WithCatalog(catalog))
	}

	sessionApp := session.NewApp(matches, users, users, opts...)
	services.Session = session.NewService(sessionApp)

	log.Info().
		Str("matches", config.Providers.Matches).
		Str("users", config.Providers.Users).
		Int("observers", len(observers)).
		Msg("services ready")
	return services, nil
}

func loadCatalog(path string) (*formation.Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open formations file: %w", err)
	}
	defer f.Close()

	catalog, err := formation.LoadCatalog(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load formations file: %w", err)
	}
	return catalog, nil
}
