package main

import (
	"context"
	"errors"
	"flag"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/faisaljina/dc-recommender/internal/catalogdiff"
	"github.com/faisaljina/dc-recommender/internal/config"
	"github.com/faisaljina/dc-recommender/internal/devutil"
	"github.com/faisaljina/dc-recommender/internal/domain"
	"github.com/faisaljina/dc-recommender/internal/logging"
	"github.com/faisaljina/dc-recommender/internal/providers/datacamp"
	"github.com/faisaljina/dc-recommender/internal/store"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to the yaml config (default dcrec.yaml if present)")
		force      = flag.Bool("force", false, "persist the catalog even when nothing changed")
		dryRun     = flag.Bool("dry-run", false, "report changes without persisting anything")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Caller: cfg.Log.Caller})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	timeout := time.Duration(cfg.Catalog.TimeoutSeconds) * time.Second
	prov := datacamp.Provider{
		C:        datacamp.New(cfg.Catalog.BaseURL, cfg.Catalog.APIKey, timeout),
		PageSize: cfg.Catalog.PageSize,
		MaxPages: cfg.Catalog.MaxPages,
	}

	fresh, err := prov.FetchCatalog(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("fetch catalog")
	}
	if fresh.Len() == 0 {
		log.Fatal().Msg("fetched catalog is empty, refusing to overwrite the cache")
	}
	log.Info().Int("tracks", fresh.Len()).Msg("catalog fetched")

	var st *store.Store
	old := domain.Catalog{}
	if cfg.Catalog.CachePath != "" {
		st, err = store.Open(cfg.Catalog.CachePath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.Catalog.CachePath).Msg("open catalog cache")
		}
		defer st.Close()

		cached, _, err := st.LoadCatalog(ctx)
		switch {
		case err == nil:
			old = cached
		case errors.Is(err, store.ErrNoCatalog):
			log.Info().Msg("no cached catalog yet, first sync")
		default:
			log.Fatal().Err(err).Msg("load cached catalog")
		}
	}

	res := catalogdiff.Diff(old, fresh)
	logChanges(res)

	if !shouldPersist(res, old.Len(), *force) {
		log.Info().Msg("catalog unchanged, nothing to persist")
		return
	}
	if *dryRun {
		log.Info().Msg("dry run, skipping persistence")
		return
	}

	fetchedAt := time.Now().UTC()
	if st != nil {
		if err := st.SaveCatalog(ctx, fresh, fetchedAt); err != nil {
			log.Fatal().Err(err).Msg("save catalog cache")
		}
	}
	if cfg.Catalog.SnapshotPath != "" {
		if err := store.SaveSnapshot(cfg.Catalog.SnapshotPath, fresh, fetchedAt); err != nil {
			log.Fatal().Err(err).Msg("save catalog snapshot")
		}
	}
	log.Info().Int("tracks", fresh.Len()).Time("fetched_at", fetchedAt).Msg("catalog persisted")
}

// shouldPersist decide si vale la pena escribir: siempre en el primer
// sync o con -force, si no solo cuando el diff trae algo.
func shouldPersist(res catalogdiff.Result, oldTracks int, force bool) bool {
	if force || oldTracks == 0 {
		return true
	}
	return !res.Empty()
}

// logChanges resume el diff en el log, track por track.
func logChanges(res catalogdiff.Result) {
	if res.Empty() {
		return
	}

	log.Info().
		Int("added_tracks", len(res.AddedTracks)).
		Int("removed_tracks", len(res.RemovedTracks)).
		Int("changed_tracks", len(res.Changed)).
		Msg("catalog changes")

	if len(res.AddedTracks) > 0 {
		log.Info().Strs("tracks", trackKeyStrings(res.AddedTracks)).Msg("tracks added")
	}
	if len(res.RemovedTracks) > 0 {
		log.Info().Strs("tracks", trackKeyStrings(res.RemovedTracks)).Msg("tracks removed")
	}
	for _, tc := range res.Changed {
		log.Debug().
			Str("track", string(tc.Track)).
			Fields(devutil.Pick(tc, "AddedCourses", "RemovedCourses", "ModifiedCourses")).
			Msg("track changed")
	}
}

func trackKeyStrings(keys []domain.TrackKey) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = string(k)
	}
	return out
}
