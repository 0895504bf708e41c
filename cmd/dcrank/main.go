package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/faisaljina/dc-recommender/internal/concurrency"
	"github.com/faisaljina/dc-recommender/internal/config"
	"github.com/faisaljina/dc-recommender/internal/domain"
	"github.com/faisaljina/dc-recommender/internal/export"
	"github.com/faisaljina/dc-recommender/internal/logging"
	"github.com/faisaljina/dc-recommender/internal/progress"
	"github.com/faisaljina/dc-recommender/internal/providers/datacamp"
	"github.com/faisaljina/dc-recommender/internal/recommend"
	"github.com/faisaljina/dc-recommender/internal/sftpclient"
	"github.com/faisaljina/dc-recommender/internal/store"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to the yaml config (default dcrec.yaml if present)")
		fetch      = flag.Bool("fetch", false, "refresh the catalog from the API before ranking")
		categories = flag.String("categories", "", "comma-separated category override")
		tracks     = flag.Int("tracks", 0, "closest-to-completion tracks per category (0 = config value)")
		rows       = flag.Int("rows", 0, "rows per ranked table (0 = config value)")
		csvPath    = flag.String("csv", "", "csv output path override")
		xmlPath    = flag.String("xml", "", "xml output path override")
		uploadSFTP = flag.Bool("sftp", false, "upload the generated reports via SFTP")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Caller: cfg.Log.Caller})

	if *categories != "" {
		cfg.Rank.Categories = splitCSV(*categories)
	}
	if *tracks > 0 {
		cfg.Rank.Tracks = *tracks
	}
	if *rows > 0 {
		cfg.Rank.Rows = *rows
	}
	if *csvPath != "" {
		cfg.Export.CSVPath = *csvPath
	}
	if *xmlPath != "" {
		cfg.Export.XMLPath = *xmlPath
	}

	rootCtx, rootCancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer rootCancel()

	cat, fetchedAt, err := loadCatalog(rootCtx, cfg, *fetch)
	if err != nil {
		log.Fatal().Err(err).Msg("load catalog")
	}
	log.Info().Int("tracks", cat.Len()).Time("fetched_at", fetchedAt).Msg("catalog loaded")

	completed := detectProgress(cfg, cat)
	snap := recommend.NewSnapshot(cat, completed)

	reports := rankCategories(rootCtx, snap, cfg)
	if len(reports) == 0 {
		log.Fatal().Msg("no category produced a ranking")
	}

	printReports(os.Stdout, reports)

	paths, err := writeReports(cfg, reports)
	if err != nil {
		log.Fatal().Err(err).Msg("write reports")
	}

	if *uploadSFTP {
		if err := uploadReports(rootCtx, cfg.SFTP, paths); err != nil {
			log.Fatal().Err(err).Msg("upload reports")
		}
	}
}

// loadCatalog decide de dónde sale el catálogo: la API si fetch, si no
// el cache sqlite, y como último recurso el snapshot comprimido.
func loadCatalog(ctx context.Context, cfg *config.Config, fetch bool) (domain.Catalog, time.Time, error) {
	if fetch {
		cat, fetchedAt, err := fetchCatalog(ctx, cfg)
		if err == nil {
			return cat, fetchedAt, nil
		}
		log.Warn().Err(err).Msg("fetch failed, falling back to cached catalog")
	}
	return loadCachedCatalog(ctx, cfg)
}

func fetchCatalog(ctx context.Context, cfg *config.Config) (domain.Catalog, time.Time, error) {
	timeout := time.Duration(cfg.Catalog.TimeoutSeconds) * time.Second
	prov := datacamp.Provider{
		C:        datacamp.New(cfg.Catalog.BaseURL, cfg.Catalog.APIKey, timeout),
		PageSize: cfg.Catalog.PageSize,
		MaxPages: cfg.Catalog.MaxPages,
	}

	cat, err := prov.FetchCatalog(ctx)
	if err != nil {
		return domain.Catalog{}, time.Time{}, err
	}

	fetchedAt := time.Now().UTC()
	persistCatalog(ctx, cfg, cat, fetchedAt)
	return cat, fetchedAt, nil
}

// persistCatalog es best-effort: un cache que no se pudo escribir no
// invalida el ranking que ya tenemos en memoria.
func persistCatalog(ctx context.Context, cfg *config.Config, cat domain.Catalog, fetchedAt time.Time) {
	if cfg.Catalog.CachePath != "" {
		st, err := store.Open(cfg.Catalog.CachePath)
		if err != nil {
			log.Warn().Err(err).Msg("open catalog cache")
		} else {
			if err := st.SaveCatalog(ctx, cat, fetchedAt); err != nil {
				log.Warn().Err(err).Msg("save catalog cache")
			}
			st.Close()
		}
	}
	if cfg.Catalog.SnapshotPath != "" {
		if err := store.SaveSnapshot(cfg.Catalog.SnapshotPath, cat, fetchedAt); err != nil {
			log.Warn().Err(err).Msg("save catalog snapshot")
		}
	}
}

func loadCachedCatalog(ctx context.Context, cfg *config.Config) (domain.Catalog, time.Time, error) {
	if cfg.Catalog.CachePath != "" {
		st, err := store.Open(cfg.Catalog.CachePath)
		if err != nil {
			log.Warn().Err(err).Str("path", cfg.Catalog.CachePath).Msg("open catalog cache")
		} else {
			defer st.Close()
			cat, fetchedAt, err := st.LoadCatalog(ctx)
			if err == nil {
				return cat, fetchedAt, nil
			}
			if !errors.Is(err, store.ErrNoCatalog) {
				return domain.Catalog{}, time.Time{}, err
			}
			log.Debug().Str("path", cfg.Catalog.CachePath).Msg("cache empty, trying snapshot")
		}
	}

	if cfg.Catalog.SnapshotPath != "" {
		cat, fetchedAt, err := store.LoadSnapshot(cfg.Catalog.SnapshotPath)
		if err == nil {
			return cat, fetchedAt, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return domain.Catalog{}, time.Time{}, err
		}
	}

	return domain.Catalog{}, time.Time{}, fmt.Errorf("no cached catalog, run with -fetch or run catalogsync first")
}

// detectProgress junta los certificados descargados y el archivo de
// títulos completados, y los cruza contra el catálogo.
func detectProgress(cfg *config.Config, cat domain.Catalog) map[string]struct{} {
	var records []string

	if dir := cfg.Progress.RecordsDir; dir != "" {
		recs, err := progress.LoadRecords(dir)
		if err != nil {
			log.Warn().Err(err).Str("dir", dir).Msg("read records dir")
		}
		records = append(records, recs...)
	}
	if path := cfg.Progress.CompletedFile; path != "" {
		lines, err := progress.LoadCompletedFile(path)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("read completed file")
		}
		records = append(records, lines...)
	}

	completed := progress.DetectCompleted(records, cat.CourseTitles(), cfg.Progress.MinSimilarity)
	log.Info().Int("records", len(records)).Int("completed", len(completed)).Msg("progress detected")
	return completed
}

// rankCategories corre el ranking de cada categoría en paralelo y
// descarta las que fallaron (ya quedan logueadas).
func rankCategories(ctx context.Context, snap *recommend.Snapshot, cfg *config.Config) []export.Report {
	results, errs := concurrency.ProcessParallel(ctx, cfg.Rank.Categories, concurrency.DefaultOptions(),
		func(ctx context.Context, _ int, category string) (export.Report, error) {
			rows, err := snap.Rank(category, cfg.Rank.Tracks, cfg.Rank.Rows)
			if err != nil {
				return export.Report{}, err
			}
			return export.Report{Category: category, Rows: rows}, nil
		})
	for _, err := range errs {
		log.Error().Err(err).Msg("rank category")
	}

	reports := make([]export.Report, 0, len(results))
	for _, r := range results {
		if r.Category != "" {
			reports = append(reports, r)
		}
	}
	return reports
}

func printReports(w io.Writer, reports []export.Report) {
	for _, rep := range reports {
		fmt.Fprintf(w, "\n%s\n", rep.Category)

		if len(rep.Rows) == 0 {
			fmt.Fprintln(w, "(no recommendations)")
			continue
		}

		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "#\tCOURSE\tHOURS\tTRACKS\tSHORTEST TRACK\tTIME REMAINING")
		for i, row := range rep.Rows {
			fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%s\t%d\n",
				i+1, row.Course, row.CourseLength, row.TrackDuplication, row.ShortestTrack, row.TrackTimeRemaining)
		}
		tw.Flush()
	}
}

// writeReports escribe los exports configurados y devuelve los paths
// generados, para el upload opcional.
func writeReports(cfg *config.Config, reports []export.Report) ([]string, error) {
	var paths []string

	if out := cfg.Export.CSVPath; out != "" {
		if err := ensureDir(out); err != nil {
			return nil, err
		}
		f, err := os.Create(out)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", out, err)
		}
		if err := export.WriteRankCSV(f, reports); err != nil {
			f.Close()
			return nil, err
		}
		if err := f.Close(); err != nil {
			return nil, err
		}
		log.Info().Str("path", out).Msg("csv report written")
		paths = append(paths, out)
	}

	if out := cfg.Export.XMLPath; out != "" {
		if err := ensureDir(out); err != nil {
			return nil, err
		}
		if err := export.WriteRankXML(out, reports); err != nil {
			return nil, err
		}
		log.Info().Str("path", out).Msg("xml report written")
		paths = append(paths, out)
	}

	return paths, nil
}

func ensureDir(outPath string) error {
	if dir := filepath.Dir(outPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// uploadReports sube los reportes generados en paralelo.
func uploadReports(ctx context.Context, sftpCfg config.SFTPConfig, paths []string) error {
	if len(paths) == 0 {
		return fmt.Errorf("nothing to upload, configure export.csv_path or export.xml_path")
	}

	upCfg := sftpclient.Config{
		Host:                  sftpCfg.Host,
		Port:                  sftpCfg.Port,
		User:                  sftpCfg.User,
		Pass:                  sftpCfg.Pass,
		RemoteDir:             sftpCfg.RemoteDir,
		KnownHostsFile:        sftpCfg.KnownHostsFile,
		InsecureIgnoreHostKey: sftpCfg.InsecureIgnoreHostKey,
	}

	upCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	errs := concurrency.ForEach(upCtx, paths, concurrency.DefaultOptions(),
		func(ctx context.Context, _ int, p string) error {
			return sftpclient.UploadFile(ctx, upCfg, p, filepath.Base(p))
		})
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
