// Package cli implements the visearch command surface. Commands translate
// every error into a message and a non-zero exit; they never recover or
// retry on behalf of the caller.
package cli

import (
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/spf13/cobra"

	"visearch/internal/audit"
	badgerstore "visearch/internal/catalog/badger"
	"visearch/internal/config"
	"visearch/internal/embedding"
	"visearch/internal/embedding/histogram"
	"visearch/internal/embedding/remote"
	"visearch/internal/obs"
	"visearch/internal/service"
)

var (
	cfgPath string
	dbDir   string
)

var rootCmd = &cobra.Command{
	Use:   "visearch",
	Short: "Product catalog with visual similarity search",
	Long: `visearch keeps a product catalog where every product carries one or
more image embeddings, and answers "which product looks like this?"
queries ranked by cosine similarity and euclidean distance.

Examples:
  # Initialize the catalog database
  visearch init

  # Add a product with images
  visearch add --name "Sneaker X" --price 99.99 --amount 12 --image front.png --image side.png

  # Attach more images to an existing product
  visearch add-images --product-id 1 --image back.png

  # Find the closest product to a query image
  visearch query --image mystery.jpg

  # Interactive query session
  visearch query`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to YAML config (default: ./visearch.yaml, then ~/.config/visearch/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbDir, "db", "", "override the catalog database directory")
}

// appEnv bundles the opened database and the services built on top of it.
type appEnv struct {
	cfg   *config.AppConfig
	db    *badger.DB
	store *badgerstore.Store
	audit *audit.Log
	svc   *service.Service
}

// openEnv loads config, opens the badger database and assembles the
// retrieval service. Callers must close() it.
func openEnv() (*appEnv, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	obs.Init(cfg.Log.Level)

	dir := cfg.Store.Dir
	if dbDir != "" {
		dir = dbDir
	}
	db, err := badgerstore.OpenDB(dir, false)
	if err != nil {
		return nil, fmt.Errorf("open catalog database at %s: %w", dir, err)
	}
	store, err := badgerstore.New(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	provider, err := newProvider(cfg)
	if err != nil {
		store.Close()
		db.Close()
		return nil, err
	}
	log := audit.New(db)
	svc := service.New(provider, store, log, cfg.Search.TopK)
	return &appEnv{cfg: cfg, db: db, store: store, audit: log, svc: svc}, nil
}

func (e *appEnv) close() {
	e.store.Close()
	e.db.Close()
}

func loadConfig() (*config.AppConfig, error) {
	if cfgPath != "" {
		return config.Load(cfgPath)
	}
	cfg, _, err := config.LoadDefault()
	return cfg, err
}

func newProvider(cfg *config.AppConfig) (embedding.Provider, error) {
	switch cfg.Embedder.Type {
	case "histogram", "":
		return histogram.New(), nil
	case "remote":
		if cfg.Embedder.Remote == nil {
			return nil, fmt.Errorf("remote embedder selected but not configured")
		}
		return remote.New(remote.Config{
			BaseURL:   cfg.Embedder.Remote.BaseURL,
			APIKeyEnv: cfg.Embedder.Remote.APIKeyEnv,
			Model:     cfg.Embedder.Remote.Model,
			Timeout:   time.Duration(cfg.Embedder.Remote.TimeoutSecs) * time.Second,
		})
	default:
		return nil, fmt.Errorf("unknown embedder: %s", cfg.Embedder.Type)
	}
}
