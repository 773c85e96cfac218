package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"specimenpro/internal/catalog"
	"specimenpro/internal/config"
	"specimenpro/internal/kafka"
	"specimenpro/internal/logger"
	"specimenpro/internal/models"
	"specimenpro/internal/qr"
	"specimenpro/internal/store"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
)

type globalFlags struct {
	document string
	store    string
	baseURL  string
	verbose  bool
}

type commandContext struct {
	flags *globalFlags

	configOnce sync.Once
	config     *config.Config
	configErr  error

	logOutput io.Writer
	log       *logger.Logger

	db       *bun.DB
	producer *kafka.Producer
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags, logOutput: os.Stderr}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		_ = godotenv.Load() // Loads .env file if present

		cfg := config.Load()
		if v := strings.TrimSpace(c.flags.document); v != "" {
			cfg.Document.Path = v
		}
		if v := strings.TrimSpace(c.flags.store); v != "" {
			cfg.Document.Store = strings.ToLower(v)
		}
		if v := strings.TrimSpace(c.flags.baseURL); v != "" {
			cfg.QR.BaseURL = v
		}
		if c.flags.verbose {
			cfg.Log.Level = "debug"
		}
		if err := cfg.Validate(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) logger() *logger.Logger {
	if c.log != nil {
		return c.log
	}
	cfg, _ := c.ensureConfig()
	opts := logger.Options{Name: "specimenctl", Writer: c.logOutput, NoColor: color.NoColor}
	if cfg != nil {
		opts.Dir = cfg.Log.Dir
		opts.MinLevel = logger.ParseLevel(cfg.Log.Level)
	}
	log, err := logger.New(opts)
	if err != nil {
		fmt.Fprintf(c.logOutput, "log file disabled: %v\n", err)
		opts.Dir = ""
		log, _ = logger.New(opts)
	}
	c.log = log
	return c.log
}

// documentStore opens the configured store. The SQLite handle is kept open
// until the command finishes.
func (c *commandContext) documentStore(ctx context.Context) (store.DocumentStore, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Document.Store != "sqlite" {
		return store.NewJSONStore(cfg.Document.Path, c.logger()), nil
	}
	s, err := c.sqliteStore(ctx)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (c *commandContext) sqliteStore(ctx context.Context) (*store.SQLiteStore, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if c.db == nil {
		db, err := store.OpenSQLite(cfg.Document.SQLiteDSN)
		if err != nil {
			return nil, err
		}
		c.db = db
	}
	return store.NewSQLiteStore(ctx, c.db, c.logger())
}

// documentName identifies the document in log lines and notifications.
func (c *commandContext) documentName() string {
	cfg := c.config
	if cfg.Document.Store == "sqlite" {
		return cfg.Document.SQLiteDSN
	}
	return cfg.Document.Path
}

func (c *commandContext) encoder() (*qr.Encoder, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	level, err := qr.ParseLevel(cfg.QR.ErrorCorrection)
	if err != nil {
		return nil, err
	}
	enc := qr.NewEncoder(cfg.QR.BaseURL)
	enc.Level = level
	return enc, nil
}

func (c *commandContext) notifier() *kafka.Producer {
	if c.producer == nil {
		c.producer = kafka.NewProducer(c.config.Kafka, c.logger())
	}
	return c.producer
}

func (c *commandContext) loadDocument(ctx context.Context) (*models.Document, error) {
	s, err := c.documentStore(ctx)
	if err != nil {
		return nil, err
	}
	return s.Load(ctx)
}

// mutate applies fn to the stored document under the store's write lock and
// saves when fn changed anything. A failed notification is logged but does
// not fail the command.
func (c *commandContext) mutate(ctx context.Context, fn func(ed *catalog.Editor) error) error {
	s, err := c.documentStore(ctx)
	if err != nil {
		return err
	}
	saved := false
	doc, err := s.Update(ctx, func(doc *models.Document) error {
		if err := fn(catalog.NewEditor(doc)); err != nil {
			return err
		}
		saved = doc.Dirty()
		return nil
	})
	if err != nil || !saved {
		return err
	}
	if err := c.notifier().PublishDocumentSaved(ctx, c.documentName(), doc); err != nil {
		c.logger().Warn("KAFKA", fmt.Sprintf("document.saved not delivered: %v", err))
	}
	return nil
}

func (c *commandContext) close() {
	if c.producer != nil {
		c.producer.Close()
	}
	if c.db != nil {
		c.db.Close()
	}
	if c.log != nil {
		c.log.Close()
	}
}
