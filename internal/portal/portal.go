// Package portal wires the portal's components into one value shared by the
// HTTP layer and the background jobs.
package portal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"github.com/farellandr/certportal/config"
	"github.com/farellandr/certportal/internal/auth"
	"github.com/farellandr/certportal/internal/cache"
	"github.com/farellandr/certportal/internal/certificate"
	"github.com/farellandr/certportal/internal/domain"
	"github.com/farellandr/certportal/internal/helpers"
	"github.com/farellandr/certportal/internal/importer"
	"github.com/farellandr/certportal/internal/repository"
	"github.com/farellandr/certportal/internal/scheduler"
	"github.com/farellandr/certportal/internal/state"
)

type Portal struct {
	Config    *config.Config
	Logger    *slog.Logger
	Cache     cache.Cache
	Repo      *repository.Repository
	Store     *state.Store
	Outbox    *state.Outbox
	Auth      *auth.Service
	Importer  *importer.Importer
	Exporter  *certificate.Exporter
	Signer    *helpers.CertificateSigner
	Scheduler *scheduler.Scheduler

	stop context.CancelFunc
}

func New(cfg *config.Config, db *gorm.DB, logger *slog.Logger) (*Portal, error) {
	c, err := cache.New(cache.Config{RedisURL: cfg.RedisURL, Prefix: cfg.CachePrefix})
	if err != nil {
		return nil, fmt.Errorf("initializing cache: %w", err)
	}

	renderer, err := certificate.NewRenderer(certificate.RendererOptions{
		Locale:   certificate.ParseLocale(cfg.Locale),
		Sanitize: cfg.SanitizeTemplates,
	})
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	var snapshots state.Repository = state.NewCacheRepository(c)
	if cfg.StateFile != "" {
		snapshots = state.NewFileRepository(cfg.StateFile)
	}
	if cfg.RedisURL == "" && cfg.StateFile == "" {
		logger.Warn("state snapshot and token revocations are kept in memory and will not survive a restart; set REDIS_URL or STATE_FILE")
	}

	signer := helpers.NewCertificateSigner(cfg.JWTSecret)
	exporter := certificate.NewExporter(renderer, float64(cfg.ExportScale), logger)
	if base := strings.TrimRight(cfg.PublicBaseURL, "/"); base != "" {
		exporter.WithVerifyLink(func(p domain.Participant) string {
			return base + signer.Link(p.ID, p.Email, certificate.FormatPreview)
		})
	}

	repo := repository.New(db)
	outbox := state.NewOutbox(repo, logger, state.DefaultMaxAttempts)
	store := state.NewStore(snapshots, outbox, logger)

	return &Portal{
		Config:    cfg,
		Logger:    logger,
		Cache:     c,
		Repo:      repo,
		Store:     store,
		Outbox:    outbox,
		Auth:      auth.NewService(repo, c, cfg.JWTSecret, cfg.JWTTTL),
		Importer:  importer.New(repo, logger),
		Exporter:  exporter,
		Signer:    signer,
		Scheduler: scheduler.New(outbox, store, repo, logger),
	}, nil
}

// Start restores the saved snapshot, seeds the first admin, refreshes the
// state from the database and starts the background workers.
func (p *Portal) Start(ctx context.Context) error {
	if err := p.Store.Load(ctx); err != nil {
		p.Logger.Warn("ignoring unreadable state snapshot", "error", err)
	}

	created, err := p.Auth.SeedAdmin(ctx, p.Config.AdminName, p.Config.AdminEmail, p.Config.AdminPassword)
	if err != nil {
		return fmt.Errorf("seeding admin: %w", err)
	}
	if created {
		p.Logger.Info("seeded administrator account", "email", p.Config.AdminEmail)
	}

	if err := p.Scheduler.Rehydrate(ctx); err != nil {
		return fmt.Errorf("loading state: %w", err)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	p.stop = cancel
	go p.Outbox.Run(runCtx)

	return p.Scheduler.Start()
}

// Close stops the workers, flushes what it can and releases the cache.
func (p *Portal) Close(ctx context.Context) error {
	if p.stop != nil {
		p.Scheduler.Stop()
		p.stop()
	}
	if n := len(p.Outbox.Pending()); n > 0 {
		synced := p.Outbox.Flush(ctx)
		if synced < n {
			p.Logger.Warn("unsynced outbox ops at shutdown", "pending", n-synced)
		}
	}
	return p.Cache.Close()
}

// Certificate assembles the certificate for one participant from the
// database.
func (p *Portal) Certificate(ctx context.Context, participant domain.Participant) (domain.Certificate, error) {
	event, err := p.Repo.GetEvent(ctx, participant.EventID)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Certificate{}, certificate.ErrUnknownEvent
	}
	if err != nil {
		return domain.Certificate{}, err
	}
	templates, err := p.Repo.TemplatesForCategory(ctx, participant.CategoryID)
	if err != nil {
		return domain.Certificate{}, err
	}
	return certificate.Assemble(participant, []domain.Event{event}, templates)
}
