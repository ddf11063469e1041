// Package siteservice owns the live content stores and serves resolved
// section view-models to the transport layers.
package siteservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/starford/vitrine/internal/apperr"
	"github.com/starford/vitrine/internal/checksum"
	"github.com/starford/vitrine/internal/content"
	"github.com/starford/vitrine/internal/livestore"
	"github.com/starford/vitrine/internal/models"
	"github.com/starford/vitrine/internal/reveal"
	"github.com/starford/vitrine/internal/source"
)

// Publisher receives a notification for every section whose view-model
// changed after a refresh.
type Publisher interface {
	PublishSectionEvent(key string, version uint64)
}

// Option configures a Service.
type Option func(*Service)

// WithInterval sets the polling cadence of both stores.
func WithInterval(d time.Duration) Option {
	return func(s *Service) { s.interval = d }
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithPublisher sets the change publisher.
func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.pub = p }
}

// Service keeps the configuration and expertise snapshots fresh and derives
// views from them on demand.
type Service struct {
	interval time.Duration
	logger   *slog.Logger
	pub      Publisher

	configs *livestore.ConfigStore
	cards   *livestore.ExpertiseStore

	diffMu sync.Mutex
	sums   map[string]string // per-section digest of the last published view
}

// New creates a service reading from src. Polling starts with Start.
func New(src source.Source, opts ...Option) *Service {
	s := &Service{
		interval: livestore.DefaultInterval,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	s.configs = livestore.NewConfigStore(src,
		livestore.WithInterval[models.ConfigRecord](s.interval),
		livestore.WithLogger[models.ConfigRecord](s.logger),
		livestore.WithOnChange(func(livestore.Snapshot[models.ConfigRecord]) { s.contentChanged() }),
	)
	s.cards = livestore.NewExpertiseStore(src,
		livestore.WithInterval[models.ExpertiseCard](s.interval),
		livestore.WithLogger[models.ExpertiseCard](s.logger),
		livestore.WithOnChange(func(livestore.Snapshot[models.ExpertiseCard]) { s.contentChanged() }),
	)

	s.sums = sectionSums(content.Resolve(nil, nil), s.logger)
	return s
}

// Start begins polling both collections.
func (s *Service) Start(ctx context.Context) {
	s.configs.Start(ctx)
	s.cards.Start(ctx)
}

// Stop ends polling and waits for both loops to exit.
func (s *Service) Stop() {
	s.configs.Stop()
	s.cards.Stop()
}

// Refresh fetches both collections now. Each store keeps its previous
// snapshot if its fetch fails.
func (s *Service) Refresh(ctx context.Context) error {
	return errors.Join(s.configs.Refresh(ctx), s.cards.Refresh(ctx))
}

// FileChanged refreshes the store backed by the named content file. It is
// the callback of source.Watch.
func (s *Service) FileChanged(name string) {
	ctx := context.Background()
	var err error
	switch name {
	case source.ConfigFile:
		err = s.configs.Refresh(ctx)
	case source.ExpertiseFile:
		err = s.cards.Refresh(ctx)
	default:
		return
	}
	if err != nil {
		s.logger.Warn("refresh after file change failed",
			slog.String("file", name),
			slog.String("error", err.Error()))
	}
}

// View resolves the page from the current snapshots.
func (s *Service) View() content.View {
	return content.Resolve(s.configs.Items(), s.cards.Items())
}

// Section resolves one section by key.
func (s *Service) Section(key string) (any, error) {
	sec, ok := s.View().Section(key)
	if !ok {
		return nil, fmt.Errorf("section %q: %w", key, apperr.ErrNotFound)
	}
	return sec, nil
}

// Expertise returns the active expertise cards in display order.
func (s *Service) Expertise() []content.Card {
	return content.ResolveCards(s.cards.Items())
}

// Choreography returns the entrance motions of a section sized to the cards
// it currently shows.
func (s *Service) Choreography(key string) ([]reveal.Motion, error) {
	v := s.View()
	if _, ok := v.Section(key); !ok {
		return nil, fmt.Errorf("section %q: %w", key, apperr.ErrNotFound)
	}
	return content.Choreography(key, len(v.Specialization.Cards)), nil
}

// Version is a counter that grows with every completed refresh of either
// collection.
func (s *Service) Version() uint64 {
	return s.configs.Snapshot().Version + s.cards.Snapshot().Version
}

// Status reports the state of both stores.
func (s *Service) Status() []livestore.Status {
	return []livestore.Status{s.configs.Status(), s.cards.Status()}
}

// contentChanged recomputes the view after a snapshot change and publishes
// one event per section whose view-model differs from the last one seen.
func (s *Service) contentChanged() {
	s.diffMu.Lock()
	defer s.diffMu.Unlock()

	sums := sectionSums(s.View(), s.logger)
	version := s.Version()
	for _, key := range content.Keys {
		if sums[key] == s.sums[key] {
			continue
		}
		s.logger.Info("section updated", slog.String("section", key), slog.Uint64("version", version))
		if s.pub != nil {
			s.pub.PublishSectionEvent(key, version)
		}
	}
	s.sums = sums
}

func sectionSums(v content.View, logger *slog.Logger) map[string]string {
	out := make(map[string]string, len(content.Keys))
	for key, sec := range v.Map() {
		sum, err := checksum.Of(sec)
		if err != nil {
			logger.Error("section digest failed", slog.String("section", key), slog.String("error", err.Error()))
			continue
		}
		out[key] = sum
	}
	return out
}
