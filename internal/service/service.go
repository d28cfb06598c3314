package service

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/mkotlarz/streampulse/internal/analytics"
	"github.com/mkotlarz/streampulse/internal/config"
	"github.com/mkotlarz/streampulse/internal/dataset"
	"github.com/mkotlarz/streampulse/internal/persistence"
	"github.com/mkotlarz/streampulse/pkg/log"
)

// Service owns the active dataset snapshot. Every reload or upload swaps
// the whole table behind the lock and bumps the version; readers always see
// a consistent snapshot.
type Service struct {
	cfg   *config.Config
	store *persistence.SQLiteStore
	cron  *cron.Cron

	mu      sync.RWMutex
	table   *dataset.Table
	meta    Meta
	version uint64
}

// Meta describes the active dataset for /api/meta.
type Meta struct {
	DatasetID   string    `json:"dataset_id"`
	Name        string    `json:"name"`
	Source      string    `json:"source"`
	Rows        int       `json:"rows"`
	Version     uint64    `json:"version"`
	LoadedAt    time.Time `json:"loaded_at"`
	MinDate     time.Time `json:"min_date,omitempty"`
	MaxDate     time.Time `json:"max_date,omitempty"`
	RefreshCron string    `json:"refresh_cron,omitempty"`
	NextRefresh time.Time `json:"next_refresh,omitempty"`
}

func New(cfg *config.Config, store *persistence.SQLiteStore) *Service {
	return &Service{
		cfg:   cfg,
		store: store,
		cron:  cron.New(),
	}
}

// Start restores the last active stored dataset, falling back to the
// bundled CSV file, and schedules the periodic file reload.
func (s *Service) Start(ctx context.Context) error {
	stored, err := s.store.ActiveDataset(ctx)
	if err != nil {
		return fmt.Errorf("restore active dataset: %w", err)
	}

	if stored != nil {
		table, err := dataset.Load(bytes.NewReader(stored.CSV), s.loadOptions())
		if err != nil {
			log.Warn("stored dataset %s is unreadable (%v), falling back to bundled file", stored.ID, err)
			stored = nil
		} else {
			s.swap(table, stored.ID, stored.Name, stored.Source)
			log.Info("restored dataset %q (%d rows)", stored.Name, table.Len())
		}
	}

	if stored == nil {
		if err := s.loadBundled(ctx); err != nil {
			return err
		}
	}

	if expr := s.cfg.Dataset.RefreshCron; expr != "" {
		if _, err := s.cron.AddFunc(expr, func() {
			if err := s.RefreshFromFile(context.Background()); err != nil {
				log.Error("scheduled dataset refresh failed: %v", err)
			}
		}); err != nil {
			return fmt.Errorf("schedule refresh: %w", err)
		}
		s.cron.Start()
	}
	return nil
}

// Stop halts the refresh schedule and waits for a running job to finish.
func (s *Service) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// loadBundled reads the configured CSV file, persists it as the bundled
// dataset and makes it active.
func (s *Service) loadBundled(ctx context.Context) error {
	data, err := os.ReadFile(s.cfg.Dataset.Path)
	if err != nil {
		return fmt.Errorf("read bundled dataset: %w", err)
	}
	table, err := dataset.Load(bytes.NewReader(data), s.loadOptions())
	if err != nil {
		return fmt.Errorf("parse bundled dataset: %w", err)
	}

	name := s.cfg.Dataset.Name
	if name == "" {
		name = filepath.Base(s.cfg.Dataset.Path)
	}
	stored := persistence.Dataset{
		ID:         uuid.NewString(),
		Name:       name,
		Source:     "bundled",
		CSV:        data,
		RowCount:   table.Len(),
		UploadedAt: time.Now(),
		Active:     true,
	}
	if err := s.store.SaveDataset(ctx, stored); err != nil {
		return fmt.Errorf("persist bundled dataset: %w", err)
	}
	s.swap(table, stored.ID, stored.Name, stored.Source)
	log.Info("loaded bundled dataset %q (%d rows)", name, table.Len())
	return nil
}

// RefreshFromFile re-reads the bundled CSV path. It only applies when the
// active dataset is the bundled one; an uploaded dataset stays active until
// the user switches back.
func (s *Service) RefreshFromFile(ctx context.Context) error {
	s.mu.RLock()
	id, source := s.meta.DatasetID, s.meta.Source
	s.mu.RUnlock()
	if source != "bundled" {
		log.Debug("skipping scheduled refresh: active dataset is %s", source)
		return nil
	}

	data, err := os.ReadFile(s.cfg.Dataset.Path)
	if err != nil {
		return fmt.Errorf("read bundled dataset: %w", err)
	}
	table, err := dataset.Load(bytes.NewReader(data), s.loadOptions())
	if err != nil {
		return fmt.Errorf("parse bundled dataset: %w", err)
	}
	if err := s.store.UpdateDatasetCSV(ctx, id, data, table.Len()); err != nil {
		return err
	}

	s.mu.RLock()
	name := s.meta.Name
	s.mu.RUnlock()
	s.swap(table, id, name, "bundled")
	log.Info("refreshed bundled dataset (%d rows)", table.Len())
	return nil
}

// UploadCSV parses an uploaded CSV, persists it and makes it active.
func (s *Service) UploadCSV(ctx context.Context, name string, data []byte) (persistence.Dataset, error) {
	table, err := dataset.Load(bytes.NewReader(data), s.loadOptions())
	if err != nil {
		return persistence.Dataset{}, err
	}
	if strings.TrimSpace(name) == "" {
		name = "upload " + time.Now().Format("2006-01-02 15:04")
	}

	stored := persistence.Dataset{
		ID:         uuid.NewString(),
		Name:       name,
		Source:     "upload",
		CSV:        data,
		RowCount:   table.Len(),
		UploadedAt: time.Now(),
		Active:     true,
	}
	if err := s.store.SaveDataset(ctx, stored); err != nil {
		return persistence.Dataset{}, fmt.Errorf("persist upload: %w", err)
	}
	s.swap(table, stored.ID, stored.Name, stored.Source)
	log.Info("activated uploaded dataset %q (%d rows)", name, table.Len())
	return stored, nil
}

// ActivateDataset switches the active dataset to a stored one.
func (s *Service) ActivateDataset(ctx context.Context, id string) error {
	stored, err := s.store.GetDataset(ctx, id)
	if err != nil {
		return fmt.Errorf("dataset %s not found", id)
	}
	table, err := dataset.Load(bytes.NewReader(stored.CSV), s.loadOptions())
	if err != nil {
		return fmt.Errorf("parse dataset %s: %w", id, err)
	}
	if err := s.store.SetActiveDataset(ctx, id); err != nil {
		return err
	}
	s.swap(table, stored.ID, stored.Name, stored.Source)
	log.Info("activated dataset %q (%d rows)", stored.Name, table.Len())
	return nil
}

// Snapshot returns the active table and its descriptor. The table is
// immutable; callers may hold it across the request without locking.
func (s *Service) Snapshot() (*dataset.Table, Meta) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table, s.meta
}

// Version returns the current dataset version for the SSE feed.
func (s *Service) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Store exposes the persistence layer to the API for listing datasets and
// presets.
func (s *Service) Store() *persistence.SQLiteStore {
	return s.store
}

// Filter applies a predicate against the current snapshot.
func (s *Service) Filter(f analytics.Filter) analytics.View {
	table, _ := s.Snapshot()
	return analytics.Apply(table, f)
}

func (s *Service) loadOptions() dataset.LoadOptions {
	return dataset.LoadOptions{
		HolidayDates:  s.cfg.HolidayTimes(),
		HolidayWindow: s.cfg.Dataset.HolidayWindow,
	}
}

func (s *Service) swap(table *dataset.Table, id, name, source string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.version++
	s.table = table
	s.meta = Meta{
		DatasetID:   id,
		Name:        name,
		Source:      source,
		Rows:        table.Len(),
		Version:     s.version,
		LoadedAt:    time.Now(),
		RefreshCron: s.cfg.Dataset.RefreshCron,
	}
	if min, max, ok := table.DateRange(); ok {
		s.meta.MinDate = min
		s.meta.MaxDate = max
	}
}
