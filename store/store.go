// Package store persists drawings and opening records in SQLite through gorm.
package store

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/zooyer/dxfwin/core"
	"github.com/zooyer/dxfwin/errors"
)

// ErrNotFound is wrapped by every lookup that matched no row
var ErrNotFound = errors.NewStd("record not found")

// Store is safe for concurrent use
type Store struct {
	db *gorm.DB
}

func createGormLogger() logger.Interface {
	return logger.New(
		log.New(os.Stderr, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)
}

// Open opens (creating if needed) the SQLite database at path and migrates the schema
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.Newf("database path is empty").
			Component("store").
			Category(errors.CategoryConfiguration).
			Build()
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.New(fmt.Errorf("failed to create database directory: %w", err)).
				Component("store").
				Category(errors.CategoryFileIO).
				Context("path", path).
				Build()
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: createGormLogger()})
	if err != nil {
		return nil, dbError(fmt.Errorf("failed to open SQLite database: %w", err), "open")
	}

	if err = db.AutoMigrate(&Drawing{}, &Window{}); err != nil {
		return nil, dbError(fmt.Errorf("failed to migrate schema: %w", err), "migrate")
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return dbError(err, "close")
	}
	return sqlDB.Close()
}

func dbError(err error, operation string) error {
	return errors.New(err).
		Component("store").
		Category(errors.CategoryDatabase).
		Context("operation", operation).
		Build()
}

func notFound(id string) error {
	return errors.New(fmt.Errorf("%w: window %s", ErrNotFound, id)).
		Component("store").
		Category(errors.CategoryNotFound).
		Context("id", id).
		Build()
}

func validateWindow(w *Window) error {
	if strings.TrimSpace(w.Name) == "" {
		return errors.Newf("window name must not be empty").
			Component("store").
			Category(errors.CategoryValidation).
			Build()
	}
	return nil
}

// prepare assigns id, timestamps and defaults before insert
func prepare(w *Window, now time.Time) error {
	if err := validateWindow(w); err != nil {
		return err
	}
	w.ID = uuid.NewString()
	w.CreatedAt = now
	if w.Category == "" {
		w.Category = "默认"
	}
	if w.Points == nil {
		w.Points = []core.Point{}
	}
	return nil
}

// CreateDrawing stores a drawing together with its windows in one transaction
func (s *Store) CreateDrawing(ctx context.Context, d *Drawing, windows []Window) (*Drawing, error) {
	now := time.Now()

	d.ID = uuid.NewString()
	d.CreatedAt = now
	d.WindowCount = len(windows)
	d.TotalArea = 0
	for i := range windows {
		if err := prepare(&windows[i], now); err != nil {
			return nil, err
		}
		windows[i].DrawingID = &d.ID
		d.TotalArea += windows[i].Area
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Windows").Create(d).Error; err != nil {
			return err
		}
		if len(windows) > 0 {
			return tx.Create(&windows).Error
		}
		return nil
	})
	if err != nil {
		return nil, dbError(err, "create_drawing")
	}

	d.Windows = windows
	return d, nil
}

// ListDrawings returns drawings newest first
func (s *Store) ListDrawings(ctx context.Context) ([]Drawing, error) {
	var drawings = make([]Drawing, 0)
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&drawings).Error; err != nil {
		return nil, dbError(err, "list_drawings")
	}
	return drawings, nil
}

// ListWindows returns windows in insertion order, optionally filtered by drawing
func (s *Store) ListWindows(ctx context.Context, drawingID string) ([]Window, error) {
	var (
		windows = make([]Window, 0)
		query   = s.db.WithContext(ctx).Order("created_at ASC").Order("rowid ASC")
	)
	if drawingID != "" {
		query = query.Where("drawing_id = ?", drawingID)
	}
	if err := query.Find(&windows).Error; err != nil {
		return nil, dbError(err, "list_windows")
	}
	return windows, nil
}

func (s *Store) GetWindow(ctx context.Context, id string) (*Window, error) {
	var w Window
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, dbError(err, "get_window")
	}
	return &w, nil
}

func (s *Store) CreateWindow(ctx context.Context, w *Window) error {
	if err := prepare(w, time.Now()); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(w).Error; err != nil {
		return dbError(err, "create_window")
	}
	return nil
}

// ReplaceWindows clears all windows and inserts the given ones in one transaction
func (s *Store) ReplaceWindows(ctx context.Context, windows []Window) ([]Window, error) {
	now := time.Now()
	for i := range windows {
		if err := prepare(&windows[i], now); err != nil {
			return nil, err
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&Window{}).Error; err != nil {
			return err
		}
		if len(windows) > 0 {
			return tx.Create(&windows).Error
		}
		return nil
	})
	if err != nil {
		return nil, dbError(err, "replace_windows")
	}
	return windows, nil
}

// UpdateWindow applies a partial update and returns the stored row
func (s *Store) UpdateWindow(ctx context.Context, id string, patch WindowPatch) (*Window, error) {
	var w Window
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&w).Error; err != nil {
			return err
		}
		patch.Apply(&w)
		if err := validateWindow(&w); err != nil {
			return err
		}
		return tx.Save(&w).Error
	})

	switch {
	case err == nil:
		return &w, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, notFound(id)
	case errors.HasCategory(err, errors.CategoryValidation):
		return nil, err
	default:
		return nil, dbError(err, "update_window")
	}
}

func (s *Store) DeleteWindow(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&Window{})
	if res.Error != nil {
		return dbError(res.Error, "delete_window")
	}
	if res.RowsAffected == 0 {
		return notFound(id)
	}
	return nil
}

// DeleteAllWindows removes every window and returns the number removed
func (s *Store) DeleteAllWindows(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Where("1 = 1").Delete(&Window{})
	if res.Error != nil {
		return 0, dbError(res.Error, "delete_all_windows")
	}
	return res.RowsAffected, nil
}
