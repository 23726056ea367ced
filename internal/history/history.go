// Package history persists score runs so successive analyses of the same
// directory can be compared. SQLite and PostgreSQL are supported through gorm.
package history

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dshills/codescore/internal/score"
)

// ErrNoHistory is returned by Previous when a directory has no recorded runs.
var ErrNoHistory = errors.New("no recorded runs")

// Run is one recorded analysis.
type Run struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	CreatedAt       time.Time `gorm:"index" json:"created_at"`
	Directory       string    `gorm:"index;not null" json:"directory"`
	Language        string    `json:"language"`
	Analyzer        string    `json:"analyzer"`
	QualityScore    float64   `json:"quality_score"`
	Grade           string    `json:"grade"`
	Errors          int       `json:"errors"`
	Warnings        int       `json:"warnings"`
	Infos           int       `json:"infos"`
	TotalLines      int64     `json:"total_lines"`
	SourceFiles     int       `json:"source_files"`
	TestFiles       int       `json:"test_files"`
	Recommendations string    `json:"recommendations"` // newline separated
}

func (Run) TableName() string { return "score_runs" }

// Store records and queries runs.
type Store struct {
	db *gorm.DB
}

// Dialect reports which driver a DSN selects: "postgres" for postgres:// URLs
// and key=value DSNs containing host=, otherwise "sqlite".
func Dialect(dsn string) string {
	d := strings.TrimSpace(dsn)
	if strings.HasPrefix(d, "postgres://") || strings.HasPrefix(d, "postgresql://") ||
		strings.Contains(d, "host=") {
		return "postgres"
	}
	return "sqlite"
}

// Open connects to the database behind dsn and migrates the runs table.
func Open(dsn string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("history.Open: empty dsn")
	}
	var dialector gorm.Dialector
	if Dialect(dsn) == "postgres" {
		dialector = postgres.Open(dsn)
	} else {
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("history.Open: %w", err)
	}
	if err := db.AutoMigrate(&Run{}); err != nil {
		return nil, fmt.Errorf("history.Open: migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// RunFromReport flattens a report into a Run. Failed reports are rejected.
func RunFromReport(r *score.Report) (Run, error) {
	if r.Result.Failed() {
		return Run{}, fmt.Errorf("history: cannot record failed result: %s", r.Result.Error)
	}
	return Run{
		Directory:       r.Input.Directory,
		Language:        r.Input.Language,
		Analyzer:        r.Input.Analyzer,
		QualityScore:    r.Result.QualityScore,
		Grade:           score.Grade(r.Result.QualityScore),
		Errors:          r.Counts.Errors,
		Warnings:        r.Counts.Warnings,
		Infos:           r.Counts.Infos,
		TotalLines:      r.Metrics.TotalLines,
		SourceFiles:     r.Metrics.SourceFileCount,
		TestFiles:       r.Metrics.TestFileCount,
		Recommendations: strings.Join(r.Result.Recommendations, "\n"),
	}, nil
}

// Record stores a run for the report and returns it with ID and CreatedAt set.
func (s *Store) Record(ctx context.Context, r *score.Report) (Run, error) {
	run, err := RunFromReport(r)
	if err != nil {
		return Run{}, err
	}
	if err := s.db.WithContext(ctx).Create(&run).Error; err != nil {
		return Run{}, fmt.Errorf("history.Record: %w", err)
	}
	return run, nil
}

// List returns up to limit runs, newest first. An empty dir lists every
// directory; limit <= 0 means no limit.
func (s *Store) List(ctx context.Context, dir string, limit int) ([]Run, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC").Order("id DESC")
	if dir != "" {
		q = q.Where("directory = ?", dir)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var runs []Run
	if err := q.Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("history.List: %w", err)
	}
	return runs, nil
}

// Previous returns the most recent run for dir.
func (s *Store) Previous(ctx context.Context, dir string) (Run, error) {
	var run Run
	err := s.db.WithContext(ctx).
		Where("directory = ?", dir).
		Order("created_at DESC").Order("id DESC").
		First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Run{}, ErrNoHistory
	}
	if err != nil {
		return Run{}, fmt.Errorf("history.Previous: %w", err)
	}
	return run, nil
}

// RecommendationList splits the stored recommendations.
func (r Run) RecommendationList() []string {
	if r.Recommendations == "" {
		return []string{}
	}
	return strings.Split(r.Recommendations, "\n")
}
