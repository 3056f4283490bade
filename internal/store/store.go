// Package store persists geometry analyses and quote history in SQLite.
// Catalogs are deliberately not stored: they are immutable in-process
// configuration.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/shmcrekt/legendary-barnacle/internal/geometry"
	"github.com/shmcrekt/legendary-barnacle/internal/quote"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Store wraps the application database.
type Store struct {
	db *sql.DB
}

// New returns a Store over an open database.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Analysis is one persisted geometry estimate. A re-analysis of the same
// part inserts a new row; readers of LatestAnalysisForFile get
// last-result-wins semantics.
type Analysis struct {
	ID        string            `json:"id"`
	Filename  string            `json:"filename"`
	Format    geometry.Format   `json:"format"`
	Estimate  geometry.Estimate `json:"estimate"`
	CreatedAt string            `json:"created_at"`
}

// SaveAnalysis inserts a new analysis row and returns it with its generated ID.
func (s *Store) SaveAnalysis(ctx context.Context, filename string, format geometry.Format, est geometry.Estimate) (Analysis, error) {
	a := Analysis{
		ID:       uuid.NewString(),
		Filename: filename,
		Format:   format,
		Estimate: est,
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO analyses (id, filename, format, volume_cm3, length_mm, width_mm, height_mm, wall_thickness_mm, accuracy_tier, source_note)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING created_at
	`, a.ID, a.Filename, string(a.Format), est.VolumeCm3, est.LengthMm, est.WidthMm, est.HeightMm,
		est.WallThicknessMm, string(est.Tier), est.SourceNote).Scan(&a.CreatedAt)
	if err != nil {
		return Analysis{}, fmt.Errorf("insert analysis: %w", err)
	}

	return a, nil
}

// GetAnalysis loads one analysis by ID.
func (s *Store) GetAnalysis(ctx context.Context, id string) (Analysis, error) {
	return s.scanAnalysis(s.db.QueryRowContext(ctx, `
		SELECT id, filename, format, volume_cm3, length_mm, width_mm, height_mm, wall_thickness_mm, accuracy_tier, source_note, created_at
		FROM analyses
		WHERE id = ?
	`, id))
}

// LatestAnalysisForFile returns the most recent analysis of a filename.
// Concurrent analyses of the same part are independent in-flight operations;
// whichever commits last is the one this returns.
func (s *Store) LatestAnalysisForFile(ctx context.Context, filename string) (Analysis, error) {
	return s.scanAnalysis(s.db.QueryRowContext(ctx, `
		SELECT id, filename, format, volume_cm3, length_mm, width_mm, height_mm, wall_thickness_mm, accuracy_tier, source_note, created_at
		FROM analyses
		WHERE filename = ?
		ORDER BY datetime(created_at) DESC, rowid DESC
		LIMIT 1
	`, filename))
}

func (s *Store) scanAnalysis(row *sql.Row) (Analysis, error) {
	var a Analysis
	var format, tier string
	err := row.Scan(&a.ID, &a.Filename, &format,
		&a.Estimate.VolumeCm3, &a.Estimate.LengthMm, &a.Estimate.WidthMm, &a.Estimate.HeightMm,
		&a.Estimate.WallThicknessMm, &tier, &a.Estimate.SourceNote, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Analysis{}, ErrNotFound
	}
	if err != nil {
		return Analysis{}, fmt.Errorf("scan analysis: %w", err)
	}
	a.Format = geometry.Format(format)
	a.Estimate.Tier = geometry.Tier(tier)
	return a, nil
}

// Quote is one persisted quote with the selections that produced it.
type Quote struct {
	ID          string       `json:"id"`
	AnalysisID  string       `json:"analysis_id,omitempty"`
	Title       string       `json:"title,omitempty"`
	Notes       string       `json:"notes,omitempty"`
	MaterialID  string       `json:"material_id"`
	ColorID     string       `json:"color_id"`
	CavityCount int          `json:"cavity_count"`
	Result      quote.Result `json:"result"`
	CreatedAt   string       `json:"created_at"`
}

// SaveQuote inserts a quote row, storing the full result as JSON alongside
// the total for cheap listing.
func (s *Store) SaveQuote(ctx context.Context, q Quote) (Quote, error) {
	q.ID = uuid.NewString()

	resultJSON, err := json.Marshal(q.Result)
	if err != nil {
		return Quote{}, fmt.Errorf("marshal quote result: %w", err)
	}

	var analysisID any
	if q.AnalysisID != "" {
		analysisID = q.AnalysisID
	}

	err = s.db.QueryRowContext(ctx, `
		INSERT INTO quotes (id, analysis_id, title, notes, material_id, color_id, cavity_count, result_json, total_cost_per_part)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING created_at
	`, q.ID, analysisID, q.Title, q.Notes, q.MaterialID, q.ColorID, q.CavityCount,
		string(resultJSON), q.Result.TotalCostPerPart).Scan(&q.CreatedAt)
	if err != nil {
		return Quote{}, fmt.Errorf("insert quote: %w", err)
	}

	return q, nil
}

// GetQuote loads one quote by ID.
func (s *Store) GetQuote(ctx context.Context, id string) (Quote, error) {
	var q Quote
	var analysisID, title, notes sql.NullString
	var resultJSON string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, analysis_id, title, notes, material_id, color_id, cavity_count, result_json, created_at
		FROM quotes
		WHERE id = ?
	`, id).Scan(&q.ID, &analysisID, &title, &notes, &q.MaterialID, &q.ColorID, &q.CavityCount, &resultJSON, &q.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Quote{}, ErrNotFound
	}
	if err != nil {
		return Quote{}, fmt.Errorf("scan quote: %w", err)
	}

	q.AnalysisID = analysisID.String
	q.Title = title.String
	q.Notes = notes.String
	if err := json.Unmarshal([]byte(resultJSON), &q.Result); err != nil {
		return Quote{}, fmt.Errorf("unmarshal quote result: %w", err)
	}
	return q, nil
}

// QuoteListItem is one row of the quote history listing.
type QuoteListItem struct {
	ID               string  `json:"id"`
	CreatedAt        string  `json:"created_at"`
	Title            string  `json:"title"`
	TotalCostPerPart float64 `json:"total_cost_per_part"`
}

// ListQuotes returns quote history, newest first, optionally filtered by a
// substring match on title or notes.
func (s *Store) ListQuotes(ctx context.Context, query string) ([]QuoteListItem, error) {
	search := "%" + query + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, COALESCE(title, ''), total_cost_per_part
		FROM quotes
		WHERE (? = '' OR COALESCE(title, '') LIKE ? OR COALESCE(notes, '') LIKE ?)
		ORDER BY datetime(created_at) DESC, rowid DESC
	`, query, search, search)
	if err != nil {
		return nil, fmt.Errorf("query quotes: %w", err)
	}
	defer rows.Close()

	quotes := make([]QuoteListItem, 0)
	for rows.Next() {
		var item QuoteListItem
		if err := rows.Scan(&item.ID, &item.CreatedAt, &item.Title, &item.TotalCostPerPart); err != nil {
			return nil, fmt.Errorf("scan quote row: %w", err)
		}
		quotes = append(quotes, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quotes: %w", err)
	}

	return quotes, nil
}
