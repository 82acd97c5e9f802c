package duckdb

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ReportInfo describes a cached assembly report.
type ReportInfo struct {
	Accession string
	SourceURL string
	FetchedAt time.Time
	Rows      int
}

// PutReport stores the rows of an assembly report, replacing any earlier copy.
func (s *Store) PutReport(info ReportInfo, rows []string) error {
	if info.FetchedAt.IsZero() {
		info.FetchedAt = time.Now()
	}
	_, err := s.db.Exec(`INSERT OR REPLACE INTO assembly_reports
		(accession, source_url, fetched_at, row_count, body) VALUES (?, ?, ?, ?, ?)`,
		info.Accession, info.SourceURL, info.FetchedAt.UTC(), len(rows), strings.Join(rows, "\n"))
	if err != nil {
		return fmt.Errorf("store report %s: %w", info.Accession, err)
	}
	return nil
}

// GetReport returns the cached rows for accession. found is false on a cache miss.
func (s *Store) GetReport(accession string) (rows []string, found bool, err error) {
	var body string
	err = s.db.QueryRow(`SELECT body FROM assembly_reports WHERE accession = ?`, accession).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query report %s: %w", accession, err)
	}
	if body == "" {
		return []string{}, true, nil
	}
	return strings.Split(body, "\n"), true, nil
}

// ListReports returns all cached reports ordered by accession.
func (s *Store) ListReports() ([]ReportInfo, error) {
	rows, err := s.db.Query(`SELECT accession, source_url, fetched_at, row_count
		FROM assembly_reports ORDER BY accession`)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer rows.Close()

	var infos []ReportInfo
	for rows.Next() {
		var info ReportInfo
		if err := rows.Scan(&info.Accession, &info.SourceURL, &info.FetchedAt, &info.Rows); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}
	return infos, nil
}

// DeleteReport removes one cached report.
func (s *Store) DeleteReport(accession string) error {
	_, err := s.db.Exec(`DELETE FROM assembly_reports WHERE accession = ?`, accession)
	return err
}

// ClearReports removes all cached reports.
func (s *Store) ClearReports() error {
	_, err := s.db.Exec("DELETE FROM assembly_reports")
	return err
}
