package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// RecordConversion appends c to the history and returns its id. Link is
// normalised and Domain filled in from it when empty.
func (d *DB) RecordConversion(ctx context.Context, c Conversion) (int64, error) {
	if c.Status != StatusSucceeded && c.Status != StatusFailed {
		return 0, fmt.Errorf("invalid conversion status %q", c.Status)
	}
	c.Link = NormalizeLink(c.Link)
	if c.Domain == "" {
		c.Domain = LinkDomain(c.Link)
	}
	var lat, lon, zoom interface{}
	if c.HasPoint {
		lat, lon = c.Lat, c.Lon
	}
	if c.Zoom != 0 {
		zoom = c.Zoom
	}

	var id int64
	err := withTx(ctx, d.sql, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `INSERT INTO conversions(occurred_at, input, text, link, domain, status, failure, lat, lon, name, zoom, q, points) VALUES(CURRENT_TIMESTAMP,?,?,?,?,?,?,?,?,?,?,?,?)`,
			c.Input, c.Text, nullIfEmpty(c.Link), nullIfEmpty(c.Domain), c.Status, nullIfEmpty(c.Failure), lat, lon, nullIfEmpty(c.Name), zoom, nullIfEmpty(c.Q), c.Points)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	return id, err
}

// ListOptions controls selection when listing conversions.
type ListOptions struct {
	Input      string
	Since      time.Time
	FailedOnly bool
	Limit      int
}

// ListConversions returns the most recent conversions matching opts, newest
// first.
func (d *DB) ListConversions(ctx context.Context, opts ListOptions) ([]Conversion, error) {
	where := "WHERE 1=1"
	args := []interface{}{}
	if opts.Input != "" && opts.Input != "all" {
		where += " AND input = ?"
		args = append(args, opts.Input)
	}
	if opts.FailedOnly {
		where += " AND status = 'failed'"
	}
	if !opts.Since.IsZero() {
		where += " AND occurred_at >= ?"
		args = append(args, opts.Since.UTC().Format("2006-01-02 15:04:05"))
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit)

	q := "SELECT id, occurred_at, input, text, link, domain, status, failure, lat, lon, name, zoom, q, points FROM conversions " + where + " ORDER BY occurred_at DESC, id DESC LIMIT ?"
	rows, err := d.sql.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Conversion{}
	for rows.Next() {
		var (
			c                               Conversion
			occurredAt                      string
			link, domain, failure, name, qs sql.NullString
			lat, lon, zoom                  sql.NullFloat64
		)
		if err := rows.Scan(&c.ID, &occurredAt, &c.Input, &c.Text, &link, &domain, &c.Status, &failure, &lat, &lon, &name, &zoom, &qs, &c.Points); err != nil {
			return nil, err
		}
		c.OccurredAt = parseTimestamp(occurredAt)
		c.Link, c.Domain, c.Failure, c.Name, c.Q = link.String, domain.String, failure.String, name.String, qs.String
		if lat.Valid && lon.Valid {
			c.HasPoint = true
			c.Lat, c.Lon = lat.Float64, lon.Float64
		}
		c.Zoom = zoom.Float64
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ClearHistory deletes conversions older than before, or all of them when
// before is zero. It returns the number of rows removed.
func (d *DB) ClearHistory(ctx context.Context, before time.Time) (int64, error) {
	var (
		res sql.Result
		err error
	)
	if before.IsZero() {
		res, err = d.sql.ExecContext(ctx, "DELETE FROM conversions")
	} else {
		res, err = d.sql.ExecContext(ctx, "DELETE FROM conversions WHERE occurred_at < ?", before.UTC().Format("2006-01-02 15:04:05"))
	}
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (d *DB) GetStats(ctx context.Context) ([]InputStats, error) {
	query := `
		SELECT
			input,
			COUNT(*),
			SUM(CASE WHEN status = 'succeeded' THEN 1 ELSE 0 END),
			SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END)
		FROM
			conversions
		GROUP BY
			input
		ORDER BY
			input;
	`
	rows, err := d.sql.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []InputStats
	for rows.Next() {
		var s InputStats
		if err := rows.Scan(&s.Input, &s.Total, &s.Succeeded, &s.Failed); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}

// GetDomainStats counts conversions per domain, most frequent first.
func (d *DB) GetDomainStats(ctx context.Context, limit int) ([]DomainStats, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := d.sql.QueryContext(ctx, `SELECT domain, COUNT(*) AS n FROM conversions WHERE domain IS NOT NULL GROUP BY domain ORDER BY n DESC, domain LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []DomainStats
	for rows.Next() {
		var s DomainStats
		if err := rows.Scan(&s.Domain, &s.Total); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
