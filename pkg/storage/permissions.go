package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sw33tLie/geoshare/pkg/permissions"
)

// Get implements permissions.Store. Categories never set are Ask.
func (d *DB) Get(ctx context.Context, c permissions.Category) (permissions.Permission, error) {
	var value string
	err := d.sql.QueryRowContext(ctx, "SELECT value FROM permissions WHERE category = ?", string(c)).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return permissions.Ask, nil
	}
	if err != nil {
		return permissions.Ask, err
	}
	return permissions.ParsePermission(value)
}

// Set implements permissions.Store.
func (d *DB) Set(ctx context.Context, c permissions.Category, p permissions.Permission) error {
	_, err := d.sql.ExecContext(ctx, `INSERT INTO permissions(category, value, updated_at) VALUES(?,?,CURRENT_TIMESTAMP)
ON CONFLICT(category) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`, string(c), p.String())
	return err
}

// ListPermissions returns every category with its current value.
func (d *DB) ListPermissions(ctx context.Context) (map[permissions.Category]permissions.Permission, error) {
	out := make(map[permissions.Category]permissions.Permission, len(permissions.Categories))
	for _, c := range permissions.Categories {
		p, err := d.Get(ctx, c)
		if err != nil {
			return nil, err
		}
		out[c] = p
	}
	return out, nil
}
