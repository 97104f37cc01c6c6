package lead

import (
	"context"
	"database/sql"
	"fmt"

	"kaspirank/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

func (r *Repo) Create(ctx context.Context, l models.Lead) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO leads (id, name, phone, email, shop_name, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, l.ID, l.Name, l.Phone, l.Email, l.ShopName, l.Description, l.CreatedAt)
	if err != nil {
		return fmt.Errorf("create lead: %w", err)
	}
	return nil
}

// List returns captured leads, newest first. Used by the CSV exporter.
func (r *Repo) List(ctx context.Context, limit int) ([]models.Lead, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, phone, email, shop_name, description, created_at
		FROM leads
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list query: %w", err)
	}
	defer rows.Close()

	out := make([]models.Lead, 0, limit)
	for rows.Next() {
		var l models.Lead
		if err := rows.Scan(&l.ID, &l.Name, &l.Phone, &l.Email, &l.ShopName, &l.Description, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("list scan: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}
