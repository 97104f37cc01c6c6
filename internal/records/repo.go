package records

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"kaspirank/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

// Create inserts one analysis record. Offers are stored as a JSON array in a
// text column.
func (r *Repo) Create(ctx context.Context, rec models.Record) error {
	offersJSON, err := json.Marshal(rec.Offers)
	if err != nil {
		return fmt.Errorf("marshal offers: %w", err)
	}

	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO records (id, product_url, product_host, product_path, shop_name,
		                     leader_shop, leader_price, my_price, position, offers, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.ProductURL, rec.ProductHost, rec.ProductPath, rec.ShopName,
		rec.LeaderShop, rec.LeaderPrice, rec.MyPrice, rec.Position, string(offersJSON), rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("create record: %w", err)
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id string) (*models.Record, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, product_url, product_host, product_path, shop_name,
		       leader_shop, leader_price, my_price, position, offers, created_at
		FROM records
		WHERE id = ?
	`, id)

	rec, err := scanRecord(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan getByID: %w", err)
	}
	return rec, nil
}

// List returns the latest records, newest first.
func (r *Repo) List(ctx context.Context, limit int) ([]models.Record, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, product_url, product_host, product_path, shop_name,
		       leader_shop, leader_price, my_price, position, offers, created_at
		FROM records
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list query: %w", err)
	}
	defer rows.Close()

	out := make([]models.Record, 0, limit)
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("list scan: %w", err)
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func scanRecord(scan func(dest ...any) error) (*models.Record, error) {
	var (
		rec        models.Record
		position   sql.NullInt64
		offersJSON string
	)
	if err := scan(
		&rec.ID, &rec.ProductURL, &rec.ProductHost, &rec.ProductPath, &rec.ShopName,
		&rec.LeaderShop, &rec.LeaderPrice, &rec.MyPrice, &position, &offersJSON, &rec.CreatedAt,
	); err != nil {
		return nil, err
	}

	if position.Valid {
		rec.Position = int(position.Int64)
	}
	_ = json.Unmarshal([]byte(offersJSON), &rec.Offers)
	return &rec, nil
}
