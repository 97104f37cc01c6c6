package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"kaspirank/pkg/database"
	"kaspirank/pkg/models"
)

func main() {
	var (
		recordsOut = flag.String("records", "data/records.csv", "output CSV path for analysis records")
		leadsOut   = flag.String("leads", "data/leads.csv", "output CSV path for leads")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	if err := exportRecords(ctx, db, *recordsOut); err != nil {
		log.Fatalf("export records failed: %v", err)
	}
	if err := exportLeads(ctx, db, *leadsOut); err != nil {
		log.Fatalf("export leads failed: %v", err)
	}

	log.Printf("exported records to %s and leads to %s", *recordsOut, *leadsOut)
}

func exportRecords(ctx context.Context, db *sql.DB, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{
		"id", "product_url", "shop_name", "leader_shop", "leader_price",
		"my_price", "position", "sellers", "created_at",
	}); err != nil {
		return err
	}

	rows, err := db.QueryContext(ctx, `
        SELECT id, product_url, shop_name, leader_shop, leader_price, my_price, position, offers, created_at
        FROM records
        ORDER BY created_at DESC
    `)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id          string
			productURL  string
			shopName    string
			leaderShop  string
			leaderPrice int
			myPrice     int
			position    sql.NullInt64
			offersJSON  string
			createdAt   sql.NullTime
		)

		if err := rows.Scan(&id, &productURL, &shopName, &leaderShop, &leaderPrice, &myPrice, &position, &offersJSON, &createdAt); err != nil {
			return err
		}

		pos := ""
		if position.Valid {
			pos = strconv.FormatInt(position.Int64, 10)
		}
		created := ""
		if createdAt.Valid {
			created = createdAt.Time.Format(time.RFC3339)
		}

		var offers []models.Offer
		_ = json.Unmarshal([]byte(offersJSON), &offers)

		if err := w.Write([]string{
			id,
			productURL,
			shopName,
			leaderShop,
			strconv.Itoa(leaderPrice),
			strconv.Itoa(myPrice),
			pos,
			strconv.Itoa(len(offers)),
			created,
		}); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}

func exportLeads(ctx context.Context, db *sql.DB, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"id", "name", "phone", "email", "shop_name", "description", "created_at"}); err != nil {
		return err
	}

	rows, err := db.QueryContext(ctx, `
        SELECT id, name, phone, email, shop_name, description, created_at
        FROM leads
        ORDER BY created_at DESC
    `)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id          string
			name        string
			phone       string
			email       string
			shopName    string
			description string
			createdAt   sql.NullTime
		)

		if err := rows.Scan(&id, &name, &phone, &email, &shopName, &description, &createdAt); err != nil {
			return err
		}

		created := ""
		if createdAt.Valid {
			created = createdAt.Time.Format(time.RFC3339)
		}

		if err := w.Write([]string{id, name, phone, email, shopName, description, created}); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}
