package records

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kaspirank/pkg/models"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	schema, err := os.ReadFile("../../docs/schema.sql")
	require.NoError(t, err)
	_, err = db.Exec(string(schema))
	require.NoError(t, err)

	return db
}

func sampleRecord(id string, createdAt time.Time) models.Record {
	return models.Record{
		ID:          id,
		ProductURL:  "https://kaspi.kz/shop/p/phone-1234567/",
		ProductHost: "kaspi.kz",
		ProductPath: "/shop/p/phone-1234567/",
		ShopName:    "My Shop",
		LeaderShop:  "Leader",
		LeaderPrice: 1000,
		MyPrice:     1050,
		Position:    2,
		Offers: []models.Offer{
			{Name: "Leader", Price: 1000},
			{Name: "My Shop", Price: 1050},
		},
		CreatedAt: createdAt,
	}
}

func TestRepoCreateAndGet(t *testing.T) {
	repo := NewRepo(openTestDB(t))
	ctx := context.Background()

	rec := sampleRecord("rec-1", time.Now().UTC().Truncate(time.Second))
	require.NoError(t, repo.Create(ctx, rec))

	got, err := repo.GetByID(ctx, "rec-1")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, rec.ShopName, got.ShopName)
	assert.Equal(t, rec.LeaderPrice, got.LeaderPrice)
	assert.Equal(t, rec.MyPrice, got.MyPrice)
	assert.Equal(t, rec.Position, got.Position)
	assert.Equal(t, rec.Offers, got.Offers, "offers survive the JSON column roundtrip")
}

func TestRepoGetMissing(t *testing.T) {
	repo := NewRepo(openTestDB(t))

	got, err := repo.GetByID(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRepoListNewestFirst(t *testing.T) {
	repo := NewRepo(openTestDB(t))
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.Create(ctx, sampleRecord("old", base.Add(-time.Hour))))
	require.NoError(t, repo.Create(ctx, sampleRecord("new", base)))

	items, err := repo.List(ctx, 50)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "new", items[0].ID)
	assert.Equal(t, "old", items[1].ID)
}

func TestRepoListLimit(t *testing.T) {
	repo := NewRepo(openTestDB(t))
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 5; i++ {
		rec := sampleRecord("rec-"+string(rune('a'+i)), base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, repo.Create(ctx, rec))
	}

	items, err := repo.List(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, items, 3)
}
