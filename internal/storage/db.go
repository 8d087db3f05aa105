package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"codexnova/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS brands (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  code TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  country TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS products (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  brand_id INTEGER NOT NULL,
  name TEXT NOT NULL,
  type TEXT NOT NULL,
  shortcode TEXT NOT NULL,
  FOREIGN KEY(brand_id) REFERENCES brands(id)
);
CREATE INDEX IF NOT EXISTS idx_products_brand ON products(brand_id);
CREATE INDEX IF NOT EXISTS idx_products_name ON products(name);

CREATE TABLE IF NOT EXISTS rate_plans (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  product_id INTEGER NOT NULL,
  code TEXT NOT NULL,
  name TEXT NOT NULL,
  price INTEGER NOT NULL,
  category TEXT NOT NULL,
  FOREIGN KEY(product_id) REFERENCES products(id)
);
CREATE INDEX IF NOT EXISTS idx_rate_plans_product ON rate_plans(product_id);

CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  status TEXT NOT NULL,
  countsJson TEXT NOT NULL,
  statsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

// BackupTables snapshots the three data tables under a timestamp suffix
// before a destructive clear.
func (d *DB) BackupTables(suffix int64) error {
	for _, table := range []string{"brands", "products", "rate_plans"} {
		stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s_backup_%d AS SELECT * FROM %s`, table, suffix, table)
		if _, err := d.conn.Exec(stmt); err != nil {
			return fmt.Errorf("backup %s: %w", table, err)
		}
	}
	return nil
}

// ClearAll removes all imported data, children before parents.
func (d *DB) ClearAll() error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{
		`DELETE FROM rate_plans`,
		`DELETE FROM products`,
		`DELETE FROM brands`,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (d *DB) InsertBrand(brand internal.Brand) error {
	_, err := d.conn.Exec(`INSERT INTO brands (code, name, country) VALUES (?, ?, ?)`,
		brand.Code, brand.Name, brand.Country)
	return err
}

// InsertProduct resolves the owning brand by code at insert time rather
// than caching surrogate ids client-side. A missing brand surfaces as a
// NOT NULL violation.
func (d *DB) InsertProduct(product internal.Product) error {
	_, err := d.conn.Exec(`
INSERT INTO products (brand_id, name, type, shortcode)
VALUES ((SELECT id FROM brands WHERE code = ?), ?, ?, ?)
`, product.BrandCode, product.Name, product.Type, product.Shortcode)
	return err
}

func (d *DB) InsertRatePlan(plan internal.RatePlan) error {
	_, err := d.conn.Exec(`
INSERT INTO rate_plans (product_id, code, name, price, category)
VALUES ((SELECT p.id FROM products p JOIN brands b ON p.brand_id = b.id WHERE b.code = ? AND p.name = ?), ?, ?, ?, ?)
`, plan.BrandCode, plan.ProductName, plan.RateCode, plan.RateName, plan.Price, plan.Category)
	return err
}

// Counts returns the stored totals for the three data tables.
func (d *DB) Counts() (brands, products, ratePlans int, err error) {
	if err = d.conn.QueryRow(`SELECT COUNT(*) FROM brands`).Scan(&brands); err != nil {
		return
	}
	if err = d.conn.QueryRow(`SELECT COUNT(*) FROM products`).Scan(&products); err != nil {
		return
	}
	err = d.conn.QueryRow(`SELECT COUNT(*) FROM rate_plans`).Scan(&ratePlans)
	return
}

// RatePlanCountsByBrand groups stored rate plans by owning brand code, the
// shape the post-import reconciliation compares against.
func (d *DB) RatePlanCountsByBrand() (map[string]int, error) {
	rows, err := d.conn.Query(`
SELECT b.code, COUNT(rp.id)
FROM brands b
JOIN products p ON p.brand_id = b.id
JOIN rate_plans rp ON rp.product_id = p.id
GROUP BY b.code
ORDER BY b.code
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var code string
		var count int
		if err := rows.Scan(&code, &count); err != nil {
			return nil, err
		}
		out[code] = count
	}
	return out, rows.Err()
}

func (d *DB) InsertRun(status internal.RunStatus, counts internal.ImportCounts, stats internal.ValidationStats) error {
	countsJSON, _ := json.Marshal(counts)
	statsJSON, _ := json.Marshal(stats)
	_, err := d.conn.Exec(`INSERT INTO runs (status, countsJson, statsJson) VALUES (?, ?, ?)`,
		string(status), string(countsJSON), string(statsJSON))
	return err
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}
