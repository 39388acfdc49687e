package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func openDB(c *cli.Context) (*sql.DB, error) {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Initialize and seed the inventory database",
		Flags: []cli.Flag{
			newDBURLFlag(),
		},
		Commands: []*cli.Command{
			{
				Name:  "schema",
				Usage: "Create the products and stock_records tables",
				Flags: []cli.Flag{newDBURLFlag()},
				Action: func(c *cli.Context) error {
					db, err := openDB(c)
					if err != nil {
						return err
					}
					defer db.Close()
					return createSchema(c.Context, db)
				},
			},
			{
				Name:  "products",
				Usage: "Seed the sample product catalog",
				Flags: []cli.Flag{newDBURLFlag()},
				Action: func(c *cli.Context) error {
					db, err := openDB(c)
					if err != nil {
						return err
					}
					defer db.Close()
					return seedProducts(c.Context, db)
				},
			},
			{
				Name:  "history",
				Usage: "Generate demo stock history for seeded products",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.IntFlag{
						Name:  "days",
						Usage: "Number of days of history to generate",
						Value: 7,
					},
				},
				Action: func(c *cli.Context) error {
					db, err := openDB(c)
					if err != nil {
						return err
					}
					defer db.Close()
					return generateHistory(c.Context, db, c.Int("days"))
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}

func createSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	log.Println("schema created")
	return nil
}

type sampleProduct struct {
	code         string
	name         string
	category     string
	currentStock int
	minStock     int
	maxStock     int
	reorderPoint int
	stockUnit    string
}

var sampleProducts = []sampleProduct{
	{"Q-2411-1234", "Hex Bolt M12x50", "fasteners", 54, 10, 100, 20, "ea"},
	{"Q-2411-2567", "Hex Nut M10", "fasteners", 72, 15, 150, 30, "ea"},
	{"Q-2411-3890", "Flat Washer M12", "fasteners", 120, 20, 200, 40, "ea"},
	{"Q-2411-4012", "Spring Washer M10", "fasteners", 35, 10, 100, 25, "ea"},
	{"Q-2411-5345", "Anchor Bolt M16", "fasteners", 18, 5, 60, 12, "ea"},
	{"Q-2411-6678", "Cable Tie 200mm", "consumables", 240, 50, 500, 100, "pack"},
	{"Q-2411-7901", "Insulation Tape", "consumables", 44, 10, 120, 24, "roll"},
	{"Q-2411-8234", "Work Gloves L", "safety", 26, 8, 80, 16, "pair"},
}

func seedProducts(ctx context.Context, db *sql.DB) error {
	for _, p := range sampleProducts {
		if _, err := db.ExecContext(ctx, `
			INSERT INTO products
				(code, name, category, current_stock, min_stock, max_stock, reorder_point, stock_unit)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (code) DO NOTHING`,
			p.code, p.name, p.category, p.currentStock, p.minStock, p.maxStock, p.reorderPoint, p.stockUnit,
		); err != nil {
			return fmt.Errorf("failed to seed product %s: %w", p.code, err)
		}
	}
	log.Printf("seeded %d products", len(sampleProducts))
	return nil
}

// generateHistory walks each product's stock back in time and replays a
// plausible daily consumption series, ending at the product's current stock.
func generateHistory(ctx context.Context, db *sql.DB, days int) error {
	if days <= 0 {
		days = 7
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for _, p := range sampleProducts {
		quantity := p.currentStock
		previous := quantity

		for d := days; d >= 0; d-- {
			ts := time.Now().UTC().AddDate(0, 0, -d)

			if d < days {
				quantity = previous - rng.Intn(6) // consume 0-5 units a day
				if quantity < 0 {
					quantity = 0
				}
			}

			if _, err := db.ExecContext(ctx, `
				INSERT INTO stock_records
					(product_code, quantity, quantity_change, confidence, source, notes, timestamp)
				VALUES ($1, $2, $3, $4, 'manual', 'seeded demo record', $5)`,
				p.code, quantity, quantity-previous, 1.0, ts,
			); err != nil {
				return fmt.Errorf("failed to seed history for %s: %w", p.code, err)
			}
			previous = quantity
		}

		if _, err := db.ExecContext(ctx,
			`UPDATE products SET current_stock = $1, updated_at = NOW() WHERE code = $2`,
			quantity, p.code,
		); err != nil {
			return fmt.Errorf("failed to sync stock for %s: %w", p.code, err)
		}
	}

	log.Printf("generated %d days of history for %d products", days, len(sampleProducts))
	return nil
}
