package main

import (
	"database/sql"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/lib/pq"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping DB: %v", err)
	}

	seedProducts(db)
	seedPointsPromotions(db)
	seedDiscountPromotions(db)

	log.Println("Seeding completed successfully!")
}

func seedProducts(db *sql.DB) {
	products := []struct {
		ID       string
		Name     string
		Category string
		Price    string
	}{
		{"PRD01", "Vortex 95", "Fuel", "1.2"},
		{"PRD02", "Vortex 98", "Fuel", "1.3"},
		{"PRD03", "Diesel", "Fuel", "1.1"},
		{"PRD04", "Twix 55g", "Shop", "2.3"},
		{"PRD05", "Mars 72g", "Shop", "5.1"},
		{"PRD06", "SNICKERS 72G", "Shop", "3.4"},
		{"PRD07", "Bounty 3 63g", "Shop", "6.9"},
		{"PRD08", "Snickers 50g", "Shop", "4.0"},
	}

	log.Println("Seeding Products...")
	for _, p := range products {
		_, err := db.Exec(`
			INSERT INTO products (product_id, name, category, unit_price)
			VALUES ($1, $2, $3, $4::numeric)
			ON CONFLICT (product_id) DO UPDATE
			SET name = EXCLUDED.name, category = EXCLUDED.category,
			    unit_price = EXCLUDED.unit_price, updated_at = now();
		`, p.ID, p.Name, p.Category, p.Price)
		if err != nil {
			log.Printf("Failed to seed product %s: %v", p.ID, err)
		}
	}
}

func seedPointsPromotions(db *sql.DB) {
	promos := []struct {
		ID            string
		Name          string
		Start         string
		End           string
		Category      string
		PointsPerUnit int64
	}{
		{"PP001", "New Year Promo", "2020-01-01", "2020-01-30", "Any", 2},
		{"PP002", "Fuel Promo", "2020-02-05", "2020-02-15", "Fuel", 3},
		{"PP003", "Shop Promo", "2020-03-01", "2020-03-20", "Shop", 4},
	}

	log.Println("Seeding Points Promotions...")
	for _, p := range promos {
		_, err := db.Exec(`
			INSERT INTO points_promotions (id, name, start_date, end_date, category, points_per_unit)
			VALUES ($1, $2, $3::date, $4::date, $5, $6)
			ON CONFLICT (id) DO UPDATE
			SET name = EXCLUDED.name, start_date = EXCLUDED.start_date,
			    end_date = EXCLUDED.end_date, category = EXCLUDED.category,
			    points_per_unit = EXCLUDED.points_per_unit;
		`, p.ID, p.Name, p.Start, p.End, p.Category, p.PointsPerUnit)
		if err != nil {
			log.Printf("Failed to seed points promotion %s: %v", p.ID, err)
		}
	}
}

func seedDiscountPromotions(db *sql.DB) {
	promos := []struct {
		ID       string
		Name     string
		Start    string
		End      string
		Rate     string
		Eligible []string
	}{
		{"DP001", "Fuel Discount Promo", "2020-01-01", "2020-02-15", "0.20", []string{"PRD02"}},
		{"DP002", "Happy Promo", "2020-03-02", "2020-03-20", "0.15", []string{}},
	}

	log.Println("Seeding Discount Promotions...")
	for _, p := range promos {
		_, err := db.Exec(`
			INSERT INTO discount_promotions (id, name, start_date, end_date, rate, eligible_product_ids)
			VALUES ($1, $2, $3::date, $4::date, $5::numeric, $6)
			ON CONFLICT (id) DO UPDATE
			SET name = EXCLUDED.name, start_date = EXCLUDED.start_date,
			    end_date = EXCLUDED.end_date, rate = EXCLUDED.rate,
			    eligible_product_ids = EXCLUDED.eligible_product_ids;
		`, p.ID, p.Name, p.Start, p.End, p.Rate, pq.Array(p.Eligible))
		if err != nil {
			log.Printf("Failed to seed discount promotion %s: %v", p.ID, err)
		}
	}
}
