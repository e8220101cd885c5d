package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/foxxcyber/healthy-food/internal/models"
)

// UpsertSuppliers inserts or updates suppliers in one transaction
func (db *DB) UpsertSuppliers(ctx context.Context, suppliers []models.Supplier) error {
	return pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
		for _, s := range suppliers {
			_, err := tx.Exec(ctx, `
				INSERT INTO suppliers (id, name, address, phone, rating, distance, type, hours, latitude, longitude)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
				ON CONFLICT (id) DO UPDATE SET
					name = EXCLUDED.name, address = EXCLUDED.address, phone = EXCLUDED.phone,
					rating = EXCLUDED.rating, distance = EXCLUDED.distance, type = EXCLUDED.type,
					hours = EXCLUDED.hours, latitude = EXCLUDED.latitude, longitude = EXCLUDED.longitude
			`, s.ID, s.Name, s.Address, s.Phone, s.Rating, s.Distance, s.Type, s.Hours, s.Latitude, s.Longitude)
			if err != nil {
				return fmt.Errorf("failed to upsert supplier %d: %w", s.ID, err)
			}
		}
		return nil
	})
}

// UpsertProducts inserts or updates products in one transaction
func (db *DB) UpsertProducts(ctx context.Context, products []models.Product) error {
	return pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
		for _, p := range products {
			_, err := tx.Exec(ctx, `
				INSERT INTO products (id, name, price, image, supplier, rating, ingredients, allergens,
					calories, protein, carbs, fat, distance, in_stock)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
				ON CONFLICT (id) DO UPDATE SET
					name = EXCLUDED.name, price = EXCLUDED.price, image = EXCLUDED.image,
					supplier = EXCLUDED.supplier, rating = EXCLUDED.rating,
					ingredients = EXCLUDED.ingredients, allergens = EXCLUDED.allergens,
					calories = EXCLUDED.calories, protein = EXCLUDED.protein, carbs = EXCLUDED.carbs,
					fat = EXCLUDED.fat, distance = EXCLUDED.distance, in_stock = EXCLUDED.in_stock
			`, p.ID, p.Name, p.Price, p.Image, p.Supplier, p.Rating, nonNil(p.Ingredients), nonNil(p.Allergens),
				p.Nutrition.Calories, p.Nutrition.Protein, p.Nutrition.Carbs, p.Nutrition.Fat, p.Distance, p.InStock)
			if err != nil {
				return fmt.Errorf("failed to upsert product %d: %w", p.ID, err)
			}
		}
		return nil
	})
}

// ListSuppliers returns all suppliers ordered by id
func (db *DB) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, name, address, phone, rating, distance, type, hours, latitude, longitude
		FROM suppliers ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	suppliers := []models.Supplier{}
	for rows.Next() {
		var s models.Supplier
		if err := rows.Scan(&s.ID, &s.Name, &s.Address, &s.Phone, &s.Rating, &s.Distance, &s.Type, &s.Hours, &s.Latitude, &s.Longitude); err != nil {
			return nil, err
		}
		suppliers = append(suppliers, s)
	}
	return suppliers, rows.Err()
}

// ListProducts returns all products ordered by id
func (db *DB) ListProducts(ctx context.Context) ([]models.Product, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, name, price, image, supplier, rating, ingredients, allergens,
			calories, protein, carbs, fat, distance, in_stock
		FROM products ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Image, &p.Supplier, &p.Rating, &p.Ingredients, &p.Allergens,
			&p.Nutrition.Calories, &p.Nutrition.Protein, &p.Nutrition.Carbs, &p.Nutrition.Fat, &p.Distance, &p.InStock); err != nil {
			return nil, err
		}
		p.Ingredients = nonNil(p.Ingredients)
		p.Allergens = nonNil(p.Allergens)
		products = append(products, p)
	}
	return products, rows.Err()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
