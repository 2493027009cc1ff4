package products

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"acen-backend/internal/shared/storage/db"
)

type PGRepo struct {
	DB db.DBTX
}

const productColumns = `id, name, brand, tags, description, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, prod Product) (Product, error) {
	const query = `
INSERT INTO products (name, brand, tags, description, created_at, updated_at)
VALUES ($1, $2, $3, $4, now(), now())
RETURNING id, created_at, updated_at`
	err := r.DB.QueryRowContext(ctx, query,
		prod.Name,
		nullableString(prod.Brand),
		nullableString(prod.Tags),
		nullableString(prod.Description),
	).Scan(&prod.ID, &prod.CreatedAt, &prod.UpdatedAt)
	if err != nil {
		return Product{}, err
	}
	return prod, nil
}

func (r *PGRepo) Update(ctx context.Context, prod Product) (Product, error) {
	const query = `
UPDATE products
SET name = $2, brand = $3, tags = $4, description = $5, updated_at = now()
WHERE id = $1
RETURNING created_at, updated_at`
	err := r.DB.QueryRowContext(ctx, query,
		prod.ID,
		prod.Name,
		nullableString(prod.Brand),
		nullableString(prod.Tags),
		nullableString(prod.Description),
	).Scan(&prod.CreatedAt, &prod.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}
	return prod, nil
}

func (r *PGRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) Get(ctx context.Context, id int64) (Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	prod, err := scanProduct(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}
	return prod, nil
}

func (r *PGRepo) List(ctx context.Context) ([]Product, error) {
	return r.query(ctx, `SELECT `+productColumns+` FROM products ORDER BY id`)
}

func (r *PGRepo) SearchByTag(ctx context.Context, tag string, limit int) ([]Product, error) {
	query := `SELECT ` + productColumns + `
FROM products
WHERE tags ILIKE $1
ORDER BY id`
	pattern := "%" + escapeLike(tag) + "%"
	if limit > 0 {
		return r.query(ctx, query+` LIMIT $2`, pattern, limit)
	}
	return r.query(ctx, query, pattern)
}

func (r *PGRepo) query(ctx context.Context, query string, args ...any) ([]Product, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		prod, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, prod)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (Product, error) {
	var prod Product
	var brand, tags, description sql.NullString
	if err := row.Scan(&prod.ID, &prod.Name, &brand, &tags, &description, &prod.CreatedAt, &prod.UpdatedAt); err != nil {
		return Product{}, err
	}
	prod.Brand = brand.String
	prod.Tags = tags.String
	prod.Description = description.String
	return prod, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes tag match literally inside an ILIKE pattern.
func escapeLike(tag string) string {
	return likeEscaper.Replace(tag)
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
