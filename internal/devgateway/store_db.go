package devgateway

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"StoreAdmin/internal/commerce"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
	pgUniqueCode = "23505"
)

const schema = `
CREATE TABLE IF NOT EXISTS products (
	id       BIGSERIAL PRIMARY KEY,
	title    TEXT  NOT NULL,
	vendor   TEXT  NOT NULL,
	sku      TEXT  UNIQUE,
	variants JSONB NOT NULL DEFAULT '[]',
	images   JSONB NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS orders (
	id                     BIGSERIAL PRIMARY KEY,
	confirmation_number    TEXT  NOT NULL,
	email                  TEXT  NOT NULL,
	tags                   TEXT  NOT NULL DEFAULT '',
	current_subtotal_price TEXT  NOT NULL,
	line_items             JSONB NOT NULL DEFAULT '[]'
);
`

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, schema)
		return err
	})
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *PostgresStore) ListProducts(ctx context.Context) ([]commerce.Product, error) {
	var out []commerce.Product

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT id, title, vendor, variants, images
			FROM products
			ORDER BY id ASC
		`)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]commerce.Product, 0, 16)
		for rows.Next() {
			p, err := scanProduct(rows)
			if err != nil {
				return err
			}
			out = append(out, p)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresStore) CreateProduct(ctx context.Context, in commerce.ProductInput) (commerce.Product, error) {
	p := newProduct(0, in)
	variants, images, err := encodeProduct(p)
	if err != nil {
		return commerce.Product{}, err
	}

	err = withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx, `
			INSERT INTO products (title, vendor, sku, variants, images)
			VALUES ($1, $2, NULLIF($3, ''), $4, $5)
			RETURNING id
		`, p.Title, p.Vendor, primarySKU(p), string(variants), string(images)).Scan(&p.ID)
	})
	if isUniqueViolation(err) {
		return commerce.Product{}, ErrDuplicateSKU
	}
	if err != nil {
		return commerce.Product{}, err
	}
	return p, nil
}

func (s *PostgresStore) UpdateProduct(ctx context.Context, id int64, in commerce.ProductInput) (commerce.Product, bool, error) {
	var (
		p     commerce.Product
		found bool
	)

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		cur, err := scanProduct(tx.QueryRowContext(ctx, `
			SELECT id, title, vendor, variants, images
			FROM products
			WHERE id = $1
			FOR UPDATE
		`, id))
		if err == sql.ErrNoRows {
			return nil
		}
		if err != nil {
			return err
		}
		found = true

		p = applyUpdate(cur, in)
		variants, images, err := encodeProduct(p)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE products
			SET title = $2, vendor = $3, sku = NULLIF($4, ''), variants = $5, images = $6
			WHERE id = $1
		`, id, p.Title, p.Vendor, primarySKU(p), string(variants), string(images)); err != nil {
			return err
		}
		return tx.Commit()
	})

	if isUniqueViolation(err) {
		return commerce.Product{}, true, ErrDuplicateSKU
	}
	if err != nil {
		return commerce.Product{}, false, err
	}
	return p, found, nil
}

func (s *PostgresStore) DeleteProduct(ctx context.Context, id int64) (bool, error) {
	return s.deleteByID(ctx, `DELETE FROM products WHERE id = $1`, id)
}

func (s *PostgresStore) ListOrders(ctx context.Context) ([]commerce.Order, error) {
	var out []commerce.Order

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT id, confirmation_number, email, tags, current_subtotal_price, line_items
			FROM orders
			ORDER BY id ASC
		`)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]commerce.Order, 0, 16)
		for rows.Next() {
			var (
				o     commerce.Order
				price string
				items []byte
			)
			if err := rows.Scan(&o.ID, &o.ConfirmationNumber, &o.Email, &o.Tags, &price, &items); err != nil {
				return err
			}
			if err := json.Unmarshal(items, &o.LineItems); err != nil {
				return err
			}
			o.CurrentSubtotalPrice = commerce.Price(price)
			o.OrderNumber = orderNumberBase + o.ID
			out = append(out, o)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresStore) CreateOrder(ctx context.Context, in commerce.OrderInput) (commerce.Order, error) {
	o := newOrder(0, in)
	items, err := json.Marshal(o.LineItems)
	if err != nil {
		return commerce.Order{}, err
	}

	err = withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx, `
			INSERT INTO orders (confirmation_number, email, tags, current_subtotal_price, line_items)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, o.ConfirmationNumber, o.Email, o.Tags, string(o.CurrentSubtotalPrice), string(items)).Scan(&o.ID)
	})
	if err != nil {
		return commerce.Order{}, err
	}

	o.OrderNumber = orderNumberBase + o.ID
	return o, nil
}

func (s *PostgresStore) DeleteOrder(ctx context.Context, id int64) (bool, error) {
	return s.deleteByID(ctx, `DELETE FROM orders WHERE id = $1`, id)
}

func (s *PostgresStore) deleteByID(ctx context.Context, query string, id int64) (bool, error) {
	var n int64
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		res, err := s.db.ExecContext(ctx, query, id)
		if err != nil {
			return err
		}
		n, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (commerce.Product, error) {
	var (
		p                commerce.Product
		variants, images []byte
	)
	if err := row.Scan(&p.ID, &p.Title, &p.Vendor, &variants, &images); err != nil {
		return commerce.Product{}, err
	}
	if err := json.Unmarshal(variants, &p.Variants); err != nil {
		return commerce.Product{}, err
	}
	if err := json.Unmarshal(images, &p.Images); err != nil {
		return commerce.Product{}, err
	}
	return p, nil
}

func encodeProduct(p commerce.Product) (variants, images []byte, err error) {
	if variants, err = json.Marshal(p.Variants); err != nil {
		return nil, nil, err
	}
	if images, err = json.Marshal(p.Images); err != nil {
		return nil, nil, err
	}
	return variants, images, nil
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueCode
}
