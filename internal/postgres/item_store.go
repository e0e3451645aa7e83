package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/benpsk/item-service/internal/item"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ItemStore persists items in the items table. Ids come from a bigserial
// column, so they start at 1 and only increase.
type ItemStore struct {
	db   DBTX
	pool *pgxpool.Pool
}

func NewItemStore(pool *pgxpool.Pool) *ItemStore {
	return &ItemStore{db: pool, pool: pool}
}

const itemColumns = `id, item_name, price, quantity, created_at, updated_at`

func (s *ItemStore) Save(ctx context.Context, it item.Item) (item.Item, error) {
	db := DBFromContext(ctx, s.db)
	var out item.Item
	err := scanItem(db.QueryRow(ctx, `
		insert into items (item_name, price, quantity)
		values ($1, $2, $3)
		returning `+itemColumns,
		it.ItemName, it.Price, it.Quantity,
	), &out)
	if err != nil {
		return item.Item{}, fmt.Errorf("insert item: %w", err)
	}
	return out, nil
}

func (s *ItemStore) FindByID(ctx context.Context, id int64) (item.Item, error) {
	db := DBFromContext(ctx, s.db)
	var out item.Item
	err := scanItem(db.QueryRow(ctx, `
		select `+itemColumns+`
		from items
		where id = $1
	`, id), &out)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return item.Item{}, item.ErrNotFound
		}
		return item.Item{}, fmt.Errorf("find item by id: %w", err)
	}
	return out, nil
}

func (s *ItemStore) FindAll(ctx context.Context) ([]item.Item, error) {
	db := DBFromContext(ctx, s.db)
	rows, err := db.Query(ctx, `
		select `+itemColumns+`
		from items
		order by id
	`)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	items := make([]item.Item, 0)
	for rows.Next() {
		var it item.Item
		if err := scanItem(rows, &it); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}

func (s *ItemStore) Update(ctx context.Context, id int64, it item.Item) error {
	db := DBFromContext(ctx, s.db)
	tag, err := db.Exec(ctx, `
		update items
		set item_name = $2, price = $3, quantity = $4, updated_at = now()
		where id = $1
	`, id, it.ItemName, it.Price, it.Quantity)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return item.ErrNotFound
	}
	return nil
}

// Ping reports whether the backing pool can reach the database.
func (s *ItemStore) Ping(ctx context.Context) error {
	if s.pool == nil {
		return nil
	}
	return s.pool.Ping(ctx)
}

func scanItem(row pgx.Row, out *item.Item) error {
	return row.Scan(&out.ID, &out.ItemName, &out.Price, &out.Quantity, &out.CreatedAt, &out.UpdatedAt)
}
