package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/findithq/findit/internal/model"
)

const itemColumns = `i.id, i.profile_id, i.category_id, i.kind, i.title, i.description,
	i.location, i.date_reported, i.status, i.image_url, i.contact_info,
	i.created_at, i.updated_at,
	p.full_name, p.email, c.name`

const itemJoins = `FROM items i
	JOIN profiles p ON p.id = i.profile_id
	LEFT JOIN categories c ON c.id = i.category_id`

// CreateItem inserts a new item report for a profile. Status is always open:
// the column default applies and no status is accepted from the caller.
func CreateItem(ctx context.Context, db *sql.DB, profileID string, in model.NewItemInput) (*model.Item, error) {
	id := uuid.NewString()
	_, err := db.ExecContext(ctx,
		`INSERT INTO items (id, profile_id, category_id, kind, title, description,
		                    location, date_reported, image_url, contact_info)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, profileID, nullable(in.CategoryID), in.Kind, in.Title, in.Description,
		in.Location, in.DateReported, nullable(in.ImageURL), nullable(in.ContactInfo),
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID, joined with its reporter and category.
func GetItem(ctx context.Context, db *sql.DB, id string) (*model.Item, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` `+itemJoins+` WHERE i.id = ?`, id,
	)

	item, err := scanItemRow(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ListItems returns all items, newest first, joined with reporter and category.
func ListItems(ctx context.Context, db *sql.DB) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+itemColumns+` `+itemJoins+` ORDER BY i.created_at DESC, i.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItemRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// ListRecentOpenItems returns the newest open items, capped at limit.
func ListRecentOpenItems(ctx context.Context, db *sql.DB, limit int) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+itemColumns+` `+itemJoins+`
		 WHERE i.status = ? ORDER BY i.created_at DESC, i.id LIMIT ?`,
		model.StatusOpen, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing recent items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItemRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// CountItemsByKind returns the number of items of each kind.
func CountItemsByKind(ctx context.Context, db *sql.DB) (lost, found int, err error) {
	rows, err := db.QueryContext(ctx, `SELECT kind, COUNT(*) FROM items GROUP BY kind`)
	if err != nil {
		return 0, 0, fmt.Errorf("counting items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return 0, 0, fmt.Errorf("scanning item count: %w", err)
		}
		switch kind {
		case model.KindLost:
			lost = n
		case model.KindFound:
			found = n
		}
	}
	return lost, found, rows.Err()
}

// UpdateItemStatus sets an item's lifecycle status. Transition rules are
// checked by the caller, which knows who is asking.
func UpdateItemStatus(ctx context.Context, db *sql.DB, id, status string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE items SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("updating item status: %w", err)
	}
	return nil
}

// DeleteItem permanently deletes an item.
func DeleteItem(ctx context.Context, db *sql.DB, id string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	return nil
}

// scanItemRow scans one joined item row via the given Scan function, so the
// same column list works for QueryRow and Rows.
func scanItemRow(scan func(dest ...any) error) (*model.Item, error) {
	item := &model.Item{}
	var categoryID, imageURL, contactInfo sql.NullString
	var reporterName, categoryName sql.NullString
	err := scan(
		&item.ID, &item.ProfileID, &categoryID, &item.Kind, &item.Title, &item.Description,
		&item.Location, &item.DateReported, &item.Status, &imageURL, &contactInfo,
		&item.CreatedAt, &item.UpdatedAt,
		&reporterName, &item.ReporterEmail, &categoryName,
	)
	if err != nil {
		return nil, err
	}
	item.CategoryID = categoryID.String
	item.ImageURL = imageURL.String
	item.ContactInfo = contactInfo.String
	item.ReporterName = reporterName.String
	item.CategoryName = categoryName.String
	return item, nil
}
