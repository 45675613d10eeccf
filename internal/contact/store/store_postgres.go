package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"helpapp/internal/contact/models"
	id "helpapp/pkg/domain"
	"helpapp/pkg/platform/sentinel"
)

// PostgresStore persists contacts in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed contact store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Insert counts and inserts inside one transaction holding a table lock that
// conflicts with itself, so two servers sharing a database still respect limit.
func (s *PostgresStore) Insert(ctx context.Context, c *models.Contact, limit int) error {
	if c == nil {
		return fmt.Errorf("contact is required")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert contact: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `LOCK TABLE contacts IN SHARE ROW EXCLUSIVE MODE`); err != nil {
		return fmt.Errorf("lock contacts: %w", err)
	}

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM contacts`).Scan(&count); err != nil {
		return fmt.Errorf("count contacts: %w", err)
	}
	if count >= limit {
		return sentinel.ErrLimitReached
	}

	query := `
		INSERT INTO contacts (id, display_name, phone_number, source, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := tx.ExecContext(ctx, query,
		uuid.UUID(c.ID),
		c.Name,
		c.Number,
		string(c.Source),
		c.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert contact: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, contactID id.ContactID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = $1`, uuid.UUID(contactID))
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete contact rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Contact, error) {
	query := `
		SELECT id, display_name, phone_number, source, created_at
		FROM contacts
		ORDER BY created_at, id
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	contacts := make([]*models.Contact, 0, models.MaxContacts)
	for rows.Next() {
		var (
			rowID  uuid.UUID
			source string
			c      models.Contact
		)
		if err := rows.Scan(&rowID, &c.Name, &c.Number, &source, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		c.ID = id.ContactID(rowID)
		c.Source = models.Source(source)
		contacts = append(contacts, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contacts: %w", err)
	}
	return contacts, nil
}
