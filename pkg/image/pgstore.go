package image

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"
)

// PGStore keeps images as rows of the `images` postgres table.
type PGStore sql.DB

func (pgs *PGStore) EnsureTable() error {
	if _, err := (*sql.DB)(pgs).Exec(
		"CREATE TABLE IF NOT EXISTS images (" +
			"key VARCHAR(255) NOT NULL PRIMARY KEY, " +
			"data BYTEA NOT NULL, " +
			"updated TIMESTAMPTZ NOT NULL)",
	); err != nil {
		return fmt.Errorf("creating `images` postgres table: %w", err)
	}
	return nil
}

func (pgs *PGStore) DropTable() error {
	if _, err := (*sql.DB)(pgs).Exec(
		"DROP TABLE IF EXISTS images",
	); err != nil {
		return fmt.Errorf("dropping table `images`: %w", err)
	}
	return nil
}

func (pgs *PGStore) ResetTable() error {
	if err := pgs.DropTable(); err != nil {
		return err
	}
	return pgs.EnsureTable()
}

func (pgs *PGStore) PutImage(key string, data io.ReadSeeker) error {
	var b bytes.Buffer
	if _, err := io.Copy(&b, data); err != nil {
		return fmt.Errorf("putting image `%s`: %w", key, err)
	}
	if _, err := (*sql.DB)(pgs).Exec(
		"INSERT INTO images (key, data, updated) VALUES($1, $2, $3) "+
			"ON CONFLICT (key) DO UPDATE SET "+
			"data = EXCLUDED.data, updated = EXCLUDED.updated",
		key,
		b.Bytes(),
		time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("inserting image `%s` into postgres: %w", key, err)
	}
	return nil
}

func (pgs *PGStore) GetImage(key string) (io.ReadCloser, error) {
	var data []byte
	if err := (*sql.DB)(pgs).QueryRow(
		"SELECT data FROM images WHERE key = $1",
		key,
	).Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &ImageNotFoundErr{Key: key}
		}
		return nil, fmt.Errorf("querying image `%s` from postgres: %w", key, err)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (pgs *PGStore) ListImages() ([]string, error) {
	rows, err := (*sql.DB)(pgs).Query("SELECT key FROM images ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("querying images from postgres: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("querying images from postgres: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("querying images from postgres: %w", err)
	}
	return keys, nil
}

func (pgs *PGStore) DeleteImage(key string) error {
	if err := (*sql.DB)(pgs).QueryRow(
		"DELETE FROM images WHERE key = $1 RETURNING key",
		key,
	).Scan(&key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &ImageNotFoundErr{Key: key}
		}
		return fmt.Errorf("deleting image `%s` from postgres: %w", key, err)
	}
	return nil
}

var _ Store = &PGStore{}
