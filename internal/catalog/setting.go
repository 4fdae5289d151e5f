package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// GetSetting returns the stored value for key, or def when unset.
func (s *Store) GetSetting(key, def string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err != nil {
		mapped := mapSQLiteError(err)
		if errors.Is(mapped, ErrNotFound) {
			return def, nil
		}
		return "", fmt.Errorf("get setting %q: %w", key, mapped)
	}
	return value, nil
}

// SetSetting stores value under key. Last write wins.
func (s *Store) SetSetting(key, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return invalid("setting key is required")
	}
	_, err := s.db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("set setting %q: %w", key, mapSQLiteError(err))
	}
	return nil
}

// Settings returns every stored setting.
func (s *Store) Settings() (map[string]string, error) {
	rows, err := s.db.Query("SELECT key, value FROM settings ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		out[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate settings: %w", err)
	}
	return out, nil
}
