// Package localization renders notification texts per language. Locale
// files are JSON key/value maps named by language code (e.g. "ko.json").
package localization

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const fallbackLanguage = "en"

// Localizer holds the loaded translation tables. The tables are
// immutable after loading, so lookups need no synchronization.
type Localizer struct {
	tables map[string]map[string]string
}

// NewLocalizer loads every *.json file in the given directory as a
// language table.
func NewLocalizer(path string) (*Localizer, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read localization directory: %w", err)
	}

	l := &Localizer{tables: make(map[string]map[string]string)}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		lang := strings.TrimSuffix(entry.Name(), ".json")
		table, err := loadTable(filepath.Join(path, entry.Name()))
		if err != nil {
			return nil, err
		}
		l.tables[lang] = table
	}
	return l, nil
}

func loadTable(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read localization file %s: %w", path, err)
	}
	var table map[string]string
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse localization file %s: %w", path, err)
	}
	return table, nil
}

// GetString returns the localized string for a key. Unknown languages
// fall back to English; unknown keys fall back to the key itself so a
// missing translation never produces an empty notification.
func (l *Localizer) GetString(lang, key string) string {
	if value, ok := l.tables[lang][key]; ok {
		return value
	}
	if lang != fallbackLanguage {
		if value, ok := l.tables[fallbackLanguage][key]; ok {
			return value
		}
	}
	return key
}

// Format renders a localized template with fmt.Sprintf arguments.
func (l *Localizer) Format(lang, key string, args ...any) string {
	return fmt.Sprintf(l.GetString(lang, key), args...)
}
