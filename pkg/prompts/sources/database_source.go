package sources

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

// DatabaseSource — загрузка промптов из SQL базы данных.
//
// Используется с SQLite (см. registry factory), но работает с любым
// database/sql драйвером с '?' плейсхолдерами.
type DatabaseSource struct {
	db    *sql.DB
	table string
}

// NewDatabaseSource создаёт источник промптов из SQL базы.
//
// Параметры:
//   - db: *sql.DB с открытым соединением
//   - table: имя таблицы с промптами (default: "prompts")
//
// Структура таблицы:
//
//	CREATE TABLE prompts (
//	    id TEXT PRIMARY KEY,
//	    system TEXT,
//	    template TEXT,
//	    variables TEXT,  -- JSON object
//	    metadata TEXT    -- JSON object
//	);
func NewDatabaseSource(db *sql.DB, table string) *DatabaseSource {
	if table == "" {
		table = "prompts"
	}
	return &DatabaseSource{
		db:    db,
		table: table,
	}
}

// Load загружает промпт из базы данных по ID.
//
// Возвращает *PromptData для избежания циклического импорта.
func (s *DatabaseSource) Load(promptID string) (*PromptData, error) {
	var system, template, variablesJSON, metadataJSON sql.NullString

	query := fmt.Sprintf(
		"SELECT system, template, variables, metadata FROM %s WHERE id = ?",
		s.table,
	)

	err := s.db.QueryRow(query, promptID).Scan(&system, &template, &variablesJSON, &metadataJSON)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("prompt '%s' not found in table '%s'", promptID, s.table)
	}
	if err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}

	file := &PromptData{
		System:    system.String,
		Template:  template.String,
		Variables: make(map[string]string),
		Metadata:  make(map[string]any),
	}

	if variablesJSON.Valid && variablesJSON.String != "" {
		if err := json.Unmarshal([]byte(variablesJSON.String), &file.Variables); err != nil {
			return nil, fmt.Errorf("prompt '%s': invalid variables json: %w", promptID, err)
		}
	}
	if metadataJSON.Valid && metadataJSON.String != "" {
		if err := json.Unmarshal([]byte(metadataJSON.String), &file.Metadata); err != nil {
			return nil, fmt.Errorf("prompt '%s': invalid metadata json: %w", promptID, err)
		}
	}

	return file, nil
}
