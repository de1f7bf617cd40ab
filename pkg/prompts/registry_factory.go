package prompts

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ilkoid/mrkl-agent/pkg/config"
	"github.com/ilkoid/mrkl-agent/pkg/prompts/sources"
)

// CreateSourceRegistry создаёт реестр источников промптов из конфигурации.
//
// Fallback Chain:
// 1. File source (cfg.Prompts.Dir, если задан)
// 2. Database source (cfg.Prompts.Database, если задан) — SQLite
// 3. Default source (Go defaults) — всегда добавляется как fallback
//
// YAML-first философия: Файлы приоритетны, Go defaults — резерв.
func CreateSourceRegistry(cfg *config.AppConfig) (*SourceRegistry, error) {
	registry := NewSourceRegistry()

	if cfg.Prompts.Dir != "" {
		fileSrc := sources.NewFileSource(cfg.Prompts.Dir)
		registry.AddSource(&fileSourceAdapter{src: fileSrc})
	}

	if cfg.Prompts.Database != "" {
		db, err := sql.Open("sqlite3", cfg.Prompts.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to open prompts database: %w", err)
		}
		dbSrc := sources.NewDatabaseSource(db, cfg.Prompts.Table)
		registry.AddSource(&databaseSourceAdapter{src: dbSrc})
	}

	// Default source всегда добавляется ПОСЛЕ пользовательских источников
	defaultSrc := sources.NewDefaultSource()
	defaultSrc.PopulateDefaults()
	registry.AddSource(&defaultSourceAdapter{src: defaultSrc})

	return registry, nil
}

// === Adapters: sources.PromptData → prompts.PromptFile ===

// fileSourceAdapter адаптирует sources.FileSource к PromptSource.
type fileSourceAdapter struct {
	src *sources.FileSource
}

func (a *fileSourceAdapter) Load(promptID string) (*PromptFile, error) {
	data, err := a.src.Load(promptID)
	if err != nil {
		return nil, err
	}
	return promptFileFromData(data), nil
}

// databaseSourceAdapter адаптирует sources.DatabaseSource к PromptSource.
type databaseSourceAdapter struct {
	src *sources.DatabaseSource
}

func (a *databaseSourceAdapter) Load(promptID string) (*PromptFile, error) {
	data, err := a.src.Load(promptID)
	if err != nil {
		return nil, err
	}
	return promptFileFromData(data), nil
}

// defaultSourceAdapter адаптирует sources.DefaultSource к PromptSource.
type defaultSourceAdapter struct {
	src *sources.DefaultSource
}

func (a *defaultSourceAdapter) Load(promptID string) (*PromptFile, error) {
	data, err := a.src.Load(promptID)
	if err != nil {
		return nil, err
	}
	return promptFileFromData(data), nil
}

func promptFileFromData(data *sources.PromptData) *PromptFile {
	return &PromptFile{
		System:    data.System,
		Template:  data.Template,
		Variables: data.Variables,
		Metadata:  data.Metadata,
	}
}

// AgentPrompts — три части текстового промпта агента.
//
// FormatInstructions содержит плейсхолдер {tool_names},
// Suffix — плейсхолдеры {query} и {scratchpad}.
type AgentPrompts struct {
	Prefix             string
	FormatInstructions string
	Suffix             string
}

// LoadAgentPrompts загружает тексты промпта агента через SourceRegistry.
//
// Fallback chain: file → database → Go defaults. Отсутствующие части
// добираются из встроенных дефолтов, так что результат всегда полный.
func LoadAgentPrompts(cfg *config.AppConfig) (*AgentPrompts, error) {
	registry, err := CreateSourceRegistry(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create source registry: %w", err)
	}

	file, err := registry.Load("agent_prompts")
	if err != nil {
		return nil, fmt.Errorf("failed to load agent_prompts: %w", err)
	}

	defaults := sources.GetDefaultAgentPrompts()

	p := &AgentPrompts{
		Prefix:             file.System,
		FormatInstructions: file.Variables["format_instructions"],
		Suffix:             file.Variables["suffix"],
	}
	if p.Prefix == "" {
		p.Prefix = defaults.System
	}
	if p.FormatInstructions == "" {
		p.FormatInstructions = defaults.Variables["format_instructions"]
	}
	if p.Suffix == "" {
		p.Suffix = defaults.Variables["suffix"]
	}

	return p, nil
}
