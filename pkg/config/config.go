package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig — корневая структура конфигурации.
// Она зеркалит структуру config.yaml.
type AppConfig struct {
	Models    ModelsConfig     `yaml:"models"`
	Pipelines []PipelineConfig `yaml:"pipelines"`
	Prompts   PromptsConfig    `yaml:"prompts"`
	Debug     DebugConfig      `yaml:"debug"`
	S3        S3Config         `yaml:"s3"`
	App       AppSpecific      `yaml:"app"`
}

// ModelsConfig — настройки AI моделей.
type ModelsConfig struct {
	DefaultChat string              `yaml:"default_chat"` // Алиас по умолчанию (например, "glm-4.5")
	Definitions map[string]ModelDef `yaml:"definitions"`  // Словарь определений моделей
}

// ModelDef — параметры конкретной модели.
type ModelDef struct {
	Provider    string        `yaml:"provider"`   // "openai", "zai", "deepseek" и т.д.
	ModelName   string        `yaml:"model_name"` // Реальное имя в API
	APIKey      string        `yaml:"api_key"`    // Поддерживает ${VAR}
	BaseURL     string        `yaml:"base_url"`   // Для OpenAI-совместимых провайдеров
	MaxTokens   int           `yaml:"max_tokens"`
	Temperature float64       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`    // Go умеет парсить строки вида "60s", "1m"
	RateLimit   int           `yaml:"rate_limit"` // Запросов в минуту (0 = без лимита)
	BurstLimit  int           `yaml:"burst_limit"`
}

// PipelineConfig — декларативное описание одного pipeline.
//
// Один YAML может объявлять несколько pipeline'ов: pipeline с узлом
// типа "agent" становится точкой входа, остальные pipeline'ы —
// кандидатами в инструменты агента (по имени pipeline'а).
type PipelineConfig struct {
	Name  string       `yaml:"name"`
	Nodes []NodeConfig `yaml:"nodes"`
}

// NodeConfig — описание одного узла pipeline.
type NodeConfig struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"` // "agent", "calculator", "clock", кастомные билдеры

	// Поля узла агента
	Model         string   `yaml:"model,omitempty"`          // Алиас модели из models.definitions
	Tools         []string `yaml:"tools,omitempty"`          // Имена pipeline'ов-инструментов
	MaxIterations int      `yaml:"max_iterations,omitempty"` // 0 = без лимита (ответственность вызывающего)

	// Params — произвольные параметры для кастомных билдеров узлов
	Params map[string]string `yaml:"params,omitempty"`
}

// PromptsConfig — откуда загружать тексты промптов.
//
// Источники пробуются по порядку: файлы → база → встроенные дефолты.
type PromptsConfig struct {
	Dir      string `yaml:"dir"`      // Директория с YAML промптами
	Database string `yaml:"database"` // Путь к SQLite базе промптов (опционально)
	Table    string `yaml:"table"`    // Имя таблицы (default: "prompts")
}

// DebugConfig — конфигурация записи трейсов выполнения.
type DebugConfig struct {
	Enabled       bool   `yaml:"enabled"`
	LogsDir       string `yaml:"logs_dir"`
	MaxResultSize int    `yaml:"max_result_size"` // Обрезка observation в трейсе (0 = без лимита)
}

// S3Config — настройки объектного хранилища для архива трейсов.
type S3Config struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"access_key"` // Поддерживает ${VAR}
	SecretKey string `yaml:"secret_key"` // Поддерживает ${VAR}
	UseSSL    bool   `yaml:"use_ssl"`
}

// AppSpecific — общие настройки приложения.
type AppSpecific struct {
	Debug bool `yaml:"debug"`
}

// Load читает YAML файл, подставляет ENV переменные и возвращает готовую структуру.
func Load(path string) (*AppConfig, error) {
	// 1. Проверяем существование файла
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found at: %s", path)
	}

	// 2. Читаем файл целиком
	rawBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// 3. Подставляем переменные окружения.
	// os.ExpandEnv заменяет ${VAR} или $VAR на значение из системы.
	contentWithEnv := os.ExpandEnv(string(rawBytes))

	return Parse([]byte(contentWithEnv))
}

// Parse разбирает уже прочитанный YAML и валидирует его.
//
// Полезно когда конфигурация приходит не из файла (тесты, встраивание).
func Parse(data []byte) (*AppConfig, error) {
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// validate проверяет обязательные поля.
func (c *AppConfig) validate() error {
	if c.Models.DefaultChat != "" {
		if _, ok := c.Models.Definitions[c.Models.DefaultChat]; !ok {
			return fmt.Errorf("default_chat model '%s' is not defined in definitions", c.Models.DefaultChat)
		}
	}
	if c.S3.Enabled {
		if c.S3.Endpoint == "" {
			return fmt.Errorf("s3.endpoint is required when s3.enabled")
		}
		if c.S3.Bucket == "" {
			return fmt.Errorf("s3.bucket is required when s3.enabled")
		}
	}
	return nil
}

// Helper методы для удобства доступа (Syntactic sugar)

// GetChatModel возвращает конфигурацию модели по умолчанию или по имени.
func (c *AppConfig) GetChatModel(name string) (ModelDef, bool) {
	if name == "" {
		name = c.Models.DefaultChat
	}
	m, ok := c.Models.Definitions[name]
	return m, ok
}

// GetPipeline ищет pipeline по имени.
func (c *AppConfig) GetPipeline(name string) (PipelineConfig, bool) {
	for _, p := range c.Pipelines {
		if p.Name == name {
			return p, true
		}
	}
	return PipelineConfig{}, false
}
