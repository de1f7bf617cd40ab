// Фасад: сборка агента из config.yaml одним вызовом.
package agent

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ilkoid/mrkl-agent/pkg/config"
	"github.com/ilkoid/mrkl-agent/pkg/debug"
	"github.com/ilkoid/mrkl-agent/pkg/events"
	"github.com/ilkoid/mrkl-agent/pkg/models"
	"github.com/ilkoid/mrkl-agent/pkg/prompts"
	"github.com/ilkoid/mrkl-agent/pkg/s3storage"
	"github.com/ilkoid/mrkl-agent/pkg/tools"
	"github.com/ilkoid/mrkl-agent/pkg/utils"
)

// Client представляет агента с простым API для запуска запросов.
//
// Client является фасадом над MRKLAgent, скрывая инициализацию
// компонентов (Config, ModelRegistry, ToolsRegistry, промпты, трейсы).
//
// Thread-safe: все методы безопасны для параллельного вызова,
// кроме конкурентных Run() на одном Client.
type Client struct {
	agent         *MRKLAgent
	modelRegistry *models.Registry
	config        *config.AppConfig

	// Optional dependencies (могут быть nil)
	s3      *s3storage.Client
	emitter events.Emitter

	// emitterMu protects emitter field for concurrent access
	emitterMu sync.RWMutex
}

// Config определяет конфигурацию для создания агента.
//
// Все поля опциональны - при пустых значениях используются дефолты:
//   - ConfigPath: "config.yaml" в текущей директории
//   - Pipeline: единственный pipeline из конфигурации
//   - MaxIterations: значение из конфигурации pipeline'а
type Config struct {
	// ConfigPath - путь к config.yaml.
	ConfigPath string

	// Pipeline - имя целевого pipeline. Обязательно если конфигурация
	// объявляет несколько pipeline'ов.
	Pipeline string

	// MaxIterations - override лимита итераций цикла.
	// 0 оставляет значение из конфигурации.
	MaxIterations int
}

// New создаёт новый агент с указанной конфигурацией.
//
// Функция выполняет полную инициализацию всех компонентов:
//   - Загружает config.yaml
//   - Создаёт ModelRegistry из definitions
//   - Загружает тексты промпта (file → database → defaults)
//   - Строит агента из декларативного pipeline'а
//   - Создаёт S3 клиент для архива трейсов (опционально)
//
// Возвращает ошибку если config.yaml не найден или невалиден,
// либо pipeline не собирается (см. ConfigError).
func New(ctx context.Context, cfg Config) (*Client, error) {
	utils.Info("Creating agent", "config_path", cfg.ConfigPath, "pipeline", cfg.Pipeline)

	cfgPath := cfg.ConfigPath
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	appCfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", cfgPath, err)
	}
	utils.Info("Config loaded", "path", cfgPath)

	modelRegistry, err := models.NewRegistryFromConfig(appCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create model registry: %w", err)
	}

	agentPrompts, err := prompts.LoadAgentPrompts(appCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load agent prompts: %w", err)
	}

	a, err := LoadFromConfig(appCfg, cfg.Pipeline, modelRegistry, agentPrompts)
	if err != nil {
		return nil, err
	}
	if cfg.MaxIterations > 0 {
		a.SetMaxIterations(cfg.MaxIterations)
	}

	client := &Client{
		agent:         a,
		modelRegistry: modelRegistry,
		config:        appCfg,
	}

	if appCfg.S3.Enabled {
		s3Client, err := s3storage.New(appCfg.S3)
		if err != nil {
			return nil, fmt.Errorf("failed to create s3 client: %w", err)
		}
		client.s3 = s3Client
		utils.Info("S3 archive enabled", "bucket", appCfg.S3.Bucket)
	}

	utils.Info("Agent created",
		"models", modelRegistry.ListNames(),
		"tools", a.Registry().Names())
	return client, nil
}

// Run выполняет один запрос через цикл агента.
//
// При включённом debug каждая сессия пишет JSON трейс в logs_dir;
// при включённом S3 трейс дополнительно архивируется в бакет.
func (c *Client) Run(ctx context.Context, query string) (string, error) {
	c.emitterMu.RLock()
	c.agent.SetEmitter(c.emitter)
	c.emitterMu.RUnlock()

	var recorder *debug.Recorder
	if c.config.Debug.Enabled {
		r, err := debug.NewRecorder(debug.RecorderConfig{
			LogsDir:       c.config.Debug.LogsDir,
			MaxResultSize: c.config.Debug.MaxResultSize,
		})
		if err != nil {
			return "", fmt.Errorf("failed to create run recorder: %w", err)
		}
		recorder = r
		c.agent.SetRecorder(recorder)
		defer c.agent.SetRecorder(nil)
	}

	answer, runErr := c.agent.Run(ctx, query)

	if recorder != nil {
		c.archiveRunLog(ctx, recorder)
	}

	return answer, runErr
}

// RegisterTool добавляет инструмент в реестр агента.
func (c *Client) RegisterTool(t tools.Tool) error {
	return c.agent.Registry().Register(t)
}

// SetEmitter подключает Port для событий выполнения.
func (c *Client) SetEmitter(e events.Emitter) {
	c.emitterMu.Lock()
	defer c.emitterMu.Unlock()
	c.emitter = e
}

// Agent возвращает внутренний MRKLAgent для продвинутых сценариев.
func (c *Client) Agent() *MRKLAgent {
	return c.agent
}

// Models возвращает реестр моделей.
func (c *Client) Models() *models.Registry {
	return c.modelRegistry
}

// archiveRunLog загружает свежий трейс в S3, если архив включён.
func (c *Client) archiveRunLog(ctx context.Context, recorder *debug.Recorder) {
	if c.s3 == nil {
		return
	}

	logPath := filepath.Join(c.config.Debug.LogsDir, recorder.GetRunID()+".json")
	data, err := os.ReadFile(logPath)
	if err != nil {
		utils.Warn("Failed to read run log for archive", "path", logPath, "error", err)
		return
	}

	key := fmt.Sprintf("runs/%s/%s.json", time.Now().Format("2006-01-02"), recorder.GetRunID())
	if err := c.s3.UploadRunLog(ctx, key, data); err != nil {
		utils.Warn("Failed to archive run log", "key", key, "error", err)
		return
	}
	utils.Debug("Run log archived", "key", key)
}
