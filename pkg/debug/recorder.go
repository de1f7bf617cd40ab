package debug

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Recorder записывает трейс выполнения агента и сохраняет в JSON файл.
//
// Потокобезопасен — может использоваться из разных горутин.
type Recorder struct {
	mu sync.Mutex

	// config — конфигурация рекордера
	config RecorderConfig

	// log — накапливаемый трейс выполнения
	log RunLog

	// currentIteration — текущая итерация (заполняется по мере выполнения)
	currentIteration *Iteration

	// iterationStart — момент начала текущей итерации
	iterationStart time.Time

	// visitedTools — множество уникальных инструментов
	visitedTools map[string]struct{}

	// errors — список ошибок выполнения
	errors []string
}

// RecorderConfig конфигурация для создания Recorder.
type RecorderConfig struct {
	// LogsDir — директория для сохранения логов
	LogsDir string

	// MaxResultSize — максимальный размер наблюдения (превышение обрезается)
	// 0 означает без ограничений
	MaxResultSize int
}

// NewRecorder создает новый Recorder с заданной конфигурацией.
//
// Если LogsDir не существует, пытается создать её.
func NewRecorder(cfg RecorderConfig) (*Recorder, error) {
	if cfg.LogsDir != "" {
		if err := os.MkdirAll(cfg.LogsDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create logs directory: %w", err)
		}
	}

	runID := fmt.Sprintf("run_%s_%s", time.Now().Format("20060102_150405"), uuid.NewString()[:8])

	return &Recorder{
		config: cfg,
		log: RunLog{
			RunID:     runID,
			Timestamp: time.Now(),
		},
		visitedTools: make(map[string]struct{}),
		errors:       make([]string, 0),
	}, nil
}

// Start начинает запись новой сессии с пользовательским запросом.
func (r *Recorder) Start(userQuery string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.log.UserQuery = userQuery
	r.log.Timestamp = time.Now()
}

// StartIteration начинает запись новой итерации.
func (r *Recorder) StartIteration(num int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.currentIteration = &Iteration{Number: num}
	r.iterationStart = time.Now()
}

// RecordModelOutput записывает сырой ответ модели.
func (r *Recorder) RecordModelOutput(output string, duration time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.currentIteration != nil {
		r.currentIteration.ModelOutput = output
		r.currentIteration.ModelDuration = duration.Milliseconds()
	}
}

// RecordDirective записывает разобранную директиву.
func (r *Recorder) RecordDirective(action, actionInput string, isFinal bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.currentIteration != nil {
		r.currentIteration.Action = action
		r.currentIteration.ActionInput = actionInput
		r.currentIteration.IsFinal = isFinal
	}
}

// RecordObservation записывает результат инструмента.
func (r *Recorder) RecordObservation(toolName, observation string, duration time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.currentIteration == nil {
		return
	}

	if r.config.MaxResultSize > 0 && len(observation) > r.config.MaxResultSize {
		observation = observation[:r.config.MaxResultSize] + "... (truncated)"
		r.currentIteration.ObservationTruncated = true
	}
	r.currentIteration.Observation = observation
	r.currentIteration.ToolDuration = duration.Milliseconds()

	r.visitedTools[toolName] = struct{}{}
}

// RecordError записывает ошибку итерации.
func (r *Recorder) RecordError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg := err.Error()
	r.errors = append(r.errors, msg)
	if r.currentIteration != nil {
		r.currentIteration.Error = msg
	}
}

// EndIteration завершает текущую итерацию.
func (r *Recorder) EndIteration() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.currentIteration != nil {
		r.currentIteration.Duration = time.Since(r.iterationStart).Milliseconds()
		r.log.Iterations = append(r.log.Iterations, *r.currentIteration)
		r.currentIteration = nil
	}
}

// Finalize завершает запись и сохраняет лог в файл.
//
// Возвращает путь к сохраненному файлу или ошибку.
func (r *Recorder) Finalize(finalResult string, duration time.Duration) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.log.FinalResult = finalResult
	r.log.Duration = duration.Milliseconds()
	r.buildSummary()

	data, err := json.MarshalIndent(r.log, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal run log: %w", err)
	}

	filePath := r.getFilePath()
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write run log: %w", err)
	}

	return filePath, nil
}

// buildSummary формирует агрегированную статистику.
func (r *Recorder) buildSummary() {
	summary := Summary{
		Errors:       r.errors,
		VisitedTools: make([]string, 0, len(r.visitedTools)),
	}

	for tool := range r.visitedTools {
		summary.VisitedTools = append(summary.VisitedTools, tool)
	}
	sort.Strings(summary.VisitedTools)

	for _, iter := range r.log.Iterations {
		summary.TotalModelCalls++
		summary.TotalModelDuration += iter.ModelDuration
		if iter.Action != "" && !iter.IsFinal {
			summary.TotalToolsExecuted++
			summary.TotalToolDuration += iter.ToolDuration
		}
	}

	r.log.Summary = summary
}

// getFilePath возвращает путь к файлу для сохранения.
func (r *Recorder) getFilePath() string {
	if r.config.LogsDir != "" {
		return filepath.Join(r.config.LogsDir, r.log.RunID+".json")
	}
	return r.log.RunID + ".json"
}

// GetRunID возвращает идентификатор текущей сессии.
func (r *Recorder) GetRunID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.log.RunID
}
