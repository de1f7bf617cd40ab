// Package debug предоставляет инструменты для записи и анализа выполнения агента.
//
// Пакет сохраняет детальные трейсы выполнения в JSON формате для последующего
// анализа, отладки и оптимизации работы агента.
package debug

import (
	"time"
)

// RunLog представляет полный трейс выполнения одного запроса агента.
//
// Сохраняется в JSON файл и содержит всю информацию о выполнении:
// вызовы модели, разобранные директивы, наблюдения, временные метрики.
type RunLog struct {
	// RunID — уникальный идентификатор запуска (используется в имени файла)
	RunID string `json:"run_id"`

	// Timestamp — время начала выполнения
	Timestamp time.Time `json:"timestamp"`

	// UserQuery — исходный запрос пользователя
	UserQuery string `json:"user_query"`

	// Duration — общая длительность выполнения в миллисекундах
	Duration int64 `json:"duration_ms"`

	// Iterations — список итераций цикла Thought/Action/Observation
	Iterations []Iteration `json:"iterations"`

	// Summary — агрегированная статистика выполнения
	Summary Summary `json:"summary"`

	// FinalResult — финальный ответ агента
	FinalResult string `json:"final_result,omitempty"`

	// Error — ошибка если выполнение завершилось неудачно
	Error string `json:"error,omitempty"`
}

// Iteration представляет одну итерацию цикла.
type Iteration struct {
	// Number — номер итерации (начиная с 1)
	Number int `json:"iteration"`

	// Duration — длительность итерации в миллисекундах
	Duration int64 `json:"duration_ms"`

	// ModelOutput — сырой текст ответа модели
	ModelOutput string `json:"model_output,omitempty"`

	// ModelDuration — длительность вызова модели в миллисекундах
	ModelDuration int64 `json:"model_duration_ms"`

	// Action — имя инструмента из разобранной директивы
	Action string `json:"action,omitempty"`

	// ActionInput — вход инструмента
	ActionInput string `json:"action_input,omitempty"`

	// Observation — результат инструмента (может быть обрезан по MaxResultSize)
	Observation string `json:"observation,omitempty"`

	// ObservationTruncated — true если наблюдение было обрезано
	ObservationTruncated bool `json:"observation_truncated,omitempty"`

	// ToolDuration — длительность выполнения инструмента в миллисекундах
	ToolDuration int64 `json:"tool_duration_ms,omitempty"`

	// IsFinal — true если модель выдала Final Answer на этой итерации
	IsFinal bool `json:"is_final,omitempty"`

	// Error — ошибка итерации (разбор, неизвестный инструмент, сбой инструмента)
	Error string `json:"error,omitempty"`
}

// Summary содержит агрегированную статистику выполнения.
type Summary struct {
	// TotalModelCalls — общее количество вызовов модели
	TotalModelCalls int `json:"total_model_calls"`

	// TotalToolsExecuted — общее количество выполненных инструментов
	TotalToolsExecuted int `json:"total_tools_executed"`

	// TotalModelDuration — общее время вызовов модели в миллисекундах
	TotalModelDuration int64 `json:"total_model_duration_ms"`

	// TotalToolDuration — общее время выполнения инструментов в миллисекундах
	TotalToolDuration int64 `json:"total_tool_duration_ms"`

	// Errors — список всех ошибок выполнения
	Errors []string `json:"errors,omitempty"`

	// VisitedTools — список уникальных инструментов, которые были вызваны
	VisitedTools []string `json:"visited_tools,omitempty"`
}
