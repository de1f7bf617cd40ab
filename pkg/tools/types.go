// Интерфейс Tool и структуры определений.

package tools

import (
	"context"
	"encoding/json"
	"fmt"
)

// JSONSchema представляет JSON Schema для параметров инструмента.
//
// Используется вместо interface{} для типобезопасности.
// Формат соответствует JSON Schema specification для Function Calling API.
type JSONSchema map[string]any

// ToolDefinition описывает инструмент для LLM.
type ToolDefinition struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Parameters  JSONSchema `json:"parameters"` // JSON Schema объекта аргументов
}

// Tool — контракт, который должен реализовать любой инструмент.
//
// Это и есть Invocable реестра: обычный инструмент, метод сервиса
// (pkg/service) или вложенный агент (pkg/agent.SubAgentTool) — для
// цикла они неразличимы.
type Tool interface {
	// Definition возвращает описание инструмента для LLM.
	Definition() ToolDefinition

	// Execute выполняет логику инструмента.
	// input — сырая строка Action Input, которую прислала LLM.
	// Возвращает конверт наблюдения {"output": "..."} или ошибку.
	Execute(ctx context.Context, input string) (string, error)
}

// Result — конверт наблюдения, которым обменивается каждый инструмент.
//
// Цикл агента извлекает из него поле output как текст Observation.
type Result struct {
	Output string `json:"output"`
}

// WrapOutput упаковывает текст наблюдения в конверт {"output": ...}.
func WrapOutput(output string) string {
	data, err := json.Marshal(Result{Output: output})
	if err != nil {
		// Marshal строки не может провалиться, но panic здесь недопустим
		return `{"output":""}`
	}
	return string(data)
}

// ExtractOutput распаковывает конверт наблюдения.
//
// Возвращает ошибку если инструмент вернул не-конвертную строку.
func ExtractOutput(raw string) (string, error) {
	var res Result
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		return "", fmt.Errorf("tool result is not an {\"output\": ...} envelope: %w", err)
	}
	return res.Output, nil
}
