// Package std предоставляет стандартные инструменты для AI агента.
//
// ClockTool — инструмент текущего времени.
package std

import (
	"context"
	"strings"
	"time"

	"github.com/ilkoid/mrkl-agent/pkg/tools"
)

// ClockTool возвращает текущее время.
//
// Action Input трактуется как имя тайм-зоны IANA ("Europe/Moscow").
// Пустой вход — UTC.
type ClockTool struct {
	// now подменяется в тестах
	now func() time.Time
}

// NewClockTool создает инструмент текущего времени.
func NewClockTool() *ClockTool {
	return &ClockTool{now: time.Now}
}

// Definition возвращает определение инструмента.
func (t *ClockTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        "Clock",
		Description: "useful for when you need to know the current date or time",
		Parameters: tools.JSONSchema{
			"type": "object",
			"properties": map[string]any{
				"timezone": map[string]any{
					"type":        "string",
					"description": "IANA timezone name, e.g. 'Europe/Moscow'. Empty for UTC.",
				},
			},
			"required": []string{},
		},
	}
}

// Execute возвращает текущее время в формате RFC3339.
func (t *ClockTool) Execute(ctx context.Context, input string) (string, error) {
	loc := time.UTC
	name := strings.TrimSpace(input)
	if name != "" {
		parsed, err := time.LoadLocation(name)
		if err == nil {
			loc = parsed
		}
		// Неизвестная зона — не ошибка: отвечаем в UTC,
		// модель сможет уточнить запрос сама.
	}

	return tools.WrapOutput(t.now().In(loc).Format(time.RFC3339)), nil
}

// Ensure ClockTool implements tools.Tool
var _ tools.Tool = (*ClockTool)(nil)
