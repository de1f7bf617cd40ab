package agent

import (
	"context"
	"fmt"

	"github.com/ilkoid/mrkl-agent/pkg/tools"
)

// Runner — всё, что умеет ответить на текстовый запрос.
// Реализуется MRKLAgent и pipeline-обёртками.
type Runner interface {
	Run(ctx context.Context, query string) (string, error)
}

// SubAgentTool оборачивает Runner в инструмент: агент может делегировать
// подзапрос другому агенту или pipeline как обычному инструменту.
type SubAgentTool struct {
	name        string
	description string
	runner      Runner
}

var _ tools.Tool = (*SubAgentTool)(nil)

// NewSubAgentTool создаёт инструмент-делегат.
func NewSubAgentTool(name, description string, runner Runner) *SubAgentTool {
	return &SubAgentTool{
		name:        name,
		description: description,
		runner:      runner,
	}
}

func (t *SubAgentTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        t.name,
		Description: t.description,
		Parameters: tools.JSONSchema{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "Запрос для вложенного агента",
				},
			},
			"required": []string{"query"},
		},
	}
}

// Execute передаёт вход вложенному Runner'у как запрос.
func (t *SubAgentTool) Execute(ctx context.Context, input string) (string, error) {
	answer, err := t.runner.Run(ctx, input)
	if err != nil {
		return "", fmt.Errorf("sub-agent '%s' failed: %w", t.name, err)
	}
	return tools.WrapOutput(answer), nil
}
