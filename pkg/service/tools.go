// Адаптер: методы контейнера как инструменты агента.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ilkoid/mrkl-agent/pkg/tools"
)

// Tools генерирует дескрипторы контейнера и оборачивает каждый метод
// в tools.Tool. Ошибка генерации каталога прерывает адаптацию целиком.
func Tools(c *Container) ([]tools.Tool, error) {
	descs, err := c.Describe()
	if err != nil {
		return nil, err
	}

	out := make([]tools.Tool, 0, len(descs))
	for _, d := range descs {
		out = append(out, &methodTool{container: c, desc: d})
	}
	return out, nil
}

// methodTool — один метод контейнера в роли инструмента.
type methodTool struct {
	container *Container
	desc      ToolDescriptor
}

var _ tools.Tool = (*methodTool)(nil)

func (t *methodTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        t.desc.Name,
		Description: t.desc.Description,
		Parameters:  schemaToJSONSchema(t.desc.Parameters),
	}
}

// Execute принимает либо JSON-объект аргументов, либо голую строку,
// которая подставляется в единственный обязательный параметр.
func (t *methodTool) Execute(ctx context.Context, input string) (string, error) {
	args, err := t.parseInput(input)
	if err != nil {
		return "", err
	}

	result, err := t.container.Invoke(ctx, t.desc.Name, args)
	if err != nil {
		return "", err
	}

	return tools.WrapOutput(stringify(result)), nil
}

func (t *methodTool) parseInput(input string) (map[string]any, error) {
	trimmed := strings.TrimSpace(input)
	if strings.HasPrefix(trimmed, "{") {
		args := make(map[string]any)
		if err := json.Unmarshal([]byte(trimmed), &args); err != nil {
			return nil, fmt.Errorf("tool '%s': failed to parse input: %w", t.desc.Name, err)
		}
		return args, nil
	}

	if len(t.desc.Parameters.Required) != 1 {
		return nil, fmt.Errorf("tool '%s' expects a JSON object input", t.desc.Name)
	}
	return map[string]any{t.desc.Parameters.Required[0]: trimmed}, nil
}

// schemaToJSONSchema переводит упорядоченную схему в map-представление
// реестра инструментов.
func schemaToJSONSchema(s ParameterSchema) tools.JSONSchema {
	props := make(map[string]any, len(s.Properties))
	for _, p := range s.Properties {
		prop := map[string]any{
			"type":        p.Type,
			"description": p.Description,
		}
		if p.Enum != nil {
			prop["enum"] = p.Enum
		}
		props[p.Name] = prop
	}

	required := s.Required
	if required == nil {
		required = []string{}
	}
	return tools.JSONSchema{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}
