// Загрузка агента из декларативной YAML конфигурации pipeline'ов.
package agent

import (
	"fmt"
	"sync"

	"github.com/ilkoid/mrkl-agent/pkg/config"
	"github.com/ilkoid/mrkl-agent/pkg/models"
	"github.com/ilkoid/mrkl-agent/pkg/prompts"
	"github.com/ilkoid/mrkl-agent/pkg/tools"
	"github.com/ilkoid/mrkl-agent/pkg/tools/std"
)

// ConfigError — структурная проблема декларативной конфигурации:
// отсутствующий или неоднозначный agent узел, неизвестный pipeline,
// неизвестный тип узла.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string {
	return "pipeline config error: " + e.Msg
}

// ToolBuilder строит инструмент из узла pipeline-конфигурации.
//
// name — имя pipeline'а-инструмента, node — его первый узел.
type ToolBuilder func(name string, node config.NodeConfig) (tools.Tool, error)

var (
	buildersMu sync.RWMutex
	builders   = map[string]ToolBuilder{}
)

// RegisterBuilder регистрирует билдер инструмента для типа узла.
//
// Позволяет приложениям добавлять собственные типы узлов
// без изменения загрузчика.
func RegisterBuilder(nodeType string, b ToolBuilder) {
	buildersMu.Lock()
	defer buildersMu.Unlock()
	builders[nodeType] = b
}

func lookupBuilder(nodeType string) (ToolBuilder, bool) {
	buildersMu.RLock()
	defer buildersMu.RUnlock()
	b, ok := builders[nodeType]
	return b, ok
}

func init() {
	RegisterBuilder("calculator", func(name string, node config.NodeConfig) (tools.Tool, error) {
		return std.NewCalculatorTool(), nil
	})
	RegisterBuilder("clock", func(name string, node config.NodeConfig) (tools.Tool, error) {
		return std.NewClockTool(), nil
	})
}

// LoadFromConfig строит агента из разобранной конфигурации.
//
// pipelineName выбирает целевой pipeline; пустое имя допустимо только
// когда в конфигурации объявлен ровно один pipeline. Целевой pipeline
// обязан содержать ровно один узел типа "agent" — ноль или несколько
// дают ConfigError.
//
// В реестр агента попадают только инструменты, перечисленные в поле
// tools узла агента. Каждое имя ссылается на pipeline-инструмент;
// pipeline с собственным agent узлом становится вложенным агентом.
func LoadFromConfig(
	cfg *config.AppConfig,
	pipelineName string,
	modelRegistry *models.Registry,
	agentPrompts *prompts.AgentPrompts,
) (*MRKLAgent, error) {
	pipeline, err := resolvePipeline(cfg, pipelineName)
	if err != nil {
		return nil, err
	}

	agentNode, err := findAgentNode(pipeline)
	if err != nil {
		return nil, err
	}

	provider, _, _, err := modelRegistry.GetWithFallback(agentNode.Model, cfg.Models.DefaultChat)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve model for pipeline '%s': %w", pipeline.Name, err)
	}

	registry := tools.NewRegistry()
	for _, toolName := range agentNode.Tools {
		tool, err := buildTool(cfg, toolName, modelRegistry, agentPrompts)
		if err != nil {
			return nil, err
		}
		if err := registry.Register(tool); err != nil {
			return nil, fmt.Errorf("failed to register tool '%s': %w", toolName, err)
		}
	}

	a := NewMRKLAgent(provider, registry, agentPrompts)
	a.SetMaxIterations(agentNode.MaxIterations)
	return a, nil
}

// resolvePipeline выбирает целевой pipeline по имени.
func resolvePipeline(cfg *config.AppConfig, name string) (config.PipelineConfig, error) {
	if name == "" {
		if len(cfg.Pipelines) != 1 {
			return config.PipelineConfig{}, &ConfigError{
				Msg: fmt.Sprintf("config declares %d pipelines, explicit pipeline name required", len(cfg.Pipelines)),
			}
		}
		return cfg.Pipelines[0], nil
	}

	pipeline, ok := cfg.GetPipeline(name)
	if !ok {
		return config.PipelineConfig{}, &ConfigError{Msg: fmt.Sprintf("pipeline '%s' not found", name)}
	}
	return pipeline, nil
}

// findAgentNode находит единственный agent узел pipeline'а.
func findAgentNode(pipeline config.PipelineConfig) (config.NodeConfig, error) {
	var found []config.NodeConfig
	for _, node := range pipeline.Nodes {
		if node.Type == "agent" {
			found = append(found, node)
		}
	}

	switch len(found) {
	case 0:
		return config.NodeConfig{}, &ConfigError{
			Msg: fmt.Sprintf("pipeline '%s' does not contain an agent node", pipeline.Name),
		}
	case 1:
		return found[0], nil
	default:
		return config.NodeConfig{}, &ConfigError{
			Msg: fmt.Sprintf("pipeline '%s' contains %d agent nodes, exactly one required", pipeline.Name, len(found)),
		}
	}
}

// buildTool строит инструмент из pipeline'а с именем toolName.
func buildTool(
	cfg *config.AppConfig,
	toolName string,
	modelRegistry *models.Registry,
	agentPrompts *prompts.AgentPrompts,
) (tools.Tool, error) {
	pipeline, ok := cfg.GetPipeline(toolName)
	if !ok {
		return nil, &ConfigError{Msg: fmt.Sprintf("tool pipeline '%s' not found", toolName)}
	}
	if len(pipeline.Nodes) == 0 {
		return nil, &ConfigError{Msg: fmt.Sprintf("tool pipeline '%s' has no nodes", toolName)}
	}

	node := pipeline.Nodes[0]

	// Pipeline с собственным agent узлом становится вложенным агентом
	if node.Type == "agent" {
		sub, err := LoadFromConfig(cfg, pipeline.Name, modelRegistry, agentPrompts)
		if err != nil {
			return nil, fmt.Errorf("failed to build sub-agent '%s': %w", pipeline.Name, err)
		}
		description := node.Params["description"]
		if description == "" {
			description = fmt.Sprintf("delegates the question to the %s agent", pipeline.Name)
		}
		return NewSubAgentTool(pipeline.Name, description, sub), nil
	}

	builder, ok := lookupBuilder(node.Type)
	if !ok {
		return nil, &ConfigError{Msg: fmt.Sprintf("unknown node type '%s' in pipeline '%s'", node.Type, pipeline.Name)}
	}
	return builder(pipeline.Name, node)
}
