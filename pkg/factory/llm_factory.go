package factory

import (
	"fmt"

	"github.com/ilkoid/mrkl-agent/pkg/config"
	"github.com/ilkoid/mrkl-agent/pkg/llm"
	"github.com/ilkoid/mrkl-agent/pkg/llm/openai"
)

// NewLLMProvider создает провайдера на основе конфигурации модели
func NewLLMProvider(modelDef config.ModelDef) (llm.Provider, error) {
	switch modelDef.Provider {
	case "openai", "zai", "deepseek", "openrouter":
		return openai.NewClient(modelDef), nil

	default:
		return nil, fmt.Errorf("unknown provider type: %s", modelDef.Provider)
	}
}
