package sources

import "fmt"

// DefaultSource — загрузка встроенных (hardcoded) промптов.
//
// OCP Principle: Fallback source когда YAML файлы недоступны.
// YAML-first философия: файлы приоритетны, defaults — резерв.
type DefaultSource struct {
	// Встроенные промпты (map для простоты расширения)
	prompts map[string]*PromptData
}

// NewDefaultSource создаёт источник с Go defaults.
func NewDefaultSource() *DefaultSource {
	return &DefaultSource{
		prompts: make(map[string]*PromptData),
	}
}

// AddPrompt добавляет встроенный промпт.
func (s *DefaultSource) AddPrompt(id string, file *PromptData) {
	s.prompts[id] = file
}

// Load возвращает встроенный промпт или ошибку.
func (s *DefaultSource) Load(promptID string) (*PromptData, error) {
	file, ok := s.prompts[promptID]
	if !ok {
		return nil, fmt.Errorf("default prompt '%s' not defined", promptID)
	}
	return file, nil
}

// PopulateDefaults заполняет источник стандартными промптами.
func (s *DefaultSource) PopulateDefaults() {
	s.AddPrompt("agent_prompts", GetDefaultAgentPrompts())
}

// GetDefaultAgentPrompts возвращает дефолтные тексты MRKL промпта.
//
// System — преамбула перед перечнем инструментов. Переменные:
//   - format_instructions: инструкции формата, плейсхолдер {tool_names}
//   - suffix: хвост промпта, плейсхолдеры {query} и {scratchpad}
//
// Exported функция для использования в registry factory.
func GetDefaultAgentPrompts() *PromptData {
	return &PromptData{
		System: "Answer the following questions as best as you can. You have access to the following tools:",
		Variables: map[string]string{
			"format_instructions": `Use the following format:
Question: the input question you must answer
Thought: you should always think about what to do
Action: the action to take, should be one of [{tool_names}]
Action Input: the input to the action
Observation: the result of the action
... (this Thought/Action/Action Input/Observation can repeat N times)
Thought: I now know the final answer
Final Answer: the final answer to the original input question`,
			"suffix": `Begin!
Question: {query}
Thought: {scratchpad}`,
		},
		Metadata: map[string]any{
			"source":  "go-default",
			"version": "1.0",
		},
	}
}
