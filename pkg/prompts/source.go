package prompts

// PromptSource — интерфейс для загрузки промптов из различных источников.
//
// OCP Principle: Открыт для расширения (новые источники), закрыт для изменения.
// Интерфейс обоснован: ≥3 реализации (File, Database, Default).
type PromptSource interface {
	// Load загружает промпт по идентификатору.
	// Возвращает ошибку, если источник не содержит промпт.
	Load(promptID string) (*PromptFile, error)
}
