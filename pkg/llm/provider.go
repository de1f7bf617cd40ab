// Интерфейс Провайдера через который работает весь цикл агента.

package llm

import "context"

// Provider — контракт для любого языкового сервиса.
//
// Единственная операция: текст промпта на входе, текст ответа на выходе.
// Никакого streaming и структурированного вывода — ответ модели
// разбирается текстовым парсером (pkg/agent).
type Provider interface {
	// Complete отправляет собранный промпт и возвращает сырой текст модели.
	Complete(ctx context.Context, prompt string) (string, error)
}

// CompleterFunc — функциональная обёртка для Provider.
//
// Удобна в тестах и для скриптованных моделей:
//
//	model := llm.CompleterFunc(func(ctx context.Context, prompt string) (string, error) {
//		return "Final Answer: 4", nil
//	})
type CompleterFunc func(ctx context.Context, prompt string) (string, error)

// Complete вызывает обёрнутую функцию.
func (f CompleterFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Ensure CompleterFunc implements Provider
var _ Provider = (CompleterFunc)(nil)
