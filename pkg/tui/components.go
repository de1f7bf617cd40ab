// Общие стили для TUI компонентов.
package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// SystemStyle возвращает стиль для системных сообщений.
func SystemStyle(str string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("242")). // Серый
		Render(str)
}

// AIMessageStyle возвращает стиль для сообщений агента.
func AIMessageStyle(str string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("86")). // Cyan
		Bold(true).
		Render(str)
}

// ErrorStyle возвращает стиль для ошибок.
func ErrorStyle(str string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("196")). // Red
		Bold(true).
		Render(str)
}

// UserMessageStyle возвращает стиль для сообщений пользователя.
func UserMessageStyle(str string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("226")). // Yellow
		Bold(true).
		Render(str)
}

// ThinkingStyle возвращает стиль для строк Thought.
func ThinkingStyle(str string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("99")). // Purple
		Bold(true).
		Render(str)
}

// ToolCallStyle возвращает стиль для вызова инструмента.
func ToolCallStyle(str string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("228")). // Yellow-orange
		Render(str)
}

// ToolResultStyle возвращает стиль для наблюдения инструмента.
func ToolResultStyle(str string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("154")). // Green
		Render(str)
}

// DividerStyle возвращает горизонтальную разделительную линию.
func DividerStyle(width int) string {
	line := strings.Repeat("─", width)
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")). // Тёмно-серый
		Render(line)
}

// RenderStatusBar рендерит статус-бар с заданными параметрами.
//
// Parameters:
//   - title: Заголовок приложения
//   - model: Имя модели
//   - colors: Цветовая схема
//
// Возвращает отрендеренную строку статус-бара.
func RenderStatusBar(title, model string, colors ColorScheme) string {
	if model == "" {
		model = "N/A"
	}

	content := " " + title + " | Model: " + model + " "

	style := lipgloss.NewStyle().
		Foreground(colors.StatusForeground).
		Background(colors.StatusBackground).
		Bold(true)

	return style.Render(content)
}
