// Helpers для Bubble Tea viewport: умная прокрутка и перенос строк.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/muesli/reflow/wrap"
)

// shouldGotoBottom проверяет, следует ли скроллить viewport вниз.
//
// Возвращает true если пользователь находится в нижней позиции viewport.
// Сохраняет позицию пользователя если он прокрутил вверх для просмотра истории.
func shouldGotoBottom(vp viewport.Model) bool {
	return vp.YOffset+vp.Height >= vp.TotalLineCount()
}

// AppendToViewport добавляет текст в viewport с умной обработкой прокрутки.
//
// Проверяет позицию пользователя ДО изменения контента и скроллит вниз
// только если пользователь был в нижней позиции. Это позволяет просматривать
// историю сообщений без прыжков при поступлении новых сообщений.
func AppendToViewport(vp *viewport.Model, newContent string) {
	wasAtBottom := shouldGotoBottom(*vp)
	vp.SetContent(newContent)
	if wasAtBottom {
		vp.GotoBottom()
	}
}

// WrapLines переносит длинные строки под ширину viewport.
//
// Исходные строки хранятся без переноса, wrap применяется при рендере,
// поэтому resize окна корректно перекладывает текст.
func WrapLines(lines []string, width int) string {
	if width <= 0 {
		return strings.Join(lines, "\n")
	}

	var wrapped []string
	for _, line := range lines {
		wrapped = append(wrapped, strings.Split(wrap.String(line, width), "\n")...)
	}
	return strings.Join(wrapped, "\n")
}
