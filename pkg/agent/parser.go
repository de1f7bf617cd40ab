// Разбор текстового вывода модели на директивы.
package agent

import (
	"fmt"
	"strings"
)

// Directive — результат разбора одного ответа модели: либо финальный
// ответ, либо вызов инструмента.
type Directive struct {
	// Final — признак завершения: Answer заполнен, Action пуст
	Final bool

	// Answer — финальный ответ (только при Final)
	Answer string

	// Action — имя инструмента, дословно как выдала модель
	Action string

	// ActionInput — вход инструмента, без крайних пробелов
	// и одного слоя обрамляющих кавычек
	ActionInput string
}

// MalformedDirectiveError — вывод модели не удалось разобрать.
// Reason называет нарушенное условие.
type MalformedDirectiveError struct {
	Reason string
	Output string
}

func (e *MalformedDirectiveError) Error() string {
	return fmt.Sprintf("malformed model output (%s): %s", e.Reason, e.Output)
}

const (
	finalAnswerMarker = "Final Answer"
	actionMarker      = "Action: "
	actionInputMarker = "Action Input: "
)

// ParseDirective разбирает текст ответа модели.
//
// Значимы только непустые строки. Если последняя из них начинается
// с "Final Answer" — это финальный ответ; иначе последняя строка обязана
// начинаться с "Action Input: ", а предпоследняя — с "Action: ".
func ParseDirective(output string) (Directive, error) {
	var lines []string
	for _, line := range strings.Split(output, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}

	if len(lines) == 0 {
		return Directive{}, &MalformedDirectiveError{Reason: "empty output", Output: output}
	}

	last := lines[len(lines)-1]
	if strings.HasPrefix(last, finalAnswerMarker) {
		answer := strings.TrimPrefix(last, finalAnswerMarker)
		answer = strings.TrimLeft(answer, ":")
		answer = strings.TrimLeft(answer, " ")
		return Directive{Final: true, Answer: answer}, nil
	}

	if !strings.HasPrefix(last, actionInputMarker) {
		return Directive{}, &MalformedDirectiveError{Reason: "missing Action Input line", Output: output}
	}
	if len(lines) < 2 || !strings.HasPrefix(lines[len(lines)-2], actionMarker) {
		return Directive{}, &MalformedDirectiveError{Reason: "missing Action line", Output: output}
	}

	action := strings.TrimPrefix(lines[len(lines)-2], actionMarker)
	input := strings.TrimPrefix(last, actionInputMarker)
	input = strings.Trim(input, " ")
	input = unquoteOnce(input)

	return Directive{Action: action, ActionInput: input}, nil
}

// unquoteOnce снимает один слой обрамляющих двойных кавычек.
func unquoteOnce(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
