// Package agent реализует текстовый MRKL цикл: Thought → Action → Observation.
//
// Агент собирает текстовый промпт из префикса, перечня инструментов
// и инструкций формата, гоняет модель по циклу и маршрутизирует
// разобранные директивы в реестр инструментов. Финальный ответ
// возвращается когда модель выдаёт строку "Final Answer".
package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ilkoid/mrkl-agent/pkg/debug"
	"github.com/ilkoid/mrkl-agent/pkg/events"
	"github.com/ilkoid/mrkl-agent/pkg/llm"
	"github.com/ilkoid/mrkl-agent/pkg/prompts"
	"github.com/ilkoid/mrkl-agent/pkg/tools"
)

// ErrMaxIterations возвращается когда цикл исчерпал лимит итераций
// без финального ответа.
var ErrMaxIterations = fmt.Errorf("max iterations reached without final answer")

// MRKLAgent — оркестратор цикла Thought/Action/Observation.
//
// Не потокобезопасен для конкурентных Run(): создавайте агента
// на каждый запрос или сериализуйте вызовы.
type MRKLAgent struct {
	model    llm.Provider
	registry *tools.Registry
	prompts  *prompts.AgentPrompts

	// maxIterations — лимит итераций цикла (0 = без лимита,
	// ответственность за завершение на вызывающем)
	maxIterations int

	emitter  events.Emitter
	recorder *debug.Recorder
}

// NewMRKLAgent создаёт агента с моделью, реестром инструментов
// и текстами промпта.
func NewMRKLAgent(model llm.Provider, registry *tools.Registry, p *prompts.AgentPrompts) *MRKLAgent {
	return &MRKLAgent{
		model:    model,
		registry: registry,
		prompts:  p,
	}
}

// SetMaxIterations задаёт лимит итераций цикла. 0 отключает лимит.
func (a *MRKLAgent) SetMaxIterations(n int) {
	a.maxIterations = n
}

// SetEmitter подключает Port для событий выполнения.
func (a *MRKLAgent) SetEmitter(e events.Emitter) {
	a.emitter = e
}

// SetRecorder подключает рекордер трейсов выполнения.
func (a *MRKLAgent) SetRecorder(r *debug.Recorder) {
	a.recorder = r
}

// Registry возвращает реестр инструментов агента.
func (a *MRKLAgent) Registry() *tools.Registry {
	return a.registry
}

// Run выполняет цикл для одного запроса и возвращает финальный ответ.
//
// Цикл: построить промпт → вызвать модель → разобрать директиву.
// Директива Final завершает цикл; директива Act маршрутизируется
// в реестр, наблюдение инструмента дописывается к рабочему запросу
// и в scratchpad, цикл повторяется.
//
// Ошибки разбора, неизвестный инструмент и сбой инструмента
// прерывают цикл и возвращаются вызывающему.
func (a *MRKLAgent) Run(ctx context.Context, query string) (string, error) {
	start := time.Now()
	if a.recorder != nil {
		a.recorder.Start(query)
	}

	// Рабочий запрос наращивается наблюдениями, scratchpad хранит
	// транскрипт Thought/Action/Observation для хвоста промпта.
	working := query
	scratchpad := ""

	for iteration := 1; ; iteration++ {
		if a.maxIterations > 0 && iteration > a.maxIterations {
			err := fmt.Errorf("%w (limit %d)", ErrMaxIterations, a.maxIterations)
			a.fail(ctx, err, start)
			return "", err
		}

		if err := ctx.Err(); err != nil {
			a.fail(ctx, err, start)
			return "", err
		}

		if a.recorder != nil {
			a.recorder.StartIteration(iteration)
		}
		a.emit(ctx, events.Event{
			Type:      events.EventThinking,
			Data:      events.ThinkingData{Query: working, Iteration: iteration},
			Timestamp: time.Now(),
		})

		prompt := a.buildPrompt(working, scratchpad)

		modelStart := time.Now()
		output, err := a.model.Complete(ctx, prompt)
		modelDuration := time.Since(modelStart)
		if a.recorder != nil {
			a.recorder.RecordModelOutput(output, modelDuration)
		}
		if err != nil {
			err = fmt.Errorf("model call failed: %w", err)
			a.fail(ctx, err, start)
			return "", err
		}

		a.emit(ctx, events.Event{
			Type:      events.EventMessage,
			Data:      events.MessageData{Content: output},
			Timestamp: time.Now(),
		})

		directive, err := ParseDirective(output)
		if err != nil {
			a.fail(ctx, err, start)
			return "", err
		}

		if directive.Final {
			if a.recorder != nil {
				a.recorder.RecordDirective("", directive.Answer, true)
				a.recorder.EndIteration()
				a.recorder.Finalize(directive.Answer, time.Since(start))
			}
			a.emit(ctx, events.Event{
				Type:      events.EventDone,
				Data:      events.MessageData{Content: directive.Answer},
				Timestamp: time.Now(),
			})
			return directive.Answer, nil
		}

		if a.recorder != nil {
			a.recorder.RecordDirective(directive.Action, directive.ActionInput, false)
		}
		a.emit(ctx, events.Event{
			Type:      events.EventToolCall,
			Data:      events.ToolCallData{ToolName: directive.Action, Input: directive.ActionInput},
			Timestamp: time.Now(),
		})

		observation, toolDuration, err := a.executeTool(ctx, directive)
		if err != nil {
			a.fail(ctx, err, start)
			return "", err
		}

		if a.recorder != nil {
			a.recorder.RecordObservation(directive.Action, observation, toolDuration)
			a.recorder.EndIteration()
		}
		a.emit(ctx, events.Event{
			Type: events.EventToolResult,
			Data: events.ToolResultData{
				ToolName:    directive.Action,
				Observation: observation,
				Duration:    toolDuration,
			},
			Timestamp: time.Now(),
		})

		working += observation
		scratchpad += output + "\nObservation: " + observation + "\nThought: "
	}
}

// executeTool маршрутизирует директиву в реестр и извлекает наблюдение.
func (a *MRKLAgent) executeTool(ctx context.Context, d Directive) (string, time.Duration, error) {
	// Имя инструмента берётся дословно из директивы
	tool, err := a.registry.Get(d.Action)
	if err != nil {
		return "", 0, err
	}

	toolStart := time.Now()
	raw, err := tool.Execute(ctx, d.ActionInput)
	duration := time.Since(toolStart)
	if err != nil {
		return "", duration, fmt.Errorf("tool '%s' failed: %w", d.Action, err)
	}

	observation, err := tools.ExtractOutput(raw)
	if err != nil {
		return "", duration, fmt.Errorf("tool '%s' returned invalid result: %w", d.Action, err)
	}
	return observation, duration, nil
}

// buildPrompt собирает полный текст промпта для очередного вызова модели.
//
// Структура: префикс, перечень инструментов "Name: description",
// инструкции формата с именами инструментов, хвост с запросом
// и scratchpad. Части соединяются двойным переносом строки.
func (a *MRKLAgent) buildPrompt(query, scratchpad string) string {
	defs := a.registry.GetDefinitions()

	toolLines := make([]string, 0, len(defs))
	toolNames := make([]string, 0, len(defs))
	for _, def := range defs {
		toolLines = append(toolLines, fmt.Sprintf("%s: %s", def.Name, def.Description))
		toolNames = append(toolNames, def.Name)
	}

	format := strings.ReplaceAll(a.prompts.FormatInstructions, "{tool_names}", strings.Join(toolNames, ", "))

	suffix := strings.ReplaceAll(a.prompts.Suffix, "{query}", query)
	suffix = strings.ReplaceAll(suffix, "{scratchpad}", scratchpad)

	return strings.Join([]string{
		a.prompts.Prefix,
		strings.Join(toolLines, "\n"),
		format,
		suffix,
	}, "\n\n")
}

// emit отправляет событие если Port подключён.
func (a *MRKLAgent) emit(ctx context.Context, event events.Event) {
	if a.emitter != nil {
		a.emitter.Emit(ctx, event)
	}
}

// fail фиксирует ошибку в трейсе и событиях.
func (a *MRKLAgent) fail(ctx context.Context, err error, start time.Time) {
	if a.recorder != nil {
		a.recorder.RecordError(err)
		a.recorder.EndIteration()
		a.recorder.Finalize("", time.Since(start))
	}
	a.emit(ctx, events.Event{
		Type:      events.EventError,
		Data:      events.ErrorData{Err: err},
		Timestamp: time.Now(),
	})
}
