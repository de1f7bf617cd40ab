// Package tui предоставляет SimpleTui — примитивный "lego brick" TUI компонент.
//
// SimpleTui это максимально простой, переиспользуемый TUI для агентов.
// Он НЕ содержит бизнес-логики агента, только UI компоненты.
//
// # Layout
//
//	┌─────────────────────────────────────────────────┐
//	│ MRKL Agent | Model: gpt-4o                      │ ← Status Bar
//	├─────────────────────────────────────────────────┤
//	│  [14:32:15] User: What is 2+2?                  │
//	│  [14:32:16] Thought: iteration 1                │
//	│  [14:32:18] Tool: Calculator("2+2")             │
//	│  [14:32:18] Observation: 4 (12ms)               │
//	│  [14:32:20] Agent: 4                            │
//	│                                                 │
//	│  Main Area (auto-scroll)                        │
//	├─────────────────────────────────────────────────┤
//	│ > user input here                               │ ← Input Area
//	└─────────────────────────────────────────────────┘
//
// # Basic Usage
//
//	client, _ := agent.New(ctx, agent.Config{ConfigPath: "config.yaml"})
//	emitter := events.NewChanEmitter(16)
//	client.SetEmitter(emitter)
//
//	ui := tui.NewSimpleTui(emitter.Subscribe(), tui.SimpleUIConfig{
//	    Colors:        tui.GetColorScheme("dark"),
//	    InputPrompt:   "AI> ",
//	    ShowTimestamp: true,
//	})
//
//	ui.OnInput(func(input string) {
//	    client.Run(ctx, input)
//	})
//
//	ui.Run()
package tui

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ilkoid/mrkl-agent/pkg/events"
)

// SimpleUIConfig конфигурирует SimpleTui.
//
// Все поля опциональны, используются дефолтные значения если не заданы.
type SimpleUIConfig struct {
	// Colors определяет цветовую схему
	Colors ColorScheme

	// StatusHeight — высота статус-бара
	StatusHeight int

	// InputHeight — высота поля ввода
	InputHeight int

	// InputPrompt — текст приглашения ввода
	InputPrompt string

	// ShowTimestamp — показывать timestamp в сообщениях
	ShowTimestamp bool

	// MaxMessages — максимальное количество сообщений в логе (0 = безлимит)
	MaxMessages int

	// WrapText — включить перенос длинных строк
	WrapText bool

	// Title — заголовок приложения (отображается в статус-баре)
	Title string

	// ModelName — имя модели для отображения в статус-баре
	ModelName string
}

// SimpleTui примитивный "lego brick" TUI компонент.
//
// Thread-safe.
//
// Не содержит бизнес-логики агента, только UI.
// Работает с events.Subscriber для получения событий агента.
type SimpleTui struct {
	// config — конфигурация TUI
	config SimpleUIConfig

	// subscriber — подписчик на события агента (Port & Adapter)
	subscriber events.Subscriber

	// onInput — callback для обработки пользовательского ввода
	onInput func(input string)

	// Bubble Tea компоненты
	viewport viewport.Model
	textarea textarea.Model

	// Состояние
	mu           sync.RWMutex
	messages     []string // История сообщений (без переноса)
	ready        bool     // Флаг первой инициализации размеров
	isProcessing bool     // Флаг занятости агента
}

// NewSimpleTui создаёт новый SimpleTui.
//
// Parameters:
//   - subscriber: Подписчик на события агента (events.Subscriber)
//   - config: Конфигурация TUI (используются дефолтные значения если пустые)
//
// Возвращает инициализированный SimpleTui готовый к использованию.
func NewSimpleTui(subscriber events.Subscriber, config SimpleUIConfig) *SimpleTui {
	if config.StatusHeight == 0 {
		config.StatusHeight = 1
	}
	if config.InputHeight == 0 {
		config.InputHeight = 3
	}
	if config.InputPrompt == "" {
		config.InputPrompt = "> "
	}
	if config.Colors.StatusForeground == "" {
		config.Colors = DefaultColorScheme()
	}
	if config.Title == "" {
		config.Title = "MRKL Agent"
	}

	ta := textarea.New()
	ta.Placeholder = "Введите запрос..."
	ta.Focus()
	ta.Prompt = config.InputPrompt
	ta.CharLimit = 500
	ta.SetHeight(config.InputHeight)
	ta.ShowLineNumbers = false

	vp := viewport.New(0, 0)
	vp.SetContent(SystemStyle("Agent initialized. Type your query...") + "\n")

	return &SimpleTui{
		config:     config,
		subscriber: subscriber,
		viewport:   vp,
		textarea:   ta,
		messages:   []string{},
	}
}

// OnInput устанавливает callback для обработки пользовательского ввода.
//
// Вызывается каждый раз когда пользователь нажимает Enter.
// Callback получает текст ввода (без переносов строк).
func (t *SimpleTui) OnInput(handler func(input string)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onInput = handler
}

// Run запускает TUI (блокирующий вызов).
//
// Возвращает ошибку если TUI завершился с ошибкой.
// nil при нормальном завершении (Ctrl+C).
func (t *SimpleTui) Run() error {
	p := tea.NewProgram(t)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// ===== BUBBLE TEA MODEL INTERFACE =====

// Init реализует tea.Model интерфейс.
func (t *SimpleTui) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		ReceiveEventCmd(t.subscriber, func(event events.Event) tea.Msg {
			return EventMsg(event)
		}),
	)
}

// Update реализует tea.Model интерфейс.
func (t *SimpleTui) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
	)

	t.textarea, tiCmd = t.textarea.Update(msg)
	t.viewport, vpCmd = t.viewport.Update(msg)

	switch msg := msg.(type) {
	case EventMsg:
		return t.handleAgentEvent(events.Event(msg))

	case tea.WindowSizeMsg:
		return t.handleWindowSize(msg)

	case tea.KeyMsg:
		return t.handleKeyPress(msg)
	}

	return t, tea.Batch(tiCmd, vpCmd)
}

// handleAgentEvent обрабатывает события от агента.
func (t *SimpleTui) handleAgentEvent(event events.Event) (tea.Model, tea.Cmd) {
	switch event.Type {
	case events.EventThinking:
		if data, ok := event.Data.(events.ThinkingData); ok {
			t.mu.Lock()
			t.isProcessing = true
			t.mu.Unlock()
			t.appendMessage(ThinkingStyle(fmt.Sprintf("Thought: iteration %d", data.Iteration)), false)
		}

	case events.EventToolCall:
		if data, ok := event.Data.(events.ToolCallData); ok {
			t.appendMessage(ToolCallStyle(fmt.Sprintf("Tool: %s(%q)", data.ToolName, data.Input)), false)
		}

	case events.EventToolResult:
		if data, ok := event.Data.(events.ToolResultData); ok {
			t.appendMessage(ToolResultStyle(fmt.Sprintf("Observation: %s (%dms)",
				data.Observation, data.Duration.Milliseconds())), false)
		}

	case events.EventError:
		if data, ok := event.Data.(events.ErrorData); ok {
			t.appendMessage(ErrorStyle("ERROR: "+data.Err.Error()), true)
		}
		t.mu.Lock()
		t.isProcessing = false
		t.mu.Unlock()
		t.textarea.Focus()

	case events.EventDone:
		if data, ok := event.Data.(events.MessageData); ok {
			t.appendMessage(AIMessageStyle("Agent: ")+data.Content, true)
		}
		t.mu.Lock()
		t.isProcessing = false
		t.mu.Unlock()
		t.textarea.Focus()
	}

	return t, WaitForEvent(t.subscriber, func(e events.Event) tea.Msg {
		return EventMsg(e)
	})
}

// handleWindowSize обрабатывает изменение размера терминала.
func (t *SimpleTui) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	headerHeight := t.config.StatusHeight
	footerHeight := t.textarea.Height() + 1

	vpHeight := msg.Height - headerHeight - footerHeight
	if vpHeight < 1 {
		vpHeight = 1
	}

	vpWidth := msg.Width
	if vpWidth < 20 {
		vpWidth = 20
	}

	t.viewport.Width = vpWidth
	t.viewport.Height = vpHeight
	t.textarea.SetWidth(vpWidth)

	if !t.ready {
		t.ready = true
	}

	// Перекладываем текст под новую ширину
	t.refreshViewport()

	return t, nil
}

// handleKeyPress обрабатывает нажатия клавиш.
func (t *SimpleTui) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return t, tea.Quit

	case tea.KeyEnter:
		input := t.textarea.Value()
		if input == "" {
			return t, nil
		}

		t.textarea.Reset()
		t.appendMessage(UserMessageStyle("User: ")+input, true)

		t.mu.RLock()
		handler := t.onInput
		t.mu.RUnlock()

		if handler != nil {
			// Handler блокирует, поэтому в отдельной горутине
			go handler(input)
		}
	}

	return t, nil
}

// View реализует tea.Model интерфейс.
func (t *SimpleTui) View() string {
	return fmt.Sprintf("%s\n%s\n%s",
		RenderStatusBar(t.config.Title, t.config.ModelName, t.config.Colors),
		t.viewport.View(),
		t.textarea.View(),
	)
}

// ===== INTERNAL METHODS =====

// appendMessage добавляет сообщение в лог.
func (t *SimpleTui) appendMessage(msg string, showTimestamp bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var line string
	if showTimestamp && t.config.ShowTimestamp {
		line = fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), msg)
	} else {
		line = msg
	}

	t.messages = append(t.messages, line)

	if t.config.MaxMessages > 0 && len(t.messages) > t.config.MaxMessages {
		t.messages = t.messages[len(t.messages)-t.config.MaxMessages:]
	}

	AppendToViewport(&t.viewport, t.renderMessages())
}

// refreshViewport перерисовывает контент под текущие размеры.
func (t *SimpleTui) refreshViewport() {
	t.mu.Lock()
	defer t.mu.Unlock()
	AppendToViewport(&t.viewport, t.renderMessages())
}

// renderMessages собирает контент viewport, применяя перенос строк.
// Вызывается под mu.
func (t *SimpleTui) renderMessages() string {
	if t.config.WrapText {
		return WrapLines(t.messages, t.viewport.Width)
	}
	return strings.Join(t.messages, "\n")
}

// Ensure SimpleTui implements tea.Model
var _ tea.Model = (*SimpleTui)(nil)
