package agent

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ilkoid/mrkl-agent/pkg/events"
	"github.com/ilkoid/mrkl-agent/pkg/llm"
	"github.com/ilkoid/mrkl-agent/pkg/prompts"
	"github.com/ilkoid/mrkl-agent/pkg/tools"
	"github.com/ilkoid/mrkl-agent/pkg/tools/std"
)

// scriptedModel returns canned outputs in order and records prompts.
type scriptedModel struct {
	outputs []string
	prompts []string
	calls   int
}

func (m *scriptedModel) Complete(ctx context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.calls >= len(m.outputs) {
		return "", errors.New("script exhausted")
	}
	out := m.outputs[m.calls]
	m.calls++
	return out, nil
}

func testPrompts() *prompts.AgentPrompts {
	return &prompts.AgentPrompts{
		Prefix: "Answer the following questions as best as you can. You have access to the following tools:",
		FormatInstructions: "Use the following format:\n" +
			"Action: the action to take, should be one of [{tool_names}]\n" +
			"Action Input: the input to the action",
		Suffix: "Begin!\nQuestion: {query}\nThought: {scratchpad}",
	}
}

func newTestAgent(t *testing.T, model llm.Provider) *MRKLAgent {
	t.Helper()

	registry := tools.NewRegistry()
	if err := registry.Register(std.NewCalculatorTool()); err != nil {
		t.Fatalf("failed to register calculator: %v", err)
	}
	return NewMRKLAgent(model, registry, testPrompts())
}

// TestRunCalculatorScenario verifies the full loop: tool call, observation
// feedback, final answer.
func TestRunCalculatorScenario(t *testing.T) {
	model := &scriptedModel{outputs: []string{
		"Thought: I should calculate this\nAction: Calculator\nAction Input: 2+2",
		"Thought: I now know the final answer\nFinal Answer: 4",
	}}
	a := newTestAgent(t, model)

	answer, err := a.Run(context.Background(), "What is 2+2?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer != "4" {
		t.Errorf("expected answer '4', got %q", answer)
	}
	if model.calls != 2 {
		t.Errorf("expected 2 model calls, got %d", model.calls)
	}

	// Second prompt carries the observation both in the query and scratchpad
	second := model.prompts[1]
	if !strings.Contains(second, "Question: What is 2+2?4") {
		t.Errorf("observation not appended to the working query:\n%s", second)
	}
	if !strings.Contains(second, "Observation: 4") {
		t.Errorf("observation missing from scratchpad:\n%s", second)
	}
}

// TestRunPromptLayout verifies the assembled prompt structure.
func TestRunPromptLayout(t *testing.T) {
	model := &scriptedModel{outputs: []string{"Final Answer: done"}}
	a := newTestAgent(t, model)

	if _, err := a.Run(context.Background(), "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	prompt := model.prompts[0]
	wantParts := []string{
		"Answer the following questions as best as you can. You have access to the following tools:",
		"Calculator: useful for when you need to answer questions about math",
		"should be one of [Calculator]",
		"Begin!\nQuestion: hello\nThought: ",
	}
	for _, part := range wantParts {
		if !strings.Contains(prompt, part) {
			t.Errorf("prompt missing %q:\n%s", part, prompt)
		}
	}

	// Sections are separated by blank lines
	if !strings.Contains(prompt, "tools:\n\nCalculator:") {
		t.Errorf("sections must be joined with a blank line:\n%s", prompt)
	}
}

// TestRunUnknownTool verifies routing errors surface to the caller.
func TestRunUnknownTool(t *testing.T) {
	model := &scriptedModel{outputs: []string{
		"Action: Search\nAction Input: anything",
	}}
	a := newTestAgent(t, model)

	_, err := a.Run(context.Background(), "query")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, tools.ErrUnknownTool) {
		t.Errorf("expected ErrUnknownTool, got %v", err)
	}
}

// TestRunMalformedOutput verifies parse errors abort the loop.
func TestRunMalformedOutput(t *testing.T) {
	model := &scriptedModel{outputs: []string{"I refuse to follow instructions"}}
	a := newTestAgent(t, model)

	_, err := a.Run(context.Background(), "query")
	var malformed *MalformedDirectiveError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedDirectiveError, got %v", err)
	}
}

// TestRunMaxIterations verifies the iteration cap.
func TestRunMaxIterations(t *testing.T) {
	loopOutput := "Action: Calculator\nAction Input: 1+1"
	model := &scriptedModel{outputs: []string{loopOutput, loopOutput, loopOutput, loopOutput}}
	a := newTestAgent(t, model)
	a.SetMaxIterations(3)

	_, err := a.Run(context.Background(), "query")
	if !errors.Is(err, ErrMaxIterations) {
		t.Fatalf("expected ErrMaxIterations, got %v", err)
	}
	if model.calls != 3 {
		t.Errorf("expected exactly 3 model calls, got %d", model.calls)
	}
}

// TestRunToolFailure verifies tool errors abort the loop with context.
func TestRunToolFailure(t *testing.T) {
	model := &scriptedModel{outputs: []string{
		"Action: Calculator\nAction Input: 1/0",
	}}
	a := newTestAgent(t, model)

	_, err := a.Run(context.Background(), "query")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "Calculator") {
		t.Errorf("error should name the tool: %v", err)
	}
}

// TestRunCancelledContext verifies context cancellation stops the loop.
func TestRunCancelledContext(t *testing.T) {
	model := &scriptedModel{outputs: []string{"Final Answer: never"}}
	a := newTestAgent(t, model)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Run(ctx, "query")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if model.calls != 0 {
		t.Errorf("model must not be called after cancellation, got %d calls", model.calls)
	}
}

// TestRunEmitsEvents verifies the event stream for a simple run.
func TestRunEmitsEvents(t *testing.T) {
	model := &scriptedModel{outputs: []string{
		"Action: Calculator\nAction Input: 2*3",
		"Final Answer: 6",
	}}
	a := newTestAgent(t, model)

	emitter := events.NewChanEmitter(32)
	a.SetEmitter(emitter)

	answer, err := a.Run(context.Background(), "What is 2*3?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer != "6" {
		t.Fatalf("expected answer '6', got %q", answer)
	}
	emitter.Close()

	var types []events.EventType
	var done events.MessageData
	for event := range emitter.Subscribe().Events() {
		types = append(types, event.Type)
		if event.Type == events.EventDone {
			done = event.Data.(events.MessageData)
		}
	}

	want := []events.EventType{
		events.EventThinking,
		events.EventMessage,
		events.EventToolCall,
		events.EventToolResult,
		events.EventThinking,
		events.EventMessage,
		events.EventDone,
	}
	if len(types) != len(want) {
		t.Fatalf("expected %d events, got %d: %v", len(want), len(types), types)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("event %d: expected %s, got %s", i, want[i], types[i])
		}
	}
	if done.Content != "6" {
		t.Errorf("done event content: expected '6', got %q", done.Content)
	}
}

// TestSubAgentTool verifies agent-as-tool delegation.
func TestSubAgentTool(t *testing.T) {
	inner := &scriptedModel{outputs: []string{"Final Answer: 42"}}
	sub := newTestAgent(t, inner)

	tool := NewSubAgentTool("Oracle", "answers anything", sub)

	def := tool.Definition()
	if def.Name != "Oracle" {
		t.Errorf("expected name 'Oracle', got %q", def.Name)
	}

	raw, err := tool.Execute(context.Background(), "the question")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	observation, err := tools.ExtractOutput(raw)
	if err != nil {
		t.Fatalf("result must be an output envelope: %v", err)
	}
	if observation != "42" {
		t.Errorf("expected '42', got %q", observation)
	}
}

// TestRunUnboundedByDefault verifies zero max iterations does not cap the loop.
func TestRunUnboundedByDefault(t *testing.T) {
	step := "Action: Calculator\nAction Input: 1+1"
	outputs := make([]string, 0, 21)
	for i := 0; i < 20; i++ {
		outputs = append(outputs, step)
	}
	outputs = append(outputs, "Final Answer: enough")

	model := &scriptedModel{outputs: outputs}
	a := newTestAgent(t, model)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	answer, err := a.Run(ctx, "query")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer != "enough" {
		t.Errorf("expected 'enough', got %q", answer)
	}
	if model.calls != 21 {
		t.Errorf("expected 21 model calls, got %d", model.calls)
	}
}
