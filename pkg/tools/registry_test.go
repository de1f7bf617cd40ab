package tools

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

// fakeTool is a configurable test tool.
type fakeTool struct {
	name   string
	params JSONSchema
}

func (f *fakeTool) Definition() ToolDefinition {
	params := f.params
	if params == nil {
		params = JSONSchema{
			"type":       "object",
			"properties": map[string]any{},
			"required":   []string{},
		}
	}
	return ToolDefinition{
		Name:        f.name,
		Description: "test tool " + f.name,
		Parameters:  params,
	}
}

func (f *fakeTool) Execute(ctx context.Context, input string) (string, error) {
	return WrapOutput("ok:" + input), nil
}

// TestRegistryOrder verifies definitions come back in registration order.
func TestRegistryOrder(t *testing.T) {
	r := NewRegistry()
	names := []string{"Zulu", "Alpha", "Mike"}
	for _, name := range names {
		if err := r.Register(&fakeTool{name: name}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	defs := r.GetDefinitions()
	if len(defs) != len(names) {
		t.Fatalf("expected %d definitions, got %d", len(names), len(defs))
	}
	for i, name := range names {
		if defs[i].Name != name {
			t.Errorf("definition %d: expected %q, got %q", i, name, defs[i].Name)
		}
	}

	got := r.Names()
	for i, name := range names {
		if got[i] != name {
			t.Errorf("name %d: expected %q, got %q", i, name, got[i])
		}
	}
}

// TestRegistryDuplicate verifies duplicate names are rejected, not replaced.
func TestRegistryDuplicate(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&fakeTool{name: "Calc"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Register(&fakeTool{name: "Calc"}); err == nil {
		t.Fatal("expected error for duplicate registration")
	}
	if r.Len() != 1 {
		t.Errorf("expected 1 tool, got %d", r.Len())
	}
}

// TestRegistryGetUnknown verifies the ErrUnknownTool sentinel.
func TestRegistryGetUnknown(t *testing.T) {
	r := NewRegistry()

	_, err := r.Get("Ghost")
	if !errors.Is(err, ErrUnknownTool) {
		t.Fatalf("expected ErrUnknownTool, got %v", err)
	}
}

// TestRegistryValidation verifies definition schema validation.
func TestRegistryValidation(t *testing.T) {
	cases := []struct {
		name string
		tool *fakeTool
	}{
		{"empty name", &fakeTool{name: ""}},
		{"wrong type", &fakeTool{name: "Bad", params: JSONSchema{"type": "array"}}},
		{"missing type", &fakeTool{name: "Bad", params: JSONSchema{"properties": map[string]any{}}}},
		{"bad required", &fakeTool{name: "Bad", params: JSONSchema{"type": "object", "required": "nope"}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := NewRegistry()
			if err := r.Register(tc.tool); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

// TestOutputEnvelope verifies the wrap/extract round trip.
func TestOutputEnvelope(t *testing.T) {
	raw := WrapOutput(`multi
line "quoted" output`)

	out, err := ExtractOutput(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "multi\nline \"quoted\" output" {
		t.Errorf("round trip mismatch: %q", out)
	}
}

// TestExtractOutputRejectsPlainText verifies non-envelope results fail.
func TestExtractOutputRejectsPlainText(t *testing.T) {
	if _, err := ExtractOutput("just text"); err == nil {
		t.Fatal("expected error for plain text result")
	}
}

// TestRegistryConcurrentAccess smoke-tests the RWMutex paths.
func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	done := make(chan struct{})

	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			_ = r.Register(&fakeTool{name: fmt.Sprintf("tool-%d", i)})
		}
	}()

	for i := 0; i < 50; i++ {
		_ = r.Names()
		_, _ = r.Get("tool-0")
	}
	<-done

	if r.Len() != 50 {
		t.Errorf("expected 50 tools, got %d", r.Len())
	}
}
