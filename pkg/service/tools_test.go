package service

import (
	"context"
	"testing"

	"github.com/ilkoid/mrkl-agent/pkg/tools"
)

// TestToolsAdapter verifies container methods become registry tools.
func TestToolsAdapter(t *testing.T) {
	c := mathContainer(t)

	adapted, err := Tools(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(adapted) != 4 {
		t.Fatalf("expected 4 tools, got %d", len(adapted))
	}

	registry := tools.NewRegistry()
	for _, tool := range adapted {
		if err := registry.Register(tool); err != nil {
			t.Fatalf("adapted tool failed registry validation: %v", err)
		}
	}
}

// TestMethodToolExecuteJSONInput verifies JSON-object inputs dispatch.
func TestMethodToolExecuteJSONInput(t *testing.T) {
	c := mathContainer(t)
	adapted, err := Tools(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var add tools.Tool
	for _, tool := range adapted {
		if tool.Definition().Name == "Add" {
			add = tool
		}
	}
	if add == nil {
		t.Fatal("Add tool not found")
	}

	raw, err := add.Execute(context.Background(), `{"a": 2, "b": 2}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	observation, err := tools.ExtractOutput(raw)
	if err != nil {
		t.Fatalf("expected output envelope: %v", err)
	}
	if observation != "4" {
		t.Errorf("expected '4', got %q", observation)
	}
}

// TestMethodToolExecuteBareInput verifies a bare string maps onto the
// single required parameter.
func TestMethodToolExecuteBareInput(t *testing.T) {
	c := mathContainer(t)
	adapted, err := Tools(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var greet tools.Tool
	for _, tool := range adapted {
		if tool.Definition().Name == "Greet" {
			greet = tool
		}
	}
	if greet == nil {
		t.Fatal("Greet tool not found")
	}

	raw, err := greet.Execute(context.Background(), "world")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	observation, err := tools.ExtractOutput(raw)
	if err != nil {
		t.Fatalf("expected output envelope: %v", err)
	}
	if observation != "hello world" {
		t.Errorf("expected 'hello world', got %q", observation)
	}
}

// TestMethodToolBareInputRequiresSingleParam verifies bare input is
// rejected for multi-parameter methods.
func TestMethodToolBareInputRequiresSingleParam(t *testing.T) {
	c := mathContainer(t)
	adapted, err := Tools(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, tool := range adapted {
		if tool.Definition().Name != "Add" {
			continue
		}
		if _, err := tool.Execute(context.Background(), "2 and 2"); err == nil {
			t.Error("expected error for bare input on two-parameter method")
		}
	}
}
