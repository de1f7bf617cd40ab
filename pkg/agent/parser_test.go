package agent

import (
	"errors"
	"testing"
)

// TestParseDirectiveFinalAnswer verifies final answer extraction.
func TestParseDirectiveFinalAnswer(t *testing.T) {
	output := "Thought: I now know the final answer\nFinal Answer: 4"

	d, err := ParseDirective(output)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.Final {
		t.Fatal("expected final directive")
	}
	if d.Answer != "4" {
		t.Errorf("expected answer '4', got %q", d.Answer)
	}
}

// TestParseDirectiveFinalAnswerIgnoresEmptyLines verifies that blank lines
// after the final answer line do not break detection.
func TestParseDirectiveFinalAnswerIgnoresEmptyLines(t *testing.T) {
	output := "Thought: done\n\nFinal Answer: Paris\n\n\n"

	d, err := ParseDirective(output)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.Final || d.Answer != "Paris" {
		t.Errorf("got %+v", d)
	}
}

// TestParseDirectiveFinalAnswerBareMarker verifies the marker alone
// yields an empty answer rather than an error.
func TestParseDirectiveFinalAnswerBareMarker(t *testing.T) {
	d, err := ParseDirective("Final Answer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.Final || d.Answer != "" {
		t.Errorf("got %+v", d)
	}
}

// TestParseDirectiveAction verifies tool directive extraction.
func TestParseDirectiveAction(t *testing.T) {
	output := "Thought: I need to compute this\nAction: Calculator\nAction Input: 2+2"

	d, err := ParseDirective(output)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Final {
		t.Fatal("expected tool directive")
	}
	if d.Action != "Calculator" {
		t.Errorf("expected action 'Calculator', got %q", d.Action)
	}
	if d.ActionInput != "2+2" {
		t.Errorf("expected input '2+2', got %q", d.ActionInput)
	}
}

// TestParseDirectiveActionVerbatim verifies the action name keeps
// trailing whitespace while the input is trimmed.
func TestParseDirectiveActionVerbatim(t *testing.T) {
	output := "Action: Calculator \nAction Input:   2+2  "

	d, err := ParseDirective(output)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Action != "Calculator " {
		t.Errorf("action must stay verbatim, got %q", d.Action)
	}
	if d.ActionInput != "2+2" {
		t.Errorf("input must be trimmed, got %q", d.ActionInput)
	}
}

// TestParseDirectiveUnquotesOneLayer verifies exactly one layer of
// surrounding double quotes is removed from the input.
func TestParseDirectiveUnquotesOneLayer(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{`"2+2"`, `2+2`},
		{`""quoted""`, `"quoted"`},
		{`"`, `"`},
		{`plain`, `plain`},
		{`""`, ``},
	}

	for _, tc := range cases {
		output := "Action: Calculator\nAction Input: " + tc.raw
		d, err := ParseDirective(output)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tc.raw, err)
		}
		if d.ActionInput != tc.want {
			t.Errorf("%q: expected %q, got %q", tc.raw, tc.want, d.ActionInput)
		}
	}
}

// TestParseDirectiveMalformed verifies malformed outputs are rejected
// with a MalformedDirectiveError naming the failed precondition.
func TestParseDirectiveMalformed(t *testing.T) {
	cases := []struct {
		name   string
		output string
	}{
		{"no markers", "I am just thinking out loud"},
		{"missing action line", "Thought: hmm\nAction Input: 2+2"},
		{"action after input", "Action Input: 2+2\nAction: Calculator"},
		{"only action", "Action: Calculator"},
		{"empty output", ""},
		{"whitespace only", "\n  \n\t\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseDirective(tc.output)
			if err == nil {
				t.Fatal("expected error")
			}
			var malformed *MalformedDirectiveError
			if !errors.As(err, &malformed) {
				t.Fatalf("expected MalformedDirectiveError, got %T", err)
			}
			if malformed.Reason == "" {
				t.Error("expected non-empty reason")
			}
		})
	}
}

// TestParseDirectiveActionInputNeedsSpace verifies "Action Input:" without
// the trailing space does not count as a directive line.
func TestParseDirectiveActionInputNeedsSpace(t *testing.T) {
	_, err := ParseDirective("Action: Calculator\nAction Input:2+2")
	if err == nil {
		t.Fatal("expected error for missing space after marker")
	}
}
