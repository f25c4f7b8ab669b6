package parse

import (
	"testing"

	"github.com/dotcommander/tscheck/internal/types"
)

const eslintArrayOutput = `[
  {
    "filePath": "/proj/src/app.ts",
    "messages": [
      {
        "ruleId": "no-unused-vars",
        "severity": 2,
        "message": "'x' is defined but never used.",
        "line": 3,
        "column": 7,
        "endLine": 3,
        "endColumn": 8
      },
      {
        "ruleId": "semi",
        "severity": 1,
        "message": "Missing semicolon.",
        "line": 10,
        "column": 21,
        "fix": {"range": [120, 120], "text": ";"}
      }
    ]
  },
  {"filePath": "/proj/src/clean.ts", "messages": []}
]`

const eslintWrappedOutputJSON = `{
  "results": [
    {
      "filePath": "/proj/src/app.ts",
      "messages": [
        {"ruleId": null, "severity": 2, "message": "Parsing error: Unexpected token", "line": 1, "column": 1}
      ]
    }
  ],
  "metadata": {"rulesMeta": {}}
}`

func TestESLintArrayShape(t *testing.T) {
	issues, err := ESLint(eslintArrayOutput, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(issues) != 2 {
		t.Fatalf("got %d issues, want 2", len(issues))
	}

	first := issues[0]
	if first.Severity != types.SeverityError {
		t.Errorf("severity 2 should map to error, got %q", first.Severity)
	}
	if first.Code != "no-unused-vars" {
		t.Errorf("code = %q", first.Code)
	}
	if first.Line != 3 || first.Column != 7 || first.EndLine != 3 || first.EndColumn != 8 {
		t.Errorf("position = %d:%d-%d:%d", first.Line, first.Column, first.EndLine, first.EndColumn)
	}

	second := issues[1]
	if second.Severity != types.SeverityWarning {
		t.Errorf("severity 1 should map to warning, got %q", second.Severity)
	}
	if !second.Fixable {
		t.Error("message with fix should be fixable")
	}
	if second.Suggestion != "Auto-fixable with --fix" {
		t.Errorf("suggestion = %q", second.Suggestion)
	}
}

func TestESLintWrappedShape(t *testing.T) {
	issues, err := ESLint(eslintWrappedOutputJSON, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(issues) != 1 {
		t.Fatalf("got %d issues, want 1", len(issues))
	}
	// null ruleId falls back to the tool name.
	if issues[0].Code != "eslint" {
		t.Errorf("code = %q, want eslint fallback", issues[0].Code)
	}
}

func TestESLintEmptyOutput(t *testing.T) {
	issues, err := ESLint("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if issues != nil {
		t.Fatalf("issues = %+v, want none", issues)
	}
}

func TestESLintMalformedOutput(t *testing.T) {
	_, err := ESLint("Oops! Something went wrong!", "")
	if err == nil {
		t.Fatal("expected a parse error for non-JSON output")
	}
}

func TestESLintSuggestionFallback(t *testing.T) {
	out := `[{"filePath": "a.ts", "messages": [
		{"ruleId": "eqeqeq", "severity": 2, "message": "Expected '==='.", "line": 5, "column": 10,
		 "suggestions": [{"desc": "Use '===' instead of '=='."}]}
	]}]`
	issues, err := ESLint(out, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if issues[0].Fixable {
		t.Error("suggestion-only message is not auto-fixable")
	}
	if issues[0].Suggestion != "Use '===' instead of '=='." {
		t.Errorf("suggestion = %q", issues[0].Suggestion)
	}
}
