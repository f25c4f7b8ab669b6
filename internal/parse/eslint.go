package parse

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dotcommander/tscheck/internal/types"
)

// eslintFileResult is one entry of ESLint's --format=json output.
type eslintFileResult struct {
	FilePath string          `json:"filePath"`
	Messages []eslintMessage `json:"messages"`
}

type eslintMessage struct {
	RuleID      string             `json:"ruleId"`
	Severity    int                `json:"severity"` // 1=warning, 2=error
	Message     string             `json:"message"`
	Line        int                `json:"line"`
	Column      int                `json:"column"`
	EndLine     int                `json:"endLine"`
	EndColumn   int                `json:"endColumn"`
	Fix         json.RawMessage    `json:"fix"`
	Suggestions []eslintSuggestion `json:"suggestions"`
}

type eslintSuggestion struct {
	Desc string `json:"desc"`
}

// eslintWrappedOutput is the object form some formatter versions emit, with
// the file results nested under "results" next to run metadata.
type eslintWrappedOutput struct {
	Results []eslintFileResult `json:"results"`
}

// ESLint parses `eslint --format=json` output from stdout. Two schema shapes
// are accepted without a version flag: the classic top-level array of file
// results, and the object form carrying the array under "results". The shape
// is inferred from the payload itself. Empty output means a clean run.
func ESLint(stdout, _ string) ([]types.Issue, error) {
	payload := strings.TrimSpace(stdout)
	if payload == "" {
		return nil, nil
	}

	results, err := decodeESLintResults(payload)
	if err != nil {
		return nil, err
	}

	var issues []types.Issue
	for _, file := range results {
		for _, msg := range file.Messages {
			issues = append(issues, eslintIssue(file.FilePath, msg))
		}
	}
	return issues, nil
}

// decodeESLintResults infers the payload shape from which known keys decode.
func decodeESLintResults(payload string) ([]eslintFileResult, error) {
	data := []byte(payload)

	var asArray []eslintFileResult
	arrayErr := json.Unmarshal(data, &asArray)
	if arrayErr == nil {
		return asArray, nil
	}

	var wrapped eslintWrappedOutput
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Results != nil {
		return wrapped.Results, nil
	}

	return nil, fmt.Errorf("parsing eslint output: %w", arrayErr)
}

func eslintIssue(path string, msg eslintMessage) types.Issue {
	severity := types.SeverityInfo
	switch msg.Severity {
	case 2:
		severity = types.SeverityError
	case 1:
		severity = types.SeverityWarning
	}

	code := msg.RuleID
	if code == "" {
		code = "eslint"
	}

	fixable := len(msg.Fix) > 0 && string(msg.Fix) != "null"
	suggestion := ""
	if fixable {
		suggestion = "Auto-fixable with --fix"
	} else if len(msg.Suggestions) > 0 {
		suggestion = msg.Suggestions[0].Desc
	}

	return types.Issue{
		Path:       path,
		Line:       msg.Line,
		Column:     msg.Column,
		EndLine:    msg.EndLine,
		EndColumn:  msg.EndColumn,
		Severity:   severity,
		Category:   types.CategoryLint,
		Tool:       types.ToolESLint,
		Code:       code,
		Message:    msg.Message,
		Suggestion: suggestion,
		Fixable:    fixable,
	}
}
