package types

import "testing"

func TestIssueLocation(t *testing.T) {
	tests := []struct {
		name  string
		issue Issue
		want  string
	}{
		{
			name:  "full position",
			issue: Issue{Path: "src/app.ts", Line: 10, Column: 5},
			want:  "src/app.ts:10:5",
		},
		{
			name:  "line only",
			issue: Issue{Path: "src/app.ts", Line: 10},
			want:  "src/app.ts:10",
		},
		{
			name:  "file granularity",
			issue: Issue{Path: "src/app.ts"},
			want:  "src/app.ts",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.issue.Location(); got != tt.want {
				t.Errorf("Location() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIssueShortString(t *testing.T) {
	i := Issue{Path: "a.ts", Line: 3, Column: 1, Code: "TS2322", Message: "type mismatch"}
	want := "a.ts:3:1: [TS2322] type mismatch"
	if got := i.ShortString(); got != want {
		t.Errorf("ShortString() = %q, want %q", got, want)
	}

	noCode := Issue{Path: "b.ts", Line: 1, Message: "not formatted"}
	if got := noCode.ShortString(); got != "b.ts:1: not formatted" {
		t.Errorf("ShortString() without code = %q", got)
	}
}

func TestIsSourcePath(t *testing.T) {
	tests := []struct {
		path   string
		source bool
		ts     bool
	}{
		{"src/index.ts", true, true},
		{"src/Widget.tsx", true, true},
		{"lib/mod.mts", true, true},
		{"lib/legacy.cts", true, true},
		{"scripts/build.js", true, false},
		{"components/App.jsx", true, false},
		{"esm/entry.mjs", true, false},
		{"cjs/entry.cjs", true, false},
		{"README.md", false, false},
		{"styles.css", false, false},
		{"Makefile", false, false},
		{"SRC/UPPER.TS", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := IsSourcePath(tt.path); got != tt.source {
				t.Errorf("IsSourcePath(%q) = %v, want %v", tt.path, got, tt.source)
			}
			if got := IsTypeScriptPath(tt.path); got != tt.ts {
				t.Errorf("IsTypeScriptPath(%q) = %v, want %v", tt.path, got, tt.ts)
			}
		})
	}
}

func TestCategoryForCheck(t *testing.T) {
	tests := []struct {
		check    string
		category string
		tool     string
	}{
		{"format", CategoryFormat, ToolPrettier},
		{"lint", CategoryLint, ToolESLint},
		{"types", CategoryType, ToolTSC},
		{"stubs", CategoryStub, ToolStubCheck},
		{"unknown", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.check, func(t *testing.T) {
			if got := CategoryForCheck(tt.check); got != tt.category {
				t.Errorf("CategoryForCheck(%q) = %q, want %q", tt.check, got, tt.category)
			}
			if got := ToolForCheck(tt.check); got != tt.tool {
				t.Errorf("ToolForCheck(%q) = %q, want %q", tt.check, got, tt.tool)
			}
		})
	}
}

func TestAdvisory(t *testing.T) {
	if (Issue{Category: CategoryLint}).Advisory() {
		t.Error("lint issue should not be advisory")
	}
	if !(Issue{Category: CategoryTool}).Advisory() {
		t.Error("tool-unavailable issue should be advisory")
	}
}
