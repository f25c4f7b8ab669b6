package check

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dotcommander/tscheck/internal/config"
	"github.com/dotcommander/tscheck/internal/toolchain"
	"github.com/dotcommander/tscheck/internal/types"
)

// testProject creates a project root with one source file holding a single
// stub marker, so stub-scan results are predictable.
func testProject(t *testing.T) (string, string) {
	t.Helper()
	root := t.TempDir()
	srcDir := filepath.Join(root, "src")
	if err := os.MkdirAll(srcDir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	appPath := filepath.Join(srcDir, "app.ts")
	src := "export function run() {\n  // TODO: implement run\n}\n"
	if err := os.WriteFile(appPath, []byte(src), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return root, appPath
}

// allFound resolves every tool to a fake global install.
func allFound(root string) *toolchain.Locator {
	return toolchain.NewLocator(root).WithLookPath(func(name string) (string, error) {
		return "/usr/bin/" + name, nil
	})
}

// transcriptRunner replays canned results keyed by binary basename.
func transcriptRunner(tr map[string]execResult) runnerFunc {
	return func(_ context.Context, bin string, _ []string, _ string, _ time.Duration) execResult {
		return tr[filepath.Base(bin)]
	}
}

func cleanTranscripts() map[string]execResult {
	return map[string]execResult{
		"prettier": {},
		"eslint":   {stdout: "[]"},
		"tsc":      {},
	}
}

func TestCheckRejectsInvalidRequestBeforeRunning(t *testing.T) {
	root, _ := testProject(t)
	called := false
	o := New(config.Default(), root).
		WithLocator(allFound(root)).
		WithRunner(func(context.Context, string, []string, string, time.Duration) execResult {
			called = true
			return execResult{}
		})

	_, err := o.Check(context.Background(), &Request{})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("err = %v, want ErrInvalidRequest", err)
	}
	if called {
		t.Error("no subprocess may run for an invalid request")
	}
}

func TestCheckAggregatesInPresentationOrder(t *testing.T) {
	root, appPath := testProject(t)
	cfg := config.Default()
	cfg.Concurrency = true

	// Completion order is deliberately shuffled: the slowest checker is the
	// one whose category sorts first.
	tr := map[string]execResult{
		"prettier": {stderr: "[warn] src/app.ts\n[warn] Code style issues found in 1 file.", exitErr: errors.New("exit status 1")},
		"eslint":   {stdout: `[{"filePath": "src/app.ts", "messages": [{"ruleId": "semi", "severity": 1, "message": "Missing semicolon.", "line": 1, "column": 2}]}]`},
		"tsc":      {stdout: "src/app.ts(1,1): error TS2304: Cannot find name 'x'.\n", exitErr: errors.New("exit status 2")},
	}
	delays := map[string]time.Duration{"prettier": 30 * time.Millisecond, "eslint": 10 * time.Millisecond}
	o := New(cfg, root).WithLocator(allFound(root)).
		WithRunner(func(_ context.Context, bin string, _ []string, _ string, _ time.Duration) execResult {
			name := filepath.Base(bin)
			time.Sleep(delays[name])
			return tr[name]
		})

	report, err := o.Check(context.Background(), &Request{Paths: []string{appPath}})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}

	var gotOrder []string
	for _, is := range report.Issues {
		gotOrder = append(gotOrder, is.Category)
	}
	want := []string{types.CategoryFormat, types.CategoryLint, types.CategoryType, types.CategoryStub}
	if !reflect.DeepEqual(gotOrder, want) {
		t.Errorf("category order = %v, want %v", gotOrder, want)
	}
	if !reflect.DeepEqual(report.ToolsRun, []string{"prettier", "eslint", "tsc", "stub-check"}) {
		t.Errorf("ToolsRun = %v", report.ToolsRun)
	}
}

func TestCheckCategoryFilteringIdempotence(t *testing.T) {
	root, appPath := testProject(t)
	tr := map[string]execResult{
		"prettier": {stderr: "[warn] src/app.ts", exitErr: errors.New("exit status 1")},
		"eslint":   {stdout: `[{"filePath": "src/app.ts", "messages": [{"ruleId": "semi", "severity": 1, "message": "Missing semicolon.", "line": 3, "column": 1}]}]`},
		"tsc":      {},
	}
	o := New(config.Default(), root).WithLocator(allFound(root)).WithRunner(transcriptRunner(tr))

	all, err := o.Check(context.Background(), &Request{Paths: []string{appPath}})
	if err != nil {
		t.Fatalf("all-checks run: %v", err)
	}
	stubsOnly, err := o.Check(context.Background(), &Request{Paths: []string{appPath}, Checks: []string{"stubs"}})
	if err != nil {
		t.Fatalf("stubs-only run: %v", err)
	}

	for _, is := range stubsOnly.Issues {
		if is.Category != types.CategoryStub {
			t.Errorf("stubs-only run leaked category %q", is.Category)
		}
	}
	if !reflect.DeepEqual(stubsOnly.Issues, all.IssuesInCategory(types.CategoryStub)) {
		t.Errorf("stubs-only issues differ from filtered all-checks issues:\n%+v\nvs\n%+v",
			stubsOnly.Issues, all.IssuesInCategory(types.CategoryStub))
	}
}

func TestCheckPartialFailureIsolation(t *testing.T) {
	root, appPath := testProject(t)
	// eslint is deliberately unavailable; everything else resolves.
	loc := toolchain.NewLocator(root).WithLookPath(func(name string) (string, error) {
		if name == "eslint" {
			return "", errors.New("not found")
		}
		return "/usr/bin/" + name, nil
	})
	o := New(config.Default(), root).WithLocator(loc).WithRunner(transcriptRunner(cleanTranscripts()))

	report, err := o.Check(context.Background(), &Request{Paths: []string{appPath}})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}

	advisories := report.IssuesInCategory(types.CategoryTool)
	if len(advisories) != 1 || advisories[0].Tool != "eslint" || advisories[0].Code != types.CodeToolNotFound {
		t.Fatalf("advisories = %+v", advisories)
	}
	if !strings.Contains(advisories[0].Message, "npm install --save-dev eslint") {
		t.Errorf("advisory lacks install hint: %q", advisories[0].Message)
	}
	if n := len(report.IssuesInCategory(types.CategoryLint)); n != 0 {
		t.Errorf("lint issues = %d, want 0 when eslint is unavailable", n)
	}
	if report.ToolsSkipped["eslint"] == "" {
		t.Error("eslint missing from ToolsSkipped")
	}
	// Other checkers still report: the stub scan must have run.
	if len(report.IssuesInCategory(types.CategoryStub)) != 1 {
		t.Error("stub scan result missing, partial failure leaked")
	}
}

func TestCheckDeterministicAcrossRuns(t *testing.T) {
	root, appPath := testProject(t)
	tr := map[string]execResult{
		"prettier": {stderr: "[warn] src/app.ts", exitErr: errors.New("exit status 1")},
		"eslint":   {stdout: `[{"filePath": "src/app.ts", "messages": [{"ruleId": "semi", "severity": 2, "message": "Missing semicolon.", "line": 1, "column": 1}]}]`},
		"tsc":      {stdout: "src/app.ts(2,3): error TS2322: Type mismatch.\n", exitErr: errors.New("exit status 2")},
	}
	o := New(config.Default(), root).WithLocator(allFound(root)).WithRunner(transcriptRunner(tr))

	req := func() *Request { return &Request{Paths: []string{appPath}} }
	first, err := o.Check(context.Background(), req())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := o.Check(context.Background(), req())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if !reflect.DeepEqual(first.Issues, second.Issues) {
		t.Errorf("issue sequences differ between identical runs:\n%+v\nvs\n%+v", first.Issues, second.Issues)
	}
	if !reflect.DeepEqual(first.ToolsRun, second.ToolsRun) {
		t.Errorf("ToolsRun differ: %v vs %v", first.ToolsRun, second.ToolsRun)
	}
}

func TestCheckTimeoutBecomesAdvisory(t *testing.T) {
	root, appPath := testProject(t)
	tr := cleanTranscripts()
	tr["tsc"] = execResult{timedOut: true, exitErr: errors.New("signal: killed")}
	o := New(config.Default(), root).WithLocator(allFound(root)).WithRunner(transcriptRunner(tr))

	report, err := o.Check(context.Background(), &Request{Paths: []string{appPath}})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}

	advisories := report.IssuesInCategory(types.CategoryTool)
	if len(advisories) != 1 || advisories[0].Code != types.CodeTimeout {
		t.Fatalf("advisories = %+v", advisories)
	}
	if report.ToolsSkipped["tsc"] != "timed out" {
		t.Errorf("ToolsSkipped = %v", report.ToolsSkipped)
	}
}

func TestCheckToolMissingStderrSignature(t *testing.T) {
	root, appPath := testProject(t)
	tr := cleanTranscripts()
	tr["tsc"] = execResult{stderr: "npm ERR! Cannot find module 'typescript'", exitErr: errors.New("exit status 1")}
	o := New(config.Default(), root).WithLocator(allFound(root)).WithRunner(transcriptRunner(tr))

	report, err := o.Check(context.Background(), &Request{Paths: []string{appPath}})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}

	advisories := report.IssuesInCategory(types.CategoryTool)
	if len(advisories) != 1 || advisories[0].Code != types.CodeToolNotFound || advisories[0].Tool != "tsc" {
		t.Fatalf("advisories = %+v", advisories)
	}
}

func TestCheckUnparseableOutputBecomesAdvisory(t *testing.T) {
	root, appPath := testProject(t)
	tr := cleanTranscripts()
	tr["eslint"] = execResult{stdout: "Oops! Something went wrong!", exitErr: errors.New("exit status 2")}
	o := New(config.Default(), root).WithLocator(allFound(root)).WithRunner(transcriptRunner(tr))

	report, err := o.Check(context.Background(), &Request{Paths: []string{appPath}})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}

	advisories := report.IssuesInCategory(types.CategoryTool)
	if len(advisories) != 1 || advisories[0].Code != types.CodeParseError {
		t.Fatalf("advisories = %+v", advisories)
	}
	// The failure stays local: the stub scan still reports.
	if len(report.IssuesInCategory(types.CategoryStub)) != 1 {
		t.Error("parse failure leaked into other checkers")
	}
}

func TestCheckToolCrashBecomesAdvisory(t *testing.T) {
	root, appPath := testProject(t)
	tr := cleanTranscripts()
	tr["prettier"] = execResult{stderr: "segmentation fault", exitErr: errors.New("signal: segmentation fault")}
	o := New(config.Default(), root).WithLocator(allFound(root)).WithRunner(transcriptRunner(tr))

	report, err := o.Check(context.Background(), &Request{Paths: []string{appPath}})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}

	advisories := report.IssuesInCategory(types.CategoryTool)
	if len(advisories) != 1 || advisories[0].Code != types.CodeToolFailed {
		t.Fatalf("advisories = %+v", advisories)
	}
}

func TestCheckFixModeRoundTrip(t *testing.T) {
	root, appPath := testProject(t)

	// Stateful fake formatter: --check reports the file until --write runs.
	var mu sync.Mutex
	formatted := false
	runner := func(_ context.Context, bin string, args []string, _ string, _ time.Duration) execResult {
		mu.Lock()
		defer mu.Unlock()
		switch filepath.Base(bin) {
		case "prettier":
			for _, a := range args {
				if a == "--write" {
					formatted = true
					return execResult{}
				}
			}
			if !formatted {
				return execResult{stderr: "[warn] src/app.ts", exitErr: errors.New("exit status 1")}
			}
			return execResult{}
		case "eslint":
			return execResult{stdout: "[]"}
		default:
			return execResult{}
		}
	}

	cfg := config.Default()
	cfg.EnableStubCheck = false // only formatting deviations in this scenario
	o := New(cfg, root).WithLocator(allFound(root)).WithRunner(runner)

	fixReport, err := o.Check(context.Background(), &Request{Paths: []string{appPath}, Fix: true})
	if err != nil {
		t.Fatalf("fix run: %v", err)
	}
	if n := len(fixReport.IssuesInCategory(types.CategoryFormat)); n != 0 {
		t.Errorf("fix mode reported %d format issues, want 0", n)
	}

	checkReport, err := o.Check(context.Background(), &Request{Paths: []string{appPath}})
	if err != nil {
		t.Fatalf("check after fix: %v", err)
	}
	if n := len(checkReport.IssuesInCategory(types.CategoryFormat)); n != 0 {
		t.Errorf("check after fix found %d format issues, want 0", n)
	}
}

func TestCheckContentSkipsTypeChecker(t *testing.T) {
	root, _ := testProject(t)
	runner := func(_ context.Context, bin string, args []string, _ string, _ time.Duration) execResult {
		switch filepath.Base(bin) {
		case "prettier":
			// Echo the target so path remapping is exercised.
			return execResult{stderr: "[warn] " + args[len(args)-1], exitErr: errors.New("exit status 1")}
		case "eslint":
			return execResult{stdout: "[]"}
		default:
			t.Errorf("unexpected tool %s for content check", bin)
			return execResult{}
		}
	}
	o := New(config.Default(), root).WithLocator(allFound(root)).WithRunner(runner)

	report, err := o.Check(context.Background(), &Request{Content: "const x = 1 as any\n"})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}

	if report.ToolsSkipped["tsc"] == "" {
		t.Error("tsc must appear in ToolsSkipped for content checks")
	}
	advisories := report.IssuesInCategory(types.CategoryTool)
	if len(advisories) != 1 || advisories[0].Tool != "tsc" {
		t.Fatalf("advisories = %+v, want one for tsc", advisories)
	}

	// All issue paths point at the virtual filename, never the temp file.
	for _, is := range report.Issues {
		if is.Path != "" && is.Path != types.ContentPath {
			t.Errorf("issue path %q leaked a temp location", is.Path)
		}
	}
	if len(report.IssuesInCategory(types.CategoryStub)) != 1 {
		t.Error("stub scan should flag the 'as any' cast in content")
	}
}

func TestCheckCancellationPropagates(t *testing.T) {
	root, appPath := testProject(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o := New(config.Default(), root).WithLocator(allFound(root)).WithRunner(transcriptRunner(cleanTranscripts()))
	_, err := o.Check(ctx, &Request{Paths: []string{appPath}, Checks: []string{"format"}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestCheckDisabledChecksAreSkipped(t *testing.T) {
	root, appPath := testProject(t)
	cfg := config.Default()
	cfg.EnableTypes = false
	o := New(cfg, root).WithLocator(allFound(root)).WithRunner(transcriptRunner(cleanTranscripts()))

	report, err := o.Check(context.Background(), &Request{Paths: []string{appPath}})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	for _, tool := range report.ToolsRun {
		if tool == "tsc" {
			t.Error("disabled type check still ran")
		}
	}
}

func TestCheckChanged(t *testing.T) {
	root, appPath := testProject(t)
	o := New(config.Default(), root).WithLocator(allFound(root)).WithRunner(transcriptRunner(cleanTranscripts()))

	t.Run("non-source path is ignored", func(t *testing.T) {
		report, err := o.CheckChanged(context.Background(), FileEvent{Path: filepath.Join(root, "README.md"), Op: OpModify})
		if err != nil || report != nil {
			t.Fatalf("report = %+v, err = %v; want nil, nil", report, err)
		}
	})

	t.Run("excluded path is ignored", func(t *testing.T) {
		excluded := filepath.Join(root, "node_modules", "pkg", "index.ts")
		report, err := o.CheckChanged(context.Background(), FileEvent{Path: excluded, Op: OpCreate})
		if err != nil || report != nil {
			t.Fatalf("report = %+v, err = %v; want nil, nil", report, err)
		}
	})

	t.Run("source file is checked", func(t *testing.T) {
		report, err := o.CheckChanged(context.Background(), FileEvent{Path: appPath, Op: OpModify})
		if err != nil {
			t.Fatalf("CheckChanged: %v", err)
		}
		if report == nil || report.FilesChecked != 1 {
			t.Fatalf("report = %+v", report)
		}
		if len(report.IssuesInCategory(types.CategoryStub)) != 1 {
			t.Error("stub scan missing for changed file")
		}
	})
}
