package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"ferry/internal/diag"
	"ferry/internal/pipeline"
)

const geometrySchema = `bridge geometry

struct Point {
    x: Float64,
    y: Float64,
}
`

const statusSchema = `bridge status

enum Mode {
    Idle,
    Active,
}
`

func writeSchemaDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func testRequest(schemaDir, outRoot string) Request {
	return Request{
		SchemaDir:    schemaDir,
		OutGoDir:     filepath.Join(outRoot, "go"),
		OutSwiftDir:  filepath.Join(outRoot, "swift"),
		OutHeaderDir: filepath.Join(outRoot, "include"),
		ToolVersion:  "test",
	}
}

func hasCode(bag *diag.Bag, code diag.Code) bool {
	for _, d := range bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestGenerateWritesArtifacts(t *testing.T) {
	schemaDir := writeSchemaDir(t, map[string]string{
		"geometry.fy": geometrySchema,
		"status.fy":   statusSchema,
	})
	outRoot := t.TempDir()
	req := testRequest(schemaDir, outRoot)

	res, err := Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !res.Ok() {
		t.Fatalf("unexpected diagnostics: %v", res.Bag.Items())
	}
	if len(res.Modules) != 2 {
		t.Fatalf("len(Modules) = %d, want 2", len(res.Modules))
	}
	// Файлы идут в отсортированном порядке.
	if res.Modules[0].Module != "geometry" || res.Modules[1].Module != "status" {
		t.Fatalf("module order: %s, %s", res.Modules[0].Module, res.Modules[1].Module)
	}

	// Три артефакта на модуль плюс общий FerryCore.swift.
	if len(res.Written) != 7 {
		t.Fatalf("len(Written) = %d, want 7: %v", len(res.Written), res.Written)
	}
	for _, module := range []string{"geometry", "status"} {
		goFile, swiftFile, headerFile := OutputFiles(module)
		for _, path := range []string{
			filepath.Join(req.OutGoDir, goFile),
			filepath.Join(req.OutSwiftDir, swiftFile),
			filepath.Join(req.OutHeaderDir, headerFile),
		} {
			if _, statErr := os.Stat(path); statErr != nil {
				t.Errorf("missing artifact %s: %v", path, statErr)
			}
		}
	}
	if _, statErr := os.Stat(filepath.Join(req.OutSwiftDir, CoreSwiftFile)); statErr != nil {
		t.Errorf("missing %s: %v", CoreSwiftFile, statErr)
	}

	goSource := readFile(t, filepath.Join(req.OutGoDir, "geometry_bridge.gen.go"))
	if !strings.Contains(goSource, "package geometry") {
		t.Errorf("generated Go source lacks package clause:\n%s", goSource)
	}
	if !strings.Contains(goSource, "DO NOT EDIT") {
		t.Errorf("generated Go source lacks generated-code marker")
	}
}

func TestGenerateDeterministic(t *testing.T) {
	schemaDir := writeSchemaDir(t, map[string]string{
		"geometry.fy": geometrySchema,
		"status.fy":   statusSchema,
	})

	outA := t.TempDir()
	outB := t.TempDir()

	resA, err := Generate(context.Background(), testRequest(schemaDir, outA))
	if err != nil {
		t.Fatal(err)
	}
	resB, err := Generate(context.Background(), testRequest(schemaDir, outB))
	if err != nil {
		t.Fatal(err)
	}
	if !resA.Ok() || !resB.Ok() {
		t.Fatal("both runs must succeed")
	}

	for i, pathA := range resA.Written {
		rel, relErr := filepath.Rel(outA, pathA)
		if relErr != nil {
			t.Fatal(relErr)
		}
		pathB := filepath.Join(outB, rel)
		if readFile(t, pathA) != readFile(t, pathB) {
			t.Errorf("artifact %d (%s) differs between runs", i, rel)
		}
	}
}

func TestCheckWritesNothing(t *testing.T) {
	schemaDir := writeSchemaDir(t, map[string]string{"geometry.fy": geometrySchema})
	outRoot := t.TempDir()
	req := testRequest(schemaDir, outRoot)

	res, err := Check(context.Background(), req)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !res.Ok() {
		t.Fatalf("unexpected diagnostics: %v", res.Bag.Items())
	}
	// Генерация прошла в памяти, на диске пусто.
	if len(res.Modules) != 1 || res.Modules[0].Output == nil {
		t.Fatal("check must still render the module in memory")
	}
	if len(res.Written) != 0 {
		t.Fatalf("check wrote files: %v", res.Written)
	}
	if _, statErr := os.Stat(req.OutGoDir); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("output dir exists after check: %v", statErr)
	}
}

func TestGenerateAbortsOnSyntaxError(t *testing.T) {
	schemaDir := writeSchemaDir(t, map[string]string{
		"geometry.fy": geometrySchema,
		"broken.fy":   "bridge broken\nstruct {\n",
	})
	outRoot := t.TempDir()
	req := testRequest(schemaDir, outRoot)

	res, err := Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Ok() {
		t.Fatal("expected diagnostics for the broken schema")
	}
	// Ни одного файла, даже для валидного модуля.
	if len(res.Written) != 0 {
		t.Fatalf("partial output written: %v", res.Written)
	}
	if _, statErr := os.Stat(req.OutGoDir); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("output dir exists after failed run: %v", statErr)
	}
}

func TestGenerateDuplicateModule(t *testing.T) {
	schemaDir := writeSchemaDir(t, map[string]string{
		"a.fy": geometrySchema,
		"b.fy": geometrySchema,
	})
	res, err := Generate(context.Background(), testRequest(schemaDir, t.TempDir()))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Ok() {
		t.Fatal("expected duplicate module diagnostic")
	}
	if !hasCode(res.Bag, diag.ResDuplicateModule) {
		t.Fatalf("missing ResDuplicateModule, got: %v", res.Bag.Items())
	}
	if len(res.Written) != 0 {
		t.Fatalf("files written despite errors: %v", res.Written)
	}
}

func TestGenerateEmptySchemaDir(t *testing.T) {
	res, err := Generate(context.Background(), testRequest(t.TempDir(), t.TempDir()))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Ok() {
		t.Fatal("expected an error for the empty schema dir")
	}
	if !hasCode(res.Bag, diag.PrjNoSchemaFiles) {
		t.Fatalf("missing PrjNoSchemaFiles, got: %v", res.Bag.Items())
	}
}

func TestGenerateUnknownTargetTriple(t *testing.T) {
	schemaDir := writeSchemaDir(t, map[string]string{"geometry.fy": geometrySchema})
	req := testRequest(schemaDir, t.TempDir())
	req.TargetTriple = "riscv64-unknown-none"

	res, err := Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !hasCode(res.Bag, diag.PrjBadTarget) {
		t.Fatalf("missing PrjBadTarget, got: %v", res.Bag.Items())
	}
	if len(res.Written) != 0 {
		t.Fatalf("files written despite bad target: %v", res.Written)
	}
}

func TestGenerateCacheRoundTrip(t *testing.T) {
	schemaDir := writeSchemaDir(t, map[string]string{"geometry.fy": geometrySchema})
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDiskCacheAt: %v", err)
	}

	runOnce := func(force bool) *Result {
		req := testRequest(schemaDir, t.TempDir())
		req.Cache = cache
		req.Force = force
		res, genErr := Generate(context.Background(), req)
		if genErr != nil {
			t.Fatalf("Generate: %v", genErr)
		}
		if !res.Ok() {
			t.Fatalf("unexpected diagnostics: %v", res.Bag.Items())
		}
		return res
	}

	cold := runOnce(false)
	if cold.Modules[0].FromCache {
		t.Fatal("first run must not hit the cache")
	}

	warm := runOnce(false)
	if !warm.Modules[0].FromCache {
		t.Fatal("second run must be served from the cache")
	}
	// Кэш отдаёт байт в байт то, что было сгенерировано.
	if cold.Modules[0].Output.GoSource != warm.Modules[0].Output.GoSource {
		t.Fatal("cached Go source differs from generated")
	}
	if len(warm.Written) != 4 {
		t.Fatalf("warm run wrote %d files, want 4", len(warm.Written))
	}

	forced := runOnce(true)
	if forced.Modules[0].FromCache {
		t.Fatal("--force must bypass cache reads")
	}
}

type recordSink struct {
	mu     sync.Mutex
	events []pipeline.Event
}

func (s *recordSink) OnEvent(ev pipeline.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func (s *recordSink) snapshot() []pipeline.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]pipeline.Event(nil), s.events...)
}

func TestGeneratePipelineEvents(t *testing.T) {
	schemaDir := writeSchemaDir(t, map[string]string{
		"geometry.fy": geometrySchema,
		"status.fy":   statusSchema,
	})
	sink := &recordSink{}
	req := testRequest(schemaDir, t.TempDir())
	req.Progress = sink

	res, err := Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !res.Ok() {
		t.Fatalf("unexpected diagnostics: %v", res.Bag.Items())
	}

	events := sink.snapshot()
	if len(events) == 0 {
		t.Fatal("no events emitted")
	}
	if events[0].Stage != pipeline.StageScan || events[0].Status != pipeline.StatusWorking {
		t.Fatalf("first event = %+v", events[0])
	}
	last := events[len(events)-1]
	if last.Stage != pipeline.StageWrite || last.Status != pipeline.StatusDone {
		t.Fatalf("last event = %+v", last)
	}

	queued := 0
	for _, ev := range events {
		if ev.Status == pipeline.StatusQueued && ev.File != "" {
			queued++
		}
	}
	if queued != 2 {
		t.Fatalf("queued events = %d, want 2", queued)
	}
}

func TestListSchemaFiles(t *testing.T) {
	schemaDir := writeSchemaDir(t, map[string]string{
		"b.fy":        "bridge b\n",
		"a.fy":        "bridge a\n",
		"nested/c.fy": "bridge c\n",
		"notes.md":    "not a schema",
		"nested/d.tx": "also not",
	})

	files, err := ListSchemaFiles(schemaDir)
	if err != nil {
		t.Fatalf("ListSchemaFiles: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("len(files) = %d, want 3: %v", len(files), files)
	}
	// Отсортированы лексикографически.
	for i := 1; i < len(files); i++ {
		if files[i-1] >= files[i] {
			t.Fatalf("files not sorted: %v", files)
		}
	}
	for _, f := range files {
		if !strings.HasSuffix(f, ".fy") {
			t.Fatalf("non-schema file listed: %s", f)
		}
	}
}

func TestParseSingleFile(t *testing.T) {
	schemaDir := writeSchemaDir(t, map[string]string{"geometry.fy": geometrySchema})

	result, err := Parse(filepath.Join(schemaDir, "geometry.fy"), 0)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if result.AST == nil || result.AST.Bridge.Name != "geometry" {
		t.Fatalf("unexpected AST: %+v", result.AST)
	}
	if result.Bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", result.Bag.Items())
	}

	if _, err := Parse(filepath.Join(schemaDir, "missing.fy"), 0); err == nil {
		t.Fatal("expected error for missing file")
	}
}
