package project

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ferry/internal/diag"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func wantManifestError(t *testing.T, err error, code diag.Code) *Error {
	t.Helper()
	if err == nil {
		t.Fatalf("expected manifest error with code %s", code.ID())
	}
	var merr *Error
	if !errors.As(err, &merr) {
		t.Fatalf("error %v is not a project.Error", err)
	}
	if merr.Code != code {
		t.Fatalf("code = %s, want %s", merr.Code.ID(), code.ID())
	}
	return merr
}

func TestLoadManifestDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "[package]\nname = \"demo\"\n")

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Root != dir {
		t.Errorf("Root = %q, want %q", m.Root, dir)
	}
	b := m.Config.Bridge
	if b.Schema != "schema" || b.OutGo != "generated" || b.OutSwift != "generated" || b.OutHeader != "generated" {
		t.Errorf("defaults = %+v", b)
	}
	if b.Prefix != "ferry" {
		t.Errorf("Prefix = %q", b.Prefix)
	}
	if b.Target != "" {
		t.Errorf("Target = %q", b.Target)
	}
	if got := m.SchemaDir(); got != filepath.Join(dir, "schema") {
		t.Errorf("SchemaDir = %q", got)
	}
	if got := m.OutGoDir(); got != filepath.Join(dir, "generated") {
		t.Errorf("OutGoDir = %q", got)
	}
}

func TestLoadManifestFull(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `
[package]
name = "geometry"

[bridge]
schema = "bridge"
out_go = "gen/go"
out_swift = "Sources/Generated"
out_header = "include"
prefix = "acme"
target = "x86_64-linux-gnu"
go_package = "geobridge"
runtime = "example.com/geo/runtime/ferryrt"
`)

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	b := m.Config.Bridge
	if m.Config.Package.Name != "geometry" {
		t.Errorf("Name = %q", m.Config.Package.Name)
	}
	if b.Prefix != "acme" || b.Target != "x86_64-linux-gnu" || b.GoPackage != "geobridge" {
		t.Errorf("bridge = %+v", b)
	}
	if b.Runtime != "example.com/geo/runtime/ferryrt" {
		t.Errorf("Runtime = %q", b.Runtime)
	}
	if got := m.OutSwiftDir(); got != filepath.Join(dir, "Sources/Generated") {
		t.Errorf("OutSwiftDir = %q", got)
	}
	if got := m.OutHeaderDir(); got != filepath.Join(dir, "include") {
		t.Errorf("OutHeaderDir = %q", got)
	}
}

func TestLoadManifestUnknownKey(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "[package]\nname = \"demo\"\n\n[bridge]\nout = \"x\"\n")

	_, err := Load(path)
	merr := wantManifestError(t, err, diag.PrjUnknownManifestKey)
	if !strings.Contains(merr.Detail, "bridge.out") {
		t.Errorf("Detail = %q, want mention of bridge.out", merr.Detail)
	}
}

func TestLoadManifestMissingName(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "[package]\nname = \"  \"\n")

	_, err := Load(path)
	wantManifestError(t, err, diag.PrjManifestInvalid)
}

func TestLoadManifestBadPrefix(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "[package]\nname = \"demo\"\n\n[bridge]\nprefix = \"Bad_Prefix\"\n")

	_, err := Load(path)
	wantManifestError(t, err, diag.PrjBadPrefix)
}

func TestLoadManifestBadTarget(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "[package]\nname = \"demo\"\n\n[bridge]\ntarget = \"riscv64-unknown-none\"\n")

	_, err := Load(path)
	wantManifestError(t, err, diag.PrjBadTarget)
}

func TestLoadManifestBadGoPackage(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "[package]\nname = \"demo\"\n\n[bridge]\ngo_package = \"9pkg\"\n")

	_, err := Load(path)
	wantManifestError(t, err, diag.PrjManifestInvalid)
}

func TestLoadManifestBadTOML(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "[package\nname=")

	_, err := Load(path)
	wantManifestError(t, err, diag.PrjManifestInvalid)
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[package]\nname = \"demo\"\n")
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	m, err := Discover(nested)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if m.Root != root {
		t.Errorf("Root = %q, want %q", m.Root, root)
	}
}

func TestDiscoverNotFound(t *testing.T) {
	dir := t.TempDir()

	_, err := Discover(dir)
	wantManifestError(t, err, diag.PrjManifestNotFound)
}

func TestCombineOrderMatters(t *testing.T) {
	a := HashString("a")
	b := HashString("b")
	c := HashString("c")

	if Combine(a, b, c) == Combine(a, c, b) {
		t.Fatal("combine must be order sensitive")
	}
	if Combine(a, b, c) != Combine(a, b, c) {
		t.Fatal("combine must be deterministic")
	}
	if HashBytes([]byte("a")) != a {
		t.Fatal("HashBytes and HashString must agree")
	}
}
