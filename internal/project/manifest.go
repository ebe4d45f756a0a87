package project

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"ferry/internal/diag"
	"ferry/internal/layout"
	"ferry/internal/naming"
)

// Error is a manifest problem with its PRJ diagnostic code attached.
// Manifest errors have no source span, so they travel as Go errors and
// the CLI renders them through the code's ID.
type Error struct {
	Code   diag.Code
	Path   string
	Detail string
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("[%s]: %s", e.Code.ID(), e.Detail)
	}
	return fmt.Sprintf("%s: [%s]: %s", e.Path, e.Code.ID(), e.Detail)
}

// Config mirrors the TOML structure of ferry.toml.
type Config struct {
	Package PackageConfig `toml:"package"`
	Bridge  BridgeConfig  `toml:"bridge"`
}

// PackageConfig is the [package] table.
type PackageConfig struct {
	Name string `toml:"name"`
}

// BridgeConfig is the [bridge] table. Every field is optional; Load
// fills the defaults in.
type BridgeConfig struct {
	// Schema is the directory scanned for *.fy files, relative to the
	// project root.
	Schema string `toml:"schema"`
	// OutGo, OutSwift and OutHeader receive the generated artifacts.
	// They may point at the same directory.
	OutGo     string `toml:"out_go"`
	OutSwift  string `toml:"out_swift"`
	OutHeader string `toml:"out_header"`
	// Prefix spells the generated symbol names, default "ferry".
	Prefix string `toml:"prefix"`
	// Target is the layout triple, empty means the default target.
	Target string `toml:"target"`
	// GoPackage overrides the package clause of the generated Go file.
	GoPackage string `toml:"go_package"`
	// Runtime overrides the import path of the support runtime.
	Runtime string `toml:"runtime"`
}

// Manifest is a loaded and validated ferry.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

const (
	defaultSchemaDir = "schema"
	defaultOutDir    = "generated"
)

// Discover walks up from startDir and loads the first ferry.toml found.
func Discover(startDir string) (*Manifest, error) {
	path, ok, err := FindFerryToml(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &Error{
			Code:   diag.PrjManifestNotFound,
			Detail: "no ferry.toml in this or any parent directory",
		}
	}
	return Load(path)
}

// Load reads, validates and defaults the manifest at path. Unknown keys
// are rejected so a typo never silently disables a setting.
func Load(path string) (*Manifest, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, &Error{Code: diag.PrjManifestInvalid, Path: path, Detail: err.Error()}
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, &Error{
			Code:   diag.PrjUnknownManifestKey,
			Path:   path,
			Detail: fmt.Sprintf("unknown key %q", undecoded[0].String()),
		}
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return nil, &Error{Code: diag.PrjManifestInvalid, Path: path, Detail: "missing [package].name"}
	}
	b := &cfg.Bridge
	if b.Schema == "" {
		b.Schema = defaultSchemaDir
	}
	if b.OutGo == "" {
		b.OutGo = defaultOutDir
	}
	if b.OutSwift == "" {
		b.OutSwift = defaultOutDir
	}
	if b.OutHeader == "" {
		b.OutHeader = defaultOutDir
	}
	if b.Prefix == "" {
		b.Prefix = naming.DefaultPrefix
	}
	if !naming.ValidPrefix(b.Prefix) {
		return nil, &Error{
			Code:   diag.PrjBadPrefix,
			Path:   path,
			Detail: fmt.Sprintf("prefix %q must be a lowercase identifier", b.Prefix),
		}
	}
	if _, ok := layout.ByTriple(b.Target); !ok {
		return nil, &Error{
			Code:   diag.PrjBadTarget,
			Path:   path,
			Detail: fmt.Sprintf("unknown target triple %q", b.Target),
		}
	}
	if b.GoPackage != "" && !validGoPackage(b.GoPackage) {
		return nil, &Error{
			Code:   diag.PrjManifestInvalid,
			Path:   path,
			Detail: fmt.Sprintf("go_package %q is not a valid package name", b.GoPackage),
		}
	}
	return &Manifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
	}, nil
}

// SchemaDir returns the absolute schema directory.
func (m *Manifest) SchemaDir() string {
	return m.resolve(m.Config.Bridge.Schema)
}

// OutGoDir returns the absolute directory for generated Go sources.
func (m *Manifest) OutGoDir() string {
	return m.resolve(m.Config.Bridge.OutGo)
}

// OutSwiftDir returns the absolute directory for generated Swift sources.
func (m *Manifest) OutSwiftDir() string {
	return m.resolve(m.Config.Bridge.OutSwift)
}

// OutHeaderDir returns the absolute directory for generated C headers.
func (m *Manifest) OutHeaderDir() string {
	return m.resolve(m.Config.Bridge.OutHeader)
}

func (m *Manifest) resolve(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(m.Root, p)
}

func validGoPackage(name string) bool {
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c == '_':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return name != ""
}
