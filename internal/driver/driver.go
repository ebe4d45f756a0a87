// Package driver wires the front end and the generation engines into
// the build pipeline: scan the schema directory, parse every *.fy file
// in parallel, resolve each file into a frozen registry, render the
// three artifacts per module, and write them out.
//
// The pipeline never leaves partial output behind. Artifacts are
// rendered for every healthy module first; if any file produced an
// error diagnostic, the write stage does not run at all.
package driver

import (
	"context"
	"fmt"
	"time"

	"ferry/internal/decl"
	"ferry/internal/diag"
	"ferry/internal/gen"
	"ferry/internal/layout"
	"ferry/internal/naming"
	"ferry/internal/pipeline"
	"ferry/internal/project"
	"ferry/internal/source"
)

// Request configures one pipeline run.
type Request struct {
	// SchemaDir is scanned recursively for *.fy files.
	SchemaDir string

	// Output directories, one per artifact kind. They may coincide.
	OutGoDir     string
	OutSwiftDir  string
	OutHeaderDir string

	// Prefix spells generated symbols; empty means "ferry".
	Prefix string
	// TargetTriple selects the ABI layout target; empty means the
	// default target.
	TargetTriple string
	// GoPackage overrides the generated Go package clause.
	GoPackage string
	// RuntimeImport overrides the support runtime import path.
	RuntimeImport string

	// Jobs caps parse parallelism; <= 0 means GOMAXPROCS.
	Jobs int
	// MaxDiagnostics caps each file's diagnostic bag.
	MaxDiagnostics int

	// Cache, when set, serves unchanged modules without regeneration.
	// Force bypasses lookups but still refreshes entries.
	Cache *DiskCache
	Force bool
	// ToolVersion participates in the cache key so artifacts never
	// survive a generator upgrade.
	ToolVersion string

	// Progress receives pipeline events; nil is valid.
	Progress pipeline.ProgressSink
}

// ModuleResult is the outcome for one schema file.
type ModuleResult struct {
	// Module is the bridge module name from the file header.
	Module string
	// Path is the schema file the module came from.
	Path   string
	FileID source.FileID
	// Registry is the frozen declaration registry, nil when the file
	// did not parse.
	Registry *decl.Registry
	// Output holds the rendered artifacts, nil when generation was
	// skipped or failed.
	Output    *gen.Output
	FromCache bool
}

// Result is the outcome of a pipeline run.
type Result struct {
	FileSet *source.FileSet
	// Bag holds every diagnostic of the run, sorted and deduplicated.
	Bag     *diag.Bag
	Modules []ModuleResult
	// Written lists the files the write stage produced.
	Written []string
	Timings pipeline.Timings
}

// Ok reports whether the run finished without error diagnostics.
func (r *Result) Ok() bool {
	return r != nil && !r.Bag.HasErrors()
}

// Generate runs the full pipeline including the write stage.
func Generate(ctx context.Context, req Request) (*Result, error) {
	return run(ctx, req, true)
}

// Check runs the pipeline without writing: parse, resolve and render
// everything, report every diagnostic, touch nothing on disk.
func Check(ctx context.Context, req Request) (*Result, error) {
	return run(ctx, req, false)
}

func (req *Request) maxDiag() int {
	if req.MaxDiagnostics <= 0 {
		return 100
	}
	return req.MaxDiagnostics
}

func run(ctx context.Context, req Request, write bool) (*Result, error) {
	sink := req.Progress
	res := &Result{
		FileSet: source.NewFileSet(),
		Bag:     diag.NewBag(req.maxDiag()),
	}
	res.FileSet.SetBaseDir(req.SchemaDir)

	// scan
	start := time.Now()
	pipeline.Emit(sink, pipeline.Event{Stage: pipeline.StageScan, Status: pipeline.StatusWorking})
	files, err := listSchemaFiles(req.SchemaDir)
	if err != nil {
		pipeline.Emit(sink, pipeline.Event{Stage: pipeline.StageScan, Status: pipeline.StatusError, Err: err})
		return nil, fmt.Errorf("scan %s: %w", req.SchemaDir, err)
	}
	res.Timings.Set(pipeline.StageScan, time.Since(start))
	if len(files) == 0 {
		res.Bag.Add(diag.NewError(diag.PrjNoSchemaFiles, source.Span{},
			fmt.Sprintf("no *.fy schema files under %s", req.SchemaDir)))
		pipeline.Emit(sink, pipeline.Event{Stage: pipeline.StageScan, Status: pipeline.StatusError})
		return res, nil
	}
	pipeline.EmitQueued(sink, files)
	pipeline.Emit(sink, pipeline.Event{Stage: pipeline.StageScan, Status: pipeline.StatusDone, Elapsed: res.Timings.Duration(pipeline.StageScan)})

	// parse
	start = time.Now()
	parsed, err := parseSchemaFiles(ctx, res.FileSet, files, req.maxDiag(), req.Jobs, sink)
	if err != nil {
		return nil, err
	}
	res.Timings.Set(pipeline.StageParse, time.Since(start))
	pipeline.Emit(sink, pipeline.Event{Stage: pipeline.StageParse, Status: pipeline.StatusDone, Elapsed: res.Timings.Duration(pipeline.StageParse)})

	// resolve
	start = time.Now()
	type firstDecl struct {
		path string
		span source.Span
	}
	registries := make([]*decl.Registry, len(parsed))
	seenModules := make(map[string]firstDecl, len(parsed))
	for i := range parsed {
		pr := &parsed[i]
		if pr.AST == nil {
			pipeline.Emit(sink, pipeline.Event{File: pr.Path, Stage: pipeline.StageResolve, Status: pipeline.StatusError})
			continue
		}
		pipeline.Emit(sink, pipeline.Event{File: pr.Path, Stage: pipeline.StageResolve, Status: pipeline.StatusWorking})
		registries[i] = decl.Resolve(pr.AST, diag.BagReporter{Bag: pr.Bag})

		name := pr.AST.Bridge.Name
		if prev, dup := seenModules[name]; dup {
			d := diag.NewError(diag.ResDuplicateModule, pr.AST.Bridge.Span,
				fmt.Sprintf("bridge module %q is already declared in %s", name, prev.path)).
				WithNote(prev.span, "first declared here")
			pr.Bag.Add(d)
		} else {
			seenModules[name] = firstDecl{path: pr.Path, span: pr.AST.Bridge.Span}
		}

		status := pipeline.StatusDone
		if pr.Bag.HasErrors() {
			status = pipeline.StatusError
		}
		pipeline.Emit(sink, pipeline.Event{File: pr.Path, Stage: pipeline.StageResolve, Status: status})
	}
	res.Timings.Set(pipeline.StageResolve, time.Since(start))
	pipeline.Emit(sink, pipeline.Event{Stage: pipeline.StageResolve, Status: pipeline.StatusDone, Elapsed: res.Timings.Duration(pipeline.StageResolve)})

	// generate
	start = time.Now()
	scheme := naming.NewScheme(req.Prefix)
	target, ok := layout.ByTriple(req.TargetTriple)
	if !ok {
		res.Bag.Add(diag.NewError(diag.PrjBadTarget, source.Span{},
			fmt.Sprintf("unknown target triple %q", req.TargetTriple)))
		mergeBags(res, parsed)
		return res, nil
	}
	for i := range parsed {
		pr := &parsed[i]
		reg := registries[i]
		if reg == nil || pr.Bag.HasErrors() {
			continue
		}
		pipeline.Emit(sink, pipeline.Event{File: pr.Path, Stage: pipeline.StageGenerate, Status: pipeline.StatusWorking})

		mr := ModuleResult{
			Module:   reg.Module(),
			Path:     pr.Path,
			FileID:   pr.FileID,
			Registry: reg,
		}
		file := res.FileSet.Get(pr.FileID)
		key := cacheKey(project.Digest(file.Hash), target.Triple, scheme.Prefix(), req.GoPackage, req.RuntimeImport, req.ToolVersion)

		if req.Cache != nil && !req.Force {
			var payload DiskPayload
			hit, cerr := req.Cache.Get(key, &payload)
			if cerr != nil {
				res.Bag.Add(diag.NewWarning(diag.IOCacheError, source.Span{},
					fmt.Sprintf("cache read for %s: %v", pr.Path, cerr)))
			}
			if hit && payload.Module == mr.Module {
				mr.Output = &gen.Output{
					GoSource:    payload.GoSource,
					SwiftSource: payload.SwiftSource,
					Header:      payload.Header,
				}
				mr.FromCache = true
			}
		}
		if mr.Output == nil {
			out, gerr := gen.New(gen.Config{
				Scheme:        scheme,
				Target:        target,
				GoPackage:     req.GoPackage,
				RuntimeImport: req.RuntimeImport,
			}, reg).Module()
			if gerr != nil {
				pr.Bag.Add(engineDiagnostic(reg, gerr))
				pipeline.Emit(sink, pipeline.Event{File: pr.Path, Stage: pipeline.StageGenerate, Status: pipeline.StatusError, Err: gerr})
				continue
			}
			mr.Output = out
			if req.Cache != nil {
				payload := DiskPayload{
					Schema:      diskCacheSchemaVersion,
					Module:      mr.Module,
					GoSource:    out.GoSource,
					SwiftSource: out.SwiftSource,
					Header:      out.Header,
				}
				if cerr := req.Cache.Put(key, &payload); cerr != nil {
					res.Bag.Add(diag.NewWarning(diag.IOCacheError, source.Span{},
						fmt.Sprintf("cache write for %s: %v", pr.Path, cerr)))
				}
			}
		}
		res.Modules = append(res.Modules, mr)
		pipeline.Emit(sink, pipeline.Event{File: pr.Path, Stage: pipeline.StageGenerate, Status: pipeline.StatusDone})
	}
	res.Timings.Set(pipeline.StageGenerate, time.Since(start))
	pipeline.Emit(sink, pipeline.Event{Stage: pipeline.StageGenerate, Status: pipeline.StatusDone, Elapsed: res.Timings.Duration(pipeline.StageGenerate)})

	mergeBags(res, parsed)

	if !write {
		return res, nil
	}
	// Ни одного файла на диск, если где-то есть ошибка.
	if res.Bag.HasErrors() {
		return res, nil
	}

	start = time.Now()
	writeOutputs(&req, res)
	res.Timings.Set(pipeline.StageWrite, time.Since(start))
	status := pipeline.StatusDone
	if res.Bag.HasErrors() {
		status = pipeline.StatusError
	}
	pipeline.Emit(sink, pipeline.Event{Stage: pipeline.StageWrite, Status: status, Elapsed: res.Timings.Duration(pipeline.StageWrite)})
	return res, nil
}

// mergeBags folds the per-file bags into the run bag in file order.
func mergeBags(res *Result, parsed []ParseFileResult) {
	for i := range parsed {
		res.Bag.Merge(parsed[i].Bag)
	}
	res.Bag.Sort()
	res.Bag.Dedup()
}
