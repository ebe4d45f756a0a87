package driver

import (
	"fmt"
	"os"
	"path/filepath"

	"ferry/internal/diag"
	"ferry/internal/pipeline"
	"ferry/internal/source"
	runtimeembed "ferry/runtime"
)

// CoreSwiftFile is the support source written next to generated Swift
// output, shared by every module.
const CoreSwiftFile = "FerryCore.swift"

// OutputFiles returns the three artifact file names of a module.
func OutputFiles(module string) (goFile, swiftFile, headerFile string) {
	return module + "_bridge.gen.go",
		exportName(module) + "Bridge.gen.swift",
		module + "_bridge.gen.h"
}

// writeOutputs writes every rendered artifact plus the Swift support
// file. Errors become IO diagnostics in the run bag and stop further
// writes; individual files land atomically via temp+rename.
func writeOutputs(req *Request, res *Result) {
	sink := req.Progress

	for _, dir := range outputDirs(req) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			res.Bag.Add(diag.NewError(diag.IOCreateDirError, source.Span{},
				fmt.Sprintf("cannot create output directory %s: %v", dir, err)))
			return
		}
	}

	for _, mr := range res.Modules {
		if mr.Output == nil {
			continue
		}
		pipeline.Emit(sink, pipeline.Event{File: mr.Path, Stage: pipeline.StageWrite, Status: pipeline.StatusWorking})
		goFile, swiftFile, headerFile := OutputFiles(mr.Module)
		targets := []struct {
			path    string
			content string
		}{
			{filepath.Join(req.OutGoDir, goFile), mr.Output.GoSource},
			{filepath.Join(req.OutSwiftDir, swiftFile), mr.Output.SwiftSource},
			{filepath.Join(req.OutHeaderDir, headerFile), mr.Output.Header},
		}
		for _, t := range targets {
			if err := writeFileAtomic(t.path, []byte(t.content)); err != nil {
				res.Bag.Add(diag.NewError(diag.IOWriteFileError, source.Span{},
					fmt.Sprintf("cannot write %s: %v", t.path, err)))
				pipeline.Emit(sink, pipeline.Event{File: mr.Path, Stage: pipeline.StageWrite, Status: pipeline.StatusError, Err: err})
				return
			}
			res.Written = append(res.Written, t.path)
		}
		pipeline.Emit(sink, pipeline.Event{File: mr.Path, Stage: pipeline.StageWrite, Status: pipeline.StatusDone})
	}

	corePath := filepath.Join(req.OutSwiftDir, CoreSwiftFile)
	if err := writeFileAtomic(corePath, []byte(runtimeembed.SwiftCore())); err != nil {
		res.Bag.Add(diag.NewError(diag.IOWriteFileError, source.Span{},
			fmt.Sprintf("cannot write %s: %v", corePath, err)))
		return
	}
	res.Written = append(res.Written, corePath)
}

func outputDirs(req *Request) []string {
	dirs := []string{req.OutGoDir}
	if req.OutSwiftDir != req.OutGoDir {
		dirs = append(dirs, req.OutSwiftDir)
	}
	if req.OutHeaderDir != req.OutGoDir && req.OutHeaderDir != req.OutSwiftDir {
		dirs = append(dirs, req.OutHeaderDir)
	}
	return dirs
}

// writeFileAtomic writes через временный файл с заменой, чтобы читатель
// никогда не увидел усечённый артефакт.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		_ = os.Remove(f.Name())
	}()
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Chmod(f.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// exportName upper-cases the first ASCII letter, matching the Swift
// artifact naming convention.
func exportName(name string) string {
	if name == "" {
		return name
	}
	if c := name[0]; c >= 'a' && c <= 'z' {
		return string(c-'a'+'A') + name[1:]
	}
	return name
}
