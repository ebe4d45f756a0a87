package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"fortio.org/safecast"
	"golang.org/x/sync/errgroup"

	"ferry/internal/ast"
	"ferry/internal/diag"
	"ferry/internal/parser"
	"ferry/internal/pipeline"
	"ferry/internal/source"
)

// ParseFileResult содержит результат парсинга одного файла
type ParseFileResult struct {
	Path   string        // Путь к файлу схемы
	FileID source.FileID // ID файла в FileSet
	AST    *ast.File     // Распарсенный файл (nil при ошибке загрузки)
	Bag    *diag.Bag     // Диагностики
}

// listSchemaFiles возвращает отсортированный список всех *.fy файлов в директории
func listSchemaFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".fy") {
			files = append(files, path)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// ListSchemaFiles returns the sorted schema files a run over dir would
// process. The paths match the File field of emitted pipeline events.
func ListSchemaFiles(dir string) ([]string, error) {
	return listSchemaFiles(dir)
}

// parseSchemaFiles парсит все файлы схем параллельно. Порядок results
// совпадает с порядком files.
func parseSchemaFiles(ctx context.Context, fileSet *source.FileSet, files []string, maxDiagnostics, jobs int, sink pipeline.ProgressSink) ([]ParseFileResult, error) {
	if len(files) == 0 {
		return nil, nil
	}

	// Предзагружаем все файлы
	fileIDs := make(map[string]source.FileID, len(files))
	loadErrors := make(map[string]error, len(files))

	for _, path := range files {
		fileID, err := fileSet.Load(path)
		if err != nil {
			// Сохраняем ошибку загрузки для последующей обработки
			loadErrors[path] = err
			continue
		}
		fileIDs[path] = fileID
	}

	// Настраиваем параллелизм
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	maxErrors, err := safecast.Conv[uint](maxDiagnostics)
	if err != nil {
		return nil, err
	}

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]ParseFileResult, len(files))

	// Параллельный парсинг
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func(i int, path string) func() error {
			return func() error {
				// Проверка отмены
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}

				pipeline.Emit(sink, pipeline.Event{File: path, Stage: pipeline.StageParse, Status: pipeline.StatusWorking})

				bag := diag.NewBag(maxDiagnostics)

				// Проверяем ошибку загрузки
				if loadErr, hadError := loadErrors[path]; hadError {
					bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{}, "failed to load file: "+loadErr.Error()))
					results[i] = ParseFileResult{Path: path, Bag: bag}
					pipeline.Emit(sink, pipeline.Event{File: path, Stage: pipeline.StageParse, Status: pipeline.StatusError, Err: loadErr})
					return nil
				}

				fileID := fileIDs[path]
				file := fileSet.Get(fileID)

				opts := parser.Options{
					Reporter:  diag.BagReporter{Bag: bag},
					MaxErrors: maxErrors,
				}
				parsed := parser.ParseFile(file, opts)

				// Сохраняем результат (мьютекс не нужен — индекс i уникален)
				results[i] = ParseFileResult{
					Path:   path,
					FileID: fileID,
					AST:    parsed,
					Bag:    bag,
				}

				status := pipeline.StatusDone
				if bag.HasErrors() {
					status = pipeline.StatusError
				}
				pipeline.Emit(sink, pipeline.Event{File: path, Stage: pipeline.StageParse, Status: status})
				return nil
			}
		}(i, path))
	}

	// Ждём завершения всех горутин
	if err := g.Wait(); err != nil {
		return results, err
	}

	return results, nil
}
