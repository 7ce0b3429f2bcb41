package driver

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// SourceExt is the extension of compilable files.
const SourceExt = ".sy"

// ListSources возвращает отсортированный список всех *.sy файлов в директории.
func ListSources(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, SourceExt) {
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

// FileResult pairs a path with its compilation; Err is set when the file
// could not be compiled at all (unreadable, or an internal failure).
type FileResult struct {
	Path   string
	Result *Result
	Err    error
}

// CompileFiles compiles independent files in parallel, at most jobs at a
// time (jobs <= 0 means GOMAXPROCS). Every file gets its own FileSet and
// type table. Per-file failures are kept in FileResult.Err; the returned
// error is only set when ctx was cancelled.
func CompileFiles(ctx context.Context, paths []string, opts Options, jobs int) ([]FileResult, error) {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	// Результаты: индексы уникальны для каждой горутины, мьютекс не нужен
	results := make([]FileResult, len(paths))
	if len(paths) == 0 {
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := CompileFile(gctx, path, opts)
			results[i] = FileResult{Path: path, Result: res, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// Errors joins the per-file failures of results.
func Errors(results []FileResult) error {
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errors.Join(errs...)
}
