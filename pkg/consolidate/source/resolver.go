// Package source locates and reads the per-entity workbooks named after
// lookup codes.
package source

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Ext is the file extension of per-entity workbooks.
const Ext = ".xlsx"

// Handle identifies a resolved per-entity workbook. The file may or may not
// exist; Exists records the outcome of the lookup.
type Handle struct {
	// Path is the full path to the workbook.
	Path string
	// Filename is the base filename, "<code>.xlsx".
	Filename string
	// Dir is the containing directory including a trailing separator, ready
	// for external-reference formula construction.
	Dir string
	// Exists reports whether a regular file was found at Path.
	Exists bool
}

// Resolver resolves codes to per-entity workbook files under a base
// directory. A missing file is a routine outcome reported through
// Handle.Exists, never an error.
type Resolver struct {
	// BaseDir is the directory searched for "<code>.xlsx" files.
	BaseDir string

	// cache holds opened workbooks by path when reuse across rows is enabled.
	cache map[string]*excelize.File
}

// NewResolver returns a Resolver rooted at baseDir. When cache is true,
// opened workbooks are retained and reused until Close is called; otherwise
// each Open returns a fresh file the caller releases after the row.
func NewResolver(baseDir string, cache bool) *Resolver {
	r := &Resolver{BaseDir: baseDir}
	if cache {
		r.cache = make(map[string]*excelize.File)
	}
	return r
}

// Resolve builds the candidate file location for a code.
func (r *Resolver) Resolve(code string) Handle {
	filename := code + Ext
	base := r.BaseDir
	if base == "" {
		base = "."
	}
	path := joinDir(base, filename)
	h := Handle{
		Path:     path,
		Filename: filename,
		Dir:      strings.TrimSuffix(path, filename),
	}
	if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
		h.Exists = true
	}
	return h
}

// Open opens the workbook behind a handle for value extraction. Formula
// cells read from it resolve to their last computed results, never formula
// text, which is the data-only read the extractor needs.
func (r *Resolver) Open(h Handle) (*excelize.File, error) {
	if f, ok := r.cache[h.Path]; ok {
		return f, nil
	}
	f, err := excelize.OpenFile(h.Path)
	if err != nil {
		return nil, err
	}
	if r.cache != nil {
		r.cache[h.Path] = f
	}
	return f, nil
}

// Release closes f unless it is retained by the cache.
func (r *Resolver) Release(f *excelize.File) {
	if r.cache == nil {
		_ = f.Close()
	}
}

// Close releases every cached workbook. It is a no-op when caching is off.
func (r *Resolver) Close() {
	for _, f := range r.cache {
		_ = f.Close()
	}
	r.cache = nil
}

// joinDir joins dir and filename keeping the separator style of dir, so a
// Windows-style configured root stays Windows-style in formula text even
// when the tool runs elsewhere.
func joinDir(dir, filename string) string {
	if strings.HasSuffix(dir, `\`) || strings.HasSuffix(dir, "/") {
		return dir + filename
	}
	return dir + separatorFor(dir) + filename
}

func separatorFor(dir string) string {
	if strings.ContainsRune(dir, '\\') && !strings.ContainsRune(dir, '/') {
		return `\`
	}
	return string(os.PathSeparator)
}

// AbsDir normalizes dir to an absolute path. Paths that are already
// absolute, in either native or Windows form, pass through unchanged.
func AbsDir(dir string) string {
	if dir == "" || filepath.IsAbs(dir) || isWindowsAbs(dir) {
		return dir
	}
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return dir
}

func isWindowsAbs(dir string) bool {
	return len(dir) >= 3 && dir[1] == ':' && (dir[2] == '\\' || dir[2] == '/')
}
