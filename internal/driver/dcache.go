package driver

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"ophelia/internal/diag"
	"ophelia/internal/ir"
	"ophelia/internal/source"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache хранит результаты компиляции файлов по CacheKey.
// A nil *DiskCache is a valid, always-missing cache.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is what one cache entry holds: the diagnostics of the file
// and, when it compiled, the encoded program.
type DiskPayload struct {
	Schema      uint16
	Diagnostics []cachedDiagnostic
	Program     []byte // ir.Encode output; empty for failed units
}

// cachedDiagnostic stores spans as offsets: file ids belong to a FileSet
// and are rebound on load.
type cachedDiagnostic struct {
	Severity diag.Severity
	Code     diag.Code
	Message  string
	Start    uint32
	End      uint32
	Notes    []cachedNote
}

type cachedNote struct {
	Builtin bool // span outside any file
	Start   uint32
	End     uint32
	Msg     string
}

// OpenDiskCache opens the cache under $XDG_CACHE_HOME/app (or ~/.cache/app).
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt opens a cache rooted at dir, creating it.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// two-level layout keeps directories small
	return filepath.Join(c.dir, "units", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload atomically.
func (c *DiskCache) Put(key Digest, payload *DiskPayload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(f.Name())
		}
	}()
	payload.Schema = diskCacheSchemaVersion
	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads a payload; found is false for a missing or stale entry.
func (c *DiskCache) Get(key Digest, out *DiskPayload) (found bool, err error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if err := msgpack.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("cache entry %x: %w", key[:4], err)
	}
	return out.Schema == diskCacheSchemaVersion, nil
}

// DropAll removes every entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "units"))
}

// Store records a finished compilation. Timing diagnostics are not cached:
// they describe this run, not the file.
func (c *DiskCache) Store(key Digest, res *Result) error {
	if c == nil || res == nil {
		return nil
	}
	payload := &DiskPayload{}
	for _, d := range res.Bag.Items() {
		if d.Code == diag.ObsTimings {
			continue
		}
		cd := cachedDiagnostic{
			Severity: d.Severity,
			Code:     d.Code,
			Message:  d.Message,
			Start:    d.Primary.Start,
			End:      d.Primary.End,
		}
		for _, n := range d.Notes {
			cd.Notes = append(cd.Notes, cachedNote{
				Builtin: n.Span.File == source.NoFileID,
				Start:   n.Span.Start,
				End:     n.Span.End,
				Msg:     n.Msg,
			})
		}
		payload.Diagnostics = append(payload.Diagnostics, cd)
	}
	if res.Program != nil {
		var buf bytes.Buffer
		if err := ir.Encode(&buf, res.Program); err != nil {
			return err
		}
		payload.Program = buf.Bytes()
	}
	return c.Put(key, payload)
}

// Load fills res from the entry for key. Diagnostics are rebound to
// res.File; the program is decoded with its own type table.
func (c *DiskCache) Load(key Digest, res *Result) (bool, error) {
	var payload DiskPayload
	found, err := c.Get(key, &payload)
	if err != nil || !found {
		return false, err
	}
	var prog *ir.Program
	if len(payload.Program) > 0 {
		prog, err = ir.Decode(bytes.NewReader(payload.Program))
		if err != nil {
			return false, err
		}
	}
	file := res.File.ID
	for _, cd := range payload.Diagnostics {
		d := diag.Diagnostic{
			Severity: cd.Severity,
			Code:     cd.Code,
			Message:  cd.Message,
			Primary:  source.Span{File: file, Start: cd.Start, End: cd.End},
		}
		for _, n := range cd.Notes {
			sp := source.Span{File: file, Start: n.Start, End: n.End}
			if n.Builtin {
				sp = source.Span{}
			}
			d.Notes = append(d.Notes, diag.Note{Span: sp, Msg: n.Msg})
		}
		res.Bag.Add(d)
	}
	res.Program = prog
	return true, nil
}
