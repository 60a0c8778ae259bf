package driver

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"rcc/internal/diag"
	"rcc/internal/project"
	"rcc/internal/source"
	"rcc/internal/token"
)

// Current schema version - increment when cachePayload format changes
const cacheSchemaVersion uint16 = 1

// Cache хранит потоки токенов по хешу содержимого на диске.
// Safe for concurrent use.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

type cachedToken struct {
	Kind  uint8  `msgpack:"k"`
	Start uint32 `msgpack:"s"`
	End   uint32 `msgpack:"e"`
	Text  string `msgpack:"t,omitempty"`
}

type cachedDiag struct {
	Severity uint8  `msgpack:"sev"`
	Code     uint16 `msgpack:"code"`
	Start    uint32 `msgpack:"s"`
	End      uint32 `msgpack:"e"`
	Message  string `msgpack:"msg"`
}

// cachePayload is what one lexed file leaves on disk. Offsets are stored
// without a FileID; they are rebased onto the file that hits the entry.
type cachePayload struct {
	Schema uint16        `msgpack:"schema"`
	Tokens []cachedToken `msgpack:"tokens"`
	Diags  []cachedDiag  `msgpack:"diags,omitempty"`
}

// OpenCache opens the cache under $XDG_CACHE_HOME/<app>, falling back to
// ~/.cache/<app>.
func OpenCache(app string) (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return NewCache(filepath.Join(base, app))
}

// NewCache opens a cache rooted at dir.
func NewCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *Cache) Dir() string { return c.dir }

// Key derives the entry key for a file lexed under opts.
func (c *Cache) Key(f *source.File, opts Options) project.Digest {
	return project.Combine(project.Digest(f.Hash), opts.fingerprint())
}

func (c *Cache) pathFor(key project.Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// подкаталоги по первому байту, чтобы не раздувать один каталог
	return filepath.Join(c.dir, "tokens", hexKey[:2], hexKey+".mp")
}

// Put stores the tokens and lexer diagnostics of one file.
func (c *Cache) Put(key project.Digest, tokens []token.Token, diags []diag.Diagnostic) (err error) {
	if c == nil {
		return nil
	}
	payload := cachePayload{
		Schema: cacheSchemaVersion,
		Tokens: make([]cachedToken, len(tokens)),
		Diags:  make([]cachedDiag, len(diags)),
	}
	for i, tok := range tokens {
		payload.Tokens[i] = cachedToken{Kind: uint8(tok.Kind), Start: tok.Span.Start, End: tok.Span.End, Text: tok.Text}
	}
	for i, d := range diags {
		payload.Diags[i] = cachedDiag{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Start:    d.Primary.Start,
			End:      d.Primary.End,
			Message:  d.Message,
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if removeErr := os.Remove(f.Name()); removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) && err == nil {
			err = removeErr
		}
	}()

	if err := msgpack.NewEncoder(f).Encode(&payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get loads an entry and rebases it onto file. A missing entry or one
// written by another schema is a miss.
func (c *Cache) Get(key project.Digest, file source.FileID) (tokens []token.Token, diags []diag.Diagnostic, ok bool, err error) {
	if c == nil {
		return nil, nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	// #nosec G304 -- path is derived from the cache key
	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, false, nil
		}
		return nil, nil, false, err
	}
	defer func() { _ = f.Close() }()

	var payload cachePayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, nil, false, fmt.Errorf("corrupt cache entry: %w", err)
	}
	if payload.Schema != cacheSchemaVersion {
		return nil, nil, false, nil
	}
	tokens = make([]token.Token, len(payload.Tokens))
	for i, ct := range payload.Tokens {
		tokens[i] = token.Token{Kind: token.Kind(ct.Kind), Span: source.NewSpan(file, ct.Start, ct.End), Text: ct.Text}
	}
	diags = make([]diag.Diagnostic, len(payload.Diags))
	for i, cd := range payload.Diags {
		diags[i] = diag.New(diag.Severity(cd.Severity), diag.Code(cd.Code), source.NewSpan(file, cd.Start, cd.End), cd.Message)
	}
	return tokens, diags, true, nil
}

// DropAll removes every entry.
func (c *Cache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "tokens"))
}
