package preprocess

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

func (st *fileState) include(args string, ln logicalLine) (string, error) {
	name, quoted, err := parseIncludeName(args)
	if err != nil {
		// #include MACRO
		e := st.expander(ln)
		e.partial = true
		expanded, xerr := e.expand(args)
		if xerr != nil {
			return "", xerr
		}
		if name, quoted, err = parseIncludeName(strings.TrimSpace(expanded)); err != nil {
			return "", err
		}
	}
	if limit := st.ctx.maxDepth(); st.ctx.Depth+1 > limit {
		return "", fmt.Errorf("%w: depth %d exceeds the limit of %d", ErrIncludeDepth, st.ctx.Depth+1, limit)
	}

	path, data, err := st.resolve(name, quoted)
	if err != nil {
		return "", err
	}
	text, err := Process(st.ctx.child(filepath.Dir(path)), path, data)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# 1 %s\n", strconv.Quote(path))
	b.WriteString(text)
	if text != "" && !strings.HasSuffix(text, "\n") {
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "# %d %s", ln.line+1, strconv.Quote(st.path))
	return b.String(), nil
}

// parseIncludeName accepts "name" and <name>.
func parseIncludeName(args string) (name string, quoted bool, err error) {
	if len(args) >= 2 {
		var closing byte
		switch args[0] {
		case '"':
			closing, quoted = '"', true
		case '<':
			closing = '>'
		}
		if closing != 0 {
			end := strings.IndexByte(args[1:], closing)
			if end > 0 && strings.TrimSpace(args[end+2:]) == "" {
				return args[1 : end+1], quoted, nil
			}
		}
	}
	return "", false, fmt.Errorf("%w: #include expects \"FILENAME\" or <FILENAME>", ErrInvalidDirective)
}

// resolve searches the including file's directory first for quoted names,
// then the include directories in order.
func (st *fileState) resolve(name string, quoted bool) (string, []byte, error) {
	dirs := st.ctx.IncludeDirs
	switch {
	case filepath.IsAbs(name):
		dirs = []string{""}
	case quoted:
		dirs = append([]string{st.dir}, dirs...)
	}
	for _, dir := range dirs {
		path := filepath.Join(dir, name)
		// #nosec G304 -- include paths come from the translated sources
		data, err := os.ReadFile(path)
		if err == nil {
			return path, data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", nil, fmt.Errorf("%w: %s: %w", ErrIncludeNotFound, name, err)
		}
	}
	return "", nil, fmt.Errorf("%w: %s", ErrIncludeNotFound, name)
}
