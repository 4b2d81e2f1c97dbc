// Package codebase maintains the checked state of a tree of Sol source
// files: it runs the structural checker over files on disk or editor
// buffers, stores the resulting diagnostics, and answers position queries
// for the language server.
package codebase

import (
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/dhamidi/sol/sol/parser"
)

type Codebase struct {
	mu      sync.RWMutex
	rootDir string
	files   map[string]*FileInfo
}

// FileInfo is the latest known state of one source file.
type FileInfo struct {
	Path        string
	Content     []byte
	Diagnostics []*parser.Error
}

func New(rootDir string) *Codebase {
	return &Codebase{
		rootDir: rootDir,
		files:   make(map[string]*FileInfo),
	}
}

func (c *Codebase) RootDir() string {
	return c.rootDir
}

// ScanAll walks the root directory and checks every Sol file found. Unreadable
// entries are skipped so a single bad path does not abort the scan.
func (c *Codebase) ScanAll() error {
	return filepath.Walk(c.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			return nil
		}
		if filepath.Ext(path) == ".sol" {
			c.ScanFile(path)
		}
		return nil
	})
}

func (c *Codebase) ScanFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return c.UpdateFile(path, content)
}

// UpdateFile replaces the stored content for path, for example from an editor
// buffer, and re-checks it.
func (c *Codebase) UpdateFile(path string, content []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.files[path] = &FileInfo{
		Path:        path,
		Content:     content,
		Diagnostics: Check(content, path),
	}
	return nil
}

func (c *Codebase) RemoveFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.files, path)
}

func (c *Codebase) GetFile(path string) *FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.files[path]
}

// Files returns the stored files ordered by path.
func (c *Codebase) Files() []*FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	files := make([]*FileInfo, 0, len(c.files))
	for _, f := range c.files {
		files = append(files, f)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files
}

// DiagnosticCount sums the diagnostics across all stored files.
func (c *Codebase) DiagnosticCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, f := range c.files {
		n += len(f.Diagnostics)
	}
	return n
}

type CompletionKind int

const (
	CompletionKindKeyword CompletionKind = iota
)

type CompletionItem struct {
	Label  string
	Kind   CompletionKind
	Detail string
}

// CompletionsAt returns the keywords that fit the construct enclosing the
// given 1-based line of path. Inside an unrecognized block, or outside any
// construct, the top-level vocabulary is offered.
func (c *Codebase) CompletionsAt(path string, line int) []CompletionItem {
	f := c.GetFile(path)
	if f == nil {
		return nil
	}
	scope := scopeAtPoint(f.Content, line)
	words := parser.KeywordsForScope(scope)
	if len(words) == 0 {
		scope = parser.ScopeOuter
		words = parser.KeywordsForScope(scope)
	}
	items := make([]CompletionItem, 0, len(words))
	for _, w := range words {
		items = append(items, CompletionItem{
			Label:  w,
			Kind:   CompletionKindKeyword,
			Detail: scope + " scope",
		})
	}
	return items
}

// scopeAtPoint guesses the keyword scope at the start of a 1-based line by
// tracking which construct opened each brace that is still unclosed there.
// String literals and comments are stepped over so braces inside them do not
// count. The guess is textual: it works on broken files, which is exactly
// when completions are wanted.
func scopeAtPoint(content []byte, line int) string {
	var stack []string
	word := ""
	construct := ""
	cur := 1
	for i := 0; i < len(content) && cur < line; i++ {
		ch := content[i]
		if ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch == '_' {
			word += string(ch)
			continue
		}
		if word != "" {
			if _, ok := scopeForConstruct[word]; ok {
				construct = word
			}
			word = ""
		}
		switch ch {
		case '\n':
			cur++
		case '"':
			for i++; i < len(content); i++ {
				if content[i] == '\\' {
					i++
					continue
				}
				if content[i] == '"' {
					break
				}
				if content[i] == '\n' {
					cur++
				}
			}
		case '/':
			if i+1 < len(content) && content[i+1] == '/' {
				for i++; i < len(content) && content[i] != '\n'; i++ {
				}
				i--
			} else if i+1 < len(content) && content[i+1] == '*' {
				for i += 2; i+1 < len(content); i++ {
					if content[i] == '\n' {
						cur++
					}
					if content[i] == '*' && content[i+1] == '/' {
						i++
						break
					}
				}
			}
		case '{':
			stack = append(stack, scopeForConstruct[construct])
			construct = ""
		case '}':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}
	if len(stack) == 0 {
		return parser.ScopeOuter
	}
	return stack[len(stack)-1]
}

// scopeForConstruct maps construct opener words to the scope of their body.
// Words mapping to the empty string open blocks with no keyword vocabulary.
var scopeForConstruct = map[string]string{
	"service":    parser.ScopeService,
	"inputPort":  parser.ScopeInputPort,
	"outputPort": parser.ScopeInputPort,
	"interface":  parser.ScopeInterface,
	"execution":  parser.ScopeExecution,
	"main":       "",
	"init":       "",
	"define":     "",
	"type":       "",
	"constants":  "",
	"locations":  "",
	"operations": "",
	"variables":  "",
	"links":      "",
	"cset":       "",
}
