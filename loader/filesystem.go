package loader

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"
)

// FileSystem is where series files are read from and charts are written
// to: the local disk, memory in tests, or a read-only HTTP source.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte) error
	ListFiles(dir string) ([]string, error)
	Exists(path string) bool
}

// CompositeFS routes each path to the file system mounted on its longest
// matching prefix, falling back to a default.
type CompositeFS struct {
	mu          sync.RWMutex
	filesystems map[string]FileSystem
	fallback    FileSystem
}

func NewCompositeFS() *CompositeFS {
	return &CompositeFS{
		filesystems: make(map[string]FileSystem),
	}
}

func (c *CompositeFS) SetFallback(fs FileSystem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fallback = fs
}

// Mount routes every path starting with prefix (such as "https://") to fs.
func (c *CompositeFS) Mount(prefix string, fs FileSystem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filesystems[prefix] = fs
}

func (c *CompositeFS) findFS(p string) (FileSystem, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var bestMatch string
	var bestFS FileSystem
	for prefix, fs := range c.filesystems {
		if strings.HasPrefix(p, prefix) && len(prefix) > len(bestMatch) {
			bestMatch = prefix
			bestFS = fs
		}
	}
	if bestFS != nil {
		return bestFS, nil
	}
	if c.fallback != nil {
		return c.fallback, nil
	}
	return nil, fmt.Errorf("no filesystem mounted for path: %s", p)
}

func (c *CompositeFS) ReadFile(p string) ([]byte, error) {
	fs, err := c.findFS(p)
	if err != nil {
		return nil, err
	}
	return fs.ReadFile(p)
}

func (c *CompositeFS) WriteFile(p string, data []byte) error {
	fs, err := c.findFS(p)
	if err != nil {
		return err
	}
	return fs.WriteFile(p, data)
}

func (c *CompositeFS) ListFiles(dir string) ([]string, error) {
	fs, err := c.findFS(dir)
	if err != nil {
		return nil, err
	}
	return fs.ListFiles(dir)
}

func (c *CompositeFS) Exists(p string) bool {
	fs, err := c.findFS(p)
	if err != nil {
		return false
	}
	return fs.Exists(p)
}

// LocalFS reads and writes the local disk. Relative paths are resolved
// against basePath.
type LocalFS struct {
	basePath string
}

func NewLocalFS(basePath string) *LocalFS {
	return &LocalFS{basePath: basePath}
}

func (l *LocalFS) resolvePath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(l.basePath, p)
}

func (l *LocalFS) ReadFile(p string) ([]byte, error) {
	return os.ReadFile(l.resolvePath(p))
}

func (l *LocalFS) WriteFile(p string, data []byte) error {
	fullPath := l.resolvePath(p)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(fullPath, data, 0644)
}

// ListFiles returns the regular files directly inside dir, sorted.
func (l *LocalFS) ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(l.resolvePath(dir))
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

func (l *LocalFS) Exists(p string) bool {
	_, err := os.Stat(l.resolvePath(p))
	return err == nil
}

// MemoryFS is an in-memory file system keyed by slash separated paths.
type MemoryFS struct {
	mu    sync.RWMutex
	files map[string][]byte
}

func NewMemoryFS() *MemoryFS {
	return &MemoryFS{
		files: make(map[string][]byte),
	}
}

func (m *MemoryFS) ReadFile(p string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, exists := m.files[p]
	if !exists {
		return nil, fmt.Errorf("file not found: %s", p)
	}
	return append([]byte(nil), data...), nil
}

func (m *MemoryFS) WriteFile(p string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.files[p] = append([]byte(nil), data...)
	return nil
}

// ListFiles returns the files directly inside dir, sorted.
func (m *MemoryFS) ListFiles(dir string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	dir = path.Clean(dir)
	var files []string
	for p := range m.files {
		if path.Dir(p) == dir {
			files = append(files, p)
		}
	}
	slices.Sort(files)
	return files, nil
}

func (m *MemoryFS) Exists(p string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, exists := m.files[p]
	return exists
}

// PreloadFiles adds files to the memory filesystem
func (m *MemoryFS) PreloadFiles(files map[string][]byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for p, content := range files {
		m.files[p] = append([]byte(nil), content...)
	}
}

// HTTPFileSystem fetches series files over HTTP. It is read-only and does
// not cache, so a watched URL is fetched fresh each time.
type HTTPFileSystem struct {
	baseURL string
	client  *http.Client
}

func NewHTTPFileSystem(baseURL string) *HTTPFileSystem {
	return &HTTPFileSystem{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (h *HTTPFileSystem) url(p string) string {
	if strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") {
		return p
	}
	return h.baseURL + "/" + strings.TrimPrefix(p, "/")
}

func (h *HTTPFileSystem) ReadFile(p string) ([]byte, error) {
	url := h.url(p)
	resp, err := h.client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: HTTP %s", url, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return data, nil
}

func (h *HTTPFileSystem) WriteFile(p string, data []byte) error {
	return fmt.Errorf("HTTP filesystem is read-only")
}

func (h *HTTPFileSystem) ListFiles(dir string) ([]string, error) {
	return nil, fmt.Errorf("directory listing not supported for HTTP filesystem")
}

func (h *HTTPFileSystem) Exists(p string) bool {
	resp, err := h.client.Head(h.url(p))
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
