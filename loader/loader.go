package loader

import (
	"bytes"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"sync"

	"github.com/panyam/svggraph/viz"
)

// Loader reads series files through a FileSystem, choosing the parser by
// file extension.
type Loader struct {
	fs     FileSystem
	logger *slog.Logger

	mutex   sync.RWMutex
	parsers map[string]Parser
}

// NewLoader creates a loader for .json, .csv and .xlsx files. A nil logger
// discards debug output.
func NewLoader(fs FileSystem, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	l := &Loader{
		fs:      fs,
		logger:  logger,
		parsers: make(map[string]Parser),
	}
	l.Register(".json", JSONParser{})
	l.Register(".csv", CSVParser{})
	l.Register(".tsv", CSVParser{Comma: '\t'})
	l.Register(".xlsx", XLSXParser{})
	return l
}

// Register adds or replaces the parser for files ending in ext.
func (l *Loader) Register(ext string, p Parser) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.parsers[strings.ToLower(ext)] = p
}

// ParserFor returns the parser registered for the extension of filePath.
func (l *Loader) ParserFor(filePath string) (Parser, error) {
	ext := strings.ToLower(path.Ext(stripQuery(filePath)))
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	p, ok := l.parsers[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filePath)
	}
	return p, nil
}

// Supported reports whether filePath has a registered parser.
func (l *Loader) Supported(filePath string) bool {
	_, err := l.ParserFor(filePath)
	return err == nil
}

// Load reads and parses one file.
func (l *Loader) Load(filePath string) ([]viz.RawSeries, error) {
	p, err := l.ParserFor(filePath)
	if err != nil {
		return nil, err
	}
	data, err := l.fs.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read '%s': %w", filePath, err)
	}
	series, err := p.Parse(bytes.NewReader(data), filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse '%s': %w", filePath, err)
	}
	l.logger.Debug("loaded series", "path", filePath, "series", len(series))
	return series, nil
}

// LoadFiles loads every file and concatenates their series in order. A
// directory contributes its supported files in name order.
func (l *Loader) LoadFiles(paths ...string) ([]viz.RawSeries, error) {
	var out []viz.RawSeries
	for _, p := range paths {
		files := []string{p}
		if !l.Supported(p) {
			listed, err := l.fs.ListFiles(p)
			if err != nil {
				return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, p)
			}
			files = files[:0]
			for _, f := range listed {
				if l.Supported(f) {
					files = append(files, f)
				}
			}
			if len(files) == 0 {
				return nil, fmt.Errorf("no series files in '%s'", p)
			}
		}
		for _, f := range files {
			series, err := l.Load(f)
			if err != nil {
				return nil, err
			}
			out = append(out, series...)
		}
	}
	return out, nil
}

// Save writes a rendered chart through the loader's FileSystem.
func (l *Loader) Save(filePath string, data []byte) error {
	if err := l.fs.WriteFile(filePath, data); err != nil {
		return fmt.Errorf("failed to write '%s': %w", filePath, err)
	}
	l.logger.Debug("wrote chart", "path", filePath, "bytes", len(data))
	return nil
}

func stripQuery(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 && strings.Contains(p, "://") {
		return p[:i]
	}
	return p
}
