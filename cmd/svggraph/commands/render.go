package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/panyam/svggraph/loader"
	"github.com/panyam/svggraph/viz"
	"github.com/spf13/cobra"
)

// renderOptions mirrors the render flags.
type renderOptions struct {
	output string
	format string

	width, height float64
	minValue      string
	locale        string
	timezone      string
	responsive    bool
	noAxes        bool

	autoFill         bool
	autoFillInterval int64
	autoFillValue    float64
	autoFillStart    string
	autoFillEnd      string

	watch    bool
	debounce time.Duration
}

func newRenderCmd() *cobra.Command {
	o := &renderOptions{debounce: 100 * time.Millisecond}
	cmd := &cobra.Command{
		Use:   "render <file|dir|url>...",
		Short: "Render series files to an SVG chart",
		Long: `Render reads every series in the given files and draws them on one chart.

Files are parsed by extension (.json, .csv, .tsv, .xlsx); a directory
contributes all of its series files and "-" reads standard input in the
format given by --format. CSV, TSV and XLSX rows are series,time,value[,color]
with an optional header naming the columns.

Flag defaults can be set with SVGGRAPH_* environment variables or a .env file.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.config()
			if err != nil {
				return err
			}
			l := loader.NewLoader(newFileSystem(), slog.Default())
			if err := renderOnce(cmd, l, o, cfg, args); err != nil {
				return err
			}
			if !o.watch {
				return nil
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return watchAndRender(ctx, cmd, l, o, cfg, args)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&o.output, "output", "o", envString("SVGGRAPH_OUTPUT", ""), "Output SVG file (default: standard output)")
	f.StringVar(&o.format, "format", envString("SVGGRAPH_FORMAT", "json"), "Format of standard input: json, csv, tsv or xlsx")
	f.Float64Var(&o.width, "width", envFloat("SVGGRAPH_WIDTH", 796), "Chart width in pixels")
	f.Float64Var(&o.height, "height", envFloat("SVGGRAPH_HEIGHT", 200), "Chart height in pixels")
	f.StringVar(&o.minValue, "min-value", envString("SVGGRAPH_MIN_VALUE", ""), "Lower bound seed of the value axis, e.g. 0")
	f.StringVar(&o.locale, "locale", envString("SVGGRAPH_LOCALE", "en"), "Locale of value labels")
	f.StringVar(&o.timezone, "timezone", envString("SVGGRAPH_TIMEZONE", "UTC"), "Time zone of time labels, e.g. Europe/Paris")
	f.BoolVar(&o.responsive, "responsive", envBool("SVGGRAPH_RESPONSIVE", false), "Scale with the container instead of a fixed size")
	f.BoolVar(&o.noAxes, "no-axes", envBool("SVGGRAPH_NO_AXES", false), "Omit tick labels and markers")
	f.BoolVar(&o.autoFill, "auto-fill", envBool("SVGGRAPH_AUTO_FILL", false), "Resample every series on a fixed time grid")
	f.Int64Var(&o.autoFillInterval, "auto-fill-interval", envInt("SVGGRAPH_AUTO_FILL_INTERVAL", 0), "Grid step in milliseconds")
	f.Float64Var(&o.autoFillValue, "auto-fill-value", envFloat("SVGGRAPH_AUTO_FILL_VALUE", 0), "Value of grid slots without data")
	f.StringVar(&o.autoFillStart, "auto-fill-start", envString("SVGGRAPH_AUTO_FILL_START", ""), "First grid time (ms or date)")
	f.StringVar(&o.autoFillEnd, "auto-fill-end", envString("SVGGRAPH_AUTO_FILL_END", ""), "Grid end time, exclusive (ms or date)")
	f.BoolVarP(&o.watch, "watch", "w", false, "Re-render whenever a local input changes")
	return cmd
}

// config turns the flags into a viz.Config.
func (o *renderOptions) config() (viz.Config, error) {
	cfg := viz.Config{
		Width:            o.width,
		Height:           o.height,
		Locale:           o.locale,
		Responsive:       o.responsive,
		AutoFill:         o.autoFill,
		AutoFillInterval: o.autoFillInterval,
		AutoFillValue:    o.autoFillValue,
		Logger:           slog.Default(),
	}
	if o.noAxes {
		off := false
		cfg.Axes = &off
	}
	if o.minValue != "" {
		v, err := strconv.ParseFloat(o.minValue, 64)
		if err != nil {
			return cfg, fmt.Errorf("--min-value %q: %w", o.minValue, err)
		}
		cfg.MinValue = &v
	}
	if o.timezone != "" {
		loc, err := time.LoadLocation(o.timezone)
		if err != nil {
			return cfg, fmt.Errorf("--timezone: %w", err)
		}
		cfg.Location = loc
	}
	for flag, in := range map[string]struct {
		value string
		dst   **viz.Instant
	}{
		"--auto-fill-start": {o.autoFillStart, &cfg.AutoFillStartTime},
		"--auto-fill-end":   {o.autoFillEnd, &cfg.AutoFillEndTime},
	} {
		if in.value == "" {
			continue
		}
		at, err := viz.ParseInstant(in.value)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", flag, err)
		}
		*in.dst = &at
	}
	return cfg, cfg.WithDefaults().Validate()
}

// newFileSystem reads local paths and http(s) URLs; charts are only ever
// written locally.
func newFileSystem() loader.FileSystem {
	fs := loader.NewCompositeFS()
	fs.SetFallback(loader.NewLocalFS("."))
	fs.Mount("http://", loader.NewHTTPFileSystem(""))
	fs.Mount("https://", loader.NewHTTPFileSystem(""))
	return fs
}

func loadInputs(cmd *cobra.Command, l *loader.Loader, o *renderOptions, inputs []string) ([]viz.RawSeries, error) {
	var series []viz.RawSeries
	for _, in := range inputs {
		if in != "-" {
			s, err := l.LoadFiles(in)
			if err != nil {
				return nil, err
			}
			series = append(series, s...)
			continue
		}
		p, err := l.ParserFor("stdin." + o.format)
		if err != nil {
			return nil, err
		}
		s, err := p.Parse(cmd.InOrStdin(), "stdin")
		if err != nil {
			return nil, err
		}
		series = append(series, s...)
	}
	return series, nil
}

func renderOnce(cmd *cobra.Command, l *loader.Loader, o *renderOptions, cfg viz.Config, inputs []string) error {
	series, err := loadInputs(cmd, l, o, inputs)
	if err != nil {
		return err
	}
	out, err := viz.RenderSVG(series, cfg)
	if err != nil {
		return err
	}
	if o.output == "" || o.output == "-" {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
		return err
	}
	if err := l.Save(o.output, []byte(out)); err != nil {
		return err
	}
	slog.Info("rendered chart", "output", o.output, "series", len(series))
	return nil
}

// watchAndRender re-renders after local inputs change, until ctx is done.
// Bursts of events within o.debounce trigger a single render; a failed
// render is logged and the watch goes on.
func watchAndRender(ctx context.Context, cmd *cobra.Command, l *loader.Loader, o *renderOptions, cfg viz.Config, inputs []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed creating file watcher: %w", err)
	}
	defer watcher.Close()

	// Files are watched through their parent directory so that editors
	// which save by renaming a temp file over the input keep being seen.
	files := map[string]bool{}
	dirs := map[string]bool{}
	for _, in := range inputs {
		if in == "-" || strings.Contains(in, "://") {
			continue
		}
		abs, err := filepath.Abs(in)
		if err != nil {
			return fmt.Errorf("watching %s: %w", in, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return fmt.Errorf("watching %s: %w", in, err)
		}
		dir := abs
		if info.IsDir() {
			dirs[abs] = true
		} else {
			files[abs] = true
			dir = filepath.Dir(abs)
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", in, err)
		}
	}
	if len(files)+len(dirs) == 0 {
		return errors.New("--watch needs at least one local input")
	}
	var output string
	if o.output != "" && o.output != "-" {
		output, _ = filepath.Abs(o.output)
	}
	relevant := func(name string) bool {
		abs, err := filepath.Abs(name)
		if err != nil || abs == output {
			return false
		}
		return files[abs] || dirs[filepath.Dir(abs)]
	}
	slog.Info("watching for changes", "inputs", len(files)+len(dirs))

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(ev.Name) {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				slog.Debug("input changed", "path", ev.Name, "op", ev.Op.String())
				timer.Reset(o.debounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch error", "error", err)
		case <-timer.C:
			if err := renderOnce(cmd, l, o, cfg, inputs); err != nil {
				slog.Error("render failed", "error", err)
			}
		}
	}
}
