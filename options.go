package tablexport

import (
	"fmt"
	"log/slog"
	"strings"
)

// Format selects the output file format.
type Format int

const (
	FormatCSV Format = iota
	FormatXLSX
)

func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatXLSX:
		return "xlsx"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

func (f Format) extension() string { return f.String() }

// ParseFormat converts a format name ("csv", "xlsx") to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "xlsx":
		return FormatXLSX, nil
	default:
		return 0, fmt.Errorf("unknown format %q (supported: csv, xlsx)", s)
	}
}

const (
	defaultBatchSize = 1000
	defaultChunkSize = 5000
)

// Options holds the configuration of a single export call.
type Options struct {
	filename       string
	format         Format
	excludeHidden  bool
	withBOM        bool
	progress       ProgressSink
	strictProgress bool
	freezeRows     int
	freezeCols     int
	freezeSet      bool
	batchSize      int
	chunkSize      int
	sheetName      string
	indentColumn   string
	childrenKey    string
	autoWidth      bool
	scheduler      Scheduler
	logger         *slog.Logger
}

func defaultOptions() *Options {
	return &Options{
		format:      FormatCSV,
		batchSize:   defaultBatchSize,
		chunkSize:   defaultChunkSize,
		childrenKey: DefaultChildrenKey,
		scheduler:   goschedScheduler{},
		logger:      slog.Default(),
	}
}

func applyOptions(opts []Option) *Options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Options) validate() error {
	if o.format != FormatCSV && o.format != FormatXLSX {
		return fmt.Errorf("unknown format %v", o.format)
	}
	if o.batchSize <= 0 {
		return fmt.Errorf("batch size must be greater than zero")
	}
	if o.chunkSize <= 0 {
		return fmt.Errorf("chunk size must be greater than zero")
	}
	if o.freezeSet && (o.freezeRows < 0 || o.freezeCols < 0) {
		return fmt.Errorf("freeze pane offsets must not be negative")
	}
	return nil
}

func (o *Options) reporter() *reporter {
	return &reporter{sink: o.progress, strict: o.strictProgress, logger: o.logger}
}

// Option configures an export call.
type Option func(*Options)

// WithFilename sets the output filename for file-based exports. The format
// extension is appended when missing.
func WithFilename(name string) Option {
	return func(o *Options) { o.filename = name }
}

// WithFormat sets the output format. The default is CSV.
func WithFormat(f Format) Option {
	return func(o *Options) { o.format = f }
}

// WithExcludeHidden drops hidden rows and cells from the output.
func WithExcludeHidden(exclude bool) Option {
	return func(o *Options) { o.excludeHidden = exclude }
}

// WithBOM prepends a UTF-8 byte order mark to CSV output.
func WithBOM(withBOM bool) Option {
	return func(o *Options) { o.withBOM = withBOM }
}

// WithProgress sets the sink that receives progress percentages.
func WithProgress(sink ProgressSink) Option {
	return func(o *Options) { o.progress = sink }
}

// WithProgressFunc sets a plain function as the progress sink.
func WithProgressFunc(fn func(percent float64) error) Option {
	return func(o *Options) { o.progress = ProgressFunc(fn) }
}

// WithStrictProgress aborts the export when the progress sink returns an
// error. By default sink failures are logged and the export continues.
func WithStrictProgress(strict bool) Option {
	return func(o *Options) { o.strictProgress = strict }
}

// WithFreezePanes overrides the automatic header freeze with an explicit
// number of frozen rows and columns. XLSX only.
func WithFreezePanes(rows, cols int) Option {
	return func(o *Options) {
		o.freezeRows = rows
		o.freezeCols = cols
		o.freezeSet = true
	}
}

// WithBatchSize sets the number of rows processed between yields in batch
// exports. The default is 1000.
func WithBatchSize(n int) Option {
	return func(o *Options) { o.batchSize = n }
}

// WithChunkSize sets the number of rows per chunk in chunked CSV exports.
// The default is 5000.
func WithChunkSize(n int) Option {
	return func(o *Options) { o.chunkSize = n }
}

// WithSheetName sets the worksheet name for single-sheet XLSX exports.
func WithSheetName(name string) Option {
	return func(o *Options) { o.sheetName = name }
}

// WithIndentColumn designates the leaf column key whose text is indented by
// nesting depth in tree exports.
func WithIndentColumn(key string) Option {
	return func(o *Options) { o.indentColumn = key }
}

// WithChildrenKey sets the record field that holds child records in tree
// exports. The default is "children".
func WithChildrenKey(key string) Option {
	return func(o *Options) { o.childrenKey = key }
}

// WithAutoColumnWidths sizes XLSX columns to fit their content.
func WithAutoColumnWidths(auto bool) Option {
	return func(o *Options) { o.autoWidth = auto }
}

// WithScheduler sets the scheduler used to yield between batches and chunks.
func WithScheduler(s Scheduler) Option {
	return func(o *Options) {
		if s != nil {
			o.scheduler = s
		}
	}
}

// WithLogger sets the logger used for lenient progress-failure warnings.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.logger = l
		}
	}
}
