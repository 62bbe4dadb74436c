// Package report writes extracted products as a pipe-delimited text file.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/law-makers/pricecrawl/pkg/models"
)

const (
	// Header is the first line of every report
	Header = "timestamp_iso | site_host | product_name | status | price_value | currency | product_url | raw_price_text"

	// TimestampLayout is ISO 8601 with microseconds, without zone (always UTC)
	TimestampLayout = "2006-01-02T15:04:05.000000"

	fileLayout = "20060102_150405"
	separator  = " | "
	missing    = "N/A"
)

var fieldCleaner = strings.NewReplacer("|", " ", "\r\n", " ", "\n", " ", "\r", " ")

// Writer appends one line per product. Lines are written straight through,
// so a crash keeps everything written so far.
type Writer struct {
	out   io.Writer
	path  string
	now   func() time.Time
	mu    sync.Mutex
	lines int
}

// Create makes outDir if needed, opens <outDir>/<YYYYmmdd_HHMMSS>_scrape.txt
// named after started and writes the header
func Create(outDir string, started time.Time) (*Writer, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(outDir, started.Format(fileLayout)+"_scrape.txt")
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	w, err := NewWriter(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	w.path = path
	return w, nil
}

// NewWriter writes the header to out and returns a Writer over it
func NewWriter(out io.Writer) (*Writer, error) {
	if _, err := io.WriteString(out, Header+"\n"); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	return &Writer{out: out, now: time.Now}, nil
}

// Path returns the file path, or "" for writers not created by Create
func (w *Writer) Path() string {
	return w.path
}

// Lines returns the number of product lines written
func (w *Writer) Lines() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lines
}

// WriteProduct writes p as found on pageURL for host
func (w *Writer) WriteProduct(host string, p models.Product, pageURL string) error {
	line := FormatLine(w.now(), host, p, pageURL)

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := io.WriteString(w.out, line+"\n"); err != nil {
		return fmt.Errorf("failed to write product line: %w", err)
	}
	w.lines++
	return nil
}

// Close closes the underlying file, if any
func (w *Writer) Close() error {
	if c, ok := w.out.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// FormatLine renders one report line. Missing values become "N/A", an
// empty host becomes "unknown" and a product without URL gets pageURL.
func FormatLine(ts time.Time, host string, p models.Product, pageURL string) string {
	if host == "" {
		host = "unknown"
	}
	status := string(p.Status)
	if status == "" {
		status = string(models.StatusUnknown)
	}
	value := missing
	if p.PriceValue != nil {
		value = strconv.FormatFloat(*p.PriceValue, 'f', 2, 64)
	}
	url := p.URL
	if url == "" {
		url = pageURL
	}

	fields := []string{
		ts.UTC().Format(TimestampLayout),
		host,
		orMissing(p.Name),
		status,
		value,
		orMissing(p.Currency),
		url,
		orMissing(p.RawPriceText),
	}
	for i, f := range fields {
		fields[i] = fieldCleaner.Replace(f)
	}
	return strings.Join(fields, separator)
}

func orMissing(s string) string {
	if s == "" {
		return missing
	}
	return s
}
