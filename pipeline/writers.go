package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/aluiziolira/go-scrape-orders/models"
)

var summaryHeader = []string{"date", "amount", "item_count", "detail_link_index", "track_url"}

// CSVWriter writes order summaries to CSV.
type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
	mu     sync.Mutex
}

// NewCSVWriter initialises a CSV writer and writes the header row.
func NewCSVWriter(filename string) (*CSVWriter, error) {
	if err := ensureDir(filename); err != nil {
		return nil, err
	}

	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("create csv file: %w", err)
	}

	writer := csv.NewWriter(f)
	if err := writer.Write(summaryHeader); err != nil {
		f.Close()
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		f.Close()
		return nil, fmt.Errorf("flush csv header: %w", err)
	}

	return &CSVWriter{
		file:   f,
		writer: writer,
	}, nil
}

// Write appends orders to the CSV output.
func (cw *CSVWriter) Write(orders []models.OrderSummary) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	for _, order := range orders {
		record := []string{
			order.Date,
			strconv.FormatFloat(order.Amount, 'f', 2, 64),
			strconv.Itoa(order.ItemCount),
			strconv.Itoa(order.DetailLinkIndex),
			models.Value(order.TrackURL),
		}
		if err := cw.writer.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}
	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		return fmt.Errorf("flush csv records: %w", err)
	}
	return nil
}

// Close flushes and closes the file handle.
func (cw *CSVWriter) Close() error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		return fmt.Errorf("flush csv writer: %w", err)
	}
	return cw.file.Close()
}

// Validate ensures the file has content.
func (cw *CSVWriter) Validate() error {
	info, err := cw.file.Stat()
	if err != nil {
		return fmt.Errorf("stat csv file: %w", err)
	}
	if info.Size() <= 0 {
		return fmt.Errorf("csv file is empty")
	}
	return nil
}

// JSONWriter keeps the file a valid JSON array of every order written so far.
type JSONWriter struct {
	file   *os.File
	orders []models.OrderSummary
	mu     sync.Mutex
}

// NewJSONWriter initialises the JSON writer with an empty array.
func NewJSONWriter(filename string) (*JSONWriter, error) {
	if err := ensureDir(filename); err != nil {
		return nil, err
	}

	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("create json file: %w", err)
	}

	jw := &JSONWriter{file: f, orders: []models.OrderSummary{}}
	if err := jw.rewrite(); err != nil {
		f.Close()
		return nil, err
	}
	return jw, nil
}

// Write appends orders and rewrites the array.
func (jw *JSONWriter) Write(orders []models.OrderSummary) error {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	jw.orders = append(jw.orders, orders...)
	return jw.rewrite()
}

func (jw *JSONWriter) rewrite() error {
	if err := jw.file.Truncate(0); err != nil {
		return fmt.Errorf("truncate json file: %w", err)
	}
	if _, err := jw.file.Seek(0, 0); err != nil {
		return fmt.Errorf("rewind json file: %w", err)
	}
	encoder := json.NewEncoder(jw.file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(jw.orders); err != nil {
		return fmt.Errorf("encode orders: %w", err)
	}
	return nil
}

// Close closes the underlying file.
func (jw *JSONWriter) Close() error {
	jw.mu.Lock()
	defer jw.mu.Unlock()
	return jw.file.Close()
}

// Validate ensures the JSON file has data.
func (jw *JSONWriter) Validate() error {
	info, err := jw.file.Stat()
	if err != nil {
		return fmt.Errorf("stat json file: %w", err)
	}
	if info.Size() <= 0 {
		return fmt.Errorf("json file is empty")
	}
	return nil
}

func ensureDir(filename string) error {
	dir := filepath.Dir(filename)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}
	return nil
}
