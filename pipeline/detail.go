package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aluiziolira/go-scrape-orders/models"
)

// DetailFilename names the detail file for a short date, e.g.
// "February 22" -> dir/order_February_22.json.
func DetailFilename(dir, date string) string {
	name := strings.Join(strings.Fields(date), "_")
	return filepath.Join(dir, "order_"+name+".json")
}

// WriteDetail writes detail as an indented JSON object.
func WriteDetail(path string, detail *models.OrderDetail) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	data, err := json.MarshalIndent(detail, "", "  ")
	if err != nil {
		return fmt.Errorf("encode order detail: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write order detail: %w", err)
	}
	return nil
}

// ReadDetail loads a detail file written by WriteDetail.
func ReadDetail(path string) (*models.OrderDetail, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read order detail: %w", err)
	}
	var detail models.OrderDetail
	if err := json.Unmarshal(data, &detail); err != nil {
		return nil, fmt.Errorf("decode order detail %s: %w", path, err)
	}
	return &detail, nil
}
