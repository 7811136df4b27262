package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Record is the persisted summary of one deployment run, written for
// operators and scripted consumers.
type Record struct {
	Contract        string   `json:"contract"`
	HubContract     string   `json:"hubContract,omitempty"`
	SpokeContract   string   `json:"spokeContract,omitempty"`
	Chains          []uint64 `json:"chains"`
	Salt            string   `json:"salt"`
	FactoryContract string   `json:"factoryContract"`
	TxHash          string   `json:"txHash"`
	DeployedAddress string   `json:"deployedAddress"`
	ComputedAddress string   `json:"computedAddress"`
	Matched         bool     `json:"matched"`
	Timestamp       string   `json:"timestamp"`
}

// Writer persists deployment records under a directory.
type Writer struct {
	outputDir string
}

// NewWriter creates a record writer rooted at outputDir.
func NewWriter(outputDir string) *Writer {
	return &Writer{outputDir: outputDir}
}

// Write persists the record as <salt>-<contract>.json and returns the path.
func (w *Writer) Write(record Record) (string, error) {
	if record.Timestamp == "" {
		record.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	name := record.Contract
	if name == "" {
		name = record.HubContract
	}
	path := filepath.Join(w.outputDir, fmt.Sprintf("%s-%s.json", record.Salt, name))

	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	content, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal deployment record: %w", err)
	}

	if err := os.WriteFile(path, append(content, '\n'), 0644); err != nil {
		return "", fmt.Errorf("failed to write deployment record: %w", err)
	}

	return path, nil
}
