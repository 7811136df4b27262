package request

import (
	"encoding/json"
	"fmt"
	"os"
)

// FileSource reads deployment requests from a JSON config file.
type FileSource struct {
	path string
}

// NewFileSource creates a Source backed by the JSON file at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Deployment reads and validates a single-bytecode deployment request.
func (s *FileSource) Deployment() (*Deployment, error) {
	var req Deployment
	if err := s.read(&req); err != nil {
		return nil, err
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	return &req, nil
}

// HubSpokeDeployment reads and validates a hub-and-spoke deployment request.
func (s *FileSource) HubSpokeDeployment() (*HubSpokeDeployment, error) {
	var req HubSpokeDeployment
	if err := s.read(&req); err != nil {
		return nil, err
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	return &req, nil
}

func (s *FileSource) read(target any) error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", s.path, err)
	}

	return nil
}
