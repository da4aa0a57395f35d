package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Deployment is the artifact written when the contracts are deployed
// and read by later commands to locate them. It is overwritten per
// deploy, never mutated by the runtime.
type Deployment struct {
	Network   string            `json:"network"`
	Deployer  string            `json:"deployer"`
	Contracts map[string]string `json:"contracts"`
	UpdatedAt string            `json:"updated_at"`
}

// Contract names used in the deployment artifact.
const (
	ContractToken      = "CarbonToken"
	ContractTrading    = "CarbonTrading"
	ContractQuoteToken = "QuoteToken"
	ContractPair       = "Pair"
)

// ArtifactStore persists the deployment artifact to disk.
type ArtifactStore struct {
	path string
}

func NewArtifactStore(path string) *ArtifactStore {
	return &ArtifactStore{path: path}
}

// Load reads the artifact. A missing file is not an error; the second
// return value reports presence.
func (s *ArtifactStore) Load() (Deployment, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Deployment{}, false, nil
		}
		return Deployment{}, false, fmt.Errorf("read artifact: %w", err)
	}

	var dep Deployment
	if err := json.Unmarshal(data, &dep); err != nil {
		return Deployment{}, false, fmt.Errorf("parse artifact: %w", err)
	}
	return dep, true, nil
}

// Save writes the artifact atomically via a temp file and rename.
func (s *ArtifactStore) Save(dep Deployment) error {
	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create artifact dir: %w", err)
		}
	}

	dep.UpdatedAt = time.Now().UTC().Format(time.RFC3339Nano)
	data, err := json.MarshalIndent(dep, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal artifact: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write artifact tmp: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("rename artifact: %w", err)
	}
	return nil
}
