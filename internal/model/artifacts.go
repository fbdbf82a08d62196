package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/donaldgifford/pricing-engine/pkg/pricing"
)

// ArtifactStore persists one trained elasticity model per product under a
// storage root. Writes go through a temp file and rename so a concurrent
// recommendation pass never observes a partially written artifact.
type ArtifactStore struct {
	dir string
}

// NewArtifactStore creates an ArtifactStore rooted at dir.
func NewArtifactStore(dir string) *ArtifactStore {
	return &ArtifactStore{dir: dir}
}

// Dir returns the storage root.
func (s *ArtifactStore) Dir() string {
	return s.dir
}

func (s *ArtifactStore) path(productID string) string {
	return filepath.Join(s.dir, productID+".json")
}

// Save atomically writes the model artifact for its product, overwriting
// any previous artifact.
func (s *ArtifactStore) Save(m *pricing.ElasticityModel) error {
	if m.ProductID == "" {
		return errors.New("saving artifact: empty product id")
	}

	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return fmt.Errorf("creating model dir: %w", err)
	}

	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling artifact for %s: %w", m.ProductID, err)
	}

	tmp, err := os.CreateTemp(s.dir, m.ProductID+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp artifact for %s: %w", m.ProductID, err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing artifact for %s: %w", m.ProductID, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing artifact for %s: %w", m.ProductID, err)
	}

	if err := os.Rename(tmp.Name(), s.path(m.ProductID)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("publishing artifact for %s: %w", m.ProductID, err)
	}

	return nil
}

// Load reads the persisted model for a product. A missing artifact returns
// (nil, nil): absence is the capability check that keeps a product on the
// fallback estimator.
func (s *ArtifactStore) Load(productID string) (*pricing.ElasticityModel, error) {
	data, err := os.ReadFile(s.path(productID))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading artifact for %s: %w", productID, err)
	}

	m := &pricing.ElasticityModel{}
	if err := json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("parsing artifact for %s: %w", productID, err)
	}
	return m, nil
}
