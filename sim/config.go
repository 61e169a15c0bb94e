package sim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config describes the resource topology the recorded workload is
// replayed against: worker counts plus the spare admission slots that
// determine each queue's capacity pool.
type Config struct {
	BucketThreads int `yaml:"bucket_threads"` // fine bucketing workers
	GPUs          int `yaml:"gpus"`           // device workers, one fine queue each
	BucketSpare   int `yaml:"bucket_spare"`   // extra fine queue admission slots
	MesherSpare   int `yaml:"mesher_spare"`   // extra mesh queue admission slots per GPU
	CoarseSpare   int `yaml:"coarse_spare"`   // extra coarse queue admission slots
}

// DefaultConfig returns the topology the pipeline originally ran with.
func DefaultConfig() Config {
	return Config{
		BucketThreads: 2,
		GPUs:          1,
		BucketSpare:   6,
		MesherSpare:   8,
		CoarseSpare:   1,
	}
}

// LoadConfig reads a YAML topology file. Fields absent from the file keep
// their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading topology config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing topology config: %w", err)
	}
	return cfg, nil
}

// Validate rejects topologies the pipeline cannot be wired for. At least
// one fine worker and one GPU are required: a fine worker with no fine
// queues to forward into cannot make progress.
func (c Config) Validate() error {
	if c.BucketThreads < 1 {
		return fmt.Errorf("bucket_threads must be >= 1, got %d", c.BucketThreads)
	}
	if c.GPUs < 1 {
		return fmt.Errorf("gpus must be >= 1, got %d", c.GPUs)
	}
	if c.BucketSpare < 0 {
		return fmt.Errorf("bucket_spare must be >= 0, got %d", c.BucketSpare)
	}
	if c.MesherSpare < 0 {
		return fmt.Errorf("mesher_spare must be >= 0, got %d", c.MesherSpare)
	}
	if c.CoarseSpare < 0 {
		return fmt.Errorf("coarse_spare must be >= 0, got %d", c.CoarseSpare)
	}
	return nil
}

// Derived admission pool sizes.

// RootQueuePool is the pool feeding the coarse worker; it only ever holds
// the synthetic root item.
func (c Config) RootQueuePool() int {
	return 1
}

// CoarseQueuePool sizes the coarse-to-fine hand-off pool.
func (c Config) CoarseQueuePool() int {
	return c.BucketThreads + c.CoarseSpare
}

// FineQueuePool sizes each per-GPU fine-to-device hand-off pool.
func (c Config) FineQueuePool() int {
	return 1 + max(c.BucketSpare, c.BucketThreads)
}

// MeshQueuePool sizes the device-to-mesher hand-off pool.
func (c Config) MeshQueuePool() int {
	return 1 + c.GPUs*c.MesherSpare
}
