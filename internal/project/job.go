package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/DenisPitsul/PackingBlocks/internal/model"
)

// ErrUnsupportedJobFormat is returned for job files with an unknown extension.
var ErrUnsupportedJobFormat = errors.New("unsupported job file format")

// Job is a packing job: one container and the blocks to pack into it.
type Job struct {
	Name      string            `json:"name,omitempty" yaml:"name,omitempty"`
	Container model.Container   `json:"container" yaml:"container"`
	Blocks    []model.BlockSpec `json:"blocks" yaml:"blocks"`
}

// Validate checks the container and every block spec.
func (j Job) Validate() error {
	if err := j.Container.Validate(); err != nil {
		return err
	}
	_, err := j.Expand()
	return err
}

// Expand returns the job's blocks in input order, one per unit of quantity.
func (j Job) Expand() ([]model.Block, error) {
	return model.ExpandSpecs(j.Blocks)
}

// BlockCount returns the number of blocks after quantity expansion.
func (j Job) BlockCount() int {
	n := 0
	for _, s := range j.Blocks {
		if s.Quantity <= 0 {
			n++
		} else {
			n += s.Quantity
		}
	}
	return n
}

// IsJobFile reports whether path has a job file extension.
func IsJobFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc", ".yaml", ".yml":
		return true
	}
	return false
}

// LoadJob reads a job from a .json, .jsonc, .yaml or .yml file.
// JSON files may contain comments and trailing commas.
func LoadJob(path string) (Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Job{}, fmt.Errorf("reading job file: %w", err)
	}

	var job Job
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), &job); err != nil {
			return Job{}, fmt.Errorf("parsing job file %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &job); err != nil {
			return Job{}, fmt.Errorf("parsing job file %s: %w", path, err)
		}
	default:
		return Job{}, fmt.Errorf("%w: %s", ErrUnsupportedJobFormat, filepath.Ext(path))
	}

	if job.Name == "" {
		job.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := job.Validate(); err != nil {
		return Job{}, fmt.Errorf("job %q: %w", job.Name, err)
	}
	return job, nil
}

// SaveJob writes a job in the format implied by the path's extension.
// .jsonc is written as plain JSON.
func SaveJob(path string, job Job) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		data, err = json.MarshalIndent(job, "", "  ")
	case ".yaml", ".yml":
		data, err = yaml.Marshal(&job)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedJobFormat, filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("encoding job: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating job directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// SampleJob returns the demo data set: a 500x500 container and 15 blocks.
func SampleJob() Job {
	return Job{
		Name:      "sample",
		Container: model.Container{Width: 500, Height: 500},
		Blocks: []model.BlockSpec{
			model.NewBlockSpec("large", 250, 250, 1),
			model.NewBlockSpec("square", 200, 200, 1),
			model.NewBlockSpec("panel", 250, 150, 4),
			model.NewBlockSpec("strip", 250, 50, 8),
			model.NewBlockSpec("small", 50, 100, 1),
		},
	}
}
