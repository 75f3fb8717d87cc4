// Package manifest reads batch conversion manifests.
//
// A manifest lists several conversions that share defaults:
//
//	defaults:
//	  tileSize: [64, 64]
//	  fps: 12
//	jobs:
//	  - input: clips/walk.mp4
//	    output: sheets/walk.png
//	  - input: clips/jump.mp4
//	    output: sheets/jump.png
//	    maxFrames: 24
//	    script:
//	      id: j_jump
//	      output: sheets/jump.lua
//
// Relative paths are resolved against the manifest's directory. A script
// without an output is written next to the job's sheet, with a .lua
// extension. A script in the defaults may only set the id, since each job
// needs its own script file. Use [Schema] to obtain a JSON Schema for editor
// validation.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/google/jsonschema-go/jsonschema"
)

// Sentinel errors returned when loading manifests.
var (
	ErrInvalidManifest = errors.New("invalid manifest")
	ErrReadManifest    = errors.New("read manifest")
)

// Manifest is a batch of conversions.
type Manifest struct {
	Defaults Job   `json:"defaults,omitzero" yaml:"defaults,omitempty" jsonschema:"settings inherited by every job"`
	Jobs     []Job `json:"jobs"              yaml:"jobs"               jsonschema:"conversions to run, in order"`
}

// Job is one video to sprite-sheet conversion. Zero-valued fields inherit
// from [Manifest.Defaults].
type Job struct {
	Script    *Script `json:"script,omitempty"    yaml:"script,omitempty"    jsonschema:"animation script to emit alongside the sheet"`
	ZeroBased *bool   `json:"zeroBased,omitempty" yaml:"zeroBased,omitempty" jsonschema:"report the last frame position zero-based"`
	Input     string  `json:"input,omitempty"     yaml:"input,omitempty"     jsonschema:"video file, GIF, or directory of PNG frames"`
	Output    string  `json:"output,omitempty"    yaml:"output,omitempty"    jsonschema:"sprite-sheet image path (.png, .bmp, .tif)"`
	Info      string  `json:"info,omitempty"      yaml:"info,omitempty"      jsonschema:"geometry sidecar path (.yaml or .json)"`
	Resampler string  `json:"resampler,omitempty" yaml:"resampler,omitempty" jsonschema:"scaling filter: lanczos, catmullrom, bilinear or nearest"`
	TileSize  []int   `json:"tileSize,omitempty"  yaml:"tileSize,omitempty"  jsonschema:"tile width and height in pixels"`
	Scale     []int   `json:"scale,omitempty"     yaml:"scale,omitempty"     jsonschema:"intermediate width and height; negative keeps aspect ratio"`
	Columns   int     `json:"columns,omitempty"   yaml:"columns,omitempty"   jsonschema:"number of columns; defaults to fps/3"`
	FPS       int     `json:"fps,omitempty"       yaml:"fps,omitempty"       jsonschema:"frame rate of the intermediate animation"`
	MaxFrames int     `json:"maxFrames,omitempty" yaml:"maxFrames,omitempty" jsonschema:"maximum number of frames to composite"`
}

// Script configures animation script emission for a [Job].
type Script struct {
	ID     string `json:"id"               yaml:"id"               jsonschema:"Lua identifier of the animated object"`
	Output string `json:"output,omitempty" yaml:"output,omitempty" jsonschema:"path of the generated Lua file; defaults to the sheet path with a .lua extension"`
}

// Load reads and validates the manifest at path. Relative paths are resolved
// against the manifest's directory.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadManifest, err)
	}

	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	m.resolvePaths(filepath.Dir(path))

	return m, nil
}

// Parse decodes and validates manifest YAML. Unknown fields are rejected.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest

	err := yaml.UnmarshalWithOptions(data, &m, yaml.DisallowUnknownField())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}

	err = m.Validate()
	if err != nil {
		return nil, err
	}

	return &m, nil
}

// Validate checks that every resolved job names an input and an output, and
// that no two jobs write the same file.
func (m *Manifest) Validate() error {
	if len(m.Jobs) == 0 {
		return fmt.Errorf("%w: no jobs", ErrInvalidManifest)
	}

	if m.Defaults.Script != nil && m.Defaults.Script.Output != "" {
		return fmt.Errorf("%w: defaults: script output would be shared by every job", ErrInvalidManifest)
	}

	owners := map[string]int{}

	for i, job := range m.Resolved() {
		if job.Input == "" {
			return fmt.Errorf("%w: job %d: missing input", ErrInvalidManifest, i)
		}

		if job.Output == "" {
			return fmt.Errorf("%w: job %d: missing output", ErrInvalidManifest, i)
		}

		if job.Script != nil && job.Script.ID == "" {
			return fmt.Errorf("%w: job %d: script needs an id", ErrInvalidManifest, i)
		}

		for _, out := range job.outputs() {
			prev, ok := owners[out]
			if ok {
				return fmt.Errorf("%w: job %d: %s is also written by job %d", ErrInvalidManifest, i, out, prev)
			}

			owners[out] = i
		}
	}

	return nil
}

// Resolved returns the jobs with defaults applied.
func (m *Manifest) Resolved() []Job {
	jobs := make([]Job, len(m.Jobs))
	for i, job := range m.Jobs {
		jobs[i] = job.withDefaults(m.Defaults)
	}

	return jobs
}

func (j Job) withDefaults(d Job) Job {
	if j.Script == nil && d.Script != nil {
		s := *d.Script
		j.Script = &s
	}

	if j.Script != nil && j.Script.Output == "" && j.Output != "" {
		s := *j.Script
		s.Output = strings.TrimSuffix(j.Output, filepath.Ext(j.Output)) + ".lua"
		j.Script = &s
	}

	if j.ZeroBased == nil {
		j.ZeroBased = d.ZeroBased
	}

	if j.Resampler == "" {
		j.Resampler = d.Resampler
	}

	if j.TileSize == nil {
		j.TileSize = d.TileSize
	}

	if j.Scale == nil {
		j.Scale = d.Scale
	}

	if j.Columns == 0 {
		j.Columns = d.Columns
	}

	if j.FPS == 0 {
		j.FPS = d.FPS
	}

	if j.MaxFrames == 0 {
		j.MaxFrames = d.MaxFrames
	}

	return j
}

func (m *Manifest) resolvePaths(dir string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}

		return filepath.Join(dir, p)
	}

	m.Defaults.resolvePaths(abs)

	for i := range m.Jobs {
		m.Jobs[i].resolvePaths(abs)
	}
}

func (j *Job) resolvePaths(abs func(string) string) {
	j.Input = abs(j.Input)
	j.Output = abs(j.Output)
	j.Info = abs(j.Info)

	if j.Script != nil {
		s := *j.Script
		s.Output = abs(s.Output)
		j.Script = &s
	}
}

// outputs returns the files a resolved job writes.
func (j Job) outputs() []string {
	out := []string{j.Output}

	if j.Info != "" {
		out = append(out, j.Info)
	}

	if j.Script != nil && j.Script.Output != "" {
		out = append(out, j.Script.Output)
	}

	return out
}

// Schema returns the JSON Schema describing manifest files.
func Schema() (*jsonschema.Schema, error) {
	s, err := jsonschema.For[Manifest](nil)
	if err != nil {
		return nil, fmt.Errorf("generating manifest schema: %w", err)
	}

	s.Schema = "https://json-schema.org/draft/2020-12/schema"
	s.Title = "vidtoss batch manifest"

	return s, nil
}
