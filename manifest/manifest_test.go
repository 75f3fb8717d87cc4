package manifest_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/vidtoss/manifest"
	"go.jacobcolvin.com/vidtoss/stringtest"
)

func TestParse(t *testing.T) {
	t.Parallel()

	yes := true

	tcs := map[string]struct {
		err   error
		input string
		want  []manifest.Job
	}{
		"defaults fill unset fields": {
			input: stringtest.Input(`
				defaults:
				  tileSize: [64, 64]
				  fps: 12
				  resampler: nearest
				jobs:
				  - input: walk.mp4
				    output: walk.png
				  - input: jump.gif
				    output: jump.png
				    fps: 24
				    maxFrames: 8
			`),
			want: []manifest.Job{
				{Input: "walk.mp4", Output: "walk.png", TileSize: []int{64, 64}, FPS: 12, Resampler: "nearest"},
				{Input: "jump.gif", Output: "jump.png", TileSize: []int{64, 64}, FPS: 24, MaxFrames: 8, Resampler: "nearest"},
			},
		},
		"script and zero-based": {
			input: stringtest.Input(`
				jobs:
				  - input: frames/
				    output: out.bmp
				    zeroBased: true
				    script:
				      id: j_dance
				      output: dance.lua
			`),
			want: []manifest.Job{
				{
					Input:     "frames/",
					Output:    "out.bmp",
					ZeroBased: &yes,
					Script:    &manifest.Script{ID: "j_dance", Output: "dance.lua"},
				},
			},
		},
		"no jobs": {
			input: "defaults:\n  fps: 10\n",
			err:   manifest.ErrInvalidManifest,
		},
		"missing output": {
			input: "jobs:\n  - input: a.mp4\n",
			err:   manifest.ErrInvalidManifest,
		},
		"missing input": {
			input: "jobs:\n  - output: a.png\n",
			err:   manifest.ErrInvalidManifest,
		},
		"unknown field": {
			input: "jobs:\n  - input: a.mp4\n    output: a.png\n    colums: 3\n",
			err:   manifest.ErrInvalidManifest,
		},
		"script output follows the sheet": {
			input: stringtest.Input(`
				defaults:
				  script:
				    id: j_clip
				jobs:
				  - input: walk.mp4
				    output: sheets/walk.png
				  - input: jump.mp4
				    output: sheets/jump.v2.bmp
				  - input: idle.mp4
				    output: idle.png
				    script:
				      id: j_idle
			`),
			want: []manifest.Job{
				{Input: "walk.mp4", Output: "sheets/walk.png", Script: &manifest.Script{ID: "j_clip", Output: "sheets/walk.lua"}},
				{Input: "jump.mp4", Output: "sheets/jump.v2.bmp", Script: &manifest.Script{ID: "j_clip", Output: "sheets/jump.v2.lua"}},
				{Input: "idle.mp4", Output: "idle.png", Script: &manifest.Script{ID: "j_idle", Output: "idle.lua"}},
			},
		},
		"script without id": {
			input: "jobs:\n  - input: a.mp4\n    output: a.png\n    script:\n      output: a.lua\n",
			err:   manifest.ErrInvalidManifest,
		},
		"shared default script output": {
			input: stringtest.Input(`
				defaults:
				  script:
				    id: j_clip
				    output: clip.lua
				jobs:
				  - input: a.mp4
				    output: a.png
				  - input: b.mp4
				    output: b.png
			`),
			err: manifest.ErrInvalidManifest,
		},
		"two jobs write one file": {
			input: stringtest.Input(`
				jobs:
				  - input: a.mp4
				    output: a.png
				    info: shared.yaml
				  - input: b.mp4
				    output: b.png
				    info: shared.yaml
			`),
			err: manifest.ErrInvalidManifest,
		},
		"malformed yaml": {
			input: "jobs: [\n",
			err:   manifest.ErrInvalidManifest,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			m, err := manifest.Parse([]byte(tc.input))
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, m.Resolved())
		})
	}
}

func TestLoadResolvesPaths(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "batch.yaml")

	content := stringtest.Input(`
		jobs:
		  - input: clips/walk.mp4
		    output: /abs/walk.png
		    info: walk.yaml
		    script:
		      id: j_walk
		      output: lua/walk.lua
	`)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	m, err := manifest.Load(path)
	require.NoError(t, err)
	require.Len(t, m.Jobs, 1)

	job := m.Jobs[0]
	assert.Equal(t, filepath.Join(dir, "clips", "walk.mp4"), job.Input)
	assert.Equal(t, "/abs/walk.png", job.Output)
	assert.Equal(t, filepath.Join(dir, "walk.yaml"), job.Info)
	assert.Equal(t, filepath.Join(dir, "lua", "walk.lua"), job.Script.Output)
}

func TestLoadResolvesDefaultScript(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "batch.yaml")

	content := stringtest.Input(`
		defaults:
		  script:
		    id: j_clip
		jobs:
		  - input: a.mp4
		    output: out/a.png
		  - input: b.mp4
		    output: out/b.png
	`)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	m, err := manifest.Load(path)
	require.NoError(t, err)

	jobs := m.Resolved()
	require.Len(t, jobs, 2)
	assert.Equal(t, filepath.Join(dir, "out", "a.lua"), jobs[0].Script.Output)
	assert.Equal(t, filepath.Join(dir, "out", "b.lua"), jobs[1].Script.Output)
	assert.Equal(t, "j_clip", jobs[1].Script.ID)
	assert.Nil(t, m.Jobs[0].Script, "defaults are applied without changing the jobs")
}

func TestLoadMissing(t *testing.T) {
	t.Parallel()

	_, err := manifest.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.ErrorIs(t, err, manifest.ErrReadManifest)
}

func TestSchema(t *testing.T) {
	t.Parallel()

	s, err := manifest.Schema()
	require.NoError(t, err)

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, "vidtoss batch manifest", doc["title"])

	props, ok := doc["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "jobs")
	assert.Contains(t, props, "defaults")
}
