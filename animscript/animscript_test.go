package animscript_test

import (
	"fmt"
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/vidtoss/animscript"
	"go.jacobcolvin.com/vidtoss/sheet"
	"go.jacobcolvin.com/vidtoss/stringtest"
)

func TestString(t *testing.T) {
	t.Parallel()

	got, err := animscript.String(animscript.Params{
		ID:       "j_dance",
		Columns:  5,
		Rows:     5,
		LastX:    2,
		LastY:    4,
		Interval: 100 * time.Millisecond,
	})
	require.NoError(t, err)

	want := stringtest.Input(`
		local j_dance_dt = 0

		local j_dance_update = Game.update
		function Game:update(dt)
		    j_dance_update(self, dt)

		    j_dance_dt = j_dance_dt + dt

		    if G.P_CENTERS and G.P_CENTERS.j_dance and j_dance_dt > 0.1 then
		        j_dance_dt = 0

		        local j_dance_obj = G.P_CENTERS.j_dance

		        if j_dance_obj.pos.x == 2 and j_dance_obj.pos.y == 4 then
		            j_dance_obj.pos.x = 0
		            j_dance_obj.pos.y = 0
		        elseif j_dance_obj.pos.x < 4 then
		            j_dance_obj.pos.x = j_dance_obj.pos.x + 1
		        elseif j_dance_obj.pos.y < 4 then
		            j_dance_obj.pos.x = 0
		            j_dance_obj.pos.y = j_dance_obj.pos.y + 1
		        end
		    end
		end
	`)

	assert.Equal(t, want, got)
}

func TestParamsFromResult(t *testing.T) {
	t.Parallel()

	res := sheet.Result{Rows: 3, Columns: 4, LastFrameX: 3, LastFrameY: 2, ZeroBased: true}

	tcs := map[string]struct {
		res  *sheet.Result
		fps  int
		want animscript.Params
	}{
		"one-based result is shifted to the origin": {
			res: &sheet.Result{Rows: 3, Columns: 4, LastFrameX: 4, LastFrameY: 3},
			fps: 10,
			want: animscript.Params{
				ID: "anim", Columns: 4, Rows: 3, LastX: 3, LastY: 2,
				Interval: 100 * time.Millisecond,
			},
		},
		"ten fps": {
			fps: 10,
			want: animscript.Params{
				ID: "anim", Columns: 4, Rows: 3, LastX: 3, LastY: 2,
				Interval: 100 * time.Millisecond,
			},
		},
		"twenty-four fps": {
			fps: 24,
			want: animscript.Params{
				ID: "anim", Columns: 4, Rows: 3, LastX: 3, LastY: 2,
				Interval: time.Second / 24,
			},
		},
		"zero fps leaves interval unset": {
			fps: 0,
			want: animscript.Params{
				ID: "anim", Columns: 4, Rows: 3, LastX: 3, LastY: 2,
			},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			r := res
			if tc.res != nil {
				r = *tc.res
			}

			assert.Equal(t, tc.want, animscript.ParamsFromResult("anim", r, tc.fps))
		})
	}
}

// step advances an atlas position the way the rendered driver does.
func step(p animscript.Params, pos image.Point) image.Point {
	switch {
	case pos.X == p.LastX && pos.Y == p.LastY:
		return image.Point{}
	case pos.X < p.Columns-1:
		return image.Point{X: pos.X + 1, Y: pos.Y}
	case pos.Y < p.Rows-1:
		return image.Point{Y: pos.Y + 1}
	}

	return pos
}

func TestDriverLoopsOverWrittenFrames(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		frames    int
		columns   int
		zeroBased bool
	}{
		"partial last row":            {frames: 23, columns: 5},
		"partial last row zero-based": {frames: 23, columns: 5, zeroBased: true},
		"full grid":                   {frames: 6, columns: 3},
		"full grid zero-based":        {frames: 6, columns: 3, zeroBased: true},
		"single frame":                {frames: 1, columns: 4},
		"single column":               {frames: 4, columns: 1},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			g, err := sheet.NewGrid(tc.frames, tc.columns)
			require.NoError(t, err)

			last, err := sheet.LocateLastFrame(g, tc.frames, tc.zeroBased)
			require.NoError(t, err)

			p := animscript.ParamsFromResult("anim", sheet.Result{
				Rows:       g.Rows,
				Columns:    g.Columns,
				LastFrameX: last.X,
				LastFrameY: last.Y,
				ZeroBased:  tc.zeroBased,
			}, 10)

			script, err := animscript.String(p)
			require.NoError(t, err)
			assert.Contains(t, script, fmt.Sprintf("anim_obj.pos.x == %d and anim_obj.pos.y == %d then",
				p.LastX, p.LastY))

			var pos image.Point

			for lap := range 2 {
				for i := range tc.frames {
					assert.Equal(t, g.Cell(i), pos, "lap %d frame %d", lap, i)

					pos = step(p, pos)
				}
			}

			assert.Equal(t, image.Point{}, pos, "driver returns to the first frame")
		})
	}
}

func TestRenderInvalid(t *testing.T) {
	t.Parallel()

	valid := animscript.Params{ID: "anim", Columns: 2, Rows: 2, LastX: 1, LastY: 1, Interval: time.Second}

	tcs := map[string]struct {
		mutate func(*animscript.Params)
	}{
		"empty id":           {mutate: func(p *animscript.Params) { p.ID = "" }},
		"id with dash":       {mutate: func(p *animscript.Params) { p.ID = "my-anim" }},
		"id starts with num": {mutate: func(p *animscript.Params) { p.ID = "1anim" }},
		"zero columns":       {mutate: func(p *animscript.Params) { p.Columns = 0 }},
		"zero rows":          {mutate: func(p *animscript.Params) { p.Rows = 0 }},
		"negative last":      {mutate: func(p *animscript.Params) { p.LastX = -1 }},
		"zero interval":      {mutate: func(p *animscript.Params) { p.Interval = 0 }},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			p := valid
			tc.mutate(&p)

			_, err := animscript.String(p)
			require.ErrorIs(t, err, animscript.ErrInvalidParams)
		})
	}
}
