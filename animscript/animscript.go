// Package animscript generates Lua animation-driver snippets for sprite-sheets.
//
// The snippet hooks a game's update loop, and every interval advances the
// atlas position of an object one tile to the right, wrapping to the next row
// at the last column and back to the origin once the last frame is reached.
// It targets games whose objects expose their atlas position as
// G.P_CENTERS.<id>.pos.{x,y}, such as Balatro mods.
package animscript

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"text/template"
	"time"

	"go.jacobcolvin.com/vidtoss/sheet"
)

// ErrInvalidParams indicates parameters that cannot produce a valid script.
var ErrInvalidParams = errors.New("invalid script parameters")

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var luaTemplate = template.Must(template.New("lua").Parse(`local {{.ID}}_dt = 0

local {{.ID}}_update = Game.update
function Game:update(dt)
    {{.ID}}_update(self, dt)

    {{.ID}}_dt = {{.ID}}_dt + dt

    if G.P_CENTERS and G.P_CENTERS.{{.ID}} and {{.ID}}_dt > {{.Interval}} then
        {{.ID}}_dt = 0

        local {{.ID}}_obj = G.P_CENTERS.{{.ID}}

        if {{.ID}}_obj.pos.x == {{.LastX}} and {{.ID}}_obj.pos.y == {{.LastY}} then
            {{.ID}}_obj.pos.x = 0
            {{.ID}}_obj.pos.y = 0
        elseif {{.ID}}_obj.pos.x < {{.MaxX}} then
            {{.ID}}_obj.pos.x = {{.ID}}_obj.pos.x + 1
        elseif {{.ID}}_obj.pos.y < {{.MaxY}} then
            {{.ID}}_obj.pos.x = 0
            {{.ID}}_obj.pos.y = {{.ID}}_obj.pos.y + 1
        end
    end
end
`))

// Params describes the animation to drive.
type Params struct {
	// ID is the Lua identifier of the animated object.
	ID string
	// Columns and Rows are the sheet's grid size.
	Columns int
	Rows    int
	// LastX and LastY are the zero-based atlas position at which the
	// animation loops back to the origin.
	LastX int
	LastY int
	// Interval is the time each frame is shown.
	Interval time.Duration
}

// ParamsFromResult builds [Params] from an assembled sheet. The interval is
// one frame at fps. Atlas positions in the game start at (0, 0), so a
// one-based last-frame coordinate is converted to zero-based.
func ParamsFromResult(id string, r sheet.Result, fps int) Params {
	p := Params{
		ID:      id,
		Columns: r.Columns,
		Rows:    r.Rows,
		LastX:   r.LastFrameX,
		LastY:   r.LastFrameY,
	}

	if !r.ZeroBased {
		p.LastX--
		p.LastY--
	}

	if fps > 0 {
		p.Interval = time.Second / time.Duration(fps)
	}

	return p
}

// Validate reports whether p can be rendered.
func (p Params) Validate() error {
	if !identRe.MatchString(p.ID) {
		return fmt.Errorf("%w: %q is not a Lua identifier", ErrInvalidParams, p.ID)
	}

	if p.Columns <= 0 || p.Rows <= 0 {
		return fmt.Errorf("%w: grid %dx%d", ErrInvalidParams, p.Columns, p.Rows)
	}

	if p.LastX < 0 || p.LastY < 0 {
		return fmt.Errorf("%w: last frame (%d, %d)", ErrInvalidParams, p.LastX, p.LastY)
	}

	if p.Interval <= 0 {
		return fmt.Errorf("%w: interval must be positive, got %s", ErrInvalidParams, p.Interval)
	}

	return nil
}

type view struct {
	ID       string
	Interval string
	LastX    int
	LastY    int
	MaxX     int
	MaxY     int
}

// Render writes the Lua snippet for p to w.
func Render(w io.Writer, p Params) error {
	err := p.Validate()
	if err != nil {
		return err
	}

	return luaTemplate.Execute(w, view{
		ID:       p.ID,
		Interval: strconv.FormatFloat(p.Interval.Seconds(), 'f', -1, 64),
		LastX:    p.LastX,
		LastY:    p.LastY,
		MaxX:     p.Columns - 1,
		MaxY:     p.Rows - 1,
	})
}

// String renders the Lua snippet for p.
func String(p Params) (string, error) {
	var sb strings.Builder

	err := Render(&sb, p)
	if err != nil {
		return "", err
	}

	return sb.String(), nil
}
