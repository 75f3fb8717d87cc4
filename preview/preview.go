// Package preview plays a sprite-sheet back as an animation in the terminal.
//
// Frames are drawn with ANSI 24-bit colors on the "▀" (upper half block)
// character, so each terminal cell shows two vertical pixels. Playback stops
// on the last frame, or loops back to the first when looping is enabled,
// mirroring how a game engine would step through the sheet.
package preview

import (
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"go.jacobcolvin.com/vidtoss/sheet"
)

// Options configures a [Player].
type Options struct {
	// FPS is the playback rate.
	FPS int
	// Cols and Rows are the initial render size in terminal cells. They are
	// replaced by the terminal size once the program reports it.
	Cols int
	Rows int
	Loop bool
}

// tickMsg advances playback by one frame.
type tickMsg struct{}

// Player is the bubbletea model that plays back frames.
//
// Create instances with [NewPlayer].
type Player struct {
	compositor *sheet.Compositor
	tiles      []image.Image
	frames     []*image.RGBA
	buf        strings.Builder
	fps        int
	cols       int
	rows       int
	index      int
	loop       bool
	done       bool
}

// NewPlayer creates a [Player] for tiles. Tiles are scaled with
// nearest-neighbor sampling so pixel art stays crisp.
func NewPlayer(tiles []image.Image, opts Options) (*Player, error) {
	if len(tiles) == 0 {
		return nil, fmt.Errorf("%w: no frames to play", ErrInvalidSheet)
	}

	if opts.FPS <= 0 {
		return nil, fmt.Errorf("%w: fps must be positive, got %d", sheet.ErrInvalidOption, opts.FPS)
	}

	p := &Player{
		compositor: sheet.NewCompositor(sheet.ResamplerNearest),
		tiles:      tiles,
		fps:        opts.FPS,
		loop:       opts.Loop,
	}

	err := p.resize(opts.Cols, opts.Rows)
	if err != nil {
		return nil, err
	}

	return p, nil
}

// Run plays back until the user quits or ctx is cancelled.
func (p *Player) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	prog := tea.NewProgram(p,
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)

	_, err := prog.Run()
	if err != nil {
		return fmt.Errorf("running preview: %w", err)
	}

	return nil
}

// Index returns the current frame index.
func (p *Player) Index() int {
	return p.index
}

// resize renders every tile for a cols x rows area. The previous frames are
// kept when any tile fails to render.
func (p *Player) resize(cols, rows int) error {
	cols = max(cols, 1)
	rows = max(rows, 1)

	frames := make([]*image.RGBA, len(p.tiles))

	for i, t := range p.tiles {
		f, err := fitCells(p.compositor, t, cols, rows)
		if err != nil {
			return fmt.Errorf("%w: frame %d: %w", ErrInvalidSheet, i, err)
		}

		frames[i] = f
	}

	p.cols, p.rows, p.frames = cols, rows, frames

	return nil
}

func (p *Player) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(p.fps), func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// Init starts playback.
func (p *Player) Init() tea.Cmd {
	return p.tick()
}

// Update handles tick, resize, and quit messages.
func (p *Player) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return p, tea.Quit
		}

	case tea.WindowSizeMsg:
		err := p.resize(msg.Width, msg.Height)
		if err != nil {
			slog.Warn("resize preview",
				slog.Int("width", msg.Width),
				slog.Int("height", msg.Height),
				slog.Any("error", err),
			)
		}

	case tickMsg:
		if len(p.frames) <= 1 || p.done {
			return p, nil
		}

		p.index++

		if p.index >= len(p.frames) {
			if !p.loop {
				p.index = len(p.frames) - 1
				p.done = true

				return p, nil
			}

			p.index = 0
		}

		return p, p.tick()
	}

	return p, nil
}

// View renders the current frame.
func (p *Player) View() tea.View {
	renderCells(p.frames[p.index], &p.buf)

	v := tea.NewView(p.buf.String())
	v.AltScreen = true

	return v
}
