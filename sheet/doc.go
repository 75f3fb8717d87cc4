// Package sheet lays out and composites animation frames into a single tiled
// sprite-sheet raster.
//
// A sprite-sheet is a grid of fixed-size tiles. Frame i occupies the tile at
// column i%columns and row i/columns. Each frame is scaled to fit its tile
// while preserving aspect ratio, centered, and alpha-composited onto the
// output raster.
//
// The [Assembler] drives the whole process:
//
//	asm := sheet.NewAssembler(
//	    sheet.WithTileSize(sheet.TileSize{Width: 64, Height: 64}),
//	    sheet.WithColumns(5),
//	)
//
//	s, err := asm.Assemble(frames)
//	if err != nil {
//	    return err
//	}
//
//	err = s.Save("out.png")
//
// The resulting [Result] reports the grid geometry and the coordinate of the
// last populated tile, which animation drivers use to detect when to loop
// back to the first frame. See [LocateLastFrame] for the indexing rules.
//
// # Truncation
//
// When a frame cap is set with [WithMaxFrames], the raster is still sized
// for the full frame sequence but only the first N tiles are populated. The
// last-frame position is derived from the number of frames actually written.
package sheet
