// Package tiling computes grid placement for windows that are created
// without explicit coordinates.
package tiling

import (
	"fmt"
	"math"

	"github.com/1broseidon/softx/internal/canvas"
	"github.com/1broseidon/softx/internal/config"
)

// cascadeStep offsets windows that do not fit a fixed grid.
const cascadeStep = 24

// Size is an on-screen window size.
type Size struct {
	Width  int
	Height int
}

// CalculateGrid determines the optimal grid dimensions for the given number of windows
func CalculateGrid(numWindows int) (rows, cols int) {
	if numWindows == 0 {
		return 0, 0
	}

	// Calculate columns first (ceiling of square root)
	cols = int(math.Ceil(math.Sqrt(float64(numWindows))))

	// Calculate rows needed
	rows = int(math.Ceil(float64(numWindows) / float64(cols)))

	return rows, cols
}

// CalculateSlots divides area into grid cells separated by gap pixels. A
// fixed grid yields at most rows*cols slots.
func CalculateSlots(numWindows int, area canvas.Rect, placement *config.Placement) ([]canvas.Rect, error) {
	if numWindows == 0 {
		return nil, nil
	}

	var rows, cols int
	gap := placement.Gap

	switch placement.Mode {
	case config.LayoutModeAuto:
		rows, cols = CalculateGrid(numWindows)

	case config.LayoutModeFixed:
		rows = placement.FixedGrid.Rows
		cols = placement.FixedGrid.Cols
		if numWindows > rows*cols {
			numWindows = rows * cols
		}

	case config.LayoutModeVertical:
		rows = numWindows
		cols = 1

	case config.LayoutModeHorizontal:
		rows = 1
		cols = numWindows

	default:
		return nil, fmt.Errorf("unsupported placement mode: %q", placement.Mode)
	}

	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("invalid grid dimensions: rows=%d cols=%d", rows, cols)
	}

	// Gaps: one before each column and one after the last.
	slotWidth := (area.Width - (cols+1)*gap) / cols
	slotHeight := (area.Height - (rows+1)*gap) / rows

	if slotWidth <= 0 || slotHeight <= 0 {
		return nil, fmt.Errorf(
			"insufficient space for placement: area=%dx%d rows=%d cols=%d gap=%d (slot=%dx%d)",
			area.Width, area.Height, rows, cols, gap, slotWidth, slotHeight,
		)
	}

	slots := make([]canvas.Rect, numWindows)
	for i := range slots {
		row := i / cols
		col := i % cols
		slots[i] = canvas.Rect{
			X:      area.X + gap + col*(slotWidth+gap),
			Y:      area.Y + gap + row*(slotHeight+gap),
			Width:  slotWidth,
			Height: slotHeight,
		}
	}

	return slots, nil
}

// Place returns an on-screen rectangle for each size. Windows are centered in
// their slot; a window larger than its slot is pinned to the slot origin.
// Windows beyond the capacity of a fixed grid cascade from the area origin.
func Place(area canvas.Rect, placement *config.Placement, sizes []Size) ([]canvas.Rect, error) {
	region := ApplyRegion(area, placement.Region)
	slots, err := CalculateSlots(len(sizes), region, placement)
	if err != nil {
		return nil, err
	}

	out := make([]canvas.Rect, len(sizes))
	for i, size := range sizes {
		if i >= len(slots) {
			k := i - len(slots) + 1
			out[i] = canvas.Rect{X: region.X + k*cascadeStep, Y: region.Y + k*cascadeStep, Width: size.Width, Height: size.Height}
			continue
		}
		slot := slots[i]
		x, y := slot.X, slot.Y
		if size.Width < slot.Width {
			x += (slot.Width - size.Width) / 2
		}
		if size.Height < slot.Height {
			y += (slot.Height - size.Height) / 2
		}
		out[i] = canvas.Rect{X: x, Y: y, Width: size.Width, Height: size.Height}
	}
	return out, nil
}

// Cascade stacks windows diagonally from the area origin. It is the fallback
// when the area is too small for a grid.
func Cascade(area canvas.Rect, sizes []Size) []canvas.Rect {
	out := make([]canvas.Rect, len(sizes))
	for i, size := range sizes {
		out[i] = canvas.Rect{X: area.X + i*cascadeStep, Y: area.Y + i*cascadeStep, Width: size.Width, Height: size.Height}
	}
	return out
}

// ApplyRegion applies the tile region to an area, returning adjusted bounds
func ApplyRegion(area canvas.Rect, region config.TileRegion) canvas.Rect {
	adjusted := area

	switch region.Type {
	case config.RegionFull:
		// No change

	case config.RegionLeftHalf:
		adjusted.Width = area.Width / 2

	case config.RegionRightHalf:
		adjusted.X = area.X + area.Width/2
		adjusted.Width = area.Width / 2

	case config.RegionTopHalf:
		adjusted.Height = area.Height / 2

	case config.RegionBottomHalf:
		adjusted.Y = area.Y + area.Height/2
		adjusted.Height = area.Height / 2

	case config.RegionCustom:
		adjusted.X = area.X + (area.Width * region.XPercent / 100)
		adjusted.Y = area.Y + (area.Height * region.YPercent / 100)
		adjusted.Width = area.Width * region.WidthPercent / 100
		adjusted.Height = area.Height * region.HeightPercent / 100
	}

	if adjusted.Width < 1 {
		adjusted.Width = 1
	}
	if adjusted.Height < 1 {
		adjusted.Height = 1
	}

	return adjusted
}
