package simulation

// ChamberHeight is the local-coordinate extent of a chamber's y axis
// (spec.md §6 Fixed constants).
const ChamberHeight = 0.7

// ApplyWrap pulls pos back into [0,1) x [0,ChamberHeight) and hops owner
// across the topology for every cell boundary crossed (spec.md §4.5). The
// loops (rather than a single correction) handle a ball that crossed more
// than one cell in a single tick.
func ApplyWrap(pos *Point, owner *int, layout ChamberLayout) {
	for pos.X >= 1 {
		pos.X -= 1
		*owner = layout.Right(*owner)
	}
	for pos.X < 0 {
		pos.X += 1
		*owner = layout.Left(*owner)
	}
	for pos.Y >= ChamberHeight {
		pos.Y -= ChamberHeight
		*owner = layout.Up(*owner)
	}
	for pos.Y < 0 {
		pos.Y += ChamberHeight
		*owner = layout.Down(*owner)
	}
}
