package simulation

// Direction tags where a ball in a view came from, relative to the target
// chamber (spec.md §4.6, Design Notes §9). The name describes the source
// side: "right" means the ball was translated x+=1 to enter the target from what
// is, in the target's frame, its right edge.
type Direction int

const (
	DirCurrent Direction = iota
	DirLeft
	DirRight
	DirUp
	DirDown
)

// AdjustedBallView is a transient per-tick record: a ball transformed into
// a target chamber's local frame, paired with the ball's index in the
// global array and the translation tag needed to write it back.
type AdjustedBallView struct {
	Adjusted Ball
	BallID   int
	Direction Direction
}

// directionRule pairs a boundary-crossing test with the forward translation
// into the target chamber's frame and its inverse. Both BuildView and
// WriteBack consult the same table so the two transforms can never drift
// out of sign agreement with each other.
type directionRule struct {
	direction Direction
	match     func(pos Point, owner, target int, layout ChamberLayout, r float64) bool
	forward   func(pos Point) Point
	inverse   func(pos Point) Point
}

var directionRules = [4]directionRule{
	{
		direction: DirRight,
		match: func(pos Point, owner, target int, layout ChamberLayout, r float64) bool {
			return pos.X < r && layout.Left(owner) == target
		},
		forward: func(pos Point) Point { return Point{X: pos.X + 1, Y: pos.Y} },
		inverse: func(pos Point) Point { return Point{X: pos.X - 1, Y: pos.Y} },
	},
	{
		direction: DirLeft,
		match: func(pos Point, owner, target int, layout ChamberLayout, r float64) bool {
			return pos.X+r > 1 && layout.Right(owner) == target
		},
		forward: func(pos Point) Point { return Point{X: pos.X - 1, Y: pos.Y} },
		inverse: func(pos Point) Point { return Point{X: pos.X + 1, Y: pos.Y} },
	},
	{
		direction: DirDown,
		match: func(pos Point, owner, target int, layout ChamberLayout, r float64) bool {
			return pos.Y+r > ChamberHeight && layout.Up(owner) == target
		},
		forward: func(pos Point) Point { return Point{X: pos.X, Y: pos.Y - ChamberHeight} },
		inverse: func(pos Point) Point { return Point{X: pos.X, Y: pos.Y + ChamberHeight} },
	},
	{
		direction: DirUp,
		match: func(pos Point, owner, target int, layout ChamberLayout, r float64) bool {
			return pos.Y < r && layout.Down(owner) == target
		},
		forward: func(pos Point) Point { return Point{X: pos.X, Y: pos.Y + ChamberHeight} },
		inverse: func(pos Point) Point { return Point{X: pos.X, Y: pos.Y - ChamberHeight} },
	},
}

// BuildView assembles chamber target's local view: every ball currently
// owned by it, plus every ball from a neighbor whose footprint pokes across
// the shared boundary (spec.md §4.6). none is never produced; a ball that
// matches no rule is simply omitted. buf is reused across calls (reset to
// length zero, capacity preserved) to avoid a per-tick, per-chamber
// allocation; pass nil to let the call allocate its own.
func BuildView(target int, balls []Ball, owners []int, layout ChamberLayout, ballRadius float64, buf []AdjustedBallView) []AdjustedBallView {
	view := buf[:0]
	for i, b := range balls {
		owner := owners[i]
		if owner == target {
			view = append(view, AdjustedBallView{Adjusted: b, BallID: i, Direction: DirCurrent})
			continue
		}
		for _, rule := range directionRules {
			if rule.match(b.Pos, owner, target, layout, ballRadius) {
				adjusted := b
				adjusted.Pos = rule.forward(b.Pos)
				view = append(view, AdjustedBallView{Adjusted: adjusted, BallID: i, Direction: rule.direction})
				break
			}
		}
	}
	return view
}

// WriteBack converts each entry's adjusted ball back to the owner's
// coordinate frame (inverting the translation recorded by Direction) and
// writes it into balls. The owner index is untouched; the next tick's
// ApplyWrap reasserts ownership consistency (spec.md §4.6).
func WriteBack(view []AdjustedBallView, balls []Ball) {
	for _, entry := range view {
		b := entry.Adjusted
		if entry.Direction != DirCurrent {
			for _, rule := range directionRules {
				if rule.direction == entry.Direction {
					b.Pos = rule.inverse(b.Pos)
					break
				}
			}
		}
		balls[entry.BallID] = b
	}
}
