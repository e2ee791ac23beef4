package mosaic

// Placement is the outcome of offering one piece to the mosaic.
type Placement struct {
	Placed   bool     `json:"placed"`
	Position Position `json:"position"`
	Evicted  string   `json:"evicted,omitempty"`
}

// Assign picks the destination cell for a newcomer with distance vector dv.
//
// A cell is eligible when it is empty or when its occupant's own recorded
// distance there is strictly greater than the newcomer's. The eligible cell
// with the smallest newcomer distance wins; ties go to the lowest index.
// ok is false when no cell is eligible.
func Assign(dv DistanceVector, occupant func(cell int) (distance uint64, occupied bool)) (cell int, ok bool) {
	best := -1
	for i, d := range dv {
		if incumbent, occupied := occupant(i); occupied && incumbent <= d {
			continue
		}
		if best < 0 || d < dv[best] {
			best = i
		}
	}
	return best, best >= 0
}
