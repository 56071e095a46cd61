package goal

// NextUnlocked returns the single microtask currently eligible for
// verification, or nil. A microtask is eligible iff the goal is active, it is
// not yet completed, and every microtask on an earlier day is completed: a
// strict left-to-right gating chain, so at most one is ever unlocked.
//
// Pure function of the goal's current state; the microtask slice is not
// touched. Completion entry points must re-check this server-side before
// accepting a submission.
func NextUnlocked(g *Goal) *Microtask {
	if g.Status != StatusActive {
		return nil
	}
	// Days are unique within a goal, so the incomplete microtask with the
	// lowest day is exactly the one whose earlier days are all completed.
	var next *Microtask
	for i := range g.Microtasks {
		mt := &g.Microtasks[i]
		if mt.Completed {
			continue
		}
		if next == nil || mt.Day < next.Day {
			next = mt
		}
	}
	return next
}
