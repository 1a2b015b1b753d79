package fleet

// firstNames and lastNames are the fixed 15-entry pools used to compose a
// fleet target's name when no external name list is supplied.
var firstNames = [15]string{
	"ALPHA", "BRAVO", "CHARLIE", "DELTA", "ECHO",
	"FOXTROT", "GOLF", "HOTEL", "INDIA", "JULIET",
	"KILO", "LIMA", "MIKE", "NOVEMBER", "OSCAR",
}

var lastNames = [15]string{
	"RUNNER", "TRADER", "VOYAGER", "CLIPPER", "MARINER",
	"WANDERER", "DRIFTER", "EXPLORER", "SEEKER", "PIONEER",
	"RAMBLER", "CRUISER", "ROVER", "NOMAD", "STAR",
}

// defaultTargetName composes a deterministic name for target index i from
// the fixed pools.
func defaultTargetName(i int) string {
	first := firstNames[(i*7+3)%15]
	last := lastNames[(i*11+5)%15]
	return first + " " + last
}

// targetName picks from an external pool when available, else falls back
// to the deterministic pool composition.
func targetName(i int, external []string) string {
	if len(external) > 0 {
		return external[i%len(external)]
	}
	return defaultTargetName(i)
}
