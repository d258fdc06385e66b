package speech

// Results maps output paths to per-section success, preserving the order
// sections were processed in. It is the only artifact a run hands back;
// anything finer-grained lives in the logs.
type Results struct {
	paths  []string
	status map[string]bool
}

// NewResults creates an empty result set.
func NewResults() *Results {
	return &Results{status: make(map[string]bool)}
}

// Set records the outcome for path, keeping first-insertion order.
func (r *Results) Set(path string, ok bool) {
	if _, seen := r.status[path]; !seen {
		r.paths = append(r.paths, path)
	}
	r.status[path] = ok
}

// Get reports the outcome recorded for path.
func (r *Results) Get(path string) (bool, bool) {
	ok, seen := r.status[path]
	return ok, seen
}

// Paths returns the recorded output paths in processing order.
func (r *Results) Paths() []string {
	return append([]string(nil), r.paths...)
}

// Len returns the number of sections processed.
func (r *Results) Len() int {
	return len(r.paths)
}

// Counts returns how many sections succeeded and failed.
func (r *Results) Counts() (succeeded, failed int) {
	for _, path := range r.paths {
		if r.status[path] {
			succeeded++
		} else {
			failed++
		}
	}
	return succeeded, failed
}
