package work

// Batch is the ordered set of descriptors for one request. Resolution
// follows the slice order.
type Batch []*Descriptor

// Pending returns the descriptors that still need an outbound call.
func (b Batch) Pending() Batch {
	var out Batch
	for _, d := range b {
		if d.NeedsDispatch() {
			out = append(out, d)
		}
	}
	return out
}

// Of returns the first descriptor of the given kind, or nil.
func (b Batch) Of(kind Kind) *Descriptor {
	for _, d := range b {
		if d.Kind == kind {
			return d
		}
	}
	return nil
}

// SkipAfter marks every unfinished descriptor after d as Skipped and
// returns how many were skipped.
func (b Batch) SkipAfter(d *Descriptor) int {
	n := 0
	found := false
	for _, x := range b {
		if found && x.Skip() {
			n++
		}
		if x == d {
			found = true
		}
	}
	return n
}

// States names the state of each descriptor by kind, for logs.
func (b Batch) States() map[string]string {
	out := make(map[string]string, len(b))
	for _, d := range b {
		if d != nil {
			out[d.Kind.String()] = d.State().String()
		}
	}
	return out
}
