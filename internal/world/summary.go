package world

type ChangeReason string

const (
	ReasonCreated ChangeReason = "created"
	ReasonEvicted ChangeReason = "evicted"
)

// ChunkChange records one chunk entering or leaving the window.
type ChunkChange struct {
	Index  int
	Seed   int64
	XStart int
	XEnd   int
	Reason ChangeReason
}

// SlideSummary accumulates the chunk churn caused by one window resync.
type SlideSummary struct {
	changes []ChunkChange
}

func (s *SlideSummary) add(c *Chunk, reason ChangeReason) {
	s.changes = append(s.changes, ChunkChange{
		Index:  c.Index,
		Seed:   c.Seed,
		XStart: c.XStart,
		XEnd:   c.XEnd,
		Reason: reason,
	})
}

func (s *SlideSummary) Changes() []ChunkChange {
	if s == nil || len(s.changes) == 0 {
		return nil
	}
	return append([]ChunkChange(nil), s.changes...)
}

// Empty reports whether the resync left the window untouched.
func (s *SlideSummary) Empty() bool {
	return s == nil || len(s.changes) == 0
}

func (s *SlideSummary) Created() []int {
	return s.indices(ReasonCreated)
}

func (s *SlideSummary) Evicted() []int {
	return s.indices(ReasonEvicted)
}

func (s *SlideSummary) indices(reason ChangeReason) []int {
	if s == nil {
		return nil
	}
	var out []int
	for _, change := range s.changes {
		if change.Reason == reason {
			out = append(out, change.Index)
		}
	}
	return out
}

// Merge appends other's changes after s's.
func (s *SlideSummary) Merge(other *SlideSummary) {
	if other == nil {
		return
	}
	s.changes = append(s.changes, other.changes...)
}
