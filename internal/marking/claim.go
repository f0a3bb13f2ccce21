package marking

// Claim takes the first unclaimed question of the current exam, scanning in
// question order. It returns false when every question is claimed or the run
// has stopped.
func (s *State) Claim() (int, bool) {
	s.selection.Lock()
	defer s.selection.Unlock()

	if s.stop.Load() {
		return -1, false
	}
	for q := range s.done {
		if s.done[q].Load() {
			continue
		}
		if s.claimHook != nil {
			s.claimHook(q)
		}
		s.done[q].Store(true)
		s.claims.Add(1)
		return q, true
	}
	return -1, false
}

// Complete records that a claimed question has been marked and returns how
// many questions of the current exam are still unfinished. Claiming does not
// decrement, so zero means every question is marked, not merely handed out.
func (s *State) Complete() int {
	s.selection.Lock()
	defer s.selection.Unlock()

	remaining := s.remaining.Load() - 1
	if s.completeHook != nil {
		s.completeHook()
	}
	s.remaining.Store(remaining)
	s.completions.Add(1)
	return int(remaining)
}
