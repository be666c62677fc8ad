package state

// Validate re-verifies every block in the chain against its predecessor
// using the same checks applied when a block is appended: index
// continuity, hash linkage, and proof-of-work self consistency. The
// first violation is reported with the failing block's index; a nil
// return means the chain is intact.
func (s *State) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.chain) == 0 {
		return ErrChainEmpty
	}

	for i := 1; i < len(s.chain); i++ {
		if err := s.chain[i].ValidateBlock(s.chain[i-1], s.provider, s.evHandler); err != nil {
			return &InvalidChainError{Index: s.chain[i].Index, Reason: err}
		}
	}

	return nil
}

// IsChainValid is the boolean wrapper around Validate kept for callers
// that only need the yes/no answer.
func (s *State) IsChainValid() bool {
	return s.Validate() == nil
}
