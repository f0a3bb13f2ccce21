package marking

import (
	"sync"

	"markpool/internal/config"
)

// Guard is a mutual-exclusion primitive protecting one partition of State.
type Guard interface {
	Lock()
	Unlock()
}

type nopGuard struct{}

func (nopGuard) Lock()   {}
func (nopGuard) Unlock() {}

func newGuard(mode config.Mode) Guard {
	if mode == config.ModeUnsynchronized {
		return nopGuard{}
	}
	return &sync.Mutex{}
}
