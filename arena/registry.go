package arena

import "sync"

var (
	registryMu  sync.Mutex
	outstanding int
)

func track(delta int) {
	registryMu.Lock()
	outstanding += delta
	registryMu.Unlock()
}

// Outstanding returns the number of arenas created and not yet destroyed in
// this process. A steadily rising value points at a missing Destroy.
func Outstanding() int {
	registryMu.Lock()
	defer registryMu.Unlock()
	return outstanding
}
