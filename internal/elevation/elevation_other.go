//go:build !windows

package elevation

// ForPlatform returns nil: only Windows gates priority classes behind
// elevation. The wrapper-delegation variant treats elevation as advisory
// and degrades instead.
func ForPlatform(store Store) *Negotiator {
	return nil
}
