package cache

// hitResult is the outcome of a single getOrClaim: either a hit (possibly
// still invalid while another caller computes it) or a fresh claim giving the
// caller the duty to set or delete the key.
type hitResult[T any] struct {
	data    T
	valid   bool
	claimed bool
}

type Cache[T any] interface {
	getOrClaim(key string) hitResult[T]
	set(key string, data T)
	delete(key string)
	wait()
}

// Invalidate drops a key so the next reader recomputes it. Safe to call for
// keys that were never set.
func Invalidate[T any](cache Cache[T], key string) {
	cache.delete(key)
}
