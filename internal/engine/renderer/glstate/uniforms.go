package glstate

// UniformCache remembers the last value uploaded to each uniform location of
// one program so unchanged values are not sent again.
type UniformCache struct {
	values map[int32]uniformValue
}

type uniformValue struct {
	n    int
	data [16]float32
}

// NewUniformCache creates an empty cache.
func NewUniformCache() *UniformCache {
	return &UniformCache{values: make(map[int32]uniformValue)}
}

// Changed records v for loc and reports whether it differs from the last
// recorded value. Inactive locations (-1) never need an upload.
func (u *UniformCache) Changed(loc int32, v ...float32) bool {
	if loc < 0 {
		return false
	}
	var next uniformValue
	next.n = copy(next.data[:], v)
	if prev, ok := u.values[loc]; ok && prev == next {
		return false
	}
	u.values[loc] = next
	return true
}

// Reset forgets every value, for example after relinking the program.
func (u *UniformCache) Reset() {
	clear(u.values)
}
