package scene

import (
	"fmt"
	"reflect"
	"time"
)

// FrameInfo describes the frame being processed.
type FrameInfo struct {
	Count uint64        // frames completed before this one
	Time  time.Duration // since the clock started
	Delta time.Duration // since the previous frame
}

// DeltaSeconds returns Delta as float32 seconds.
func (f FrameInfo) DeltaSeconds() float32 {
	return float32(f.Delta.Seconds())
}

// Context is handed to every lifecycle hook.
type Context struct {
	Frame     FrameInfo
	Scene     *Scene
	Resources *Resources
}

// NewContext creates a context with an empty resource registry.
func NewContext() *Context {
	return &Context{Resources: NewResources()}
}

// Resources holds engine-wide services keyed by their type, such as the
// renderer, the active camera and the input state. At most one value per
// type is stored.
type Resources struct {
	items map[reflect.Type]any
}

// NewResources creates an empty registry.
func NewResources() *Resources {
	return &Resources{items: make(map[reflect.Type]any)}
}

// Provide registers v under type T, replacing any previous value.
func Provide[T any](r *Resources, v T) {
	r.items[reflect.TypeFor[T]()] = v
}

// Lookup returns the value registered under T.
func Lookup[T any](r *Resources) (T, bool) {
	v, ok := r.items[reflect.TypeFor[T]()]
	if !ok {
		var zero T
		return zero, false
	}
	return v.(T), true
}

// MustLookup is like Lookup but panics when T was never provided.
func MustLookup[T any](r *Resources) T {
	v, ok := Lookup[T](r)
	if !ok {
		panic(fmt.Sprintf("scene: no resource of type %s", reflect.TypeFor[T]()))
	}
	return v
}

// Clock produces FrameInfo values from wall time.
type Clock struct {
	start time.Time
	last  time.Time
	info  FrameInfo
	now   func() time.Time
}

// NewClock creates a stopped clock.
func NewClock() *Clock {
	return &Clock{now: time.Now}
}

// Start resets the clock.
func (c *Clock) Start() {
	c.start = c.now()
	c.last = c.start
	c.info = FrameInfo{}
}

// Tick records a frame boundary and returns the info for the next frame.
func (c *Clock) Tick() FrameInfo {
	now := c.now()
	c.info = FrameInfo{
		Count: c.info.Count + 1,
		Time:  now.Sub(c.start),
		Delta: now.Sub(c.last),
	}
	c.last = now
	return c.info
}

// Info returns the most recent frame info.
func (c *Clock) Info() FrameInfo {
	return c.info
}
