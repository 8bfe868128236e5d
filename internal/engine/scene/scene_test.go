package scene

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/humangl/pkg/math"
)

// recorder logs every lifecycle call into a shared journal.
type recorder struct {
	BaseComponent
	name    string
	journal *[]string
}

func (r *recorder) OnWillUpdate(*Context) { *r.journal = append(*r.journal, "willUpdate:"+r.name) }
func (r *recorder) OnUpdate(*Context)     { *r.journal = append(*r.journal, "update:"+r.name) }
func (r *recorder) OnRender(*Context)     { *r.journal = append(*r.journal, "render:"+r.name) }
func (r *recorder) OnPostRender(*Context) { *r.journal = append(*r.journal, "postRender:"+r.name) }

type otherRecorder struct {
	recorder
}

type passive struct {
	BaseComponent
	value int
}

func TestFramePhaseOrdering(t *testing.T) {
	var journal []string
	s := New()
	for _, name := range []string{"a", "b"} {
		o := NewObject(name)
		_, err := AddComponent(o, &recorder{name: name + "1", journal: &journal})
		require.NoError(t, err)
		_, err = AddComponent(o, &otherRecorder{recorder{name: name + "2", journal: &journal}})
		require.NoError(t, err)
		s.Add(o)
	}

	s.Frame(NewContext())

	require.Len(t, journal, 16)
	phases := []string{"willUpdate", "update", "render", "postRender"}
	for i, entry := range journal {
		assert.Contains(t, entry, phases[i/4]+":", "entry %d", i)
	}

	lastUpdate, firstRender := -1, len(journal)
	for i, entry := range journal {
		switch {
		case len(entry) > 7 && entry[:7] == "update:":
			lastUpdate = i
		case len(entry) > 7 && entry[:7] == "render:" && i < firstRender:
			firstRender = i
		}
	}
	assert.Less(t, lastUpdate, firstRender, "every update must happen before any render")
}

func TestRunPhase(t *testing.T) {
	var journal []string
	s := New()
	o := NewObject("a")
	_, err := AddComponent(o, &recorder{name: "x", journal: &journal})
	require.NoError(t, err)
	s.Add(o)

	ctx := NewContext()
	s.RunPhase(ctx, PhaseUpdate)
	s.RunPhase(ctx, PhaseRender)

	assert.Equal(t, []string{"update:x", "render:x"}, journal)
	assert.Equal(t, "postRender", PhasePostRender.String())
}

func TestFrameSetsScene(t *testing.T) {
	s := New()
	ctx := NewContext()
	s.Frame(ctx)
	assert.Same(t, s, ctx.Scene)
}

func TestAddAndGetComponent(t *testing.T) {
	o := NewObject("golem")

	p, err := AddComponent(o, &passive{value: 7})
	require.NoError(t, err)
	assert.Same(t, o, p.Object())

	got, ok := GetComponent[*passive](o)
	require.True(t, ok)
	assert.Equal(t, 7, got.value)

	_, ok = GetComponent[*recorder](o)
	assert.False(t, ok)
}

func TestGetComponentIsExactType(t *testing.T) {
	var journal []string
	o := NewObject("x")
	_, err := AddComponent(o, &otherRecorder{recorder{name: "r", journal: &journal}})
	require.NoError(t, err)

	_, ok := GetComponent[*recorder](o)
	assert.False(t, ok, "an embedding type is not the embedded type")
	_, ok = GetComponent[*otherRecorder](o)
	assert.True(t, ok)
}

func TestAddDuplicateComponent(t *testing.T) {
	o := NewObject("golem")
	_, err := AddComponent(o, &passive{value: 1})
	require.NoError(t, err)

	_, err = AddComponent(o, &passive{value: 2})
	require.ErrorIs(t, err, ErrDuplicateComponent)

	got := MustGetComponent[*passive](o)
	assert.Equal(t, 1, got.value)
	assert.Len(t, o.Components(), 1)
}

func TestMustGetComponentPanics(t *testing.T) {
	o := NewObject("empty")
	assert.Panics(t, func() { MustGetComponent[*passive](o) })
}

func TestSceneFindAndRemove(t *testing.T) {
	s := New()
	a, b := NewObject("a"), NewObject("b")
	s.Add(a)
	s.Add(b)

	found, ok := s.Find("b")
	require.True(t, ok)
	assert.Same(t, b, found)

	assert.True(t, s.Remove(a.ID))
	assert.False(t, s.Remove(a.ID))
	assert.Equal(t, []*Object{b}, s.Objects())
}

func TestResources(t *testing.T) {
	r := NewResources()
	_, ok := Lookup[*passive](r)
	assert.False(t, ok)

	Provide(r, &passive{value: 3})
	got, ok := Lookup[*passive](r)
	require.True(t, ok)
	assert.Equal(t, 3, got.value)

	Provide(r, &passive{value: 4})
	assert.Equal(t, 4, MustLookup[*passive](r).value)
	assert.Panics(t, func() { MustLookup[*recorder](r) })
}

func TestTransformTRS(t *testing.T) {
	tr := NewTransform()
	assert.Equal(t, math.Identity(), tr.TRS())

	tr.Translation = math.Vec3{X: 1}
	tr.Scale = math.Vec3{X: 2, Y: 2, Z: 2}
	p := tr.TRS().TransformPoint(math.Vec3{X: 1})
	assert.True(t, p.ApproxEqual(math.Vec3{X: 3}, 1e-6), "got %v", p)
	assert.True(t, tr.Forward().ApproxEqual(math.Vec3{Z: -1}, 1e-6))
}

func TestClockTick(t *testing.T) {
	base := time.Unix(1000, 0)
	now := base
	c := NewClock()
	c.now = func() time.Time { return now }
	c.Start()

	now = base.Add(100 * time.Millisecond)
	info := c.Tick()
	assert.Equal(t, uint64(1), info.Count)
	assert.Equal(t, 100*time.Millisecond, info.Delta)

	now = base.Add(250 * time.Millisecond)
	info = c.Tick()
	assert.Equal(t, 150*time.Millisecond, info.Delta)
	assert.Equal(t, 250*time.Millisecond, info.Time)
	assert.InDelta(t, 0.15, info.DeltaSeconds(), 1e-6)
}
