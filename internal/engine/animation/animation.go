// Package animation samples glTF keyframe animations and drives per-node
// pose overrides through the Animator component.
package animation

import (
	"fmt"
	"slices"
)

// Path is the node property a channel animates.
type Path int

const (
	Translation Path = iota
	Rotation
	Scale
)

func (p Path) String() string {
	switch p {
	case Translation:
		return "translation"
	case Rotation:
		return "rotation"
	case Scale:
		return "scale"
	}
	return fmt.Sprintf("Path(%d)", int(p))
}

// Channel binds a sampler to one property of one node.
type Channel struct {
	Node    int
	Path    Path
	Sampler int
}

// AnimatedNode lists the sampler serving each property of a node, -1 when
// the property is not animated.
type AnimatedNode struct {
	Translation int
	Rotation    int
	Scale       int
}

// noChannels is the AnimatedNode of a node the animation does not touch.
var noChannels = AnimatedNode{Translation: -1, Rotation: -1, Scale: -1}

// Animation is a named clip: a set of samplers and the nodes they drive.
type Animation struct {
	name     string
	samplers []*Sampler
	nodes    map[int]AnimatedNode
	order    []int // animated node indices, ascending
	duration float32
}

// New builds an animation from its samplers and channels. Rotation channels
// need 4-component samplers; translation and scale need 3.
func New(name string, samplers []*Sampler, channels []Channel) (*Animation, error) {
	a := &Animation{
		name:     name,
		samplers: samplers,
		nodes:    make(map[int]AnimatedNode),
	}

	for i, ch := range channels {
		if ch.Sampler < 0 || ch.Sampler >= len(samplers) {
			return nil, fmt.Errorf("animation %q channel %d: sampler %d out of range [0,%d)", name, i, ch.Sampler, len(samplers))
		}
		if ch.Node < 0 {
			return nil, fmt.Errorf("animation %q channel %d: negative node %d", name, i, ch.Node)
		}

		want := Vec3
		if ch.Path == Rotation {
			want = Vec4
		}
		if got := samplers[ch.Sampler].OutputKind(); got != want {
			return nil, fmt.Errorf("animation %q channel %d: %s needs %d components, sampler has %d", name, i, ch.Path, want, got)
		}

		an, ok := a.nodes[ch.Node]
		if !ok {
			an = noChannels
			a.order = append(a.order, ch.Node)
		}
		switch ch.Path {
		case Translation:
			an.Translation = ch.Sampler
		case Rotation:
			an.Rotation = ch.Sampler
		case Scale:
			an.Scale = ch.Sampler
		default:
			return nil, fmt.Errorf("animation %q channel %d: unsupported path %s", name, i, ch.Path)
		}
		a.nodes[ch.Node] = an
	}
	slices.Sort(a.order)

	for _, s := range samplers {
		a.duration = max(a.duration, s.LastTime())
	}
	return a, nil
}

// Name returns the clip name.
func (a *Animation) Name() string { return a.name }

// Duration is the largest last-keyframe time over all samplers.
func (a *Animation) Duration() float32 { return a.duration }

// AnimatedNode returns the samplers driving node, -1 for each absent channel.
func (a *Animation) AnimatedNode(node int) AnimatedNode {
	if an, ok := a.nodes[node]; ok {
		return an
	}
	return noChannels
}

// Nodes returns the animated node indices in ascending order.
func (a *Animation) Nodes() []int { return a.order }

// Sampler returns sampler i.
func (a *Animation) Sampler(i int) *Sampler { return a.samplers[i] }

// SamplerCount returns the number of samplers.
func (a *Animation) SamplerCount() int { return len(a.samplers) }
