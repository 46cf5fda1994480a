// Package layout places a topic graph with a force-directed simulation:
// link attraction with group-dependent rest distances, many-body repulsion,
// collision avoidance, and a centering pull toward the origin. The layered
// result — one central hub, topics orbiting it, subtopics orbiting their
// parent topic — comes entirely from the rest-distance rules.
package layout

import (
	"math"

	"github.com/rmax-ai/papermap/pkg/paper"
)

// Config holds the force parameters. Any renderer or engine honoring the
// same parameters produces an equivalent layout; the zero value is not
// usable, use DefaultConfig.
type Config struct {
	// ChargeStrength is the many-body repulsion constant (negative repels).
	ChargeStrength float64

	// Link rest distances by endpoint group pair. The layering invariant
	// is MainTopicDistance > DefaultLinkDistance > TopicSubtopicDistance.
	MainTopicDistance     float64
	TopicSubtopicDistance float64
	DefaultLinkDistance   float64

	// LinkStrength is the fixed rigidity applied to every link.
	LinkStrength float64

	// CollisionPadding is added to every node's visual radius when
	// resolving overlap.
	CollisionPadding float64

	// CenterStrength pulls the whole layout toward the origin per tick.
	CenterStrength float64

	// VelocityDecay is the per-tick velocity damping factor (0..1).
	VelocityDecay float64

	// AlphaDecay cools the simulation; AlphaMin is the settle threshold.
	AlphaDecay float64
	AlphaMin   float64
}

// DefaultConfig returns the force parameters used by the topic map.
func DefaultConfig() Config {
	return Config{
		ChargeStrength:        -120,
		MainTopicDistance:     120,
		TopicSubtopicDistance: 40,
		DefaultLinkDistance:   70,
		LinkStrength:          0.9,
		CollisionPadding:      3,
		CenterStrength:        0.08,
		VelocityDecay:         0.4,
		AlphaDecay:            0.0228,
		AlphaMin:              0.001,
	}
}

// LinkDistance returns the rest distance for a link joining the two
// groups, in either order: main↔topic longest, topic↔subtopic shortest,
// everything else the medium default.
func (c Config) LinkDistance(a, b paper.Group) float64 {
	switch {
	case pairIs(a, b, paper.GroupMain, paper.GroupTopic):
		return c.MainTopicDistance
	case pairIs(a, b, paper.GroupTopic, paper.GroupSubtopic):
		return c.TopicSubtopicDistance
	default:
		return c.DefaultLinkDistance
	}
}

// CollisionRadius returns the no-overlap radius for a node. It tracks the
// rendered radius (cube root of Val, the usual relative-size rule) plus
// padding.
func (c Config) CollisionRadius(n *paper.Node) float64 {
	return 4*math.Cbrt(math.Max(n.Val, 1)) + c.CollisionPadding
}

func pairIs(a, b, x, y paper.Group) bool {
	return (a == x && b == y) || (a == y && b == x)
}
