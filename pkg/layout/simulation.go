package layout

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/rmax-ai/papermap/pkg/paper"
)

// goldenAngle spreads the initial seed positions on a phyllotaxis spiral
// so the first ticks start from a stable, deterministic arrangement.
const goldenAngle = math.Pi * (3 - 2.2360679774997896) // π(3−√5)

// Simulation iterates the force layout for one graph. It is not safe for
// concurrent use; the owning view drives it one Step per frame.
type Simulation struct {
	cfg   Config
	nodes []paper.Node
	pos   []r2.Vec
	vel   []r2.Vec
	index map[string]int
	links []resolvedLink
	alpha float64
}

type resolvedLink struct {
	source, target int
	distance       float64
}

// NewSimulation builds a simulation over a copy of the graph's nodes.
// Links whose endpoints are unknown node IDs are dropped. Pinned nodes
// start at, and never leave, their pinned coordinates.
func NewSimulation(cfg Config, g paper.Graph) *Simulation {
	s := &Simulation{
		cfg:   cfg,
		nodes: append([]paper.Node(nil), g.Nodes...),
		pos:   make([]r2.Vec, len(g.Nodes)),
		vel:   make([]r2.Vec, len(g.Nodes)),
		index: make(map[string]int, len(g.Nodes)),
		alpha: 1,
	}

	for i := range s.nodes {
		n := &s.nodes[i]
		s.index[n.ID] = i
		if n.Pinned() {
			s.pos[i] = r2.Vec{X: *n.FX, Y: *n.FY}
			continue
		}
		radius := 12 * math.Sqrt(float64(i)+0.5)
		angle := float64(i) * goldenAngle
		s.pos[i] = r2.Vec{X: radius * math.Cos(angle), Y: radius * math.Sin(angle)}
	}

	for _, l := range g.Links {
		si, ok := s.index[l.Source]
		if !ok {
			continue
		}
		ti, ok := s.index[l.Target]
		if !ok {
			continue
		}
		s.links = append(s.links, resolvedLink{
			source:   si,
			target:   ti,
			distance: cfg.LinkDistance(s.nodes[si].Group, s.nodes[ti].Group),
		})
	}

	return s
}

// Step advances the simulation one tick. It returns false once the
// simulation has cooled past the settle threshold ("engine stop");
// positions stop changing materially from then on.
func (s *Simulation) Step() bool {
	if s.alpha < s.cfg.AlphaMin {
		return false
	}
	s.alpha += (0 - s.alpha) * s.cfg.AlphaDecay

	s.applyLinks()
	s.applyCharge()
	s.applyCenter()
	s.applyCollision()
	s.integrate()

	return s.alpha >= s.cfg.AlphaMin
}

// Settle runs the simulation to rest, bounded by maxTicks.
func (s *Simulation) Settle(maxTicks int) {
	for i := 0; i < maxTicks && s.Step(); i++ {
	}
}

// Settled reports whether the simulation has reached rest.
func (s *Simulation) Settled() bool {
	return s.alpha < s.cfg.AlphaMin
}

// Position returns the current position of a node by ID.
func (s *Simulation) Position(id string) (r2.Vec, bool) {
	i, ok := s.index[id]
	if !ok {
		return r2.Vec{}, false
	}
	return s.pos[i], true
}

// Positions returns the current position of every node, keyed by ID.
func (s *Simulation) Positions() map[string]r2.Vec {
	out := make(map[string]r2.Vec, len(s.nodes))
	for id, i := range s.index {
		out[id] = s.pos[i]
	}
	return out
}

// Nodes returns the simulation's copy of the graph nodes.
func (s *Simulation) Nodes() []paper.Node {
	return s.nodes
}

// Links returns the node ID pairs of the links the simulation kept,
// dangling links having been dropped at construction.
func (s *Simulation) Links() []paper.Link {
	out := make([]paper.Link, len(s.links))
	for i, l := range s.links {
		out[i] = paper.Link{Source: s.nodes[l.source].ID, Target: s.nodes[l.target].ID}
	}
	return out
}

// PinAt overrides a node's pin and snaps it there immediately. The view
// uses this to re-assert the main node at the origin on settle, since
// collision resolution can nudge even a pinned neighbor's frame of
// reference.
func (s *Simulation) PinAt(id string, x, y float64) {
	i, ok := s.index[id]
	if !ok {
		return
	}
	s.nodes[i].Pin(x, y)
	s.pos[i] = r2.Vec{X: x, Y: y}
	s.vel[i] = r2.Vec{}
}

func (s *Simulation) applyLinks() {
	for _, l := range s.links {
		delta := r2.Sub(
			r2.Add(s.pos[l.target], s.vel[l.target]),
			r2.Add(s.pos[l.source], s.vel[l.source]),
		)
		dist := jiggled(math.Hypot(delta.X, delta.Y))
		k := (dist - l.distance) / dist * s.alpha * s.cfg.LinkStrength
		push := r2.Scale(k, delta)
		// Split the correction evenly; the original per-degree bias is
		// irrelevant at this graph size.
		s.vel[l.target] = r2.Sub(s.vel[l.target], r2.Scale(0.5, push))
		s.vel[l.source] = r2.Add(s.vel[l.source], r2.Scale(0.5, push))
	}
}

// applyCharge is the O(n²) many-body repulsion. Topic graphs top out at a
// few dozen nodes, so there is nothing to gain from a quadtree here.
func (s *Simulation) applyCharge() {
	for i := range s.pos {
		for j := i + 1; j < len(s.pos); j++ {
			delta := r2.Sub(s.pos[j], s.pos[i])
			distSq := delta.X*delta.X + delta.Y*delta.Y
			if distSq == 0 {
				distSq = 1e-6
			}
			k := s.cfg.ChargeStrength * s.alpha / distSq
			push := r2.Scale(k, delta)
			s.vel[i] = r2.Add(s.vel[i], push)
			s.vel[j] = r2.Sub(s.vel[j], push)
		}
	}
}

func (s *Simulation) applyCenter() {
	if len(s.pos) == 0 {
		return
	}
	var mean r2.Vec
	for _, p := range s.pos {
		mean = r2.Add(mean, p)
	}
	mean = r2.Scale(1/float64(len(s.pos)), mean)
	shift := r2.Scale(s.cfg.CenterStrength, mean)
	for i := range s.pos {
		if s.nodes[i].Pinned() {
			continue
		}
		s.pos[i] = r2.Sub(s.pos[i], shift)
	}
}

func (s *Simulation) applyCollision() {
	for i := range s.pos {
		ri := s.cfg.CollisionRadius(&s.nodes[i])
		for j := i + 1; j < len(s.pos); j++ {
			rj := s.cfg.CollisionRadius(&s.nodes[j])
			delta := r2.Sub(s.pos[j], s.pos[i])
			dist := jiggled(math.Hypot(delta.X, delta.Y))
			overlap := ri + rj - dist
			if overlap <= 0 {
				continue
			}
			push := r2.Scale(overlap/dist*0.5, delta)
			if !s.nodes[i].Pinned() {
				s.pos[i] = r2.Sub(s.pos[i], push)
			}
			if !s.nodes[j].Pinned() {
				s.pos[j] = r2.Add(s.pos[j], push)
			}
		}
	}
}

func (s *Simulation) integrate() {
	damp := 1 - s.cfg.VelocityDecay
	for i := range s.pos {
		if s.nodes[i].Pinned() {
			s.pos[i] = r2.Vec{X: *s.nodes[i].FX, Y: *s.nodes[i].FY}
			s.vel[i] = r2.Vec{}
			continue
		}
		s.vel[i] = r2.Scale(damp, s.vel[i])
		s.pos[i] = r2.Add(s.pos[i], s.vel[i])
	}
}

// jiggled guards divisions when two bodies occupy the same point.
func jiggled(dist float64) float64 {
	if dist < 1e-6 {
		return 1e-6
	}
	return dist
}
