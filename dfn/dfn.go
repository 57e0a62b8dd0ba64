// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package dfn implements the explicit Discrete Fracture Network
// generator (C8): stochastic nucleation and propagation of individual
// fracture segments across the grid, honouring cell boundaries,
// cross-cell azimuth consistency, stress-shadow relay linking,
// probabilistic sub-unit nucleation, cross-cutting intersection, and
// optional boundary cropping.
package dfn

import (
	"container/heap"
	"math"
	"sort"

	"github.com/cpmech/gosl/gm"
	"github.com/cpmech/gosl/num"

	"github.com/dorivalpedroso/dfmgen/fracture"
	"github.com/dorivalpedroso/dfmgen/grid"
	"github.com/dorivalpedroso/dfmgen/rng"
)

// NucleationLimitMode selects how the Poisson/deterministic nucleation
// switch in §4.6 step 1 is resolved.
type NucleationLimitMode int

const (
	FixedLimit NucleationLimitMode = iota
	AutomaticLimit                 // small cells always use the probabilistic draw
)

// Ordering selects the global propagation schedule (§4.6): BySet
// advances every tip of one set before moving to the next, so
// intersection/shadow checks only ever see older-set segments;
// ByNucleationTime interleaves every tip across every set by nucleation
// order, via a global priority queue, so a late-nucleating tip in set 0
// can be cross-cut by an earlier-nucleating tip in set 1.
type Ordering int

const (
	BySet Ordering = iota
	ByNucleationTime
)

// Config holds the DFN generation controls (§6 "DFN controls").
type Config struct {
	SeedDensityRate                      float64 // nucleation events per clear-zone volume per second
	ProbabilisticFractureNucleationLimit float64
	NucleationLimitMode                  NucleationLimitMode
	SmallCellVolumeThreshold             float64 // used when NucleationLimitMode==AutomaticLimit

	MaxConsistencyAngle float64 // radians
	LinkStressShadows   bool
	CropAtBoundary      bool

	MinExplicitMicrofractureRadius float64
	NuFPoints                      int // 0 => disk, >=3 => inscribed polygon

	Ordering Ordering

	TimestepDuration float64 // s; virtual-timestep length for the DFN walk
	NumTimesteps     int

	// BinsPerCell subdivides each cell's unit square for the gm.Bins
	// spatial index used for shadow/exclusion/intersection lookups.
	BinsPerCell int

	MasterSeed int64
}

// TipState is the propagation status of a macrofracture tip.
type TipState int

const (
	Propagating TipState = iota
	Terminated
	CrossCut
)

// MacrofractureSegment is a straight segment of a macrofracture (or, in
// a relay chain, one link of it), in cell-local IJ coordinates.
type MacrofractureSegment struct {
	CellRow, CellCol int
	SetIndex         int
	Azimuth          float64
	P1, P2           grid.PointXYZ // IJ-local coordinates, Z unused
	Tip              TipState
	Next             *MacrofractureSegment // relay-linked continuation, if any
}

// Microfracture is a centre point + radius, optionally polygonised.
type Microfracture struct {
	CellRow, CellCol int
	Center           grid.PointXYZ
	Radius           float64
	Polygon          []grid.PointXYZ // len==0 => emit as a disk
	Area             float64
}

// Builder constructs the explicit DFN from a grid whose cells already
// carry a completed TimestepSeries per dip set.
type Builder struct {
	Grid   *grid.FractureGrid
	Config Config

	Segments       []*MacrofractureSegment
	Microfractures []*Microfracture

	streams map[int]*rng.Stream // cell linear index -> stream
	segBins map[int]*gm.Bins    // cell linear index -> spatial index of segment positions
	nextSeq int64
}

// NewBuilder allocates a Builder with one deterministic RNG stream per
// cell, derived from Config.MasterSeed (§5).
func NewBuilder(g *grid.FractureGrid, cfg Config) *Builder {
	b := &Builder{
		Grid: g, Config: cfg,
		streams: make(map[int]*rng.Stream, len(g.Cells)),
		segBins: make(map[int]*gm.Bins, len(g.Cells)),
	}
	seeds := rng.MasterSeeds(cfg.MasterSeed, len(g.Cells))
	for i := range g.Cells {
		b.streams[i] = rng.NewStream(seeds[i], 0)
	}
	return b
}

func (b *Builder) cellIndex(c *grid.Cell) int {
	return c.Row*b.Grid.Cols + c.Col
}

// binsFor lazily builds the gm.Bins spatial index over a cell's unit
// IJ-local square [0,1]x[0,1], mirroring out.NodBins/out.IpsBins's
// Init-once-then-Append pattern, used here for nearby-segment lookups
// instead of nearby-node/integration-point lookups.
func (b *Builder) binsFor(cellIdx int) *gm.Bins {
	bins, ok := b.segBins[cellIdx]
	if !ok {
		bins = new(gm.Bins)
		ndiv := b.Config.BinsPerCell
		if ndiv <= 0 {
			ndiv = 10
		}
		bins.Init([]float64{0, 0}, []float64{1, 1}, ndiv)
		b.segBins[cellIdx] = bins
	}
	return bins
}

// recordPosition appends a segment's current position to its cell's
// spatial index so later lookups (shadow, exclusion, cross-cut) can find
// it. The position is normally within [0,1]²; a relay step or a corner
// crossing can place it outside, and Append's result is not checked.
func (b *Builder) recordPosition(cellIdx, segID int, pos grid.PointXYZ) {
	bins := b.binsFor(cellIdx)
	bins.Append([]float64{pos.X, pos.Y}, segID)
}

// activeTip tracks one propagating segment chain end, independent of
// its owning cell's Sets slice (a tip may have crossed into a
// neighbouring cell since nucleation).
type activeTip struct {
	seg      *MacrofractureSegment
	idx      int // index of seg within Builder.Segments
	cellRow  int
	cellCol  int
	setIndex int
	azimuth  float64
	pos      grid.PointXYZ // current tip position, IJ-local to cellRow/cellCol
	seq      int64         // global nucleation order, for ByNucleationTime
}

// tipHeap is a container/heap.Interface min-heap over activeTip.seq,
// giving ByNucleationTime a genuine global priority queue rather than a
// per-set or per-cell ordering, mirroring the nodePQ distance-ordered
// heap the teacher's shortest-path driver keeps.
type tipHeap []*activeTip

func (h tipHeap) Len() int            { return len(h) }
func (h tipHeap) Less(i, j int) bool  { return h[i].seq < h[j].seq }
func (h tipHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *tipHeap) Push(x interface{}) { *h = append(*h, x.(*activeTip)) }
func (h *tipHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// orderedTips returns tips in the schedule Config.Ordering selects
// (§4.6): BySet groups every tip of one set together; ByNucleationTime
// drains a global priority queue keyed by nucleation sequence, so
// cross-cut/shadow checks made while processing tip k see every
// earlier-nucleated tip's already-updated position regardless of set.
func (b *Builder) orderedTips(tips []*activeTip) []*activeTip {
	ordered := make([]*activeTip, len(tips))
	copy(ordered, tips)
	switch b.Config.Ordering {
	case ByNucleationTime:
		pq := make(tipHeap, len(ordered))
		copy(pq, ordered)
		heap.Init(&pq)
		ordered = ordered[:0]
		for pq.Len() > 0 {
			ordered = append(ordered, heap.Pop(&pq).(*activeTip))
		}
	default: // BySet
		sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].setIndex < ordered[j].setIndex })
	}
	return ordered
}

// Build walks the merged global timeline across every cell and set,
// nucleating, propagating, cross-cell linking, stress-shadow
// terminating, intersecting, and (optionally) cropping segments, then
// emitting microfractures above the explicit-radius cutoff (§4.6).
func (b *Builder) Build() error {
	var tips []*activeTip
	for step := 0; step < b.Config.NumTimesteps; step++ {
		dt := b.Config.TimestepDuration

		// 1. nucleate new seeds per cell per set, subject to stress-shadow
		// exclusion (§4.6 step 1).
		for _, cell := range b.Grid.Cells {
			cellIdx := b.cellIndex(cell)
			for si, set := range cell.Sets {
				lambda := b.clearZoneVolume(cell) * b.Config.SeedDensityRate * dt
				n := b.nucleationCount(cell, lambda)
				stream := b.streams[cellIdx]
				for k := 0; k < n; k++ {
					pos, ok := b.sampleNucleationPos(cell, si, stream)
					if !ok {
						continue
					}
					seg := &MacrofractureSegment{
						CellRow: cell.Row, CellCol: cell.Col, SetIndex: si,
						Azimuth: set.Azimuth, P1: pos, P2: pos, Tip: Propagating,
					}
					b.Segments = append(b.Segments, seg)
					idx := len(b.Segments) - 1
					b.recordPosition(cellIdx, idx, pos)
					tips = append(tips, &activeTip{
						seg: seg, idx: idx, cellRow: cell.Row, cellCol: cell.Col,
						setIndex: si, azimuth: set.Azimuth, pos: pos, seq: b.nextSeq,
					})
					b.nextSeq++
				}
			}
		}

		// 2-5. propagate every active tip, in the configured schedule,
		// handling boundary crossing, stress-shadow termination and
		// cross-cutting intersection.
		var next []*activeTip
		for _, t := range b.orderedTips(tips) {
			if t.seg.Tip != Propagating {
				continue
			}
			cell := b.Grid.At(t.cellRow, t.cellCol)
			if cell == nil {
				continue
			}
			rate := b.meanPropagationRate(cell, t.setIndex)
			step := rate * dt
			dx := math.Sin(t.azimuth) * step
			dy := math.Cos(t.azimuth) * step
			newPos := grid.PointXYZ{X: t.pos.X + dx, Y: t.pos.Y + dy}

			if _, ok := b.findCrossCut(cell, t, newPos); ok {
				t.seg.Tip = CrossCut
				t.seg.P2 = newPos
				continue
			}

			if b.crossesShadowAt(cell, t, newPos) {
				if b.Config.LinkStressShadows {
					relay := &MacrofractureSegment{
						CellRow: t.cellRow, CellCol: t.cellCol, SetIndex: t.setIndex,
						Azimuth: t.azimuth, P1: t.pos, P2: newPos, Tip: Propagating,
					}
					t.seg.Next = relay
					b.Segments = append(b.Segments, relay)
					t.idx = len(b.Segments) - 1
					b.recordPosition(b.cellIndex(cell), t.idx, newPos)
					t.seg = relay
					t.pos = newPos
					next = append(next, t)
				} else {
					t.seg.Tip = Terminated
					t.seg.P2 = newPos
				}
				continue
			}

			if newPos.X < 0 || newPos.X > 1 || newPos.Y < 0 || newPos.Y > 1 {
				crossed, ok := b.crossBoundary(cell, t, newPos)
				if ok {
					b.recordPosition(b.cellIndex(b.Grid.At(crossed.cellRow, crossed.cellCol)), crossed.idx, crossed.pos)
					next = append(next, crossed)
					continue
				}
				t.seg.Tip = Terminated
				if b.Config.CropAtBoundary {
					t.seg.P2 = clampUnit(newPos)
				} else {
					t.seg.P2 = newPos
				}
				continue
			}

			t.seg.P2 = newPos
			t.pos = newPos
			b.recordPosition(b.cellIndex(cell), t.idx, newPos)
			next = append(next, t)
		}
		tips = next
	}

	b.emitMicrofractures()
	return nil
}

func clampUnit(p grid.PointXYZ) grid.PointXYZ {
	clamp := func(v float64) float64 {
		if v < 0 {
			return 0
		}
		if v > 1 {
			return 1
		}
		return v
	}
	return grid.PointXYZ{X: clamp(p.X), Y: clamp(p.Y)}
}

// crossBoundary looks up the matching set in the neighbour cell by
// minimising azimuth mismatch; rejects (returns ok=false) if the
// mismatch exceeds MaxConsistencyAngle (§4.6 step 3).
func (b *Builder) crossBoundary(cell *grid.Cell, t *activeTip, pos grid.PointXYZ) (*activeTip, bool) {
	var dir grid.Direction
	var wrapped grid.PointXYZ
	switch {
	case pos.Y > 1:
		dir, wrapped = grid.North, grid.PointXYZ{X: pos.X, Y: pos.Y - 1}
	case pos.Y < 0:
		dir, wrapped = grid.South, grid.PointXYZ{X: pos.X, Y: pos.Y + 1}
	case pos.X > 1:
		dir, wrapped = grid.East, grid.PointXYZ{X: pos.X - 1, Y: pos.Y}
	default:
		dir, wrapped = grid.West, grid.PointXYZ{X: pos.X + 1, Y: pos.Y}
	}
	neighbour, ok := b.Grid.Neighbor(cell, dir)
	if !ok {
		return nil, false
	}
	bestIdx, bestMismatch := -1, math.Inf(1)
	for si, s := range neighbour.Sets {
		mismatch := angleMismatch(s.Azimuth, t.azimuth)
		if mismatch < bestMismatch {
			bestMismatch, bestIdx = mismatch, si
		}
	}
	if bestIdx < 0 || bestMismatch > b.Config.MaxConsistencyAngle {
		return nil, false
	}
	seg := &MacrofractureSegment{
		CellRow: neighbour.Row, CellCol: neighbour.Col, SetIndex: bestIdx,
		Azimuth: neighbour.Sets[bestIdx].Azimuth, P1: wrapped, P2: wrapped, Tip: Propagating,
	}
	t.seg.Next = seg
	b.Segments = append(b.Segments, seg)
	return &activeTip{
		seg: seg, idx: len(b.Segments) - 1, cellRow: neighbour.Row, cellCol: neighbour.Col,
		setIndex: bestIdx, azimuth: neighbour.Sets[bestIdx].Azimuth, pos: wrapped, seq: t.seq,
	}, true
}

func angleMismatch(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), math.Pi)
	if d > math.Pi/2 {
		d = math.Pi - d
	}
	return d
}

// nearbySegments queries the cell's spatial index for segments whose
// recorded position lies within radius of pos, excluding own, and
// returns their indices into b.Segments.
func (b *Builder) nearbySegments(cellIdx int, pos grid.PointXYZ, radius float64, own *MacrofractureSegment) []int {
	if radius <= 0 {
		return nil
	}
	bins, ok := b.segBins[cellIdx]
	if !ok {
		return nil
	}
	a := []float64{pos.X, pos.Y}
	ids := bins.FindAlongLine(a, a, radius)
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if id < 0 || id >= len(b.Segments) {
			continue
		}
		if b.Segments[id] == own {
			continue
		}
		out = append(out, id)
	}
	return out
}

// crossesShadowAt is the per-tip geometric stress-shadow test (§4.6
// step 5 / §4.7): a tip enters another segment's shadow once its
// candidate position falls within the tip's own set's mean shadow width
// (for the two azimuths) of that segment's end point P2, using the same
// ShadowGeometry.MeanWidth kernel the
// implicit calculation uses for cross-set interaction, rather than the
// cell-wide clear-zone aggregate.
func (b *Builder) crossesShadowAt(cell *grid.Cell, t *activeTip, pos grid.PointXYZ) bool {
	if t.setIndex >= len(cell.Sets) {
		return false
	}
	own := cell.Sets[t.setIndex]
	geom := own.ShadowGeometry()
	maxWidth := math.Max(geom.Waz, geom.Wss)
	cellIdx := b.cellIndex(cell)
	for _, id := range b.nearbySegments(cellIdx, pos, maxWidth, t.seg) {
		other := b.Segments[id]
		if other.CellRow != cell.Row || other.CellCol != cell.Col {
			continue
		}
		if other.SetIndex >= len(cell.Sets) {
			continue
		}
		delta := t.azimuth - other.Azimuth
		width := geom.MeanWidth(delta)
		if width <= 0 {
			continue
		}
		if distance(pos, other.P2) < width {
			return true
		}
	}
	return false
}

// insideExclusionZone reports whether a candidate nucleation position
// falls within radius of an existing segment's exclusion zone (§4.6
// step 1's "subject to stress-shadow exclusion"), using the same
// ExclusionVolume kernel as the implicit calculation rather than
// accepting every drawn position unconditionally.
func (b *Builder) insideExclusionZone(cell *grid.Cell, setIndex int, pos grid.PointXYZ) bool {
	if setIndex >= len(cell.Sets) {
		return false
	}
	own := cell.Sets[setIndex]
	geom := own.ShadowGeometry()
	maxWidth := math.Max(geom.Waz, geom.Wss)
	cellIdx := b.cellIndex(cell)
	for _, id := range b.nearbySegments(cellIdx, pos, maxWidth, nil) {
		other := b.Segments[id]
		if other.CellRow != cell.Row || other.CellCol != cell.Col {
			continue
		}
		density := fracture.ActiveDensity(cell.Sets[setIndex])
		delta := own.Azimuth - other.Azimuth
		excl := geom.ExclusionVolume(delta, density, density)
		if excl <= 0 {
			continue
		}
		if distance(pos, other.P2) < excl {
			return true
		}
	}
	return false
}

// sampleNucleationPos draws a candidate position and resamples a bounded
// number of times if it falls inside an existing segment's exclusion
// zone, giving up (ok=false) rather than looping forever in a densely
// populated cell.
func (b *Builder) sampleNucleationPos(cell *grid.Cell, setIndex int, stream *rng.Stream) (grid.PointXYZ, bool) {
	const maxAttempts = 8
	for attempt := 0; attempt < maxAttempts; attempt++ {
		pos := grid.PointXYZ{X: stream.Uniform01(), Y: stream.Uniform01()}
		if !b.insideExclusionZone(cell, setIndex, pos) {
			return pos, true
		}
	}
	return grid.PointXYZ{}, false
}

// findCrossCut implements §4.6 step 5's "intersection with a
// perpendicular/oblique segment: terminate; mark cross-cut". A
// candidate step is cross-cut when it geometrically intersects an
// already-placed segment from a differently oriented set; same-set
// segments never cross-cut each other here since they share an azimuth
// band and are handled by the shadow/exclusion tests instead.
func (b *Builder) findCrossCut(cell *grid.Cell, t *activeTip, newPos grid.PointXYZ) (*MacrofractureSegment, bool) {
	cellIdx := b.cellIndex(cell)
	radius := distance(t.pos, newPos)
	if radius <= 0 {
		return nil, false
	}
	for _, id := range b.nearbySegments(cellIdx, newPos, radius, t.seg) {
		other := b.Segments[id]
		if other.CellRow != cell.Row || other.CellCol != cell.Col {
			continue
		}
		if other.SetIndex == t.setIndex {
			continue
		}
		if angleMismatch(other.Azimuth, t.azimuth) < 1e-9 {
			continue
		}
		if segmentsIntersect(t.pos, newPos, other.P1, other.P2) {
			return other, true
		}
	}
	return nil, false
}

func distance(a, b grid.PointXYZ) float64 {
	dx, dy := a.X-b.X, a.Y-b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// orientation2D returns the sign of the cross product (q-p)x(r-q):
// 0 collinear, 1 clockwise, 2 counter-clockwise.
func orientation2D(p, q, r grid.PointXYZ) int {
	val := (q.Y-p.Y)*(r.X-q.X) - (q.X-p.X)*(r.Y-q.Y)
	switch {
	case math.Abs(val) < 1e-15:
		return 0
	case val > 0:
		return 1
	default:
		return 2
	}
}

func onSegment(p, q, r grid.PointXYZ) bool {
	return q.X <= math.Max(p.X, r.X) && q.X >= math.Min(p.X, r.X) &&
		q.Y <= math.Max(p.Y, r.Y) && q.Y >= math.Min(p.Y, r.Y)
}

// segmentsIntersect is the standard orientation-based 2-D segment
// intersection test, including the collinear-overlap special cases.
func segmentsIntersect(p1, p2, q1, q2 grid.PointXYZ) bool {
	o1 := orientation2D(p1, p2, q1)
	o2 := orientation2D(p1, p2, q2)
	o3 := orientation2D(q1, q2, p1)
	o4 := orientation2D(q1, q2, p2)

	if o1 != o2 && o3 != o4 {
		return true
	}
	if o1 == 0 && onSegment(p1, q1, p2) {
		return true
	}
	if o2 == 0 && onSegment(p1, q2, p2) {
		return true
	}
	if o3 == 0 && onSegment(q1, p1, q2) {
		return true
	}
	if o4 == 0 && onSegment(q1, p2, q2) {
		return true
	}
	return false
}

func (b *Builder) meanPropagationRate(cell *grid.Cell, setIndex int) float64 {
	if setIndex >= len(cell.Sets) {
		return 0
	}
	d := cell.Sets[setIndex].Mode1
	return d.Params.MeanPropagationRate
}

func (b *Builder) clearZoneVolume(cell *grid.Cell) float64 {
	if len(cell.Sets) == 0 {
		return 1
	}
	geoms := fracture.BuildGeometries(cell.Sets, false)
	_, _, thetaPrimeAll := fracture.InteractAllSets(cell.Sets, geoms)
	vol := 1.0
	clear := vol - thetaPrimeAll
	if clear < 0 {
		return 0
	}
	return clear
}

// nucleationCount implements the probabilistic/deterministic switch of
// §4.6 step 1.
func (b *Builder) nucleationCount(cell *grid.Cell, lambda float64) int {
	stream := b.streams[b.cellIndex(cell)]
	small := b.Config.NucleationLimitMode == AutomaticLimit &&
		cell.Volume(1, 1) < b.Config.SmallCellVolumeThreshold
	if lambda < b.Config.ProbabilisticFractureNucleationLimit || small {
		return stream.Poisson(lambda)
	}
	return int(math.Round(lambda))
}

// emitMicrofractures emits one microfracture per dip set per cell, at a
// random centre with radius half the dip set's final MFP32, whenever
// that radius is at least the explicit cutoff, as disks (NuFPoints<3)
// or inscribed regular polygons (NuFPoints>=3) (§4.6 step 7).
func (b *Builder) emitMicrofractures() {
	for _, cell := range b.Grid.Cells {
		for si, set := range cell.Sets {
			for _, d := range set.DipSets() {
				last := d.Series.Last()
				radius := last.MFP32 / 2
				if radius < b.Config.MinExplicitMicrofractureRadius {
					continue
				}
				stream := b.streams[b.cellIndex(cell)]
				center := grid.PointXYZ{X: stream.Uniform01(), Y: stream.Uniform01()}
				mf := &Microfracture{CellRow: cell.Row, CellCol: cell.Col, Center: center, Radius: radius}
				if b.Config.NuFPoints >= 3 {
					mf.Polygon = regularPolygon(center, radius, b.Config.NuFPoints)
					mf.Area = polygonArea(mf.Polygon)
				} else {
					mf.Area = math.Pi * radius * radius
				}
				b.Microfractures = append(b.Microfractures, mf)
				_ = si
			}
		}
	}
}

// polygonArea integrates a convex polygon's upper- and lower-boundary
// y(x) profiles with num.Trapz and returns the area between them,
// the same line-integration idiom out/results.go uses for along-line
// result curves, applied here to a closed microfracture boundary.
func polygonArea(pts []grid.PointXYZ) float64 {
	n := len(pts)
	if n < 3 {
		return 0
	}
	minI, maxI := 0, 0
	for i, p := range pts {
		if p.X < pts[minI].X {
			minI = i
		}
		if p.X > pts[maxI].X {
			maxI = i
		}
	}
	var upperX, upperY, lowerX, lowerY []float64
	for i := minI; ; i = (i + 1) % n {
		upperX = append(upperX, pts[i].X)
		upperY = append(upperY, pts[i].Y)
		if i == maxI {
			break
		}
	}
	for i := minI; ; i = (i - 1 + n) % n {
		lowerX = append(lowerX, pts[i].X)
		lowerY = append(lowerY, pts[i].Y)
		if i == maxI {
			break
		}
	}
	return math.Abs(num.Trapz(upperX, upperY) - num.Trapz(lowerX, lowerY))
}

func regularPolygon(center grid.PointXYZ, radius float64, n int) []grid.PointXYZ {
	pts := make([]grid.PointXYZ, n)
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = grid.PointXYZ{
			X: center.X + radius*math.Cos(theta),
			Y: center.Y + radius*math.Sin(theta),
		}
	}
	return pts
}
