package game

import (
	"math/rand"
	"strconv"
)

// portalMinDistance is the minimum Manhattan distance a portal (and at
// least one dummy carving target) must keep from the start point, so the
// generated maze isn't trivially short.
func (m *Map) portalMinDistance() int {
	return (m.Width + m.Height) / 2
}

// GenerateRandomPortal samples a point uniformly from the interior until
// it differs from the start point, the end point, every existing portal,
// and sits at or beyond portalMinDistance from the start. It gives up
// after 100 attempts. Portals are named "{map name}-{index}".
func (m *Map) GenerateRandomPortal(linkedMapName string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Width < 3 || m.Height < 3 {
		return "", &ErrPortalPlacementFailed{MapName: m.Name}
	}

	forbidden := map[Point]bool{m.StartPoint: true}
	if m.EndPoint != nil {
		forbidden[*m.EndPoint] = true
	}
	for _, p := range m.portals {
		forbidden[p.Position] = true
	}
	minDist := m.portalMinDistance()

	for attempt := 0; attempt < 100; attempt++ {
		pt := Point{X: randInterior(m.Width), Y: randInterior(m.Height)}
		if forbidden[pt] {
			continue
		}
		if pt.ManhattanDistance(m.StartPoint) < minDist {
			continue
		}
		name := portalName(m.Name, len(m.portals))
		m.portals = append(m.portals, Portal{Position: pt, Name: name, LinkedMapName: linkedMapName})
		return name, nil
	}
	return "", &ErrPortalPlacementFailed{MapName: m.Name}
}

func portalName(mapName string, index int) string {
	return mapName + "-" + strconv.Itoa(index)
}

func randInterior(dim int) int {
	return 1 + rand.Intn(dim-2)
}

// GenerateRandomObstacles carves a solvable, non-trivial maze into the
// carve range using randomized-DFS carving toward a main target plus several
// dummy targets, verified by BFS connectivity and a minimum obstacle
// floor. isTerminal selects the main target: the end point on the
// terminal map, else the first portal's position.
func (m *Map) GenerateRandomObstacles(isTerminal bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	mainTarget, err := m.mainTargetLocked(isTerminal)
	if err != nil {
		return err
	}

	minObstacles := 2 * ((m.Width - 2) + (m.Height - 2))

	for outer := 0; outer < 10; outer++ {
		obstacles := m.freshInteriorObstaclesLocked()
		delete(obstacles, m.StartPoint)

		dummies, ok := m.pickDummyTargetsLocked(mainTarget)
		if !ok {
			continue
		}

		targets := make([]Point, 0, 1+len(dummies))
		targets = append(targets, mainTarget)
		targets = append(targets, dummies...)

		for _, target := range targets {
			carveTowardTarget(obstacles, m.StartPoint, target, m.Width, m.Height)
		}

		if !bfsConnected(obstacles, m.StartPoint, mainTarget, m.Width, m.Height) {
			continue
		}
		if len(obstacles) < minObstacles {
			continue
		}

		m.obstacles = obstacles
		return nil
	}
	return &ErrObstacleGenerationFailed{MapName: m.Name}
}

// mainTargetLocked resolves the maze's main target. Caller must hold m.mu.
func (m *Map) mainTargetLocked(isTerminal bool) (Point, error) {
	if isTerminal {
		if m.EndPoint == nil {
			return Point{}, &ErrObstacleGenerationFailed{MapName: m.Name}
		}
		return *m.EndPoint, nil
	}
	if len(m.portals) == 0 {
		return Point{}, &ErrObstacleGenerationFailed{MapName: m.Name}
	}
	return m.portals[0].Position, nil
}

// freshInteriorObstaclesLocked marks every cell of the carve range (see
// inCarveRange: the grid less its top/left wall, so including the
// bottom/right edge) as obstacled. Caller must hold m.mu.
func (m *Map) freshInteriorObstaclesLocked() map[Point]struct{} {
	obstacles := make(map[Point]struct{}, (m.Width-1)*(m.Height-1))
	for x := 1; x <= m.Width-1; x++ {
		for y := 1; y <= m.Height-1; y++ {
			obstacles[Point{X: x, Y: y}] = struct{}{}
		}
	}
	return obstacles
}

// pickDummyTargetsLocked chooses additional carving targets distinct from
// the start point, end point, existing portals, and each other. At least
// one must lie at or beyond portalMinDistance from the start. Caller must
// hold m.mu.
func (m *Map) pickDummyTargetsLocked(mainTarget Point) ([]Point, bool) {
	count := maxInt(1, (m.Width*m.Height)/70)
	minDist := m.portalMinDistance()

	forbidden := map[Point]bool{m.StartPoint: true, mainTarget: true}
	if m.EndPoint != nil {
		forbidden[*m.EndPoint] = true
	}
	for _, p := range m.portals {
		forbidden[p.Position] = true
	}

	for attempt := 0; attempt < 100; attempt++ {
		dummies := make([]Point, 0, count)
		seen := make(map[Point]bool, count)
		hasFar := false
		ok := true

		for i := 0; i < count; i++ {
			pt, found := sampleUnforbidden(m.Width, m.Height, forbidden, seen)
			if !found {
				ok = false
				break
			}
			seen[pt] = true
			dummies = append(dummies, pt)
			if pt.ManhattanDistance(m.StartPoint) >= minDist {
				hasFar = true
			}
		}

		if ok && hasFar {
			return dummies, true
		}
	}
	return nil, false
}

// sampleUnforbidden tries a bounded number of random interior points
// before giving up, so a dense forbidden/seen set can't spin forever.
func sampleUnforbidden(width, height int, forbidden, seen map[Point]bool) (Point, bool) {
	const attempts = 200
	for i := 0; i < attempts; i++ {
		pt := Point{X: randInterior(width), Y: randInterior(height)}
		if forbidden[pt] || seen[pt] {
			continue
		}
		return pt, true
	}
	return Point{}, false
}

// carveTowardTarget runs the randomized-DFS carve: push start, and at each
// step carve a uniformly random still-obstacled in-range neighbor of the
// top of the stack, pushing it; pop when no such neighbor exists; stop as
// soon as target is carved.
func carveTowardTarget(obstacles map[Point]struct{}, start, target Point, width, height int) {
	if start == target {
		return
	}
	stack := []Point{start}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		candidates := obstacledNeighbors(current, obstacles, width, height)
		if len(candidates) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}
		next := candidates[rand.Intn(len(candidates))]
		delete(obstacles, next)
		stack = append(stack, next)
		if next == target {
			return
		}
	}
}

var neighborDeltas = [4]Point{{X: 0, Y: -1}, {X: 0, Y: 1}, {X: -1, Y: 0}, {X: 1, Y: 0}}

// inCarveRange reports whether n is a cell the carve/BFS walk may step
// onto: the grid less its permanent top/left wall at column/row 0. The
// bottom/right edge (width-1, height-1) is in range — the terminal map's
// end_point sits there, and a maze can't prove connectivity to a target
// its own walk is forbidden from stepping onto.
func inCarveRange(n Point, width, height int) bool {
	return n.X > 0 && n.X < width && n.Y > 0 && n.Y < height
}

func obstacledNeighbors(p Point, obstacles map[Point]struct{}, width, height int) []Point {
	var out []Point
	for _, d := range neighborDeltas {
		n := Point{X: p.X + d.X, Y: p.Y + d.Y}
		if !inCarveRange(n, width, height) {
			continue
		}
		if _, obstacled := obstacles[n]; obstacled {
			out = append(out, n)
		}
	}
	return out
}

// bfsConnected reports whether target is reachable from start, treating
// obstacles as blocked and moving only through in-range cells.
func bfsConnected(obstacles map[Point]struct{}, start, target Point, width, height int) bool {
	if start == target {
		return true
	}
	visited := map[Point]bool{start: true}
	queue := []Point{start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, d := range neighborDeltas {
			n := Point{X: current.X + d.X, Y: current.Y + d.Y}
			if !inCarveRange(n, width, height) {
				continue
			}
			if _, obstacled := obstacles[n]; obstacled {
				continue
			}
			if visited[n] {
				continue
			}
			if n == target {
				return true
			}
			visited[n] = true
			queue = append(queue, n)
		}
	}
	return false
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
