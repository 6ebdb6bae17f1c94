package restaurant

import (
	"math"
	"sync"

	"github.com/dhconnelly/rtreego"

	"github.com/dishscout/dishscout/internal/domain/geo"
)

const (
	// pointTolerance is the rect edge length used to index a point.
	pointTolerance = 0.0001
	minChildren    = 25
	maxChildren    = 50
	dimensions     = 2

	kmPerDegreeLat = 110.574
	kmPerDegreeLon = 111.320
)

// indexEntry wraps a restaurant id to implement rtreego.Spatial.
type indexEntry struct {
	id   string
	rect *rtreego.Rect
}

func (e *indexEntry) Bounds() *rtreego.Rect { return e.rect }

// spatialIndex is an in-memory R-tree over restaurant locations. It is
// rebuilt from the store at startup and maintained on every write, so
// radius queries avoid a full key scan.
type spatialIndex struct {
	mu      sync.RWMutex
	tree    *rtreego.Rtree
	entries map[string]*indexEntry
}

func newSpatialIndex() *spatialIndex {
	return &spatialIndex{
		tree:    rtreego.NewTree(dimensions, minChildren, maxChildren),
		entries: make(map[string]*indexEntry),
	}
}

// upsert indexes a restaurant location, replacing any previous entry.
func (idx *spatialIndex) upsert(id string, loc geo.Point) {
	rect := rtreego.Point{loc.Lat(), loc.Lon()}.ToRect(pointTolerance)

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if old, ok := idx.entries[id]; ok {
		idx.tree.Delete(old)
	}
	entry := &indexEntry{id: id, rect: rect}
	idx.tree.Insert(entry)
	idx.entries[id] = entry
}

// remove drops a restaurant from the index.
func (idx *spatialIndex) remove(id string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if old, ok := idx.entries[id]; ok {
		idx.tree.Delete(old)
		delete(idx.entries, id)
	}
}

// nearbyIDs returns ids of restaurants whose indexed location falls in
// the bounding box around origin. The box over-approximates the radius;
// callers apply the exact Haversine filter.
func (idx *spatialIndex) nearbyIDs(origin geo.Point, radiusKm float64) []string {
	latDelta := radiusKm / kmPerDegreeLat
	lonScale := math.Cos(origin.Lat() * math.Pi / 180)
	if lonScale < 0.01 {
		lonScale = 0.01 // near the poles every longitude is close
	}
	lonDelta := radiusKm / (kmPerDegreeLon * lonScale)

	rect, err := rtreego.NewRect(
		rtreego.Point{origin.Lat() - latDelta, origin.Lon() - lonDelta},
		[]float64{2 * latDelta, 2 * lonDelta},
	)
	if err != nil {
		return nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	hits := idx.tree.SearchIntersect(rect)
	ids := make([]string, 0, len(hits))
	for _, h := range hits {
		if e, ok := h.(*indexEntry); ok {
			ids = append(ids, e.id)
		}
	}
	return ids
}

// size returns the number of indexed restaurants.
func (idx *spatialIndex) size() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}
