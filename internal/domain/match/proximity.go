package match

import (
	"sort"

	"github.com/dishscout/dishscout/internal/domain/geo"
	"github.com/dishscout/dishscout/internal/domain/restaurant"
)

// NearbyRestaurant is a restaurant annotated with its distance from a
// query origin. Transient: recomputed per request.
type NearbyRestaurant struct {
	Restaurant restaurant.Restaurant
	DistanceKm float64
}

// FilterByDistance annotates every restaurant with its Haversine
// distance from origin, keeps those within maxDistanceKm, and returns
// them sorted ascending by distance (stable: ties preserve input
// order). Empty input and empty output are valid outcomes.
func FilterByDistance(
	restaurants []restaurant.Restaurant, origin geo.Point, maxDistanceKm float64,
) []NearbyRestaurant {
	nearby := make([]NearbyRestaurant, 0, len(restaurants))
	for i := range restaurants {
		d := geo.Haversine(origin, restaurants[i].Location())
		if d <= maxDistanceKm {
			nearby = append(nearby, NearbyRestaurant{Restaurant: restaurants[i], DistanceKm: d})
		}
	}

	sort.SliceStable(nearby, func(i, j int) bool {
		return nearby[i].DistanceKm < nearby[j].DistanceKm
	})

	return nearby
}
