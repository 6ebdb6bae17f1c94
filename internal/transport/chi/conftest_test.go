package chi

import (
	"context"
	"testing"
	"time"

	chirouter "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dishscout/dishscout/internal/domain"
	"github.com/dishscout/dishscout/internal/domain/dish"
	"github.com/dishscout/dishscout/internal/domain/geo"
	"github.com/dishscout/dishscout/internal/domain/profile"
	domrest "github.com/dishscout/dishscout/internal/domain/restaurant"
	analysisuc "github.com/dishscout/dishscout/internal/usecase/analysis"
	favoritesuc "github.com/dishscout/dishscout/internal/usecase/favorites"
	healthuc "github.com/dishscout/dishscout/internal/usecase/health"
	historyuc "github.com/dishscout/dishscout/internal/usecase/history"
	matchuc "github.com/dishscout/dishscout/internal/usecase/match"
	restaurantuc "github.com/dishscout/dishscout/internal/usecase/restaurant"
	usageuc "github.com/dishscout/dishscout/internal/usecase/usage"
)

// fakeWorld backs every usecase collaborator with in-memory state.
type fakeWorld struct {
	restaurants map[string]domrest.Restaurant
	dishes      map[string][]dish.Descriptor // by restaurant id
	favorites   map[string][]profile.Favorite
	history     map[string][]profile.HistoryEntry

	analysisResult dish.Descriptor
	analysisErr    error

	pingErr error
}

func newFakeWorld() *fakeWorld {
	return &fakeWorld{
		restaurants: make(map[string]domrest.Restaurant),
		dishes:      make(map[string][]dish.Descriptor),
		favorites:   make(map[string][]profile.Favorite),
		history:     make(map[string][]profile.HistoryEntry),
	}
}

// --- analysis ---

func (f *fakeWorld) AnalyzeText(_ context.Context, _ string) (dish.Descriptor, error) {
	return f.analysisResult, f.analysisErr
}

func (f *fakeWorld) AnalyzeImage(_ context.Context, _ []byte, _ string) (dish.Descriptor, error) {
	return f.analysisResult, f.analysisErr
}

// --- restaurants ---

func (f *fakeWorld) Upsert(_ context.Context, r *domrest.Restaurant) (bool, error) {
	_, existed := f.restaurants[r.ID()]
	f.restaurants[r.ID()] = *r
	return !existed, nil
}

func (f *fakeWorld) Get(_ context.Context, id string) (domrest.Restaurant, error) {
	r, ok := f.restaurants[id]
	if !ok {
		return domrest.Restaurant{}, domain.ErrRestaurantNotFound
	}
	return r, nil
}

func (f *fakeWorld) Delete(_ context.Context, id string) error {
	if _, ok := f.restaurants[id]; !ok {
		return domain.ErrRestaurantNotFound
	}
	delete(f.restaurants, id)
	return nil
}

func (f *fakeWorld) List(_ context.Context) ([]domrest.Restaurant, error) {
	out := make([]domrest.Restaurant, 0, len(f.restaurants))
	for _, r := range f.restaurants {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeWorld) ListNearby(_ context.Context, _ geo.Point, _ float64) ([]domrest.Restaurant, error) {
	return f.List(context.Background())
}

// --- dishes ---

type fakeDishRepo struct {
	w *fakeWorld
}

func (f *fakeDishRepo) Upsert(_ context.Context, d *dish.Descriptor) (bool, error) {
	menu := f.w.dishes[d.RestaurantID()]
	for i := range menu {
		if menu[i].ID() == d.ID() {
			menu[i] = *d
			return false, nil
		}
	}
	f.w.dishes[d.RestaurantID()] = append(menu, *d)
	return true, nil
}

func (f *fakeDishRepo) Delete(_ context.Context, restaurantID, dishID string) error {
	menu := f.w.dishes[restaurantID]
	for i := range menu {
		if menu[i].ID() == dishID {
			f.w.dishes[restaurantID] = append(menu[:i], menu[i+1:]...)
			return nil
		}
	}
	return domain.ErrDishNotFound
}

func (f *fakeDishRepo) ListByRestaurant(_ context.Context, restaurantID string) ([]dish.Descriptor, error) {
	return f.w.dishes[restaurantID], nil
}

func (f *fakeDishRepo) ListByRestaurants(_ context.Context, restaurantIDs []string) ([]dish.Descriptor, error) {
	var out []dish.Descriptor
	for _, rid := range restaurantIDs {
		out = append(out, f.w.dishes[rid]...)
	}
	return out, nil
}

// --- favorites / history ---

type fakeProfileRepo struct {
	w *fakeWorld
}

func (f *fakeProfileRepo) Add(_ context.Context, userID string, fav profile.Favorite) (bool, error) {
	for _, existing := range f.w.favorites[userID] {
		if existing == fav {
			return false, nil
		}
	}
	f.w.favorites[userID] = append(f.w.favorites[userID], fav)
	return true, nil
}

func (f *fakeProfileRepo) Remove(_ context.Context, userID string, fav profile.Favorite) (bool, error) {
	favs := f.w.favorites[userID]
	for i, existing := range favs {
		if existing == fav {
			f.w.favorites[userID] = append(favs[:i], favs[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeProfileRepo) List(_ context.Context, userID string) ([]profile.Favorite, error) {
	return f.w.favorites[userID], nil
}

type fakeHistoryRepo struct {
	w *fakeWorld
}

func (f *fakeHistoryRepo) List(_ context.Context, userID string) ([]profile.HistoryEntry, error) {
	return f.w.history[userID], nil
}

// --- usage / health ---

type fakeCounterReader struct{}

func (fakeCounterReader) Get(_ context.Context, _ string) (int64, error) { return 0, nil }

type fakePinger struct {
	w *fakeWorld
}

func (f *fakePinger) Ping(_ context.Context) error { return f.w.pingErr }

// newTestRouter wires the full HTTP surface over the fake world.
func newTestRouter(t *testing.T, w *fakeWorld) *chirouter.Mux {
	t.Helper()
	logger := zap.NewNop()
	dishes := &fakeDishRepo{w: w}

	analysisSvc := analysisuc.New(w, nil, 8<<20, logger)
	matchSvc := matchuc.New(w, dishes, nil, nil, 10, 100, 30, logger)
	restSvc := restaurantuc.New(w, dishes)
	favSvc := favoritesuc.New(&fakeProfileRepo{w: w})
	histSvc := historyuc.New(&fakeHistoryRepo{w: w})
	usageSvc := usageuc.New(fakeCounterReader{})
	healthSvc := healthuc.New(&fakePinger{w: w}, nil)

	server := NewServer(analysisSvc, matchSvc, restSvc, favSvc, histSvc, usageSvc, healthSvc, 8<<20, logger)

	r := chirouter.NewRouter()
	server.Routes(r)
	return r
}

func seedRestaurant(t *testing.T, w *fakeWorld, id string, lat, lon float64) {
	t.Helper()
	loc, err := geo.New(lat, lon)
	if err != nil {
		t.Fatalf("bad test coordinates: %v", err)
	}
	w.restaurants[id] = domrest.Reconstruct(id, "Place "+id, loc, "italian", 4.4, "1 Main St")
}

func seedDish(w *fakeWorld, restaurantID, id, name string, price *float64) {
	w.dishes[restaurantID] = append(w.dishes[restaurantID],
		dish.Reconstruct(id, name, nil, "", price, restaurantID))
}

func historyFixture(dishName string, matchCount int) profile.HistoryEntry {
	return profile.HistoryEntry{
		DishName:      dishName,
		Latitude:      48.85,
		Longitude:     2.35,
		RadiusKm:      10,
		MinSimilarity: 30,
		MatchCount:    matchCount,
		At:            time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC),
	}
}

func mustDescriptor(t *testing.T, name string) dish.Descriptor {
	t.Helper()
	d, err := dish.New(name, []string{"tomato"}, "", nil)
	if err != nil {
		t.Fatalf("bad descriptor: %v", err)
	}
	return d
}
