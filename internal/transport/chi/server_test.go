package chi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/dishscout/dishscout/internal/domain"
)

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return v
}

func assertErrorCode(t *testing.T, rr *httptest.ResponseRecorder, status int, code string) errorResponse {
	t.Helper()
	if rr.Code != status {
		t.Fatalf("got status %d, want %d (body %s)", rr.Code, status, rr.Body.String())
	}
	errResp := decodeBody[errorResponse](t, rr)
	if errResp.Code != code {
		t.Errorf("got error code %s, want %s", errResp.Code, code)
	}
	return errResp
}

// --- match ---

func TestFindMatches_HappyPath(t *testing.T) {
	w := newFakeWorld()
	seedRestaurant(t, w, "r1", 48.8566, 2.3522)
	price := 14.5
	seedDish(w, "r1", "d1", "Margherita Pizza", &price)

	router := newTestRouter(t, w)
	rr := doJSON(t, router, "POST", "/api/v1/match", map[string]any{
		"dish_name": "margherita pizza",
		"latitude":  48.8570,
		"longitude": 2.3530,
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200 (body %s)", rr.Code, rr.Body.String())
	}
	resp := decodeBody[matchResponse](t, rr)
	if len(resp.Matches) != 1 {
		t.Fatalf("expected one match, got %d", len(resp.Matches))
	}
	m := resp.Matches[0]
	if m.DishID != "d1" || m.Similarity != 100 {
		t.Errorf("unexpected match: %+v", m)
	}
	if m.Restaurant.ID != "r1" {
		t.Errorf("unexpected restaurant: %+v", m.Restaurant)
	}
	if m.Restaurant.DistanceKm <= 0 || m.Restaurant.DistanceKm > 1 {
		t.Errorf("unexpected distance: %v", m.Restaurant.DistanceKm)
	}
	if resp.Params.MaxDistanceKm != 10 || resp.Params.MinSimilarity != 30 {
		t.Errorf("defaults not echoed: %+v", resp.Params)
	}
}

func TestFindMatches_EmptyResultIsNotNull(t *testing.T) {
	router := newTestRouter(t, newFakeWorld())
	rr := doJSON(t, router, "POST", "/api/v1/match", map[string]any{
		"dish_name": "pho",
		"latitude":  10.0,
		"longitude": 10.0,
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"matches":[]`) {
		t.Errorf("empty result must serialize as [], got %s", rr.Body.String())
	}
}

func TestFindMatches_MissingName_400(t *testing.T) {
	router := newTestRouter(t, newFakeWorld())
	rr := doJSON(t, router, "POST", "/api/v1/match", map[string]any{
		"latitude":  10.0,
		"longitude": 10.0,
	})
	assertErrorCode(t, rr, http.StatusBadRequest, codeBadRequest)
}

func TestFindMatches_MalformedBody_400(t *testing.T) {
	router := newTestRouter(t, newFakeWorld())

	req := httptest.NewRequest("POST", "/api/v1/match", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assertErrorCode(t, rr, http.StatusBadRequest, codeBadRequest)
}

// --- analysis ---

func TestAnalyzeText_Success(t *testing.T) {
	w := newFakeWorld()
	w.analysisResult = mustDescriptor(t, "Pad Thai")

	router := newTestRouter(t, w)
	rr := doJSON(t, router, "POST", "/api/v1/analyze/text", map[string]any{
		"text": "stir-fried rice noodles with tamarind",
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200 (body %s)", rr.Code, rr.Body.String())
	}
	d := decodeBody[dishResponse](t, rr)
	if d.Name != "Pad Thai" {
		t.Errorf("unexpected name: %s", d.Name)
	}
}

func TestAnalyzeText_EmptyText_400(t *testing.T) {
	router := newTestRouter(t, newFakeWorld())
	rr := doJSON(t, router, "POST", "/api/v1/analyze/text", map[string]any{"text": "  "})
	assertErrorCode(t, rr, http.StatusBadRequest, codeBadRequest)
}

func TestAnalyzeText_ProviderFailure_502(t *testing.T) {
	w := newFakeWorld()
	w.analysisErr = domain.NewAnalysisError("model returned prose instead of JSON")

	router := newTestRouter(t, w)
	rr := doJSON(t, router, "POST", "/api/v1/analyze/text", map[string]any{"text": "pizza"})

	errResp := assertErrorCode(t, rr, http.StatusBadGateway, codeAnalysisFailed)
	if !strings.Contains(errResp.Message, "model returned prose") {
		t.Errorf("provider reason not surfaced: %+v", errResp)
	}
}

func TestAnalyzeImage_Multipart(t *testing.T) {
	w := newFakeWorld()
	w.analysisResult = mustDescriptor(t, "Ramen")
	router := newTestRouter(t, w)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="image"; filename="dish.jpg"`)
	hdr.Set("Content-Type", "image/jpeg")
	part, err := mw.CreatePart(hdr)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	_, _ = part.Write([]byte{0xFF, 0xD8, 0xFF, 0xE0})
	_ = mw.Close()

	req := httptest.NewRequest("POST", "/api/v1/analyze/image", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200 (body %s)", rr.Code, rr.Body.String())
	}
	d := decodeBody[dishResponse](t, rr)
	if d.Name != "Ramen" {
		t.Errorf("unexpected name: %s", d.Name)
	}
}

func TestAnalyzeImage_MissingField_400(t *testing.T) {
	router := newTestRouter(t, newFakeWorld())

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("note", "no image here")
	_ = mw.Close()

	req := httptest.NewRequest("POST", "/api/v1/analyze/image", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assertErrorCode(t, rr, http.StatusBadRequest, codeBadRequest)
}

// --- restaurants ---

func TestUpsertRestaurant_CreateThenUpdate(t *testing.T) {
	router := newTestRouter(t, newFakeWorld())
	body := map[string]any{
		"name":      "Trattoria Roma",
		"latitude":  41.9028,
		"longitude": 12.4964,
		"cuisine":   "italian",
		"rating":    4.7,
	}

	rr := doJSON(t, router, "PUT", "/api/v1/restaurants/r1", body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: got status %d, want 201 (body %s)", rr.Code, rr.Body.String())
	}
	if loc := rr.Header().Get("Location"); loc != "/api/v1/restaurants/r1" {
		t.Errorf("unexpected Location header: %s", loc)
	}
	created := decodeBody[restaurantResponse](t, rr)
	if created.ID != "r1" || created.Name != "Trattoria Roma" {
		t.Errorf("unexpected response: %+v", created)
	}

	body["rating"] = 4.2
	rr = doJSON(t, router, "PUT", "/api/v1/restaurants/r1", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("update: got status %d, want 200", rr.Code)
	}
	updated := decodeBody[restaurantResponse](t, rr)
	if updated.Rating != 4.2 {
		t.Errorf("update not applied: %+v", updated)
	}
}

func TestUpsertRestaurant_BadCoordinates_400(t *testing.T) {
	router := newTestRouter(t, newFakeWorld())
	rr := doJSON(t, router, "PUT", "/api/v1/restaurants/r1", map[string]any{
		"name":      "Nowhere",
		"latitude":  123.0,
		"longitude": 0.0,
	})
	assertErrorCode(t, rr, http.StatusBadRequest, codeBadRequest)
}

func TestGetRestaurant_NotFound_404(t *testing.T) {
	router := newTestRouter(t, newFakeWorld())
	rr := doJSON(t, router, "GET", "/api/v1/restaurants/missing", nil)
	assertErrorCode(t, rr, http.StatusNotFound, codeNotFound)
}

func TestDeleteRestaurant(t *testing.T) {
	w := newFakeWorld()
	seedRestaurant(t, w, "r1", 48.85, 2.35)
	router := newTestRouter(t, w)

	rr := doJSON(t, router, "DELETE", "/api/v1/restaurants/r1", nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("got status %d, want 204", rr.Code)
	}

	rr = doJSON(t, router, "DELETE", "/api/v1/restaurants/r1", nil)
	assertErrorCode(t, rr, http.StatusNotFound, codeNotFound)
}

func TestDishLifecycle(t *testing.T) {
	w := newFakeWorld()
	seedRestaurant(t, w, "r1", 48.85, 2.35)
	router := newTestRouter(t, w)

	rr := doJSON(t, router, "PUT", "/api/v1/restaurants/r1/dishes/d1", map[string]any{
		"name":        "Carbonara",
		"ingredients": []string{"Guanciale", "egg"},
		"price":       13.0,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create dish: got status %d, want 201 (body %s)", rr.Code, rr.Body.String())
	}
	if loc := rr.Header().Get("Location"); loc != "/api/v1/restaurants/r1/dishes/d1" {
		t.Errorf("unexpected Location header: %s", loc)
	}

	rr = doJSON(t, router, "GET", "/api/v1/restaurants/r1/dishes", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("list dishes: got status %d, want 200", rr.Code)
	}
	list := decodeBody[struct {
		Items []dishResponse `json:"items"`
	}](t, rr)
	if len(list.Items) != 1 || list.Items[0].Name != "Carbonara" {
		t.Fatalf("unexpected menu: %+v", list.Items)
	}
	if len(list.Items[0].Ingredients) != 2 || list.Items[0].Ingredients[0] != "guanciale" {
		t.Errorf("ingredients not normalized: %v", list.Items[0].Ingredients)
	}

	rr = doJSON(t, router, "DELETE", "/api/v1/restaurants/r1/dishes/d1", nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete dish: got status %d, want 204", rr.Code)
	}

	rr = doJSON(t, router, "DELETE", "/api/v1/restaurants/r1/dishes/d1", nil)
	assertErrorCode(t, rr, http.StatusNotFound, codeNotFound)
}

func TestUpsertDish_UnknownRestaurant_404(t *testing.T) {
	router := newTestRouter(t, newFakeWorld())
	rr := doJSON(t, router, "PUT", "/api/v1/restaurants/ghost/dishes/d1", map[string]any{
		"name": "Carbonara",
	})
	assertErrorCode(t, rr, http.StatusNotFound, codeNotFound)
}

// --- favorites / history ---

func TestFavoritesLifecycle(t *testing.T) {
	router := newTestRouter(t, newFakeWorld())
	body := map[string]any{"restaurant_id": "r1"}

	rr := doJSON(t, router, "PUT", "/api/v1/users/u1/favorites/d1", body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("add: got status %d, want 201 (body %s)", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, router, "PUT", "/api/v1/users/u1/favorites/d1", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("duplicate add: got status %d, want 200", rr.Code)
	}

	rr = doJSON(t, router, "GET", "/api/v1/users/u1/favorites", nil)
	list := decodeBody[struct {
		Items []favoriteResponse `json:"items"`
	}](t, rr)
	if len(list.Items) != 1 || list.Items[0].RestaurantID != "r1" || list.Items[0].DishID != "d1" {
		t.Fatalf("unexpected favorites: %+v", list.Items)
	}

	rr = doJSON(t, router, "DELETE", "/api/v1/users/u1/favorites/d1?restaurant_id=r1", nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("remove: got status %d, want 204", rr.Code)
	}

	rr = doJSON(t, router, "DELETE", "/api/v1/users/u1/favorites/d1?restaurant_id=r1", nil)
	assertErrorCode(t, rr, http.StatusNotFound, codeNotFound)
}

func TestAddFavorite_MissingRestaurantID_400(t *testing.T) {
	router := newTestRouter(t, newFakeWorld())
	rr := doJSON(t, router, "PUT", "/api/v1/users/u1/favorites/d1", map[string]any{})
	assertErrorCode(t, rr, http.StatusBadRequest, codeBadRequest)
}

func TestListHistory(t *testing.T) {
	w := newFakeWorld()
	w.history["u1"] = append(w.history["u1"], historyFixture("ramen", 3))
	router := newTestRouter(t, w)

	rr := doJSON(t, router, "GET", "/api/v1/users/u1/history", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rr.Code)
	}
	list := decodeBody[struct {
		Items []historyEntryResponse `json:"items"`
	}](t, rr)
	if len(list.Items) != 1 || list.Items[0].DishName != "ramen" || list.Items[0].MatchCount != 3 {
		t.Fatalf("unexpected history: %+v", list.Items)
	}
}

// --- usage / health ---

func TestGetUsage_DefaultPeriod(t *testing.T) {
	router := newTestRouter(t, newFakeWorld())
	rr := doJSON(t, router, "GET", "/api/v1/usage", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200 (body %s)", rr.Code, rr.Body.String())
	}
	resp := decodeBody[usageResponse](t, rr)
	if resp.Period != "day" {
		t.Errorf("default period must be day, got %s", resp.Period)
	}
}

func TestGetUsage_UnsupportedPeriod_400(t *testing.T) {
	router := newTestRouter(t, newFakeWorld())
	rr := doJSON(t, router, "GET", "/api/v1/usage?period=year", nil)
	assertErrorCode(t, rr, http.StatusBadRequest, codeBadRequest)
}

func TestHealth(t *testing.T) {
	w := newFakeWorld()
	router := newTestRouter(t, w)

	rr := doJSON(t, router, "GET", "/health", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("healthy: got status %d, want 200", rr.Code)
	}

	w.pingErr = fmt.Errorf("connection refused")
	rr = doJSON(t, router, "GET", "/health", nil)
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("degraded: got status %d, want 503", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"database":"error"`) {
		t.Errorf("database check not reported: %s", rr.Body.String())
	}
}
