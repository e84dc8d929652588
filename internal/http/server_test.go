package http

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"foodtracker/internal/core"
	"foodtracker/internal/log"
	"foodtracker/internal/store"
	"foodtracker/internal/tracker"
)

type testEnv struct {
	srv      *Server
	cats     *store.CategoryStore
	tracking *store.TrackingStore
	meals    *store.MealIdeaStore
}

// newTestEnv pins today to Wednesday 2024-06-12 in UTC and seeds the default
// categories as id-1..id-5.
func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	n := 0
	cats := store.NewCategoryStore(store.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}))
	cats.Seed(core.DefaultCategoryNames)
	tracking := store.NewTrackingStore()
	meals := store.NewMealIdeaStore()
	now := time.Date(2024, 6, 12, 14, 0, 0, 0, time.UTC)
	view := tracker.New(cats, tracking, meals,
		tracker.WithLocation(time.UTC),
		tracker.WithClock(func() time.Time { return now }))

	srv := NewServer(":0", view, log.Discard(),
		WithNotificationStats(func() (int64, int64) { return 3, 1 }))
	if srv.templates == nil {
		t.Fatal("embedded templates failed to parse")
	}
	return testEnv{srv: srv, cats: cats, tracking: tracking, meals: meals}
}

func (e testEnv) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rr := httptest.NewRecorder()
	e.srv.Handler.ServeHTTP(rr, req)
	return rr
}

func (e testEnv) post(t *testing.T, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")
	rr := httptest.NewRecorder()
	e.srv.Handler.ServeHTTP(rr, req)
	return rr
}

func TestIndex(t *testing.T) {
	env := newTestEnv(t)

	rr := env.get(t, "/")
	if rr.Code != http.StatusOK {
		t.Fatalf("GET / = %d: %s", rr.Code, rr.Body.String())
	}
	body := rr.Body.String()
	for _, want := range []string{
		"Jun 9 – Jun 15, 2024",
		`id="day-2024-06-12" class="day today"`,
		"Wed 12",
		"Vegetables",
		"Dairy",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("index missing %q", want)
		}
	}
	if strings.Count(body, `<article id="day-`) != core.DaysInWeek {
		t.Errorf("expected %d day cells", core.DaysInWeek)
	}
	if rr.Header().Get("Content-Security-Policy") == "" {
		t.Errorf("security headers not applied")
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Errorf("trace middleware did not set a request id")
	}
}

func TestIndex_OtherWeek(t *testing.T) {
	env := newTestEnv(t)

	rr := env.get(t, "/?date=2024-06-20")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Jun 16 – Jun 22, 2024") {
		t.Errorf("wrong week rendered")
	}
	if strings.Contains(body, "day today") {
		t.Errorf("no day should be today outside the current week")
	}
	if !strings.Contains(body, `name="date" value="2024-06-12"`) {
		t.Errorf("jump-to-today form missing")
	}
}

func TestInvalidDate(t *testing.T) {
	env := newTestEnv(t)

	for _, target := range []string{"/?date=2024-13-01", "/ui/week?date=junk", "/ui/meals?date=12/06/2024"} {
		rr := env.get(t, target)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("GET %s = %d, want 400", target, rr.Code)
		}
		if !strings.Contains(rr.Body.String(), `class="error"`) {
			t.Errorf("GET %s: expected error fragment", target)
		}
	}
}

func TestShiftWeek(t *testing.T) {
	env := newTestEnv(t)

	rr := env.post(t, "/ui/week/shift", url.Values{"date": {"2024-06-12"}, "dir": {"1"}})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Jun 16 – Jun 22, 2024") {
		t.Errorf("next week not rendered")
	}
	if got := rr.Header().Get("HX-Push-Url"); got != "/?date=2024-06-19" {
		t.Errorf("HX-Push-Url = %q", got)
	}

	rr = env.post(t, "/ui/week/shift", url.Values{"date": {"2024-06-12"}, "dir": {"prev"}})
	if !strings.Contains(rr.Body.String(), "Jun 2 – Jun 8, 2024") {
		t.Errorf("previous week not rendered")
	}

	if env.tracking.CountTracked("2024-06-12", core.DefaultCategoryNames) != 0 {
		t.Errorf("navigation must not change tracking")
	}
}

func TestToggle(t *testing.T) {
	env := newTestEnv(t)
	form := url.Values{"date": {"2024-06-12"}, "category": {"Fruits"}}

	rr := env.post(t, "/ui/toggle", form)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body.String())
	}
	if !env.tracking.IsTracked("2024-06-12", "Fruits") {
		t.Fatalf("Fruits should be tracked")
	}
	trigger := rr.Header().Get("HX-Trigger")
	if !strings.Contains(trigger, EventFoodToggled) || !strings.Contains(trigger, `"tracked":true`) {
		t.Errorf("HX-Trigger = %q", trigger)
	}
	if !strings.Contains(rr.Body.String(), "food-btn tracked") {
		t.Errorf("day cell should show the tracked state")
	}
	if strings.Contains(rr.Body.String(), "<html") {
		t.Errorf("toggle must return only the day fragment")
	}

	rr = env.post(t, "/ui/toggle", form)
	if env.tracking.IsTracked("2024-06-12", "Fruits") {
		t.Errorf("second toggle should untrack")
	}
	if !strings.Contains(rr.Header().Get("HX-Trigger"), `"tracked":false`) {
		t.Errorf("HX-Trigger = %q", rr.Header().Get("HX-Trigger"))
	}
}

func TestToggle_PastDayAndErrors(t *testing.T) {
	env := newTestEnv(t)

	rr := env.post(t, "/ui/toggle", url.Values{"date": {"2024-06-10"}, "category": {"Dairy"}})
	if rr.Code != http.StatusOK || !env.tracking.IsTracked("2024-06-10", "Dairy") {
		t.Fatalf("compact day icons should toggle too (status %d)", rr.Code)
	}

	rr = env.post(t, "/ui/toggle", url.Values{"date": {"2024-06-10"}, "category": {"Candy"}})
	if rr.Code != http.StatusNotFound {
		t.Errorf("unknown category = %d, want 404", rr.Code)
	}
	if env.tracking.IsTracked("2024-06-10", "Candy") {
		t.Errorf("unknown category must not be tracked")
	}

	rr = env.post(t, "/ui/toggle", url.Values{"date": {"2024-06-10"}})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("missing category = %d, want 400", rr.Code)
	}
}

func TestMealEditor(t *testing.T) {
	env := newTestEnv(t)

	rr := env.get(t, "/ui/meals?date=2024-06-12")
	if rr.Code != http.StatusNotFound {
		t.Errorf("today must not open the editor, got %d", rr.Code)
	}

	env.meals.SetIdeas("2024-06-10", core.MealIdeas{Lunch: "Soup"})
	rr = env.get(t, "/ui/meals?date=2024-06-10")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Meal ideas for Monday, Jun 10") {
		t.Errorf("editor title missing: %s", body)
	}
	if !strings.Contains(body, `name="lunch" rows="2">Soup</textarea>`) {
		t.Errorf("editor should be pre-filled")
	}
}

func TestSaveMeals(t *testing.T) {
	env := newTestEnv(t)

	rr := env.post(t, "/ui/meals", url.Values{
		"date":      {"2024-06-14"},
		"breakfast": {"Oats"},
		"lunch":     {""},
		"dinner":    {"Pasta <al forno>"},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if rr.Body.Len() != 0 {
		t.Errorf("save should close the modal with an empty body")
	}
	if !strings.Contains(rr.Header().Get("HX-Trigger"), EventMealsSaved) {
		t.Errorf("HX-Trigger = %q", rr.Header().Get("HX-Trigger"))
	}
	got, ok := env.meals.GetIdeas("2024-06-14")
	if !ok || got.Breakfast != "Oats" || got.Dinner != "Pasta <al forno>" {
		t.Errorf("GetIdeas = %+v, %v", got, ok)
	}

	week := env.get(t, "/ui/week?date=2024-06-14").Body.String()
	if !strings.Contains(week, "Pasta &lt;al forno&gt;") {
		t.Errorf("saved ideas should render escaped in the week")
	}
}

func TestCloseIsEmpty(t *testing.T) {
	env := newTestEnv(t)

	rr := env.get(t, "/ui/close")
	if rr.Code != http.StatusOK || rr.Body.Len() != 0 {
		t.Errorf("close = %d %q", rr.Code, rr.Body.String())
	}
	if env.meals.Len() != 0 {
		t.Errorf("cancel must not mutate")
	}
}

func TestCategories(t *testing.T) {
	env := newTestEnv(t)

	rr := env.get(t, "/ui/categories")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `value="Dairy"`) {
		t.Fatalf("dialog = %d", rr.Code)
	}

	rr = env.post(t, "/ui/categories", url.Values{"name": {"  Snacks "}, "group": {""}})
	if !strings.Contains(rr.Header().Get("HX-Trigger"), EventCategoriesChanged) {
		t.Errorf("add should fire %s", EventCategoriesChanged)
	}
	if env.cats.Len() != 6 || !env.cats.HasName("Snacks") {
		t.Fatalf("Snacks not added")
	}

	rr = env.post(t, "/ui/categories", url.Values{"name": {"Snacks"}})
	if rr.Header().Get("HX-Trigger") != "" {
		t.Errorf("duplicate add must not fire events")
	}
	if env.cats.Len() != 6 {
		t.Errorf("duplicate was added")
	}
	if !strings.Contains(rr.Body.String(), msgRejectedAdd) {
		t.Errorf("expected rejection message")
	}

	rr = env.post(t, "/ui/categories/id-2", url.Values{"name": {"Berries"}, "group": {"Fruits"}})
	if !strings.Contains(rr.Header().Get("HX-Trigger"), EventCategoriesChanged) {
		t.Errorf("edit should fire %s", EventCategoriesChanged)
	}
	if c, _ := env.cats.Get("id-2"); c.Name != "Berries" || c.Group != core.GroupFruits {
		t.Errorf("edit not applied: %+v", c)
	}

	rr = env.post(t, "/ui/categories/missing", url.Values{"name": {"X"}})
	if !strings.Contains(rr.Body.String(), msgRejectedEdit) {
		t.Errorf("unknown id should be reported")
	}
}

func TestRemoveCategoryUpdatesDays(t *testing.T) {
	env := newTestEnv(t)
	env.tracking.Toggle("2024-06-12", "Vegetables")

	rr := env.post(t, "/ui/categories/id-1/delete", nil)
	if !strings.Contains(rr.Header().Get("HX-Trigger"), EventCategoriesChanged) {
		t.Errorf("remove should fire %s", EventCategoriesChanged)
	}
	if env.cats.HasName("Vegetables") {
		t.Fatalf("Vegetables not removed")
	}

	week := env.get(t, "/ui/week?date=2024-06-12").Body.String()
	if strings.Contains(week, `value="Vegetables"`) {
		t.Errorf("removed category still rendered")
	}
	if !env.tracking.IsTracked("2024-06-12", "Vegetables") {
		t.Errorf("removal does not cascade into tracking")
	}

	rr = env.post(t, "/ui/categories/id-1/delete", nil)
	if rr.Header().Get("HX-Trigger") != "" {
		t.Errorf("second remove is a no-op")
	}
}

func TestHealthReadyMetrics(t *testing.T) {
	env := newTestEnv(t)
	env.post(t, "/ui/toggle", url.Values{"date": {"2024-06-12"}, "category": {"Fruits"}})

	if rr := env.get(t, "/healthz"); rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"status":"ok"`) {
		t.Errorf("healthz = %d %s", rr.Code, rr.Body.String())
	}

	rr := env.get(t, "/readyz")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"status":"ready"`) {
		t.Errorf("readyz = %d %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), `"delivered":3`) {
		t.Errorf("readyz should include notification stats")
	}

	body := env.get(t, "/metrics").Body.String()
	for _, want := range []string{
		"food_toggles_total 1",
		"categories 5",
		"notifications_failed_total 1",
		"http_requests_total",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestReadyWithoutTemplates(t *testing.T) {
	env := newTestEnv(t)
	env.srv.templates = nil

	if rr := env.get(t, "/readyz"); rr.Code != http.StatusServiceUnavailable {
		t.Errorf("readyz = %d, want 503", rr.Code)
	}
	if rr := env.get(t, "/ui/week"); rr.Code != http.StatusInternalServerError {
		t.Errorf("week without templates = %d, want 500", rr.Code)
	}
}

func TestStaticAssets(t *testing.T) {
	env := newTestEnv(t)

	rr := env.get(t, "/static/app.css")
	if rr.Code != http.StatusOK {
		t.Fatalf("static = %d", rr.Code)
	}
	if !strings.Contains(rr.Header().Get("Cache-Control"), "max-age=3600") {
		t.Errorf("Cache-Control = %q", rr.Header().Get("Cache-Control"))
	}
}

func TestParseDirection(t *testing.T) {
	cases := map[string]int{"-1": -1, "1": 1, "7": 1, "-3": -1, "prev": -1, "Next": 1, "": 0, "0": 0, "x": 0}
	for in, want := range cases {
		if got := parseDirection(in); got != want {
			t.Errorf("parseDirection(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestParseGroupAndSanitize(t *testing.T) {
	if parseGroup("Dairy") != core.GroupDairy || parseGroup("Other") != core.GroupOther || parseGroup("Sweets") != "" {
		t.Errorf("parseGroup mismatch")
	}
	if got := sanitizeInput("  Sn\x00acks\x07 "); got != "Snacks" {
		t.Errorf("sanitizeInput = %q", got)
	}
}
