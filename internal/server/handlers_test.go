package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/meltforce/ironlog/internal/api"
	"github.com/meltforce/ironlog/internal/models"
	"github.com/meltforce/ironlog/internal/storage"
)

// newTestServer spins up a migrated server on a temp database.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	if err := storage.RunMigrations(path, "../../migrations"); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	db, err := storage.New(context.Background(), path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ts := httptest.NewServer(New(db, log))
	t.Cleanup(ts.Close)
	return ts
}

// signup registers and logs in a user, returning an authenticated client.
func signup(t *testing.T, ts *httptest.Server, username string) *api.Client {
	t.Helper()
	ctx := context.Background()

	anon := api.New(ts.URL+"/api", nil)
	if err := anon.Register(ctx, username, username+"@example.com", "hunter22"); err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	result, err := anon.Login(ctx, username, "hunter22")
	if err != nil {
		t.Fatalf("login %s: %v", username, err)
	}
	return api.New(ts.URL+"/api", api.StaticToken(result.AccessToken))
}

// createRoutine builds a routine from the first n seeded exercises.
func createRoutine(t *testing.T, c *api.Client, n int) int {
	t.Helper()
	ctx := context.Background()

	catalog, err := c.ListExercises(ctx, "")
	if err != nil {
		t.Fatalf("ListExercises: %v", err)
	}
	routine := models.NewRoutine{Name: "Test Day"}
	for i := 0; i < n; i++ {
		routine.Exercises = append(routine.Exercises, models.NewRoutineExercise{
			ExerciseID: catalog[i].ID, Sets: 3, RepsTarget: "8-12",
		})
	}
	id, err := c.CreateRoutine(ctx, routine)
	if err != nil {
		t.Fatalf("CreateRoutine: %v", err)
	}
	return id
}

func wantAPIError(t *testing.T, err error, status int) *api.APIError {
	t.Helper()
	var apiErr *api.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v (%T), want *api.APIError", err, err)
	}
	if apiErr.Status != status {
		t.Fatalf("status = %d, want %d: %s", apiErr.Status, status, apiErr.Message)
	}
	return apiErr
}

func TestRegisterAndLogin(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	anon := api.New(ts.URL+"/api", nil)

	if err := anon.Register(ctx, "alice", "alice@example.com", "hunter22"); err != nil {
		t.Fatalf("register: %v", err)
	}

	// Duplicate username is rejected.
	err := anon.Register(ctx, "alice", "other@example.com", "hunter22")
	apiErr := wantAPIError(t, err, http.StatusBadRequest)
	if apiErr.Message != "username already exists" {
		t.Errorf("message = %q", apiErr.Message)
	}

	// Wrong password.
	_, err = anon.Login(ctx, "alice", "wrong")
	wantAPIError(t, err, http.StatusUnauthorized)

	result, err := anon.Login(ctx, "alice", "hunter22")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.AccessToken == "" {
		t.Fatal("empty access token")
	}
	if result.User.Username != "alice" || result.User.Level != 1 {
		t.Errorf("login user = %+v", result.User)
	}

	authed := api.New(ts.URL+"/api", api.StaticToken(result.AccessToken))
	me, err := authed.GetMe(ctx)
	if err != nil {
		t.Fatalf("GetMe: %v", err)
	}
	if me.Username != "alice" || me.XP != 0 {
		t.Errorf("me = %+v", me)
	}
}

func TestAuthRequired(t *testing.T) {
	ts := newTestServer(t)
	anon := api.New(ts.URL+"/api", nil)

	_, err := anon.ListRoutines(context.Background())
	wantAPIError(t, err, http.StatusUnauthorized)
	if !api.IsAuthError(err) {
		t.Error("IsAuthError = false")
	}

	// The exercise catalog is public.
	if _, err := anon.ListExercises(context.Background(), ""); err != nil {
		t.Errorf("public catalog: %v", err)
	}
}

func TestRoutineLifecycle(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	c := signup(t, ts, "alice")

	id := createRoutine(t, c, 3)

	detail, err := c.GetRoutine(ctx, id)
	if err != nil {
		t.Fatalf("GetRoutine: %v", err)
	}
	if detail.Name != "Test Day" || len(detail.Exercises) != 3 {
		t.Errorf("detail = %+v", detail)
	}

	public, err := c.TogglePublish(ctx, id)
	if err != nil {
		t.Fatalf("TogglePublish: %v", err)
	}
	if !public {
		t.Error("expected published state")
	}

	routines, err := c.ListRoutines(ctx)
	if err != nil {
		t.Fatalf("ListRoutines: %v", err)
	}
	if len(routines) != 1 || !routines[0].IsPublic {
		t.Errorf("routines = %+v", routines)
	}

	if err := c.DeleteRoutine(ctx, id); err != nil {
		t.Fatalf("DeleteRoutine: %v", err)
	}
	routines, err = c.ListRoutines(ctx)
	if err != nil {
		t.Fatalf("ListRoutines: %v", err)
	}
	if len(routines) != 0 {
		t.Errorf("routines after delete = %+v", routines)
	}
}

func TestWorkoutFinishAwardsXP(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	c := signup(t, ts, "alice")
	routineID := createRoutine(t, c, 1)

	catalog, err := c.ListExercises(ctx, "")
	if err != nil {
		t.Fatalf("ListExercises: %v", err)
	}
	exerciseID := catalog[0].ID

	sessionID, err := c.StartSession(ctx, routineID)
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	// 8 sets of 100x10 = 8000 kg volume.
	for i := 1; i <= 8; i++ {
		err := c.LogSet(ctx, models.SetLog{
			SessionID: sessionID, ExerciseID: exerciseID,
			SetNumber: i, Weight: 100, Reps: 10,
		})
		if err != nil {
			t.Fatalf("LogSet %d: %v", i, err)
		}
	}

	result, err := c.FinishSession(ctx, sessionID)
	if err != nil {
		t.Fatalf("FinishSession: %v", err)
	}

	// 20 base + 8000/100 volume + 5 for one distinct exercise.
	if result.XPGained != 105 {
		t.Errorf("xp_gained = %d, want 105", result.XPGained)
	}
	if result.TotalXP != 105 || result.Level != 2 {
		t.Errorf("total_xp/level = %d/%d, want 105/2", result.TotalXP, result.Level)
	}
	if !result.LevelUp || result.NewLevel != 2 || result.CoinsEarned != 10 {
		t.Errorf("level up = %+v", result)
	}
	if result.CurrentStreak != 1 || !result.StreakMilestone {
		t.Errorf("streak = %d milestone=%v, want 1/true", result.CurrentStreak, result.StreakMilestone)
	}

	// The profile reflects the award.
	me, err := c.GetMe(ctx)
	if err != nil {
		t.Fatalf("GetMe: %v", err)
	}
	if me.XP != 105 || me.Level != 2 || me.Coins != 10 {
		t.Errorf("profile after finish = %+v", me)
	}

	detail, err := c.SessionDetail(ctx, sessionID)
	if err != nil {
		t.Fatalf("SessionDetail: %v", err)
	}
	if detail.EndTime == "" || detail.TotalVolume != 8000 {
		t.Errorf("detail = %+v", detail)
	}
}

func TestLogSetForeignSessionHidden(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	alice := signup(t, ts, "alice")
	bob := signup(t, ts, "bob")

	routineID := createRoutine(t, alice, 1)
	sessionID, err := alice.StartSession(ctx, routineID)
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	catalog, _ := alice.ListExercises(ctx, "")
	err = bob.LogSet(ctx, models.SetLog{
		SessionID: sessionID, ExerciseID: catalog[0].ID, SetNumber: 1, Weight: 50, Reps: 5,
	})
	wantAPIError(t, err, http.StatusNotFound)

	_, err = bob.SessionDetail(ctx, sessionID)
	wantAPIError(t, err, http.StatusNotFound)
}

func TestCommunityLikeAndSave(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	alice := signup(t, ts, "alice")
	bob := signup(t, ts, "bob")

	routineID := createRoutine(t, alice, 2)
	if _, err := alice.TogglePublish(ctx, routineID); err != nil {
		t.Fatalf("TogglePublish: %v", err)
	}

	feed, err := bob.GetFeed(ctx)
	if err != nil {
		t.Fatalf("GetFeed: %v", err)
	}
	if len(feed) != 1 || feed[0].IsOwn || feed[0].Author == nil || feed[0].Author.Username != "alice" {
		t.Fatalf("feed = %+v", feed)
	}

	like, err := bob.ToggleLike(ctx, routineID)
	if err != nil {
		t.Fatalf("ToggleLike: %v", err)
	}
	if !like.Liked || like.Likes != 1 {
		t.Errorf("like = %+v", like)
	}

	save, err := bob.SaveRoutine(ctx, routineID)
	if err != nil {
		t.Fatalf("SaveRoutine: %v", err)
	}
	if !save.Saved || save.NewRoutineID == 0 {
		t.Errorf("save = %+v", save)
	}

	clone, err := bob.GetRoutine(ctx, save.NewRoutineID)
	if err != nil {
		t.Fatalf("clone detail: %v", err)
	}
	if len(clone.Exercises) != 2 {
		t.Errorf("clone exercises = %d, want 2", len(clone.Exercises))
	}

	// Saving your own routine is rejected.
	_, err = alice.SaveRoutine(ctx, routineID)
	wantAPIError(t, err, http.StatusBadRequest)

	exercises, err := bob.GetRoutineExercises(ctx, routineID)
	if err != nil {
		t.Fatalf("GetRoutineExercises: %v", err)
	}
	if len(exercises) != 2 {
		t.Errorf("feed exercises = %d, want 2", len(exercises))
	}
}

func TestShopPurchaseValidation(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	c := signup(t, ts, "alice")

	items, err := c.GetShopItems(ctx)
	if err != nil {
		t.Fatalf("GetShopItems: %v", err)
	}
	if len(items) == 0 {
		t.Fatal("empty shop")
	}
	for _, item := range items {
		if item.CanBuy {
			t.Errorf("fresh level-1 user can buy %q", item.Name)
		}
	}

	// A fresh user has no coins and level 1.
	_, err = c.PurchaseItem(ctx, items[0].ID)
	apiErr := wantAPIError(t, err, http.StatusBadRequest)
	if apiErr.Message != "not enough coins" {
		t.Errorf("message = %q", apiErr.Message)
	}

	rewards, err := c.GetLevelRewards(ctx)
	if err != nil {
		t.Fatalf("GetLevelRewards: %v", err)
	}
	for _, r := range rewards {
		if r.Unlocked {
			t.Errorf("level %d reward unlocked at level 1", r.Level)
		}
	}
}

func TestAnalyticsEndpoints(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	c := signup(t, ts, "alice")
	routineID := createRoutine(t, c, 2)

	catalog, _ := c.ListExercises(ctx, "")
	sessionID, err := c.StartSession(ctx, routineID)
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	for i, set := range []models.SetLog{
		{SessionID: sessionID, ExerciseID: catalog[0].ID, SetNumber: 1, Weight: 100, Reps: 5},
		{SessionID: sessionID, ExerciseID: catalog[1].ID, SetNumber: 1, Weight: 40, Reps: 12},
	} {
		if err := c.LogSet(ctx, set); err != nil {
			t.Fatalf("LogSet %d: %v", i, err)
		}
	}
	if _, err := c.FinishSession(ctx, sessionID); err != nil {
		t.Fatalf("FinishSession: %v", err)
	}

	records, err := c.PersonalRecords(ctx)
	if err != nil {
		t.Fatalf("PersonalRecords: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("records = %d, want 2", len(records))
	}

	weekly, err := c.WeeklyVolume(ctx, 12)
	if err != nil {
		t.Fatalf("WeeklyVolume: %v", err)
	}
	wantVolume := 100*5.0 + 40*12.0
	if len(weekly) != 1 || weekly[0].Volume != wantVolume {
		t.Errorf("weekly = %+v, want one bucket of %.0f", weekly, wantVolume)
	}

	volume, err := c.Volume(ctx, 30)
	if err != nil {
		t.Fatalf("Volume: %v", err)
	}
	if len(volume) == 0 {
		t.Error("empty muscle volume")
	}

	summary, err := c.StatsSummary(ctx)
	if err != nil {
		t.Fatalf("StatsSummary: %v", err)
	}
	if summary.TotalSessions != 1 || summary.TotalVolumeKg != wantVolume {
		t.Errorf("summary = %+v", summary)
	}
	if summary.FavoriteExercise == "N/A" {
		t.Error("favorite exercise not derived from logs")
	}

	heatmap, err := c.Heatmap(ctx, 365)
	if err != nil {
		t.Fatalf("Heatmap: %v", err)
	}
	if len(heatmap) != 1 || heatmap[0].Count != 1 {
		t.Errorf("heatmap = %+v", heatmap)
	}

	points, err := c.Progression(ctx, catalog[0].ID, 90)
	if err != nil {
		t.Fatalf("Progression: %v", err)
	}
	if len(points) != 1 {
		t.Errorf("progression = %+v", points)
	}
	want := models.Estimated1RM(100, 5)
	if len(points) == 1 && fmt.Sprintf("%.2f", points[0].Estimated1RM) != fmt.Sprintf("%.2f", want) {
		t.Errorf("e1RM = %.2f, want %.2f", points[0].Estimated1RM, want)
	}
}
