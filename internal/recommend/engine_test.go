// Admitra - College Admission Catalog and Relationship Graph Engine
// Copyright 2026 Admitra Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/admitra/admitra

package recommend

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/admitra/admitra/internal/config"
	"github.com/admitra/admitra/internal/models"
	"github.com/admitra/admitra/internal/similarity"
	"github.com/admitra/admitra/internal/store"
)

type fixedClock struct{ now time.Time }

func (f fixedClock) Now() time.Time { return f.now }

type fakeStore struct {
	colleges        map[string]*models.College
	courses         []*models.Course
	interactions    []models.Interaction
	prefs           map[string]*models.UserPreferences
	interactionsErr error
}

var testNow = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func newFakeStore() *fakeStore {
	return &fakeStore{
		colleges: map[string]*models.College{
			"col-A": {ID: "col-A", Name: "Anchor College", Region: "KA", Locality: "Bengaluru", Category: "private", Rank: 10},
			"col-B": {ID: "col-B", Name: "Nearby College", Region: "KA", Locality: "Bengaluru", Category: "private", Rank: 20},
			"col-C": {ID: "col-C", Name: "Far College", Region: "KA", Locality: "Mysuru", Category: "government", Rank: 300},
		},
		courses: []*models.Course{
			{ID: "crs-A1", CollegeID: "col-A", Name: "Computer Science"},
			{ID: "crs-B1", CollegeID: "col-B", Name: "Computer Science"},
			{ID: "crs-C1", CollegeID: "col-C", Name: "Civil Engineering"},
		},
		interactions: []models.Interaction{
			{UserID: "u1", EntityID: "col-A", EntityType: models.KindCollege, Action: "favorite", OccurredAt: testNow.Add(-24 * time.Hour).Unix()},
			{UserID: "u1", EntityID: "col-B", EntityType: models.KindCollege, Action: "favorite", OccurredAt: testNow.Add(-24 * time.Hour).Unix()},
			{UserID: "u2", EntityID: "col-B", EntityType: models.KindCollege, Action: "select", OccurredAt: testNow.Add(-48 * time.Hour).Unix()},
		},
		prefs: map[string]*models.UserPreferences{
			"user-1": {UserID: "user-1", Region: "KA"},
		},
	}
}

func (f *fakeStore) GetEntity(_ context.Context, kind models.EntityKind, id string) (models.Entity, error) {
	if kind == models.KindCollege {
		if c, ok := f.colleges[id]; ok {
			return c, nil
		}
	}
	if kind == models.KindCourse {
		for _, c := range f.courses {
			if c.ID == id {
				return c, nil
			}
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) CollegesByRegion(_ context.Context, region string, _ int) ([]*models.College, error) {
	var out []*models.College
	for _, id := range []string{"col-A", "col-B", "col-C"} {
		if c := f.colleges[id]; c != nil && c.Region == region {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) CollegesOfferingCourseName(_ context.Context, name, exclude string, _ int) ([]*models.College, error) {
	var out []*models.College
	for _, crs := range f.courses {
		if similarity.Normalize(crs.Name) == name && crs.CollegeID != exclude {
			if c := f.colleges[crs.CollegeID]; c != nil {
				out = append(out, c)
			}
		}
	}
	return out, nil
}

func (f *fakeStore) CoursesByCollege(_ context.Context, collegeID string) ([]*models.Course, error) {
	var out []*models.Course
	for _, c := range f.courses {
		if c.CollegeID == collegeID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) ListInteractionsSince(_ context.Context, since time.Time, _ int) ([]models.Interaction, error) {
	if f.interactionsErr != nil {
		return nil, f.interactionsErr
	}
	var out []models.Interaction
	for _, it := range f.interactions {
		if it.OccurredAt >= since.Unix() {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeStore) GetUserPreferences(_ context.Context, userID string) (*models.UserPreferences, error) {
	return f.prefs[userID], nil
}

func newTestEngine(fs *fakeStore) *Engine {
	cfg := config.Defaults().Recommend
	return New(fs, nil, cfg, fixedClock{testNow})
}

func TestRecommendExcludesSourceAndRanks(t *testing.T) {
	t.Parallel()

	e := newTestEngine(newFakeStore())
	got, err := e.Recommend(context.Background(), "col-A", models.KindCollege, Options{
		UserID:         "user-1",
		IncludeReasons: true,
	})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2: %+v", len(got), got)
	}
	for _, c := range got {
		if c.ID == "col-A" {
			t.Error("source entity appeared in its own recommendations")
		}
	}
	if got[0].ID != "col-B" || got[1].ID != "col-C" {
		t.Errorf("ranking = [%s, %s], want [col-B, col-C]", got[0].ID, got[1].ID)
	}
	if got[0].Score <= got[1].Score {
		t.Errorf("scores not descending: %v <= %v", got[0].Score, got[1].Score)
	}
}

func TestRecommendScoreAccumulation(t *testing.T) {
	t.Parallel()

	e := newTestEngine(newFakeStore())
	got, err := e.Recommend(context.Background(), "col-A", models.KindCollege, Options{
		UserID:         "user-1",
		IncludeReasons: true,
	})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	// col-B hits all five sources at or near their maxima:
	// graph 100*0.30 + collaborative 100*0.25 + content 100*0.20 +
	// trending 100*0.15 + personalization 75*0.10 = 97.5.
	best := got[0]
	if best.ID != "col-B" {
		t.Fatalf("best = %s, want col-B", best.ID)
	}
	if best.Score < 90 || best.Score > 100 {
		t.Errorf("col-B score = %v, want ~97.5", best.Score)
	}
	if len(best.Sources) != 5 {
		t.Errorf("col-B sources = %v, want all five", best.Sources)
	}
}

func TestRecommendReasonsCapped(t *testing.T) {
	t.Parallel()

	e := newTestEngine(newFakeStore())
	got, err := e.Recommend(context.Background(), "col-A", models.KindCollege, Options{
		UserID:         "user-1",
		IncludeReasons: true,
	})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	for _, c := range got {
		if len(c.Reasons) > maxReasons {
			t.Errorf("%s has %d reasons, cap is %d", c.ID, len(c.Reasons), maxReasons)
		}
		seen := map[string]bool{}
		for _, r := range c.Reasons {
			if seen[r] {
				t.Errorf("%s has duplicate reason %q", c.ID, r)
			}
			seen[r] = true
		}
	}
}

func TestRecommendReasonsOmitted(t *testing.T) {
	t.Parallel()

	e := newTestEngine(newFakeStore())
	got, err := e.Recommend(context.Background(), "col-A", models.KindCollege, Options{
		IncludeReasons: false,
	})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	for _, c := range got {
		if c.Reasons != nil {
			t.Errorf("%s carries reasons with IncludeReasons=false", c.ID)
		}
	}
}

func TestRecommendLimit(t *testing.T) {
	t.Parallel()

	e := newTestEngine(newFakeStore())
	got, err := e.Recommend(context.Background(), "col-A", models.KindCollege, Options{
		Limit: 1,
	})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("got %d candidates, want limit 1", len(got))
	}
}

func TestRecommendSourceFailureDegrades(t *testing.T) {
	t.Parallel()

	fs := newFakeStore()
	fs.interactionsErr = errors.New("interactions table offline")
	e := newTestEngine(fs)

	got, err := e.Recommend(context.Background(), "col-A", models.KindCollege, Options{
		UserID: "user-1",
	})
	if err != nil {
		t.Fatalf("Recommend must degrade, not fail: %v", err)
	}
	if len(got) == 0 {
		t.Fatal("expected candidates from surviving sources")
	}
	for _, c := range got {
		for _, s := range c.Sources {
			if s == models.SourceCollaborative || s == models.SourceTrending {
				t.Errorf("%s scored by failed source %s", c.ID, s)
			}
		}
	}
}

func TestRecommendUnknownSource(t *testing.T) {
	t.Parallel()

	e := newTestEngine(newFakeStore())
	_, err := e.Recommend(context.Background(), "missing", models.KindCollege, Options{})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestRecommendCourseRootAnchorsOnCollege(t *testing.T) {
	t.Parallel()

	e := newTestEngine(newFakeStore())
	got, err := e.Recommend(context.Background(), "crs-A1", models.KindCourse, Options{})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	for _, c := range got {
		if c.ID == "crs-A1" || c.ID == "col-A" {
			t.Errorf("course root leaked itself or its college: %s", c.ID)
		}
	}
	if len(got) == 0 {
		t.Error("expected candidates for course root")
	}
}

func TestDedupeReasons(t *testing.T) {
	t.Parallel()

	got := dedupeReasons([]string{"a", "b", "a", "c", "d"}, 3)
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Errorf("dedupeReasons = %v", got)
	}
}
