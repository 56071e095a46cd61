package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"aim-achiever/internal/db"
	"aim-achiever/internal/mood"
)

func TestCreateMoodHandler_WithAnalysis(t *testing.T) {
	setupTestDB(t)
	resetTables(t)
	u := seedUser(t, "moody", "moody@example.com")
	oracle := &stubOracle{responses: []string{`{"rating":4,"quote":"Keep going!"}`}}

	r := authedRouter(u.ID)
	r.POST("/moods", CreateMoodHandler(oracle))
	w := httptest.NewRecorder()
	body := `{"mood":4,"energy":3,"motivation":5,"notes":"felt great"}`
	req := httptest.NewRequest("POST", "/moods", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d: %s", w.Code, w.Body.String())
	}
	var entry mood.Entry
	if err := db.DB.Where("user_id = ?", u.ID).First(&entry).Error; err != nil {
		t.Fatalf("entry not persisted: %v", err)
	}
	if entry.AIRating == nil || *entry.AIRating != 4 {
		t.Errorf("expected AI rating 4, got %v", entry.AIRating)
	}
	if entry.AIQuote != "Keep going!" {
		t.Errorf("expected quote persisted, got %q", entry.AIQuote)
	}
}

func TestCreateMoodHandler_AnalysisFailureTolerated(t *testing.T) {
	setupTestDB(t)
	resetTables(t)
	u := seedUser(t, "moody2", "moody2@example.com")
	oracle := &stubOracle{err: errors.New("oracle down")}

	r := authedRouter(u.ID)
	r.POST("/moods", CreateMoodHandler(oracle))
	w := httptest.NewRecorder()
	body := `{"mood":2,"energy":2,"motivation":1,"notes":"rough day"}`
	req := httptest.NewRequest("POST", "/moods", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 even when analysis fails, got %d: %s", w.Code, w.Body.String())
	}
	var entry mood.Entry
	if err := db.DB.Where("user_id = ?", u.ID).First(&entry).Error; err != nil {
		t.Fatalf("entry not persisted: %v", err)
	}
	if entry.AIRating != nil {
		t.Errorf("expected no AI rating after failed analysis, got %v", *entry.AIRating)
	}
}

func TestCreateMoodHandler_RejectsOutOfScale(t *testing.T) {
	setupTestDB(t)
	resetTables(t)
	u := seedUser(t, "moody3", "moody3@example.com")

	r := authedRouter(u.ID)
	r.POST("/moods", CreateMoodHandler(&stubOracle{responses: []string{`{"rating":3}`}}))
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/moods", bytes.NewReader([]byte(`{"mood":6,"energy":3,"motivation":3}`)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for out-of-scale mood, got %d: %s", w.Code, w.Body.String())
	}
}

func TestUpdateMoodHandler_EditsOwnEntry(t *testing.T) {
	setupTestDB(t)
	resetTables(t)
	u := seedUser(t, "editor", "editor@example.com")
	rating := 4
	entry := mood.Entry{UserID: u.ID, Mood: 4, Energy: 4, Motivation: 4, Notes: "great",
		AIRating: &rating, AIQuote: "Keep it up"}
	if err := db.DB.Create(&entry).Error; err != nil {
		t.Fatalf("failed to seed entry: %v", err)
	}

	r := authedRouter(u.ID)
	r.PUT("/moods/:id", UpdateMoodHandler())
	w := httptest.NewRecorder()
	body := `{"mood":2,"energy":2,"motivation":3,"notes":"reconsidered"}`
	req := httptest.NewRequest("PUT", fmt.Sprintf("/moods/%d", entry.ID), bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}
	var got mood.Entry
	if err := db.DB.First(&got, entry.ID).Error; err != nil {
		t.Fatalf("fetch entry: %v", err)
	}
	if got.Mood != 2 || got.Notes != "reconsidered" {
		t.Errorf("entry not updated: %+v", got)
	}
	// The recorded evaluation stays with the entry.
	if got.AIRating == nil || *got.AIRating != 4 || got.AIQuote != "Keep it up" {
		t.Errorf("AI evaluation must survive edits: %+v", got)
	}
}

func TestUpdateMoodHandler_ScopedToOwner(t *testing.T) {
	setupTestDB(t)
	resetTables(t)
	owner := seedUser(t, "edowner", "edowner@example.com")
	other := seedUser(t, "edother", "edother@example.com")
	entry := mood.Entry{UserID: owner.ID, Mood: 3, Energy: 3, Motivation: 3}
	if err := db.DB.Create(&entry).Error; err != nil {
		t.Fatalf("failed to seed entry: %v", err)
	}

	r := authedRouter(other.ID)
	r.PUT("/moods/:id", UpdateMoodHandler())
	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", fmt.Sprintf("/moods/%d", entry.ID),
		bytes.NewReader([]byte(`{"mood":1,"energy":1,"motivation":1}`)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 editing another user's entry, got %d: %s", w.Code, w.Body.String())
	}
}

func TestDeleteMoodHandler_ScopedToOwner(t *testing.T) {
	setupTestDB(t)
	resetTables(t)
	owner := seedUser(t, "moodowner", "moodowner@example.com")
	other := seedUser(t, "moodother", "moodother@example.com")
	entry := mood.Entry{UserID: owner.ID, Mood: 3, Energy: 3, Motivation: 3}
	if err := db.DB.Create(&entry).Error; err != nil {
		t.Fatalf("failed to seed entry: %v", err)
	}

	r := authedRouter(other.ID)
	r.DELETE("/moods/:id", DeleteMoodHandler())
	w := httptest.NewRecorder()
	req := httptest.NewRequest("DELETE", fmt.Sprintf("/moods/%d", entry.ID), nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 deleting another user's entry, got %d: %s", w.Code, w.Body.String())
	}
	var count int64
	db.DB.Model(&mood.Entry{}).Where("id = ?", entry.ID).Count(&count)
	if count != 1 {
		t.Errorf("entry must survive a foreign delete attempt")
	}
}
