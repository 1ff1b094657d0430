package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"ClipFM/model"

	"github.com/gorilla/mux"
)

func TestGetTracksHandler(t *testing.T) {
	env := newTestEnv(t)
	for _, tr := range []*model.Track{
		{ID: "trk_1", UserID: 7, AudioTitle: "first", CreatedAt: 1},
		{ID: "trk_2", UserID: 7, AudioTitle: "second", CreatedAt: 2},
		{ID: "trk_3", UserID: 8, AudioTitle: "someone else's", CreatedAt: 3},
	} {
		if err := env.trackRepo.AppendTrack(context.Background(), tr); err != nil {
			t.Fatalf("failed to seed track: %v", err)
		}
	}

	rec := httptest.NewRecorder()
	env.handler.GetTracksHandler(rec, authedRequest(http.MethodGet, "/api/tracks", nil, 7))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (body: %s)", rec.Code, rec.Body.String())
	}

	var tracks []*model.Track
	if err := json.Unmarshal(rec.Body.Bytes(), &tracks); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(tracks) != 2 {
		t.Fatalf("got %d tracks, want 2", len(tracks))
	}
	if tracks[0].ID != "trk_1" || tracks[1].ID != "trk_2" {
		t.Errorf("tracks out of order: %s, %s", tracks[0].ID, tracks[1].ID)
	}
}

func TestGetTracksHandlerEmptyList(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.handler.GetTracksHandler(rec, authedRequest(http.MethodGet, "/api/tracks", nil, 7))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	// An empty library is [], not null.
	if body := rec.Body.String(); body != "[]\n" && body != "[]" {
		t.Errorf("empty list body = %q, want []", body)
	}
}

func TestGetTracksHandlerRepoFailure(t *testing.T) {
	env := newTestEnv(t)
	env.trackRepo.listErr = errors.New("db down")

	rec := httptest.NewRecorder()
	env.handler.GetTracksHandler(rec, authedRequest(http.MethodGet, "/api/tracks", nil, 7))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestGetTrackHandler(t *testing.T) {
	env := newTestEnv(t)
	if err := env.trackRepo.AppendTrack(context.Background(),
		&model.Track{ID: "trk_1", UserID: 7, AudioTitle: "mine"}); err != nil {
		t.Fatalf("failed to seed track: %v", err)
	}

	cases := []struct {
		name   string
		id     string
		userID int64
		want   int
	}{
		{"owner fetches own track", "trk_1", 7, http.StatusOK},
		{"unknown track", "trk_missing", 7, http.StatusNotFound},
		{"someone else's track", "trk_1", 8, http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := authedRequest(http.MethodGet, "/api/tracks/"+tc.id, nil, tc.userID)
			req = mux.SetURLVars(req, map[string]string{"id": tc.id})

			env.handler.GetTrackHandler(rec, req)

			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d (body: %s)", rec.Code, tc.want, rec.Body.String())
			}
		})
	}
}

func TestGetTracksHandlerUnauthenticatedContext(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.handler.GetTracksHandler(rec, httptest.NewRequest(http.MethodGet, "/api/tracks", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
