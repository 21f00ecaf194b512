package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pion/webrtc/v4"

	"github.com/mvoronin/huddle/internal/app"
	"github.com/mvoronin/huddle/internal/config"
	"github.com/mvoronin/huddle/internal/roomapi"
)

func newTestRouter(t *testing.T) (*gin.Engine, *app.Coordinator) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Mode:         "test",
		ReadLimit:    65536,
		SendBuffer:   32,
		WriteTimeout: time.Second,
		ICEServers: []webrtc.ICEServer{
			{URLs: []string{"stun:stun.l.google.com:19302"}},
		},
	}
	reg := app.NewRegistry()
	store := app.NewRoomStore()
	coord := app.NewCoordinator(reg, store, app.NewRouter(reg, store))
	rooms := roomapi.NewService(roomapi.NewRepository())

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return SetupRouter(ctx, cfg, coord, rooms), coord
}

func do(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd *strings.Reader
	if body == "" {
		rd = strings.NewReader("")
	} else {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	r, _ := newTestRouter(t)
	w := do(t, r, http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestICEEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)
	w := do(t, r, http.MethodGet, "/api/ice", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp struct {
		ICEServers []webrtc.ICEServer `json:"iceServers"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.ICEServers) != 1 || resp.ICEServers[0].URLs[0] != "stun:stun.l.google.com:19302" {
		t.Fatalf("unexpected ice servers: %+v", resp.ICEServers)
	}
}

func TestCreateRoom(t *testing.T) {
	r, _ := newTestRouter(t)
	w := do(t, r, http.MethodPost, "/api/room", `{"userId":"user-1","roomHandle":"team-standup"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body)
	}
	var room roomapi.Room
	if err := json.Unmarshal(w.Body.Bytes(), &room); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.HasPrefix(room.ID, "room_") || room.Handle != "team-standup" {
		t.Fatalf("unexpected room: %+v", room)
	}
}

func TestCreateRoomRejectsBadRequests(t *testing.T) {
	r, _ := newTestRouter(t)

	cases := []struct {
		name string
		body string
		code int
	}{
		{"missing fields", `{"userId":"user-1"}`, http.StatusBadRequest},
		{"not json", `hello`, http.StatusBadRequest},
		{"bad handle", `{"userId":"user-1","roomHandle":"my room"}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, r, http.MethodPost, "/api/room", tc.body)
			if w.Code != tc.code {
				t.Fatalf("status = %d, want %d: %s", w.Code, tc.code, w.Body)
			}
		})
	}
}

func TestCreateRoomDuplicateHandleConflicts(t *testing.T) {
	r, _ := newTestRouter(t)
	if w := do(t, r, http.MethodPost, "/api/room", `{"userId":"user-1","roomHandle":"demo"}`); w.Code != http.StatusCreated {
		t.Fatalf("first create: %d", w.Code)
	}
	w := do(t, r, http.MethodPost, "/api/room", `{"userId":"user-2","roomHandle":"demo"}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
}

func TestGetRoom(t *testing.T) {
	r, _ := newTestRouter(t)
	w := do(t, r, http.MethodPost, "/api/room", `{"userId":"user-1","roomHandle":"demo"}`)
	var created roomapi.Room
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	w = do(t, r, http.MethodGet, "/api/room?roomHandle=demo", "")
	if w.Code != http.StatusOK {
		t.Fatalf("by handle status = %d, want 200", w.Code)
	}

	w = do(t, r, http.MethodGet, "/api/room?roomId="+created.ID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("by id status = %d, want 200", w.Code)
	}

	w = do(t, r, http.MethodGet, "/api/room?roomHandle=missing", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing status = %d, want 404", w.Code)
	}

	w = do(t, r, http.MethodGet, "/api/room", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("no params status = %d, want 400", w.Code)
	}
}

func TestCloseRoomEndpoint(t *testing.T) {
	r, coord := newTestRouter(t)

	w := do(t, r, http.MethodDelete, "/api/room/demo", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("close of absent room = %d, want 404", w.Code)
	}

	// Seed a live relay room directly; the REST layer closes rooms the
	// signaling side created.
	coord.Store.GetOrCreate("demo", time.Now())

	w = do(t, r, http.MethodDelete, "/api/room/demo", "")
	if w.Code != http.StatusOK {
		t.Fatalf("close status = %d, want 200", w.Code)
	}
	if _, ok := coord.Store.Get("demo"); ok {
		t.Fatalf("room still present after close")
	}
}
