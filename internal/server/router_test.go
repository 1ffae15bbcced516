package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/timcollins90/react-msger-app/internal/chat"
	"github.com/timcollins90/react-msger-app/internal/config"
	"github.com/timcollins90/react-msger-app/internal/ws"
)

func newTestRouter(t *testing.T) (*gin.Engine, *chat.Registry) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := config.Config{Port: "0", Env: "dev"}
	reg := chat.NewRegistry(0)
	hub := ws.NewHub(reg)
	go hub.Run()
	return SetupRouter(cfg, reg, hub), reg
}

func TestHealthz(t *testing.T) {
	engine, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestGetData(t *testing.T) {
	engine, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/data", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body %s: %v", w.Body.String(), err)
	}
	if resp.Message != "Hello from the backend!" {
		t.Errorf("message = %q, want %q", resp.Message, "Hello from the backend!")
	}
}

func TestCreateRoom(t *testing.T) {
	engine, reg := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/create-room", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		UUID string `json:"uuid"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body %s: %v", w.Body.String(), err)
	}
	if _, err := uuid.Parse(resp.UUID); err != nil {
		t.Errorf("uuid %q does not parse: %v", resp.UUID, err)
	}
	if got := reg.History(resp.UUID); len(got) != 0 {
		t.Errorf("fresh room history = %d messages, want 0", len(got))
	}
}

func TestCreateRoom_NotIdempotent(t *testing.T) {
	engine, _ := newTestRouter(t)

	ids := make(map[string]bool)
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/create-room", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		var resp struct {
			UUID string `json:"uuid"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("bad response body: %v", err)
		}
		ids[resp.UUID] = true
	}
	if len(ids) != 2 {
		t.Errorf("expected 2 distinct room ids, got %d", len(ids))
	}
}

func TestListMessages(t *testing.T) {
	engine, reg := newTestRouter(t)
	room, err := reg.NewRoom()
	if err != nil {
		t.Fatalf("NewRoom() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/rooms/"+room+"/messages", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Messages []chat.Message `json:"messages"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body %s: %v", w.Body.String(), err)
	}
	if len(resp.Messages) != 0 {
		t.Fatalf("messages = %d, want 0", len(resp.Messages))
	}

	reg.Append(room, chat.NewMessage("hello", "alice"))

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/rooms/"+room+"/messages", nil))
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body %s: %v", w.Body.String(), err)
	}
	if len(resp.Messages) != 1 || resp.Messages[0].Content != "hello" {
		t.Errorf("messages = %+v, want one %q message", resp.Messages, "hello")
	}
}

func TestListMessages_UnknownRoomEmptyList(t *testing.T) {
	engine, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/rooms/does-not-exist/messages", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Messages []chat.Message `json:"messages"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body %s: %v", w.Body.String(), err)
	}
	if len(resp.Messages) != 0 {
		t.Errorf("messages = %d, want 0", len(resp.Messages))
	}
}

func TestGetRoom(t *testing.T) {
	engine, reg := newTestRouter(t)
	room, err := reg.NewRoom()
	if err != nil {
		t.Fatalf("NewRoom() error = %v", err)
	}
	reg.Append(room, chat.NewMessage("hello", "alice"))

	req := httptest.NewRequest(http.MethodGet, "/api/rooms/"+room, nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		ID       string `json:"id"`
		Online   int    `json:"online"`
		Messages int    `json:"messages"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body %s: %v", w.Body.String(), err)
	}
	if resp.ID != room {
		t.Errorf("id = %q, want %q", resp.ID, room)
	}
	if resp.Online != 0 {
		t.Errorf("online = %d, want 0", resp.Online)
	}
	if resp.Messages != 1 {
		t.Errorf("messages = %d, want 1", resp.Messages)
	}
}
