package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"blog_backend/internal/models"
	"blog_backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// --- parseInterval unit tests ---

func TestParseInterval(t *testing.T) {
	h := NewHandler(&service.Service{}, nil, Config{})

	cases := []struct {
		name string
		u    string
		want time.Duration
	}{
		{"default_when_missing", "/ws", 5 * time.Second},
		{"interval_string_valid", "/ws?interval=200ms", 200 * time.Millisecond},
		{"interval_ms_valid", "/ws?interval_ms=150", 150 * time.Millisecond},
		{"interval_too_large", "/ws?interval=2m", 5 * time.Second},
		{"interval_ms_too_large", "/ws?interval_ms=120000", 5 * time.Second},
		{"interval_invalid_string", "/ws?interval=bogus", 5 * time.Second},
		{"interval_ms_invalid", "/ws?interval_ms=NaN", 5 * time.Second},
		{"interval_zero_rejected", "/ws?interval=0s", 5 * time.Second},
		{"both_present_interval_wins", "/ws?interval=2s&interval_ms=150", 2 * time.Second},
		{"both_present_invalid_interval_ms_used", "/ws?interval=bogus&interval_ms=250", 250 * time.Millisecond},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tc.u, nil)
			c, _ := gin.CreateTestContext(w)
			c.Request = req
			got := h.parseInterval(c)
			if got != tc.want {
				t.Fatalf("got %v, want %v for %s", got, tc.want, tc.u)
			}
		})
	}
}

// --- websocket integration tests ---

func newFeedServer(posts *mockPosts) *httptest.Server {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(&service.Service{Posts: posts}, nil, Config{})
	r.GET("/ws", h.wsFeed)
	return httptest.NewServer(r)
}

func dialFeed(t *testing.T, srv *httptest.Server, rawQuery string) *websocket.Conn {
	t.Helper()
	u, _ := url.Parse(srv.URL)
	u.Scheme = "ws"
	u.Path = "/ws"
	u.RawQuery = rawQuery

	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	conn, _, err := dialer.Dial(u.String(), nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	return conn
}

func TestWebSocket_PostFeed_InitialAndPeriodic(t *testing.T) {
	posts := &mockPosts{listResp: []models.Post{
		{ID: 1, Title: "First", Description: "D", UserID: 7, UserName: "Alice"},
		{ID: 2, Title: "Second", Description: "D", UserID: 8, UserName: "Bob"},
	}}

	srv := newFeedServer(posts)
	defer srv.Close()

	// No Authorization header is required to subscribe.
	conn := dialFeed(t, srv, "interval_ms=20") // fast ticks for the test
	defer conn.Close()

	type envelope struct {
		Type  string          `json:"type"`
		Data  json.RawMessage `json:"data"`
		Error string          `json:"error"`
	}

	// Read the frame pushed on connect
	_ = conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	var env envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read initial: %v", err)
	}
	if env.Type != "posts" || len(env.Data) == 0 {
		t.Fatalf("bad envelope: %+v", env)
	}
	var feed []models.Post
	if err := json.Unmarshal(env.Data, &feed); err != nil {
		t.Fatalf("unmarshal feed: %v", err)
	}
	if len(feed) != 2 || feed[0].Title != "First" || feed[1].UserName != "Bob" {
		t.Fatalf("unexpected feed: %+v", feed)
	}

	// Read a subsequent tick
	_ = conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	env = envelope{}
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read second: %v", err)
	}
	if env.Type != "posts" {
		t.Fatalf("expected type=posts, got %+v", env)
	}
}

func TestWebSocket_InitialListError_Closes(t *testing.T) {
	posts := &mockPosts{listErr: errors.New("boom")}

	srv := newFeedServer(posts)
	defer srv.Close()

	conn := dialFeed(t, srv, "")
	defer conn.Close()

	// The server should close immediately after the initial List/WriteJSON fails
	_ = conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
	var raw json.RawMessage
	if err := conn.ReadJSON(&raw); err == nil {
		t.Fatalf("expected read error (closed), got message: %s", string(raw))
	}
}
