package server

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/minaorangina/napoleon/config"
	"github.com/minaorangina/napoleon/game"
	utils "github.com/minaorangina/napoleon/internal"
	"github.com/minaorangina/napoleon/internal/schedule"
	"github.com/minaorangina/napoleon/registry"
	"github.com/minaorangina/napoleon/room"
)

func testConfig() config.Config {
	return config.Config{
		Addr:          ":0",
		AllyCount:     0,
		HandSize:      2,
		MinPlayers:    2,
		TrickDelay:    10 * time.Millisecond,
		MailboxSize:   32,
		RoomKeyLength: 5,
		TimerTick:     time.Millisecond,
	}
}

func newGameServer(t *testing.T, lobby Lobby) *GameServer {
	t.Helper()

	gs := NewServer(lobby, testConfig(), zap.NewNop())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		gs.Shutdown(ctx)
	})
	return gs
}

func newRegistry(t *testing.T) *registry.Registry {
	t.Helper()

	cfg := testConfig()
	wheel := schedule.New(cfg.TimerTick, 32)
	t.Cleanup(wheel.Stop)

	reg := registry.New(registry.Options{
		Room: room.Options{
			Settings:    game.Settings{AllyCount: cfg.AllyCount, HandSize: cfg.HandSize},
			MinPlayers:  cfg.MinPlayers,
			TrickDelay:  cfg.TrickDelay,
			MailboxSize: cfg.MailboxSize,
			Scheduler:   wheel,
		},
		RoomKeyLength: cfg.RoomKeyLength,
		MailboxSize:   cfg.MailboxSize,
	}, zap.NewNop())
	go reg.Listen()
	t.Cleanup(reg.Stop)
	return reg
}

// newTestServer starts a server backed by a real registry.
// It is shut down when the test ends.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(newGameServer(t, newRegistry(t)))
	t.Cleanup(server.Close)
	return server
}

func mustDialWS(t *testing.T, url string) *websocket.Conn {
	t.Helper()

	ws, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		var body []byte
		if resp != nil {
			body, _ = io.ReadAll(resp.Body)
		}
		t.Fatalf("could not open a ws connection on %s: %s, %v", url, body, err)
	}
	t.Cleanup(func() { ws.Close() })

	return ws
}

func makeWSUrl(serverURL string) string {
	return "ws" + strings.TrimPrefix(serverURL, "http") + "/ws"
}

func send(t *testing.T, ws *websocket.Conn, text string) {
	t.Helper()
	utils.AssertNoError(t, ws.WriteMessage(websocket.TextMessage, []byte(text)))
}

func receive(t *testing.T, ws *websocket.Conn) string {
	t.Helper()

	ws.SetReadDeadline(time.Now().Add(time.Second))
	_, msg, err := ws.ReadMessage()
	utils.AssertNoError(t, err)
	return string(msg)
}
