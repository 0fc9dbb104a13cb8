package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"quizbot/internal/bank"
	"quizbot/internal/domain"
	"quizbot/internal/engine"
	"quizbot/internal/format"
	"quizbot/internal/infra/memory"
)

func testBank() domain.Bank {
	return domain.Bank{Questions: []domain.Question{
		{
			Prompt:      "Pick the flower",
			Options:     []string{"Lotus", "Rose", "Tulip"},
			Answer:      "Lotus",
			AnswerIndex: 0,
		},
	}}
}

func TestChatFlow(t *testing.T) {
	repo := bank.NewCachedRepository(bank.NewStaticLoader(testBank()), time.Minute)
	eng := engine.New(memory.NewSessionStore(), repo)
	handler := NewHandler(eng, format.New(format.ModeText))

	mux := http.NewServeMux()
	mux.HandleFunc("/chat", handler.ServeWS)
	server := httptest.NewServer(mux)
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/chat?userId=u1"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	send(t, conn, "start")
	reply := readReply(t, conn)
	if !strings.Contains(reply.Body, "Q1/1: Pick the flower") {
		t.Fatalf("expected question, got %q", reply.Body)
	}

	send(t, conn, "Lotus")
	reply = readReply(t, conn)
	if !strings.Contains(reply.Body, "Correct!") || !strings.Contains(reply.Body, "Score: 1/1") {
		t.Fatalf("expected graded summary, got %q", reply.Body)
	}
}

func TestChatRequiresUserID(t *testing.T) {
	repo := bank.NewCachedRepository(bank.NewStaticLoader(testBank()), time.Minute)
	eng := engine.New(memory.NewSessionStore(), repo)
	handler := NewHandler(eng, format.New(format.ModeText))

	server := httptest.NewServer(http.HandlerFunc(handler.ServeWS))
	defer server.Close()

	resp, err := http.Get(server.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 without userId, got %d", resp.StatusCode)
	}
}

func send(t *testing.T, conn *websocket.Conn, text string) {
	t.Helper()
	msg := map[string]any{
		"type":    "message",
		"payload": map[string]any{"text": text},
	}
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func readReply(t *testing.T, conn *websocket.Conn) format.Payload {
	t.Helper()
	var msg struct {
		Type    string         `json:"type"`
		Payload format.Payload `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if msg.Type != "reply" {
		t.Fatalf("expected reply frame, got %s", msg.Type)
	}
	return msg.Payload
}
