package http

import (
	"context"
	"encoding/xml"
	"log"
	"net/http"

	"quizbot/internal/engine"
	"quizbot/internal/format"
)

// ButtonSender delivers structured button messages out of band; the
// webhook response itself can only carry plain TwiML.
type ButtonSender interface {
	SendButtons(ctx context.Context, to string, payload format.Payload) error
}

// WebhookHandler receives provider webhooks (Twilio WhatsApp form posts)
// and answers with TwiML. In interactive mode, button payloads are pushed
// through the provider REST API instead and the webhook response is empty.
type WebhookHandler struct {
	engine    *engine.Engine
	formatter *format.Formatter
	sender    ButtonSender
}

func NewWebhookHandler(eng *engine.Engine, formatter *format.Formatter, sender ButtonSender) *WebhookHandler {
	return &WebhookHandler{engine: eng, formatter: formatter, sender: sender}
}

type twimlResponse struct {
	XMLName xml.Name      `xml:"Response"`
	Message *twimlMessage `xml:"Message,omitempty"`
}

type twimlMessage struct {
	Body  string `xml:"Body"`
	Media string `xml:"Media,omitempty"`
}

// ServeWebhook handles POST /whatsapp.
func (h *WebhookHandler) ServeWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	from := r.PostFormValue("From")
	if from == "" {
		from = "unknown"
	}
	body := r.PostFormValue("Body")

	reply, err := h.engine.Handle(r.Context(), from, body)
	if err != nil {
		log.Printf("handle message from %s: %v", from, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	payload := h.formatter.Render(reply)

	if len(payload.Buttons) > 0 && h.sender != nil {
		if err := h.sender.SendButtons(r.Context(), from, payload); err != nil {
			log.Printf("send buttons to %s: %v", from, err)
			// fall back to an inline text reply rather than go silent
			writeTwiML(w, twimlResponse{Message: &twimlMessage{Body: payload.Body}})
			return
		}
		writeTwiML(w, twimlResponse{})
		return
	}

	writeTwiML(w, twimlResponse{Message: &twimlMessage{Body: payload.Body, Media: payload.ImageURL}})
}

func writeTwiML(w http.ResponseWriter, resp twimlResponse) {
	out, err := xml.Marshal(resp)
	if err != nil {
		log.Printf("marshal twiml: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	_, _ = w.Write([]byte(xml.Header))
	_, _ = w.Write(out)
}

// Health answers GET / for load balancer checks.
func Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	_, _ = w.Write([]byte("OK"))
}
