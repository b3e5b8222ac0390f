package web

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/Doumiri-Ali/AI-AGENTS-Costumer-Support-demo/internal/agent"
)

// ChatTurn is one rendered message on the support page.
type ChatTurn struct {
	Role string
	HTML template.HTML
}

// SupportData is the template context for the support chat page.
type SupportData struct {
	PageData
	Turns       []ChatTurn
	Unavailable bool
}

func (s *WebServer) handleSupportPage(w http.ResponseWriter, r *http.Request, sess *session) {
	s.renderSupport(w, sess, "", "")
}

func (s *WebServer) handleSupportMessage(w http.ResponseWriter, r *http.Request, sess *session) {
	if s.responder == nil {
		s.renderSupport(w, sess, "The support assistant is not configured.", "")
		return
	}
	prompt := strings.TrimSpace(r.FormValue("message"))
	if prompt == "" {
		s.renderSupport(w, sess, "Please type a message.", "")
		return
	}

	reply := s.responder.Respond(r.Context(), sess.ThreadID, prompt)
	s.logger.Debug("support reply",
		"threadID", sess.ThreadID,
		"promptBytes", len(prompt),
		"replyBytes", len(reply),
	)
	s.renderSupport(w, sess, "", reply)
}

// renderSupport renders the chat page. lastReply covers replies that
// are returned but never persisted (the clarification fallback); it is
// shown only when the stored history does not already end with it.
func (s *WebServer) renderSupport(w http.ResponseWriter, sess *session, errMsg, lastReply string) {
	turns := s.chatTurns(sess.ThreadID)
	if lastReply != "" {
		if len(turns) == 0 || turns[len(turns)-1].Role != "assistant" {
			turns = append(turns, ChatTurn{Role: "assistant", HTML: renderMarkdown(lastReply)})
		}
	}

	data := SupportData{
		PageData: PageData{
			Title:     "Customer Support",
			ActiveNav: "support",
			User:      &sess.User,
			Error:     errMsg,
		},
		Unavailable: s.responder == nil,
		Turns:       turns,
	}
	s.render(w, "support.html", data)
}

// chatTurns renders the thread's user and assistant turns. Tool
// evidence retained by the sanitizer is internal and not shown.
func (s *WebServer) chatTurns(threadID string) []ChatTurn {
	history, err := s.threads.Snapshot(threadID)
	if err != nil {
		return nil
	}
	var turns []ChatTurn
	for _, m := range history {
		switch {
		case m.Kind == agent.KindUser:
			turns = append(turns, ChatTurn{
				Role: "user",
				HTML: template.HTML(template.HTMLEscapeString(m.Content)),
			})
		case m.Kind == agent.KindAssistant && m.Content != "":
			turns = append(turns, ChatTurn{
				Role: "assistant",
				HTML: renderMarkdown(m.Content),
			})
		}
	}
	return turns
}
