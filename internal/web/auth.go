package web

import (
	"net/http"

	"github.com/Doumiri-Ali/AI-AGENTS-Costumer-Support-demo/internal/rental"
)

// PageData carries the fields shared by all page templates.
type PageData struct {
	Title     string
	ActiveNav string
	User      *rental.User
	Error     string
	Notice    string
}

func (s *WebServer) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, "login.html", PageData{Title: "Login"})
}

func (s *WebServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	if email == "" {
		s.render(w, "login.html", PageData{Title: "Login", Error: "Please enter an email."})
		return
	}
	user, ok := s.store.UserByEmail(email)
	if !ok {
		s.render(w, "login.html", PageData{Title: "Login", Error: "Email not found. Please register."})
		return
	}
	s.startSession(w, user)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *WebServer) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, "register.html", PageData{Title: "Register"})
}

func (s *WebServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	name := r.FormValue("name")
	email := r.FormValue("email")
	phone := r.FormValue("phone")
	address := r.FormValue("address")
	if name == "" || email == "" {
		s.render(w, "register.html", PageData{Title: "Register", Error: "Name and email are required."})
		return
	}

	user, err := s.store.RegisterUser(name, email, phone, address)
	if err != nil {
		s.render(w, "register.html", PageData{Title: "Register", Error: err.Error()})
		return
	}
	s.logger.Info("user registered", "userID", user.ID, "email", user.Email)
	s.startSession(w, user)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// startSession begins a fresh conversation thread for the user and
// sets the session cookie. A re-login always gets a new thread.
func (s *WebServer) startSession(w http.ResponseWriter, user rental.User) {
	threadID := s.threads.Create(user)
	sessionID := s.sessions.create(user, threadID)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *WebServer) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if sess, ok := s.sessions.get(c.Value); ok {
			s.threads.Delete(sess.ThreadID)
		}
		s.sessions.delete(c.Value)
	}
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
