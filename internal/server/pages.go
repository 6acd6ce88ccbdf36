package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"

	"github.com/jonathan/coldmail/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

// pageData is what the index template renders.
type pageData struct {
	Session *session.Session
	Notices []session.Notice
}

func parsePages() (*template.Template, error) {
	pages, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page templates: %w", err)
	}
	return pages, nil
}

// handleIndex renders the caller's session. Notices are shown once.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var notices []session.Notice
	snapshot, err := s.act(w, r, func(sess *session.Session) {
		notices = sess.TakeNotices()
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := s.pages.ExecuteTemplate(&buf, "index.html", pageData{Session: snapshot, Notices: notices}); err != nil {
		log.Printf("[server] failed to render page: %v", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

// handleSubmitForm handles the URL form.
func (s *Server) handleSubmitForm(w http.ResponseWriter, r *http.Request) {
	s.formAction(w, r, func(sess *session.Session) {
		s.controller.Submit(r.Context(), sess, r.PostFormValue("url"))
	})
}

// handleSendForm handles the recipient form.
func (s *Server) handleSendForm(w http.ResponseWriter, r *http.Request) {
	s.formAction(w, r, func(sess *session.Session) {
		s.controller.Send(r.Context(), sess, r.PostFormValue("recipient"))
	})
}

// handleResetForm handles "Send Another Email".
func (s *Server) handleResetForm(w http.ResponseWriter, r *http.Request) {
	s.formAction(w, r, func(sess *session.Session) {
		s.controller.Reset(sess)
	})
}

// formAction runs a form post and redirects back to the page, which shows the result.
func (s *Server) formAction(w http.ResponseWriter, r *http.Request, fn func(*session.Session)) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	if _, err := s.act(w, r, fn); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
