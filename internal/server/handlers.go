package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/jonathan/coldmail/internal/db"
	"github.com/jonathan/coldmail/internal/server/middleware"
	"github.com/jonathan/coldmail/internal/session"
	"github.com/jonathan/coldmail/internal/types"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// errSessionGone is returned when a session expires between lookup and use.
var errSessionGone = errors.New("session expired, reload the page")

// sessionResponse is the JSON view of a session after an action.
type sessionResponse struct {
	Session *session.Session  `json:"session"`
	Kind    session.ErrorKind `json:"kind,omitempty"`
	Error   string            `json:"error,omitempty"`
}

// historyResponse lists sent emails, most recent first.
type historyResponse struct {
	Records []db.OutreachRecord `json:"records"`
}

// currentSession returns the caller's session ID. A new session is started, and its
// cookie set, when the request carries none or the stored session has expired.
func (s *Server) currentSession(w http.ResponseWriter, r *http.Request) (uuid.UUID, error) {
	if id, err := middleware.GetSessionID(r); err == nil {
		if _, ok := s.sessions.Get(id); ok {
			return id, nil
		}
	}

	sess := s.sessions.Create()
	token, err := s.tokens.GenerateToken(sess.ID)
	if err != nil {
		s.sessions.Delete(sess.ID)
		return uuid.Nil, err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	return sess.ID, nil
}

// act runs fn on the caller's session and returns a snapshot of the result.
func (s *Server) act(w http.ResponseWriter, r *http.Request, fn func(*session.Session)) (*session.Session, error) {
	id, err := s.currentSession(w, r)
	if err != nil {
		return nil, err
	}
	snapshot, ok := s.sessions.Do(id, fn)
	if !ok {
		return nil, errSessionGone
	}
	return snapshot, nil
}

// respondOutcome writes the session and the outcome of an API action.
func (s *Server) respondOutcome(w http.ResponseWriter, snapshot *session.Session, out session.Outcome) {
	resp := sessionResponse{Session: snapshot, Kind: out.Kind}
	status := http.StatusOK
	if out.Err != nil {
		resp.Error = out.Err.Error()
	}
	if out.Failed() {
		status = HTTPStatus(out.Err)
	}
	s.jsonResponse(w, status, resp)
}

// runAction applies one controller action and hands the pending notices back with the snapshot.
func (s *Server) runAction(w http.ResponseWriter, r *http.Request, action func(*session.Session) session.Outcome) {
	var (
		out     session.Outcome
		notices []session.Notice
	)
	snapshot, err := s.act(w, r, func(sess *session.Session) {
		out = action(sess)
		notices = sess.TakeNotices()
	})
	if err != nil {
		log.Printf("[server] session unavailable: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	snapshot.Notices = notices
	s.respondOutcome(w, snapshot, out)
}

// decodeJSON reads a JSON body into dst.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		verr := &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
		s.errorResponse(w, HTTPStatus(verr), verr.Error())
		return false
	}
	return true
}

// handleGetSession returns the caller's session and its pending notices.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	s.runAction(w, r, func(sess *session.Session) session.Outcome {
		return session.Outcome{State: sess.State}
	})
}

// handleSubmit loads a job posting and drafts an email.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req types.SubmitRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	s.runAction(w, r, func(sess *session.Session) session.Outcome {
		return s.controller.Submit(r.Context(), sess, req.URL)
	})
}

// handleSend mails the drafted email.
func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	var req types.SendRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	s.runAction(w, r, func(sess *session.Session) session.Outcome {
		return s.controller.Send(r.Context(), sess, req.Recipient)
	})
}

// handleReset starts over.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.runAction(w, r, func(sess *session.Session) session.Outcome {
		return s.controller.Reset(sess)
	})
}

// handleHistory lists sent emails.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := db.DefaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			verr := &ErrValidation{Field: "limit", Message: "must be a positive integer"}
			s.errorResponse(w, HTTPStatus(verr), verr.Error())
			return
		}
		limit = n
	}

	if s.history == nil {
		s.jsonResponse(w, http.StatusOK, historyResponse{Records: []db.OutreachRecord{}})
		return
	}

	records, err := s.history.ListOutreach(r.Context(), limit)
	if err != nil {
		log.Printf("[server] failed to list history: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to list history")
		return
	}
	s.jsonResponse(w, http.StatusOK, historyResponse{Records: records})
}
