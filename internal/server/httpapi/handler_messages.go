package httpapi

import (
	"net/http"
)

type messageRequest struct {
	MessageID string `json:"message_id"`
}

func (s *Server) unreadMessages(w http.ResponseWriter, r *http.Request) (any, error) {
	return withActor(func(r *http.Request, username string, _ struct{}) (any, error) {
		in, err := s.svc.Notifications.ListUnread(r.Context(), username)
		if err != nil {
			return nil, err
		}
		return s.inboxView(in), nil
	})(w, r)
}

func (s *Server) readAll(w http.ResponseWriter, r *http.Request) (any, error) {
	return withActor(func(r *http.Request, username string, _ struct{}) (any, error) {
		n, err := s.svc.Notifications.MarkAllRead(r.Context(), username)
		if err != nil {
			return nil, err
		}
		return map[string]int64{"updated": n}, nil
	})(w, r)
}

func (s *Server) markRead(w http.ResponseWriter, r *http.Request) (any, error) {
	return withActor(func(r *http.Request, username string, req messageRequest) (any, error) {
		if err := s.svc.Notifications.MarkRead(r.Context(), username, req.MessageID); err != nil {
			return nil, err
		}
		return "Mark read successfully", nil
	})(w, r)
}

func (s *Server) deleteMessage(w http.ResponseWriter, r *http.Request) (any, error) {
	return withActor(func(r *http.Request, username string, req messageRequest) (any, error) {
		if err := s.svc.Notifications.Delete(r.Context(), username, req.MessageID); err != nil {
			return nil, err
		}
		return "Delete message successfully", nil
	})(w, r)
}
