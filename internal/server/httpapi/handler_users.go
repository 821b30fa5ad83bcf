package httpapi

import (
	"net/http"
)

type credentialsRequest struct {
	Username          string `json:"username"`
	Password          string `json:"password"`
	Name              string `json:"name"`
	CertifyCharacters string `json:"certifyCharacters"`
}

func (s *Server) publicKey(w http.ResponseWriter, r *http.Request) (any, error) {
	return map[string]string{"publicKey": s.svc.Users.PublicKey()}, nil
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) (any, error) {
	var req credentialsRequest
	if err := decode(w, r, &req); err != nil {
		return nil, err
	}

	s.logger.Info(r.Context(), "Login request", "username", req.Username)

	sess, err := s.svc.Users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		return nil, err
	}
	return map[string]any{"token": sess.Token, "time": sess.IssuedAt.Unix()}, nil
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) (any, error) {
	var req credentialsRequest
	if err := decode(w, r, &req); err != nil {
		return nil, err
	}

	s.logger.Info(r.Context(), "Registration request", "username", req.Username)

	if err := s.svc.Users.Register(r.Context(), req.Username, req.Name, req.Password, req.CertifyCharacters); err != nil {
		return nil, err
	}
	return "Register successfully", nil
}

func (s *Server) exists(w http.ResponseWriter, r *http.Request) (any, error) {
	var req credentialsRequest
	if err := decode(w, r, &req); err != nil {
		return nil, err
	}
	ok, err := s.svc.Users.Exists(r.Context(), req.Username)
	if err != nil {
		return nil, err
	}
	return map[string]bool{"exists": ok}, nil
}

func (s *Server) forgetPassword(w http.ResponseWriter, r *http.Request) (any, error) {
	var req credentialsRequest
	if err := decode(w, r, &req); err != nil {
		return nil, err
	}
	ok, err := s.svc.Users.VerifyRecovery(r.Context(), req.Username, req.CertifyCharacters)
	if err != nil {
		return nil, err
	}
	return map[string]bool{"certified": ok}, nil
}

func (s *Server) changePassword(w http.ResponseWriter, r *http.Request) (any, error) {
	var req credentialsRequest
	if err := decode(w, r, &req); err != nil {
		return nil, err
	}
	if err := s.svc.Users.ChangePassword(r.Context(), req.Username, req.Password, req.CertifyCharacters); err != nil {
		return nil, err
	}
	return "Change password successfully", nil
}

func (s *Server) userInfo(w http.ResponseWriter, r *http.Request) (any, error) {
	username, err := actor(r)
	if err != nil {
		return nil, err
	}
	u, err := s.svc.Users.Profile(r.Context(), username)
	if err != nil {
		return nil, err
	}

	v := s.userView(u)
	if u.Avatar != "" && s.svc.Media != nil {
		url, err := s.svc.Media.DownloadURL(r.Context(), u.Avatar)
		if err != nil {
			s.logger.Warn(r.Context(), "avatar url unavailable", "user", username, "error", err)
		} else {
			v.AvatarURL = url
		}
	}
	return v, nil
}

func (s *Server) setAvatar(w http.ResponseWriter, r *http.Request) (any, error) {
	username, err := actor(r)
	if err != nil {
		return nil, err
	}
	var req struct {
		Key string `json:"key"`
	}
	if err := decode(w, r, &req); err != nil {
		return nil, err
	}
	if err := s.svc.Users.SetAvatar(r.Context(), username, req.Key); err != nil {
		return nil, err
	}
	return "Set avatar successfully", nil
}
