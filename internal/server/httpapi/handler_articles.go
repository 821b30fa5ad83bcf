package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/tourgo/internal/server/services"
)

type feedRequest struct {
	ArticleID string `json:"articleID"`
	Label     string `json:"label"`
	Username  string `json:"username"`
	Keyword   string `json:"keyword"`
	Text      string `json:"text"`
	Kind      string `json:"kind"`
}

func (s *Server) recommended(w http.ResponseWriter, r *http.Request) (any, error) {
	list, err := s.svc.Articles.Recommended(r.Context())
	if err != nil {
		return nil, err
	}
	return s.articleViews(list), nil
}

func (s *Server) articleInfo(w http.ResponseWriter, r *http.Request) (any, error) {
	var req feedRequest
	if err := decode(w, r, &req); err != nil {
		return nil, err
	}
	a, err := s.svc.Articles.Get(r.Context(), req.ArticleID)
	if err != nil {
		return nil, err
	}
	return s.articleView(a), nil
}

func (s *Server) labelArticles(w http.ResponseWriter, r *http.Request) (any, error) {
	var req feedRequest
	if err := decode(w, r, &req); err != nil {
		return nil, err
	}
	list, err := s.svc.Articles.ByLabel(r.Context(), req.Label)
	if err != nil {
		return nil, err
	}
	return s.articleViews(list), nil
}

func (s *Server) followArticles(w http.ResponseWriter, r *http.Request) (any, error) {
	var req feedRequest
	if err := decode(w, r, &req); err != nil {
		return nil, err
	}
	list, err := s.svc.Articles.FollowedBy(r.Context(), req.Username)
	if err != nil {
		return nil, err
	}
	return s.articleViews(list), nil
}

func (s *Server) searchArticles(w http.ResponseWriter, r *http.Request) (any, error) {
	var req feedRequest
	if err := decode(w, r, &req); err != nil {
		return nil, err
	}
	list, err := s.svc.Articles.Search(r.Context(), req.Keyword)
	if err != nil {
		return nil, err
	}
	return s.articleViews(list), nil
}

func (s *Server) generateImage(w http.ResponseWriter, r *http.Request) (any, error) {
	return withActor(func(r *http.Request, _ string, req feedRequest) (any, error) {
		img, err := s.svc.Articles.GenerateImage(r.Context(), req.Text)
		if err != nil {
			return nil, err
		}
		return map[string]string{"img": img}, nil
	})(w, r)
}

func (s *Server) uploadURL(w http.ResponseWriter, r *http.Request) (any, error) {
	return withActor(func(r *http.Request, username string, req feedRequest) (any, error) {
		key, url, err := s.svc.Media.UploadURL(r.Context(), username, services.MediaKind(req.Kind))
		if err != nil {
			return nil, err
		}
		return map[string]string{"key": key, "url": url}, nil
	})(w, r)
}
