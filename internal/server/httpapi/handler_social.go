package httpapi

import (
	"net/http"
)

type followRequest struct {
	FollowName string `json:"followName"`
	RemoveName string `json:"removeName"`
	ID         string `json:"id"`
}

type articleRequest struct {
	ArticleID string `json:"article_id"`
	Comment   string `json:"comment"`
	CommentID string `json:"comment_id"`
	ShareName string `json:"shareName"`
	ShareID   string `json:"share_id"`
}

// withActor decodes the body into req and hands the authenticated username
// to fn.
func withActor[T any](fn func(r *http.Request, username string, req T) (any, error)) apiFunc {
	return func(w http.ResponseWriter, r *http.Request) (any, error) {
		username, err := actor(r)
		if err != nil {
			return nil, err
		}
		var req T
		if r.Method != http.MethodGet {
			if err := decode(w, r, &req); err != nil {
				return nil, err
			}
		}
		return fn(r, username, req)
	}
}

func (s *Server) addFollow(w http.ResponseWriter, r *http.Request) (any, error) {
	return withActor(func(r *http.Request, username string, req followRequest) (any, error) {
		if err := s.svc.Graph.Follow(r.Context(), username, req.FollowName); err != nil {
			return nil, err
		}
		return "Follow successfully", nil
	})(w, r)
}

func (s *Server) removeFollow(w http.ResponseWriter, r *http.Request) (any, error) {
	return withActor(func(r *http.Request, username string, req followRequest) (any, error) {
		var err error
		if req.ID != "" {
			err = s.svc.Graph.UnfollowByID(r.Context(), username, req.ID)
		} else {
			err = s.svc.Graph.Unfollow(r.Context(), username, req.RemoveName)
		}
		if err != nil {
			return nil, err
		}
		return "Remove follow successfully", nil
	})(w, r)
}

func (s *Server) isFollow(w http.ResponseWriter, r *http.Request) (any, error) {
	return withActor(func(r *http.Request, username string, req followRequest) (any, error) {
		ok, err := s.svc.Graph.IsFollowing(r.Context(), username, req.FollowName)
		if err != nil {
			return nil, err
		}
		return map[string]bool{"isFollow": ok}, nil
	})(w, r)
}

func (s *Server) getFollows(w http.ResponseWriter, r *http.Request) (any, error) {
	return withActor(func(r *http.Request, username string, _ struct{}) (any, error) {
		list, err := s.svc.Graph.ListFollowing(r.Context(), username)
		if err != nil {
			return nil, err
		}
		return s.followViews(list), nil
	})(w, r)
}

func (s *Server) getFans(w http.ResponseWriter, r *http.Request) (any, error) {
	return withActor(func(r *http.Request, username string, _ struct{}) (any, error) {
		list, err := s.svc.Graph.ListFollowers(r.Context(), username)
		if err != nil {
			return nil, err
		}
		return s.followViews(list), nil
	})(w, r)
}

func (s *Server) addLike(w http.ResponseWriter, r *http.Request) (any, error) {
	return withActor(func(r *http.Request, username string, req articleRequest) (any, error) {
		if err := s.svc.Ledger.Like(r.Context(), username, req.ArticleID); err != nil {
			return nil, err
		}
		return "Like successfully", nil
	})(w, r)
}

func (s *Server) deleteLike(w http.ResponseWriter, r *http.Request) (any, error) {
	return withActor(func(r *http.Request, username string, req articleRequest) (any, error) {
		if err := s.svc.Ledger.Unlike(r.Context(), username, req.ArticleID); err != nil {
			return nil, err
		}
		return "Delete like successfully", nil
	})(w, r)
}

func (s *Server) hasLike(w http.ResponseWriter, r *http.Request) (any, error) {
	return withActor(func(r *http.Request, username string, req articleRequest) (any, error) {
		ok, err := s.svc.Ledger.HasLike(r.Context(), username, req.ArticleID)
		if err != nil {
			return nil, err
		}
		return map[string]bool{"hasLike": ok}, nil
	})(w, r)
}

func (s *Server) getLikes(w http.ResponseWriter, r *http.Request) (any, error) {
	return withActor(func(r *http.Request, username string, _ struct{}) (any, error) {
		list, err := s.svc.Ledger.ListLikes(r.Context(), username)
		if err != nil {
			return nil, err
		}
		return s.engagementViews(list), nil
	})(w, r)
}

func (s *Server) addCollect(w http.ResponseWriter, r *http.Request) (any, error) {
	return withActor(func(r *http.Request, username string, req articleRequest) (any, error) {
		if err := s.svc.Ledger.Collect(r.Context(), username, req.ArticleID); err != nil {
			return nil, err
		}
		return "Collect successfully", nil
	})(w, r)
}

func (s *Server) deleteCollect(w http.ResponseWriter, r *http.Request) (any, error) {
	return withActor(func(r *http.Request, username string, req articleRequest) (any, error) {
		if err := s.svc.Ledger.Uncollect(r.Context(), username, req.ArticleID); err != nil {
			return nil, err
		}
		return "Delete collect successfully", nil
	})(w, r)
}

func (s *Server) hasCollect(w http.ResponseWriter, r *http.Request) (any, error) {
	return withActor(func(r *http.Request, username string, req articleRequest) (any, error) {
		ok, err := s.svc.Ledger.HasCollect(r.Context(), username, req.ArticleID)
		if err != nil {
			return nil, err
		}
		return map[string]bool{"hasCollect": ok}, nil
	})(w, r)
}

func (s *Server) getCollects(w http.ResponseWriter, r *http.Request) (any, error) {
	return withActor(func(r *http.Request, username string, _ struct{}) (any, error) {
		list, err := s.svc.Ledger.ListCollects(r.Context(), username)
		if err != nil {
			return nil, err
		}
		return s.engagementViews(list), nil
	})(w, r)
}

func (s *Server) addComment(w http.ResponseWriter, r *http.Request) (any, error) {
	return withActor(func(r *http.Request, username string, req articleRequest) (any, error) {
		c, err := s.svc.Ledger.AddComment(r.Context(), username, req.ArticleID, req.Comment)
		if err != nil {
			return nil, err
		}
		return s.commentView(c), nil
	})(w, r)
}

func (s *Server) deleteComment(w http.ResponseWriter, r *http.Request) (any, error) {
	return withActor(func(r *http.Request, username string, req articleRequest) (any, error) {
		if err := s.svc.Ledger.DeleteComment(r.Context(), username, req.CommentID); err != nil {
			return nil, err
		}
		return "Delete comment successfully", nil
	})(w, r)
}

func (s *Server) updateScore(w http.ResponseWriter, r *http.Request) (any, error) {
	return withActor(func(r *http.Request, username string, req articleRequest) (any, error) {
		score, err := s.svc.Ledger.UpdateScore(r.Context(), username, req.CommentID)
		if err != nil {
			return nil, err
		}
		return map[string]int{"score": score}, nil
	})(w, r)
}

func (s *Server) getComments(w http.ResponseWriter, r *http.Request) (any, error) {
	return withActor(func(r *http.Request, _ string, req articleRequest) (any, error) {
		list, err := s.svc.Ledger.ListComments(r.Context(), req.ArticleID)
		if err != nil {
			return nil, err
		}
		return s.commentViews(list), nil
	})(w, r)
}

func (s *Server) addShare(w http.ResponseWriter, r *http.Request) (any, error) {
	return withActor(func(r *http.Request, username string, req articleRequest) (any, error) {
		sh, err := s.svc.Ledger.Share(r.Context(), username, req.ArticleID, req.ShareName)
		if err != nil {
			return nil, err
		}
		return s.shareView(sh), nil
	})(w, r)
}

func (s *Server) deleteShare(w http.ResponseWriter, r *http.Request) (any, error) {
	return withActor(func(r *http.Request, username string, req articleRequest) (any, error) {
		if err := s.svc.Ledger.Unshare(r.Context(), username, req.ShareID); err != nil {
			return nil, err
		}
		return "Delete share successfully", nil
	})(w, r)
}

func (s *Server) getShares(w http.ResponseWriter, r *http.Request) (any, error) {
	return withActor(func(r *http.Request, username string, _ struct{}) (any, error) {
		list, err := s.svc.Ledger.ListShares(r.Context(), username)
		if err != nil {
			return nil, err
		}
		return s.shareViews(list), nil
	})(w, r)
}

func (s *Server) addHistory(w http.ResponseWriter, r *http.Request) (any, error) {
	return withActor(func(r *http.Request, username string, req articleRequest) (any, error) {
		added, err := s.svc.Ledger.AddHistory(r.Context(), username, req.ArticleID)
		if err != nil {
			return nil, err
		}
		if !added {
			return "Already added history", nil
		}
		return "Add history successfully", nil
	})(w, r)
}

func (s *Server) getHistories(w http.ResponseWriter, r *http.Request) (any, error) {
	return withActor(func(r *http.Request, username string, _ struct{}) (any, error) {
		list, err := s.svc.Ledger.ListHistories(r.Context(), username)
		if err != nil {
			return nil, err
		}
		return map[string]any{"histories": s.engagementViews(list)}, nil
	})(w, r)
}
