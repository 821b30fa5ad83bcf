package httpapi

import (
	"github.com/dmitrijs2005/tourgo/internal/server/models"
	"github.com/dmitrijs2005/tourgo/internal/server/services"
	"github.com/dmitrijs2005/tourgo/internal/timex"
)

type userView struct {
	UserName  string `json:"user_name"`
	Name      string `json:"name"`
	Avatar    string `json:"avatar"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Bio       string `json:"bio"`
	Follow    int64  `json:"follow"`
	Follower  int64  `json:"follower"`
	Like      int64  `json:"like"`
	Collect   int64  `json:"collect"`
	Article   int64  `json:"article"`
	Plan      int64  `json:"plan"`
	Draft     int64  `json:"draft"`
	History   int64  `json:"history"`
	Time      string `json:"time"`
}

type followView struct {
	ID     string `json:"follow_id"`
	User   string `json:"user_name"`
	Follow string `json:"follow"`
	Time   string `json:"time"`
}

type engagementView struct {
	ID        string `json:"id"`
	User      string `json:"user_name"`
	ArticleID string `json:"article_id"`
	Owner     string `json:"owner"`
	Time      string `json:"time"`
}

type commentView struct {
	ID        string `json:"comment_id"`
	User      string `json:"user_name"`
	ArticleID string `json:"article_id"`
	Comment   string `json:"comment"`
	Score     int    `json:"score"`
	Time      string `json:"time"`
}

type shareView struct {
	ID        string `json:"share_id"`
	User      string `json:"user_name"`
	ArticleID string `json:"article_id"`
	Recipient string `json:"recipient"`
	Time      string `json:"time"`
}

type articleView struct {
	ID      string   `json:"article_id"`
	User    string   `json:"user_name"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Labels  []string `json:"human_labels"`
	Cover   string   `json:"cover"`
	Like    int64    `json:"like"`
	Collect int64    `json:"collect"`
	Comment int64    `json:"comment"`
	Share   int64    `json:"share"`
	Time    string   `json:"time"`
}

type messageView struct {
	ID       string `json:"message_id"`
	Sender   string `json:"user_name_send"`
	Receiver string `json:"user_name_receive"`
	Content  string `json:"message_content"`
	Type     string `json:"type"`
	Read     bool   `json:"read"`
	Time     string `json:"time"`
}

type channelView struct {
	Count int           `json:"count"`
	List  []messageView `json:"list"`
}

type inboxView struct {
	Count    int `json:"count"`
	TypeList struct {
		LikeCollects channelView `json:"likeCollects"`
		Comments     channelView `json:"comments"`
		Fans         channelView `json:"fans"`
		Shares       channelView `json:"shares"`
	} `json:"typeList"`
}

func (s *Server) userView(u *models.User) userView {
	return userView{
		UserName: u.UserName,
		Name:     u.Name,
		Avatar:   u.Avatar,
		Bio:      u.Bio,
		Follow:   u.Follow,
		Follower: u.Follower,
		Like:     u.Like,
		Collect:  u.Collect,
		Article:  u.Article,
		Plan:     u.Plan,
		Draft:    u.Draft,
		History:  u.History,
		Time:     timex.FormatDisplay(u.CreatedAt, s.loc),
	}
}

func (s *Server) followViews(in []*models.Follow) []followView {
	out := make([]followView, 0, len(in))
	for _, f := range in {
		out = append(out, followView{ID: f.ID, User: f.User, Follow: f.Follow, Time: timex.FormatDisplay(f.CreatedAt, s.loc)})
	}
	return out
}

func (s *Server) engagementViews(in []*models.Engagement) []engagementView {
	out := make([]engagementView, 0, len(in))
	for _, e := range in {
		out = append(out, engagementView{
			ID:        e.ID,
			User:      e.User,
			ArticleID: e.ArticleID,
			Owner:     e.Owner,
			Time:      timex.FormatDisplay(e.CreatedAt, s.loc),
		})
	}
	return out
}

func (s *Server) commentView(c *models.Comment) commentView {
	return commentView{
		ID:        c.ID,
		User:      c.User,
		ArticleID: c.ArticleID,
		Comment:   c.Text,
		Score:     c.Score,
		Time:      timex.FormatDisplay(c.CreatedAt, s.loc),
	}
}

func (s *Server) commentViews(in []*models.Comment) []commentView {
	out := make([]commentView, 0, len(in))
	for _, c := range in {
		out = append(out, s.commentView(c))
	}
	return out
}

func (s *Server) shareView(sh *models.Share) shareView {
	return shareView{
		ID:        sh.ID,
		User:      sh.User,
		ArticleID: sh.ArticleID,
		Recipient: sh.Recipient,
		Time:      timex.FormatDisplay(sh.CreatedAt, s.loc),
	}
}

func (s *Server) shareViews(in []*models.Share) []shareView {
	out := make([]shareView, 0, len(in))
	for _, sh := range in {
		out = append(out, s.shareView(sh))
	}
	return out
}

func (s *Server) articleView(a *models.Article) articleView {
	lbls := a.Labels
	if lbls == nil {
		lbls = []string{}
	}
	return articleView{
		ID:      a.ID,
		User:    a.User,
		Title:   a.Title,
		Content: a.Content,
		Labels:  lbls,
		Cover:   a.Cover,
		Like:    a.Like,
		Collect: a.Collect,
		Comment: a.Comment,
		Share:   a.Share,
		Time:    timex.FormatDisplay(a.CreatedAt, s.loc),
	}
}

func (s *Server) articleViews(in []*models.Article) []articleView {
	out := make([]articleView, 0, len(in))
	for _, a := range in {
		out = append(out, s.articleView(a))
	}
	return out
}

func (s *Server) channelView(ch services.Channel) channelView {
	list := make([]messageView, 0, len(ch.Messages))
	for _, m := range ch.Messages {
		list = append(list, messageView{
			ID:       m.ID,
			Sender:   m.Sender,
			Receiver: m.Receiver,
			Content:  m.Content,
			Type:     string(m.Type),
			Read:     m.Read,
			Time:     timex.FormatDisplay(m.CreatedAt, s.loc),
		})
	}
	return channelView{Count: ch.Unread, List: list}
}

func (s *Server) inboxView(in *services.Inbox) inboxView {
	var v inboxView
	v.Count = in.Unread
	v.TypeList.LikeCollects = s.channelView(in.LikeCollects)
	v.TypeList.Comments = s.channelView(in.Comments)
	v.TypeList.Fans = s.channelView(in.Fans)
	v.TypeList.Shares = s.channelView(in.Shares)
	return v
}
