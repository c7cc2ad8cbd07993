package service

import (
	"time"

	"bloggers-platform/internal/likes"
	"bloggers-platform/internal/model"
)

// Paginated is the common list envelope
type Paginated struct {
	PagesCount int         `json:"pagesCount"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalCount int64       `json:"totalCount"`
	Items      interface{} `json:"items"`
}

func paginate(items interface{}, total int64, page, pageSize int) *Paginated {
	pagesCount := 0
	if pageSize > 0 {
		pagesCount = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return &Paginated{
		PagesCount: pagesCount,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: total,
		Items:      items,
	}
}

type BlogView struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	WebsiteURL   string    `json:"websiteUrl"`
	IsMembership bool      `json:"isMembership"`
	CreatedAt    time.Time `json:"createdAt"`
}

func mapBlogToView(blog *model.Blog) *BlogView {
	return &BlogView{
		ID:           blog.ID,
		Name:         blog.Name,
		Description:  blog.Description,
		WebsiteURL:   blog.WebsiteURL,
		IsMembership: blog.IsMembership,
		CreatedAt:    blog.CreatedAt,
	}
}

// ExtendedLikesInfo is the like block rendered on posts
type ExtendedLikesInfo struct {
	LikesCount    int                `json:"likesCount"`
	DislikesCount int                `json:"dislikesCount"`
	MyStatus      likes.Status       `json:"myStatus"`
	NewestLikes   []likes.LikerEntry `json:"newestLikes"`
}

type PostView struct {
	ID                string            `json:"id"`
	Title             string            `json:"title"`
	ShortDescription  string            `json:"shortDescription"`
	Content           string            `json:"content"`
	BlogID            string            `json:"blogId"`
	BlogName          string            `json:"blogName"`
	CreatedAt         time.Time         `json:"createdAt"`
	ExtendedLikesInfo ExtendedLikesInfo `json:"extendedLikesInfo"`
}

func mapPostToView(post *model.Post, myStatus likes.Status) *PostView {
	return &PostView{
		ID:               post.ID,
		Title:            post.Title,
		ShortDescription: post.ShortDescription,
		Content:          post.Content,
		BlogID:           post.BlogID,
		BlogName:         post.BlogName,
		CreatedAt:        post.CreatedAt,
		ExtendedLikesInfo: ExtendedLikesInfo{
			LikesCount:    post.LikesCount,
			DislikesCount: post.DislikesCount,
			MyStatus:      myStatus,
			NewestLikes:   post.GetNewestLikers(),
		},
	}
}

// LikesInfo is the like block rendered on comments (no newest-likers)
type LikesInfo struct {
	LikesCount    int          `json:"likesCount"`
	DislikesCount int          `json:"dislikesCount"`
	MyStatus      likes.Status `json:"myStatus"`
}

type CommentatorInfo struct {
	UserID    string `json:"userId"`
	UserLogin string `json:"userLogin"`
}

type CommentView struct {
	ID              string          `json:"id"`
	Content         string          `json:"content"`
	CommentatorInfo CommentatorInfo `json:"commentatorInfo"`
	CreatedAt       time.Time       `json:"createdAt"`
	LikesInfo       LikesInfo       `json:"likesInfo"`
}

func mapCommentToView(comment *model.Comment, myStatus likes.Status) *CommentView {
	return &CommentView{
		ID:      comment.ID,
		Content: comment.Content,
		CommentatorInfo: CommentatorInfo{
			UserID:    comment.UserID,
			UserLogin: comment.UserLogin,
		},
		CreatedAt: comment.CreatedAt,
		LikesInfo: LikesInfo{
			LikesCount:    comment.LikesCount,
			DislikesCount: comment.DislikesCount,
			MyStatus:      myStatus,
		},
	}
}

type UserView struct {
	ID        string    `json:"id"`
	Login     string    `json:"login"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

func mapUserToView(user *model.User) *UserView {
	return &UserView{
		ID:        user.ID,
		Login:     user.Login,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}

type SessionView struct {
	DeviceID       string    `json:"deviceId"`
	IP             string    `json:"ip"`
	Title          string    `json:"title"`
	LastActiveDate time.Time `json:"lastActiveDate"`
}

func mapSessionToView(session *model.Session) *SessionView {
	return &SessionView{
		DeviceID:       session.DeviceID,
		IP:             session.IP,
		Title:          session.Title,
		LastActiveDate: session.IssuedAt,
	}
}
