package likes

import "time"

// NewestLikersLimit bounds the "who recently liked this" projection
const NewestLikersLimit = 3

// LikerEntry is one row of the newest-likers projection kept on a target
type LikerEntry struct {
	UserID  string    `json:"userId"`
	Login   string    `json:"login"`
	AddedAt time.Time `json:"addedAt"`
}

// needsRecompute decides whether a transition can change the visible top-3.
// A new Like always can (it may enter the list). Dislike/None only matter
// when the acting user is currently featured: removing them promotes the
// next most recent liker. Anything else leaves the cached projection valid.
func needsRecompute(requested Status, userID string, cached []LikerEntry) bool {
	if requested == StatusLike {
		return true
	}
	for _, entry := range cached {
		if entry.UserID == userID {
			return true
		}
	}
	return false
}
