// Package authz holds the object-level permission rules. Every function is pure:
// callers load the resources and translate a false result into a forbidden error
// before any mutation runs.
package authz

import "instaclone/backend/internal/models"

// IsRequestRecipient reports whether actor may accept or reject the request.
func IsRequestRecipient(actorID uint, req models.FriendRequest) bool {
	return actorID != 0 && req.ToUserID == actorID
}

// OwnsFriendship reports whether actor may toggle the close-friend flag on, or remove, the edge.
func OwnsFriendship(actorID uint, friendship models.Friend) bool {
	return actorID != 0 && friendship.UserID == actorID
}

// Edge names the friend row that must exist for an actor to engage with a post.
type Edge struct {
	UserID       uint
	FriendID     uint
	RequireClose bool
}

// EngagementEdge returns the edge required for actor to like or comment on post.
// Close-friends posts need owner -> actor flagged as close friend, every other
// post needs actor -> owner.
func EngagementEdge(post models.Post, actorID uint) Edge {
	if post.Audience == models.AudienceCloseFriends {
		return Edge{UserID: post.UserID, FriendID: actorID, RequireClose: true}
	}
	return Edge{UserID: actorID, FriendID: post.UserID}
}

// CanEngage reports whether the looked-up friendship satisfies edge. A nil
// friendship means the row does not exist.
func CanEngage(edge Edge, friendship *models.Friend) bool {
	if friendship == nil {
		return false
	}
	if friendship.UserID != edge.UserID || friendship.FriendID != edge.FriendID {
		return false
	}
	return !edge.RequireClose || friendship.IsCloseFriend
}

// IsSelf reports whether actor is acting on their own account.
func IsSelf(actorID, userID uint) bool {
	return actorID != 0 && actorID == userID
}
