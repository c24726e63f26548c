package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"instaclone/backend/internal/authz"
	"instaclone/backend/internal/media"
	"instaclone/backend/internal/models"
	"instaclone/backend/internal/store"
	apperrors "instaclone/backend/pkg/errors"
	"instaclone/backend/pkg/logger"
)

const (
	msgPostNotFound   = "Post not found"
	msgPostNotExist   = "Post does not exist"
	msgNoFile         = "No file was submitted."
	msgEmptyFile      = "The submitted file is empty."
	msgInvalidLikeFmt = "Select a valid choice. %s is not one of the available choices."

	likeActionLike   = "like"
	likeActionUnlike = "unlike"
)

// Upload is a post file received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// PostUpdateInput carries a partial update; nil fields are left unchanged.
type PostUpdateInput struct {
	Caption               *string
	Location              *string
	Music                 *string
	HideLikeAndViewCounts *bool
	TurnOffComments       *bool
	Audience              *string
}

type LikeInput struct {
	Post   uint
	Action string
}

type CommentInput struct {
	Post    uint
	Comment string
}

// PostService manages posts owned by a user and engagement with friends' posts.
type PostService struct {
	posts   store.PostStore
	friends store.FriendStore
	storage media.Storage
}

func NewPostService(posts store.PostStore, friends store.FriendStore, storage media.Storage) *PostService {
	return &PostService{posts: posts, friends: friends, storage: storage}
}

// Upload stores the file and creates a friends-audience post for actor.
func (s *PostService) Upload(ctx context.Context, actorID uint, upload Upload) (*PostCreatedView, error) {
	if upload.Body == nil || upload.Filename == "" {
		return nil, apperrors.FieldError("file", msgNoFile)
	}
	if upload.Size == 0 {
		return nil, apperrors.FieldError("file", msgEmptyFile)
	}

	key := media.ObjectKey(media.PostsPrefix, upload.Filename)
	if err := s.storage.Save(ctx, key, upload.Body, upload.Size, upload.ContentType); err != nil {
		return nil, apperrors.Internal(err, "failed to store post file")
	}

	post := models.Post{UserID: actorID, File: key, Audience: models.AudienceFriends}
	if err := s.posts.CreatePost(ctx, &post); err != nil {
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			logger.Warn("Failed to delete orphaned post file", "key", key, "error", delErr)
		}
		return nil, dbError(err)
	}

	logger.Info("Post created", "post_id", post.ID, "user_id", actorID)
	return &PostCreatedView{ID: post.ID}, nil
}

// List returns actor's own posts, newest first.
func (s *PostService) List(ctx context.Context, actorID uint) ([]PostView, error) {
	posts, err := s.posts.ListUserPosts(ctx, actorID)
	if err != nil {
		return nil, dbError(err)
	}
	views := make([]PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, PostView{ID: p.ID, File: s.storage.URL(p.File)})
	}
	return views, nil
}

// Detail returns one of actor's posts with both counts and the recent likes and comments.
func (s *PostService) Detail(ctx context.Context, actorID, postID uint) (*PostDetailView, error) {
	post, err := s.posts.GetUserPost(ctx, actorID, postID)
	if err != nil {
		return nil, lookupError(err, msgPostNotFound)
	}
	view, err := s.detailView(ctx, *post)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// detailView renders post with both counts present.
func (s *PostService) detailView(ctx context.Context, post models.Post) (PostDetailView, error) {
	likesCount, err := s.posts.CountLikes(ctx, post.ID)
	if err != nil {
		return PostDetailView{}, dbError(err)
	}
	commentsCount, err := s.posts.CountComments(ctx, post.ID)
	if err != nil {
		return PostDetailView{}, dbError(err)
	}
	likes, err := s.posts.ListLikes(ctx, post.ID)
	if err != nil {
		return PostDetailView{}, dbError(err)
	}
	comments, err := s.posts.ListComments(ctx, post.ID)
	if err != nil {
		return PostDetailView{}, dbError(err)
	}

	likeViews := make([]LikeView, 0, len(likes))
	for _, l := range likes {
		likeViews = append(likeViews, LikeView{ActorView: newActorView(s.storage, l.LikedBy)})
	}
	commentViews := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		commentViews = append(commentViews, CommentView{
			ActorView: newActorView(s.storage, c.CommentedBy),
			Comment:   c.Comment,
		})
	}

	return PostDetailView{
		ID:               post.ID,
		PostSettingsView: newPostSettingsView(post),
		User:             post.UserID,
		File:             s.storage.URL(post.File),
		LikesCount:       &likesCount,
		CommentsCount:    &commentsCount,
		Likes:            likeViews,
		Comments:         commentViews,
	}, nil
}

func optionalText(value *string, field string, max int, fields fieldErrors) *string {
	if value == nil {
		return nil
	}
	clean := sanitizeText(*value)
	if tooLong(clean, max) {
		fields.add(field, fmt.Sprintf(msgMaxLengthFmt, max))
	}
	return &clean
}

// Update applies a partial update to one of actor's posts.
func (s *PostService) Update(ctx context.Context, actorID, postID uint, in PostUpdateInput) (*PostSettingsView, error) {
	fields := fieldErrors{}
	caption := optionalText(in.Caption, "caption", 300, fields)
	location := optionalText(in.Location, "location", 100, fields)
	music := optionalText(in.Music, "music", 50, fields)

	var audience models.Audience
	if in.Audience != nil {
		audience = models.Audience(*in.Audience)
		if !audience.Valid() {
			fields.add("audience", fmt.Sprintf(msgInvalidChoice, *in.Audience))
		}
	}
	if err := fields.err(); err != nil {
		return nil, err
	}

	post, err := s.posts.GetUserPost(ctx, actorID, postID)
	if err != nil {
		return nil, lookupError(err, msgPostNotFound)
	}

	if caption != nil {
		post.Caption = caption
	}
	if location != nil {
		post.Location = location
	}
	if music != nil {
		post.Music = music
	}
	if in.HideLikeAndViewCounts != nil {
		post.HideLikeAndViewCounts = *in.HideLikeAndViewCounts
	}
	if in.TurnOffComments != nil {
		post.TurnOffComments = *in.TurnOffComments
	}
	if in.Audience != nil {
		post.Audience = audience
	}

	if err := s.posts.UpdatePost(ctx, post); err != nil {
		return nil, lookupError(err, msgPostNotFound)
	}
	view := newPostSettingsView(*post)
	return &view, nil
}

// Delete removes one of actor's posts and its media object.
func (s *PostService) Delete(ctx context.Context, actorID, postID uint) error {
	post, err := s.posts.GetUserPost(ctx, actorID, postID)
	if err != nil {
		return lookupError(err, msgPostNotFound)
	}
	if err := s.posts.DeletePost(ctx, post); err != nil {
		return lookupError(err, msgPostNotFound)
	}
	if err := s.storage.Delete(ctx, post.File); err != nil {
		logger.Warn("Failed to delete post file", "post_id", post.ID, "key", post.File, "error", err)
	}
	return nil
}

// authorizeEngagement checks that actor holds the friend edge the post's audience requires.
func (s *PostService) authorizeEngagement(ctx context.Context, post models.Post, actorID uint) error {
	edge := authz.EngagementEdge(post, actorID)

	friendship, err := s.friends.FindFriend(ctx, edge.UserID, edge.FriendID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return dbError(err)
	}
	if !authz.CanEngage(edge, friendship) {
		return apperrors.Forbidden(msgNoPermission)
	}
	return nil
}

// Like sets actor's like on a post. Repeating an action keeps a single record.
func (s *PostService) Like(ctx context.Context, actorID uint, in LikeInput) error {
	fields := fieldErrors{}
	action := strings.TrimSpace(in.Action)
	switch action {
	case likeActionLike, likeActionUnlike:
	case "":
		fields.add("action", msgRequired)
	default:
		fields.add("action", fmt.Sprintf(msgInvalidLikeFmt, action))
	}

	var post *models.Post
	if in.Post == 0 {
		fields.add("post", msgRequired)
	} else {
		found, err := s.posts.GetPost(ctx, in.Post)
		switch {
		case errors.Is(err, store.ErrNotFound):
			fields.add("post", msgPostNotExist)
		case err != nil:
			return dbError(err)
		default:
			post = found
		}
	}
	if err := fields.err(); err != nil {
		return err
	}

	if err := s.authorizeEngagement(ctx, *post, actorID); err != nil {
		return err
	}

	if _, err := s.posts.SetLike(ctx, post.ID, actorID, action == likeActionLike); err != nil {
		return lookupError(err, msgPostNotFound)
	}
	return nil
}

// Comment appends actor's comment to a post.
func (s *PostService) Comment(ctx context.Context, actorID uint, in CommentInput) (*CommentCreatedView, error) {
	fields := fieldErrors{}
	text := sanitizeText(in.Comment)
	if text == "" {
		fields.add("comment", msgRequired)
	}

	var post *models.Post
	if in.Post == 0 {
		fields.add("post", msgRequired)
	} else {
		found, err := s.posts.GetPost(ctx, in.Post)
		switch {
		case errors.Is(err, store.ErrNotFound):
			fields.add("post", fmt.Sprintf(msgInvalidPostRef, in.Post))
		case err != nil:
			return nil, dbError(err)
		default:
			post = found
		}
	}
	if err := fields.err(); err != nil {
		return nil, err
	}

	if err := s.authorizeEngagement(ctx, *post, actorID); err != nil {
		return nil, err
	}

	comment := models.PostComment{PostID: post.ID, CommentedByID: actorID, Comment: text}
	if err := s.posts.CreateComment(ctx, &comment); err != nil {
		return nil, lookupError(err, msgPostNotFound)
	}

	return &CommentCreatedView{
		ID:          comment.ID,
		Post:        comment.PostID,
		CommentedBy: comment.CommentedByID,
		Comment:     comment.Comment,
	}, nil
}
