package memory

import (
	"context"
	"sort"

	"Octo_Social/internal/model"
	"Octo_Social/internal/repository"
)

type PostRepository struct {
	db *DB
}

type CommentRepository struct {
	db *DB
}

func (r *PostRepository) Create(_ context.Context, post *model.Post) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, p := range r.db.posts {
		if p.ID == post.ID {
			return repository.ErrConflict
		}
	}
	stamp(&post.CreatedAt)
	stored := *post
	stored.Author = model.User{}
	stored.Comments = nil
	r.db.posts = append(r.db.posts, stored)
	r.db.appendOutbox(model.EventPostCreated, post.AuthorID, post.ID, nil)
	return nil
}

func (r *PostRepository) FindByID(_ context.Context, id string) (*model.Post, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, p := range r.db.posts {
		if p.ID == id {
			p.Author, _ = r.db.userByID(p.AuthorID)
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *PostRepository) List(_ context.Context, q repository.PostQuery) ([]model.Post, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	authors := make(map[string]struct{}, len(q.AuthorIDs))
	for _, id := range q.AuthorIDs {
		authors[id] = struct{}{}
	}
	var out []model.Post
	for _, p := range r.db.posts {
		if len(authors) > 0 {
			if _, ok := authors[p.AuthorID]; !ok {
				continue
			}
		}
		if !q.Before.IsZero() && !beforeCursor(p, q) {
			continue
		}
		p.Author, _ = r.db.userByID(p.AuthorID)
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (r *CommentRepository) Create(_ context.Context, comment *model.Comment) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, c := range r.db.comments {
		if c.ID == comment.ID {
			return repository.ErrConflict
		}
	}
	stamp(&comment.CreatedAt)
	stored := *comment
	stored.Author = model.User{}
	r.db.comments = append(r.db.comments, stored)
	r.db.appendOutbox(model.EventCommentCreated, comment.AuthorID, comment.PostID,
		map[string]any{"comment_id": comment.ID})
	return nil
}

func (r *CommentRepository) ListByPosts(_ context.Context, postIDs []string) ([]model.Comment, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	want := make(map[string]struct{}, len(postIDs))
	for _, id := range postIDs {
		want[id] = struct{}{}
	}
	var out []model.Comment
	for _, c := range r.db.comments {
		if _, ok := want[c.PostID]; !ok {
			continue
		}
		c.Author, _ = r.db.userByID(c.AuthorID)
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// beforeCursor 帖子是否排在游标 (Before, BeforeID) 之后
func beforeCursor(p model.Post, q repository.PostQuery) bool {
	if p.CreatedAt.Before(q.Before) {
		return true
	}
	return q.BeforeID != "" && p.CreatedAt.Equal(q.Before) && p.ID < q.BeforeID
}
