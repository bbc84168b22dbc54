package memory

import (
	"context"

	"Octo_Social/internal/model"
	"Octo_Social/internal/repository"
)

type FollowRepository struct {
	db *DB
}

func (r *FollowRepository) Find(_ context.Context, followerID, followingID string) (*model.Follow, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, f := range r.db.follows {
		if f.FollowerID == followerID && f.FollowingID == followingID {
			return &f, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *FollowRepository) Create(_ context.Context, follow *model.Follow) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, f := range r.db.follows {
		if f.ID == follow.ID || (f.FollowerID == follow.FollowerID && f.FollowingID == follow.FollowingID) {
			return repository.ErrConflict
		}
	}
	stamp(&follow.CreatedAt)
	r.db.follows = append(r.db.follows, *follow)
	r.db.appendOutbox(model.EventFollow, follow.FollowerID, follow.FollowingID, nil)
	return nil
}

func (r *FollowRepository) Delete(_ context.Context, followerID, followingID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i, f := range r.db.follows {
		if f.FollowerID == followerID && f.FollowingID == followingID {
			r.db.follows = append(r.db.follows[:i], r.db.follows[i+1:]...)
			r.db.appendOutbox(model.EventUnfollow, followerID, followingID, nil)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *FollowRepository) Exists(ctx context.Context, followerID, followingID string) (bool, error) {
	_, err := r.Find(ctx, followerID, followingID)
	if err == repository.ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

func (r *FollowRepository) FollowingIDs(_ context.Context, userID string) ([]string, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var ids []string
	for _, f := range r.db.follows {
		if f.FollowerID == userID {
			ids = append(ids, f.FollowingID)
		}
	}
	return ids, nil
}

func (r *FollowRepository) ListFollowers(_ context.Context, userID string) ([]model.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var out []model.User
	for _, f := range r.db.follows {
		if f.FollowingID == userID {
			if u, ok := r.db.userByID(f.FollowerID); ok {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

func (r *FollowRepository) ListFollowing(_ context.Context, userID string) ([]model.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var out []model.User
	for _, f := range r.db.follows {
		if f.FollowerID == userID {
			if u, ok := r.db.userByID(f.FollowingID); ok {
				out = append(out, u)
			}
		}
	}
	return out, nil
}
