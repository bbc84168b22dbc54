package repository

import (
	"errors"
	"time"
)

// 存储层统一错误，mysql 与 memory 两种实现都返回这两个哨兵错误
var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("unique constraint violation")
)

// PostQuery 帖子查询条件，AuthorIDs 为空表示不限作者
type PostQuery struct {
	AuthorIDs []string
	// Before/BeforeID 为上一页最后一条的 (created_at, id)，BeforeID 为空时只按时间比较
	Before   time.Time
	BeforeID string
	Limit    int
}
