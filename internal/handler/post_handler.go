package handler

import (
	"net/http"
	"strconv"
	"time"

	"Octo_Social/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PostHandler struct {
	posts *service.PostService
	feed  *service.FeedService
	log   *zap.Logger
}

type CreatePostReq struct {
	Content string `json:"content"`
}

type AddCommentReq struct {
	PostID   string `json:"postId"`
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl"`
	VoiceURL string `json:"voiceUrl"`
}

func NewPostHandler(posts *service.PostService, feed *service.FeedService, log *zap.Logger) *PostHandler {
	return &PostHandler{posts: posts, feed: feed, log: log}
}

// CreatePost 发帖接口
func (h *PostHandler) CreatePost(c *gin.Context) {
	var req CreatePostReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid params")
		return
	}
	post, err := h.posts.CreatePost(c.Request.Context(), userIDFromCtx(c), req.Content)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// ListFeed 信息流：mode=home|explore，explore=true 等价于 mode=explore
// 游标 before 为上一页最后一条的 createdAt（RFC3339 或毫秒时间戳），beforeId 为其 id
func (h *PostHandler) ListFeed(c *gin.Context) {
	q := service.FeedQuery{Mode: service.FeedMode(c.Query("mode"))}
	if explore, _ := strconv.ParseBool(c.Query("explore")); explore {
		q.Mode = service.FeedExplore
	}
	q.IncludeComments, _ = strconv.ParseBool(c.Query("comments"))

	if s := c.Query("limit"); s != "" {
		limit, err := strconv.Atoi(s)
		if err != nil {
			badRequest(c, "invalid limit")
			return
		}
		q.Limit = limit
	}
	if s := c.Query("before"); s != "" {
		before, err := parseCursor(s)
		if err != nil {
			badRequest(c, "invalid before")
			return
		}
		q.Before = before
	}
	q.BeforeID = c.Query("beforeId")

	posts, err := h.feed.ComposeFeed(c.Request.Context(), userIDFromCtx(c), q)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// ListComments 帖子评论
func (h *PostHandler) ListComments(c *gin.Context) {
	comments, err := h.posts.ListComments(c.Request.Context(), c.Query("postId"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// AddComment 评论接口，图片和语音先经 /api/media 上传
func (h *PostHandler) AddComment(c *gin.Context) {
	var req AddCommentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid params")
		return
	}
	comment, err := h.posts.AddComment(c.Request.Context(), userIDFromCtx(c), service.AddCommentInput{
		PostID:   req.PostID,
		Content:  req.Content,
		ImageURL: req.ImageURL,
		VoiceURL: req.VoiceURL,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

func parseCursor(s string) (time.Time, error) {
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms), nil
	}
	return time.Parse(time.RFC3339Nano, s)
}
