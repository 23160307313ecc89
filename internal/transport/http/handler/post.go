package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"studyboard/internal/app"
	"studyboard/internal/transport/http/middleware"
	"studyboard/internal/transport/http/response"
)

type PostHandler struct {
	postService    *app.PostService
	commentService *app.CommentService
	logger         *slog.Logger
}

type CreatePostRequest struct {
	Title   string   `json:"title" binding:"required"`
	Content string   `json:"content" binding:"required"`
	Tags    []string `json:"tags" binding:"max=50"`
	Course  string   `json:"course"`
	Code    string   `json:"code"`
	GroupID *uint    `json:"group_id"`
}

func NewPostHandler(postService *app.PostService, commentService *app.CommentService, logger *slog.Logger) *PostHandler {
	return &PostHandler{
		postService:    postService,
		commentService: commentService,
		logger:         logger,
	}
}

func (h *PostHandler) List(c *gin.Context) {
	posts, err := h.postService.ListVisible(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		writeError(c, h.logger, err, "failed to list posts")
		return
	}
	response.OK(c, newPostViews(posts))
}

func (h *PostHandler) Create(c *gin.Context) {
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "title and content are required")
		return
	}

	post, err := h.postService.Create(c.Request.Context(), middleware.CurrentUser(c), app.CreatePostInput{
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
		Course:  req.Course,
		Code:    req.Code,
		GroupID: req.GroupID,
	})
	if err != nil {
		writeError(c, h.logger, err, "failed to create post")
		return
	}
	response.Created(c, newPostView(post))
}

func (h *PostHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	post, err := h.postService.Get(c.Request.Context(), id, middleware.CurrentUser(c))
	if err != nil {
		writeError(c, h.logger, err, "failed to fetch post")
		return
	}
	response.OK(c, newPostView(post))
}

func (h *PostHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.postService.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		writeError(c, h.logger, err, "failed to delete post")
		return
	}
	response.OK(c, gin.H{"message": "post deleted"})
}

func (h *PostHandler) ListComments(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	comments, err := h.commentService.ListByPost(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		writeError(c, h.logger, err, "failed to list comments")
		return
	}

	out := make([]commentView, 0, len(comments))
	for i := range comments {
		out = append(out, newCommentView(&comments[i]))
	}
	response.OK(c, out)
}
