package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"studyboard/internal/app"
	"studyboard/internal/transport/http/middleware"
	"studyboard/internal/transport/http/response"
)

type CommentHandler struct {
	commentService *app.CommentService
	logger         *slog.Logger
}

type CreateCommentRequest struct {
	PostID  uint   `json:"post_id" binding:"required,gt=0"`
	Content string `json:"content" binding:"required"`
}

func NewCommentHandler(commentService *app.CommentService, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{commentService: commentService, logger: logger}
}

func (h *CommentHandler) Create(c *gin.Context) {
	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "content and post_id are required")
		return
	}

	comment, err := h.commentService.Create(c.Request.Context(), middleware.CurrentUser(c), app.CreateCommentInput{
		PostID:  req.PostID,
		Content: req.Content,
	})
	if err != nil {
		writeError(c, h.logger, err, "failed to add comment")
		return
	}
	response.Created(c, newCommentView(comment))
}
