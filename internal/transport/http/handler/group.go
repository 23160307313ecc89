package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"studyboard/internal/app"
	"studyboard/internal/transport/http/middleware"
	"studyboard/internal/transport/http/response"
)

type GroupHandler struct {
	groupService *app.GroupService
	postService  *app.PostService
	logger       *slog.Logger
}

type CreateGroupRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdateGroupRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// AddMemberRequest with no user_id adds the caller.
type AddMemberRequest struct {
	UserID *uint `json:"user_id" binding:"omitempty,gt=0"`
}

func NewGroupHandler(groupService *app.GroupService, postService *app.PostService, logger *slog.Logger) *GroupHandler {
	return &GroupHandler{
		groupService: groupService,
		postService:  postService,
		logger:       logger,
	}
}

func (h *GroupHandler) List(c *gin.Context) {
	groups, err := h.groupService.List(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err, "failed to list groups")
		return
	}
	response.OK(c, newGroupViews(groups))
}

func (h *GroupHandler) Create(c *gin.Context) {
	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "group name is required")
		return
	}

	detail, err := h.groupService.Create(c.Request.Context(), middleware.CurrentUser(c), app.CreateGroupInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeError(c, h.logger, err, "failed to create group")
		return
	}
	response.Created(c, newGroupDetailView(detail))
}

func (h *GroupHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	detail, err := h.groupService.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err, "failed to fetch group")
		return
	}
	response.OK(c, newGroupDetailView(detail))
}

func (h *GroupHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateGroupRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		invalidPayload(c)
		return
	}

	detail, err := h.groupService.Update(c.Request.Context(), middleware.CurrentUser(c), id, app.UpdateGroupInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeError(c, h.logger, err, "failed to update group")
		return
	}
	response.OK(c, newGroupDetailView(detail))
}

func (h *GroupHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.groupService.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		writeError(c, h.logger, err, "failed to delete group")
		return
	}
	response.OK(c, gin.H{"message": "group deleted successfully"})
}

func (h *GroupHandler) AddMember(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req AddMemberRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		invalidPayload(c)
		return
	}

	detail, err := h.groupService.AddMember(c.Request.Context(), middleware.CurrentUser(c), id, app.AddMemberInput{
		UserID: req.UserID,
	})
	if err != nil {
		writeError(c, h.logger, err, "failed to add member")
		return
	}
	response.OK(c, newGroupDetailView(detail))
}

func (h *GroupHandler) RemoveMember(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}

	detail, err := h.groupService.RemoveMember(c.Request.Context(), middleware.CurrentUser(c), id, userID)
	if err != nil {
		writeError(c, h.logger, err, "failed to remove member")
		return
	}
	response.OK(c, newGroupDetailView(detail))
}

func (h *GroupHandler) ListPosts(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	group, posts, err := h.postService.ListByGroup(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		writeError(c, h.logger, err, "failed to fetch group posts")
		return
	}
	response.OK(c, gin.H{
		"group_id":   group.ID,
		"group_name": group.Name,
		"posts":      newPostViews(posts),
	})
}
