package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"studyboard/internal/app"
	"studyboard/internal/transport/http/middleware"
	"studyboard/internal/transport/http/response"
)

type UserHandler struct {
	userService  *app.UserService
	groupService *app.GroupService
	logger       *slog.Logger
}

func NewUserHandler(userService *app.UserService, groupService *app.GroupService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userService:  userService,
		groupService: groupService,
		logger:       logger,
	}
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err, "failed to list users")
		return
	}
	response.OK(c, newUserViews(users))
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	profile, err := h.userService.Get(c.Request.Context(), id, middleware.CurrentUser(c))
	if err != nil {
		writeError(c, h.logger, err, "failed to fetch user")
		return
	}
	response.OK(c, gin.H{
		"user":  newUserView(profile.User),
		"posts": newPostViews(profile.Posts),
	})
}

func (h *UserHandler) ListPosts(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	posts, err := h.userService.ListPosts(c.Request.Context(), id, middleware.CurrentUser(c))
	if err != nil {
		writeError(c, h.logger, err, "failed to fetch user posts")
		return
	}
	response.OK(c, newPostViews(posts))
}

func (h *UserHandler) ListGroups(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	groups, err := h.groupService.ListForUser(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err, "failed to fetch user groups")
		return
	}
	response.OK(c, newGroupViews(groups))
}
