package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"studyboard/internal/app"
	"studyboard/internal/transport/http/middleware"
	"studyboard/internal/transport/http/response"
)

type CourseHandler struct {
	courseService *app.CourseService
	logger        *slog.Logger
}

type CreateCourseRequest struct {
	Code string `json:"code" binding:"required"`
	Name string `json:"name" binding:"required"`
}

func NewCourseHandler(courseService *app.CourseService, logger *slog.Logger) *CourseHandler {
	return &CourseHandler{courseService: courseService, logger: logger}
}

func (h *CourseHandler) List(c *gin.Context) {
	courses, err := h.courseService.List(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err, "failed to list courses")
		return
	}
	response.OK(c, courses)
}

// Create answers 201 for a new course and 200 when the code already existed.
func (h *CourseHandler) Create(c *gin.Context) {
	var req CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "course code and name are required")
		return
	}

	course, created, err := h.courseService.Create(c.Request.Context(), middleware.CurrentUser(c), app.CreateCourseInput{
		Code: req.Code,
		Name: req.Name,
	})
	if err != nil {
		writeError(c, h.logger, err, "failed to add course")
		return
	}
	if created {
		response.Created(c, course)
		return
	}
	response.OK(c, course)
}

func (h *CourseHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.courseService.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		writeError(c, h.logger, err, "failed to delete course")
		return
	}
	response.OK(c, gin.H{"message": "course deleted"})
}
