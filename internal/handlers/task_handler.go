package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"tasktracker/internal/apperr"
	"tasktracker/internal/models"
	"tasktracker/internal/pdf"
	"tasktracker/internal/services"
)

type TaskHandler struct {
	service services.TaskService

	// optional collaborators; nil disables the feature
	notifier *services.TelegramNotifier
	reports  pdf.Generator
	users    services.UserService
}

func NewTaskHandler(service services.TaskService, notifier *services.TelegramNotifier, reports pdf.Generator, users services.UserService) *TaskHandler {
	return &TaskHandler{service: service, notifier: notifier, reports: reports, users: users}
}

// listOptionsFromQuery reads page/limit/search/status as sent by the SPA.
// Unparseable numbers come through as zero and normalize inside the service.
func listOptionsFromQuery(c *gin.Context) services.ListOptions {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	return services.ListOptions{
		Page:     page,
		PageSize: limit,
		Search:   c.Query("search"),
		Status:   c.DefaultQuery("status", models.StatusAll),
	}
}

func (h *TaskHandler) respondTaskError(c *gin.Context, op string, err error) {
	var ve *apperr.ValidationError
	switch {
	case errors.As(err, &ve):
		respondFail(c, http.StatusBadRequest, ve.Msg)
	case errors.Is(err, apperr.ErrNotFound):
		respondFail(c, http.StatusNotFound, "Task not found")
	default:
		log.Printf("[task][%s][err] %v", op, err)
		respondServerError(c)
	}
}

// @Summary      List tasks
// @Description  One page of the caller's tasks, filtered by status and title search
// @Tags         Tasks
// @Produce      json
// @Param        page    query  int     false  "page number"
// @Param        limit   query  int     false  "page size"
// @Param        search  query  string  false  "title substring, case-insensitive"
// @Param        status  query  string  false  "all|pending|in_progress|done"
// @Success      200  {object}  handlers.Envelope
// @Router       /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	ownerID := getUserID(c)
	opts := listOptionsFromQuery(c)

	tasks, page, err := h.service.List(c.Request.Context(), ownerID, opts)
	if err != nil {
		h.respondTaskError(c, "list", err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{
		"tasks":      tasks,
		"pagination": page,
	}, "Tasks retrieved successfully")
}

// @Summary      Task statistics
// @Description  Status breakdown over the caller's entire task set, independent of the list filter
// @Tags         Tasks
// @Produce      json
// @Success      200  {object}  handlers.Envelope
// @Router       /tasks/statistics [get]
func (h *TaskHandler) Statistics(c *gin.Context) {
	ownerID := getUserID(c)

	stats, err := h.service.Statistics(c.Request.Context(), ownerID)
	if err != nil {
		h.respondTaskError(c, "stats", err)
		return
	}
	respondSuccess(c, http.StatusOK, stats, "Statistics retrieved successfully")
}

// GET /tasks/:id
func (h *TaskHandler) GetByID(c *gin.Context) {
	ownerID := getUserID(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondFail(c, http.StatusBadRequest, "invalid id")
		return
	}

	task, err := h.service.GetByID(c.Request.Context(), id, ownerID)
	if err != nil {
		h.respondTaskError(c, "getByID", err)
		return
	}
	respondSuccess(c, http.StatusOK, task, "Task retrieved successfully")
}

// @Summary      Create task
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Success      201  {object}  handlers.Envelope
// @Failure      400  {object}  handlers.Envelope
// @Router       /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	ownerID := getUserID(c)

	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}

	task, err := h.service.Create(c.Request.Context(), ownerID, req.Title, req.Description)
	if err != nil {
		h.respondTaskError(c, "create", err)
		return
	}
	log.Printf("[task][create][ok] id=%d owner=%d title=%q", task.ID, ownerID, task.Title)
	respondSuccess(c, http.StatusCreated, task, "Task created successfully")

	h.notifier.TaskCreated(task)
}

// PUT /tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	ownerID := getUserID(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondFail(c, http.StatusBadRequest, "invalid id")
		return
	}

	var patch models.TaskPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}

	task, err := h.service.Update(c.Request.Context(), id, ownerID, patch)
	if err != nil {
		h.respondTaskError(c, "update", err)
		return
	}
	log.Printf("[task][update][ok] id=%d owner=%d", id, ownerID)
	respondSuccess(c, http.StatusOK, task, "Task updated successfully")

	h.notifier.TaskUpdated(task)
}

// DELETE /tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	ownerID := getUserID(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondFail(c, http.StatusBadRequest, "invalid id")
		return
	}

	current, err := h.service.GetByID(c.Request.Context(), id, ownerID)
	if err != nil {
		h.respondTaskError(c, "delete", err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, ownerID); err != nil {
		h.respondTaskError(c, "delete", err)
		return
	}
	log.Printf("[task][delete][ok] id=%d owner=%d", id, ownerID)
	respondSuccess(c, http.StatusOK, nil, "Task deleted successfully")

	h.notifier.TaskDeleted(current)
}

// GET /tasks/export — PDF report of the current filtered view plus the
// owner-wide status summary.
func (h *TaskHandler) Export(c *gin.Context) {
	if h.reports == nil {
		respondFail(c, http.StatusNotFound, "export not configured")
		return
	}
	ownerID := getUserID(c)
	opts := listOptionsFromQuery(c)

	tasks, page, err := h.service.List(c.Request.Context(), ownerID, opts)
	if err != nil {
		h.respondTaskError(c, "export", err)
		return
	}
	stats, err := h.service.Statistics(c.Request.Context(), ownerID)
	if err != nil {
		h.respondTaskError(c, "export", err)
		return
	}

	ownerName := ""
	if h.users != nil {
		if u, err := h.users.GetUserByID(c.Request.Context(), ownerID); err == nil {
			ownerName = u.Name
		}
	}

	path, err := h.reports.GenerateTaskReport(pdf.ReportData{
		OwnerName:   ownerName,
		OwnerID:     ownerID,
		Tasks:       tasks,
		Stats:       stats,
		Page:        page,
		GeneratedAt: time.Now(),
	})
	if err != nil {
		log.Printf("[task][export][err] owner=%d: %v", ownerID, err)
		respondServerError(c)
		return
	}
	c.FileAttachment(path, "tasks.pdf")
}
