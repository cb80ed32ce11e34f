package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/phonedesk-backend/internal/app/service"
)

type CalendarController struct {
	calendarService service.CalendarService
}

func NewCalendarController(calendarService service.CalendarService) *CalendarController {
	return &CalendarController{calendarService: calendarService}
}

type TodoRequest struct {
	Date      string `json:"date"`
	Content   string `json:"content"`
	Highlight int    `json:"highlight"`
}

type TodoPatchRequest struct {
	Date      *string `json:"date"`
	Content   *string `json:"content"`
	Highlight *int    `json:"highlight"`
	Done      *bool   `json:"done"`
}

type LeaveRequest struct {
	Date      string `json:"date"`
	LeaveType string `json:"leave_type"`
	Memo      string `json:"memo"`
}

// ListTodos
// GET /api/v1/calendar/todos?month
func (ctrl *CalendarController) ListTodos(c *gin.Context) {
	auth, ok := authContext(c)
	if !ok {
		return
	}

	todos, err := ctrl.calendarService.ListTodos(c.Request.Context(), auth, c.Query("month"))
	if err != nil {
		respondError(c, err, "list todos")
		return
	}

	c.JSON(http.StatusOK, gin.H{"todos": todos})
}

// CreateTodo
// POST /api/v1/calendar/todos
func (ctrl *CalendarController) CreateTodo(c *gin.Context) {
	auth, ok := authContext(c)
	if !ok {
		return
	}

	var req TodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}

	todo, err := ctrl.calendarService.CreateTodo(c.Request.Context(), auth, service.TodoInput{
		Date:      req.Date,
		Content:   req.Content,
		Highlight: req.Highlight,
	})
	if err != nil {
		respondError(c, err, "create todo")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"todo": todo})
}

// UpdateTodo
// PATCH /api/v1/calendar/todos/:id
func (ctrl *CalendarController) UpdateTodo(c *gin.Context) {
	auth, ok := authContext(c)
	if !ok {
		return
	}

	var req TodoPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}

	todo, err := ctrl.calendarService.UpdateTodo(c.Request.Context(), auth, c.Param("id"), service.TodoPatch{
		Date:      req.Date,
		Content:   req.Content,
		Highlight: req.Highlight,
		Done:      req.Done,
	})
	if err != nil {
		respondError(c, err, "update todo")
		return
	}

	c.JSON(http.StatusOK, gin.H{"todo": todo})
}

// DeleteTodo
// DELETE /api/v1/calendar/todos/:id
func (ctrl *CalendarController) DeleteTodo(c *gin.Context) {
	auth, ok := authContext(c)
	if !ok {
		return
	}

	if err := ctrl.calendarService.DeleteTodo(c.Request.Context(), auth, c.Param("id")); err != nil {
		respondError(c, err, "delete todo")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Todo deleted"})
}

// ListLeaves
// GET /api/v1/calendar/leaves?month
func (ctrl *CalendarController) ListLeaves(c *gin.Context) {
	auth, ok := authContext(c)
	if !ok {
		return
	}

	leaves, err := ctrl.calendarService.ListLeaves(c.Request.Context(), auth, c.Query("month"))
	if err != nil {
		respondError(c, err, "list leaves")
		return
	}

	c.JSON(http.StatusOK, gin.H{"leaves": leaves})
}

// UpsertLeave one leave per person per day
// PUT /api/v1/calendar/leaves
func (ctrl *CalendarController) UpsertLeave(c *gin.Context) {
	auth, ok := authContext(c)
	if !ok {
		return
	}

	var req LeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}

	leave, err := ctrl.calendarService.UpsertLeave(c.Request.Context(), auth, service.LeaveInput{
		Date:      req.Date,
		LeaveType: req.LeaveType,
		Memo:      req.Memo,
	})
	if err != nil {
		respondError(c, err, "upsert leave")
		return
	}

	c.JSON(http.StatusOK, gin.H{"leave": leave})
}

// DeleteLeave
// DELETE /api/v1/calendar/leaves/:date
func (ctrl *CalendarController) DeleteLeave(c *gin.Context) {
	auth, ok := authContext(c)
	if !ok {
		return
	}

	if err := ctrl.calendarService.DeleteLeave(c.Request.Context(), auth, c.Param("date")); err != nil {
		respondError(c, err, "delete leave")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Leave deleted"})
}

// ShopLeaves leaves of every member of an authorized shop
// GET /api/v1/calendar/leaves/shop?shop_id&month
func (ctrl *CalendarController) ShopLeaves(c *gin.Context) {
	auth, ok := authContext(c)
	if !ok {
		return
	}

	leaves, err := ctrl.calendarService.ShopLeaves(c.Request.Context(), auth, c.Query("shop_id"), c.Query("month"))
	if err != nil {
		respondError(c, err, "list shop leaves")
		return
	}

	c.JSON(http.StatusOK, gin.H{"leaves": leaves})
}
