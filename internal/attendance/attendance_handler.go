package attendance

import (
	"net/http"

	"go-hr-payroll/internal/shared/apperror"
	"go-hr-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("attendance.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("attendance request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// PunchIn records the calling employee's arrival. The actor is the employee.
func (h *Handler) PunchIn(c *gin.Context) {
	var req PunchInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http punch in validation failed", zap.Error(err))
		response.BindError(c, err)
		return
	}

	resp, err := h.service.PunchIn(c.Request.Context(), c.GetString("company_id"), c.GetString("actor_id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) PunchOut(c *gin.Context) {
	var req PunchOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http punch out validation failed", zap.Error(err))
		response.BindError(c, err)
		return
	}

	resp, err := h.service.PunchOut(c.Request.Context(), c.GetString("company_id"), c.GetString("actor_id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http update attendance status validation failed", zap.Error(err))
		response.BindError(c, err)
		return
	}

	resp, err := h.service.UpdateStatus(c.Request.Context(), c.GetString("company_id"), c.GetString("actor_id"), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http verify attendance validation failed", zap.Error(err))
		response.BindError(c, err)
		return
	}

	resp, err := h.service.Verify(c.Request.Context(), c.GetString("company_id"), c.GetString("actor_id"), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Import(c *gin.Context) {
	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http import attendance validation failed", zap.Error(err))
		response.BindError(c, err)
		return
	}

	resp, err := h.service.Import(c.Request.Context(), c.GetString("company_id"), c.GetString("actor_id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetCalendar(c *gin.Context) {
	var q PeriodQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}

	resp, err := h.service.GetCalendar(c.Request.Context(), c.GetString("company_id"), q.EmployeeID, q.Period)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetSummary(c *gin.Context) {
	var q PeriodQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}

	resp, err := h.service.GetSummary(c.Request.Context(), c.GetString("company_id"), q.EmployeeID, q.Period)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
