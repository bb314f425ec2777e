package handlers

import (
	"net/http"
	"time"

	appointmentRepo "praxisagent/database/repository/appointment"
	"praxisagent/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DashboardHandler exposes the operator's read-only view of bookings.
type DashboardHandler struct {
	Repo appointmentRepo.AppointmentRepository
}

func NewDashboardHandler(repo appointmentRepo.AppointmentRepository) *DashboardHandler {
	return &DashboardHandler{Repo: repo}
}

// TodayAppointmentsHandler returns today's appointments, ordered by time.
func (dh *DashboardHandler) TodayAppointmentsHandler(c *gin.Context) {
	loc, err := time.LoadLocation(utils.PracticeTimezone)
	if err != nil {
		zap.L().Error("failed to load practice timezone", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve practice timezone"})
		return
	}
	today := time.Now().In(loc).Format("2006-01-02")

	appts, err := dh.Repo.ListByDate(c.Request.Context(), today)
	if err != nil {
		zap.L().Error("failed to fetch today's appointments", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch appointments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"date":         today,
		"appointments": appts,
	})
}
