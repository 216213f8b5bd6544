package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/gigmatch/internal/api/middleware"
	"github.com/yoockh/gigmatch/internal/services"
)

type JobHandler struct {
	jobs    services.JobService
	matches services.MatchService
}

func NewJobHandler(jobs services.JobService, matches services.MatchService) *JobHandler {
	return &JobHandler{jobs: jobs, matches: matches}
}

func (h *JobHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	out, err := h.jobs.List(c.Request.Context(), userID, currentRole(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *JobHandler) Get(c *gin.Context) {
	j, err := h.jobs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, j)
}

func (h *JobHandler) Create(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req services.JobInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "JobHandler.Create", err)
		return
	}

	j, err := h.jobs.Create(c.Request.Context(), userID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	middleware.AddLogFields(c, logrus.Fields{"job_id": j.ID})
	c.JSON(http.StatusCreated, j)
}

func (h *JobHandler) Update(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req services.JobInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "JobHandler.Update", err)
		return
	}

	j, err := h.jobs.Update(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, j)
}

func (h *JobHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.jobs.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Matches lists candidate seekers for one of the caller's jobs.
func (h *JobHandler) Matches(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	out, err := h.matches.ForJob(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	middleware.AddLogFields(c, logrus.Fields{"matches": len(out)})
	c.JSON(http.StatusOK, out)
}
