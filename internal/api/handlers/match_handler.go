package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/gigmatch/internal/api/middleware"
	"github.com/yoockh/gigmatch/internal/services"
)

type MatchHandler struct {
	svc services.MatchService
}

func NewMatchHandler(svc services.MatchService) *MatchHandler {
	return &MatchHandler{svc: svc}
}

func (h *MatchHandler) Mine(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	out, err := h.svc.ForSeeker(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	middleware.AddLogFields(c, logrus.Fields{"matches": len(out)})
	c.JSON(http.StatusOK, out)
}
