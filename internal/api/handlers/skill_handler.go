package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/gigmatch/internal/services"
	"github.com/yoockh/gigmatch/internal/utils"
)

type SkillHandler struct {
	svc services.SkillService
}

func NewSkillHandler(svc services.SkillService) *SkillHandler {
	return &SkillHandler{svc: svc}
}

// List serves GET /skills?is_common=true|false.
func (h *SkillHandler) List(c *gin.Context) {
	var filter *bool
	if raw, ok := c.GetQuery("is_common"); ok && raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(c, utils.E(utils.CodeInvalidArgument, "SkillHandler.List", "is_common must be true or false", err))
			return
		}
		filter = &v
	}

	out, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
