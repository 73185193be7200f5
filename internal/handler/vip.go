package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/devitachiui22/kuanda-sub000/internal/domain"
	"github.com/devitachiui22/kuanda-sub000/internal/service"
	pkgerrors "github.com/devitachiui22/kuanda-sub000/pkg/errors"
	"github.com/devitachiui22/kuanda-sub000/pkg/logger"
)

type VipHandler struct {
	vipService service.VipService
	log        logger.Logger
}

func NewVipHandler(vipService service.VipService, log logger.Logger) *VipHandler {
	return &VipHandler{vipService: vipService, log: log}
}

// POST /api/vip/solicitar
func (h *VipHandler) Request(c *gin.Context) {
	userID := currentUserID(c)

	request, err := h.vipService.Request(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, pkgerrors.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Apenas vendedores podem solicitar VIP"})
		case errors.Is(err, pkgerrors.ErrBadRequest):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Já existe uma solicitação pendente"})
		default:
			h.log.Error("Failed to create vip request", "error", err, "user_id", userID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao solicitar VIP"})
		}
		return
	}

	c.JSON(http.StatusCreated, request)
}

// GET /api/vip/solicitacoes (admin)
func (h *VipHandler) ListPending(c *gin.Context) {
	requests, err := h.vipService.ListPending(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to list vip requests", "error", err)
		c.JSON(http.StatusOK, gin.H{"solicitacoes": []*domain.VipRequest{}})
		return
	}
	if requests == nil {
		requests = []*domain.VipRequest{}
	}

	c.JSON(http.StatusOK, gin.H{"solicitacoes": requests})
}

type VipDecisionRequest struct {
	Approve bool `form:"aprovar" json:"aprovar"`
}

// POST /api/vip/:id/decidir (admin)
func (h *VipHandler) Decide(c *gin.Context) {
	adminID := currentUserID(c)

	requestID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}

	var req VipDecisionRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request, err := h.vipService.Decide(c.Request.Context(), requestID, req.Approve, adminID)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrVipRequestNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "solicitação não encontrada"})
			return
		}
		h.log.Error("Failed to decide vip request", "error", err, "request_id", requestID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao decidir solicitação"})
		return
	}

	c.JSON(http.StatusOK, request)
}
