package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/devitachiui22/kuanda-sub000/internal/domain"
	"github.com/devitachiui22/kuanda-sub000/internal/service"
	pkgerrors "github.com/devitachiui22/kuanda-sub000/pkg/errors"
	"github.com/devitachiui22/kuanda-sub000/pkg/logger"
)

// ChatHandler serves the /api/chat endpoints. Read paths swallow storage
// errors into neutral success-shaped payloads so a degraded database never
// breaks the chat UI; write paths surface a generic 500.
type ChatHandler struct {
	chatService  service.ChatService
	orderService service.OrderService
	userService  service.UserService
	attachments  service.AttachmentService
	log          logger.Logger
}

func NewChatHandler(
	chatService service.ChatService,
	orderService service.OrderService,
	userService service.UserService,
	attachments service.AttachmentService,
	log logger.Logger,
) *ChatHandler {
	return &ChatHandler{
		chatService:  chatService,
		orderService: orderService,
		userService:  userService,
		attachments:  attachments,
		log:          log,
	}
}

// GET /api/chat/conversas?q=
func (h *ChatHandler) Conversations(c *gin.Context) {
	userID := currentUserID(c)

	conversations, err := h.chatService.ListConversations(c.Request.Context(), userID, c.Query("q"))
	if err != nil {
		h.log.Error("Failed to list conversations", "error", err, "user_id", userID)
		c.JSON(http.StatusOK, gin.H{"conversas": []*domain.ConversationSummary{}})
		return
	}
	if conversations == nil {
		conversations = []*domain.ConversationSummary{}
	}

	c.JSON(http.StatusOK, gin.H{"conversas": conversations})
}

// GET /api/chat/mensagens/:id
func (h *ChatHandler) Messages(c *gin.Context) {
	userID := currentUserID(c)

	conversationID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"mensagens": []*domain.MessageView{}})
		return
	}

	messages, err := h.chatService.ListMessages(c.Request.Context(), conversationID, userID)
	if err != nil {
		if !errors.Is(err, pkgerrors.ErrConversationNotFound) && !errors.Is(err, pkgerrors.ErrForbidden) {
			h.log.Error("Failed to list messages", "error", err, "conversa_id", conversationID)
		}
		c.JSON(http.StatusOK, gin.H{"mensagens": []*domain.MessageView{}})
		return
	}
	if messages == nil {
		messages = []*domain.MessageView{}
	}

	c.JSON(http.StatusOK, gin.H{"mensagens": messages})
}

// POST /api/chat/enviar (multipart: conversa_id, conteudo, tipo_especifico, anexo)
func (h *ChatHandler) Send(c *gin.Context) {
	userID := currentUserID(c)

	conversationID, err := strconv.ParseInt(c.PostForm("conversa_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "conversa_id inválido"})
		return
	}

	var attachment *service.StoredAttachment
	if file, err := c.FormFile("anexo"); err == nil && file != nil {
		attachment, err = h.attachments.Save(file, c.PostForm("tipo_especifico"))
		if err != nil {
			if errors.Is(err, pkgerrors.ErrAttachmentTooLarge) {
				c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Anexo excede o limite de 100 MiB"})
				return
			}
			h.log.Error("Failed to store attachment", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao enviar mensagem"})
			return
		}
	}

	message, err := h.chatService.SendMessage(c.Request.Context(), service.SendMessageInput{
		ConversationID: conversationID,
		SenderID:       userID,
		Content:        c.PostForm("conteudo"),
		Attachment:     attachment,
	})
	if err != nil {
		if errors.Is(err, pkgerrors.ErrBadRequest) || errors.Is(err, pkgerrors.ErrForbidden) ||
			errors.Is(err, pkgerrors.ErrConversationNotFound) {
			c.JSON(pkgerrors.HTTPStatusFromError(err), gin.H{"error": err.Error()})
			return
		}
		h.log.Error("Failed to send message", "error", err, "conversa_id", conversationID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao enviar mensagem"})
		return
	}

	c.JSON(http.StatusCreated, message)
}

type StartConversationRequest struct {
	TargetID string `form:"target_id" json:"target_id" binding:"required"`
	OrderID  *int64 `form:"pedido_id" json:"pedido_id"`
}

// POST /api/chat/iniciar
func (h *ChatHandler) Start(c *gin.Context) {
	userID := currentUserID(c)

	var req StartConversationRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "target_id é obrigatório"})
		return
	}

	targetID, err := uuid.Parse(req.TargetID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "target_id inválido"})
		return
	}

	conversationID, err := h.chatService.StartConversation(c.Request.Context(), userID, targetID, req.OrderID)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrBadRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "target_id inválido"})
			return
		}
		h.log.Error("Failed to start conversation", "error", err, "target_id", targetID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao iniciar conversa"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"conversa_id": conversationID})
}

// GET /api/chat/check is the 4-second client poll.
func (h *ChatHandler) Check(c *gin.Context) {
	userID := currentUserID(c)

	status, err := h.chatService.UnreadStatus(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("Failed to check unread messages", "error", err, "user_id", userID)
		c.JSON(http.StatusOK, gin.H{"unread": 0})
		return
	}

	c.JSON(http.StatusOK, status)
}

// GET /api/chat/pedido-detalhes/:id answers null when the order does not exist.
func (h *ChatHandler) OrderDetail(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"pedido": nil})
		return
	}

	detail, err := h.orderService.Detail(c.Request.Context(), orderID)
	if err != nil {
		h.log.Error("Failed to get order detail", "error", err, "pedido_id", orderID)
		c.JSON(http.StatusOK, gin.H{"pedido": nil})
		return
	}
	if detail == nil {
		c.JSON(http.StatusOK, gin.H{"pedido": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"pedido": detail})
}

type UpdateStatusRequest struct {
	OrderID        int64  `form:"pedido_id" json:"pedido_id" binding:"required"`
	Status         string `form:"status" json:"status" binding:"required"`
	ConversationID int64  `form:"conversa_id" json:"conversa_id" binding:"required"`
}

// POST /api/chat/status
func (h *ChatHandler) UpdateStatus(c *gin.Context) {
	userID := currentUserID(c)

	var req UpdateStatusRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pedido_id, status e conversa_id são obrigatórios"})
		return
	}

	message, err := h.orderService.UpdateStatus(c.Request.Context(), req.OrderID, req.Status, req.ConversationID, userID)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrBadRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status inválido"})
			return
		}
		if errors.Is(err, pkgerrors.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "pedido não encontrado"})
			return
		}
		h.log.Error("Failed to update order status", "error", err, "pedido_id", req.OrderID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao atualizar status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"mensagem": message})
}

// GET /api/chat/usuarios-disponiveis
func (h *ChatHandler) AvailableUsers(c *gin.Context) {
	userID := currentUserID(c)

	users, err := h.userService.Counterparts(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("Failed to list available users", "error", err)
		c.JSON(http.StatusOK, gin.H{"usuarios": []*domain.User{}})
		return
	}
	if users == nil {
		users = []*domain.User{}
	}

	c.JSON(http.StatusOK, gin.H{"usuarios": users})
}

func currentUserID(c *gin.Context) uuid.UUID {
	id, _ := c.MustGet("user_id").(uuid.UUID)
	return id
}
