package handler

import (
	"errors"
	"net/http"

	"linglong-go/internal/middleware"
	"linglong-go/internal/model"
	"linglong-go/internal/repository"
	"linglong-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// SessionHandler 负责会话快照的保存与恢复，按客户端标识存取。
type SessionHandler struct {
	sessionRepo repository.SessionRepository
}

// NewSessionHandler 创建一个新的 SessionHandler。
func NewSessionHandler(sessionRepo repository.SessionRepository) *SessionHandler {
	return &SessionHandler{sessionRepo: sessionRepo}
}

// Save 处理 POST /api/v1/session。
func (h *SessionHandler) Save(c *gin.Context) {
	var snapshot model.SessionSnapshot
	if err := c.ShouldBindJSON(&snapshot); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求体格式不正确"})
		return
	}

	err := h.sessionRepo.Save(c.Request.Context(), middleware.ClientID(c), &snapshot)
	if errors.Is(err, model.ErrSnapshotTooLarge) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		log.Error("保存会话快照失败", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "success"})
}

// Load 处理 GET /api/v1/session。无快照时 data 为 null。
func (h *SessionHandler) Load(c *gin.Context) {
	snapshot, err := h.sessionRepo.Load(c.Request.Context(), middleware.ClientID(c))
	if err != nil {
		log.Error("读取会话快照失败", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": snapshot})
}

// Delete 处理 DELETE /api/v1/session，对应显式的会话重置。
func (h *SessionHandler) Delete(c *gin.Context) {
	if err := h.sessionRepo.Delete(c.Request.Context(), middleware.ClientID(c)); err != nil {
		log.Error("删除会话快照失败", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "success"})
}
