// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"net/http"

	"linglong-go/internal/model"
	"linglong-go/internal/sanitize"
	"linglong-go/internal/service"
	"linglong-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// AnalyzeRequest 是分析接口的请求体，四种请求类型共用。
// 服务端不保存会话，全部历史随请求体往返。
type AnalyzeRequest struct {
	Type          string              `json:"type"` // initial / followup / report / chat
	MingPan       *model.MingPan      `json:"mingPan"`
	QAHistory     []model.QARecord    `json:"qaHistory"`
	RoundNumber   int                 `json:"roundNumber"`
	ReportSummary string              `json:"reportSummary"` // chat 专用
	ChatHistory   []model.ChatMessage `json:"chatHistory"`   // chat 专用
	UserQuestion  string              `json:"userQuestion"`  // chat 专用
}

// AnalyzeHandler 负责处理命理分析请求。
type AnalyzeHandler struct {
	divinationService service.DivinationService
}

// NewAnalyzeHandler 创建一个新的 AnalyzeHandler。
func NewAnalyzeHandler(divinationService service.DivinationService) *AnalyzeHandler {
	return &AnalyzeHandler{divinationService: divinationService}
}

var validTypes = map[string]bool{
	"initial":  true,
	"followup": true,
	"report":   true,
	"chat":     true,
}

// Analyze 处理 POST /api/v1/analyze。
// 校验顺序与各分支的降级行为见请求类型各自的 service 方法。
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求体格式不正确"})
		return
	}

	if !validTypes[req.Type] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request type"})
		return
	}
	if req.MingPan == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing mingPan data"})
		return
	}
	if !req.MingPan.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid mingPan structure"})
		return
	}
	if len(req.QAHistory) > model.MaxQAHistoryLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "qaHistory exceeds maximum length (20)"})
		return
	}
	if len(req.ChatHistory) > model.MaxChatHistoryLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "chatHistory exceeds maximum length (30)"})
		return
	}
	req.RoundNumber = service.ClampRound(req.RoundNumber)

	// 服务端无条件再清洗一遍所有自由文本，不信任客户端的清洗
	req.MingPan.UserInfo.Name = sanitize.Clean(req.MingPan.UserInfo.Name, 20)
	if req.MingPan.UserInfo.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "姓名不能为空"})
		return
	}
	if req.MingPan.UserInfo.Gender != model.GenderFemale {
		req.MingPan.UserInfo.Gender = model.GenderMale
	}
	if req.MingPan.UserInfo.BirthPlace != "" {
		req.MingPan.UserInfo.BirthPlace = sanitize.Clean(req.MingPan.UserInfo.BirthPlace, 50)
	}
	for i := range req.QAHistory {
		req.QAHistory[i].Question = sanitize.Clean(req.QAHistory[i].Question, model.MaxAnswerLength)
		req.QAHistory[i].Answer = sanitize.Clean(req.QAHistory[i].Answer, model.MaxAnswerLength)
	}
	for i := range req.ChatHistory {
		req.ChatHistory[i].Content = sanitize.Clean(req.ChatHistory[i].Content, model.MaxAnswerLength)
	}

	ctx := c.Request.Context()

	switch req.Type {
	case "initial":
		result, err := h.divinationService.Initial(ctx, *req.MingPan)
		if err != nil {
			h.serverError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)

	case "followup":
		result, err := h.divinationService.Followup(ctx, *req.MingPan, req.QAHistory, req.RoundNumber)
		if err != nil {
			h.serverError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)

	case "report":
		report, err := h.divinationService.Report(ctx, *req.MingPan, req.QAHistory)
		if err != nil {
			h.serverError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":    "报告生成成功",
			"isComplete": true,
			"report":     report,
		})

	case "chat":
		reportSummary := sanitize.Clean(req.ReportSummary, 2000)
		userQuestion := sanitize.Clean(req.UserQuestion, model.MaxAnswerLength)
		// 空问题在任何网络调用之前拒绝
		if userQuestion == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "请输入您的问题"})
			return
		}
		result, err := h.divinationService.Chat(ctx, *req.MingPan, reportSummary, req.QAHistory, req.ChatHistory, userQuestion)
		if err != nil {
			h.serverError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func (h *AnalyzeHandler) serverError(c *gin.Context, err error) {
	log.Error("分析请求处理失败", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
