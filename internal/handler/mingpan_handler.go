package handler

import (
	"net/http"

	"linglong-go/internal/bazi"
	"linglong-go/internal/model"
	"linglong-go/internal/sanitize"

	"github.com/gin-gonic/gin"
)

// MingPanHandler 负责命盘推算与时辰表查询。
type MingPanHandler struct{}

// NewMingPanHandler 创建一个新的 MingPanHandler。
func NewMingPanHandler() *MingPanHandler {
	return &MingPanHandler{}
}

// Calculate 处理 POST /api/v1/mingpan：由出生信息推算命盘。
// 出生数据非法时返回 400 和推算器的具体校验文案。
func (h *MingPanHandler) Calculate(c *gin.Context) {
	var userInfo model.UserInfo
	if err := c.ShouldBindJSON(&userInfo); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求体格式不正确"})
		return
	}

	userInfo.Name = sanitize.Clean(userInfo.Name, 20)
	if userInfo.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "姓名不能为空"})
		return
	}
	if userInfo.Gender != model.GenderFemale {
		userInfo.Gender = model.GenderMale
	}
	if userInfo.BirthPlace != "" {
		userInfo.BirthPlace = sanitize.Clean(userInfo.BirthPlace, 50)
	}

	mingPan, err := bazi.Calculate(userInfo)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, mingPan)
}

// ShiChenList 处理 GET /api/v1/shichen：返回十二时辰选项表。
func (h *MingPanHandler) ShiChenList(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"shiChen": bazi.ShiChenList})
}
