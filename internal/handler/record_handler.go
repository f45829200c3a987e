package handler

import (
	"net/http"

	"MarketForge/internal/model"
	"MarketForge/internal/service"
	"MarketForge/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RecordHandler 合成记录查询接口
type RecordHandler struct {
	service *service.RecordService
}

// NewRecordHandler 创建处理器
func NewRecordHandler(service *service.RecordService) *RecordHandler {
	return &RecordHandler{service: service}
}

// Records 分页查询
// GET /api/v1/records?market=&symbol=&from=&to=&limit=&offset=
func (h *RecordHandler) Records(c *gin.Context) {
	var q model.RecordQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(400, "invalid request: "+err.Error()))
		return
	}

	logrus.Debugf("records request: market=%s, symbol=%s, from=%s, to=%s, offset=%d, limit=%d",
		q.Market, q.Symbol, q.From, q.To, q.Offset, q.Limit)

	page, err := h.service.QueryRecords(&q)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(page))
}

// Stats 数据集统计
// GET /api/v1/stats?market=
func (h *RecordHandler) Stats(c *gin.Context) {
	stats, err := h.service.GetStats(c.Query("market"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(stats))
}

// CacheStats 缓存命中统计
// GET /api/v1/cache
func (h *RecordHandler) CacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, common.NewSuccessResponse(h.service.GetCacheStats()))
}

func (h *RecordHandler) fail(c *gin.Context, err error) {
	code := model.CodeOf(err)
	if code >= 500 {
		logrus.Errorf("request %s failed: %v", c.Request.URL.Path, err)
	}
	msg := err.Error()
	if je, ok := err.(*model.JobError); ok {
		msg = je.Message
	}
	c.JSON(code, common.NewErrorResponse(code, msg))
}
