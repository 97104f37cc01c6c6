package records

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"kaspirank/internal/kaspi"
	"kaspirank/internal/live"
	"kaspirank/pkg/models"
)

type Handler struct {
	Repo     *Repo
	Analyzer *kaspi.Analyzer
	Hub      *live.Hub
}

func NewHandler(repo *Repo, analyzer *kaspi.Analyzer, hub *live.Hub) *Handler {
	return &Handler{Repo: repo, Analyzer: analyzer, Hub: hub}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/parse", h.parse) // POST /api/records/parse — analyze only, no save
	rg.POST("", h.create)      // POST /api/records       — analyze + save
	rg.GET("", h.list)         // GET  /api/records       — latest 50
}

// RegisterAnalyzeRoute exposes the analyze-only endpoint the wizard calls
// before offering to save. Same contract as POST /api/records/parse.
func (h *Handler) RegisterAnalyzeRoute(rg *gin.RouterGroup) {
	rg.POST("", h.parse)
}

type analyzeReq struct {
	ProductURL string `json:"productUrl"`
	ShopName   string `json:"shopName"`
}

// validate mirrors the analyzer's own checks so obviously bad input is
// rejected with a field-specific message before any network call.
func (req *analyzeReq) validate() (*url.URL, string, bool) {
	req.ProductURL = strings.TrimSpace(req.ProductURL)
	req.ShopName = strings.TrimSpace(req.ShopName)

	if req.ProductURL == "" {
		return nil, "Введите ссылку на товар", false
	}
	parsed, err := url.Parse(req.ProductURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, "Некорректная ссылка", false
	}
	if !strings.HasSuffix(parsed.Hostname(), "kaspi.kz") {
		return nil, "Платформа не поддерживается. Вставьте ссылку на товар Kaspi.", false
	}
	if len(req.ShopName) < 2 {
		return nil, "Введите название магазина", false
	}
	return parsed, "", true
}

func (h *Handler) parse(c *gin.Context) {
	var req analyzeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Некорректный запрос"})
		return
	}
	if _, msg, ok := req.validate(); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": msg})
		return
	}

	result, err := h.Analyzer.Analyze(c.Request.Context(), req.ProductURL, req.ShopName)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) create(c *gin.Context) {
	var req analyzeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Некорректный запрос"})
		return
	}
	parsed, msg, ok := req.validate()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": msg})
		return
	}

	analysis, err := h.Analyzer.Analyze(c.Request.Context(), req.ProductURL, req.ShopName)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"message": err.Error()})
		return
	}

	if !analysis.MyShopFound {
		c.JSON(http.StatusNotFound, gin.H{"message": "Указанный магазин не найден среди продавцов"})
		return
	}

	rec := models.Record{
		ID:          uuid.NewString(),
		ProductURL:  req.ProductURL,
		ProductHost: parsed.Host,
		ProductPath: parsed.Path,
		ShopName:    req.ShopName,
		LeaderShop:  analysis.LeaderShop,
		LeaderPrice: analysis.LeaderPrice,
		MyPrice:     *analysis.MyShopPrice,
		Position:    *analysis.MyShopPosition,
		Offers:      analysis.Offers,
		CreatedAt:   time.Now().UTC(),
	}

	if err := h.Repo.Create(c.Request.Context(), rec); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Не удалось сохранить данные"})
		return
	}

	if h.Hub != nil {
		ev := live.Event{
			Type:     "record.created",
			ID:       rec.ID,
			ShopName: rec.ShopName,
			Position: rec.Position,
			At:       rec.CreatedAt,
		}
		go h.Hub.BroadcastJSON(ev)
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":          rec.ID,
		"leaderPrice": rec.LeaderPrice,
		"myPrice":     rec.MyPrice,
		"position":    rec.Position,
		"leaderShop":  rec.LeaderShop,
		"createdAt":   rec.CreatedAt,
	})
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.Repo.List(c.Request.Context(), 50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Не удалось получить записи"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// statusFor maps analyzer error kinds onto HTTP statuses. Validation problems
// the analyzer caught itself are client errors; everything about the upstream
// is a bad gateway.
func statusFor(err error) int {
	switch {
	case errors.Is(err, kaspi.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, kaspi.ErrUpstreamEmpty),
		errors.Is(err, kaspi.ErrUpstreamUnavailable),
		errors.Is(err, kaspi.ErrNoLeader):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
