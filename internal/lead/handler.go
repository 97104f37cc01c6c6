package lead

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"kaspirank/internal/live"
	"kaspirank/pkg/models"
)

type Handler struct {
	Repo *Repo
	Hub  *live.Hub
}

func NewHandler(repo *Repo, hub *live.Hub) *Handler {
	return &Handler{Repo: repo, Hub: hub}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.create) // POST /api/lead
}

var (
	phoneRe = regexp.MustCompile(`^\+7[0-9]{10}$`)
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

type createReq struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	ShopName    string `json:"shopName"`
	Description string `json:"description"`
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Некорректный запрос"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.ShopName = strings.TrimSpace(req.ShopName)
	req.Description = strings.TrimSpace(req.Description)

	switch {
	case len(req.Name) < 2:
		c.JSON(http.StatusBadRequest, gin.H{"message": "Введите имя (мин. 2 символа)"})
		return
	case !phoneRe.MatchString(req.Phone):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Введите телефон в формате +7XXXXXXXXXX"})
		return
	case !emailRe.MatchString(req.Email):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Введите корректный email"})
		return
	case len(req.ShopName) < 2:
		c.JSON(http.StatusBadRequest, gin.H{"message": "Введите название магазина"})
		return
	case req.Description == "":
		c.JSON(http.StatusBadRequest, gin.H{"message": "Опишите ваш запрос"})
		return
	}

	l := models.Lead{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Phone:       req.Phone,
		Email:       req.Email,
		ShopName:    req.ShopName,
		Description: req.Description,
		CreatedAt:   time.Now().UTC(),
	}

	if err := h.Repo.Create(c.Request.Context(), l); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Не удалось отправить заявку"})
		return
	}

	if h.Hub != nil {
		ev := live.Event{
			Type:     "lead.created",
			ID:       l.ID,
			ShopName: l.ShopName,
			At:       l.CreatedAt,
		}
		go h.Hub.BroadcastJSON(ev)
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":        l.ID,
		"createdAt": l.CreatedAt,
	})
}
