package portfolio

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	v1.GET("/portfolio", h.Get)
}

// Get godoc
// @Summary Public portfolio
// @Description Profile, about, contact and every collection, with asset links resolved.
// @Tags Portfolio
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /portfolio [get]
func (h *Handler) Get(c *gin.Context) {
	v, err := h.service.Get(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, v)
}
