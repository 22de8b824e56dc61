package carousel

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dancehub/internal/auth"
)

type Handler struct {
	Composer *Composer
}

func NewHandler(composer *Composer) *Handler {
	return &Handler{Composer: composer}
}

// RegisterRoutes expects a group wrapped in auth.OptionalAuthMiddleware so a
// presented ticket personalizes the carousel and its absence falls back to
// the anonymous shelves.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.generate)           // GET /carousel?variant=party&search=
	rg.GET("/:variant", h.generate)  // GET /carousel/coop
}

func (h *Handler) generate(c *gin.Context) {
	raw := c.Param("variant")
	if raw == "" {
		raw = c.Query("variant")
	}
	variant, ok := ParseVariant(raw)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "variant must be one of: party, coop, sweat, challengeCreate"})
		return
	}

	userID := ""
	if claims := auth.MustGetClaims(c); claims != nil {
		userID = claims.UserID
	}

	search := c.Query("search")

	ctx := c.Request.Context()
	var payload any
	switch variant {
	case VariantCoop:
		payload = h.Composer.GenerateCoop(ctx, search, userID)
	case VariantSweat:
		payload = h.Composer.GenerateSweat(ctx, search, userID)
	case VariantChallenge:
		payload = h.Composer.GenerateChallenge(ctx, search, userID)
	default:
		payload = h.Composer.GenerateParty(ctx, search, userID)
	}

	c.JSON(http.StatusOK, payload)
}
