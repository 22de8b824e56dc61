package leaderboard

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"dancehub/internal/auth"
)

type Handler struct {
	Repo *Repo
}

func NewHandler(repo *Repo) *Handler {
	return &Handler{Repo: repo}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.GET("/:map_name", h.top)                   // GET /leaderboard/:map_name
	rg.GET("/:map_name/rank", authMW, h.rank)     // GET /leaderboard/:map_name/rank
}

func (h *Handler) top(c *gin.Context) {
	mapName := strings.TrimSpace(c.Param("map_name"))
	if mapName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "map_name required"})
		return
	}

	limit := 20
	if s := strings.TrimSpace(c.Query("limit")); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			limit = n
		}
	}

	entries, err := h.Repo.TopForSong(c.Request.Context(), mapName, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"map_name": mapName,
		"entries":  entries,
	})
}

func (h *Handler) rank(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	mapName := strings.TrimSpace(c.Param("map_name"))
	if mapName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "map_name required"})
		return
	}

	rank, err := h.Repo.Rank(c.Request.Context(), mapName, claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "rank failed"})
		return
	}
	if rank == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no score on this map"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"map_name": mapName,
		"rank":     rank,
	})
}
