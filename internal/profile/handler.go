package profile

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"dancehub/internal/auth"
	"dancehub/internal/events"
	"dancehub/internal/notify"
	"dancehub/internal/playcount"
	"dancehub/internal/songs"
)

type Handler struct {
	Repo    *Repo
	Catalog *songs.Catalog
	Counts  *playcount.Repo
	Hub     *events.Hub
	Notify  *notify.Server
}

func NewHandler(repo *Repo, catalog *songs.Catalog, counts *playcount.Repo, hub *events.Hub, notifier *notify.Server) *Handler {
	return &Handler{Repo: repo, Catalog: catalog, Counts: counts, Hub: hub, Notify: notifier}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/profile", h.getProfile)
	rg.GET("/favorites", h.listFavorites)
	rg.POST("/favorites", h.addFavorite)
	rg.DELETE("/favorites/:map_name", h.removeFavorite)
	rg.POST("/played", h.songPlayed)
}

func (h *Handler) getProfile(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	p, err := h.Repo.GetProfile(c.Request.Context(), claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load profile failed"})
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) listFavorites(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	p, err := h.Repo.GetProfile(c.Request.Context(), claims.UserID)
	if err != nil || p == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load favorites failed"})
		return
	}

	out := make([]string, 0, len(p.Favorites))
	for mapName := range p.Favorites {
		out = append(out, mapName)
	}
	c.JSON(http.StatusOK, gin.H{"favorites": out})
}

type favoriteReq struct {
	MapName string `json:"map_name"`
}

func (h *Handler) addFavorite(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req favoriteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	mapName := strings.TrimSpace(req.MapName)
	if mapName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "map_name required"})
		return
	}
	if _, ok := h.Catalog.Get(mapName); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown map"})
		return
	}

	if err := h.Repo.AddFavorite(c.Request.Context(), claims.UserID, mapName); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "favorited", "map_name": mapName})
}

func (h *Handler) removeFavorite(c *gin.Context) {
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

	ok, err := h.Repo.RemoveFavorite(c.Request.Context(), claims.UserID, mapName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}

type playedReq struct {
	MapName string `json:"map_name"`
	Score   int    `json:"score"`
}

func (h *Handler) songPlayed(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req playedReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	mapName := strings.TrimSpace(req.MapName)
	if mapName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "map_name required"})
		return
	}
	if _, ok := h.Catalog.Get(mapName); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown map"})
		return
	}
	if req.Score < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "score must be >= 0"})
		return
	}

	newBest, err := h.Repo.RecordPlay(c.Request.Context(), claims.UserID, mapName, req.Score)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}

	// The weekly aggregate is best-effort from the client's point of view:
	// the play itself is already recorded.
	if err := h.Counts.Increment(c.Request.Context(), mapName); err != nil {
		log.Printf("[playcount] increment %s failed: %v", mapName, err)
	}

	if h.Hub != nil {
		go h.Hub.Broadcast(events.PlayEvent{
			UserID:  claims.UserID,
			MapName: mapName,
			Score:   req.Score,
			NewBest: newBest,
		})
	}

	if newBest && h.Notify != nil {
		go h.Notify.BroadcastNewRecord(notify.NewRecordMessage{
			UserID:   claims.UserID,
			Username: claims.Username,
			MapName:  mapName,
			Score:    req.Score,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "recorded",
		"map_name": mapName,
		"new_best": newBest,
	})
}
