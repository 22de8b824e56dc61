package songs

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Catalog *Catalog
}

func NewHandler(catalog *Catalog) *Handler {
	return &Handler{Catalog: catalog}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.list)               // GET /songs
	rg.GET("/:map_name", h.getByID)  // GET /songs/:map_name
}

func (h *Handler) list(c *gin.Context) {
	var ids []string
	switch {
	case strings.TrimSpace(c.Query("q")) != "":
		ids = h.Catalog.Search(c.Query("q"))
	case strings.TrimSpace(c.Query("tag")) != "":
		ids = h.Catalog.ByTag(strings.TrimSpace(c.Query("tag")))
	case strings.TrimSpace(c.Query("version")) != "":
		v, err := strconv.Atoi(strings.TrimSpace(c.Query("version")))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "version must be an integer"})
			return
		}
		ids = h.Catalog.ByVersion(v)
	default:
		ids = h.Catalog.AllIDs()
	}

	limit := parseInt(c.Query("limit"), 50)
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := parseInt(c.Query("offset"), 0)
	if offset < 0 {
		offset = 0
	}

	total := len(ids)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	page := ids[offset:end]

	items := make([]any, 0, len(page))
	for _, id := range page {
		if s, ok := h.Catalog.Get(id); ok {
			items = append(items, s)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"total":  total,
		"limit":  limit,
		"offset": offset,
		"items":  items,
	})
}

func (h *Handler) getByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("map_name"))
	s, ok := h.Catalog.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, s)
}

// DatabaseHandler serves the full song database as one JSON object keyed by
// map name. Game clients pull this once and cache it.
func DatabaseHandler(catalog *Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, catalog.All())
	}
}

func parseInt(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
