package web

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/amishk599/jobhunter/internal/model"
	"github.com/amishk599/jobhunter/internal/store"
)

const (
	defaultLimit = 200
	maxLimit     = 1000
)

// ListingReader is the read side of the store the page needs.
type ListingReader interface {
	ScoredListings(ctx context.Context, limit int) ([]model.ScoredListing, error)
	Stats(ctx context.Context) (store.Stats, error)
}

// Handler serves the listing page and its JSON API.
type Handler struct {
	reader ListingReader
	logger *slog.Logger
}

// NewHandler creates a handler reading from reader.
func NewHandler(reader ListingReader, logger *slog.Logger) *Handler {
	return &Handler{reader: reader, logger: logger}
}

// Index renders the HTML table of analyzed listings.
func (h *Handler) Index(c *gin.Context) {
	views, ok := h.load(c, defaultLimit)
	if !ok {
		return
	}

	stats, err := h.reader.Stats(c.Request.Context())
	if err != nil {
		h.logger.Error("database error", "operation", "stats", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"Listings": views,
		"Stats":    stats,
	})
}

// ListListings returns analyzed listings as JSON, newest analysis first.
func (h *Handler) ListListings(c *gin.Context) {
	limit := defaultLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxLimit)
	}

	views, ok := h.load(c, limit)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ListingsResponse{Count: len(views), Listings: views})
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) load(c *gin.Context, limit int) ([]ListingView, bool) {
	scored, err := h.reader.ScoredListings(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("database error", "operation", "scored_listings", "error", err)
		c.Status(http.StatusInternalServerError)
		return nil, false
	}

	views := make([]ListingView, 0, len(scored))
	for _, sl := range scored {
		views = append(views, newListingView(sl))
	}
	return views, true
}
