package server

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hyunjin-oh/coursechat/models"
)

// Searcher is the slice of the engine the handler needs.
type Searcher interface {
	Search(ctx context.Context, query string, topK int) []models.SearchResult
}

type SearchHandler struct {
	Engine Searcher
	TopK   int
}

func (h *SearchHandler) Register(g *echo.Group) {
	g.POST("/search", h.search)
}

func (h *SearchHandler) search(c echo.Context) error {
	var req struct {
		Query string `json:"query"`
		TopK  int    `json:"top_k"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query is required")
	}
	topK := req.TopK
	if topK <= 0 {
		topK = h.TopK
	}

	results := h.Engine.Search(c.Request().Context(), req.Query, topK)
	observeSearch(results)
	if len(results) == 0 {
		// A valid outcome: nothing cleared the relevance bar.
		return c.JSON(http.StatusOK, map[string]interface{}{
			"results": []models.SearchResult{},
			"message": "no courses matched the question",
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"results": results})
}
