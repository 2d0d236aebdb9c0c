package server

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hyunjin-oh/coursechat/internal/chat"
	"github.com/hyunjin-oh/coursechat/internal/history"
)

// Answerer is the slice of the chat service the handler needs.
type Answerer interface {
	Answer(ctx context.Context, query string) (chat.Answer, error)
}

type ChatHandler struct {
	Service Answerer
	History history.Store
}

func (h *ChatHandler) Register(g *echo.Group) {
	g.POST("/chat", h.chat)
	g.POST("/chat/reset", h.reset)
	g.GET("/chat/history", h.chatHistory)
}

func (h *ChatHandler) chat(c echo.Context) error {
	var req struct {
		Query string `json:"query"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query is required")
	}

	ans, err := h.Service.Answer(c.Request().Context(), req.Query)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	observeResolution(ans.Resolution)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"response":     ans.Text,
		"chat_history": ans.History,
	})
}

func (h *ChatHandler) reset(c echo.Context) error {
	if err := h.History.Reset(); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "chat and search history cleared"})
}

func (h *ChatHandler) chatHistory(c echo.Context) error {
	turns, err := h.History.ChatTurns()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"chat_history": turns})
}
