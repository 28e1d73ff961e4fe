package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/foodhub/internal/service/search"
	"github.com/Skotchmaster/foodhub/internal/util"
	"github.com/Skotchmaster/foodhub/pkg/logging"
)

type SearchHandler struct {
	Search *search.SearchService
}

func (h *SearchHandler) Handler(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu_search")

	q := c.QueryParam("q")
	if q == "" {
		l.Warn("search_failed", "status", 400, "reason", "empty query")
		return echo.NewHTTPError(http.StatusBadRequest, "query error")
	}
	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)

	res, err := h.Search.Search(ctx, q, page, size)
	if err != nil {
		return Fail(l, "search_failed", err)
	}
	return c.JSON(http.StatusOK, res)
}
