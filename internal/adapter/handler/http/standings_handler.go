package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/itfy/evoting/internal/usecase"
)

// StandingsHandler exposes leaderboard and winner endpoints.
type StandingsHandler struct {
	resolution *usecase.ResolutionService
	catalog    *usecase.CatalogService
	logger     *zap.Logger
}

// NewStandingsHandler creates a new standings handler
func NewStandingsHandler(
	resolution *usecase.ResolutionService,
	catalog *usecase.CatalogService,
	logger *zap.Logger,
) *StandingsHandler {
	return &StandingsHandler{
		resolution: resolution,
		catalog:    catalog,
		logger:     logger,
	}
}

func categoryIDParam(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid category id")
	}
	return id, nil
}

// GetStandings returns the live tally of a category.
func (h *StandingsHandler) GetStandings(c echo.Context) error {
	categoryID, err := categoryIDParam(c)
	if err != nil {
		return err
	}

	standings, err := h.resolution.ListStandings(c.Request().Context(), categoryID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"category_id": categoryID,
		"standings":   standings,
	})
}

// GetWinner resolves the winner of a closed category.
func (h *StandingsHandler) GetWinner(c echo.Context) error {
	categoryID, err := categoryIDParam(c)
	if err != nil {
		return err
	}

	result, err := h.resolution.DetermineWinner(c.Request().Context(), categoryID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, result)
}

// ListBundles returns the purchasable bundles of a category.
func (h *StandingsHandler) ListBundles(c echo.Context) error {
	categoryID, err := categoryIDParam(c)
	if err != nil {
		return err
	}

	bundles, err := h.catalog.ListBundles(c.Request().Context(), categoryID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"category_id": categoryID,
		"bundles":     bundles,
	})
}
