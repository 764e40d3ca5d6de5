package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/itfy/evoting/internal/domain/model"
	"github.com/itfy/evoting/internal/middleware/auth"
	"github.com/itfy/evoting/internal/usecase"
)

// AdminHandler exposes the administrative surface: events, categories,
// candidates, bundles and coupons. All routes sit behind JWT auth.
type AdminHandler struct {
	categories *usecase.CategoryService
	candidates *usecase.CandidateService
	catalog    *usecase.CatalogService
	ledger     *usecase.LedgerService
	logger     *zap.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(
	categories *usecase.CategoryService,
	candidates *usecase.CandidateService,
	catalog *usecase.CatalogService,
	ledger *usecase.LedgerService,
	logger *zap.Logger,
) *AdminHandler {
	return &AdminHandler{
		categories: categories,
		candidates: candidates,
		catalog:    catalog,
		ledger:     ledger,
		logger:     logger,
	}
}

// CreateEventRequest registers a voting event.
type CreateEventRequest struct {
	Name        string    `json:"name" validate:"required,max=150"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date" validate:"required"`
	EndDate     time.Time `json:"end_date" validate:"required"`
}

// CreateEvent registers a voting event.
func (h *AdminHandler) CreateEvent(c echo.Context) error {
	if _, err := auth.RequireAdmin(c); err != nil {
		return err
	}

	var req CreateEventRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	event := &model.Event{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}
	if err := h.categories.CreateEvent(c.Request().Context(), event); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, event)
}

// CreateCategoryRequest adds a category to an event.
type CreateCategoryRequest struct {
	EventID         int64     `json:"event_id" validate:"required,gt=0"`
	Name            string    `json:"name" validate:"required,max=100"`
	Description     string    `json:"description"`
	ThumbnailURI    string    `json:"thumbnail_uri"`
	MinVotes        int       `json:"min_votes"`
	MaxVotes        int       `json:"max_votes"`
	AllowMultiple   *bool     `json:"allow_multiple"`
	VotingStartDate time.Time `json:"voting_start_date" validate:"required"`
	VotingEndDate   time.Time `json:"voting_end_date" validate:"required"`
	AllowTie        bool      `json:"allow_tie"`
	TieBreakMethod  string    `json:"tie_break_method" validate:"omitempty,oneof=timestamp random manual"`
}

// CreateCategory adds a category to an event.
func (h *AdminHandler) CreateCategory(c echo.Context) error {
	if _, err := auth.RequireAdmin(c); err != nil {
		return err
	}

	var req CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	allowMultiple := true
	if req.AllowMultiple != nil {
		allowMultiple = *req.AllowMultiple
	}
	tieBreak := model.TieBreakTimestamp
	if req.TieBreakMethod != "" {
		tieBreak = model.TieBreakMethod(req.TieBreakMethod)
	}

	category := &model.Category{
		EventID:         req.EventID,
		Name:            req.Name,
		Description:     req.Description,
		ThumbnailURI:    req.ThumbnailURI,
		MinVotes:        req.MinVotes,
		MaxVotes:        req.MaxVotes,
		AllowMultiple:   allowMultiple,
		VotingStartDate: req.VotingStartDate,
		VotingEndDate:   req.VotingEndDate,
		AllowTie:        req.AllowTie,
		TieBreakMethod:  tieBreak,
	}
	if err := h.categories.CreateCategory(c.Request().Context(), category); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, category)
}

// ListCategories returns an event's categories.
func (h *AdminHandler) ListCategories(c echo.Context) error {
	if _, err := auth.RequireAdmin(c); err != nil {
		return err
	}

	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || eventID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid event id")
	}

	categories, err := h.categories.ListCategories(c.Request().Context(), eventID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, categories)
}

// AdvanceCategoryStatus moves a category one step forward in its lifecycle.
func (h *AdminHandler) AdvanceCategoryStatus(c echo.Context) error {
	if _, err := auth.RequireAdmin(c); err != nil {
		return err
	}

	categoryID, err := categoryIDParam(c)
	if err != nil {
		return err
	}

	next, applied, err := h.categories.AdvanceStatus(c.Request().Context(), categoryID)
	if err != nil {
		return respondError(c, err)
	}
	if !applied {
		return c.JSON(http.StatusConflict, echo.Map{
			"error": "category status changed concurrently, retry",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"category_id": categoryID,
		"status":      next,
	})
}

// CreateCandidateRequest registers a candidate and nominates it.
type CreateCandidateRequest struct {
	EventID     int64   `json:"event_id" validate:"required,gt=0"`
	Name        string  `json:"name" validate:"required,min=2,max=100"`
	CategoryIDs []int64 `json:"category_ids" validate:"required,min=1,dive,gt=0"`
}

// CreateCandidate registers a candidate with a generated voting code.
func (h *AdminHandler) CreateCandidate(c echo.Context) error {
	if _, err := auth.RequireAdmin(c); err != nil {
		return err
	}

	var req CreateCandidateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	candidate := &model.Candidate{
		EventID: req.EventID,
		Name:    req.Name,
	}
	if err := h.candidates.CreateCandidate(c.Request().Context(), candidate, req.CategoryIDs); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, candidate)
}

// CreateBundleRequest adds a purchasable bundle to a category.
type CreateBundleRequest struct {
	CategoryID   int64           `json:"category_id" validate:"required,gt=0"`
	Name         string          `json:"name" validate:"required,max=100"`
	VotesGranted int             `json:"votes_granted" validate:"required,gt=0"`
	Price        decimal.Decimal `json:"price" validate:"required"`
}

// CreateBundle adds a purchasable bundle.
func (h *AdminHandler) CreateBundle(c echo.Context) error {
	if _, err := auth.RequireAdmin(c); err != nil {
		return err
	}

	var req CreateBundleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	bundle := &model.VoteBundle{
		CategoryID:   req.CategoryID,
		Name:         req.Name,
		VotesGranted: req.VotesGranted,
		Price:        req.Price,
		Currency:     "NGN",
	}
	if err := h.catalog.CreateBundle(c.Request().Context(), bundle); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, bundle)
}

// RetireBundle takes a bundle off sale.
func (h *AdminHandler) RetireBundle(c echo.Context) error {
	if _, err := auth.RequireAdmin(c); err != nil {
		return err
	}

	bundleID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || bundleID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid bundle id")
	}

	if err := h.catalog.RetireBundle(c.Request().Context(), bundleID); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateCouponRequest adds a discount coupon.
type CreateCouponRequest struct {
	Code          string          `json:"code" validate:"required,max=50"`
	DiscountType  string          `json:"discount_type" validate:"required,oneof=percentage fixed"`
	DiscountValue decimal.Decimal `json:"discount_value" validate:"required"`
	ValidFrom     time.Time       `json:"valid_from" validate:"required"`
	ValidTo       time.Time       `json:"valid_to" validate:"required"`
	UsageLimit    int             `json:"usage_limit" validate:"required,gt=0"`
	EventID       *int64          `json:"event_id,omitempty"`
	CategoryID    *int64          `json:"category_id,omitempty"`
}

// CreateCoupon adds a discount coupon.
func (h *AdminHandler) CreateCoupon(c echo.Context) error {
	if _, err := auth.RequireAdmin(c); err != nil {
		return err
	}

	var req CreateCouponRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	coupon := &model.Coupon{
		Code:          req.Code,
		DiscountType:  model.DiscountType(req.DiscountType),
		DiscountValue: req.DiscountValue,
		ValidFrom:     req.ValidFrom,
		ValidTo:       req.ValidTo,
		UsageLimit:    req.UsageLimit,
		EventID:       req.EventID,
		CategoryID:    req.CategoryID,
	}
	if err := h.catalog.CreateCoupon(c.Request().Context(), coupon); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, coupon)
}

// ReapExpired sweeps overdue pending payments without waiting for the
// background reaper's next tick.
func (h *AdminHandler) ReapExpired(c echo.Context) error {
	if _, err := auth.RequireAdmin(c); err != nil {
		return err
	}

	reaped, err := h.ledger.ReapExpired(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reaped": reaped})
}
