package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/haroldrospa/Cobroapp-sub000/internal/apierror"
	"github.com/haroldrospa/Cobroapp-sub000/internal/dto"
	"github.com/haroldrospa/Cobroapp-sub000/internal/middleware"
	"github.com/haroldrospa/Cobroapp-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DrawerHandler struct {
	sessions  service.SessionService
	movements service.MovementService
}

func NewDrawerHandler(sessions service.SessionService, movements service.MovementService) *DrawerHandler {
	return &DrawerHandler{sessions: sessions, movements: movements}
}

// Open godoc
// @Summary Opens a new cash drawer session
// @Tags drawer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.OpenDrawerRequest true "Opening data"
// @Success 201 {object} dto.SessionResponse
// @Failure 400 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/drawer/open [post]
func (h *DrawerHandler) Open(c *gin.Context) {
	var req dto.OpenDrawerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	operatorID, _ := uuid.Parse(claims.UserID)

	resp, err := h.sessions.Open(c.Request.Context(), operatorID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Close godoc
// @Summary Reconciles and closes a cash drawer session
// @Tags drawer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CloseDrawerRequest true "Physical count and notes"
// @Success 200 {object} dto.CloseResponse
// @Failure 400 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/drawer/close [post]
func (h *DrawerHandler) Close(c *gin.Context) {
	var req dto.CloseDrawerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	operatorID, _ := uuid.Parse(claims.UserID)

	resp, err := h.sessions.Close(c.Request.Context(), operatorID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetActive godoc
// @Summary Returns the open session for a store, 404 when none
// @Tags drawer
// @Produce json
// @Security BearerAuth
// @Param store_id query string true "Store ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/drawer/active [get]
func (h *DrawerHandler) GetActive(c *gin.Context) {
	storeID, ok := h.storeIDParam(c)
	if !ok {
		return
	}
	resp, err := h.sessions.Active(c.Request.Context(), storeID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if resp == nil {
		// The checkout surface treats this as "block sales, prompt to open".
		c.JSON(http.StatusNotFound, apierror.New("No active session"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Report godoc
// @Summary Reconciliation report for a session (live preview while open)
// @Tags drawer
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} dto.ReportResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/drawer/{id}/report [get]
func (h *DrawerHandler) Report(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	resp, err := h.sessions.Report(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// History godoc
// @Summary Paginated list of closed sessions for a store, newest first
// @Tags drawer
// @Produce json
// @Security BearerAuth
// @Param store_id query string true "Store ID"
// @Success 200 {array} dto.HistoryRow
// @Router /v1/drawer/history [get]
func (h *DrawerHandler) History(c *gin.Context) {
	storeID, ok := h.storeIDParam(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	resp, err := h.sessions.History(c.Request.Context(), storeID, page, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp, "page": page, "limit": limit})
}

// RecordMovement godoc
// @Summary Records a manual cash deposit or withdrawal
// @Tags drawer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.MovementRequest true "Movement"
// @Success 201 {object} dto.MovementResponse
// @Failure 400 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/drawer/movement [post]
func (h *DrawerHandler) RecordMovement(c *gin.Context) {
	var req dto.MovementRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	operatorID, _ := uuid.Parse(claims.UserID)

	resp, err := h.movements.Record(c.Request.Context(), operatorID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListMovements godoc
// @Summary Lists movements for a store in [since, until)
// @Tags drawer
// @Produce json
// @Security BearerAuth
// @Param store_id query string true "Store ID"
// @Param since query string true "RFC3339 window start"
// @Param until query string false "RFC3339 window end (exclusive); defaults to now"
// @Success 200 {array} dto.MovementResponse
// @Router /v1/drawer/movements [get]
func (h *DrawerHandler) ListMovements(c *gin.Context) {
	storeID, ok := h.storeIDParam(c)
	if !ok {
		return
	}
	since, err := time.Parse(time.RFC3339, c.Query("since"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("since must be RFC3339"))
		return
	}
	var until time.Time
	if raw := c.Query("until"); raw != "" {
		until, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("until must be RFC3339"))
			return
		}
	}

	resp, err := h.movements.ListForWindow(c.Request.Context(), storeID, since, until)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// storeIDParam resolves the store scope: explicit query param first, then the
// operator's home store from the JWT.
func (h *DrawerHandler) storeIDParam(c *gin.Context) (uuid.UUID, bool) {
	raw := c.Query("store_id")
	if raw == "" {
		claims := middleware.GetClaims(c)
		if claims != nil && claims.StoreID != nil {
			raw = *claims.StoreID
		}
	}
	storeID, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid store_id"))
		return uuid.Nil, false
	}
	return storeID, true
}
