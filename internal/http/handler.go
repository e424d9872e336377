package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/minsu-dev/eduops/internal/http/middleware"
	"github.com/minsu-dev/eduops/internal/model"
	"github.com/minsu-dev/eduops/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	travel  *service.TravelService
	reports *service.ReportService
	catalog *service.CatalogService
	log     zerolog.Logger
}

func NewHandler(travel *service.TravelService, reports *service.ReportService, catalog *service.CatalogService, log zerolog.Logger) *Handler {
	return &Handler{travel: travel, reports: reports, catalog: catalog, log: log}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	protected := router.Group("/")
	protected.Use(authMiddleware)

	protected.POST("/travel/recalculate", h.recalculateTravel)
	protected.GET("/travel/daily", h.getDailyRecords)
	protected.GET("/travel/monthly", h.getMonthlySummary)
	protected.GET("/travel/monthly/export", h.exportMonthlyReport)
	protected.GET("/travel/monthly/export/pdf", h.exportMonthlyStatement)

	protected.POST("/instructors", h.createInstructor)
	protected.GET("/instructors", h.listInstructors)
	protected.GET("/instructors/:id", h.getInstructor)
	protected.DELETE("/instructors/:id", h.deactivateInstructor)
	protected.GET("/instructors/:id/periods", h.listInstructorPeriods)

	protected.POST("/institutions", h.createInstitution)
	protected.GET("/institutions", h.listInstitutions)
	protected.GET("/institutions/:id", h.getInstitution)

	protected.POST("/zones", h.createZone)
	protected.GET("/zones", h.listZones)

	protected.POST("/master-codes", h.createMasterCode)
	protected.GET("/master-codes", h.listMasterCodes)
	protected.DELETE("/master-codes/:id", h.deactivateMasterCode)

	protected.POST("/trainings", h.createTraining)
	protected.POST("/trainings/periods", h.createTrainingPeriod)

	protected.POST("/policies", h.createPolicy)
	protected.GET("/policies", h.listPolicies)
	protected.DELETE("/policies/:id", h.deactivatePolicy)
}

type recalculateRequest struct {
	InstructorID string `json:"instructor_id" binding:"required"`
	Date         string `json:"date" binding:"required"`
}

func (h *Handler) recalculateTravel(c *gin.Context) {
	if _, ok := requireManage(c); !ok {
		return
	}

	var req recalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	instructorID, err := uuid.Parse(strings.TrimSpace(req.InstructorID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid instructor_id"})
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}

	record, err := h.travel.Recalculate(c.Request.Context(), instructorID, date)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *Handler) getDailyRecords(c *gin.Context) {
	_, instructorID, ok := h.instructorScope(c)
	if !ok {
		return
	}

	from, err := parseDate(c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from"})
		return
	}
	to, err := parseDate(c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to"})
		return
	}

	records, err := h.travel.GetDailyRecords(c.Request.Context(), instructorID, from, to)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}

func (h *Handler) getMonthlySummary(c *gin.Context) {
	_, instructorID, ok := h.instructorScope(c)
	if !ok {
		return
	}

	summary, err := h.travel.GetMonthlySummary(c.Request.Context(), instructorID, c.Query("month"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) exportMonthlyReport(c *gin.Context) {
	_, instructorID, ok := h.instructorScope(c)
	if !ok {
		return
	}

	result, err := h.reports.ExportMonthlyReport(c.Request.Context(), instructorID, c.Query("month"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, xlsxContentType, result.Content)
}

func (h *Handler) exportMonthlyStatement(c *gin.Context) {
	_, instructorID, ok := h.instructorScope(c)
	if !ok {
		return
	}

	result, err := h.reports.ExportMonthlyStatement(c.Request.Context(), instructorID, c.Query("month"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, "application/pdf", result.Content)
}

type createInstructorRequest struct {
	Name          string   `json:"name" binding:"required"`
	Phone         string   `json:"phone"`
	Email         string   `json:"email"`
	HomeAddress   *string  `json:"home_address"`
	HomeLatitude  *float64 `json:"home_latitude"`
	HomeLongitude *float64 `json:"home_longitude"`
}

func (h *Handler) createInstructor(c *gin.Context) {
	if _, ok := requireManage(c); !ok {
		return
	}

	var req createInstructorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	instructor, err := h.catalog.CreateInstructor(c.Request.Context(), service.CreateInstructorInput{
		Name:          req.Name,
		Phone:         req.Phone,
		Email:         req.Email,
		HomeAddress:   req.HomeAddress,
		HomeLatitude:  req.HomeLatitude,
		HomeLongitude: req.HomeLongitude,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, instructor)
}

func (h *Handler) listInstructors(c *gin.Context) {
	if _, ok := requireManage(c); !ok {
		return
	}

	includeInactive := c.Query("include_inactive") == "true"
	instructors, err := h.catalog.ListInstructors(c.Request.Context(), includeInactive)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"instructors": instructors})
}

func (h *Handler) getInstructor(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if !principal.CanViewInstructor(id) {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}

	instructor, err := h.catalog.GetInstructor(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, instructor)
}

func (h *Handler) deactivateInstructor(c *gin.Context) {
	if _, ok := requireManage(c); !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.catalog.DeactivateInstructor(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listInstructorPeriods(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if !principal.CanViewInstructor(id) {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}

	from, err := parseDate(c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from"})
		return
	}
	to, err := parseDate(c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to"})
		return
	}

	periods, err := h.catalog.ListPeriodsForInstructor(c.Request.Context(), id, from, to)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"periods": periods})
}

type createInstitutionRequest struct {
	Name      string   `json:"name" binding:"required"`
	Address   *string  `json:"address"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Phone     string   `json:"phone"`
	ZoneID    *string  `json:"zone_id"`
}

func (h *Handler) createInstitution(c *gin.Context) {
	if _, ok := requireManage(c); !ok {
		return
	}

	var req createInstitutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var zoneID *uuid.UUID
	if req.ZoneID != nil {
		parsed, err := uuid.Parse(*req.ZoneID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid zone_id"})
			return
		}
		zoneID = &parsed
	}

	institution, err := h.catalog.CreateInstitution(c.Request.Context(), service.CreateInstitutionInput{
		Name:      req.Name,
		Address:   req.Address,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Phone:     req.Phone,
		ZoneID:    zoneID,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, institution)
}

func (h *Handler) listInstitutions(c *gin.Context) {
	var zoneID *uuid.UUID
	if raw := c.Query("zone_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid zone_id"})
			return
		}
		zoneID = &parsed
	}

	institutions, err := h.catalog.ListInstitutions(c.Request.Context(), zoneID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"institutions": institutions})
}

func (h *Handler) getInstitution(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	institution, err := h.catalog.GetInstitution(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, institution)
}

type createZoneRequest struct {
	Code string `json:"code" binding:"required"`
	Name string `json:"name" binding:"required"`
}

func (h *Handler) createZone(c *gin.Context) {
	if _, ok := requireManage(c); !ok {
		return
	}

	var req createZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	zone, err := h.catalog.CreateZone(c.Request.Context(), req.Code, req.Name)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, zone)
}

func (h *Handler) listZones(c *gin.Context) {
	zones, err := h.catalog.ListZones(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"zones": zones})
}

type createMasterCodeRequest struct {
	Code      string  `json:"code" binding:"required"`
	Name      string  `json:"name" binding:"required"`
	ParentID  *string `json:"parent_id"`
	SortOrder int     `json:"sort_order"`
}

func (h *Handler) createMasterCode(c *gin.Context) {
	if _, ok := requireManage(c); !ok {
		return
	}

	var req createMasterCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var parentID *uuid.UUID
	if req.ParentID != nil {
		parsed, err := uuid.Parse(*req.ParentID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid parent_id"})
			return
		}
		parentID = &parsed
	}

	code, err := h.catalog.CreateMasterCode(c.Request.Context(), service.CreateMasterCodeInput{
		Code:      req.Code,
		Name:      req.Name,
		ParentID:  parentID,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, code)
}

func (h *Handler) listMasterCodes(c *gin.Context) {
	var parentID *uuid.UUID
	if raw := c.Query("parent_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid parent_id"})
			return
		}
		parentID = &parsed
	}

	codes, err := h.catalog.ListMasterCodes(c.Request.Context(), parentID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"codes": codes})
}

func (h *Handler) deactivateMasterCode(c *gin.Context) {
	if _, ok := requireManage(c); !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.catalog.DeactivateMasterCode(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type createTrainingRequest struct {
	Name         string `json:"name" binding:"required"`
	CategoryCode string `json:"category_code"`
	StartDate    string `json:"start_date" binding:"required"`
	EndDate      string `json:"end_date" binding:"required"`
}

func (h *Handler) createTraining(c *gin.Context) {
	if _, ok := requireManage(c); !ok {
		return
	}

	var req createTrainingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date"})
		return
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date"})
		return
	}

	training, err := h.catalog.CreateTraining(c.Request.Context(), service.CreateTrainingInput{
		Name:         req.Name,
		CategoryCode: req.CategoryCode,
		StartDate:    startDate,
		EndDate:      endDate,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, training)
}

type createPeriodRequest struct {
	TrainingID    string `json:"training_id" binding:"required"`
	InstructorID  string `json:"instructor_id" binding:"required"`
	InstitutionID string `json:"institution_id" binding:"required"`
	StartAt       string `json:"start_at" binding:"required"`
	EndAt         string `json:"end_at" binding:"required"`
}

func (h *Handler) createTrainingPeriod(c *gin.Context) {
	if _, ok := requireManage(c); !ok {
		return
	}

	var req createPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trainingID, err := uuid.Parse(req.TrainingID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid training_id"})
		return
	}
	instructorID, err := uuid.Parse(req.InstructorID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid instructor_id"})
		return
	}
	institutionID, err := uuid.Parse(req.InstitutionID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid institution_id"})
		return
	}
	startAt, err := parseDateTime(req.StartAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_at"})
		return
	}
	endAt, err := parseDateTime(req.EndAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_at"})
		return
	}

	period, err := h.catalog.CreateTrainingPeriod(c.Request.Context(), service.CreatePeriodInput{
		TrainingID:    trainingID,
		InstructorID:  instructorID,
		InstitutionID: institutionID,
		StartAt:       startAt,
		EndAt:         endAt,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, period)
}

type createPolicyRequest struct {
	MinKm     float64  `json:"min_km"`
	MaxKm     *float64 `json:"max_km"`
	AmountKrw int64    `json:"amount_krw" binding:"required"`
	ValidFrom *string  `json:"valid_from"`
	ValidTo   *string  `json:"valid_to"`
}

func (h *Handler) createPolicy(c *gin.Context) {
	if _, ok := requireManage(c); !ok {
		return
	}

	var req createPolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	validFrom, err := parseOptionalDate(req.ValidFrom)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid valid_from"})
		return
	}
	validTo, err := parseOptionalDate(req.ValidTo)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid valid_to"})
		return
	}

	policy, err := h.catalog.CreatePolicy(c.Request.Context(), service.CreatePolicyInput{
		MinKm:     req.MinKm,
		MaxKm:     req.MaxKm,
		AmountKrw: req.AmountKrw,
		ValidFrom: validFrom,
		ValidTo:   validTo,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, policy)
}

func (h *Handler) listPolicies(c *gin.Context) {
	if _, ok := requireManage(c); !ok {
		return
	}

	includeInactive := c.Query("include_inactive") == "true"
	policies, err := h.catalog.ListPolicies(c.Request.Context(), includeInactive)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"policies": policies})
}

func (h *Handler) deactivatePolicy(c *gin.Context) {
	if _, ok := requireManage(c); !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.catalog.DeactivatePolicy(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// instructorScope resolves the instructor_id query parameter and
// enforces that instructors only read their own data.
func (h *Handler) instructorScope(c *gin.Context) (model.Principal, uuid.UUID, bool) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return model.Principal{}, uuid.Nil, false
	}

	instructorID, err := uuid.Parse(strings.TrimSpace(c.Query("instructor_id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid instructor_id"})
		return model.Principal{}, uuid.Nil, false
	}
	if !principal.CanViewInstructor(instructorID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return model.Principal{}, uuid.Nil, false
	}
	return principal, instructorID, true
}

func requireManage(c *gin.Context) (model.Principal, bool) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return model.Principal{}, false
	}
	if !principal.CanManage() {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return model.Principal{}, false
	}
	return principal, true
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrPreconditionFailed):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrPolicyNotFound):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, service.ErrInvalidInput
	}
	layouts := []string{
		"2006-01-02",
		time.RFC3339,
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, service.ErrInvalidInput
}

func parseDateTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, service.ErrInvalidInput
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, service.ErrInvalidInput
}

func parseOptionalDate(raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	parsed, err := parseDate(*raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
