package http

import (
	"net/http"

	"coopfin-backend/internal/domain/finance"
	"coopfin-backend/internal/usecase/loantype"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type LoanTypeHandler struct{ uc *loantype.Usecase }

func NewLoanTypeHandler(uc *loantype.Usecase) *LoanTypeHandler { return &LoanTypeHandler{uc: uc} }

type createLoanTypeReq struct {
	Name        string `json:"name"        validate:"required"`
	Description string `json:"description"`

	MinAmount   float64 `json:"min_amount"      validate:"required,gt=0,dec2"`
	MaxAmount   float64 `json:"max_amount"      validate:"required,gt=0,dec2"`
	MinDuration int     `json:"min_duration"    validate:"required,gte=1"`
	MaxDuration int     `json:"max_duration"    validate:"required,gte=1"`

	RatePercent float64 `json:"rate_percent"  validate:"gte=0,dec2"`
	Mode        string  `json:"interest_mode" validate:"required,oneof=flat reducing_balance"`

	MaxActiveLoans            int  `json:"max_active_loans" validate:"gte=0"`
	RequiresGuarantors        bool `json:"requires_guarantors"`
	MinGuarantors             int  `json:"min_guarantors"   validate:"gte=0"`
	RequiresMultipleApprovals bool `json:"requires_multiple_approvals"`
	MinApprovers              int  `json:"min_approvers"    validate:"gte=0"`

	ApplicationFee        float64 `json:"application_fee" validate:"gte=0,dec2"`
	DeductInterestUpfront bool    `json:"deduct_interest_upfront"`
}

func (h *LoanTypeHandler) Create(c echo.Context) error {
	a, ok := actorFrom(c)
	if !ok {
		return badActor(c)
	}
	var req createLoanTypeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	lt, err := h.uc.Create(c.Request().Context(), loantype.CreateInput{
		CooperativeID:             a.CooperativeID,
		ActorUserID:               a.UserID,
		Name:                      req.Name,
		Description:               req.Description,
		MinAmount:                 decimal.NewFromFloat(req.MinAmount),
		MaxAmount:                 decimal.NewFromFloat(req.MaxAmount),
		MinDuration:               req.MinDuration,
		MaxDuration:               req.MaxDuration,
		RatePercent:               decimal.NewFromFloat(req.RatePercent),
		Mode:                      finance.Mode(req.Mode),
		MaxActiveLoans:            req.MaxActiveLoans,
		RequiresGuarantors:        req.RequiresGuarantors,
		MinGuarantors:             req.MinGuarantors,
		RequiresMultipleApprovals: req.RequiresMultipleApprovals,
		MinApprovers:              req.MinApprovers,
		ApplicationFee:            decimal.NewFromFloat(req.ApplicationFee),
		DeductInterestUpfront:     req.DeductInterestUpfront,
	})
	if err != nil {
		return faultJSON(c, err)
	}
	return c.JSON(http.StatusCreated, lt)
}

func (h *LoanTypeHandler) Update(c echo.Context) error {
	a, ok := actorFrom(c)
	if !ok {
		return badActor(c)
	}
	var req createLoanTypeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	lt, err := h.uc.Update(c.Request().Context(), c.Param("loan_type_id"), loantype.CreateInput{
		CooperativeID:             a.CooperativeID,
		ActorUserID:               a.UserID,
		Name:                      req.Name,
		Description:               req.Description,
		MinAmount:                 decimal.NewFromFloat(req.MinAmount),
		MaxAmount:                 decimal.NewFromFloat(req.MaxAmount),
		MinDuration:               req.MinDuration,
		MaxDuration:               req.MaxDuration,
		RatePercent:               decimal.NewFromFloat(req.RatePercent),
		Mode:                      finance.Mode(req.Mode),
		MaxActiveLoans:            req.MaxActiveLoans,
		RequiresGuarantors:        req.RequiresGuarantors,
		MinGuarantors:             req.MinGuarantors,
		RequiresMultipleApprovals: req.RequiresMultipleApprovals,
		MinApprovers:              req.MinApprovers,
		ApplicationFee:            decimal.NewFromFloat(req.ApplicationFee),
		DeductInterestUpfront:     req.DeductInterestUpfront,
	})
	if err != nil {
		return faultJSON(c, err)
	}
	return c.JSON(http.StatusOK, lt)
}

func (h *LoanTypeHandler) List(c echo.Context) error {
	a, ok := actorFrom(c)
	if !ok {
		return badActor(c)
	}
	lts, err := h.uc.List(c.Request().Context(), a.CooperativeID)
	if err != nil {
		return faultJSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"loan_types": lts})
}

func (h *LoanTypeHandler) Deactivate(c echo.Context) error {
	a, ok := actorFrom(c)
	if !ok {
		return badActor(c)
	}
	err := h.uc.Deactivate(c.Request().Context(), a.CooperativeID, a.UserID, c.Param("loan_type_id"))
	if err != nil {
		return faultJSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "deactivated"})
}

func (h *LoanTypeHandler) Delete(c echo.Context) error {
	a, ok := actorFrom(c)
	if !ok {
		return badActor(c)
	}
	err := h.uc.Delete(c.Request().Context(), a.CooperativeID, a.UserID, c.Param("loan_type_id"))
	if err != nil {
		return faultJSON(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
