package http

import (
	"net/http"

	"coopfin-backend/internal/domain/finance"
	"coopfin-backend/internal/usecase/loan"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type LoanHandler struct{ uc *loan.Usecase }

func NewLoanHandler(uc *loan.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

type requestLoanReq struct {
	LoanTypeID   string   `json:"loan_type_id"    validate:"required,hex32"`
	Amount       float64  `json:"amount"          validate:"required,gt=0,dec2"`
	Purpose      string   `json:"purpose"         validate:"required"`
	Duration     int      `json:"duration_months" validate:"required,gte=1"`
	GuarantorIDs []string `json:"guarantor_ids"   validate:"omitempty,dive,hex32"`
}

func (h *LoanHandler) Request(c echo.Context) error {
	a, ok := actorFrom(c)
	if !ok {
		return badActor(c)
	}
	var req requestLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.Request(c.Request().Context(), loan.RequestInput{
		CooperativeID: a.CooperativeID,
		UserID:        a.UserID,
		LoanTypeID:    req.LoanTypeID,
		Amount:        decimal.NewFromFloat(req.Amount),
		Purpose:       req.Purpose,
		Duration:      req.Duration,
		GuarantorIDs:  req.GuarantorIDs,
	})
	if err != nil {
		return faultJSON(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

type overrideLoanReq struct {
	MemberID    string  `json:"member_id"       validate:"required,hex32"`
	LoanTypeID  string  `json:"loan_type_id"    validate:"omitempty,hex32"`
	Amount      float64 `json:"amount"          validate:"required,gt=0,dec2"`
	Purpose     string  `json:"purpose"`
	Duration    int     `json:"duration_months" validate:"required,gte=1"`
	RatePercent float64 `json:"rate_percent"    validate:"omitempty,gte=0,dec2"`
	Mode        string  `json:"interest_mode"   validate:"omitempty,oneof=flat reducing_balance"`
}

// Override records a loan negotiated outside the app. Eligibility caps do
// not apply; the created loan starts out approved.
func (h *LoanHandler) Override(c echo.Context) error {
	a, ok := actorFrom(c)
	if !ok {
		return badActor(c)
	}
	var req overrideLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.Override(c.Request().Context(), loan.OverrideInput{
		CooperativeID: a.CooperativeID,
		ActorUserID:   a.UserID,
		MemberID:      req.MemberID,
		LoanTypeID:    req.LoanTypeID,
		Amount:        decimal.NewFromFloat(req.Amount),
		Purpose:       req.Purpose,
		Duration:      req.Duration,
		RatePercent:   decimal.NewFromFloat(req.RatePercent),
		Mode:          finance.Mode(req.Mode),
	})
	if err != nil {
		return faultJSON(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

type guarantorResponseReq struct {
	Approve *bool  `json:"approve" validate:"required"`
	Reason  string `json:"reason"`
}

func (h *LoanHandler) GuarantorResponse(c echo.Context) error {
	a, ok := actorFrom(c)
	if !ok {
		return badActor(c)
	}
	var req guarantorResponseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.RespondAsGuarantor(c.Request().Context(), loan.GuarantorResponseInput{
		CooperativeID: a.CooperativeID,
		LoanID:        c.Param("loan_id"),
		UserID:        a.UserID,
		Approve:       *req.Approve,
		Reason:        req.Reason,
	})
	if err != nil {
		return faultJSON(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) Get(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return faultJSON(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) ListByMember(c echo.Context) error {
	a, ok := actorFrom(c)
	if !ok {
		return badActor(c)
	}
	dtos, err := h.uc.ListByMember(c.Request().Context(), a.CooperativeID, c.Param("member_id"))
	if err != nil {
		return faultJSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"loans": dtos})
}
