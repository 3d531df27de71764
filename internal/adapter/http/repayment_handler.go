package http

import (
	"net/http"
	"time"

	"coopfin-backend/internal/usecase/repayment"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type RepaymentHandler struct{ uc *repayment.Usecase }

func NewRepaymentHandler(uc *repayment.Usecase) *RepaymentHandler {
	return &RepaymentHandler{uc: uc}
}

type recordRepaymentReq struct {
	Amount  float64 `json:"amount"            validate:"required,gt=0,dec2"`
	Method  string  `json:"payment_method"    validate:"omitempty,oneof=cash bank_transfer payroll_deduction"`
	PaidAt  string  `json:"paid_at"           validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Receipt string  `json:"receipt_reference"`
}

// Record books a repayment against a loan. Borrowers self-report and get a
// pending submission back; actors with confirm authority move money at once.
func (h *RepaymentHandler) Record(c echo.Context) error {
	a, ok := actorFrom(c)
	if !ok {
		return badActor(c)
	}
	var req recordRepaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	in := repayment.RecordInput{
		CooperativeID: a.CooperativeID,
		LoanID:        c.Param("loan_id"),
		ActorUserID:   a.UserID,
		Amount:        decimal.NewFromFloat(req.Amount),
		Method:        req.Method,
		Receipt:       req.Receipt,
	}
	if req.PaidAt != "" {
		t, _ := time.Parse(time.RFC3339, req.PaidAt)
		in.PaidAt = t.UTC()
	}
	dto, err := h.uc.Record(c.Request().Context(), in)
	if err != nil {
		return faultJSON(c, err)
	}
	code := http.StatusOK
	if dto.Outcome == repayment.OutcomePendingConfirmation {
		code = http.StatusAccepted
	}
	return c.JSON(code, dto)
}

type reviewRepaymentReq struct {
	Confirm *bool  `json:"confirm" validate:"required"`
	Reason  string `json:"reason"`
}

func (h *RepaymentHandler) Review(c echo.Context) error {
	a, ok := actorFrom(c)
	if !ok {
		return badActor(c)
	}
	var req reviewRepaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.Review(c.Request().Context(), repayment.ReviewInput{
		CooperativeID: a.CooperativeID,
		RepaymentID:   c.Param("repayment_id"),
		ActorUserID:   a.UserID,
		Confirm:       *req.Confirm,
		Reason:        req.Reason,
	})
	if err != nil {
		return faultJSON(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
