package http

import (
	"net/http"
	"time"

	"coopfin-backend/internal/usecase/disbursement"

	"github.com/labstack/echo/v4"
)

type DisbursementHandler struct{ uc *disbursement.Usecase }

func NewDisbursementHandler(uc *disbursement.Usecase) *DisbursementHandler {
	return &DisbursementHandler{uc: uc}
}

type disburseReq struct {
	// Optional deduction start, canonical date; first installment falls one
	// month after it.
	StartDate string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
}

func (h *DisbursementHandler) Disburse(c echo.Context) error {
	a, ok := actorFrom(c)
	if !ok {
		return badActor(c)
	}
	var req disburseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	in := disbursement.Input{
		CooperativeID: a.CooperativeID,
		LoanID:        c.Param("loan_id"),
		ActorUserID:   a.UserID,
	}
	if req.StartDate != "" {
		t, _ := time.Parse("2006-01-02", req.StartDate)
		in.StartDate = &t
	}
	dto, err := h.uc.Disburse(c.Request().Context(), in)
	if err != nil {
		return faultJSON(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
