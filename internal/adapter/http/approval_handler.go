package http

import (
	"net/http"

	"coopfin-backend/internal/usecase/approval"

	"github.com/labstack/echo/v4"
)

type ApprovalHandler struct{ uc *approval.Usecase }

func NewApprovalHandler(uc *approval.Usecase) *ApprovalHandler { return &ApprovalHandler{uc: uc} }

type approveLoanReq struct {
	Note string `json:"note"`
}

func (h *ApprovalHandler) Approve(c echo.Context) error {
	a, ok := actorFrom(c)
	if !ok {
		return badActor(c)
	}
	var req approveLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	dto, err := h.uc.Approve(c.Request().Context(), approval.ApproveInput{
		CooperativeID: a.CooperativeID,
		LoanID:        c.Param("loan_id"),
		ActorUserID:   a.UserID,
		Note:          req.Note,
	})
	if err != nil {
		return faultJSON(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type rejectLoanReq struct {
	Reason string `json:"reason" validate:"required"`
}

func (h *ApprovalHandler) Reject(c echo.Context) error {
	a, ok := actorFrom(c)
	if !ok {
		return badActor(c)
	}
	var req rejectLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.Reject(c.Request().Context(), approval.RejectInput{
		CooperativeID: a.CooperativeID,
		LoanID:        c.Param("loan_id"),
		ActorUserID:   a.UserID,
		Reason:        req.Reason,
	})
	if err != nil {
		return faultJSON(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
