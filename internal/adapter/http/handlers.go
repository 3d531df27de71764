package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type Handler struct{}

func NewHandler() *Handler { return &Handler{} }

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// Handlers bundles everything Register needs to wire the API.
type Handlers struct {
	Health        *Handler
	Loans         *LoanHandler
	Approvals     *ApprovalHandler
	Disbursements *DisbursementHandler
	Repayments    *RepaymentHandler
	LoanTypes     *LoanTypeHandler
}

// Register mounts all routes. Mutating routes sit behind idem when it is
// non-nil; reads and the health probe stay outside it.
func Register(e *echo.Echo, h Handlers, idem echo.MiddlewareFunc) {
	e.GET("/health", h.Health.Health)
	e.GET("/loans/:loan_id", h.Loans.Get)
	e.GET("/members/:member_id/loans", h.Loans.ListByMember)
	e.GET("/loan-types", h.LoanTypes.List)

	g := e.Group("")
	if idem != nil {
		g.Use(idem)
	}
	g.POST("/loan-types", h.LoanTypes.Create)
	g.PUT("/loan-types/:loan_type_id", h.LoanTypes.Update)
	g.POST("/loan-types/:loan_type_id/deactivate", h.LoanTypes.Deactivate)
	g.DELETE("/loan-types/:loan_type_id", h.LoanTypes.Delete)

	g.POST("/loans", h.Loans.Request)
	g.POST("/loans/override", h.Loans.Override)
	g.POST("/loans/:loan_id/guarantor-response", h.Loans.GuarantorResponse)
	g.POST("/loans/:loan_id/approve", h.Approvals.Approve)
	g.POST("/loans/:loan_id/reject", h.Approvals.Reject)
	g.POST("/loans/:loan_id/disburse", h.Disbursements.Disburse)
	g.POST("/loans/:loan_id/repayments", h.Repayments.Record)
	g.POST("/repayments/:repayment_id/review", h.Repayments.Review)
}
