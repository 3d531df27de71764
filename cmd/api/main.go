package main

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	httpadp "coopfin-backend/internal/adapter/http"
	"coopfin-backend/internal/adapter/middleware"
	"coopfin-backend/internal/adapter/notification"
	"coopfin-backend/internal/adapter/repository/mysql"
	"coopfin-backend/internal/config"
	"coopfin-backend/internal/domain/member"
	"coopfin-backend/internal/infrastructure/cache"
	"coopfin-backend/internal/infrastructure/db"
	approvalUC "coopfin-backend/internal/usecase/approval"
	disbursementUC "coopfin-backend/internal/usecase/disbursement"
	loanUC "coopfin-backend/internal/usecase/loan"
	loantypeUC "coopfin-backend/internal/usecase/loantype"
	repaymentUC "coopfin-backend/internal/usecase/repayment"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatal(err)
	}
	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatal(err)
	}

	// storage
	loans := mysql.NewLoanRepository(gdb)
	types := mysql.NewLoanTypeRepository(gdb)
	repayments := mysql.NewRepaymentRepository(gdb)
	entries := mysql.NewLedgerRepository(gdb)
	uow := mysql.NewGormUoW(gdb)
	dir := member.NewDirectory(mysql.NewMemberSource(gdb))

	// delivery
	notifier := notification.NewWebhookNotifier(cfg.NotifyWebhookURL)
	mailer := notification.NewSMTPMailer(cfg.SMTPAddr, cfg.SMTPFrom, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPHost)

	// workflows
	loanSvc := loanUC.NewUsecase(loans, types, uow, dir, notifier, mailer)
	approvalSvc := approvalUC.NewUsecase(uow, dir, notifier)
	disbursementSvc := disbursementUC.NewUsecase(uow, dir, notifier)
	repaymentSvc := repaymentUC.NewUsecase(loans, repayments, entries, uow, dir, notifier, mailer)
	loantypeSvc := loantypeUC.NewUsecase(types, loans, dir)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())

	idem := middleware.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second)
	httpadp.Register(e, httpadp.Handlers{
		Health:        httpadp.NewHandler(),
		Loans:         httpadp.NewLoanHandler(loanSvc),
		Approvals:     httpadp.NewApprovalHandler(approvalSvc),
		Disbursements: httpadp.NewDisbursementHandler(disbursementSvc),
		Repayments:    httpadp.NewRepaymentHandler(repaymentSvc),
		LoanTypes:     httpadp.NewLoanTypeHandler(loantypeSvc),
	}, idem)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
