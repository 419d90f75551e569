package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/api/apistrings"
	basemodels "github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/models"
	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/providers"
	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/providers/fiat"
	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/services/ledger"
	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/services/withdrawal"
	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var koboPerNaira = decimal.NewFromInt(100)

func parseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if !amount.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("amount must be positive")
	}
	return amount, nil
}

type Withdrawal struct {
	server *Server
}

func (w Withdrawal) router(server *Server) {
	w.server = server

	serverGroupV1 := server.router.Group("/api/v1/withdrawals")
	serverGroupV1.POST("", AuthenticatedMiddleware(), w.requestWithdrawal)
	serverGroupV1.GET("", AuthenticatedMiddleware(), w.getWithdrawals)
	serverGroupV1.GET(":id", AuthenticatedMiddleware(), w.getWithdrawal)
	serverGroupV1.POST(":id/cancel", AuthenticatedMiddleware(), w.cancelWithdrawal)

	adminGroupV1 := server.router.Group("/api/v1/admin/withdrawals")
	adminGroupV1.Use(AuthenticatedMiddleware(), AdminMiddleware())
	adminGroupV1.GET("", w.listOpenWithdrawals)
	adminGroupV1.POST(":id/process", w.processWithdrawal)
	adminGroupV1.POST(":id/payout", w.payoutWithdrawal)
}

func (w *Withdrawal) requestWithdrawal(ctx *gin.Context) {
	activeSeller, err := utils.GetActiveSeller(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.SellerNotFound))
		return
	}

	request := struct {
		Amount string `json:"amount" binding:"required"`
	}{}
	if err := ctx.ShouldBindJSON(&request); err != nil {
		w.server.logger.Log(logrus.ErrorLevel, err.Error())
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidWithdrawalInput))
		return
	}

	amount, err := parseAmount(request.Amount)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidWithdrawalInput))
		return
	}

	// Withdrawals always pay to the verified account on file; the request
	// body never carries bank details.
	dbSeller, err := w.server.store.GetSellerByID(ctx, activeSeller.SellerID)
	if err != nil {
		w.server.logger.Error(err.Error())
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	result, err := w.server.withdrawalService.Request(ctx, activeSeller.SellerID, amount, withdrawal.BankDetails{
		BankName:      dbSeller.BankName.String,
		BankCode:      dbSeller.BankCode.String,
		AccountNumber: dbSeller.AccountNumber.String,
		AccountName:   dbSeller.AccountName.String,
	})
	switch {
	case err == nil:
	case errors.Is(err, withdrawal.ErrBelowMinimum):
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.WithdrawalBelowMinimum))
		return
	case errors.Is(err, withdrawal.ErrBankNotVerified), errors.Is(err, withdrawal.ErrInvalidBankDetails):
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.BankNotVerified))
		return
	case errors.Is(err, withdrawal.ErrDailyCapExceeded):
		ctx.JSON(http.StatusTooManyRequests, basemodels.NewError(apistrings.WithdrawalDailyCap))
		return
	case errors.Is(err, ledger.ErrInsufficientBalance):
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.WithdrawalInsufficient))
		return
	default:
		w.server.logger.Error(err.Error())
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusCreated, basemodels.NewSuccess("Withdrawal Requested Successfully", result))
}

func (w *Withdrawal) getWithdrawals(ctx *gin.Context) {
	activeSeller, err := utils.GetActiveSeller(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.SellerNotFound))
		return
	}

	limit, offset, err := pageParams(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidPageInput))
		return
	}

	requests, err := w.server.withdrawalService.History(ctx, activeSeller.SellerID, limit, offset)
	if err != nil {
		w.server.logger.Error(err.Error())
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Withdrawals Fetched Successfully", requests))
}

func (w *Withdrawal) getWithdrawal(ctx *gin.Context) {
	activeSeller, err := utils.GetActiveSeller(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.SellerNotFound))
		return
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.WithdrawalNotFound))
		return
	}

	request, err := w.server.withdrawalService.Get(ctx, activeSeller.SellerID, id)
	if err == withdrawal.ErrNotFound {
		ctx.JSON(http.StatusNotFound, basemodels.NewError(apistrings.WithdrawalNotFound))
		return
	} else if err != nil {
		w.server.logger.Error(err.Error())
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Withdrawal Fetched Successfully", request))
}

func (w *Withdrawal) cancelWithdrawal(ctx *gin.Context) {
	activeSeller, err := utils.GetActiveSeller(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.SellerNotFound))
		return
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.WithdrawalNotFound))
		return
	}

	result, err := w.server.withdrawalService.Cancel(ctx, activeSeller.SellerID, id)
	switch {
	case err == nil:
	case errors.Is(err, withdrawal.ErrNotFound):
		ctx.JSON(http.StatusNotFound, basemodels.NewError(apistrings.WithdrawalNotFound))
		return
	case errors.Is(err, withdrawal.ErrAlreadyProcessed):
		ctx.JSON(http.StatusConflict, basemodels.NewError(apistrings.WithdrawalNotCancellable))
		return
	default:
		w.server.logger.Error(err.Error())
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Withdrawal Cancelled Successfully", result))
}

func (w *Withdrawal) listOpenWithdrawals(ctx *gin.Context) {
	requests, err := w.server.withdrawalService.ListOpen(ctx)
	if err != nil {
		w.server.logger.Error(err.Error())
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Open Withdrawals Fetched Successfully", requests))
}

// processWithdrawal moves a request through its lifecycle by hand. The
// payout endpoint below is the usual path; this one exists for manual
// settlement when the gateway is down.
func (w *Withdrawal) processWithdrawal(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.WithdrawalNotFound))
		return
	}

	request := struct {
		Status        string `json:"status" binding:"required"`
		FailureReason string `json:"failure_reason"`
	}{}
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidWithdrawalInput))
		return
	}

	result, err := w.server.withdrawalService.Process(ctx, id, request.Status, request.FailureReason)
	switch {
	case err == nil:
	case errors.Is(err, withdrawal.ErrNotFound):
		ctx.JSON(http.StatusNotFound, basemodels.NewError(apistrings.WithdrawalNotFound))
		return
	case errors.Is(err, withdrawal.ErrInvalidTransition):
		ctx.JSON(http.StatusConflict, basemodels.NewError(apistrings.WithdrawalBadTransition))
		return
	default:
		w.server.logger.Error(err.Error())
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Withdrawal Processed Successfully", result))
}

// payoutWithdrawal pushes a pending request through the payout gateway:
// pick it up, create the transfer recipient, fire the transfer, and settle
// the request according to the gateway's answer.
func (w *Withdrawal) payoutWithdrawal(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.WithdrawalNotFound))
		return
	}

	picked, err := w.server.withdrawalService.Process(ctx, id, withdrawal.StatusProcessing, "")
	switch {
	case err == nil:
	case errors.Is(err, withdrawal.ErrNotFound):
		ctx.JSON(http.StatusNotFound, basemodels.NewError(apistrings.WithdrawalNotFound))
		return
	case errors.Is(err, withdrawal.ErrInvalidTransition):
		ctx.JSON(http.StatusConflict, basemodels.NewError(apistrings.WithdrawalBadTransition))
		return
	default:
		w.server.logger.Error(err.Error())
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	provider, exists := w.server.providers.GetProvider(providers.Paystack)
	fiatProvider, ok := provider.(*fiat.PaystackProvider)
	if !exists || !ok {
		w.server.logger.Error("FIAT Provider does not exist - Paystack")
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	recipient, err := fiatProvider.CreateTransferRecipient(
		picked.BankDetails.AccountNumber,
		picked.BankDetails.BankCode,
		picked.BankDetails.AccountName,
	)
	if err != nil {
		w.settleFailedPayout(ctx, id, "could not create transfer recipient")
		return
	}

	// Gateway amounts are in kobo
	_, err = fiatProvider.MakeTransfer(
		recipient.RecipientCode,
		picked.Amount.Mul(koboPerNaira).IntPart(),
		picked.Reference,
		picked.BankDetails.AccountName,
	)
	if err != nil {
		w.settleFailedPayout(ctx, id, "gateway transfer failed")
		return
	}

	result, err := w.server.withdrawalService.Process(ctx, id, withdrawal.StatusCompleted, "")
	if err != nil {
		w.server.logger.Error(err.Error())
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Withdrawal Paid Out Successfully", result))
}

func (w *Withdrawal) settleFailedPayout(ctx *gin.Context, id uuid.UUID, reason string) {
	result, err := w.server.withdrawalService.Process(ctx, id, withdrawal.StatusFailed, reason)
	if err != nil {
		w.server.logger.Error(err.Error())
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}
	ctx.JSON(http.StatusBadGateway, basemodels.NewSuccess("Withdrawal Failed, Funds Returned", result))
}
