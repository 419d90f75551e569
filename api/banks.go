package api

import (
	"errors"
	"net/http"

	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/api/apistrings"
	models "github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/api/models"
	basemodels "github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/models"
	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/services/bank"
	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Bank struct {
	server *Server
}

func (b Bank) router(server *Server) {
	b.server = server

	serverGroupV1 := server.router.Group("/api/v1/banks")
	serverGroupV1.GET("", AuthenticatedMiddleware(), b.getBanks)
	serverGroupV1.POST("resolve", AuthenticatedMiddleware(), b.resolveAccount)
	serverGroupV1.POST("verify", AuthenticatedMiddleware(), b.verifyAccount)
}

func (b *Bank) getBanks(ctx *gin.Context) {
	var query *string
	if q := ctx.Query("query"); q != "" {
		query = &q
	}

	banks, err := b.server.bankService.ListBanks(ctx, query)
	if err != nil {
		b.server.logger.Error(err.Error())
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Banks Fetched Successfully", banks))
}

func (b *Bank) resolveAccount(ctx *gin.Context) {
	request := struct {
		AccountNumber string `json:"account_number" binding:"required,numeric,len=10"`
		BankCode      string `json:"bank_code" binding:"required"`
	}{}
	if err := ctx.ShouldBindJSON(&request); err != nil {
		b.server.logger.Log(logrus.ErrorLevel, err.Error())
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidBankInput))
		return
	}

	info, err := b.server.bankService.ResolveAccount(ctx, request.AccountNumber, request.BankCode)
	if errors.Is(err, bank.ErrAccountResolution) {
		ctx.JSON(http.StatusBadGateway, basemodels.NewError(apistrings.BankResolutionError))
		return
	} else if err != nil {
		b.server.logger.Error(err.Error())
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Account Resolved Successfully", info))
}

func (b *Bank) verifyAccount(ctx *gin.Context) {
	activeSeller, err := utils.GetActiveSeller(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.SellerNotFound))
		return
	}

	request := struct {
		AccountNumber string `json:"account_number" binding:"required,numeric,len=10"`
		BankCode      string `json:"bank_code" binding:"required"`
		BankName      string `json:"bank_name" binding:"required"`
	}{}
	if err := ctx.ShouldBindJSON(&request); err != nil {
		b.server.logger.Log(logrus.ErrorLevel, err.Error())
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidBankInput))
		return
	}

	seller, err := b.server.bankService.Verify(ctx, activeSeller.SellerID, request.AccountNumber, request.BankCode, request.BankName)
	switch {
	case err == nil:
	case errors.Is(err, bank.ErrNameMismatch):
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.BankNameMismatch))
		return
	case errors.Is(err, bank.ErrNameMatchWeak):
		ctx.JSON(http.StatusUnprocessableEntity, basemodels.NewError(apistrings.BankNameWeakMatch))
		return
	case errors.Is(err, bank.ErrAccountResolution):
		ctx.JSON(http.StatusBadGateway, basemodels.NewError(apistrings.BankResolutionError))
		return
	default:
		b.server.logger.Error(err.Error())
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Bank Account Verified Successfully", models.ToSellerResponse(seller)))
}
