package api

import (
	"net/http"
	"strconv"

	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/api/apistrings"
	basemodels "github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/models"
	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/services/ledger"
	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/utils"
	"github.com/gin-gonic/gin"
)

type Wallet struct {
	server *Server
}

func (w Wallet) router(server *Server) {
	w.server = server

	serverGroupV1 := server.router.Group("/api/v1/wallet")
	serverGroupV1.GET("balance", AuthenticatedMiddleware(), w.getBalance)
	serverGroupV1.GET("transactions", AuthenticatedMiddleware(), w.getTransactions)
}

func (w *Wallet) getBalance(ctx *gin.Context) {
	activeSeller, err := utils.GetActiveSeller(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.SellerNotFound))
		return
	}

	balance, err := w.server.ledgerService.Balance(ctx, activeSeller.SellerID)
	if err == ledger.ErrWalletNotFound {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.SellerNoWallet))
		return
	} else if err != nil {
		w.server.logger.Error(err.Error())
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Wallet Balance Fetched Successfully", balance))
}

func (w *Wallet) getTransactions(ctx *gin.Context) {
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

	entries, err := w.server.ledgerService.History(ctx, activeSeller.SellerID, limit, offset)
	if err != nil {
		w.server.logger.Error(err.Error())
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Wallet Transactions Fetched Successfully", entries))
}

func pageParams(ctx *gin.Context) (int32, int32, error) {
	limit, err := strconv.ParseInt(ctx.DefaultQuery("limit", "20"), 10, 32)
	if err != nil {
		return 0, 0, err
	}
	offset, err := strconv.ParseInt(ctx.DefaultQuery("offset", "0"), 10, 32)
	if err != nil {
		return 0, 0, err
	}
	return int32(limit), int32(offset), nil
}
