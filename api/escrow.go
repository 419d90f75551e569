package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/api/apistrings"
	models "github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/api/models"
	db "github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/db/sqlc"
	basemodels "github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/models"
	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/services/escrow"
	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/services/notification"
	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/services/notification/notification_channel"
	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Escrow exposes the order lifecycle around the escrow engine. Order
// creation and the paid hook are operator endpoints; the marketplace
// front-end calls them when a buyer checks out and when their payment
// settles.
type Escrow struct {
	server *Server
}

func (e Escrow) router(server *Server) {
	e.server = server

	ordersV1 := server.router.Group("/api/v1/orders")
	ordersV1.POST("", AuthenticatedMiddleware(), AdminMiddleware(), e.createOrder)
	ordersV1.POST(":id/paid", AuthenticatedMiddleware(), AdminMiddleware(), e.orderPaid)
	ordersV1.POST(":id/confirm", e.confirmDelivery)
	ordersV1.POST(":id/dispute", AuthenticatedMiddleware(), e.openDispute)

	escrowV1 := server.router.Group("/api/v1/escrow")
	escrowV1.GET("holds/:order_id", AuthenticatedMiddleware(), e.getHold)
}

func (e *Escrow) createOrder(ctx *gin.Context) {
	request := new(models.CreateOrderParams)
	if err := ctx.ShouldBindJSON(request); err != nil {
		e.server.logger.Log(logrus.ErrorLevel, err.Error())
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidOrderInput))
		return
	}

	total, err := decimal.NewFromString(request.Total)
	if err != nil || !total.IsPositive() {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidOrderInput))
		return
	}

	order, err := e.server.store.CreateOrder(ctx, db.CreateOrderParams{
		ID:           uuid.New(),
		SellerID:     request.SellerID,
		BuyerID:      request.BuyerID,
		Total:        total.StringFixed(2),
		DeliveryCode: utils.GenerateRandomString(8),
		Status:       "pending",
	})
	if err != nil {
		e.server.logger.Error(err.Error())
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusCreated, basemodels.NewSuccess("Order Created Successfully", models.ToCreatedOrderResponse(&order)))
}

// orderPaid is the payment-settled hook: it moves the order to paid and
// opens the escrow hold for the seller.
func (e *Escrow) orderPaid(ctx *gin.Context) {
	orderID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.OrderNotFound))
		return
	}

	request := struct {
		FastPayout bool `json:"fast_payout"`
	}{}
	// Body is optional; absence means the standard hold window
	_ = ctx.ShouldBindJSON(&request)

	order, err := e.server.store.GetOrder(ctx, orderID)
	if err == sql.ErrNoRows {
		ctx.JSON(http.StatusNotFound, basemodels.NewError(apistrings.OrderNotFound))
		return
	} else if err != nil {
		e.server.logger.Error(err.Error())
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	total, err := decimal.NewFromString(order.Total)
	if err != nil {
		e.server.logger.Error(err.Error())
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	holdFor := e.server.escrowService.StandardHold()
	if request.FastPayout {
		holdFor = e.server.escrowService.FastHold()
	}

	hold, err := e.server.escrowService.OpenHold(ctx, orderID, order.SellerID, total, holdFor)
	if err == escrow.ErrDuplicateHold {
		ctx.JSON(http.StatusConflict, basemodels.NewError(apistrings.DuplicateEscrowHold))
		return
	} else if err != nil {
		e.server.logger.Error(err.Error())
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	if _, err := e.server.store.UpdateOrderStatus(ctx, db.UpdateOrderStatusParams{
		ID:     orderID,
		Status: "paid",
	}); err != nil {
		e.server.logger.Error(err.Error())
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Escrow Hold Opened Successfully", hold))
}

// confirmDelivery is called by the buyer with the delivery code from their
// receipt. No session is required; the code is the proof.
func (e *Escrow) confirmDelivery(ctx *gin.Context) {
	orderID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.OrderNotFound))
		return
	}

	request := struct {
		DeliveryCode string `json:"delivery_code" binding:"required"`
	}{}
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidDeliveryCode))
		return
	}

	order, err := e.server.store.GetOrder(ctx, orderID)
	if err == sql.ErrNoRows {
		ctx.JSON(http.StatusNotFound, basemodels.NewError(apistrings.OrderNotFound))
		return
	} else if err != nil {
		e.server.logger.Error(err.Error())
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	result, err := e.server.escrowService.ConfirmDelivery(ctx, orderID, request.DeliveryCode, order.DeliveryCode)
	switch err {
	case nil:
	case escrow.ErrInvalidCode:
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidDeliveryCode))
		return
	case escrow.ErrHoldNotFound:
		ctx.JSON(http.StatusNotFound, basemodels.NewError(apistrings.EscrowHoldNotFound))
		return
	case escrow.ErrAlreadyReleased:
		ctx.JSON(http.StatusConflict, basemodels.NewError(apistrings.EscrowAlreadySettled))
		return
	default:
		e.server.logger.Error(err.Error())
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Delivery Confirmed Successfully", result))
}

// openDispute freezes the hold by pushing its release date out and flags
// the order, so the sweep cannot pay the seller while the disagreement is
// live.
func (e *Escrow) openDispute(ctx *gin.Context) {
	orderID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.OrderNotFound))
		return
	}

	request := struct {
		Reason string `json:"reason" binding:"required"`
	}{}
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidEscrowInput))
		return
	}

	order, err := e.server.store.GetOrder(ctx, orderID)
	if err == sql.ErrNoRows {
		ctx.JSON(http.StatusNotFound, basemodels.NewError(apistrings.OrderNotFound))
		return
	} else if err != nil {
		e.server.logger.Error(err.Error())
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	if order.Status == "disputed" {
		ctx.JSON(http.StatusConflict, basemodels.NewError(apistrings.DisputeAlreadyOpen))
		return
	}

	newHoldUntil := time.Now().Add(e.server.escrowService.StandardHold())
	err = e.server.escrowService.ExtendHold(ctx, orderID, newHoldUntil)
	if err == escrow.ErrHoldNotFound {
		ctx.JSON(http.StatusNotFound, basemodels.NewError(apistrings.EscrowHoldNotFound))
		return
	} else if err != nil {
		e.server.logger.Error(err.Error())
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	if _, err := e.server.store.UpdateOrderStatus(ctx, db.UpdateOrderStatusParams{
		ID:     orderID,
		Status: "disputed",
	}); err != nil {
		e.server.logger.Error(err.Error())
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	e.notifyDispute(ctx, &order, request.Reason)

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Dispute Opened Successfully", models.ToOrderResponse(&order)))
}

func (e *Escrow) notifyDispute(ctx *gin.Context, order *db.Order, reason string) {
	seller, err := e.server.store.GetSellerByID(ctx, order.SellerID)
	if err != nil {
		e.server.logger.Error(err.Error())
		return
	}

	e.server.notificationService.Emit(ctx, order.SellerID, notification.Event{
		Type:    notification.TypeDisputeOpened,
		Title:   "Dispute opened",
		Message: "A dispute was opened on one of your orders. The payout is on hold until it is resolved.",
		Metadata: map[string]interface{}{
			"order_id": order.ID.String(),
			"reason":   reason,
		},
		Recipient: notification_channel.Recipient{
			Email:         seller.Email,
			Phone:         seller.Phone.String,
			ExpoPushToken: seller.ExpoPushToken.String,
			FCMToken:      seller.FcmToken.String,
		},
	})
}

func (e *Escrow) getHold(ctx *gin.Context) {
	orderID, err := uuid.Parse(ctx.Param("order_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.OrderNotFound))
		return
	}

	activeSeller, err := utils.GetActiveSeller(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.SellerNotFound))
		return
	}

	hold, err := e.server.escrowService.GetHold(ctx, orderID)
	if err == escrow.ErrHoldNotFound {
		ctx.JSON(http.StatusNotFound, basemodels.NewError(apistrings.EscrowHoldNotFound))
		return
	} else if err != nil {
		e.server.logger.Error(err.Error())
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	if hold.SellerID != activeSeller.SellerID && activeSeller.Role != "admin" {
		ctx.JSON(http.StatusNotFound, basemodels.NewError(apistrings.EscrowHoldNotFound))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Escrow Hold Fetched Successfully", hold))
}
