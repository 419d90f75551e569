package api

import (
	"net/http"
	"strconv"

	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/api/apistrings"
	models "github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/api/models"
	basemodels "github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/models"
	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/utils"
	"github.com/gin-gonic/gin"
)

type NotificationAPI struct {
	server *Server
}

func (n NotificationAPI) router(server *Server) {
	n.server = server

	serverGroupV1 := server.router.Group("/api/v1/notifications")
	serverGroupV1.GET("", AuthenticatedMiddleware(), n.getNotifications)
	serverGroupV1.POST(":id/read", AuthenticatedMiddleware(), n.markRead)
}

func (n *NotificationAPI) getNotifications(ctx *gin.Context) {
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

	notifications, err := n.server.notificationService.List(ctx, activeSeller.SellerID, limit, offset)
	if err != nil {
		n.server.logger.Error(err.Error())
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Notifications Fetched Successfully", models.ToNotificationResponseCollection(notifications)))
}

func (n *NotificationAPI) markRead(ctx *gin.Context) {
	activeSeller, err := utils.GetActiveSeller(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.SellerNotFound))
		return
	}

	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.NotificationNotFound))
		return
	}

	if err := n.server.notificationService.MarkRead(ctx, activeSeller.SellerID, id); err != nil {
		n.server.logger.Error(err.Error())
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Notification Marked As Read", nil))
}
