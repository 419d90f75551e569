package api

import (
	"database/sql"
	"net/http"

	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/api/apistrings"
	models "github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/api/models"
	db "github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/db/sqlc"
	basemodels "github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/models"
	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/utils"
	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

type Auth struct {
	server *Server
}

func (a Auth) router(server *Server) {
	a.server = server

	serverGroupV1 := server.router.Group("/api/v1/auth")
	serverGroupV1.GET("test", a.testAuth)
	serverGroupV1.POST("register", a.register)
	serverGroupV1.POST("login", a.login)
	serverGroupV1.GET("profile", AuthenticatedMiddleware(), a.profile)
}

func (a Auth) testAuth(ctx *gin.Context) {
	dr := basemodels.SuccessResponse{
		Status:  "success",
		Message: "Authentication API is active",
		Version: utils.REVISION,
	}

	ctx.JSON(http.StatusOK, dr)
}

func (a *Auth) register(ctx *gin.Context) {
	seller := new(models.SellerRegisterParams)

	if err := ctx.ShouldBindJSON(seller); err != nil {
		a.server.logger.Log(logrus.ErrorLevel, err.Error())
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidEmailPasswordInput))
		return
	}

	hashedPassword, err := utils.GenerateHashValue(seller.Password)
	if err != nil {
		a.server.logger.Error(err.Error())
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	// The seller row and their wallet are created together; a seller
	// without a wallet cannot take part in any money flow.
	var dbSeller db.Seller
	err = a.server.store.ExecTx(ctx, func(q db.Querier) error {
		var txErr error
		dbSeller, txErr = q.CreateSeller(ctx, db.CreateSellerParams{
			FullName:       seller.FullName,
			Email:          seller.Email,
			HashedPassword: hashedPassword,
			Phone:          sql.NullString{String: seller.Phone, Valid: seller.Phone != ""},
		})
		if txErr != nil {
			return txErr
		}

		_, txErr = q.CreateSellerWallet(ctx, dbSeller.ID)
		return txErr
	})
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == db.DuplicateEntry {
			ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.SellerDetailsAlreadyExist))
			return
		}
		a.server.logger.Error(err.Error())
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	token, err := TokenController.CreateToken(utils.TokenObject{
		SellerID: dbSeller.ID,
		Role:     "seller",
		Verified: dbSeller.BankVerified,
	})
	if err != nil {
		a.server.logger.Error(err.Error())
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusCreated, basemodels.NewSuccess("Seller Registered Successfully", models.LoginResponse{
		Token:  token,
		Seller: models.ToSellerResponse(&dbSeller),
	}))
}

func (a *Auth) login(ctx *gin.Context) {
	seller := new(models.SellerLoginParams)

	if err := ctx.ShouldBindJSON(seller); err != nil {
		a.server.logger.Log(logrus.ErrorLevel, err.Error())
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidEmailPasswordInput))
		return
	}

	dbSeller, err := a.server.store.GetSellerByEmail(ctx, seller.Email)
	if err == sql.ErrNoRows {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.IncorrectEmailPass))
		return
	} else if err != nil {
		a.server.logger.Error(err.Error())
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	if err := utils.VerifyHashValue(seller.Password, dbSeller.HashedPassword); err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.IncorrectEmailPass))
		return
	}

	role := "seller"
	if a.server.config.AdminEmail != "" && dbSeller.Email == a.server.config.AdminEmail {
		role = "admin"
	}

	token, err := TokenController.CreateToken(utils.TokenObject{
		SellerID: dbSeller.ID,
		Role:     role,
		Verified: dbSeller.BankVerified,
	})
	if err != nil {
		a.server.logger.Error(err.Error())
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Login Successful", models.LoginResponse{
		Token:  token,
		Seller: models.ToSellerResponse(&dbSeller),
	}))
}

func (a *Auth) profile(ctx *gin.Context) {
	activeSeller, err := utils.GetActiveSeller(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.SellerNotFound))
		return
	}

	dbSeller, err := a.server.store.GetSellerByID(ctx, activeSeller.SellerID)
	if err == sql.ErrNoRows {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.SellerNotFound))
		return
	} else if err != nil {
		a.server.logger.Error(err.Error())
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Seller Retrieved Successfully", models.ToSellerResponse(&dbSeller)))
}
