package api

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	db "github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/db/sqlc"
	basemodels "github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/models"
	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/providers"
	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/providers/fiat"
	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/services/bank"
	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/services/escrow"
	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/services/ledger"
	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/services/monitoring/logging"
	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/services/notification"
	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/services/notification/notification_channel"
	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/services/redis"
	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/services/security"
	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/services/withdrawal"
	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// / If there's a better place to access this
// / TODO, I feel the config should be the one accessible like this
var TokenController *utils.JWTToken

type Server struct {
	router    *gin.Engine
	store     *db.Store
	config    *utils.Config
	logger    *logging.Logger
	providers *providers.ProviderService

	ledgerService       *ledger.Service
	escrowService       *escrow.Service
	withdrawalService   *withdrawal.Service
	notificationService *notification.Service
	bankService         *bank.Service
}

func NewServer(envPath string) *Server {
	c, err := utils.LoadConfig(envPath)
	if err != nil {
		panic(fmt.Sprintf("Could not load config: %v", err))
	}

	conn, err := sql.Open(c.DBDriver, utils.GetDBSource(c, c.DBName))
	if err != nil {
		panic(fmt.Sprintf("Could not load DB: %v", err))
	}

	m, err := migrate.New(
		"file://db/migrations",
		utils.GetDBSource(c, c.DBName),
	)
	if err != nil {
		log.Fatalf("Unable to instantiate the database schema migrator - %v", err)
	}

	if err := m.Up(); err != nil {
		if err != migrate.ErrNoChange {
			log.Fatalf("Unable to migrate up to the latest database schema - %v", err)
		}
	}

	store := db.NewStore(conn)
	g := gin.Default()
	l := logging.NewLogger()
	p := providers.NewProviderService()

	// Set up the payout gateway
	fp := fiat.NewFiatProvider()
	p.AddProvider(fp)

	cache := security.NewCache()
	if err := cache.Start(); err != nil {
		log.Fatalf("Unable to start the in-process cache - %v", err)
	}

	var redisService *redis.RedisService
	if c.RedisHost != "" {
		redisService, err = redis.NewRedisService(&redis.RedisConfig{
			Host:     c.RedisHost,
			Port:     c.RedisPort,
			Password: c.RedisPassword,
		})
		if err != nil {
			// Redis only backs the caches and the daily cap; the core flows
			// stand without it
			l.Error(fmt.Sprintf("redis unavailable, continuing without it: %v", err))
			redisService = nil
		}
	}

	channels := []notification_channel.Sender{
		notification_channel.NewEmailChannel(c),
		notification_channel.NewPushChannel(l),
	}
	if smsChannel, err := notification_channel.NewSMSChannel(); err != nil {
		l.Info(fmt.Sprintf("sms channel disabled: %v", err))
	} else {
		channels = append(channels, smsChannel)
	}

	notificationService := notification.NewNotificationService(store, l, channels...)

	ledgerService := ledger.NewLedgerService(store, l)

	escrowService := escrow.NewEscrowService(store, ledgerService, notificationService, l, escrow.Config{
		CommissionRate: c.CommissionRate,
		HoldDays:       c.EscrowHoldDays,
		FastHoldHours:  c.EscrowFastHoldHrs,
	})

	var tracker withdrawal.DailyTracker
	if redisService != nil {
		tracker = redisService
	}
	withdrawalService := withdrawal.NewWithdrawalService(store, ledgerService, notificationService, tracker, l, withdrawal.Config{
		MinWithdrawal: float64(c.MinWithdrawal),
		DailyCap:      float64(c.DailyWithdrawalCap),
	})

	bankService := bank.NewBankService(store, p, redisService, cache, notificationService, l)

	g.Use(CORSMiddleware())
	g.Use(l.LoggingMiddleWare())

	TokenController = utils.NewJWTToken(c)

	return &Server{
		router:              g,
		store:               store,
		config:              c,
		logger:              l,
		providers:           p,
		ledgerService:       ledgerService,
		escrowService:       escrowService,
		withdrawalService:   withdrawalService,
		notificationService: notificationService,
		bankService:         bankService,
	}
}

func (s *Server) Start() {

	dr := basemodels.SuccessResponse{
		Status:  "success",
		Message: "Welcome to Unihub Sellers!",
		Version: utils.REVISION,
	}

	s.router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, dr)
	})

	/// Register Object Routers Below
	Auth{}.router(s)
	Wallet{}.router(s)
	Escrow{}.router(s)
	Withdrawal{}.router(s)
	Bank{}.router(s)
	NotificationAPI{}.router(s)

	s.startBackgroundLoops()

	s.router.Run(fmt.Sprintf(":%v", s.config.ServerPort))
}

// startBackgroundLoops runs the escrow sweep and the ledger reconciler for
// the lifetime of the process.
func (s *Server) startBackgroundLoops() {
	ctx := context.Background()

	go s.escrowService.RunSweeper(ctx, time.Duration(s.config.SweepIntervalMins)*time.Minute)
	go s.ledgerService.RunReconciler(ctx, time.Duration(s.config.ReconcileIntMins)*time.Minute)
}
