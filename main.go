package main

import (
	"context"
	"log"
	"time"

	"hustlehack-backend/config"
	"hustlehack-backend/database"
	adminapi "hustlehack-backend/internal/api/admin"
	checkoutapi "hustlehack-backend/internal/api/checkout"
	"hustlehack-backend/internal/api/razorpaywebhook"
	usersapi "hustlehack-backend/internal/api/users"
	routes "hustlehack-backend/internal/app/http"
	"hustlehack-backend/internal/notify"
	"hustlehack-backend/internal/reconcile"
	"hustlehack-backend/internal/sheetsync"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
)

func main() {
	// gin.SetMode(gin.ReleaseMode) uncomment only in production
	config.LoadEnv()
	db := database.InitDB()

	svc := reconcile.NewService(db)
	mailer := notify.NewMailer(config.SMTP_FROM, config.SMTP_PASSWORD, config.SMTP_HOST, config.SMTP_PORT)

	verifier := &razorpaywebhook.Verifier{
		Secret:           config.RAZORPAY_WEBHOOK_SECRET,
		RequireSignature: config.WEBHOOK_REQUIRE_SIGNATURE,
	}

	syncJob := buildSyncJob(svc)

	h := routes.Handlers{
		Webhook:  razorpaywebhook.NewHandler(svc, verifier, mailer),
		Checkout: checkoutapi.NewHandler(svc, config.RAZORPAY_KEY_ID, config.RAZORPAY_KEY_SECRET, mailer),
		Users:    usersapi.NewHandler(db),
		Admin:    adminapi.NewHandler(db, svc, syncJob),
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.CORS_ORIGIN},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, h)

	startSyncSchedule(syncJob)

	r.Run(":" + config.PORT)
}

func buildSyncJob(svc *reconcile.Service) *sheetsync.Job {
	if config.SHEETS_SPREADSHEET_ID == "" || config.GOOGLE_SERVICE_ACCOUNT_FILE == "" {
		log.Println("⚠️ Sheet sync disabled (SHEETS_SPREADSHEET_ID / GOOGLE_SERVICE_ACCOUNT_FILE not set)")
		return nil
	}

	source, err := sheetsync.NewSheetsSource(
		context.Background(),
		config.GOOGLE_SERVICE_ACCOUNT_FILE,
		config.SHEETS_SPREADSHEET_ID,
		config.SHEETS_RANGE,
	)
	if err != nil {
		log.Fatal("❌ Failed to init sheets source:", err)
	}

	return sheetsync.NewJob(svc, source, &sheetsync.FileCheckpoint{Path: config.SYNC_CHECKPOINT_FILE})
}

func startSyncSchedule(job *sheetsync.Job) {
	if job == nil || config.SYNC_CRON == "" {
		return
	}

	c := cron.New()
	_, err := c.AddFunc(config.SYNC_CRON, func() {
		if _, err := job.Run(context.Background()); err != nil {
			log.Printf("❌ Scheduled sheet sync failed: %v", err)
		}
	})
	if err != nil {
		log.Fatal("❌ Invalid SYNC_CRON expression:", err)
	}
	c.Start()
	log.Printf("⏰ Sheet sync scheduled: %s", config.SYNC_CRON)
}
