package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/roadwatch/accident-tracker-api/api"
	"github.com/roadwatch/accident-tracker-api/api/scheduler"
	"github.com/roadwatch/accident-tracker-api/auth"
	"github.com/roadwatch/accident-tracker-api/config"
	"github.com/roadwatch/accident-tracker-api/databases"
	"github.com/roadwatch/accident-tracker-api/feed"
	"github.com/roadwatch/accident-tracker-api/models"
)

// App stores the router and db connection, so it can be reused
type App struct {
	Router    *mux.Router
	Config    config.Config
	Feed      *feed.Feed
	dbHelper  databases.DatabaseHelper
	scheduler *scheduler.Scheduler
	feedStop  context.CancelFunc
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	// setup go-guardian for middleware
	api.SetupGoGuardian()

	r := mux.NewRouter()

	d := Driver{DB: databases.NewDriverDatabase(a.dbHelper)}
	report := AccidentReport{RDB: databases.NewAccidentReportDatabase(a.dbHelper)}
	authn := Auth{
		DDB:      databases.NewDriverDatabase(a.dbHelper),
		OtpDB:    databases.NewOtpDatabase(a.dbHelper),
		Verifier: newVerifier(a.dbHelper),
		Sender:   newSender(),
	}
	photo := Photo{RDB: databases.NewAccidentReportDatabase(a.dbHelper)}
	liveFeed := FeedSocket{Feed: a.Feed}

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	apiCreate := r.PathPrefix("/api/v1").Subrouter()
	apiCreate.Use(api.TimeoutMiddleware(30 * time.Second))

	apiCreate.Handle("/auth/request-otp", http.HandlerFunc(authn.RequestOtpHandler)).Methods("POST")
	apiCreate.Handle("/auth/verify-otp", http.HandlerFunc(authn.VerifyOtpHandler)).Methods("POST")
	apiCreate.Handle("/auth/logout", api.Middleware(http.HandlerFunc(api.RevokeToken))).Methods("DELETE")

	apiCreate.Handle("/driver/register", http.HandlerFunc(d.RegisterDriverHandler)).Methods("POST")
	apiCreate.Handle("/driver/online-status", api.Middleware(http.HandlerFunc(d.SetOnlineStatusHandler))).Methods("PUT")
	apiCreate.Handle("/driver/location", api.Middleware(http.HandlerFunc(d.UpdateLocationHandler))).Methods("PUT")
	apiCreate.Handle("/driver/{driver_id}", api.Middleware(http.HandlerFunc(d.DriverByIDHandler))).Methods("GET")

	apiCreate.Handle("/report", api.Middleware(http.HandlerFunc(report.CreateAccidentReportHandler))).Methods("POST")
	apiCreate.Handle("/reports", api.Middleware(http.HandlerFunc(report.AccidentReportsHandler))).Methods("GET")
	apiCreate.Handle("/report/{report_id}", api.Middleware(http.HandlerFunc(report.AccidentReportByIDHandler))).Methods("GET")
	apiCreate.Handle("/report/{report_id}/photo", api.Middleware(http.HandlerFunc(photo.UploadPhotoHandler))).Methods("POST")

	apiCreate.Handle("/generate-signature", api.Middleware(http.HandlerFunc(photo.GenerateSignature))).Methods("POST")

	// websocket feed carries its own upgrade handshake, no middleware
	r.Handle("/ws/feed", http.HandlerFunc(liveFeed.ServeWS))

	return r
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize() error {

	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}

	a.dbHelper = databases.NewDatabase(&a.Config, client)
	err = client.Connect()
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	zap.S().Info("accident-tracker-api has connected to the database")

	// start the live report feed
	a.Feed = feed.New(databases.NewAccidentReportDatabase(a.dbHelper))
	ctx, cancel := context.WithCancel(context.Background())
	a.feedStop = cancel
	go func() {
		if err := a.Feed.Run(ctx); err != nil {
			zap.S().With(err).Error("live report feed stopped")
		}
	}()

	// start background jobs
	a.scheduler = scheduler.NewScheduler(
		databases.NewOtpDatabase(a.dbHelper),
		databases.NewDriverDatabase(a.dbHelper),
	)
	a.scheduler.Start()

	// initialize api router
	a.initializeRoutes()
	return nil

}

// Shutdown stops the feed and the background scheduler
func (a *App) Shutdown() {
	if a.feedStop != nil {
		a.feedStop()
	}
	if a.scheduler != nil {
		a.scheduler.Stop()
	}
}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

// newVerifier picks the otp verifier: stored challenges when OTP_MODE is
// "challenge", otherwise the fixed-code mock
func newVerifier(db databases.DatabaseHelper) auth.Verifier {
	if os.Getenv("OTP_MODE") == "challenge" {
		return auth.ChallengeVerifier{DB: databases.NewOtpDatabase(db)}
	}
	return auth.NewStaticVerifier()
}

// newSender picks the otp delivery channel
func newSender() auth.Sender {
	if os.Getenv("SENDGRID_API_KEY") != "" {
		return auth.SendGridSender{}
	}
	return auth.LogSender{}
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}
