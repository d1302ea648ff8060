package app

import (
	"context"
	"net/http"

	awssns "github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/goverid/internal/pkg/clock"
	"github.com/shandysiswandi/goverid/internal/pkg/config"
	"github.com/shandysiswandi/goverid/internal/pkg/crypt"
	"github.com/shandysiswandi/goverid/internal/pkg/goroutine"
	"github.com/shandysiswandi/goverid/internal/pkg/instrument"
	"github.com/shandysiswandi/goverid/internal/pkg/messaging"
	"github.com/shandysiswandi/goverid/internal/pkg/otpcode"
	"github.com/shandysiswandi/goverid/internal/pkg/router"
	"github.com/shandysiswandi/goverid/internal/pkg/token"
	"github.com/shandysiswandi/goverid/internal/pkg/uid"
	"github.com/shandysiswandi/goverid/internal/pkg/validator"
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	uuid      uid.StringID
	codes     otpcode.Generator
	secret    *otpcode.Secret
	encryptor crypt.Encryptor
	token     token.Token

	// resources
	dbConn    *pgxpool.Pool
	cacheConn *redis.Client
	snsClient *awssns.Client
	messaging messaging.Publisher

	// server
	router     *router.Router
	httpServer *http.Server

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initToken()
	app.initDatabase()
	app.initCache()
	app.initSMS()
	app.initMessaging()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
