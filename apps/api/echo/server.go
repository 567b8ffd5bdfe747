package echoapi

import (
	"context"
	"net/http"
	"os"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/cartolearn/backend/core"
	"github.com/cartolearn/backend/core/catalog"
	"github.com/cartolearn/backend/core/entitlement"
	"github.com/cartolearn/backend/core/org"
	"github.com/cartolearn/backend/core/progress"
	"github.com/cartolearn/backend/core/user"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool
		Logger         core.Logger
		Shutdown       chan<- os.Signal

		UserSvc    *user.Service
		OrgSvc     *org.Service
		CatalogSvc *catalog.Service
		Editor     *entitlement.Editor
		Resolver   *entitlement.Resolver
		Tracker    *progress.Tracker
		Aggregator *progress.Aggregator
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(core.Conf.Debug || core.Conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.signalShutdown)
	s.app.Debug = core.Conf.Debug

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(appJWTConfig)

	registerUserAPI(v1, jwt, s.opts.UserSvc)
	registerOrgAPI(v1, jwt, s.opts.OrgSvc, s.opts.Editor, s.opts.Resolver)
	registerCatalogAPI(v1, jwt, s.opts.CatalogSvc)
	registerProgressAPI(v1, jwt, s.opts.UserSvc, s.opts.Tracker, s.opts.Aggregator)
}

// signalShutdown tells main() to gracefully shut the server down.
func (s *server) signalShutdown() {
	if s.opts.Shutdown != nil {
		s.opts.Shutdown <- syscall.SIGTERM
	}
}

func (s *server) Start() {
	s.app.Logger.Fatal(s.app.Start(s.opts.Address))
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to "+core.Conf.AppName+" API!")
}
