package server

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/mdouchement/timecapsule/internal/database"
	"github.com/mdouchement/timecapsule/internal/model"
	"github.com/mdouchement/timecapsule/internal/server/middlewares"
	"github.com/mdouchement/timecapsule/internal/server/service"
	"github.com/mdouchement/timecapsule/internal/server/session"
	"github.com/mdouchement/timecapsule/pkg/disclosure"
)

// An IOC is an Iversion Of Control pattern used to init the server package.
type IOC struct {
	Version        string
	Database       database.Client
	NoRegistration bool
	// Clock returns the current instant, time.Now when nil.
	Clock func() time.Time
	// Session params
	AccessTokenExpirationTime  time.Duration
	RefreshTokenExpirationTime time.Duration
	// Capsule params
	SoonThresholdDays int
}

// EchoEngine instantiates the wep server.
func EchoEngine(ctrl IOC) *echo.Echo {
	if ctrl.Clock == nil {
		ctrl.Clock = time.Now
	}

	engine := echo.New()
	engine.Use(middleware.Recover())
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.DefaultCORSConfig))
	engine.Use(middleware.Gzip())

	engine.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "[${status}] ${method} ${uri} (${bytes_in}) ${latency_human}\n",
	}))
	engine.Binder = middlewares.NewBinder()
	// Error handler
	engine.HTTPErrorHandler = middlewares.HTTPErrorHandler

	engine.Pre(middleware.Rewrite(map[string]string{
		"/": "/version",
	}))

	////////////
	// Router //
	////////////

	sessions := session.NewManager(
		ctrl.Database,
		ctrl.Clock,
		ctrl.AccessTokenExpirationTime,
		ctrl.RefreshTokenExpirationTime,
	)

	router := engine.Group("")
	restricted := router.Group("")
	restricted.Use(middlewares.Session(sessions))

	// generic handlers
	//
	router.GET("/version", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"version": ctrl.Version,
		})
	})

	//
	// auth handlers
	//
	auth := &auth{
		db:    ctrl.Database,
		users: service.NewUser(ctrl.Database, sessions, ctrl.Clock),
	}
	if !ctrl.NoRegistration {
		router.POST("/auth", auth.Register)
	}
	router.POST("/auth/sign_in", auth.Login)
	restricted.POST("/auth/sign_out", auth.Logout)

	//
	// session handlers
	//
	session := &sess{
		db:       ctrl.Database,
		sessions: sessions,
	}
	router.POST("/session/refresh", session.Refresh) // The access token may be expired.
	restricted.GET("/sessions", session.List)
	restricted.DELETE("/session", session.Delete)
	restricted.DELETE("/session/all", session.DeleteAll)

	//
	// draft handlers
	//
	draft := &draft{
		db:     ctrl.Database,
		drafts: service.NewDraft(ctrl.Database),
	}
	restricted.POST("/drafts", draft.Create)
	restricted.GET("/drafts", draft.List)
	restricted.GET("/drafts/:id", draft.Show)
	restricted.PUT("/drafts/:id", draft.Update)
	restricted.DELETE("/drafts/:id", draft.Delete)

	//
	// capsule handlers
	//
	threshold := ctrl.SoonThresholdDays
	if threshold <= 0 {
		threshold = disclosure.DefaultSoonThresholdDays
	}
	capsule := &capsule{
		capsules: service.NewCapsule(
			ctrl.Database,
			service.NewRecipientResolver(ctrl.Database),
			disclosure.Engine{SoonThresholdDays: threshold},
			ctrl.Clock,
		),
	}
	restricted.POST("/capsules", capsule.Seal)
	restricted.GET("/capsules", capsule.List)
	restricted.GET("/capsules/:id", capsule.Show)
	restricted.POST("/capsules/:id/open", capsule.Open)

	return engine
}

// PrintRoutes prints the Echo engin exposed routes.
func PrintRoutes(e *echo.Echo) {
	ignored := map[string]bool{
		"":   true,
		".":  true,
		"/*": true,
	}

	routes := e.Routes()
	sort.Slice(routes, func(i int, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})

	fmt.Println("Routes:")
	for _, route := range routes {
		if ignored[route.Path] {
			continue
		}
		fmt.Printf("%6s %s\n", route.Method, route.Path)
	}
}

func currentUser(c echo.Context) *model.User {
	user, ok := c.Get(middlewares.CurrentUserContextKey).(*model.User)
	if ok {
		return user
	}
	return nil
}

func currentSession(c echo.Context) *model.Session {
	session, ok := c.Get(middlewares.CurrentSessionContextKey).(*model.Session)
	if ok {
		return session
	}
	return nil
}
