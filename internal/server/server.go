package server

import (
	"checkout-service/internal/handler"
	authmw "checkout-service/internal/middleware"
	"checkout-service/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Server struct {
	echo            *echo.Echo
	checkoutHandler *handler.CheckoutHandler
}

func NewServer(checkoutService service.CheckoutService, site service.SiteURLs, jwtSecret, cookieName string) *Server {
	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	checkoutHandler := handler.NewCheckoutHandler(checkoutService, site)

	s := &Server{
		echo:            e,
		checkoutHandler: checkoutHandler,
	}

	s.setupRoutes(authmw.AuthMiddleware(jwtSecret, cookieName, site))
	return s
}

func (s *Server) setupRoutes(auth echo.MiddlewareFunc) {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	// -------- checkout --------
	checkout := api.Group("/checkout", auth)
	checkout.POST("/submit", s.checkoutHandler.Submit)
	checkout.GET("/receipt/:number", s.checkoutHandler.Receipt)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
