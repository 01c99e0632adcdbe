package routes

import (
	"log"

	_ "sports_booking/docs"
	"sports_booking/internal/adapter/http/handlers"
	"sports_booking/internal/adapter/http/middlewares"
	"sports_booking/internal/usecase"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Dependencies are the use cases served over HTTP. An empty JWTSecret leaves
// the booking routes unauthenticated.
type Dependencies struct {
	Bookings  usecase.IBookingUseCase
	Quotes    usecase.IQuoteUseCase
	JWTSecret string
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	setMiddlewares(router)

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET(PathHealth, handlers.Health)
	addBookingRoutes(router, deps)
	return router
}

func setMiddlewares(router *gin.Engine) {
	router.Use(middlewares.RequestID())
	router.Use(gin.Logger())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("[http][recovery] recovered from panic path=%s request_id=%s err=%v", c.Request.URL.Path, c.GetString("request_id"), recovered)
		c.AbortWithStatus(500)
	}))
}
