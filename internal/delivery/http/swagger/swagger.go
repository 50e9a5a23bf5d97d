package http_swagger

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Controller struct {
	docURL string
}

// New serves Swagger UI. docURL points at the generated OpenAPI document; an empty value
// lets the UI use its default doc.json path.
func New(docURL string) *Controller {
	return &Controller{docURL: docURL}
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	var opts []func(*ginSwagger.Config)
	if c.docURL != "" {
		opts = append(opts, ginSwagger.URL(c.docURL))
	}
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, opts...))
}
