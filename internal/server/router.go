package server

import (
	"net/http"

	_ "github.com/curiomuse/artefact-catalog/docs"
	"github.com/curiomuse/artefact-catalog/internal/config"
	"github.com/curiomuse/artefact-catalog/internal/modules/handler"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

func NewRouter(cfg *config.Config, log *zap.Logger, artefacts *handler.ArtefactHandler, files *handler.FileHandler) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(log), otelgin.Middleware(cfg.App.Name))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	api.POST("/upload-artefact", artefacts.UploadArtefact)

	a := api.Group("/artefacts")
	a.GET("", artefacts.ListArtefacts)
	a.GET("/search", artefacts.SearchArtefacts)
	a.GET("/:artefact_id", artefacts.GetArtefact)
	a.PATCH("/:artefact_id", artefacts.UpdateArtefact)
	a.DELETE("/:artefact_id", artefacts.DeleteArtefact)
	a.PUT("/:artefact_id/asset/:kind", artefacts.ReplaceAsset)

	f := api.Group("/files")
	f.GET("", files.ListFiles)
	f.GET("/:file_id", files.GetFile)

	return r
}
