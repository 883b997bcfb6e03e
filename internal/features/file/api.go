package file

import (
	"go-hrms/internal/config"
	"go-hrms/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type FileApi struct {
	controller *FileController
	config     *config.Config
	resolver   middleware.CapabilityResolver
}

func NewFileApi(controller *FileController, config *config.Config, resolver middleware.CapabilityResolver) *FileApi {
	return &FileApi{
		controller: controller,
		config:     config,
		resolver:   resolver,
	}
}

func (h *FileApi) Setup(app *fiber.App) {
	files := app.Group("/api/files", middleware.AuthMiddleware(h.config.SkipAuth))

	files.Post("/upload", h.controller.UploadFile)
	files.Get("/download/:name", h.controller.Download)
	files.Get("/:module/:recordId", h.controller.GetFilesByRecord)
	files.Delete("/:id", middleware.RequireCapability(h.resolver, h.config.SkipAuth, "files.manage"), h.controller.DeleteFile)
}
