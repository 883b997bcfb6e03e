package file

import (
	"path/filepath"

	"go-hrms/internal/config"
	"go-hrms/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type FileController struct {
	FileService FileService
	Config      *config.Config
}

func NewFileController(fileService FileService, cfg *config.Config) *FileController {
	return &FileController{
		FileService: fileService,
		Config:      cfg,
	}
}

// UploadFile godoc
// @Summary Upload a file
// @Tags files
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File to upload"
// @Param module_name formData string false "Module name"
// @Param record_id formData string false "Record ID"
// @Success 201 {object} File
// @Router /api/files/upload [post]
func (ctrl *FileController) UploadFile(c *fiber.Ctx) error {
	userID, err := utils.SessionUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid session"})
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Error retrieving file"})
	}

	record, err := ctrl.FileService.SaveUpload(c.Context(), fh, c.FormValue("module_name"), c.FormValue("record_id"), userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(record)
}

// GetFilesByRecord godoc
func (ctrl *FileController) GetFilesByRecord(c *fiber.Ctx) error {
	files, err := ctrl.FileService.GetFilesByRecord(c.Context(), c.Params("module"), c.Params("recordId"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(files)
}

// Download godoc
func (ctrl *FileController) Download(c *fiber.Ctx) error {
	name := filepath.Base(c.Params("name")) // strip any path components
	return c.SendFile(filepath.Join(ctrl.Config.FSPath, name))
}

// DeleteFile godoc
func (ctrl *FileController) DeleteFile(c *fiber.Ctx) error {
	userID, err := utils.SessionUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid session"})
	}

	if err := ctrl.FileService.DeleteFile(c.Context(), c.Params("id"), userID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "File deleted successfully"})
}
