package infrastructure

import (
	"context"
	"errors"
	"mime/multipart"

	"go-hrms/internal/features/file"
	"go-hrms/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type InfrastructureController struct {
	infraService InfrastructureService
	fileService  file.FileService
}

func NewInfrastructureController(infraService InfrastructureService, fileService file.FileService) *InfrastructureController {
	return &InfrastructureController{
		infraService: infraService,
		fileService:  fileService,
	}
}

func (ic *InfrastructureController) CreateRequest(c *fiber.Ctx) error {
	var body struct {
		EmployeeID   string   `json:"employee_id"`
		EmployeeName string   `json:"employee_name"`
		Priority     Priority `json:"priority"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	employeeID, err := primitive.ObjectIDFromHex(body.EmployeeID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid employee ID"})
	}

	created, err := ic.infraService.CreateRequest(c.Context(), employeeID, body.EmployeeName, body.Priority)
	if err != nil {
		status := fiber.StatusBadRequest
		if errors.Is(err, ErrAlreadyRequested) {
			status = fiber.StatusConflict
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (ic *InfrastructureController) GetRequest(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request ID"})
	}

	req, err := ic.infraService.GetRequest(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(requestResponse(req))
}

func (ic *InfrastructureController) ListPending(c *fiber.Ctx) error {
	page := int64(c.QueryInt("page", 1))
	limit := int64(c.QueryInt("limit", 20))

	requests, total, err := ic.infraService.ListPending(c.Context(), page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"data": requests,
		"meta": fiber.Map{"total": total, "page": page, "limit": limit},
	})
}

func (ic *InfrastructureController) ListAll(c *fiber.Ctx) error {
	page := int64(c.QueryInt("page", 1))
	limit := int64(c.QueryInt("limit", 20))
	status := RequestStatus(c.Query("status"))

	requests, total, err := ic.infraService.ListRequests(c.Context(), status, page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"data": requests,
		"meta": fiber.Map{"total": total, "page": page, "limit": limit},
	})
}

func (ic *InfrastructureController) ListMyAssignments(c *fiber.Ctx) error {
	userID, err := utils.SessionUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	page := int64(c.QueryInt("page", 1))
	limit := int64(c.QueryInt("limit", 20))

	requests, total, err := ic.infraService.ListMyAssignments(c.Context(), userID, page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"data": requests,
		"meta": fiber.Map{"total": total, "page": page, "limit": limit},
	})
}

func (ic *InfrastructureController) Assign(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request ID"})
	}

	var body struct {
		AssigneeID string `json:"assignee_id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	assignee, err := primitive.ObjectIDFromHex(body.AssigneeID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid assignee ID"})
	}

	req, err := ic.infraService.Assign(c.Context(), id, assignee)
	if err != nil {
		return ic.writeError(c, err)
	}
	return c.JSON(requestResponse(req))
}

func (ic *InfrastructureController) Start(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request ID"})
	}

	req, err := ic.infraService.EnsureStarted(c.Context(), id)
	if err != nil {
		return ic.writeError(c, err)
	}
	return c.JSON(requestResponse(req))
}

func (ic *InfrastructureController) UpdateProgress(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request ID"})
	}

	step := SetupStep(c.FormValue("setup_type"))
	note := c.FormValue("additional_info")

	var photo UploadFunc
	if fh, err := c.FormFile("photo"); err == nil {
		photo = ic.imageUpload(c, fh, id)
	}

	req, err := ic.infraService.SubmitStep(c.Context(), id, step, note, photo)
	if err != nil {
		return ic.writeError(c, err)
	}
	return c.JSON(requestResponse(req))
}

func (ic *InfrastructureController) Complete(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request ID"})
	}

	notes := c.FormValue("completion_notes")

	var completionPhoto, handoverPhoto UploadFunc
	if fh, err := c.FormFile("completion_photo"); err == nil {
		completionPhoto = ic.imageUpload(c, fh, id)
	}
	if fh, err := c.FormFile("handover_photo"); err == nil {
		handoverPhoto = ic.imageUpload(c, fh, id)
	}

	req, err := ic.infraService.Complete(c.Context(), id, notes, completionPhoto, handoverPhoto)
	if err != nil {
		return ic.writeError(c, err)
	}
	return c.JSON(requestResponse(req))
}

func (ic *InfrastructureController) UpdatePriority(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request ID"})
	}

	var body struct {
		Priority Priority `json:"priority"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	req, err := ic.infraService.UpdatePriority(c.Context(), id, body.Priority)
	if err != nil {
		return ic.writeError(c, err)
	}
	return c.JSON(requestResponse(req))
}

// imageUpload defers the file write until the service has validated the
// submission.
func (ic *InfrastructureController) imageUpload(c *fiber.Ctx, fh *multipart.FileHeader, recordID primitive.ObjectID) UploadFunc {
	return func(ctx context.Context) (string, error) {
		userID, err := utils.SessionUserID(c)
		if err != nil {
			userID = primitive.NilObjectID
		}
		f, err := ic.fileService.SaveImageUpload(ctx, fh, "infrastructure", recordID.Hex(), userID)
		if err != nil {
			return "", err
		}
		return f.URL, nil
	}
}

func (ic *InfrastructureController) writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrRequestNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrNotAssignee):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrStepAlreadyDone),
		errors.Is(err, ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrUnknownStep),
		errors.Is(err, ErrPhotoRequired),
		errors.Is(err, ErrNoteRequired),
		errors.Is(err, ErrRequestNotStarted),
		errors.Is(err, ErrStepsIncomplete),
		errors.Is(err, ErrNotesRequired),
		errors.Is(err, ErrPriorityLocked),
		errors.Is(err, ErrAssigneeRequired):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}

// requestResponse augments the record with the derived next step so list
// and detail views do not recompute ordering client-side.
func requestResponse(req *ProvisioningRequest) fiber.Map {
	next, hasNext := NextIncompleteStep(req.Steps)
	resp := fiber.Map{"request": req}
	if hasNext {
		resp["next_step"] = next
	} else {
		resp["all_steps_done"] = true
	}
	return resp
}
