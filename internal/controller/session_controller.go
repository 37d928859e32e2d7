package controller

import (
	"okada-agent-be/internal/dto"
	"okada-agent-be/internal/pkg/serverutils"
	"okada-agent-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	AttachFile(ctx *fiber.Ctx) error
	GetFile(ctx *fiber.Ctx) error
	DetachFile(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
}

type sessionController struct {
	ingestionService service.IIngestionService
	chatService      service.IChatService
}

func NewSessionController(ingestionService service.IIngestionService, chatService service.IChatService) ISessionController {
	return &sessionController{
		ingestionService: ingestionService,
		chatService:      chatService,
	}
}

func (c *sessionController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/session/v1")
	h.Use(auth)
	h.Post(":id/files", c.AttachFile)
	h.Get(":id/files", c.GetFile)
	h.Delete(":id/files", c.DetachFile)
	h.Get(":id/history", c.History)
}

func (c *sessionController) AttachFile(ctx *fiber.Ctx) error {
	var req dto.AttachFileRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.ingestionService.AttachFile(ctx.UserContext(), ctx.Params("id"), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("File attached, indexing queued", res))
}

func (c *sessionController) GetFile(ctx *fiber.Ctx) error {
	res, err := c.ingestionService.GetFileInfo(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get file", res))
}

func (c *sessionController) DetachFile(ctx *fiber.Ctx) error {
	if err := c.ingestionService.DetachFile(ctx.UserContext(), ctx.Params("id")); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success detach file", nil))
}

func (c *sessionController) History(ctx *fiber.Ctx) error {
	res, err := c.chatService.GetHistory(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get history", res))
}
