package controller

import (
	"okada-agent-be/internal/dto"
	"okada-agent-be/internal/pkg/serverutils"
	"okada-agent-be/internal/service"
	"okada-agent-be/internal/workflow/appointment"

	"github.com/gofiber/fiber/v2"
)

type IAppointmentController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	Start(ctx *fiber.Ctx) error
	Continue(ctx *fiber.Ctx) error
	Confirm(ctx *fiber.Ctx) error
	Cancel(ctx *fiber.Ctx) error
}

type appointmentController struct {
	appointmentService service.IAppointmentService
}

func NewAppointmentController(appointmentService service.IAppointmentService) IAppointmentController {
	return &appointmentController{
		appointmentService: appointmentService,
	}
}

func (c *appointmentController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/appointment/v1")
	h.Use(auth)
	h.Post("", c.Start)
	h.Post(":id/continue", c.Continue)
	h.Post(":id/confirm", c.Confirm)
	h.Post(":id/cancel", c.Cancel)
}

func (c *appointmentController) Start(ctx *fiber.Ctx) error {
	var req dto.StartAppointmentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	return respond(ctx, c.appointmentService.Start(ctx.UserContext(), &req))
}

func (c *appointmentController) Continue(ctx *fiber.Ctx) error {
	var req dto.ContinueAppointmentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	return respond(ctx, c.appointmentService.Continue(ctx.UserContext(), ctx.Params("id"), &req))
}

func (c *appointmentController) Confirm(ctx *fiber.Ctx) error {
	return respond(ctx, c.appointmentService.Confirm(ctx.UserContext(), ctx.Params("id")))
}

func (c *appointmentController) Cancel(ctx *fiber.Ctx) error {
	return respond(ctx, c.appointmentService.Cancel(ctx.UserContext(), ctx.Params("id")))
}

// respond writes the workflow envelope as is. Failures carry a user-facing
// message, so only the status code changes.
func respond(ctx *fiber.Ctx, res *dto.AppointmentResponse) error {
	status := fiber.StatusOK
	if res.Error != nil {
		switch res.Error.Code {
		case appointment.CodeSessionNotFound:
			status = fiber.StatusNotFound
		case appointment.CodeSessionClosed:
			status = fiber.StatusConflict
		default:
			status = fiber.StatusInternalServerError
		}
	}
	return ctx.Status(status).JSON(res)
}
