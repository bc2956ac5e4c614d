package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-landing/components/landing"
	"github.com/goliatone/go-landing/components/landing/commands"
	"github.com/goliatone/go-landing/components/landing/queries"
	"github.com/goliatone/go-landing/pkg/logger"
)

// Handlers exposes HTTP endpoints backed by shared commands and queries.
type Handlers struct {
	Add     gocommand.Commander[commands.AddWidgetInput]
	Update  gocommand.Commander[commands.UpdateWidgetInput]
	Remove  gocommand.Commander[commands.RemoveWidgetInput]
	Reorder gocommand.Commander[commands.ReorderWidgetInput]
	Save    gocommand.Commander[commands.SaveLayoutInput]
	Submit  gocommand.Commander[commands.SubmitEditorInput]
	Close   gocommand.Commander[commands.CloseEditorInput]
	Drop    gocommand.Commander[commands.ClosePageInput]

	Page    gocommand.Querier[queries.PageRequest, queries.PageView]
	Widgets gocommand.Querier[queries.PageRequest, []landing.WidgetConfig]
	Editor  gocommand.Querier[queries.EditorRequest, landing.EditorForm]
	Types   gocommand.Querier[queries.TypesRequest, []queries.TypeView]
}

// NewHandlers wires the default commands and queries around sessions.
func NewHandlers(sessions *landing.Sessions, telemetry commands.Telemetry) *Handlers {
	return &Handlers{
		Add:     commands.NewAddWidgetCommand(sessions, telemetry),
		Update:  commands.NewUpdateWidgetCommand(sessions, telemetry),
		Remove:  commands.NewRemoveWidgetCommand(sessions, telemetry),
		Reorder: commands.NewReorderWidgetCommand(sessions, telemetry),
		Save:    commands.NewSaveLayoutCommand(sessions, telemetry),
		Submit:  commands.NewSubmitEditorCommand(sessions, telemetry),
		Close:   commands.NewCloseEditorCommand(sessions),
		Drop:    commands.NewClosePageCommand(sessions, telemetry),
		Page:    queries.NewPageQuery(sessions),
		Widgets: queries.NewWidgetsQuery(sessions),
		Editor:  queries.NewEditorQuery(sessions),
		Types:   queries.NewTypesQuery(sessions.Registry()),
	}
}

type addPayload struct {
	Type string `json:"type"`
}

type updatePayload struct {
	Settings landing.Settings `json:"settings"`
}

type reorderPayload struct {
	From int `json:"from"`
	To   int `json:"to"`
}

func (h *Handlers) getPage(c *fiber.Ctx) error {
	view, err := h.Page.Query(c.UserContext(), queries.PageRequest{PageID: c.Params("page")})
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(view.HTML)
}

func (h *Handlers) listWidgets(c *fiber.Ctx) error {
	widgets, err := h.Widgets.Query(c.UserContext(), queries.PageRequest{PageID: c.Params("page")})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"widgets": widgets})
}

func (h *Handlers) addWidget(c *fiber.Ctx) error {
	var payload addPayload
	if err := c.BodyParser(&payload); err != nil {
		return respondStatus(c, fiber.StatusBadRequest, err)
	}
	var created landing.WidgetConfig
	input := commands.AddWidgetInput{PageID: c.Params("page"), Type: payload.Type, Created: &created}
	if err := h.Add.Execute(c.UserContext(), input); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handlers) updateWidget(c *fiber.Ctx) error {
	var payload updatePayload
	if err := c.BodyParser(&payload); err != nil {
		return respondStatus(c, fiber.StatusBadRequest, err)
	}
	input := commands.UpdateWidgetInput{PageID: c.Params("page"), WidgetID: c.Params("id"), Settings: payload.Settings}
	if err := h.Update.Execute(c.UserContext(), input); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"status": "updated"})
}

func (h *Handlers) removeWidget(c *fiber.Ctx) error {
	input := commands.RemoveWidgetInput{PageID: c.Params("page"), WidgetID: c.Params("id")}
	if err := h.Remove.Execute(c.UserContext(), input); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handlers) reorderWidgets(c *fiber.Ctx) error {
	var payload reorderPayload
	if err := c.BodyParser(&payload); err != nil {
		return respondStatus(c, fiber.StatusBadRequest, err)
	}
	input := commands.ReorderWidgetInput{PageID: c.Params("page"), From: payload.From, To: payload.To}
	if err := h.Reorder.Execute(c.UserContext(), input); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"status": "reordered"})
}

func (h *Handlers) saveLayout(c *fiber.Ctx) error {
	if err := h.Save.Execute(c.UserContext(), commands.SaveLayoutInput{PageID: c.Params("page")}); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"status": "saved"})
}

func (h *Handlers) openEditor(c *fiber.Ctx) error {
	form, err := h.Editor.Query(c.UserContext(), queries.EditorRequest{PageID: c.Params("page"), WidgetID: c.Params("id")})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(form)
}

func (h *Handlers) submitEditor(c *fiber.Ctx) error {
	input := map[string]any{}
	if err := c.BodyParser(&input); err != nil {
		return respondStatus(c, fiber.StatusBadRequest, err)
	}
	var updated landing.WidgetConfig
	msg := commands.SubmitEditorInput{PageID: c.Params("page"), WidgetID: c.Params("id"), Input: input, Updated: &updated}
	if err := h.Submit.Execute(c.UserContext(), msg); err != nil {
		return respondError(c, err)
	}
	return c.JSON(updated)
}

func (h *Handlers) closeEditor(c *fiber.Ctx) error {
	if err := h.Close.Execute(c.UserContext(), commands.CloseEditorInput{PageID: c.Params("page")}); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handlers) closePage(c *fiber.Ctx) error {
	if err := h.Drop.Execute(c.UserContext(), commands.ClosePageInput{PageID: c.Params("page")}); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handlers) listTypes(c *fiber.Ctx) error {
	types, err := h.Types.Query(c.UserContext(), queries.TypesRequest{Category: c.Query("category")})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"types": types})
}

// statusFor maps landing errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, landing.ErrUnknownWidgetType),
		errors.Is(err, landing.ErrInvalidSettings),
		errors.Is(err, landing.ErrTypeMismatch):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, landing.ErrWidgetNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, landing.ErrEditorClosed),
		errors.Is(err, landing.ErrDeleteDeclined):
		return fiber.StatusConflict
	case errors.Is(err, landing.ErrSaveFailed):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func respondError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status >= fiber.StatusInternalServerError {
		logger.Error(err, "landing request failed", map[string]interface{}{
			"path":   c.Path(),
			"status": status,
		})
	}
	return respondStatus(c, status, err)
}

func respondStatus(c *fiber.Ctx, status int, err error) error {
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
