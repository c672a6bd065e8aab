package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tair/pharmacy-backend/internal/notification/usecase/command"
	"github.com/tair/pharmacy-backend/internal/notification/usecase/query"
	"github.com/tair/pharmacy-backend/pkg/apperror"
	"github.com/tair/pharmacy-backend/pkg/response"
)

// NotificationHandler handles HTTP requests for SMS templates and sending
type NotificationHandler struct {
	createTemplate *command.CreateTemplateHandler
	updateTemplate *command.UpdateTemplateHandler
	deleteTemplate *command.DeleteTemplateHandler
	send           *command.SendSMSHandler
	listTemplates  *query.ListTemplatesHandler
	listOutbox     *query.ListOutboxHandler
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(
	createTemplate *command.CreateTemplateHandler,
	updateTemplate *command.UpdateTemplateHandler,
	deleteTemplate *command.DeleteTemplateHandler,
	send *command.SendSMSHandler,
	listTemplates *query.ListTemplatesHandler,
	listOutbox *query.ListOutboxHandler,
) *NotificationHandler {
	return &NotificationHandler{
		createTemplate: createTemplate,
		updateTemplate: updateTemplate,
		deleteTemplate: deleteTemplate,
		send:           send,
		listTemplates:  listTemplates,
		listOutbox:     listOutbox,
	}
}

// RegisterRoutes registers all SMS routes
func (h *NotificationHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/sms/templates", h.ListTemplates).Methods("GET")
	router.HandleFunc("/sms/templates", h.CreateTemplate).Methods("POST")
	router.HandleFunc("/sms/templates/{id:[0-9]+}", h.UpdateTemplate).Methods("PUT")
	router.HandleFunc("/sms/templates/{id:[0-9]+}", h.DeleteTemplate).Methods("DELETE")
	router.HandleFunc("/sms/send", h.Send).Methods("POST")
	router.HandleFunc("/sms/outbox", h.Outbox).Methods("GET")
}

type templateRequest struct {
	Name *string `json:"name"`
	Body *string `json:"body"`
}

type sendRequest struct {
	To         string            `json:"to" validate:"required"`
	TemplateID *uint             `json:"template_id"`
	Body       *string           `json:"body"`
	Params     map[string]string `json:"params"`
}

// ListTemplates godoc
// @Summary List SMS templates
// @Tags SMS
// @Security BearerAuth
// @Produce json
// @Success 200 {array} domain.Template
// @Router /sms/templates [get]
func (h *NotificationHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	rows, err := h.listTemplates.Handle(r.Context())
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, rows)
}

// CreateTemplate godoc
// @Summary Create SMS template
// @Tags SMS
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body templateRequest true "Template"
// @Success 201 {object} domain.Template
// @Failure 400 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /sms/templates [post]
func (h *NotificationHandler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}
	t, err := h.createTemplate.Handle(r.Context(), command.TemplateCommand{Name: req.Name, Body: req.Body})
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusCreated, t)
}

// UpdateTemplate godoc
// @Summary Update SMS template
// @Tags SMS
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Template ID"
// @Param request body templateRequest true "Fields to change"
// @Success 200 {object} domain.Template
// @Failure 404 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /sms/templates/{id} [put]
func (h *NotificationHandler) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	var req templateRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}
	t, err := h.updateTemplate.Handle(r.Context(), id, command.TemplateCommand{Name: req.Name, Body: req.Body})
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, t)
}

// DeleteTemplate godoc
// @Summary Delete SMS template
// @Tags SMS
// @Security BearerAuth
// @Produce json
// @Param id path int true "Template ID"
// @Success 200 {object} response.OKBody
// @Failure 404 {object} response.ErrorBody
// @Router /sms/templates/{id} [delete]
func (h *NotificationHandler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	if err := h.deleteTemplate.Handle(r.Context(), id); err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w)
}

// Send godoc
// @Summary Send an SMS
// @Description Renders the template or body, records it in the outbox and dispatches it. Delivery failures are reported in the returned row's status.
// @Tags SMS
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body sendRequest true "Message"
// @Success 201 {object} domain.OutboxMessage
// @Failure 400 {object} response.ErrorBody
// @Router /sms/send [post]
func (h *NotificationHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := response.DecodeAndValidate(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}
	msg, err := h.send.Handle(r.Context(), command.SendSMSCommand{
		To:         req.To,
		TemplateID: req.TemplateID,
		Body:       req.Body,
		Params:     req.Params,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusCreated, msg)
}

// Outbox godoc
// @Summary Recent SMS messages
// @Tags SMS
// @Security BearerAuth
// @Produce json
// @Success 200 {array} domain.OutboxMessage
// @Router /sms/outbox [get]
func (h *NotificationHandler) Outbox(w http.ResponseWriter, r *http.Request) {
	rows, err := h.listOutbox.Handle(r.Context())
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, rows)
}

func pathID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil || id == 0 {
		return 0, apperror.Validation("Invalid id")
	}
	return uint(id), nil
}
