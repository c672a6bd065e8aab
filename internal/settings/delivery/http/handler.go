package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tair/pharmacy-backend/internal/settings/usecase/command"
	"github.com/tair/pharmacy-backend/internal/settings/usecase/query"
	"github.com/tair/pharmacy-backend/pkg/apperror"
	"github.com/tair/pharmacy-backend/pkg/response"
)

// SettingsHandler handles HTTP requests for settings
type SettingsHandler struct {
	updateHandler  *command.UpdateSettingsHandler
	listHandler    *query.ListSettingsHandler
	publicHandler  *query.PublicSettingsHandler
	profileHandler *query.GetCompanyProfileHandler
	saveProfile    *command.UpdateCompanyProfileHandler
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(
	updateHandler *command.UpdateSettingsHandler,
	listHandler *query.ListSettingsHandler,
	publicHandler *query.PublicSettingsHandler,
	profileHandler *query.GetCompanyProfileHandler,
	saveProfile *command.UpdateCompanyProfileHandler,
) *SettingsHandler {
	return &SettingsHandler{
		updateHandler:  updateHandler,
		listHandler:    listHandler,
		publicHandler:  publicHandler,
		profileHandler: profileHandler,
		saveProfile:    saveProfile,
	}
}

type companyProfileRequest struct {
	Name          string  `json:"name"`
	Address       *string `json:"address"`
	Phone         *string `json:"phone"`
	Email         *string `json:"email"`
	TaxID         *string `json:"tax_id"`
	ReceiptFooter *string `json:"receipt_footer"`
}

// RegisterRoutes registers all settings routes
func (h *SettingsHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/settings", h.ListSettings).Methods("GET")
	router.HandleFunc("/settings", h.UpdateSettings).Methods("PUT")
	router.HandleFunc("/settings/public", h.PublicSettings).Methods("GET")
	router.HandleFunc("/settings/company-profile", h.GetCompanyProfile).Methods("GET")
	router.HandleFunc("/settings/company-profile", h.UpdateCompanyProfile).Methods("PUT")
}

// GetCompanyProfile godoc
// @Summary Get the company profile
// @Description Returns null until a profile is saved
// @Tags Settings
// @Security BearerAuth
// @Produce json
// @Success 200 {object} domain.CompanyProfile
// @Router /settings/company-profile [get]
func (h *SettingsHandler) GetCompanyProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profileHandler.Handle(r.Context())
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, profile)
}

// UpdateCompanyProfile godoc
// @Summary Save the company profile
// @Tags Settings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body companyProfileRequest true "Company profile"
// @Success 200 {object} domain.CompanyProfile
// @Failure 400 {object} response.ErrorBody
// @Router /settings/company-profile [put]
func (h *SettingsHandler) UpdateCompanyProfile(w http.ResponseWriter, r *http.Request) {
	var req companyProfileRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}
	profile, err := h.saveProfile.Handle(r.Context(), command.UpdateCompanyProfileCommand{
		Name:          req.Name,
		Address:       req.Address,
		Phone:         req.Phone,
		Email:         req.Email,
		TaxID:         req.TaxID,
		ReceiptFooter: req.ReceiptFooter,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, profile)
}

// ListSettings godoc
// @Summary List all settings
// @Tags Settings
// @Security BearerAuth
// @Produce json
// @Success 200 {array} domain.Setting
// @Router /settings [get]
func (h *SettingsHandler) ListSettings(w http.ResponseWriter, r *http.Request) {
	rows, err := h.listHandler.Handle(r.Context())
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, rows)
}

// PublicSettings godoc
// @Summary Currency and default tax rate
// @Tags Settings
// @Produce json
// @Success 200 {object} domain.PublicSettings
// @Router /settings/public [get]
func (h *SettingsHandler) PublicSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.publicHandler.Handle(r.Context())
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, s)
}

// UpdateSettings godoc
// @Summary Upsert settings
// @Description Body is an object of key/value pairs; numbers and booleans are stored as text, null clears
// @Tags Settings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body map[string]string true "Settings"
// @Success 200 {object} response.OKBody
// @Failure 400 {object} response.ErrorBody
// @Router /settings [put]
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var raw map[string]json.RawMessage
	if err := response.Decode(r, &raw); err != nil {
		response.Error(w, r, err)
		return
	}
	values := make(map[string]*string, len(raw))
	for k, v := range raw {
		s, err := settingValue(v)
		if err != nil {
			response.Error(w, r, apperror.Validation("Invalid value for %s", k))
			return
		}
		values[k] = s
	}
	if err := h.updateHandler.Handle(r.Context(), values); err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w)
}

func settingValue(v json.RawMessage) (*string, error) {
	var decoded interface{}
	if err := json.Unmarshal(v, &decoded); err != nil {
		return nil, err
	}
	var s string
	switch t := decoded.(type) {
	case nil:
		return nil, nil
	case string:
		s = t
	case bool:
		s = strconv.FormatBool(t)
	case float64:
		s = string(v)
	default:
		return nil, apperror.Validation("nested values are not supported")
	}
	return &s, nil
}
