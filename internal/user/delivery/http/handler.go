package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/pharmacy-backend/internal/user/usecase/command"
	"github.com/tair/pharmacy-backend/internal/user/usecase/query"
	"github.com/tair/pharmacy-backend/pkg/apperror"
	"github.com/tair/pharmacy-backend/pkg/middleware"
	"github.com/tair/pharmacy-backend/pkg/response"
)

// UserHandler handles HTTP requests for authentication and users
type UserHandler struct {
	loginHandler          *command.LoginUserHandler
	changePasswordHandler *command.ChangePasswordHandler
	createHandler         *command.CreateUserHandler
	listHandler           *query.ListUsersHandler

	loginAttempts *prometheus.CounterVec
}

// NewUserHandler creates a new user handler
func NewUserHandler(
	loginHandler *command.LoginUserHandler,
	changePasswordHandler *command.ChangePasswordHandler,
	createHandler *command.CreateUserHandler,
	listHandler *query.ListUsersHandler,
	reg prometheus.Registerer,
) *UserHandler {
	loginAttempts := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pharmacy_login_attempts_total",
			Help: "Login attempts by result",
		},
		[]string{"result"},
	)
	reg.MustRegister(loginAttempts)

	return &UserHandler{
		loginHandler:          loginHandler,
		changePasswordHandler: changePasswordHandler,
		createHandler:         createHandler,
		listHandler:           listHandler,
		loginAttempts:         loginAttempts,
	}
}

// RegisterRoutes registers all user routes
func (h *UserHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/auth/login", h.Login).Methods("POST")
	router.HandleFunc("/auth/me", h.Me).Methods("GET")
	router.HandleFunc("/auth/change-password", h.ChangePassword).Methods("POST")
	router.HandleFunc("/users", h.ListUsers).Methods("GET")
	router.HandleFunc("/users", h.CreateUser).Methods("POST")
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type meResponse struct {
	UserID uint `json:"user_id"`
	RoleID uint `json:"role_id"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

type createUserRequest struct {
	Username string  `json:"username" validate:"required"`
	Password *string `json:"password"`
	RoleID   *uint   `json:"role_id"`
	FullName *string `json:"full_name"`
}

// Login godoc
// @Summary Login
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body loginRequest true "Credentials"
// @Success 200 {object} command.LoginResponse
// @Failure 401 {object} response.ErrorBody
// @Router /auth/login [post]
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := response.DecodeAndValidate(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	result, err := h.loginHandler.Handle(r.Context(), command.LoginUserCommand{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.loginAttempts.WithLabelValues("failure").Inc()
		response.Error(w, r, err)
		return
	}
	h.loginAttempts.WithLabelValues("success").Inc()
	response.JSON(w, http.StatusOK, result)
}

// Me godoc
// @Summary Current user claims
// @Tags Auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} meResponse
// @Failure 401 {object} response.ErrorBody
// @Router /auth/me [get]
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.Error(w, r, apperror.Unauthorized("Missing token"))
		return
	}
	response.JSON(w, http.StatusOK, meResponse{UserID: claims.UserID, RoleID: claims.RoleID})
}

// ChangePassword godoc
// @Summary Change own password
// @Tags Auth
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body changePasswordRequest true "Passwords"
// @Success 200 {object} response.OKBody
// @Failure 400 {object} response.ErrorBody
// @Failure 401 {object} response.ErrorBody
// @Router /auth/change-password [post]
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.Error(w, r, apperror.Unauthorized("Missing token"))
		return
	}
	var req changePasswordRequest
	if err := response.DecodeAndValidate(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	err := h.changePasswordHandler.Handle(r.Context(), command.ChangePasswordCommand{
		UserID:          claims.UserID,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w)
}

// ListUsers godoc
// @Summary List users
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Success 200 {array} domain.User
// @Router /users [get]
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.listHandler.Handle(r.Context())
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, users)
}

// CreateUser godoc
// @Summary Create user
// @Tags Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body createUserRequest true "User"
// @Success 201 {object} domain.User
// @Failure 409 {object} response.ErrorBody
// @Router /users [post]
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := response.DecodeAndValidate(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	user, err := h.createHandler.Handle(r.Context(), command.CreateUserCommand{
		Username: req.Username,
		Password: req.Password,
		RoleID:   req.RoleID,
		FullName: req.FullName,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusCreated, user)
}
