package controller

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/api-sage/brokerage-ledger/src/internal/adapter/http/middleware"
	"github.com/api-sage/brokerage-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/brokerage-ledger/src/internal/domain"
	"github.com/api-sage/brokerage-ledger/src/internal/usecase/service_interfaces"
)

type UserController struct {
	service  service_interfaces.UserService
	currency domain.Currency
}

func NewUserController(service service_interfaces.UserService, currency domain.Currency) *UserController {
	return &UserController{service: service, currency: currency}
}

// RegisterPublicRoutes mounts the routes reachable without credentials.
func (c *UserController) RegisterPublicRoutes(r chi.Router) {
	r.Post("/users/save", c.register)
}

func (c *UserController) RegisterRoutes(r chi.Router) {
	r.Get("/users/user-info", c.userInfo)
}

func (c *UserController) register(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.RegisterUserRequest
	if !bind[models.RegisterUserResponse](w, r, start, &req) {
		return
	}

	user, account, err := c.service.Register(r.Context(), req.ToRegistration())
	if err != nil {
		writeFailure[models.RegisterUserResponse](w, r, err, start)
		return
	}

	writeSuccess(w, r, http.StatusCreated, "User registered successfully",
		models.NewRegisterUserResponse(user, account, c.currency), start)
}

func (c *UserController) userInfo(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	info, err := c.service.UserInfo(r.Context(), middleware.IdentityFrom(r.Context()))
	if err != nil {
		writeFailure[models.UserInfoResponse](w, r, err, start)
		return
	}

	writeSuccess(w, r, http.StatusOK, "User retrieved successfully", models.NewUserInfoResponse(info, c.currency), start)
}
