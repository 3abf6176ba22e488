package httpserver

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"storefront/internal/domain"
	ordersvc "storefront/internal/service/order"
	productsvc "storefront/internal/service/product"
	usersvc "storefront/internal/service/user"
)

const (
	msgUserCreated  = "User created successfully!"
	msgLoginOK      = "Login successful!"
	msgOrderCreated = "Order created successfully!"
	msgBadBody      = "Invalid request body"
)

type handlers struct {
	products productService
	users    userService
	orders   orderService
	logger   *log.Logger
}

type errorResponse struct {
	Kind    domain.Kind `json:"kind"`
	Message string      `json:"message"`
	Error   string      `json:"error,omitempty"`
}

type userSummary struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type loginResponse struct {
	Message string      `json:"message"`
	User    userSummary `json:"user"`
}

type orderResponse struct {
	Message string        `json:"message"`
	Order   *domain.Order `json:"order"`
}

func (h *handlers) listProducts(c *gin.Context) {
	products, err := h.products.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *handlers) createProduct(c *gin.Context) {
	var in productsvc.CreateInput
	if !h.bindJSON(c, &in) {
		return
	}
	p, err := h.products.Create(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *handlers) register(c *gin.Context) {
	var in usersvc.Credentials
	if !h.bindJSON(c, &in) {
		return
	}
	if _, err := h.users.Register(c.Request.Context(), in); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": msgUserCreated})
}

func (h *handlers) login(c *gin.Context) {
	var in usersvc.Credentials
	if !h.bindJSON(c, &in) {
		return
	}
	u, err := h.users.Login(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, loginResponse{
		Message: msgLoginOK,
		User:    userSummary{ID: u.ID, Email: u.Email},
	})
}

func (h *handlers) createOrder(c *gin.Context) {
	var in ordersvc.CreateInput
	if !h.bindJSON(c, &in) {
		return
	}
	o, err := h.orders.Create(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, orderResponse{Message: msgOrderCreated, Order: o})
}

func (h *handlers) getOrder(c *gin.Context) {
	o, err := h.orders.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *handlers) bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.respondError(c, domain.NewError(domain.KindValidation, msgBadBody, err))
		return false
	}
	return true
}

// respondError renders err with the status of its kind. Causes of internal
// errors are logged, not returned.
func (h *handlers) respondError(c *gin.Context, err error) {
	kind := domain.KindOf(err)
	resp := errorResponse{Kind: kind, Message: "Server error"}

	var de *domain.Error
	if errors.As(err, &de) {
		resp.Message = de.Message
		if de.Err != nil && kind != domain.KindInternal {
			resp.Error = de.Err.Error()
		}
	}
	if kind == domain.KindInternal {
		h.logger.Printf("request_id=%s %s %s error=%v", c.GetString(requestIDKey), c.Request.Method, c.FullPath(), err)
	}
	c.JSON(kind.HTTPStatus(), resp)
}
