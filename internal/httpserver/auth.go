package httpserver

import (
	"errors"
	"log"
	"net/http"

	"storefront/internal/domain"
	customersvc "storefront/internal/service/customer"

	"github.com/gin-gonic/gin"
)

type authHandlers struct {
	customers CustomerService
	logger    *log.Logger
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type customerPayload struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func toCustomerPayload(c domain.Customer) customerPayload {
	return customerPayload{ID: c.ID, Name: c.Name, Email: c.Email}
}

// POST /signup/
func (a *authHandlers) signup(c *gin.Context) {
	var in customersvc.SignupInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	customer, err := a.customers.Signup(c.Request.Context(), in)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"customer": toCustomerPayload(*customer)})
}

// POST /login/
func (a *authHandlers) login(c *gin.Context) {
	var in loginRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	customer, access, refresh, err := a.customers.Login(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		if errors.Is(err, customersvc.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		a.logger.Printf("login: email=%s error=%v", in.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"customer":     toCustomerPayload(*customer),
		"accessToken":  access,
		"refreshToken": refresh,
		"expiresIn":    a.customers.AccessTTLSeconds(),
	})
}
