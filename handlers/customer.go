package handlers

import (
	"net/http"

	"homely/services/customer"
	"homely/services/payment"
	"homely/utils"

	"github.com/gin-gonic/gin"
)

var (
	customerProvider customer.Provider
	paymentService   payment.MethodService
)

// SetCustomerProvider injects the customer context provider.
func SetCustomerProvider(p customer.Provider) {
	customerProvider = p
}

// SetPaymentService injects the saved-payment-method lister.
func SetPaymentService(svc payment.MethodService) {
	paymentService = svc
}

// ListAddresses returns the customer's saved addresses for the location step.
func ListAddresses(c *gin.Context) {
	customerID := c.GetString("customerID")

	addrs, err := customerProvider.ListAddresses(c.Request.Context(), customerID)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list addresses", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"addresses": addrs})
}

// ListPaymentMethods returns the customer's saved payment methods.
func ListPaymentMethods(c *gin.Context) {
	customerID := c.GetString("customerID")

	cust, err := customerProvider.Current(c.Request.Context(), customerID)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to resolve customer", err.Error())
		return
	}

	methods, err := paymentService.ListSavedMethods(c.Request.Context(), cust.StripeID)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list payment methods", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"paymentMethods": methods})
}
