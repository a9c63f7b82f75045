package httpinterface

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"github.com/chatcheckout/checkout-daemon/internal/core/application"
	"github.com/chatcheckout/checkout-daemon/internal/core/domain"
	"github.com/chatcheckout/checkout-daemon/internal/core/ports"
)

type checkoutHandler struct {
	checkoutSvc application.CheckoutService
}

// NewRouter returns the gin engine exposing the checkout REST interface.
func NewRouter(checkoutSvc application.CheckoutService) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	h := &checkoutHandler{checkoutSvc}

	v1 := router.Group("/v1")
	v1.POST("/checkouts", h.startCheckout)
	v1.GET("/checkouts", h.listCheckouts)
	v1.GET("/checkouts/:id", h.getCheckout)
	v1.POST("/checkouts/:id/confirm", h.confirmCheckout)
	v1.POST("/checkouts/:id/cancel", h.cancelCheckout)
	v1.POST("/checkouts/:id/reconcile", h.reconcileCheckout)
	v1.GET("/transactions/:txId/checkout", h.getCheckoutWithTxId)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

type startCheckoutPayload struct {
	ConversationId   string `json:"conversationId"`
	ProductReference string `json:"productReference"`
	LinkId           string `json:"linkId"`
	WalletAddress    string `json:"walletAddress"`
	FiatAmount       string `json:"fiatAmount"`
	SettlementAsset  string `json:"settlementAsset"`
}

func (h *checkoutHandler) startCheckout(c *gin.Context) {
	var payload startCheckoutPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fiatAmount, err := decimal.NewFromString(payload.FiatAmount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": domain.ErrInvalidAmount.Error(),
		})
		return
	}

	info, err := h.checkoutSvc.StartCheckout(c.Request.Context(),
		application.StartCheckoutRequest{
			ConversationId:   payload.ConversationId,
			ProductReference: payload.ProductReference,
			LinkId:           payload.LinkId,
			WalletAddress:    payload.WalletAddress,
			FiatAmount:       fiatAmount,
			SettlementAsset:  payload.SettlementAsset,
		},
	)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, info)
}

func (h *checkoutHandler) getCheckout(c *gin.Context) {
	info, err := h.checkoutSvc.GetCheckout(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h *checkoutHandler) getCheckoutWithTxId(c *gin.Context) {
	info, err := h.checkoutSvc.GetCheckoutWithTxId(
		c.Request.Context(), c.Param("txId"),
	)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h *checkoutHandler) listCheckouts(c *gin.Context) {
	infos, err := h.checkoutSvc.ListCheckouts(c.Request.Context())
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"checkouts": infos})
}

func (h *checkoutHandler) confirmCheckout(c *gin.Context) {
	info, err := h.checkoutSvc.ConfirmCheckout(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h *checkoutHandler) cancelCheckout(c *gin.Context) {
	if err := h.checkoutSvc.CancelCheckout(
		c.Request.Context(), c.Param("id"),
	); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

func (h *checkoutHandler) reconcileCheckout(c *gin.Context) {
	info, err := h.checkoutSvc.ReconcileCheckout(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, info)
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrCheckoutNotFound):
		return http.StatusNotFound
	case errors.Is(err, application.ErrSessionBusy),
		errors.Is(err, domain.ErrCheckoutUnresolved),
		errors.Is(err, application.ErrStillUnresolved),
		errors.Is(err, domain.ErrCheckoutMustBeUnresolved),
		errors.Is(err, domain.ErrCheckoutMustBeAwaitingConfirmation):
		return http.StatusConflict
	case errors.Is(err, ports.ErrWalletUnavailable),
		errors.Is(err, ports.ErrRateUnavailable),
		errors.Is(err, ports.ErrNoRouteAvailable),
		errors.Is(err, ports.ErrSubmissionTimeout):
		return http.StatusBadGateway
	case errors.Is(err, ports.ErrSubmissionRejected),
		errors.Is(err, domain.ErrSlippageExceeded),
		errors.Is(err, domain.ErrQuoteExpired):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}
