package handler

import (
	"log"
	"net/http"
	"strings"

	"github.com/ukai02/iitk-transport/internal/middleware"
	"github.com/ukai02/iitk-transport/internal/service"

	"github.com/gin-gonic/gin"
)

type SMSHandler struct {
	gateway *service.GatewayService
}

func NewSMSHandler(gateway *service.GatewayService) *SMSHandler {
	return &SMSHandler{gateway: gateway}
}

// inbound is the canonical form of one webhook delivery, whichever wire
// format it arrived in.
type inbound struct {
	Phone   string
	Message string
}

// normalizeInbound accepts either JSON {phone, msg} (simulator style) or
// a form body with From/phone and Body/msg (carrier-gateway style).
func normalizeInbound(c *gin.Context) inbound {
	if strings.HasPrefix(c.ContentType(), "application/json") {
		var body struct {
			Phone string `json:"phone"`
			Msg   string `json:"msg"`
		}
		if err := c.ShouldBindJSON(&body); err == nil {
			return inbound{Phone: body.Phone, Message: strings.TrimSpace(body.Msg)}
		}
		return inbound{}
	}
	phone := c.PostForm("From")
	if phone == "" {
		phone = c.PostForm("phone")
	}
	msg := c.PostForm("Body")
	if msg == "" {
		msg = c.PostForm("msg")
	}
	return inbound{Phone: phone, Message: strings.TrimSpace(msg)}
}

// Webhook handles one inbound text command. The HTTP status is 200 in
// every case; bad commands and even storage failures are reported in the
// reply text, the way a carrier gateway expects.
func (h *SMSHandler) Webhook(c *gin.Context) {
	in := normalizeInbound(c)

	reply, err := h.gateway.Handle(in.Phone, in.Message)
	if err != nil {
		log.Printf("[sms] gateway error for %s: %v", in.Phone, err)
		middleware.SMSCommandsTotal.WithLabelValues("system_error").Inc()
		c.JSON(http.StatusOK, gin.H{"status": "success", "reply": "System error. Please try again later."})
		return
	}
	middleware.SMSCommandsTotal.WithLabelValues("handled").Inc()
	c.JSON(http.StatusOK, gin.H{"status": "success", "reply": reply})
}
