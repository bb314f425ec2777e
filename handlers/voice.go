// File: handlers/voice.go
package handlers

import (
	"net/http"

	"praxisagent/services/conversation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// VoiceHandler serves the telephony webhooks. The transport delivers
// transcribed speech per turn and speaks whatever TwiML we hand back.
type VoiceHandler struct {
	Engine conversation.ConversationEngine
	Logger *zap.Logger
}

func NewVoiceHandler(engine conversation.ConversationEngine, logger *zap.Logger) *VoiceHandler {
	return &VoiceHandler{Engine: engine, Logger: logger}
}

// CallStartHandler answers a fresh inbound call: it resets the call's
// session and speaks the greeting.
func (h *VoiceHandler) CallStartHandler(c *gin.Context) {
	callID := c.PostForm("CallSid")
	if callID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing CallSid"})
		return
	}

	greeting, err := h.Engine.StartCall(c.Request.Context(), callID)
	if err != nil {
		h.Logger.Error("failed to start call", zap.String("callID", callID), zap.Error(err))
		h.respondSay(c, conversation.PromptInternalError)
		return
	}
	h.respondGather(c, greeting)
}

// UtteranceHandler processes one turn of the conversation.
func (h *VoiceHandler) UtteranceHandler(c *gin.Context) {
	callID := c.PostForm("CallSid")
	if callID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing CallSid"})
		return
	}
	speech := c.PostForm("SpeechResult")

	turn, err := h.Engine.HandleUtterance(c.Request.Context(), callID, speech)
	if err != nil {
		// Store failures and out-of-enum steps end up here; the caller
		// hears a generic apology, never the success confirmation.
		h.Logger.Error("utterance handling failed",
			zap.String("callID", callID), zap.Error(err))
		h.respondSay(c, conversation.PromptInternalError)
		return
	}

	if turn.EndCall {
		h.respondSay(c, turn.Speech)
		return
	}
	h.respondGather(c, turn.Speech)
}

func (h *VoiceHandler) respondGather(c *gin.Context, text string) {
	body, err := gatherTwiML(text)
	if err != nil {
		h.Logger.Error("failed to render TwiML", zap.Error(err))
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, "application/xml", []byte(body))
}

func (h *VoiceHandler) respondSay(c *gin.Context, text string) {
	body, err := sayTwiML(text)
	if err != nil {
		h.Logger.Error("failed to render TwiML", zap.Error(err))
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, "application/xml", []byte(body))
}
