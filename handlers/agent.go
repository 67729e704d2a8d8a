package handlers

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"tableorder/models"
	"tableorder/services/agent"
	"tableorder/services/speech"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const allowedAudioExtension = ".wav"

// AgentHandler exposes the conversational pipeline over text and voice.
type AgentHandler struct {
	Agent agent.Agent
	// Transcriber is optional. Without it /agent/voice answers 503.
	Transcriber speech.Transcriber
}

func NewAgentHandler(a agent.Agent, t speech.Transcriber) *AgentHandler {
	return &AgentHandler{Agent: a, Transcriber: t}
}

func (h *AgentHandler) Chat(c *gin.Context) {
	var req models.AgentChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message must not be blank"})
		return
	}

	resp, err := h.Agent.HandleMessage(c.Request.Context(), req.SessionID, message)
	if err != nil {
		respondError(c, err)
		return
	}
	getLogger(c).Debug("Agent reply",
		zap.String("session_id", req.SessionID),
		zap.String("intent", resp.Intent),
		zap.String("flow", string(resp.Flow)),
		zap.String("action", string(resp.Decision.Action)))
	c.JSON(http.StatusOK, resp)
}

// Voice transcribes an uploaded WAV clip and runs the transcript through the
// same pipeline as Chat.
func (h *AgentHandler) Voice(c *gin.Context) {
	if h.Transcriber == nil {
		voiceUnavailable(c)
		return
	}

	sessionID := c.PostForm("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id is required"})
		return
	}
	language := c.DefaultPostForm("language", speech.DefaultLanguage)

	file, header, err := c.Request.FormFile("audio")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "audio file is required", "details": err.Error()})
		return
	}
	defer file.Close()

	if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != allowedAudioExtension {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid file type",
			"details": fmt.Sprintf("expected %s, got %s", allowedAudioExtension, ext),
		})
		return
	}

	audio, err := io.ReadAll(io.LimitReader(file, speech.MaxFileSize+1))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read audio file", "details": err.Error()})
		return
	}
	if len(audio) > speech.MaxFileSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "audio file too large"})
		return
	}

	transcript, err := h.Transcriber.Transcribe(c.Request.Context(), audio, language)
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.Agent.HandleMessage(c.Request.Context(), sessionID, transcript)
	if err != nil {
		respondError(c, err)
		return
	}
	resp.Transcript = transcript
	c.JSON(http.StatusOK, resp)
}

func voiceUnavailable(c *gin.Context) {
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": "voice ordering is not configured"})
}
