package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dohyun/newstalk/internal/model"
)

// ChatServiceInterface 는 요약/대화 핸들러가 필요로 하는 서비스 인터페이스.
type ChatServiceInterface interface {
	// Summarize 는 뉴스 목록의 종합 요약을 생성한다.
	Summarize(ctx context.Context, news []model.NewsItem) (string, error)
	// Respond 는 뉴스와 대화 이력을 컨텍스트로 사용자 메시지에 응답한다.
	Respond(ctx context.Context, message string, news []model.NewsItem, history []model.ChatMessage) (string, error)
}

// ChatHandler 는 요약과 대화의 HTTP 핸들러.
type ChatHandler struct {
	service ChatServiceInterface
}

// NewChatHandler 는 ChatHandler 를 생성한다.
func NewChatHandler(service ChatServiceInterface) *ChatHandler {
	return &ChatHandler{service: service}
}

// summarizeRequest 는 요약 요청의 본문.
type summarizeRequest struct {
	News []model.NewsItem `json:"news"`
}

// summarizeResponse 는 요약의 API 응답.
type summarizeResponse struct {
	Summary string `json:"summary"`
}

// chatRequest 는 대화 요청의 본문.
// News 와 ConversationHistory 는 선택 사항.
type chatRequest struct {
	Message             string              `json:"message"`
	News                []model.NewsItem    `json:"news"`
	ConversationHistory []model.ChatMessage `json:"conversationHistory"`
}

// chatResponse 는 대화의 API 응답.
type chatResponse struct {
	Reply string `json:"reply"`
}

// Summarize 는 뉴스 요약을 처리한다.
// POST /api/summarize
func (h *ChatHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	var req summarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	summary, err := h.service.Summarize(r.Context(), req.News)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summarizeResponse{Summary: summary})
}

// Chat 은 뉴스 기반 대화를 처리한다.
// POST /api/chat
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	reply, err := h.service.Respond(r.Context(), req.Message, req.News, req.ConversationHistory)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(chatResponse{Reply: reply})
}
