// Package chat 은 뉴스 요약과 뉴스 기반 대화의 도메인 로직을 제공한다.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dohyun/newstalk/internal/model"
)

const (
	// historyWindow 는 프롬프트에 포함하는 직전 대화 메시지의 상한.
	historyWindow = 5

	// 생성 결과가 비어 있을 때 반환하는 고정 대체 문구.
	summaryPlaceholder = "요약을 생성할 수 없습니다."
	replyPlaceholder   = "응답을 생성할 수 없습니다."
)

// TextGenerator 는 프롬프트에서 텍스트를 생성하는 인터페이스.
type TextGenerator interface {
	Generate(ctx context.Context, modelName, prompt string) (string, error)
}

// Service 는 요약과 대화의 서비스 계층.
// 프롬프트 구축과 모델 선택을 담당하고 생성 자체는 TextGenerator 에 위임한다.
type Service struct {
	generator    TextGenerator
	chatModel    string
	summaryModel string
	logger       *slog.Logger
}

// NewService 는 Service 의 새 인스턴스를 생성한다.
func NewService(generator TextGenerator, chatModel, summaryModel string, logger *slog.Logger) *Service {
	return &Service{
		generator:    generator,
		chatModel:    chatModel,
		summaryModel: summaryModel,
		logger:       logger,
	}
}

// Summarize 는 뉴스 목록의 종합 요약을 생성한다.
// 뉴스가 비어 있으면 검증 에러를 반환하고, 생성 결과가 비어 있으면
// 고정 대체 문구를 반환한다.
func (s *Service) Summarize(ctx context.Context, news []model.NewsItem) (string, error) {
	if len(news) == 0 {
		return "", model.NewNewsRequiredError()
	}

	summary, err := s.generator.Generate(ctx, s.summaryModel, BuildSummaryPrompt(news))
	if err != nil {
		return "", err
	}
	if summary == "" {
		return summaryPlaceholder, nil
	}

	s.logger.Info("뉴스 요약을 생성했습니다",
		slog.Int("news_count", len(news)),
		slog.String("model", s.summaryModel),
	)

	return summary, nil
}

// Respond 는 사용자 메시지에 대한 대화 응답을 생성한다.
// 뉴스와 대화 이력은 선택 사항이며, 있으면 프롬프트의 컨텍스트로 포함한다.
func (s *Service) Respond(ctx context.Context, message string, news []model.NewsItem, history []model.ChatMessage) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", model.NewMessageRequiredError()
	}

	reply, err := s.generator.Generate(ctx, s.chatModel, BuildChatPrompt(message, news, history))
	if err != nil {
		return "", err
	}
	if reply == "" {
		return replyPlaceholder, nil
	}

	s.logger.Info("대화 응답을 생성했습니다",
		slog.Int("news_count", len(news)),
		slog.Int("history_count", len(history)),
		slog.String("model", s.chatModel),
	)

	return reply, nil
}

// BuildSummaryPrompt 는 뉴스 목록을 번호 목록으로 정리한 요약 프롬프트를 만든다.
func BuildSummaryPrompt(news []model.NewsItem) string {
	lines := make([]string, 0, len(news))
	for i, item := range news {
		lines = append(lines, fmt.Sprintf("%d. %s\n   %s\n", i+1, item.Title, item.Snippet))
	}
	newsText := strings.Join(lines, "\n")

	return "다음 뉴스들을 읽고 요약해주세요. 각 뉴스의 핵심 내용을 간결하게 정리하고, 전체적인 트렌드나 주요 이슈를 파악하여 종합적으로 요약해주세요.\n\n" +
		newsText + "\n\n요약:"
}

// BuildChatPrompt 는 시스템 지시, 뉴스 컨텍스트, 직전 대화 이력, 사용자 메시지를
// 결합한 대화 프롬프트를 만든다. 이력은 최근 5건만 포함한다.
func BuildChatPrompt(message string, news []model.NewsItem, history []model.ChatMessage) string {
	var b strings.Builder
	b.WriteString("당신은 뉴스에 대해 대화할 수 있는 AI 어시스턴트입니다. 사용자의 질문에 답변할 때 제공된 뉴스 정보를 참고하여 정확하고 유용한 답변을 제공해주세요.")

	if len(news) > 0 {
		lines := make([]string, 0, len(news))
		for i, item := range news {
			lines = append(lines, fmt.Sprintf("%d. %s\n   %s\n", i+1, item.Title, item.Snippet))
		}
		b.WriteString("\n\n참고할 뉴스:\n")
		b.WriteString(strings.Join(lines, "\n"))
	}

	if len(history) > 0 {
		recent := history
		if len(recent) > historyWindow {
			recent = recent[len(recent)-historyWindow:]
		}
		lines := make([]string, 0, len(recent))
		for _, msg := range recent {
			label := "사용자"
			if msg.Role == model.ChatRoleAssistant {
				label = "AI"
			}
			lines = append(lines, fmt.Sprintf("%s: %s", label, msg.Content))
		}
		b.WriteString("\n\n이전 대화:\n")
		b.WriteString(strings.Join(lines, "\n"))
	}

	b.WriteString("\n\n사용자: ")
	b.WriteString(message)
	b.WriteString("\n\nAI:")

	return b.String()
}
