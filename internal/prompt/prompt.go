// Package prompt builds the prompt text sent to the generation model.
package prompt

import (
	"strings"

	"github.com/ashureev/housing-outlook/internal/domain"
)

const strategyTemplate = `당신은 대한민국 최고의 부동산 전문가입니다.
2026년 대한민국 부동산 시장의 핵심 키워드인 '공급 절벽(서울 입주물량 급감)'과 '지역별 초양극화'를 바탕으로 사용자에게 맞춤형 조언을 해주세요.

[사용자 정보]
- 현재 상태: {{status}}
- 관심 지역/자금: {{target}}

[요청사항]
1. 사용자의 상황에 대한 냉철한 분석.
2. 2026년 시장 전망(공급부족, 전세가 상승 등)과 연결된 구체적인 행동 가이드.
3. 추천 전략 (매수/매도/관망 등)을 명확하게 제시.

답변은 전문적이지만 친절하게, 요점을 명확히(Bullet point 활용) 작성해주세요. 한국어로 답변하세요.`

// ChatSystemInstruction frames every chat request with the report's key findings.
const ChatSystemInstruction = `당신은 '2026년 부동산 시장 전망 리포트'의 AI 도우미입니다.
이 리포트의 핵심 내용은 다음과 같습니다:
1. 2026년은 '공급 절벽'이 현실화되는 해이며, 서울 아파트 입주 물량이 7,145가구(평년 대비 71% 감소)로 예상됨.
2. 전세 가격은 매물 부족으로 인해 4% 이상 상승할 전망.
3. 금리는 2.25% 내외로 하향 안정화되나 DSR 규제는 유지됨.
4. 시장은 서울 핵심지(상승), 수도권(강보합), 지방(침체)로 극심하게 양극화될 것임.

이 내용을 바탕으로 사용자의 질문에 한국어로 답변하세요. 답변은 3문장 내외로 간결하게 핵심만 전달하세요.`

// MessageEmptyTarget is shown when the strategy form has no target description.
const MessageEmptyTarget = "관심 지역이나 예산/상황을 입력해주세요."

// BuildStrategyPrompt embeds the request into the strategy template.
// The target is embedded as given; trimming only decides emptiness.
func BuildStrategyPrompt(req domain.StrategyRequest) (string, error) {
	if strings.TrimSpace(req.TargetDescription) == "" {
		return "", &domain.ValidationError{Field: "target", Message: MessageEmptyTarget}
	}
	r := strings.NewReplacer(
		"{{status}}", req.OccupancyStatus.Label(),
		"{{target}}", req.TargetDescription,
	)
	return r.Replace(strategyTemplate), nil
}

// BuildChatPrompt renders the system framing, every prior turn in order, and the new message.
// History is never truncated.
func BuildChatPrompt(history []domain.ConversationTurn, newMessage string) string {
	var b strings.Builder
	b.WriteString(ChatSystemInstruction)
	b.WriteString("\n\n이전 대화:\n")
	for i, turn := range history {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(turn.Speaker.Label())
		b.WriteString(": ")
		b.WriteString(turn.Text)
	}
	b.WriteString("\n\n사용자 질문: ")
	b.WriteString(newMessage)
	return b.String()
}
