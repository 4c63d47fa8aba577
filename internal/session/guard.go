package session

import (
	"github.com/dongnecli/dongne/internal/region"
)

// Canned guard messages. These are pushed as bot messages without touching
// the backend.
const (
	BusGuardMessage = "🚌 우리 동네 챗봇은 아래의 서울시 버스 정보 데이터를 제공합니다. \n 1. 실시간 버스 위치 \n 2. 해당 버스번호 \n 3. 해당 버스의 혼잡도 \n - 궁금하신 버스의 번호와 정보를 제공해달라고 요청해보세요!"

	ComingSoonMessage = "📌 서비스 준비중입니다. 조금만 기다려주세요!"

	GyeonggiOnlyMessage = "현재 경기도만 서비스 지원중입니다.."
)

// BusGuide explains the bus features instead of issuing a query, and drops
// back to the conversation view so the explanation is readable.
func (s *State) BusGuide() {
	s.PushMessage(Message{Role: RoleBot, Text: BusGuardMessage})
	s.SetMode(ViewConversation)
}

// ComingSoon answers a request for a feature that is not live yet.
func (s *State) ComingSoon() {
	s.PushMessage(Message{Role: RoleBot, Text: ComingSoonMessage})
	s.SetMode(ViewConversation)
}

// LocalCurrencyQuestion builds the canned merchant-map question for the
// saved address. The local-currency data only covers 경기도: for any other
// province it returns ok=false and the caller shows GyeonggiOnlyMessage
// instead of dispatching.
func LocalCurrencyQuestion(sel region.Selection) (string, bool) {
	if !region.IsGyeonggi(sel.Province) {
		return "", false
	}
	city := region.CityBase(sel.City)
	if city == "" {
		city = "경기도"
	}
	return city + " 지역화폐 가맹점 알려줘", true
}
