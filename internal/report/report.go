// Package report holds the static figures of the 2026 housing market outlook.
package report

// SupplyPoint is one bar of the Seoul apartment move-in supply chart.
type SupplyPoint struct {
	Year      string `json:"name"`
	Units     int    `json:"value"`
	Label     string `json:"label"`
	Projected bool   `json:"projected,omitempty"`
}

// Indicator is a headline metric card.
type Indicator struct {
	Tag    string `json:"tag"`
	Title  string `json:"title"`
	Value  string `json:"value"`
	Detail string `json:"detail"`
}

// Mood is the market temperature of a region.
type Mood string

const (
	MoodHot  Mood = "hot"
	MoodWarm Mood = "warm"
	MoodCool Mood = "cool"
	MoodCold Mood = "cold"
)

// Region is one row of the regional outlook table.
type Region struct {
	Name     string `json:"name"`
	Mood     Mood   `json:"mood"`
	Keywords string `json:"keywords"`
}

// Persona is a per-situation strategy card.
type Persona struct {
	Title          string `json:"title"`
	Advice         string `json:"advice"`
	Recommendation string `json:"recommendation"`
}

// Outlook is the full static report payload.
type Outlook struct {
	Title        string        `json:"title"`
	BaseDate     string        `json:"base_date"`
	Supply       []SupplyPoint `json:"supply"`
	SupplySource string        `json:"supply_source"`
	Indicators   []Indicator   `json:"indicators"`
	Regions      []Region      `json:"regions"`
	Personas     []Persona     `json:"personas"`
}

var supply = []SupplyPoint{
	{Year: "2024", Units: 24000, Label: "약 2.4만"},
	{Year: "2025", Units: 36000, Label: "약 3.6만"},
	{Year: "2026(E)", Units: 7145, Label: "약 0.7만", Projected: true},
}

var indicators = []Indicator{
	{Tag: "Supply Crisis", Title: "2026 서울 아파트 입주", Value: "7,145가구", Detail: "평년 대비 -71% 급감"},
	{Tag: "Price Rise", Title: "전세 가격 전망", Value: "+4.0%", Detail: "매물 부족으로 인한 강세 지속"},
	{Tag: "Stabilization", Title: "기준 금리 전망", Value: "2.25%", Detail: "하향 안정화, DSR 유지"},
}

var regions = []Region{
	{Name: "서울 (핵심지)", Mood: MoodHot, Keywords: "신고가 경신, 쏠림 심화"},
	{Name: "경기 (수도권)", Mood: MoodWarm, Keywords: "GTX 호재, 전세 수요 유입"},
	{Name: "지방 광역시", Mood: MoodCool, Keywords: "미분양 해소, 입지 차별화"},
	{Name: "지방 중소도시", Mood: MoodCold, Keywords: "인구 감소, 장기 침체 우려"},
}

var personas = []Persona{
	{
		Title:          "무주택 실수요",
		Advice:         "분양가 상승으로 청약 매력도가 낮아지고 있습니다. 전세가율이 오르는 준신축 급매물을 적극 공략하세요.",
		Recommendation: "서울 외곽/경기 핵심지",
	},
	{
		Title:          "1주택 갈아타기",
		Advice:         "양극화는 상급지 이동의 기회입니다. 보유 주택 매도보다 매수 타이밍을 우선적으로 고려하세요.",
		Recommendation: "상급지 선진입 전략",
	},
	{
		Title:          "투자자",
		Advice:         "공급 부족의 장기적 수혜는 '미래의 신축'에 있습니다. 사업시행인가 이후의 재개발/재건축을 주목하세요.",
		Recommendation: "서울 주요 정비사업",
	},
}

// Supply returns a copy of the chart series.
func Supply() []SupplyPoint {
	return append([]SupplyPoint(nil), supply...)
}

// Current returns the full outlook.
func Current() Outlook {
	return Outlook{
		Title:        "2026 부동산 전망 보고서",
		BaseDate:     "2025.11",
		Supply:       Supply(),
		SupplySource: "부동산R114 등 민간 통계 재구성",
		Indicators:   append([]Indicator(nil), indicators...),
		Regions:      append([]Region(nil), regions...),
		Personas:     append([]Persona(nil), personas...),
	}
}
