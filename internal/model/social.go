package model

const (
	PlatformX          = "X"
	PlatformReddit     = "Reddit"
	PlatformStockTwits = "StockTwits"
	PlatformWeChat     = "WeChat"
)

type SocialComment struct {
	ID        string  `json:"id"`
	Author    string  `json:"author"`
	Content   string  `json:"content"`
	Sentiment string  `json:"sentiment"`
	Platform  string  `json:"platform"`
	Likes     float64 `json:"likes"`
	Timestamp string  `json:"timestamp"`
	URL       string  `json:"url"`
}

type SocialSignal struct {
	Symbol         string          `json:"symbol"`
	BullishPercent float64         `json:"bullishPercent"`
	BuzzScore      float64         `json:"buzzScore"`
	TopComments    []SocialComment `json:"topComments"`
}

type SocialUserHistory struct {
	Author       string          `json:"author"`
	Platform     string          `json:"platform"`
	TrustScore   float64         `json:"trustScore"`
	TrustSummary string          `json:"trustSummary"`
	PastPosts    []TimelineEvent `json:"pastPosts"`
}
