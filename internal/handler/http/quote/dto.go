package quote

import "github.com/AuroraDai/weihao/internal/domain/entity"

// DTO represents the JSON structure for a ticker snapshot.
type DTO struct {
	Ticker       string            `json:"ticker" example:"AAPL"`
	Fundamentals map[string]string `json:"fundamentals"`
	News         []entity.NewsItem `json:"news"`
	ChartURL     string            `json:"chart_url" example:"https://finviz.com/chart.ashx?t=AAPL&ty=c&ta=1&p=d"`
}
