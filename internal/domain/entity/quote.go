package entity

// Quote is a snapshot of one ticker's Finviz quote page: the fundamentals
// table, the recent headlines, and a chart image URL.
type Quote struct {
	Ticker       string
	Fundamentals map[string]string
	News         []NewsItem
	ChartURL     string
}

// NewsItem is one headline from the quote page news table. Date keeps the
// upstream display format ("Jan-05-24 08:30AM"); rows that carry only a
// time inherit the date from the preceding row.
type NewsItem struct {
	Date   string `json:"date" example:"Jan-05-24 08:30AM"`
	Title  string `json:"title"`
	Link   string `json:"link"`
	Source string `json:"source" example:"Reuters"`
}
