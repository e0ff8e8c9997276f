package searchdossiers

type Pagination struct {
	From int `json:"from"`
	Size int `json:"size"`
}

type Input struct {
	Keywords     string     `json:"keywords,omitempty"`
	PositionCode string     `json:"positionCode,omitempty"`
	Status       string     `json:"status,omitempty"`
	Degree       string     `json:"degree,omitempty"`
	Pagination   Pagination `json:"pagination"`
}

type Output struct {
	Data      []map[string]interface{} `json:"data"`
	TotalHits int64                    `json:"totalHits"`
	MaxScore  float64                  `json:"maxScore"`
	Took      int64                    `json:"took"`
}
