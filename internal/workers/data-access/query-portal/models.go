package queryportal

type Input struct {
	QueryType string                 `json:"queryType"`
	Params    map[string]interface{} `json:"params"`
}

type Output struct {
	Data          interface{} `json:"data"`
	RowCount      int         `json:"rowCount"`
	ExecutionTime int64       `json:"executionTime"`
}
