package api

type Count struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

type Summary struct {
	Dataset  string  `json:"dataset"`
	Total    int     `json:"total"`
	ByKind   []Count `json:"by_kind"`
	ByRegion []Count `json:"by_region"`
	ByTag    []Count `json:"by_missing_tag"`
}

type Finding struct {
	Account     string   `json:"account"`
	Region      string   `json:"region"`
	Resource    string   `json:"resource"`
	ARN         string   `json:"arn"`
	MissingTags []string `json:"missing_tags"`
}

type FindingList struct {
	Resource string    `json:"resource"`
	Findings []Finding `json:"findings"`
	Omitted  int       `json:"omitted"`
}
