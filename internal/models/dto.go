package models

type AnalyzeResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type StatusResponse struct {
	ID       string   `json:"id"`
	Done     bool     `json:"done"`
	Failed   bool     `json:"failed"`
	Statuses []string `json:"statuses"`
}

type ResumeListResponse struct {
	Resumes []Resume `json:"resumes"`
}
