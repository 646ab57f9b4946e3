package domain

import "time"

// HistoryFilter narrows a history listing. Zero values mean "no filter".
type HistoryFilter struct {
	Classification DocumentClass
	Status         DocumentStatus
	FilenameQuery  string
	DateFrom       time.Time
	DateTo         time.Time
	Page           int
	PageSize       int
}

type HistoryPage struct {
	Items      []Document `json:"items"`
	Total      int        `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int        `json:"total_pages"`
}
