package models

// MonthlyUsage aggregates uploads for one calendar month.
type MonthlyUsage struct {
	Month     string  `json:"month"`
	MonthName string  `json:"monthName"`
	TotalSize int64   `json:"totalSize"`
	FileCount int     `json:"fileCount"`
	SizeInMB  float64 `json:"sizeInMB"`
}

// DashboardSummary holds the account-wide storage totals.
type DashboardSummary struct {
	TotalSizeInBytes int64   `json:"totalSizeInBytes"`
	TotalSizeInMB    float64 `json:"totalSizeInMB"`
	TotalSizeInGB    float64 `json:"totalSizeInGB"`
	TotalFiles       int     `json:"totalFiles"`
}

// Dashboard is the storage usage overview shown on the home screen.
type Dashboard struct {
	Months  []MonthlyUsage   `json:"months"`
	Summary DashboardSummary `json:"summary"`
}
