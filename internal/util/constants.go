package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

const (
	ExportCSV = "csv"
	ExportPDF = "pdf"

	MimeCSV = "text/csv"
	MimePDF = "application/pdf"
)

// 每完成一个任务折算的学习时长（小时）
const HoursPerCompletedTask = 2

const DaysPerWeek = 7

// RecentProgressLimit 仪表盘展示的最近进度条数
const RecentProgressLimit = 5
