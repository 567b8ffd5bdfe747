package progress

import (
	"math"
	"time"
)

// CompletionRecord is the fact that a user finished (or un-finished) a lesson.
// At most one record exists per (user, lesson) pair; later writes overwrite.
type CompletionRecord struct {
	UserID      string    `json:"user_id"`
	LessonID    string    `json:"lesson_id"`
	Completed   bool      `json:"completed"`
	CompletedAt time.Time `json:"completed_at"` // UTC
}

// ProductProgress is one product's line in a progress report.
type ProductProgress struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Total       int    `json:"total"`
	Completed   int    `json:"completed"`
	Percentage  int    `json:"percentage"`
}

type OverallProgress struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	Percentage int `json:"percentage"`
}

// Report is a user's completion progress across every product their
// organization is entitled to see, in catalog display order.
type Report struct {
	PerProduct []ProductProgress `json:"per_product"`
	Overall    OverallProgress   `json:"overall"`
	// Warnings carries non-fatal per-product degradations (see Aggregator).
	Warnings []string `json:"warnings,omitempty"`
}

// Percentage computes round(completed/total*100), and 0 on an empty total —
// never a division by zero, never NaN.
func Percentage(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}
