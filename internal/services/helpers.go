package services

import (
	"math"
	"time"
)

func roundFloat(val float64, precision int) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}

func timePtr(t time.Time) *time.Time {
	return &t
}
