package discovery

import (
	"math"

	"github.com/mmeshcher/homeservices/internal/model"
)

const maxRating = 5

// AverageRating возвращает средний рейтинг, округлённый до ближайшего шага 0.5.
// Оценки вне диапазона 0..5 приводятся к границам. Для пустого списка отзывов возвращается 0.
func AverageRating(reviews []model.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}

	sum := 0
	for _, r := range reviews {
		sum += min(max(r.Rating, 0), maxRating)
	}
	avg := float64(sum) / float64(len(reviews))

	return math.Round(avg*2) / 2
}

// Stars описывает отображение рейтинга пятью звёздами.
type Stars struct {
	Full  int `json:"full"`
	Half  int `json:"half"`
	Empty int `json:"empty"`
}

// StarsFor раскладывает округлённый рейтинг на полные, половинные и пустые звёзды.
func StarsFor(avg float64) Stars {
	avg = math.Max(0, math.Min(maxRating, avg))

	full := int(math.Floor(avg))
	half := 0
	if avg-float64(full) >= 0.5 {
		half = 1
	}

	return Stars{Full: full, Half: half, Empty: maxRating - full - half}
}
