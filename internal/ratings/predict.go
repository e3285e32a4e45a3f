package ratings

import (
	"math"

	"github.com/sportnumerics/sportnumerics/internal/models"
)

// Predict projects the score of a against b. Ratings fit in different
// groups are not on a common scale, so a prediction is only made when
// both ratings carry the same non-empty group.
//
// Projected points are rounded half away from zero and floored at zero.
func Predict(a, b *models.TeamRating) (models.Prediction, bool) {
	if a == nil || b == nil {
		return models.Prediction{}, false
	}
	if a.Group == "" || b.Group == "" || a.Group != b.Group {
		return models.Prediction{}, false
	}
	return models.Prediction{
		PointsFor:     projectedPoints(a.Offense, b.Defense),
		PointsAgainst: projectedPoints(b.Offense, a.Defense),
	}, true
}

func projectedPoints(offense, defense float64) int {
	if v := math.Round(offense - defense); v > 0 {
		return int(v)
	}
	return 0
}

// PredictTeams is Predict over two ranked teams.
func PredictTeams(a, b models.RankedTeam) (models.Prediction, bool) {
	return Predict(a.Rating, b.Rating)
}
