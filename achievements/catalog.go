// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package achievements

import (
	"github.com/samber/lo"

	"github.com/danielhkuo/voxpop/models"
)

// Metric is the counter an achievement threshold applies to
type Metric string

const (
	MetricParticipations Metric = "participations"
	MetricStreak         Metric = "streak"
	MetricPoints         Metric = "points"
	MetricLevel          Metric = "level"
	// Granted explicitly, never by threshold
	MetricNone Metric = ""
)

// Codes of the achievements granted outside the threshold table
const (
	CodeSponsoredSurvey = "sponsored-survey"
	CodeInviteFriend    = "invite-friend"
	CodeShareResults    = "share-results"
	CodeFeedbackSent    = "feedback-sent"
)

// Definition is one catalog entry. Code is the stable row id.
type Definition struct {
	Code        string
	Name        string
	Description string
	Icon        string
	Metric      Metric
	Threshold   int64
}

// Achievement converts the definition to its API shape
func (d Definition) Achievement() models.Achievement {
	return models.Achievement{
		ID:          d.Code,
		Name:        d.Name,
		Description: d.Description,
		Icon:        d.Icon,
	}
}

// Definitions is the full catalog in display order
var Definitions = []Definition{
	{"participations-1", "Primer voto", "Has participado en tu primera encuesta", "🏆", MetricParticipations, 1},
	{"participations-10", "10 encuestas completadas", "Has participado en 10 encuestas", "📊", MetricParticipations, 10},
	{"participations-50", "50 encuestas completadas", "Has participado en 50 encuestas", "📈", MetricParticipations, 50},
	{"participations-100", "100 encuestas completadas", "Has participado en 100 encuestas", "🎯", MetricParticipations, 100},
	{CodeSponsoredSurvey, "Encuesta patrocinada", "Has participado en una encuesta patrocinada", "💰", MetricNone, 0},
	{"streak-7", "Racha de 7 días", "Has participado 7 días seguidos", "🔥", MetricStreak, 7},
	{"streak-30", "Racha de 30 días", "Has participado 30 días seguidos", "🔥🔥", MetricStreak, 30},
	{"streak-100", "Racha de 100 días", "Has participado 100 días seguidos", "🔥🔥🔥", MetricStreak, 100},
	{"points-100", "100 puntos acumulados", "Has alcanzado 100 puntos en gamificación", "⭐", MetricPoints, 100},
	{"points-500", "500 puntos acumulados", "Has alcanzado 500 puntos en gamificación", "⭐⭐", MetricPoints, 500},
	{"points-1000", "1000 puntos acumulados", "Has alcanzado 1000 puntos en gamificación", "⭐⭐⭐", MetricPoints, 1000},
	{"points-2500", "2500 puntos acumulados", "Has alcanzado 2500 puntos en gamificación", "🏅", MetricPoints, 2500},
	{"points-5000", "5000 puntos acumulados", "Has alcanzado 5000 puntos en gamificación", "🏆", MetricPoints, 5000},
	{"points-10000", "10000 puntos acumulados", "Has alcanzado 10000 puntos en gamificación", "👑", MetricPoints, 10000},
	{"level-5", "Nivel 5 alcanzado", "Has llegado al nivel 5", "🎯", MetricLevel, 5},
	{"level-10", "Nivel 10 alcanzado", "Has llegado al nivel 10", "🎯🎯", MetricLevel, 10},
	{"level-20", "Nivel 20 alcanzado", "Has llegado al nivel 20", "🎯🎯🎯", MetricLevel, 20},
	{"level-30", "Nivel 30 alcanzado", "Has llegado al nivel 30", "👑", MetricLevel, 30},
	{CodeInviteFriend, "Invitar a un amigo", "Has invitado a un amigo a la plataforma", "🤝", MetricNone, 0},
	{CodeShareResults, "Compartir resultados", "Has compartido resultados en redes sociales", "📢", MetricNone, 0},
	{CodeFeedbackSent, "Feedback enviado", "Has enviado retroalimentación sobre una encuesta", "📝", MetricNone, 0},
}

// Stats are the counters the threshold table reads
type Stats struct {
	Participations int64
	Points         int64
	StreakDays     int64
	Level          int64
}

func (s Stats) value(m Metric) int64 {
	switch m {
	case MetricParticipations:
		return s.Participations
	case MetricStreak:
		return s.StreakDays
	case MetricPoints:
		return s.Points
	case MetricLevel:
		return s.Level
	}
	return 0
}

// Qualified returns every threshold achievement the stats meet or exceed
func Qualified(stats Stats) []Definition {
	return lo.Filter(Definitions, func(d Definition, _ int) bool {
		return d.Metric != MetricNone && stats.value(d.Metric) >= d.Threshold
	})
}

// Lookup finds a definition by code
func Lookup(code string) (Definition, bool) {
	return lo.Find(Definitions, func(d Definition) bool {
		return d.Code == code
	})
}
