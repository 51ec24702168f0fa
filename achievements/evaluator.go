// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package achievements

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/danielhkuo/voxpop/db"
	"github.com/danielhkuo/voxpop/models"
)

// Evaluator grants threshold achievements from a user's current counters
type Evaluator struct {
	now func() time.Time
}

// NewEvaluator creates an evaluator stamping grants with now (time.Now if nil)
func NewEvaluator(now func() time.Time) *Evaluator {
	if now == nil {
		now = time.Now
	}
	return &Evaluator{now: now}
}

// LoadStats reads participation count and profile counters for a user
func LoadStats(ctx context.Context, q db.Querier, userID string) (Stats, error) {
	var s Stats

	err := q.QueryRowContext(ctx, `
		SELECT points, streak_days, level FROM public_profile WHERE user_id = $1
	`, userID).Scan(&s.Points, &s.StreakDays, &s.Level)
	if errors.Is(err, sql.ErrNoRows) {
		return Stats{}, models.ErrProfileNotFound
	}
	if err != nil {
		return Stats{}, fmt.Errorf("failed to load profile: %w", err)
	}

	err = q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM participation WHERE user_id = $1
	`, userID).Scan(&s.Participations)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to count participations: %w", err)
	}

	return s, nil
}

// Evaluate grants every qualified achievement the user does not hold yet and
// returns the newly granted ones. Counters are only read.
func (e *Evaluator) Evaluate(ctx context.Context, q db.Querier, userID string) ([]models.Achievement, error) {
	stats, err := LoadStats(ctx, q, userID)
	if err != nil {
		return nil, err
	}

	granted := []models.Achievement{}
	for _, def := range Qualified(stats) {
		ok, err := e.Grant(ctx, q, userID, def.Code)
		if err != nil {
			return nil, err
		}
		if ok {
			granted = append(granted, def.Achievement())
		}
	}

	if len(granted) > 0 {
		slog.Info("achievements granted", "user_id", userID, "count", len(granted))
	}
	return granted, nil
}

// Grant gives one achievement to a user. It reports false when the user
// already holds it or the code is not in the stored catalog.
func (e *Evaluator) Grant(ctx context.Context, q db.Querier, userID, code string) (bool, error) {
	var exists bool
	err := q.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM achievement WHERE id = $1)
	`, code).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to look up achievement %s: %w", code, err)
	}
	if !exists {
		slog.Warn("achievement missing from catalog", "code", code)
		return false, nil
	}

	res, err := q.ExecContext(ctx, `
		INSERT INTO user_achievement (user_id, achievement_id, granted_at)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING
	`, userID, code, e.now().UTC())
	if err != nil {
		return false, fmt.Errorf("failed to grant achievement %s: %w", code, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to grant achievement %s: %w", code, err)
	}
	return n > 0, nil
}

// Seed writes the catalog, updating text and thresholds of existing rows
func Seed(ctx context.Context, q db.Querier) error {
	for _, d := range Definitions {
		_, err := q.ExecContext(ctx, `
			INSERT INTO achievement (id, name, description, icon, metric, threshold)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO UPDATE SET
				name = excluded.name,
				description = excluded.description,
				icon = excluded.icon,
				metric = excluded.metric,
				threshold = excluded.threshold
		`, d.Code, d.Name, d.Description, d.Icon, string(d.Metric), d.Threshold)
		if err != nil {
			return fmt.Errorf("failed to seed achievement %s: %w", d.Code, err)
		}
	}
	return nil
}

// ListGranted returns the user's achievements, oldest first
func ListGranted(ctx context.Context, q db.Querier, userID string) ([]models.UserAchievement, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT a.id, a.name, a.description, a.icon, ua.granted_at
		FROM user_achievement ua
		JOIN achievement a ON a.id = ua.achievement_id
		WHERE ua.user_id = $1
		ORDER BY ua.granted_at, a.id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", err)
	}
	defer rows.Close()

	out := []models.UserAchievement{}
	for rows.Next() {
		var ua models.UserAchievement
		if err := rows.Scan(&ua.ID, &ua.Name, &ua.Description, &ua.Icon, &ua.GrantedAt); err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		out = append(out, ua)
	}
	return out, rows.Err()
}

func listCatalog(ctx context.Context, q db.Querier) ([]models.Achievement, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, name, description, icon FROM achievement
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog: %w", err)
	}
	defer rows.Close()

	byCode := map[string]models.Achievement{}
	for rows.Next() {
		var a models.Achievement
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.Icon); err != nil {
			return nil, fmt.Errorf("failed to scan catalog: %w", err)
		}
		byCode[a.ID] = a
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Known codes keep catalog order; anything added by hand goes last
	out := make([]models.Achievement, 0, len(byCode))
	for _, d := range Definitions {
		if a, ok := byCode[d.Code]; ok {
			out = append(out, a)
			delete(byCode, d.Code)
		}
	}
	extra := lo.Values(byCode)
	sort.Slice(extra, func(i, j int) bool { return extra[i].ID < extra[j].ID })
	return append(out, extra...), nil
}
