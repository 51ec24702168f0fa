// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package segment

import (
	"strings"

	"github.com/samber/lo"

	"github.com/danielhkuo/voxpop/models"
)

// Eligible reports whether a user with the given demographics passes every
// dimension of the survey's segmentation.
func Eligible(seg models.Segmentation, d models.Demographics) bool {
	for _, dim := range models.Dimensions {
		if !matches(seg[dim], d.Value(dim)) {
			return false
		}
	}
	return true
}

// Filter keeps the surveys the user is eligible for, preserving order
func Filter(surveys []models.Survey, user models.User) []models.Survey {
	return lo.Filter(surveys, func(s models.Survey, _ int) bool {
		return Eligible(s.Segmentation, user.Demographics)
	})
}

func matches(accepted []string, value *string) bool {
	accepted = lo.Compact(lo.Map(accepted, func(v string, _ int) string {
		return normalize(v)
	}))
	if len(accepted) == 0 {
		return true
	}
	if value == nil {
		return false
	}
	v := normalize(*value)
	if v == "" {
		return false
	}
	return lo.Contains(accepted, v)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
