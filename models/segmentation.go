// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "github.com/samber/lo"

// Dimension names a demographic attribute a survey can target
type Dimension string

const (
	DimSex           Dimension = "sex"
	DimCity          Dimension = "city"
	DimOccupation    Dimension = "occupation"
	DimEducation     Dimension = "education_level"
	DimReligion      Dimension = "religion"
	DimNationality   Dimension = "nationality"
	DimMaritalStatus Dimension = "marital_status"
)

// Dimensions lists every targetable dimension in a stable order
var Dimensions = []Dimension{
	DimSex, DimCity, DimOccupation, DimEducation, DimReligion, DimNationality, DimMaritalStatus,
}

// ValidDimension reports whether d is one of Dimensions
func ValidDimension(d Dimension) bool {
	return lo.Contains(Dimensions, d)
}

// Segmentation maps a dimension to its accepted values.
// A missing or empty entry means the dimension is unrestricted.
type Segmentation map[Dimension][]string

// Demographics holds the user attributes matched against a Segmentation.
// Nil means the user never filled the attribute in.
type Demographics struct {
	Sex           *string `json:"sex,omitempty"`
	City          *string `json:"city,omitempty"`
	Occupation    *string `json:"occupation,omitempty"`
	Education     *string `json:"education_level,omitempty"`
	Religion      *string `json:"religion,omitempty"`
	Nationality   *string `json:"nationality,omitempty"`
	MaritalStatus *string `json:"marital_status,omitempty"`
}

// Value returns the user's value for a dimension
func (d Demographics) Value(dim Dimension) *string {
	switch dim {
	case DimSex:
		return d.Sex
	case DimCity:
		return d.City
	case DimOccupation:
		return d.Occupation
	case DimEducation:
		return d.Education
	case DimReligion:
		return d.Religion
	case DimNationality:
		return d.Nationality
	case DimMaritalStatus:
		return d.MaritalStatus
	}
	return nil
}
