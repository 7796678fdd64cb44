package model

import "time"

// ItemCategory classifies a stock keeping unit.
type ItemCategory string

const (
	ItemCategoryCertificate      ItemCategory = "certificate"
	ItemCategoryCord             ItemCategory = "cord"
	ItemCategoryBadge            ItemCategory = "badge"
	ItemCategorySpecialtyBadge   ItemCategory = "specialty_badge"
	ItemCategoryProgressionBadge ItemCategory = "progression_badge"
)

// ItemLevel describes the progression level an item belongs to.
type ItemLevel string

const (
	ItemLevelNone  ItemLevel = "none"
	ItemLevelOne   ItemLevel = "level_1"
	ItemLevelTwo   ItemLevel = "level_2"
	ItemLevelThree ItemLevel = "level_3"
)

// Branch identifies the scout branch an item is intended for.
type Branch string

const (
	BranchAll      Branch = "all"
	BranchYouth    Branch = "youth"
	BranchScouter  Branch = "scouter"
	BranchCubScout Branch = "cub_scout"
	BranchScout    Branch = "scout"
	BranchSenior   Branch = "senior"
	BranchRover    Branch = "rover"
)

// Item is a stock keeping unit of the troop supply inventory.
type Item struct {
	ID          int64
	Category    ItemCategory
	Level       ItemLevel
	Description string
	Quantity    int64
	UnitValue   float64
	TotalValue  float64
	Branch      Branch
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RecalculateTotal refreshes the derived total value. TotalValue is never
// settable on its own; every mutation path goes through this.
func (i *Item) RecalculateTotal() {
	i.TotalValue = float64(i.Quantity) * i.UnitValue
}

// ValidCategory reports whether the category is one of the known values.
func ValidCategory(c ItemCategory) bool {
	switch c {
	case ItemCategoryCertificate, ItemCategoryCord, ItemCategoryBadge,
		ItemCategorySpecialtyBadge, ItemCategoryProgressionBadge:
		return true
	}
	return false
}

// ValidLevel reports whether the level is one of the known values.
func ValidLevel(l ItemLevel) bool {
	switch l {
	case ItemLevelNone, ItemLevelOne, ItemLevelTwo, ItemLevelThree:
		return true
	}
	return false
}

// ValidBranch reports whether the branch is one of the known values.
func ValidBranch(b Branch) bool {
	switch b {
	case BranchAll, BranchYouth, BranchScouter, BranchCubScout,
		BranchScout, BranchSenior, BranchRover:
		return true
	}
	return false
}
