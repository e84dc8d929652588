package core

import (
	"strings"
)

const (
	GroupVegetables Group = "Vegetables"
	GroupFruits     Group = "Fruits"
	GroupProtein    Group = "Protein"
	GroupGrains     Group = "Grains"
	GroupDairy      Group = "Dairy"
	GroupOther      Group = "Other"
)

type (
	// Group tags a category for icon selection only.
	Group string

	FoodCategory struct {
		ID    string
		Name  string // unique among categories
		Group Group
	}

	// MealIdeas holds free-text notes for one day. Empty fields mean absent.
	MealIdeas struct {
		Breakfast string
		Lunch     string
		Dinner    string
	}
)

// DefaultCategoryNames are the categories a fresh tracker starts with.
var DefaultCategoryNames = []string{
	string(GroupVegetables),
	string(GroupFruits),
	string(GroupProtein),
	string(GroupGrains),
	string(GroupDairy),
}

var groupIcons = map[Group]string{
	GroupVegetables: "🥕",
	GroupFruits:     "🍎",
	GroupProtein:    "🥚",
	GroupGrains:     "🌾",
	GroupDairy:      "🥛",
}

const fallbackIcon = "🍴"

// GroupFor maps a category name onto a known group, falling back to Other.
func GroupFor(name string) Group {
	g := Group(strings.TrimSpace(name))
	if _, ok := groupIcons[g]; ok {
		return g
	}
	return GroupOther
}

// Known reports whether g has a dedicated icon.
func (g Group) Known() bool {
	_, ok := groupIcons[g]
	return ok
}

// Icon returns the glyph rendered for the group.
func (g Group) Icon() string {
	if icon, ok := groupIcons[g]; ok {
		return icon
	}
	return fallbackIcon
}

// Icon returns the glyph rendered for the category's group.
func (c FoodCategory) Icon() string {
	return c.Group.Icon()
}

// IsEmpty reports whether no field carries text. An empty MealIdeas is the
// same as no entry at all.
func (m MealIdeas) IsEmpty() bool {
	return strings.TrimSpace(m.Breakfast) == "" &&
		strings.TrimSpace(m.Lunch) == "" &&
		strings.TrimSpace(m.Dinner) == ""
}
