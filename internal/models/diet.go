package models

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// Period is an inclusive range of calendar days a diet is assigned for.
type Period struct {
	From time.Time `json:"from" firestore:"from"`
	To   time.Time `json:"to" firestore:"to"`
}

func NewPeriod(from, to string) (Period, error) {
	f, err := time.Parse(DateLayout, from)
	if err != nil {
		return Period{}, fmt.Errorf("invalid start date %q: %w", from, err)
	}
	t, err := time.Parse(DateLayout, to)
	if err != nil {
		return Period{}, fmt.Errorf("invalid end date %q: %w", to, err)
	}
	return Period{From: f, To: t}, nil
}

func (p Period) Valid() bool {
	return !p.From.IsZero() && !p.To.IsZero() && !p.To.Before(p.From)
}

// Overlaps reports whether the two inclusive periods share at least one day.
func (p Period) Overlaps(o Period) bool {
	return !p.From.After(o.To) && !o.From.After(p.To)
}

func (p Period) String() string {
	return p.From.Format(DateLayout) + ".." + p.To.Format(DateLayout)
}

type Nutrition struct {
	Calories float64 `json:"calories" firestore:"calories"`
	Protein  float64 `json:"protein" firestore:"protein"`
	Fat      float64 `json:"fat" firestore:"fat"`
	Carbs    float64 `json:"carbs" firestore:"carbs"`
}

func (n Nutrition) IsZero() bool {
	return n == Nutrition{}
}

type Meal struct {
	MealType     string    `json:"meal_type" firestore:"mealType"`
	Time         string    `json:"time,omitempty" firestore:"time,omitempty"`
	RecipeName   string    `json:"recipe_name" firestore:"recipeName"`
	Instructions string    `json:"instructions" firestore:"instructions"`
	Ingredients  []string  `json:"ingredients" firestore:"ingredients"`
	Nutrition    Nutrition `json:"nutrition" firestore:"nutrition"`
}

// DietDay holds the meals of one worksheet, in row order.
type DietDay struct {
	Name  string `json:"name" firestore:"name"`
	Meals []Meal `json:"meals" firestore:"meals"`
}

type ShoppingItem struct {
	Name     string `json:"name" firestore:"name"`
	Quantity string `json:"quantity,omitempty" firestore:"quantity,omitempty"`
}

// StructuredDiet is the parsed form of a diet workbook.
type StructuredDiet struct {
	Days         []DietDay      `json:"days" firestore:"days"`
	ShoppingList []ShoppingItem `json:"shopping_list" firestore:"shoppingList"`
}

func (d *StructuredDiet) MealCount() int {
	if d == nil {
		return 0
	}
	n := 0
	for _, day := range d.Days {
		n += len(day.Meals)
	}
	return n
}

// AssignedDiet is a StructuredDiet persisted for one account.
type AssignedDiet struct {
	ID        string         `json:"id" firestore:"id"`
	AccountID string         `json:"account_id" firestore:"accountId"`
	Period    Period         `json:"period" firestore:"period"`
	Diet      StructuredDiet `json:"diet" firestore:"diet"`
	CreatedAt time.Time      `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time      `json:"updated_at" firestore:"updatedAt"`
}
