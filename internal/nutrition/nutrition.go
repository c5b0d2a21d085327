package nutrition

import (
	"fmt"
	"math"
)

// Nutrients holds the seven tracked nutrient values. Depending on context the
// values are per 100 g of an ingredient or absolute amounts for one child.
type Nutrients struct {
	Calories float64 `json:"calories" yaml:"calories"`
	Protein  float64 `json:"protein" yaml:"protein"`
	Carbs    float64 `json:"carbs" yaml:"carbs"`
	Fat      float64 `json:"fat" yaml:"fat"`
	Fiber    float64 `json:"fiber" yaml:"fiber"`
	Iron     float64 `json:"iron" yaml:"iron"`
	Calcium  float64 `json:"calcium" yaml:"calcium"`
}

// Nutrient names a single field of Nutrients.
type Nutrient string

const (
	Calories Nutrient = "calories"
	Protein  Nutrient = "protein"
	Carbs    Nutrient = "carbs"
	Fat      Nutrient = "fat"
	Fiber    Nutrient = "fiber"
	Iron     Nutrient = "iron"
	Calcium  Nutrient = "calcium"
)

// All lists the tracked nutrients in display order.
var All = []Nutrient{Calories, Protein, Carbs, Fat, Fiber, Iron, Calcium}

// Unit returns the display unit of a nutrient.
func (n Nutrient) Unit() string {
	switch n {
	case Calories:
		return "kcal"
	case Iron, Calcium:
		return "mg"
	default:
		return "g"
	}
}

// Add returns the field-wise sum of n and o.
func (n Nutrients) Add(o Nutrients) Nutrients {
	return Nutrients{
		Calories: n.Calories + o.Calories,
		Protein:  n.Protein + o.Protein,
		Carbs:    n.Carbs + o.Carbs,
		Fat:      n.Fat + o.Fat,
		Fiber:    n.Fiber + o.Fiber,
		Iron:     n.Iron + o.Iron,
		Calcium:  n.Calcium + o.Calcium,
	}
}

// Scale multiplies every field by f.
func (n Nutrients) Scale(f float64) Nutrients {
	return Nutrients{
		Calories: n.Calories * f,
		Protein:  n.Protein * f,
		Carbs:    n.Carbs * f,
		Fat:      n.Fat * f,
		Fiber:    n.Fiber * f,
		Iron:     n.Iron * f,
		Calcium:  n.Calcium * f,
	}
}

// ForGrams converts a per-100 g profile into the amounts contained in grams.
func (n Nutrients) ForGrams(grams float64) Nutrients {
	return n.Scale(grams / 100)
}

// Get returns the value of a single nutrient.
func (n Nutrients) Get(k Nutrient) float64 {
	switch k {
	case Calories:
		return n.Calories
	case Protein:
		return n.Protein
	case Carbs:
		return n.Carbs
	case Fat:
		return n.Fat
	case Fiber:
		return n.Fiber
	case Iron:
		return n.Iron
	case Calcium:
		return n.Calcium
	}
	return 0
}

// Validate reports the first negative or non-finite field, if any.
func (n Nutrients) Validate() error {
	for _, k := range All {
		if v := n.Get(k); v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return &NegativeValueError{Nutrient: k, Value: v}
		}
	}
	return nil
}

// NegativeValueError is returned for profiles carrying a negative or
// non-finite amount.
type NegativeValueError struct {
	Nutrient Nutrient
	Value    float64
}

func (e *NegativeValueError) Error() string {
	return fmt.Sprintf("invalid %s value %v: must be a non-negative number", e.Nutrient, e.Value)
}
