package usecase

import (
	"strings"

	"github.com/swaplens/backend/internal/domain"
)

// productTaxonomy is the ordered packaged-food taxonomy. Declaration order
// is significant: Classify returns the first entry whose keywords match, so
// more specific types (granola bars) sit above the broader types they would
// otherwise collide with (chocolate). Loaded once, never mutated.
var productTaxonomy = []domain.ProductType{
	{
		Name:          "granola bars",
		Keywords:      []string{"granola bar", "cereal bar", "breakfast bar", "oat bar"},
		MustContain:   []string{"bar", "granola", "oat"},
		Exclude:       []string{"soap", "candy bar"},
		FallbackQuery: "granola bar",
		Homemade:      []string{"no-bake oat and honey bars", "date and nut energy bites"},
	},
	{
		Name:          "protein bars",
		Keywords:      []string{"protein bar", "energy bar", "nutrition bar"},
		MustContain:   []string{"protein", "bar"},
		Exclude:       []string{"soap", "granola"},
		FallbackQuery: "protein bar",
		Homemade:      []string{"homemade protein balls with nut butter and oats"},
	},
	{
		Name:          "tortilla chips",
		Keywords:      []string{"tortilla chip", "corn chip", "nacho"},
		MustContain:   []string{"chip", "tortilla", "corn"},
		Exclude:       []string{"cookie", "chocolate", "potato"},
		FallbackQuery: "tortilla chips",
		Homemade:      []string{"baked corn tortilla wedges with sea salt"},
	},
	{
		Name:          "chips",
		Keywords:      []string{"potato chip", "chips", "crisps", "veggie chip"},
		MustContain:   []string{"chip", "crisp"},
		Exclude:       []string{"cookie", "chocolate", "fish"},
		FallbackQuery: "potato chips",
		Homemade:      []string{"oven-baked potato or kale chips"},
	},
	{
		Name:          "pretzels",
		Keywords:      []string{"pretzel"},
		MustContain:   []string{"pretzel"},
		Exclude:       []string{"chocolate covered", "yogurt covered"},
		FallbackQuery: "pretzels",
	},
	{
		Name:          "popcorn",
		Keywords:      []string{"popcorn", "popped corn"},
		MustContain:   []string{"popcorn", "popped"},
		Exclude:       []string{"caramel corn", "candy"},
		FallbackQuery: "popcorn",
		Homemade:      []string{"stovetop popcorn with olive oil"},
	},
	{
		Name:          "crackers",
		Keywords:      []string{"cracker", "saltine", "wheat thin"},
		MustContain:   []string{"cracker", "saltine"},
		Exclude:       []string{"cookie", "graham"},
		FallbackQuery: "crackers",
		Homemade:      []string{"seed and oat crackers"},
	},
	{
		Name:          "cookies",
		Keywords:      []string{"cookie", "biscotti", "wafer", "graham"},
		MustContain:   []string{"cookie", "wafer", "graham", "biscotti"},
		Exclude:       []string{"cracker", "dough", "mix"},
		FallbackQuery: "cookies",
		Homemade:      []string{"oatmeal banana cookies", "almond flour cookies"},
	},
	{
		Name:          "cereal",
		Keywords:      []string{"cereal", "corn flakes", "granola", "muesli", "oatmeal", "oats"},
		MustContain:   []string{"cereal", "granola", "muesli", "oat", "flakes"},
		Exclude:       []string{"bar", "cookie"},
		FallbackQuery: "breakfast cereal",
		Homemade:      []string{"overnight oats", "homemade muesli with nuts and dried fruit"},
	},
	{
		Name:          "chocolate",
		Keywords:      []string{"chocolate", "cocoa", "candy bar"},
		MustContain:   []string{"chocolate", "cocoa", "cacao"},
		Exclude:       []string{"milk drink", "cereal", "cookie", "ice cream", "syrup"},
		FallbackQuery: "dark chocolate",
		Homemade:      []string{"dark chocolate bark with nuts"},
	},
	{
		Name:          "candy",
		Keywords:      []string{"candy", "gummy", "gummies", "taffy", "licorice", "lollipop", "jelly bean"},
		MustContain:   []string{"candy", "gummy", "gummies", "fruit snack", "chew"},
		Exclude:       []string{"chocolate", "vitamin"},
		FallbackQuery: "fruit snacks",
		Homemade:      []string{"frozen grapes", "homemade fruit leather"},
	},
	{
		Name:          "soda",
		Keywords:      []string{"soda", "cola", "soft drink", "root beer", "ginger ale"},
		MustContain:   []string{"soda", "cola", "sparkling", "seltzer"},
		Exclude:       []string{"bread", "cracker", "baking"},
		FallbackQuery: "sparkling water",
		Homemade:      []string{"sparkling water with citrus and mint"},
	},
	{
		Name:          "energy drinks",
		Keywords:      []string{"energy drink", "sports drink", "electrolyte"},
		MustContain:   []string{"energy", "electrolyte", "sports"},
		Exclude:       []string{"bar", "gel"},
		FallbackQuery: "electrolyte drink",
	},
	{
		Name:          "juice",
		Keywords:      []string{"juice", "lemonade", "fruit punch", "nectar"},
		MustContain:   []string{"juice", "lemonade", "nectar"},
		Exclude:       []string{"gummy", "candy", "concentrate"},
		FallbackQuery: "100 percent juice",
		Homemade:      []string{"fresh-squeezed juice diluted with water"},
	},
	{
		Name:          "yogurt",
		Keywords:      []string{"yogurt", "yoghurt", "kefir"},
		MustContain:   []string{"yogurt", "yoghurt", "kefir", "skyr"},
		Exclude:       []string{"covered", "coated", "frozen"},
		FallbackQuery: "plain greek yogurt",
		Homemade:      []string{"plain yogurt with fresh fruit and honey"},
	},
	{
		Name:          "ice cream",
		Keywords:      []string{"ice cream", "frozen dessert", "gelato", "sherbet", "sorbet", "frozen yogurt"},
		MustContain:   []string{"ice cream", "gelato", "sorbet", "sherbet", "frozen"},
		Exclude:       []string{"cone", "topping", "sandwich cookie"},
		FallbackQuery: "frozen fruit bars",
		Homemade:      []string{"banana nice cream", "frozen berry yogurt pops"},
	},
	{
		Name:          "bread",
		Keywords:      []string{"bread", "bagel", "bun", "roll", "english muffin", "loaf"},
		MustContain:   []string{"bread", "bagel", "bun", "loaf", "muffin"},
		Exclude:       []string{"crumb", "pudding", "shortbread"},
		FallbackQuery: "whole grain bread",
		Homemade:      []string{"no-knead whole wheat bread"},
	},
	{
		Name:          "pasta",
		Keywords:      []string{"pasta", "spaghetti", "macaroni", "penne", "noodle"},
		MustContain:   []string{"pasta", "spaghetti", "macaroni", "noodle", "penne"},
		Exclude:       []string{"sauce", "salad kit", "cup"},
		FallbackQuery: "whole wheat pasta",
		Homemade:      []string{"zucchini noodles", "chickpea pasta from scratch"},
	},
	{
		Name:          "pasta sauce",
		Keywords:      []string{"pasta sauce", "marinara", "alfredo", "tomato sauce"},
		MustContain:   []string{"sauce", "marinara", "alfredo"},
		Exclude:       []string{"soy", "hot sauce", "barbecue"},
		FallbackQuery: "marinara sauce",
		Homemade:      []string{"simple crushed-tomato marinara"},
	},
	{
		Name:          "condiments",
		Keywords:      []string{"ketchup", "mustard", "mayonnaise", "mayo", "barbecue sauce", "hot sauce", "relish"},
		MustContain:   []string{"ketchup", "mustard", "mayo", "sauce", "relish"},
		Exclude:       []string{"pasta", "marinara", "alfredo"},
		FallbackQuery: "no sugar added condiments",
	},
	{
		Name:          "salad dressing",
		Keywords:      []string{"dressing", "vinaigrette", "ranch"},
		MustContain:   []string{"dressing", "vinaigrette"},
		Exclude:       []string{"stuffing", "bandage"},
		FallbackQuery: "olive oil vinaigrette",
		Homemade:      []string{"olive oil and lemon vinaigrette"},
	},
	{
		Name:          "nut butter",
		Keywords:      []string{"peanut butter", "almond butter", "nut butter", "hazelnut spread"},
		MustContain:   []string{"butter", "spread"},
		Exclude:       []string{"dairy", "stick", "margarine"},
		FallbackQuery: "natural peanut butter",
		Homemade:      []string{"single-ingredient blended nut butter"},
	},
	{
		Name:          "frozen pizza",
		Keywords:      []string{"frozen pizza", "pizza"},
		MustContain:   []string{"pizza"},
		Exclude:       []string{"sauce", "seasoning", "roll"},
		FallbackQuery: "cauliflower crust pizza",
		Homemade:      []string{"flatbread pizza with fresh vegetables"},
	},
	{
		Name:          "frozen meals",
		Keywords:      []string{"frozen dinner", "frozen meal", "frozen entree", "tv dinner", "microwave meal"},
		MustContain:   []string{"frozen", "entree", "meal", "bowl"},
		Exclude:       []string{"dessert", "ice cream", "pizza"},
		FallbackQuery: "frozen vegetable bowl",
	},
	{
		Name:          "soup",
		Keywords:      []string{"soup", "broth", "chowder", "bisque", "ramen"},
		MustContain:   []string{"soup", "broth", "chowder", "ramen"},
		Exclude:       []string{"mix", "bowl cup"},
		FallbackQuery: "low sodium soup",
		Homemade:      []string{"big-batch vegetable soup"},
	},
	{
		Name:          "cheese",
		Keywords:      []string{"cheese", "cheddar", "mozzarella", "string cheese"},
		MustContain:   []string{"cheese", "cheddar", "mozzarella"},
		Exclude:       []string{"cracker", "puff", "flavored chip", "macaroni"},
		FallbackQuery: "natural cheese",
	},
	{
		Name:          "deli meat",
		Keywords:      []string{"deli", "lunch meat", "lunchmeat", "salami", "bologna", "sliced ham", "sliced turkey"},
		MustContain:   []string{"deli", "sliced", "salami", "bologna", "ham", "turkey"},
		Exclude:       []string{"sandwich kit", "frozen"},
		FallbackQuery: "nitrate free deli meat",
	},
}

// Classifier maps free product text onto the static taxonomy.
type Classifier struct {
	types []domain.ProductType
}

// NewClassifier returns a classifier over the built-in taxonomy.
func NewClassifier() *Classifier {
	return &Classifier{types: productTaxonomy}
}

// Classify returns the first taxonomy entry whose detection keywords match
// the text. Deterministic: ties go to the earlier-declared entry.
func (c *Classifier) Classify(text string) (*domain.ProductType, bool) {
	lower := strings.ToLower(text)
	for i := range c.types {
		for _, kw := range c.types[i].Keywords {
			if strings.Contains(lower, kw) {
				return &c.types[i], true
			}
		}
	}
	return nil, false
}

// MatchesType reports whether candidate text belongs to the type: at least
// one MustContain keyword present and no Exclude keyword present. Exclusion
// always wins over inclusion.
func MatchesType(text string, t *domain.ProductType) bool {
	lower := strings.ToLower(text)
	for _, kw := range t.Exclude {
		if strings.Contains(lower, kw) {
			return false
		}
	}
	for _, kw := range t.MustContain {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
