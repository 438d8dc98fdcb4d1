package utils

import "strings"

// The five defense systems of the 5x5x5 framework.
const (
	SystemAngiogenesis  = "ANGIOGENESIS"
	SystemRegeneration  = "REGENERATION"
	SystemMicrobiome    = "MICROBIOME"
	SystemDNAProtection = "DNA_PROTECTION"
	SystemImmunity      = "IMMUNITY"
)

var AllSystems = []string{
	SystemAngiogenesis,
	SystemRegeneration,
	SystemMicrobiome,
	SystemDNAProtection,
	SystemImmunity,
}

func ValidSystem(s string) bool {
	for _, sys := range AllSystems {
		if sys == s {
			return true
		}
	}
	return false
}

// DisplayName renders a system constant for user-facing text,
// e.g. DNA_PROTECTION -> "DNA Protection".
func DisplayName(system string) string {
	switch system {
	case SystemAngiogenesis:
		return "Angiogenesis"
	case SystemRegeneration:
		return "Regeneration"
	case SystemMicrobiome:
		return "Microbiome"
	case SystemDNAProtection:
		return "DNA Protection"
	case SystemImmunity:
		return "Immunity"
	}
	return system
}

// Key foods per defense system, from the food-science framework's tables.
// Matching against these assigns benefit tags at consumption-write time.
var KeyFoods = map[string][]string{
	SystemAngiogenesis: {
		"Tomatoes", "Apples", "Blueberries", "Strawberries", "Raspberries",
		"Blackberries", "Cranberries", "Cherries", "Oranges", "Grapefruit",
		"Pomegranate", "Red Grapes", "Bok Choy", "Kale", "Spinach",
		"Artichokes", "Beets", "Carrots", "Soybeans", "Tofu", "Edamame",
		"Chickpeas", "Lentils", "Walnuts", "Almonds", "Chia Seeds",
		"Flaxseeds", "Salmon", "Tuna", "Mackerel", "Sardines", "Green Tea",
		"Black Tea", "Extra Virgin Olive Oil", "Dark Chocolate", "Mushrooms",
	},
	SystemRegeneration: {
		"Wild Salmon", "Mackerel", "Sardines", "Anchovies", "Tuna", "Oysters",
		"Mussels", "Mangoes", "Blueberries", "Blackberries", "Cranberries",
		"Goji Berries", "Plums", "Dark Grapes", "Walnuts", "Pecans",
		"Almonds", "Flaxseeds", "Chia Seeds", "Seaweed", "Kelp", "Nori",
		"Spirulina", "Kale", "Black Tea", "Green Tea", "Coffee",
		"Extra Virgin Olive Oil", "Dark Chocolate", "Cocoa", "Eggs",
	},
	SystemMicrobiome: {
		"Kimchi", "Sauerkraut", "Kefir", "Yogurt", "Greek Yogurt", "Kombucha",
		"Miso", "Tempeh", "Natto", "Sourdough Bread", "Garlic", "Onions",
		"Leeks", "Asparagus", "Bananas", "Barley", "Oats", "Apples",
		"Flaxseeds", "Whole Grains", "Brown Rice", "Quinoa", "Black Beans",
		"Kidney Beans", "Lentils", "Chickpeas", "Broccoli",
		"Brussels Sprouts", "Artichokes", "Green Peas", "Blueberries",
		"Pomegranate", "Dark Chocolate", "Green Tea", "Mushrooms", "Kiwi",
	},
	SystemDNAProtection: {
		"Broccoli", "Broccoli Sprouts", "Cauliflower", "Brussels Sprouts",
		"Cabbage", "Kale", "Bok Choy", "Arugula", "Watercress", "Spinach",
		"Swiss Chard", "Carrots", "Sweet Potatoes", "Pumpkin", "Beets",
		"Red Bell Peppers", "Tomatoes", "Blueberries", "Blackberries",
		"Strawberries", "Raspberries", "Oranges", "Lemons", "Grapefruits",
		"Kiwi", "Papaya", "Guava", "Pomegranate", "Turmeric", "Ginger",
		"Garlic", "Oregano", "Rosemary", "Green Tea", "Walnuts", "Almonds",
		"Brazil Nuts", "Lentils", "Dark Chocolate", "Olive Oil", "Mushrooms",
	},
	SystemImmunity: {
		"Shiitake Mushrooms", "Maitake Mushrooms", "Oyster Mushrooms",
		"Reishi Mushrooms", "White Button Mushrooms", "Garlic", "Onions",
		"Leeks", "Shallots", "Oranges", "Lemons", "Limes", "Grapefruits",
		"Blueberries", "Blackberries", "Strawberries", "Elderberries",
		"Broccoli", "Cauliflower", "Brussels Sprouts", "Kale", "Spinach",
		"Red Bell Peppers", "Sweet Potatoes", "Carrots", "Ginger", "Turmeric",
		"Oregano", "Thyme", "Almonds", "Walnuts", "Sunflower Seeds",
		"Pumpkin Seeds", "Oysters", "Salmon", "Yogurt", "Kefir", "Kimchi",
		"Sauerkraut", "Pomegranate", "Kiwi", "Green Tea", "Honey",
	},
}

// foodIndex maps normalized food name -> systems it benefits.
var foodIndex = buildFoodIndex()

func buildFoodIndex() map[string][]string {
	idx := make(map[string][]string)
	for _, system := range AllSystems {
		for _, food := range KeyFoods[system] {
			key := NormalizeFoodName(food)
			idx[key] = append(idx[key], system)
		}
	}
	return idx
}

// NormalizeFoodName canonicalizes a food name for matching and
// deduplication: case-insensitive, whitespace-collapsed.
func NormalizeFoodName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// MatchFood returns the defense systems benefited by a food name. Exact
// normalized matches win; otherwise a containment match against the catalog
// ("wild salmon" matches "salmon") is attempted.
func MatchFood(name string) []string {
	key := NormalizeFoodName(name)
	if key == "" {
		return nil
	}
	if systems, ok := foodIndex[key]; ok {
		return systems
	}

	seen := make(map[string]bool)
	var systems []string
	for catalogKey, tagged := range foodIndex {
		if !containsWord(key, catalogKey) && !containsWord(catalogKey, key) {
			continue
		}
		for _, s := range tagged {
			if !seen[s] {
				seen[s] = true
				systems = append(systems, s)
			}
		}
	}
	return systems
}

// containsWord reports whether needle appears in haystack on word
// boundaries, so "tea" does not match "steak".
func containsWord(haystack, needle string) bool {
	if needle == "" {
		return false
	}
	words := strings.Fields(haystack)
	target := strings.Fields(needle)
	if len(target) == 0 || len(target) > len(words) {
		return false
	}
	for i := 0; i+len(target) <= len(words); i++ {
		match := true
		for j, t := range target {
			if words[i+j] != t {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// SuggestFoods returns up to n key foods for a system, used to parameterize
// food-suggestion recommendations.
func SuggestFoods(system string, n int) []string {
	foods := KeyFoods[system]
	if n <= 0 || n > len(foods) {
		n = len(foods)
	}
	out := make([]string, n)
	copy(out, foods[:n])
	return out
}
