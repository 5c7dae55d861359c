package wheel

// Palette holds the default segment colors.
var Palette = []string{
	"#2bab5e", "#f2c054", "#5c85c7", "#db4d4d", "#f59e0b",
	"#10b981", "#8b5cf6", "#22d3ee", "#ef4444", "#f472b6",
}

// DefaultOptions are the starter segments offered on a fresh wheel.
var DefaultOptions = []string{"Pizza", "Burgers", "Tacos", "Sushi", "Salad", "Pasta"}

// RNG is the randomness needed for colors and starter weights.
// *math/rand/v2.Rand satisfies it.
type RNG interface {
	Float64() float64
	IntN(n int) int
}

// RandomColor picks a palette color.
func RandomColor(rng RNG) string {
	return Palette[rng.IntN(len(Palette))]
}
