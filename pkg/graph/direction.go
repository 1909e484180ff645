package graph

// reversedIndex maps logical position i of an n-position graph to its index
// when counting from the C-terminal end, and back.
func reversedIndex(n, i int) int {
	return n - 1 - i
}
