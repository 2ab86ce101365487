package memory

// Distance returns the Levenshtein distance between a and b, or -1 when it
// exceeds maxDistance. Rows stop early once every cell is over the bound.
func Distance(a, b string, maxDistance int) int {
	ra, rb := []rune(a), []rune(b)
	if abs(len(ra)-len(rb)) > maxDistance {
		return -1
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		rowMin := curr[0]
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
			if curr[j] < rowMin {
				rowMin = curr[j]
			}
		}
		if rowMin > maxDistance {
			return -1
		}
		prev, curr = curr, prev
	}

	if d := prev[len(rb)]; d <= maxDistance {
		return d
	}
	return -1
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
