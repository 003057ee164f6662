package research

// #region split-text

// SplitText cuts content into overlapping fixed-size windows, rune-aware so
// multibyte text never splits mid-character. The window advances by
// size-overlap each step; the final window is whatever remains. For a fixed
// size/overlap pair the chunk count depends only on the input length.
func SplitText(content string, size, overlap int) []string {
	if size <= 0 {
		return nil
	}
	step := size - overlap
	if step <= 0 {
		step = size
	}

	runes := []rune(content)
	n := len(runes)
	if n == 0 {
		return nil
	}

	var chunks []string
	for start := 0; start < n; start += step {
		end := start + size
		if end > n {
			end = n
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == n {
			break
		}
	}
	return chunks
}

// #endregion split-text
