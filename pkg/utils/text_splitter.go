package utils

import "unicode"

// SplitText splits text into chunks of at most chunkSize runes, each sharing
// overlap runes with the previous one. A chunk is cut at the last whitespace
// in its final quarter when there is one, so words are rarely split.
func SplitText(text string, chunkSize int, overlap int) []string {
	runes := []rune(text)
	if chunkSize <= 0 || len(runes) <= chunkSize {
		return []string{text}
	}

	step := chunkSize - overlap
	if step <= 0 {
		step = chunkSize
	}

	var chunks []string
	for start := 0; start < len(runes); {
		end := start + chunkSize
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}

		cut := end
		for i := end; i > end-chunkSize/4 && i > start; i-- {
			if unicode.IsSpace(runes[i-1]) {
				cut = i
				break
			}
		}
		chunks = append(chunks, string(runes[start:cut]))

		next := start + step - (end - cut)
		if next <= start {
			next = start + 1
		}
		start = next
	}
	return chunks
}
