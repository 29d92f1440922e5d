package utils

// ChunkBytes splits data into consecutive slices of at most size bytes. The
// final chunk may be shorter. An empty input yields no chunks.
func ChunkBytes(data []byte, size int) [][]byte {
	if size <= 0 {
		panic("chunk size must be positive")
	}

	chunks := make([][]byte, 0, (len(data)+size-1)/size)
	for i := 0; i < len(data); i += size {
		end := i + size
		if end > len(data) {
			end = len(data)
		}
		chunks = append(chunks, data[i:end])
	}
	return chunks
}

// Bundle splits items into consecutive groups of at most maxCount entries.
// Used to keep aggregate transactions under the ledger's inner-transaction
// limit.
func Bundle[T any](items []T, maxCount int) [][]T {
	if maxCount <= 0 {
		panic("bundle size must be positive")
	}

	bundles := make([][]T, 0, (len(items)+maxCount-1)/maxCount)
	for i := 0; i < len(items); i += maxCount {
		end := i + maxCount
		if end > len(items) {
			end = len(items)
		}
		bundles = append(bundles, items[i:end])
	}
	return bundles
}
