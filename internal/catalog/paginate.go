package catalog

const PageSize = 8

func Page(list []Product, page, size int) []Product {
	if page < 1 || size < 1 || page > TotalPages(len(list), size) {
		return []Product{}
	}

	start := (page - 1) * size
	if start >= len(list) {
		return []Product{}
	}
	end := min(start+size, len(list))

	return list[start:end:end]
}

// TotalPages is never below 1 so that an empty list still has a page to show.
func TotalPages(count, size int) int {
	if size < 1 || count <= 0 {
		return 1
	}
	return (count-1)/size + 1
}
