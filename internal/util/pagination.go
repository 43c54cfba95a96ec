package util

const DefaultPageSize = 5

// Calculate clamps page/size and returns the query offset and limit.
func Calculate(page, size int) (from, limit int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > 100 {
		size = 100
	}
	from = (page - 1) * size
	return from, size
}

// Clamp returns the normalized page and size used for response metadata.
func Clamp(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > 100 {
		size = 100
	}
	return page, size
}
