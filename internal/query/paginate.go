package query

// DefaultPageSize размер страницы по умолчанию.
const DefaultPageSize = 10

// PageSizes допустимые размеры страницы в интерфейсе.
var PageSizes = []int{5, 10, 20, 50}

// ValidPageSize сообщает, что size входит в PageSizes.
func ValidPageSize(size int) bool {
	for _, opt := range PageSizes {
		if size == opt {
			return true
		}
	}
	return false
}

// Page одна страница последовательности.
type Page[T any] struct {
	Items      []T `json:"items"`
	Index      int `json:"page"`
	Size       int `json:"per_page"`
	TotalItems int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// TotalPages возвращает ceil(total/size), но не меньше одной страницы.
func TotalPages(total, size int) int {
	if size < 1 {
		size = DefaultPageSize
	}
	pages := (total + size - 1) / size
	if pages < 1 {
		pages = 1
	}
	return pages
}

// Paginate вырезает страницу pageIndex размера pageSize из items.
// Страница за пределами последовательности пуста; индекс не корректируется.
func Paginate[T any](items []T, pageSize, pageIndex int) Page[T] {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageIndex < 1 {
		pageIndex = 1
	}

	page := Page[T]{
		Items:      []T{},
		Index:      pageIndex,
		Size:       pageSize,
		TotalItems: len(items),
		TotalPages: TotalPages(len(items), pageSize),
	}

	start := (pageIndex - 1) * pageSize
	if start >= len(items) {
		return page
	}
	end := min(start+pageSize, len(items))
	page.Items = items[start:end]
	return page
}

// StartRow номер первой строки страницы, начиная с 1, или 0 для пустого списка.
func (p Page[T]) StartRow() int {
	if p.TotalItems == 0 || len(p.Items) == 0 {
		return 0
	}
	return (p.Index-1)*p.Size + 1
}

// EndRow номер последней строки страницы.
func (p Page[T]) EndRow() int {
	if len(p.Items) == 0 {
		return 0
	}
	return (p.Index-1)*p.Size + len(p.Items)
}

// HasPrevious сообщает, доступна ли кнопка «назад».
func (p Page[T]) HasPrevious() bool {
	return p.Index > 1
}

// HasNext сообщает, доступна ли кнопка «вперёд».
func (p Page[T]) HasNext() bool {
	return p.Index < p.TotalPages
}

// PageNumbers номера страниц для кнопок пагинации: не больше пяти, текущая в центре.
func (p Page[T]) PageNumbers() []int {
	const maxButtons = 5
	start := max(p.Index-maxButtons/2, 1)
	end := start + maxButtons - 1
	if end > p.TotalPages {
		end = p.TotalPages
		start = max(end-maxButtons+1, 1)
	}
	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}
