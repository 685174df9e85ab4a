package model

// Envelope 是整个界面统一使用的分页数据形态 {items, totalItems, totalPages, currentPage}。
type Envelope[T any] struct {
	Items        []T `json:"items"`
	TotalItems   int `json:"totalItems"`
	TotalPages   int `json:"totalPages"`
	CurrentPage  int `json:"currentPage"`
	ItemsPerPage int `json:"itemsPerPage"`
}

// EmptyEnvelope 返回一个空但结构完整的分页结果
func EmptyEnvelope[T any](page, perPage int) Envelope[T] {
	if page < 1 {
		page = 1
	}
	return Envelope[T]{
		Items:        []T{},
		TotalItems:   0,
		TotalPages:   0,
		CurrentPage:  page,
		ItemsPerPage: perPage,
	}
}

// IsEmpty 判断本页是否没有数据
func (e Envelope[T]) IsEmpty() bool {
	return len(e.Items) == 0
}

// TotalPagesFor 根据总条数与每页条数计算总页数
func TotalPagesFor(totalItems, perPage int) int {
	if totalItems <= 0 || perPage <= 0 {
		return 0
	}
	return (totalItems + perPage - 1) / perPage
}
