package models

// PageLink элемент переключателя страниц
type PageLink struct {
	Number int  `json:"number"`
	Active bool `json:"active"`
}

// ListPage проекция списка для отображения
type ListPage struct {
	Items      []UserRecord `json:"data"`
	Query      string       `json:"query"`
	Total      int          `json:"total"`
	Page       int          `json:"page"`
	PerPage    int          `json:"per_page"`
	TotalPages int          `json:"total_pages"`
	Pages      []PageLink   `json:"pages"`
}

// Empty true, если под фильтр не попала ни одна запись
func (p ListPage) Empty() bool {
	return p.Total == 0
}

// PaginatedResponse ответ JSON API со списком
type PaginatedResponse struct {
	ListPage
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
}
