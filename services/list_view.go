package services

import (
	"strings"

	"kings-admin/models"

	"golang.org/x/text/cases"
)

const DefaultPageSize = 5

// ViewState эфемерное состояние списка: поисковая строка и номер страницы
type ViewState struct {
	Query string
	Page  int
}

// ListView строит отфильтрованную постраничную проекцию записей.
// Исходная коллекция никогда не изменяется.
type ListView struct {
	pageSize int
}

func NewListView(pageSize int) *ListView {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &ListView{pageSize: pageSize}
}

func (v *ListView) PageSize() int {
	return v.pageSize
}

// Filter оставляет записи, у которых имя, фамилия, email или страна
// содержат запрос без учёта регистра. Порядок сохраняется.
func (v *ListView) Filter(records []models.UserRecord, query string) []models.UserRecord {
	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(query))

	filtered := make([]models.UserRecord, 0, len(records))
	for _, rec := range records {
		if needle == "" || matches(fold, rec, needle) {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}

func matches(fold cases.Caser, rec models.UserRecord, needle string) bool {
	for _, field := range []string{rec.FirstName, rec.LastName, rec.Email, rec.Country} {
		if strings.Contains(fold.String(field), needle) {
			return true
		}
	}
	return false
}

// TotalPages ceil(count / pageSize)
func (v *ListView) TotalPages(count int) int {
	return (count + v.pageSize - 1) / v.pageSize
}

// ClampPage возвращает номер страницы в диапазоне [1, max(totalPages, 1)]
func (v *ListView) ClampPage(page, count int) int {
	last := v.TotalPages(count)
	if last < 1 {
		last = 1
	}
	if page < 1 {
		return 1
	}
	if page > last {
		return last
	}
	return page
}

// Paginate возвращает срез [(page-1)*size, page*size) без коррекции номера страницы
func (v *ListView) Paginate(filtered []models.UserRecord, page int) []models.UserRecord {
	if page < 1 {
		return nil
	}
	start := (page - 1) * v.pageSize
	if start >= len(filtered) {
		return nil
	}
	end := start + v.pageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end]
}

// Build строит страницу для отображения; номер страницы прижимается к допустимому диапазону
func (v *ListView) Build(records []models.UserRecord, state ViewState) models.ListPage {
	filtered := v.Filter(records, state.Query)
	page := v.ClampPage(state.Page, len(filtered))
	totalPages := v.TotalPages(len(filtered))

	links := make([]models.PageLink, 0, totalPages)
	for n := 1; n <= totalPages; n++ {
		links = append(links, models.PageLink{Number: n, Active: n == page})
	}

	items := v.Paginate(filtered, page)
	if items == nil {
		items = []models.UserRecord{}
	}

	return models.ListPage{
		Items:      items,
		Query:      state.Query,
		Total:      len(filtered),
		Page:       page,
		PerPage:    v.pageSize,
		TotalPages: totalPages,
		Pages:      links,
	}
}
