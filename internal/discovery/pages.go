package discovery

const (
	maxVisiblePages = 5
	halfVisible     = maxVisiblePages / 2
)

// PageItem - элемент полосы навигации: номер страницы либо многоточие.
type PageItem struct {
	Number   int  `json:"number,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
	Current  bool `json:"current,omitempty"`
}

// PageStrip строит полосу навигации не более чем из пяти соседних страниц,
// первой и последней страницы и многоточий между ними.
func PageStrip(current, total int) []PageItem {
	if total <= 0 {
		return []PageItem{}
	}

	if total <= maxVisiblePages {
		items := make([]PageItem, 0, total)
		for i := 1; i <= total; i++ {
			items = append(items, pageItem(i, current))
		}
		return items
	}

	start := max(current-halfVisible, 1)
	end := min(current+halfVisible, total)

	if current <= halfVisible {
		end = maxVisiblePages
	} else if current >= total-halfVisible {
		start = total - maxVisiblePages + 1
	}

	items := make([]PageItem, 0, maxVisiblePages+4)
	if start > 1 {
		items = append(items, pageItem(1, current))
		if start > 2 {
			items = append(items, PageItem{Ellipsis: true})
		}
	}
	for i := start; i <= end; i++ {
		items = append(items, pageItem(i, current))
	}
	if end < total {
		if end < total-1 {
			items = append(items, PageItem{Ellipsis: true})
		}
		items = append(items, pageItem(total, current))
	}

	return items
}

func pageItem(n, current int) PageItem {
	return PageItem{Number: n, Current: n == current}
}
