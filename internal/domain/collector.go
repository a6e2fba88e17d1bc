package domain

// ItemCollector накапливает записи в порядке добавления до заданного предела.
// Записи сверх предела молча отбрасываются и только подсчитываются.
type ItemCollector struct {
	items   []Item
	limit   int
	dropped int
}

// NewItemCollector создает коллектор с пределом limit.
// Неположительный limit заменяется на MaxFeedItems.
func NewItemCollector(limit int) *ItemCollector {
	if limit <= 0 {
		limit = MaxFeedItems
	}
	return &ItemCollector{
		items: make([]Item, 0, min(limit, MaxFeedItems)),
		limit: limit,
	}
}

// Add добавляет запись и сообщает, была ли она принята.
func (c *ItemCollector) Add(item Item) bool {
	if len(c.items) >= c.limit {
		c.dropped++
		return false
	}
	c.items = append(c.items, item)
	return true
}

func (c *ItemCollector) Len() int { return len(c.items) }

// Dropped возвращает количество отброшенных записей.
func (c *ItemCollector) Dropped() int { return c.dropped }

// Items возвращает принятые записи.
func (c *ItemCollector) Items() []Item { return c.items }
