package models

// ChecklistItem is one named completion flag. A nil Done counts as not done.
type ChecklistItem struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Category string `json:"category"`
	Done     *bool  `json:"done"`
}

// IsDone applies default-false semantics.
func (i ChecklistItem) IsDone() bool {
	return i.Done != nil && *i.Done
}

// Checklist is an ordered, fixed set of items for a record type.
type Checklist []ChecklistItem

// Completion summarises a checklist.
type Completion struct {
	Total       int  `json:"total"`
	Completed   int  `json:"completed"`
	AllComplete bool `json:"all_complete"`
}

// Percentage returns completed/total as 0..100, or 0 for an empty checklist.
func (c Completion) Percentage() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Completed) * 100 / float64(c.Total)
}

// Remaining returns the number of items still open.
func (c Completion) Remaining() int {
	return c.Total - c.Completed
}

// Completion counts done items.
func (c Checklist) Completion() Completion {
	done := 0
	for _, item := range c {
		if item.IsDone() {
			done++
		}
	}
	return Completion{Total: len(c), Completed: done, AllComplete: done == len(c)}
}

// ChecklistCategory is a display group of items.
type ChecklistCategory struct {
	Name       string          `json:"name"`
	Items      []ChecklistItem `json:"items"`
	Completion Completion      `json:"completion"`
}

// ByCategory groups the items, keeping the order in which categories first appear.
func (c Checklist) ByCategory() []ChecklistCategory {
	index := make(map[string]int)
	groups := make([]ChecklistCategory, 0)
	for _, item := range c {
		pos, ok := index[item.Category]
		if !ok {
			pos = len(groups)
			index[item.Category] = pos
			groups = append(groups, ChecklistCategory{Name: item.Category})
		}
		groups[pos].Items = append(groups[pos].Items, item)
	}
	for i := range groups {
		groups[i].Completion = Checklist(groups[i].Items).Completion()
	}
	return groups
}

// Pending returns the items not yet done.
func (c Checklist) Pending() []ChecklistItem {
	out := make([]ChecklistItem, 0)
	for _, item := range c {
		if !item.IsDone() {
			out = append(out, item)
		}
	}
	return out
}

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool {
	return &b
}
