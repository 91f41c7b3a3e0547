package domain

// Category groups deadlines under a display name and color.
type Category struct {
	ID     string `json:"id"`
	UserID string `json:"user_id,omitempty"`
	Name   string `json:"name"`
	Color  string `json:"color"`
	Icon   string `json:"icon,omitempty"`
}

// DefaultCategories is served to users who have not created any category yet.
func DefaultCategories() []Category {
	return []Category{
		{ID: "design", Name: "Design", Color: "hsl(280, 100%, 70%)"},
		{ID: "programming", Name: "Programming", Color: "hsl(200, 100%, 60%)"},
		{ID: "marketing", Name: "Marketing", Color: "hsl(340, 100%, 65%)"},
		{ID: "personal", Name: "Personal", Color: "hsl(150, 80%, 50%)"},
		{ID: "work", Name: "Work", Color: "hsl(45, 100%, 55%)"},
	}
}
