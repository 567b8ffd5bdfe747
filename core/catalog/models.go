package catalog

// The catalog is a read-only tree: Systems own Products, Products own Lessons.
// Each level carries a stable display order.

type Lesson struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Title     string `json:"title"`
	Order     int    `json:"order"`
}

type Product struct {
	ID       string   `json:"id"`
	SystemID string   `json:"system_id"`
	Name     string   `json:"name"`
	Order    int      `json:"order"`
	Lessons  []Lesson `json:"lessons"`
}

type System struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Order    int       `json:"order"`
	Products []Product `json:"products"`
}
