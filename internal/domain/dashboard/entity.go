package dashboard

type Status string

const (
	StatusActive      Status = "active"
	StatusMaintenance Status = "maintenance"
	StatusInactive    Status = "inactive"
)

// Dashboard describes one externally hosted tool. Descriptors are static and
// read-only.
type Dashboard struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	URL          string   `json:"url"`
	Icon         string   `json:"icon"`
	Color        string   `json:"color"`
	Category     string   `json:"category"`
	Status       Status   `json:"status"`
	HasAPI       bool     `json:"hasAPI"`
	APIEndpoint  string   `json:"apiEndpoint,omitempty"`
	RequiresAuth bool     `json:"requiresAuth"`
	AuthType     string   `json:"authType"`
	Features     []string `json:"features"`
	Tags         []string `json:"tags"`
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// CategoryAll matches every dashboard
const CategoryAll = "all"
