package containers

// Messages shown in the flash area.
const (
	LoadErrorPrefix   = "Failed to fetch containers: "
	CreateErrorPrefix = "Failed to create container: "
	DeleteErrorPrefix = "Failed to delete container: "
	AddItemPrefix     = "Failed to add item: "

	CreatedMessage   = "Container created."
	DeletedMessage   = "Container deleted."
	ItemAddedMessage = "Item added."
)

// DefaultColor pre-fills the colour picker of the create form.
const DefaultColor = "#4caf50"

// CreateSignals is the create form's signal payload.
type CreateSignals struct {
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

// itemNameSignal is the signal holding the add-item input of one container.
func itemNameSignal(id string) string {
	return "itemName" + id
}
