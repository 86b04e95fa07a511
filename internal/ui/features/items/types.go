package items

// Messages shown in the flash area.
const (
	CreateErrorPrefix = "Failed to create item: "
	DeleteErrorPrefix = "Failed to delete item: "

	CreatedMessage = "Item created."
	DeletedMessage = "Item deleted successfully!"
)

// CreateSignals is the create form's signal payload. ContainerID is the
// selected option value; empty means unassigned.
type CreateSignals struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	ContainerID string `json:"containerId"`
}
