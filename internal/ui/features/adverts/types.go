package adverts

// Messages shown in the flash area.
const (
	LoadErrorPrefix   = "Failed to fetch adverts: "
	CreateErrorPrefix = "Failed to create advert: "
	DeleteErrorPrefix = "Failed to delete advert: "

	// MissingFieldsMessage is shown before any request is made.
	MissingFieldsMessage = "Title and Description are required."

	CreatedMessage = "Advert created successfully!"
	DeletedMessage = "Advert deleted successfully!"
)

// CreateSignals is the create form's signal payload.
type CreateSignals struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	PhotoURL    string `json:"photoUrl"`
}
