package core

// Container is a named, colored storage bucket that items can be assigned to.
type Container struct {
	ID          int64  `json:"id" validate:"gt=0"`
	Name        string `json:"name"`
	Color       string `json:"color"` // any CSS color value
	Description string `json:"description"`
}

// Item is a named object optionally assigned to one Container.
type Item struct {
	ID          int64  `json:"id" validate:"gt=0"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	// ContainerID is a nullable foreign key into Container. Nil means unassigned.
	ContainerID *int64 `json:"containerId"`
}

// Assigned reports whether the item carries a container reference.
func (i Item) Assigned() bool {
	return i.ContainerID != nil
}

// EnrichedItem is an Item whose container reference has been resolved.
// It is derived on the client and never persisted.
type EnrichedItem struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	// Container is the resolved container, or nil when the item is unassigned
	// or references a container that no longer exists.
	Container *Container `json:"container"`
}

// Advert is a promotional entry shown in the rotating display.
type Advert struct {
	ID          int64   `json:"id" validate:"gt=0"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	PhotoURL    *string `json:"photoUrl"`
}

// Photo returns the advert's photo URL, or "" when none is set.
func (a Advert) Photo() string {
	if a.PhotoURL == nil {
		return ""
	}
	return *a.PhotoURL
}

// NewContainer is the payload for creating a container.
type NewContainer struct {
	Name        string `json:"name" validate:"notblank,max=100"`
	Color       string `json:"color" validate:"notblank,csscolor"`
	Description string `json:"description" validate:"max=500"`
}

// NewItem is the payload for creating an item.
type NewItem struct {
	Name        string `json:"name" validate:"notblank,max=100"`
	Type        string `json:"type" validate:"max=100"`
	Description string `json:"description" validate:"max=500"`
	ContainerID *int64 `json:"containerId" validate:"omitempty,gt=0"`
}

// NewAdvert is the payload for creating an advert.
type NewAdvert struct {
	Title       string  `json:"title" validate:"notblank,max=200"`
	Description string  `json:"description" validate:"notblank,max=2000"`
	PhotoURL    *string `json:"photoUrl" validate:"omitempty,http_url"`
}
