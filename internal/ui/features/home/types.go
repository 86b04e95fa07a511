package home

// PageTitle is the title of the landing page.
const PageTitle = "Search"
