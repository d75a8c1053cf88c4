package views

import (
	"html/template"

	"github.com/sbilibin2017/gw-inventory/internal/models"
)

// Base is shared by every page.
type Base struct {
	Title     string
	LoggedIn  bool
	Flash     string
	FlashKind string // success or error
}

// ItemsPage lists items on / and /search.
type ItemsPage struct {
	Base
	Items    []models.ItemDB
	Query    string
	Sort     string
	Searched bool
	SortKeys []string
	Error    string
}

// ItemForm holds raw form values so a rejected form is shown as submitted.
type ItemForm struct {
	Name        string
	Quantity    string
	Price       string
	Description string
	ImageURL    string
	CategoryID  string
	Supplier    string
}

// ItemFormPage renders the add and update forms.
type ItemFormPage struct {
	Base
	Action         string
	Submit         string
	Form           ItemForm
	Categories     []models.CategoryDB
	Errors         []string
	UploadsEnabled bool
}

// CategoriesPage lists categories with create, rename and delete forms.
type CategoriesPage struct {
	Base
	Categories []models.CategoryDB
	Errors     []string
}

// LoginPage renders the login form.
type LoginPage struct {
	Base
	Identifier string
	Error      string
}

// RegisterPage renders the registration form.
type RegisterPage struct {
	Base
	Username string
	Email    string
	Errors   []string
}

// ChartPage renders the quantity and price chart.
type ChartPage struct {
	Base
	TotalValue string
	ItemCount  int
	ChartData  template.JS
}

// ErrorPage renders a status page.
type ErrorPage struct {
	Base
	Status  int
	Message string
}
