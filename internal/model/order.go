package model

// Flag values stored for every checkbox-style attribute.
const (
	Yes = "Yes"
	No  = "No"
)

// TimestampLayout is the ISO-8601 layout orders are stamped with.
const TimestampLayout = "2006-01-02T15:04:05.000000"

// MaxCommentsLength is counted in characters, not bytes.
const MaxCommentsLength = 256

// Names of the fields posted by the order form.
const (
	FieldBread            = "bread"
	FieldSweets           = "sweets"
	FieldBars             = "bars"
	FieldChoco            = "choco"
	FieldFruits           = "fruits"
	FieldVegetable        = "vegetable"
	FieldCollegeAvailable = "college-available"
	FieldComments         = "comments"
)

type Order struct {
	ID               int64  `json:"id"`
	Bread            int    `json:"bread"`
	Sweets           string `json:"sweets"`
	Bars             string `json:"bars"`
	Choco            string `json:"choco"`
	Fruits           string `json:"fruits"`
	Vegetable        string `json:"vegetable"`
	CollegeAvailable string `json:"collegeAvailable"`
	Comments         string `json:"comments"`
	Timestamp        string `json:"timestamp"`
}

// OrderForm is the raw submission. Checkbox fields hold whatever value the
// browser sent and are empty when the box was not ticked.
type OrderForm struct {
	Bread            string
	Sweets           string
	Bars             string
	Choco            string
	Fruits           string
	Vegetable        string
	CollegeAvailable string
	Comments         string
}

// Decoration is the decorative content shown on the confirmation page.
type Decoration struct {
	CatFact       string
	CatPictureURL string
}
