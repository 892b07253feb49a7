// internal/domain/content/entity.go
package content

import "github.com/shopspring/decimal"

// MaxStars is the width of a rating row
const MaxStars = 5

// Review is a customer testimonial
type Review struct {
	Name   string `json:"name"`
	Image  string `json:"image"`
	Rating int    `json:"rating"`
	Review string `json:"review"`
	Stars  []bool `json:"stars"`
}

// Restaurant is a nearby partner restaurant card
type Restaurant struct {
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Rating   float64 `json:"rating"`
	Distance string  `json:"distance"`
	Image    string  `json:"image"`
}

// MenuItem is a dish that can be added to the cart
type MenuItem struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
}

// FooterLink is a footer entry. Label is resolved from Key for the
// requested language.
type FooterLink struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Href  string `json:"href"`
}

// FooterSection is a titled column of footer links
type FooterSection struct {
	Key   string       `json:"key"`
	Title string       `json:"title"`
	Links []FooterLink `json:"links"`
}

// Social is a footer social-media link
type Social struct {
	Name string `json:"name"`
	Href string `json:"href"`
	Icon string `json:"icon"`
}

// Footer is the site footer
type Footer struct {
	Description string          `json:"description"`
	Socials     []Social        `json:"socials"`
	Sections    []FooterSection `json:"sections"`
}
