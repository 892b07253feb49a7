// internal/domain/content/catalog.go
package content

import "github.com/shopspring/decimal"

var reviews = []Review{
	{
		Name:   "Deepak Kumar",
		Image:  "../imgs/profile1.jpeg",
		Rating: 4,
		Review: "Foodie is the best! Besides the many delicious meals, the service is excellent, especially the fast delivery. I highly recommend Foodie to you.",
	},
	{
		Name:   "Priya Roy",
		Image:  "../imgs/profile2.jpeg",
		Rating: 5,
		Review: "Fresh ingredients, a creative menu, and warm service make this spot a hidden gem. Perfect for casual dinners or special nights out. Truly a foodie's paradise!",
	},
	{
		Name:   "Anjali Joshi",
		Image:  "../imgs/profile3.jpeg",
		Rating: 5,
		Review: "Had an amazing time here! The food was bursting with flavor and the staff made us feel truly welcome. Definitely a spot I'll be coming back to.",
	},
}

var restaurants = []Restaurant{
	{Name: "Spice Affair", Type: "Authentic Indian Cuisine", Rating: 4.7, Distance: "1.2 km", Image: "../imgs/rest1.png"},
	{Name: "Urban Eatery", Type: "Modern Café & Grill", Rating: 4.6, Distance: "0.8 km", Image: "../imgs/rest2.png"},
	{Name: "Sushi Haven", Type: "Fresh Japanese Rolls", Rating: 4.8, Distance: "1.5 km", Image: "../imgs/rest3.png"},
	{Name: "The Green Bowl", Type: "Healthy Salads & Smoothies", Rating: 4.5, Distance: "2.1 km", Image: "../imgs/rest4.png"},
	{Name: "Delici", Type: "Italian Delights", Rating: 4.9, Distance: "1.8 km", Image: "../imgs/rest5.png"},
	{Name: "Kovason", Type: "Korean BBQ", Rating: 4.7, Distance: "2.5 km", Image: "../imgs/rest6.png"},
	{Name: "Mezban", Type: "Traditional Biryani House", Rating: 4.8, Distance: "1.3 km", Image: "../imgs/rest7.png"},
}

var menu = []MenuItem{
	{ID: 1, Name: "Margherita Pizza", Category: "Pizza", Price: decimal.NewFromInt(250), Image: "../imgs/pizza.png"},
	{ID: 2, Name: "Paneer Tikka Pizza", Category: "Pizza", Price: decimal.NewFromInt(320), Image: "../imgs/pizza2.png"},
	{ID: 3, Name: "Veg Burger", Category: "Burger", Price: decimal.NewFromInt(149), Image: "../imgs/burger.png"},
	{ID: 4, Name: "Chicken Burger", Category: "Burger", Price: decimal.NewFromInt(189), Image: "../imgs/burger2.png"},
	{ID: 5, Name: "Hyderabadi Biryani", Category: "Rice", Price: decimal.NewFromInt(280), Image: "../imgs/biryani.png"},
	{ID: 6, Name: "Masala Dosa", Category: "South Indian", Price: decimal.NewFromInt(120), Image: "../imgs/dosa.png"},
	{ID: 7, Name: "Pav Bhaji", Category: "Street Food", Price: decimal.NewFromInt(110), Image: "../imgs/pavbhaji.png"},
	{ID: 8, Name: "Cold Coffee", Category: "Beverages", Price: decimal.RequireFromString("89.50"), Image: "../imgs/coffee.png"},
}

var socials = []Social{
	{Name: "GitHub", Href: "https://github.com/janavipandole", Icon: "../imgs/GitHub.webp"},
	{Name: "LinkedIn", Href: "https://www.linkedin.com/in/janavi-pandole-80a7b2290", Icon: "../imgs/linkdin.webp"},
	{Name: "YouTube", Href: "https://www.youtube.com/@JanaviPandole", Icon: "../imgs/youtube.webp"},
	{Name: "Twitter", Href: "https://x.com/JanaviPandole", Icon: "../imgs/twitter.webp"},
}

var footerSections = []FooterSection{
	{
		Key: "footer.ourMenu",
		Links: []FooterLink{
			{Key: "footer.special", Href: "Special-dishes.html"},
			{Key: "footer.popular", Href: "popular.html"},
			{Key: "footer.category", Href: "../html/index.html"},
		},
	},
	{
		Key: "footer.company",
		Links: []FooterLink{
			{Key: "footer.whyFoodie", Href: "#"},
			{Key: "footer.partnerWithUs", Href: "../html/PartnerWithUs.html"},
			{Key: "footer.rideWithUs", Href: "./rideWithUs.html"},
			{Key: "footer.aboutUs", Href: "../html/aboutUs.html"},
			{Key: "footer.faq", Href: "faq-page.html"},
		},
	},
	{
		Key: "footer.support",
		Links: []FooterLink{
			{Key: "footer.account", Href: "../html/signup.html"},
			{Key: "footer.supportCenter", Href: "../html/supportCenter.html"},
			{Key: "footer.feedback", Href: "../html/feedback.html"},
			{Key: "footer.contactUs", Href: "../html/contactUs.html"},
			{Key: "footer.contributors", Href: "../html/contributors.html"},
		},
	},
}

// english labels used when a bundle lacks a key
var footerFallbacks = map[string]string{
	"footer.description":   "We will fill your tummy with delicious food with fast delivery",
	"footer.ourMenu":       "Our Menu",
	"footer.special":       "Special",
	"footer.popular":       "Popular",
	"footer.category":      "Category",
	"footer.company":       "Company",
	"footer.whyFoodie":     "Why Foodie",
	"footer.partnerWithUs": "Partner with us",
	"footer.rideWithUs":    "Ride With Us",
	"footer.aboutUs":       "About us",
	"footer.faq":           "FAQ's",
	"footer.support":       "Support",
	"footer.account":       "Account",
	"footer.supportCenter": "Support center",
	"footer.feedback":      "Feedback",
	"footer.contactUs":     "Contact Us",
	"footer.contributors":  "Contributors",
}
