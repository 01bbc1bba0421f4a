package suggest

// DefaultCatalog is the curated list of example queries used when the remote
// backend cannot suggest anything.
var DefaultCatalog = []string{
	"grocery store near me",
	"kirana store",
	"fresh vegetables",
	"dairy products",
	"masala chai",
	"street food",
	"thali restaurant",
	"sweet shop",
	"bakery",
	"mobile repair",
	"electrician",
	"plumber",
	"tailor",
	"beauty parlour",
	"medical store",
	"pharmacy open now",
	"stationery shop",
	"hardware store",
	"post office",
	"bank branch",
	"government office",
	"tiffin service",
	"home delivery",
	"organic products",
}
