package registry

// DefaultSites is the block list seeded on first install.
var DefaultSites = []string{
	"facebook.com",
	"twitter.com",
	"instagram.com",
	"youtube.com",
}
