package visitor

import "strings"

// botMarkers are lowercase substrings that identify automated user agents.
// The list covers the crawlers, fetchers and scripting clients that show up
// against a public counter endpoint; it errs on the side of matching, since
// a bot visit still gets an image, just not a count.
var botMarkers = []string{
	"bot",
	"crawler",
	"spider",
	"slurp",
	"curl/",
	"wget/",
	"python-requests",
	"python-urllib",
	"go-http-client",
	"java/",
	"okhttp",
	"libwww-perl",
	"httpclient",
	"headlesschrome",
	"phantomjs",
	"scrapy",
	"facebookexternalhit",
	"whatsapp",
	"telegrambot",
	"slackbot",
	"discordbot",
	"embedly",
	"pingdom",
	"uptimerobot",
	"statuscake",
	"newrelicpinger",
	"feedfetcher",
	"feedparser",
	"mediapartners-google",
	"apis-google",
	"archive.org",
	"ia_archiver",
	"semrush",
	"ahrefs",
	"mj12",
	"lighthouse",
	"preview",
	"monitor",
	"scanner",
	"validator",
}

// IsBot classifies a user-agent string as automated. It is a pure function:
// no I/O, deterministic, safe for concurrent use.
func IsBot(userAgent string) bool {
	ua := strings.ToLower(userAgent)
	for _, marker := range botMarkers {
		if strings.Contains(ua, marker) {
			return true
		}
	}
	return false
}
