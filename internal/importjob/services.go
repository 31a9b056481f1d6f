package importjob

import "sort"

// serviceKeys maps the lower-cased label from a "# Rules for <label>" header
// to the key used in the document's rules object.
// Every label the upstream import job script uses must be listed here.
var serviceKeys = map[string]string{
	"pixiv":               "pixiv",
	"nijie.info":          "nijie",
	"patreon":             "patreon",
	"newgrounds":          "newgrounds",
	"mastodon instances":  "mastodon",
	"misskey instances":   "misskey",
	"webtoons":            "webtoons",
	"danbooru":            "danbooru",
	"aibooru":             "aibooru",
	"atfbooru":            "atfbooru",
	"gelbooru":            "gelbooru",
	"sankaku":             "sankaku",
	"sankaku idolcomplex": "sankakuIdolcomplex",
	"hentaifoundry":       "hentaiFoundry",
	"deviantart":          "deviantArt",
	"twitter":             "twitter",
	"bluesky":             "bluesky",
	"kemono.party":        "kemonoParty",
	"coomer.party":        "coomerParty",
	"3dbooru":             "_3dbooru",
	"safebooru":           "safebooru",
	"tumblr":              "tumblr",
	"fantia":              "fantia",
	"fanbox":              "fanbox",
	"lolibooru":           "lolibooru",
	"yande.re":            "yandere",
	"artstation":          "artstation",
	"imgur":               "imgur",
	"seiso.party":         "seisoParty",
	"rule34.xxx":          "rule34xxx",
	"e621":                "e621",
	"furaffinity":         "furaffinity",
	"instagram":           "instagram",
	"redgifs":             "redgifs",
	"tiktok":              "tiktok",
	"reddit":              "reddit",
	"iwara":               "iwara",
}

// LookupService returns the canonical key for a normalized (trimmed, lower-cased) label.
func LookupService(label string) (string, bool) {
	key, ok := serviceKeys[label]
	return key, ok
}

// ServiceLabels returns every known label in sorted order.
func ServiceLabels() []string {
	labels := make([]string, 0, len(serviceKeys))
	for label := range serviceKeys {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}
