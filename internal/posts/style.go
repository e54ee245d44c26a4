package posts

import "strings"

// TwitterStyle selects wording for short posts.
type TwitterStyle string

const (
	TwitterShip    TwitterStyle = "ship"
	TwitterDevlog  TwitterStyle = "devlog"
	TwitterMinimal TwitterStyle = "minimal"
)

// LinkedInStyle selects wording for medium-form posts.
type LinkedInStyle string

const (
	LinkedInProfessional LinkedInStyle = "professional"
	LinkedInStory        LinkedInStyle = "story"
	LinkedInWins         LinkedInStyle = "wins"
)

// TwitterStyles lists the accepted short-post styles, default first.
var TwitterStyles = []TwitterStyle{TwitterShip, TwitterDevlog, TwitterMinimal}

// LinkedInStyles lists the accepted medium-post styles, default first.
var LinkedInStyles = []LinkedInStyle{LinkedInProfessional, LinkedInStory, LinkedInWins}

// ParseTwitterStyle maps a name to a style, falling back to TwitterShip.
func ParseTwitterStyle(name string) TwitterStyle {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, s := range TwitterStyles {
		if string(s) == name {
			return s
		}
	}
	return TwitterShip
}

// ParseLinkedInStyle maps a name to a style, falling back to
// LinkedInProfessional.
func ParseLinkedInStyle(name string) LinkedInStyle {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, s := range LinkedInStyles {
		if string(s) == name {
			return s
		}
	}
	return LinkedInProfessional
}
