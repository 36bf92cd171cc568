package safety

import "regexp"

// Pattern tables are data, not logic: each list can be extended (notably
// with Telugu and Hindi terms) without touching the classifier itself.

// defaultProfanityWords is the base word list for the profanity filter.
// Matching is case-insensitive substring matching over the submitted text.
var defaultProfanityWords = []string{
	"fuck",
	"shit",
	"bitch",
	"asshole",
	"bastard",
	"dickhead",
	"motherfucker",
	// Telugu (transliterated)
	"lanja",
	"dengey",
	"puka",
	"lavda",
	// Hindi (transliterated)
	"chutiya",
	"bhosdi",
	"madarchod",
	"bhenchod",
}

// toxicPatterns match insults, self-harm incitement, scam accusations and
// hostile Telugu/Hindi phrases. The toxic stage stops at the first match.
var toxicPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\byou(?:'?re| are)?\s+(?:an?\s+)?(?:stupid|idiot|moron|dumb|ugly|worthless|pathetic)\b`),
	regexp.MustCompile(`(?i)\b(?:kill\s+your\s*self|kys|go\s+die|drink\s+poison|hang\s+your\s*self)\b`),
	regexp.MustCompile(`(?i)\b(?:fake\s+news|paid\s+media|scam(?:mer)?|fraud(?:ster)?|cheater)\b`),
	regexp.MustCompile(`(?i)\b(?:nonsense|rubbish|trash)\s+(?:fellow|person|hero|actor|movie)\b`),
	// Telugu/Hindi hostility (transliterated)
	regexp.MustCompile(`(?i)\b(?:nee\s+amma|nee\s+yabba|chee\s+chee|waste\s+fellow|buddoda)\b`),
	regexp.MustCompile(`(?i)\b(?:pagal|bewakoof|kamina|haramkhor)\b`),
}

// spamURLPatterns match links and link-like strings.
var spamURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)https?://\S+`),
	regexp.MustCompile(`(?i)\bwww\.\S+`),
	regexp.MustCompile(`(?i)\b\S+\.(?:com|in|net|org|xyz|info)/\S*`),
}

// spamPromoPatterns match promotional and grow-my-channel phrasing.
var spamPromoPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:whatsapp|telegram)\b`),
	regexp.MustCompile(`(?i)\bjoin\s+(?:now|fast|today|group)\b`),
	regexp.MustCompile(`(?i)\bearn\s+money\b`),
	regexp.MustCompile(`(?i)\b(?:follow\s+me|subscribe|sub4sub|like\s+and\s+share)\b`),
	regexp.MustCompile(`(?i)\b(?:lottery|jackpot|free\s+recharge|cash\s+prize)\b`),
}

// positivePatterns match positive sentiment in English and Telugu, plus
// celebratory emoji. Evaluated only when the toxic stage has not fired.
var positivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:amazing|awesome|superb|excellent|fantastic|wonderful|brilliant|great)\b`),
	regexp.MustCompile(`(?i)\b(?:love(?:d)?\s+(?:it|this)|blockbuster|goosebumps|mass|classic)\b`),
	regexp.MustCompile(`(?i)\b(?:congratulations|congrats|all\s+the\s+best|best\s+wishes)\b`),
	// Telugu (transliterated)
	regexp.MustCompile(`(?i)\b(?:adirindi|keka|semma|chala\s+bagundi|super\s*(?:ga)?\s*undi|veyyi)\b`),
	regexp.MustCompile(`[🔥❤️😍🥰👏🎉💯✨]`),
}

// Comment length limits. Violations are advisory; they never shadow-ban.
const (
	minCommentLength = 2
	maxCommentLength = 1000
)

// repeatRunThreshold is the run length of a single repeated character that
// marks a comment as spam ("aaaa", "!!!!").
const repeatRunThreshold = 4
